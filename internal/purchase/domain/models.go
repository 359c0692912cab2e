// Package domain contains purchase order models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	StatusOrdered   = "ordered"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

// Purchase header. Stock moves on receipt, money moves on payment; the
// two are independent.
type Purchase struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	Number        string          `gorm:"uniqueIndex;not null" json:"number"`
	SupplierID    snowflake.ID    `gorm:"index;not null" json:"supplier_id"`
	Status        string          `gorm:"not null;default:ordered" json:"status"`
	PaymentStatus string          `gorm:"not null;default:unpaid" json:"payment_status"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_paid"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	CGST          decimal.Decimal `gorm:"column:cgst;type:decimal(20,4);default:0" json:"cgst"`
	SGST          decimal.Decimal `gorm:"column:sgst;type:decimal(20,4);default:0" json:"sgst"`
	IGST          decimal.Decimal `gorm:"column:igst;type:decimal(20,4);default:0" json:"igst"`
	Tax           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	IsInterstate  bool            `gorm:"not null;default:false" json:"is_interstate"`
	OrderDate     datatypes.Date  `json:"order_date,omitempty"`
	ExpectedDate  datatypes.Date  `json:"expected_date,omitempty"`
	ReceivedDate  *time.Time      `json:"received_date,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     snowflake.ID    `gorm:"index" json:"created_by"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Purchase) TableName() string { return "purchases" }

// Balance is the amount still owed to the supplier.
func (p Purchase) Balance() decimal.Decimal {
	return p.Total.Sub(p.AmountPaid)
}

// PurchaseItem is an immutable line snapshot carrying the split rates
// alongside the amounts.
type PurchaseItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	PurchaseID  snowflake.ID    `gorm:"index;not null" json:"purchase_id"`
	ProductID   snowflake.ID    `gorm:"index;not null" json:"product_id"`
	SKU         string          `gorm:"column:sku;not null" json:"sku"`
	ProductName string          `gorm:"not null" json:"product_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	GSTRate     decimal.Decimal `gorm:"column:gst_rate;type:decimal(20,4);default:0" json:"gst_rate"`
	CGSTRate    decimal.Decimal `gorm:"column:cgst_rate;type:decimal(20,4);default:0" json:"cgst_rate"`
	SGSTRate    decimal.Decimal `gorm:"column:sgst_rate;type:decimal(20,4);default:0" json:"sgst_rate"`
	IGSTRate    decimal.Decimal `gorm:"column:igst_rate;type:decimal(20,4);default:0" json:"igst_rate"`
	CGSTAmount  decimal.Decimal `gorm:"column:cgst_amount;type:decimal(20,4);default:0" json:"cgst_amount"`
	SGSTAmount  decimal.Decimal `gorm:"column:sgst_amount;type:decimal(20,4);default:0" json:"sgst_amount"`
	IGSTAmount  decimal.Decimal `gorm:"column:igst_amount;type:decimal(20,4);default:0" json:"igst_amount"`
	Total       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PurchaseItem) TableName() string { return "purchase_items" }

// PurchasePayment is one payment made to a supplier.
type PurchasePayment struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	PurchaseID      snowflake.ID    `gorm:"index;not null" json:"purchase_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	PaymentMethodID snowflake.ID    `gorm:"index" json:"payment_method_id,omitempty"`
	ReferenceNumber string          `gorm:"type:text" json:"reference_number,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	PaymentDate     time.Time       `gorm:"not null" json:"payment_date"`
	CreatedBy       snowflake.ID    `gorm:"index" json:"created_by"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (PurchasePayment) TableName() string { return "purchase_payments" }

// ValidStatus reports whether s is a known purchase status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOrdered, StatusReceived, StatusCancelled:
		return true
	}
	return false
}
