// Package domain contains sales invoice models and the payment status
// rules shared by the invoice and purchase workflows.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice header. Tax columns are computed once at creation and never
// recomputed from the catalog afterwards.
type Invoice struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	Number        string          `gorm:"uniqueIndex;not null" json:"number"`
	CustomerID    snowflake.ID    `gorm:"index;not null" json:"customer_id"`
	Status        string          `gorm:"not null;default:draft" json:"status"`
	PaymentStatus string          `gorm:"not null;default:unpaid" json:"payment_status"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_paid"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	CGST          decimal.Decimal `gorm:"column:cgst;type:decimal(20,4);default:0" json:"cgst"`
	SGST          decimal.Decimal `gorm:"column:sgst;type:decimal(20,4);default:0" json:"sgst"`
	IGST          decimal.Decimal `gorm:"column:igst;type:decimal(20,4);default:0" json:"igst"`
	Tax           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	IncludeGST    bool            `gorm:"not null;default:true" json:"include_gst"`
	IsInterstate  bool            `gorm:"not null;default:false" json:"is_interstate"`
	PlaceOfSupply string          `gorm:"type:text" json:"place_of_supply,omitempty"`
	DueDate       datatypes.Date  `json:"due_date,omitempty"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	PublicToken   string          `gorm:"uniqueIndex" json:"public_token"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     snowflake.ID    `gorm:"index" json:"created_by"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Balance is the amount still owed.
func (i Invoice) Balance() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}

// InvoiceItem is an immutable line snapshot. Later catalog edits do not
// touch persisted lines.
type InvoiceItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID    `gorm:"index;not null" json:"invoice_id"`
	ProductID   snowflake.ID    `gorm:"index;not null" json:"product_id"`
	ProductName string          `gorm:"not null" json:"product_name"`
	HSNCode     string          `gorm:"column:hsn_code;type:text" json:"hsn_code,omitempty"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	GSTRate     decimal.Decimal `gorm:"column:gst_rate;type:decimal(20,4);default:0" json:"gst_rate"`
	CGSTAmount  decimal.Decimal `gorm:"column:cgst_amount;type:decimal(20,4);default:0" json:"cgst_amount"`
	SGSTAmount  decimal.Decimal `gorm:"column:sgst_amount;type:decimal(20,4);default:0" json:"sgst_amount"`
	IGSTAmount  decimal.Decimal `gorm:"column:igst_amount;type:decimal(20,4);default:0" json:"igst_amount"`
	Total       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// Payment is one receipt against an invoice.
type Payment struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID       snowflake.ID    `gorm:"index;not null" json:"invoice_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	PaymentMethodID snowflake.ID    `gorm:"index" json:"payment_method_id,omitempty"`
	ReferenceNumber string          `gorm:"type:text" json:"reference_number,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	PaymentDate     time.Time       `gorm:"not null" json:"payment_date"`
	CreatedBy       snowflake.ID    `gorm:"index" json:"created_by"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "invoice_payments" }
