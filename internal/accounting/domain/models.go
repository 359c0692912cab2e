// Package domain contains the income/expense ledger and payment methods.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction is one ledger row. Workflow modules append rows when money
// moves; manual entries come through the HTTP surface.
type Transaction struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	Type            string          `gorm:"not null" json:"type"`
	Category        string          `gorm:"type:text" json:"category,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	InvoiceID       snowflake.ID    `gorm:"index" json:"invoice_id,omitempty"`
	PurchaseID      snowflake.ID    `gorm:"index" json:"purchase_id,omitempty"`
	PaymentMethodID snowflake.ID    `gorm:"index" json:"payment_method_id,omitempty"`
	ReferenceNumber string          `gorm:"type:text" json:"reference_number,omitempty"`
	TransactionDate time.Time       `gorm:"not null" json:"transaction_date"`
	CreatedBy       snowflake.ID    `gorm:"index" json:"created_by"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }

// PaymentMethod is a named way money changes hands (cash, UPI, bank).
type PaymentMethod struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"uniqueIndex;not null" json:"name"`
	Enabled   bool         `gorm:"not null;default:true" json:"enabled"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PaymentMethod) TableName() string { return "payment_methods" }
