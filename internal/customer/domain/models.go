// Package domain contains persistence models for customers.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Customer is a buyer on the sales side of the ledger. State is the tax
// jurisdiction used for the interstate determination on invoices.
type Customer struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Email          string          `gorm:"type:text" json:"email,omitempty"`
	Phone          string          `gorm:"type:text" json:"phone,omitempty"`
	Address        string          `gorm:"type:text" json:"address,omitempty"`
	State          string          `gorm:"type:text" json:"state,omitempty"`
	GSTIN          string          `gorm:"column:gstin;type:text" json:"gstin,omitempty"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_balance"`
	CreatedBy      snowflake.ID    `gorm:"index" json:"created_by"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }
