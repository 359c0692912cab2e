// Package domain contains persistence models for suppliers.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Supplier is a vendor on the purchase side of the ledger.
type Supplier struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	ContactPerson  string          `gorm:"type:text" json:"contact_person,omitempty"`
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
func (Supplier) TableName() string { return "suppliers" }
