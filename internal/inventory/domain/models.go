// Package domain contains the stock movement ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
)

// Movement is one append-only stock ledger row. Rows are written only at
// document state transitions or manual adjustments, never at creation.
type Movement struct {
	ID        snowflake.ID    `gorm:"primaryKey" json:"id"`
	ProductID snowflake.ID    `gorm:"index;not null" json:"product_id"`
	Type      string          `gorm:"not null" json:"type"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Reason    string          `gorm:"type:text" json:"reason,omitempty"`
	CreatedBy snowflake.ID    `gorm:"index" json:"created_by"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Movement) TableName() string { return "stock_movements" }
