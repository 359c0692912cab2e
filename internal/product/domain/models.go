// Package domain contains the product catalog models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	InventoryTypeFinishedGood = "finished_good"
	InventoryTypeRawMaterial  = "raw_material"
)

// Product is a catalog row. Quantity is the live stock level and only
// moves through document state transitions or manual adjustments.
type Product struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	SKU           string          `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	Unit          string          `gorm:"type:text" json:"unit,omitempty"`
	HSNCode       string          `gorm:"column:hsn_code;type:text" json:"hsn_code,omitempty"`
	GSTRate       decimal.Decimal `gorm:"column:gst_rate;type:decimal(20,4);default:0" json:"gst_rate"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"selling_price"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	ReorderLevel  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reorder_level"`
	InventoryType string          `gorm:"default:finished_good" json:"inventory_type"`
	Barcode       string          `gorm:"type:text" json:"barcode,omitempty"`
	CreatedBy     snowflake.ID    `gorm:"index" json:"created_by"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// LowStock reports whether the product is at or below its reorder level.
func (p Product) LowStock() bool {
	return p.Quantity.LessThanOrEqual(p.ReorderLevel)
}
