package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	HSNCode       string          `json:"hsn_code"`
	GSTRate       decimal.Decimal `json:"gst_rate"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	InventoryType string          `json:"inventory_type"`
	Barcode       string          `json:"barcode"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Unit          *string          `json:"unit"`
	HSNCode       *string          `json:"hsn_code"`
	GSTRate       *decimal.Decimal `json:"gst_rate"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	ReorderLevel  *decimal.Decimal `json:"reorder_level"`
	InventoryType *string          `json:"inventory_type"`
	Barcode       *string          `json:"barcode"`
}

type ListProductRequest struct {
	SKU      string `form:"sku"`
	LowStock bool   `form:"low_stock"`
}

type ListProductResponse struct {
	Products []Product `json:"products"`
}

// EnsureBySKURequest seeds a minimal catalog row for a SKU first seen on a
// purchase line. Quantity starts at zero; stock arrives on receipt.
type EnsureBySKURequest struct {
	SKU       string
	Name      string
	UnitPrice decimal.Decimal
	GSTRate   decimal.Decimal
	HSNCode   string
}

type Service interface {
	Create(ctx context.Context, actor authctx.Actor, req CreateProductRequest) (Product, error)
	List(ctx context.Context, req ListProductRequest) (ListProductResponse, error)
	GetByID(ctx context.Context, id string) (Product, error)
	GetBySKU(ctx context.Context, sku string) (Product, error)
	Update(ctx context.Context, actor authctx.Actor, id string, req UpdateProductRequest) (Product, error)
	Delete(ctx context.Context, actor authctx.Actor, id string) error

	// EnsureBySKU runs inside the caller's transaction.
	EnsureBySKU(ctx context.Context, tx *gorm.DB, actor authctx.Actor, req EnsureBySKURequest) (Product, error)
	// AdjustQuantity applies a signed stock delta inside the caller's
	// transaction. Negative results are rejected.
	AdjustQuantity(ctx context.Context, tx *gorm.DB, id snowflake.ID, delta decimal.Decimal) error
}

var (
	ErrInvalidID       = errors.New("invalid_product_id")
	ErrInvalidSKU      = errors.New("invalid_product_sku")
	ErrInvalidName     = errors.New("invalid_product_name")
	ErrDuplicateSKU    = errors.New("duplicate_product_sku")
	ErrNotFound        = errors.New("product_not_found")
	ErrInsufficientQty = errors.New("insufficient_stock")
	ErrInvalidInvType  = errors.New("invalid_inventory_type")
)
