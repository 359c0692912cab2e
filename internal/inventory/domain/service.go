package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordMovementRequest struct {
	ProductID snowflake.ID
	Type      string
	Quantity  decimal.Decimal
	Reason    string
}

// AdjustRequest is a manual restock or correction. Delta is signed.
type AdjustRequest struct {
	ProductID string          `json:"product_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
}

type ListMovementRequest struct {
	ProductID string `form:"product_id"`
	Limit     int    `form:"limit"`
}

type ListMovementResponse struct {
	Movements []Movement `json:"movements"`
}

type Service interface {
	// Record appends a movement row inside the caller's transaction.
	Record(ctx context.Context, tx *gorm.DB, actor authctx.Actor, req RecordMovementRequest) (Movement, error)
	// Adjust applies a manual stock correction: product quantity update
	// plus an adjustment movement, in one transaction.
	Adjust(ctx context.Context, actor authctx.Actor, req AdjustRequest) (Movement, error)
	List(ctx context.Context, req ListMovementRequest) (ListMovementResponse, error)
}

var (
	ErrInvalidProduct  = errors.New("invalid_movement_product")
	ErrInvalidType     = errors.New("invalid_movement_type")
	ErrInvalidQuantity = errors.New("invalid_movement_quantity")
)

// ValidType reports whether t is a known movement type.
func ValidType(t string) bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}
