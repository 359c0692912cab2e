package domain

import (
	"context"
	"errors"
	"time"

	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/shopspring/decimal"
)

// CreatePurchaseItemRequest lines reference products by SKU; unknown
// SKUs seed a minimal catalog row.
type CreatePurchaseItemRequest struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	GSTRate   decimal.Decimal `json:"gst_rate"`
}

type CreatePurchaseRequest struct {
	SupplierID   string                      `json:"supplier_id"`
	Items        []CreatePurchaseItemRequest `json:"items"`
	OrderDate    *time.Time                  `json:"order_date"`
	ExpectedDate *time.Time                  `json:"expected_date"`
	Notes        string                      `json:"notes"`
}

type RecordPaymentRequest struct {
	PurchaseID      string          `json:"purchase_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethodID string          `json:"payment_method_id"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	PaymentDate     *time.Time      `json:"payment_date"`
}

type ListPurchaseRequest struct {
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	Limit      int    `form:"limit"`
}

type ListPurchaseResponse struct {
	Purchases []Purchase `json:"purchases"`
}

type Service interface {
	Create(ctx context.Context, actor authctx.Actor, req CreatePurchaseRequest) (Purchase, error)
	List(ctx context.Context, req ListPurchaseRequest) (ListPurchaseResponse, error)
	GetByID(ctx context.Context, id string) (Purchase, error)
	MarkReceived(ctx context.Context, actor authctx.Actor, id string) (Purchase, error)
	RecordPayment(ctx context.Context, actor authctx.Actor, req RecordPaymentRequest) (Purchase, error)
	Delete(ctx context.Context, actor authctx.Actor, id string) error
}

var (
	ErrInvalidID        = errors.New("invalid_purchase_id")
	ErrNotFound         = errors.New("purchase_not_found")
	ErrNoItems          = errors.New("purchase_requires_items")
	ErrInvalidQuantity  = errors.New("invalid_purchase_item_quantity")
	ErrInvalidAmount    = errors.New("invalid_payment_amount")
	ErrOverpayment      = errors.New("payment_exceeds_balance")
	ErrAlreadyPaid      = errors.New("purchase_already_paid")
	ErrAlreadyReceived  = errors.New("purchase_already_received")
	ErrCancelled        = errors.New("purchase_cancelled")
	ErrSellerStateUnset = errors.New("company_state_required")
)
