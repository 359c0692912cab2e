package domain

import (
	"context"
	"errors"
	"time"

	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/shopspring/decimal"
)

type CreateInvoiceItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type CreateInvoiceRequest struct {
	CustomerID    string                     `json:"customer_id"`
	Items         []CreateInvoiceItemRequest `json:"items"`
	IncludeGST    *bool                      `json:"include_gst"`
	PlaceOfSupply string                     `json:"place_of_supply"`
	DueDate       *time.Time                 `json:"due_date"`
	Notes         string                     `json:"notes"`
	Notify        bool                       `json:"notify"`
}

type RecordPaymentRequest struct {
	InvoiceID       string          `json:"invoice_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethodID string          `json:"payment_method_id"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	PaymentDate     *time.Time      `json:"payment_date"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ListInvoiceRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	CustomerID    string `form:"customer_id"`
	Limit         int    `form:"limit"`
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(ctx context.Context, actor authctx.Actor, req CreateInvoiceRequest) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	GetByPublicToken(ctx context.Context, token string) (Invoice, error)
	RecordPayment(ctx context.Context, actor authctx.Actor, req RecordPaymentRequest) (Invoice, error)
	MarkPaid(ctx context.Context, actor authctx.Actor, id string) (Invoice, error)
	UpdateStatus(ctx context.Context, actor authctx.Actor, id string, req UpdateStatusRequest) (Invoice, error)
	Delete(ctx context.Context, actor authctx.Actor, id string) error
}

var (
	ErrInvalidID        = errors.New("invalid_invoice_id")
	ErrNotFound         = errors.New("invoice_not_found")
	ErrNoItems          = errors.New("invoice_requires_items")
	ErrInvalidQuantity  = errors.New("invalid_invoice_item_quantity")
	ErrInvalidStatus    = errors.New("invalid_invoice_status")
	ErrInvalidAmount    = errors.New("invalid_payment_amount")
	ErrOverpayment      = errors.New("payment_exceeds_balance")
	ErrAlreadyPaid      = errors.New("invoice_already_paid")
	ErrCancelled        = errors.New("invoice_cancelled")
	ErrSellerStateUnset = errors.New("company_state_required")
)
