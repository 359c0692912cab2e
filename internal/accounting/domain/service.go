package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordTransactionRequest struct {
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	InvoiceID       snowflake.ID    `json:"invoice_id"`
	PurchaseID      snowflake.ID    `json:"purchase_id"`
	PaymentMethodID snowflake.ID    `json:"payment_method_id"`
	ReferenceNumber string          `json:"reference_number"`
	TransactionDate time.Time       `json:"transaction_date"`
}

type ListTransactionRequest struct {
	Type  string `form:"type"`
	Limit int    `form:"limit"`
}

type ListTransactionResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// Summary aggregates the ledger.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

type CreatePaymentMethodRequest struct {
	Name    string `json:"name"`
	Enabled *bool  `json:"enabled"`
}

type UpdatePaymentMethodRequest struct {
	Name    *string `json:"name"`
	Enabled *bool   `json:"enabled"`
}

type ListPaymentMethodResponse struct {
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

type Service interface {
	// Record appends a ledger row. When tx is non-nil the row joins the
	// caller's transaction.
	Record(ctx context.Context, tx *gorm.DB, actor authctx.Actor, req RecordTransactionRequest) (Transaction, error)
	List(ctx context.Context, req ListTransactionRequest) (ListTransactionResponse, error)
	Summarize(ctx context.Context) (Summary, error)

	CreatePaymentMethod(ctx context.Context, actor authctx.Actor, req CreatePaymentMethodRequest) (PaymentMethod, error)
	ListPaymentMethods(ctx context.Context) (ListPaymentMethodResponse, error)
	UpdatePaymentMethod(ctx context.Context, actor authctx.Actor, id string, req UpdatePaymentMethodRequest) (PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, actor authctx.Actor, id string) error
}

var (
	ErrInvalidType         = errors.New("invalid_transaction_type")
	ErrInvalidAmount       = errors.New("invalid_transaction_amount")
	ErrInvalidMethodID     = errors.New("invalid_payment_method_id")
	ErrInvalidMethodName   = errors.New("invalid_payment_method_name")
	ErrMethodNotFound      = errors.New("payment_method_not_found")
	ErrDuplicateMethodName = errors.New("duplicate_payment_method_name")
)
