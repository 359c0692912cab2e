package domain

import (
	"context"
	"errors"

	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/shopspring/decimal"
)

type CreateCustomerRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	State          string          `json:"state"`
	GSTIN          string          `json:"gstin"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type UpdateCustomerRequest struct {
	Name           *string          `json:"name"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	Address        *string          `json:"address"`
	State          *string          `json:"state"`
	GSTIN          *string          `json:"gstin"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
}

type ListCustomerRequest struct {
	Name string `form:"name"`
}

type ListCustomerResponse struct {
	Customers []Customer `json:"customers"`
}

type Service interface {
	Create(ctx context.Context, actor authctx.Actor, req CreateCustomerRequest) (Customer, error)
	List(ctx context.Context, req ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Update(ctx context.Context, actor authctx.Actor, id string, req UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, actor authctx.Actor, id string) error
}

var (
	ErrInvalidID   = errors.New("invalid_customer_id")
	ErrInvalidName = errors.New("invalid_customer_name")
	ErrNotFound    = errors.New("customer_not_found")
)
