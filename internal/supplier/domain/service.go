package domain

import (
	"context"
	"errors"

	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
	"github.com/shopspring/decimal"
)

type CreateSupplierRequest struct {
	Name           string          `json:"name"`
	ContactPerson  string          `json:"contact_person"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	State          string          `json:"state"`
	GSTIN          string          `json:"gstin"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type UpdateSupplierRequest struct {
	Name           *string          `json:"name"`
	ContactPerson  *string          `json:"contact_person"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	Address        *string          `json:"address"`
	State          *string          `json:"state"`
	GSTIN          *string          `json:"gstin"`
	OpeningBalance *decimal.Decimal `json:"opening_balance"`
}

type ListSupplierResponse struct {
	Suppliers []Supplier `json:"suppliers"`
}

type Service interface {
	Create(ctx context.Context, actor authctx.Actor, req CreateSupplierRequest) (Supplier, error)
	List(ctx context.Context) (ListSupplierResponse, error)
	GetByID(ctx context.Context, id string) (Supplier, error)
	Update(ctx context.Context, actor authctx.Actor, id string, req UpdateSupplierRequest) (Supplier, error)
	Delete(ctx context.Context, actor authctx.Actor, id string) error
}

var (
	ErrInvalidID   = errors.New("invalid_supplier_id")
	ErrInvalidName = errors.New("invalid_supplier_name")
	ErrNotFound    = errors.New("supplier_not_found")
)
