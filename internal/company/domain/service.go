package domain

import (
	"context"
	"errors"

	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
)

type UpsertProfileRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	State   string `json:"state"`
	GSTIN   string `json:"gstin"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type Service interface {
	// Get returns the profile owned by the actor, ErrNotFound when unset.
	Get(ctx context.Context, actor authctx.Actor) (Profile, error)
	// Upsert creates the actor's profile on first call and updates it after.
	Upsert(ctx context.Context, actor authctx.Actor, req UpsertProfileRequest) (Profile, error)
	// SellerState reports the configured state of the actor's profile.
	SellerState(ctx context.Context, actor authctx.Actor) (string, error)
}

var (
	ErrInvalidName = errors.New("invalid_company_name")
	ErrNotFound    = errors.New("company_profile_not_found")
)
