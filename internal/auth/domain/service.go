package domain

import (
	"context"
	"errors"
	"time"

	"github.com/rashidrk201111/mansoorbhai-billing/internal/authctx"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	// Verify parses a bearer token into an actor. Used by the HTTP
	// middleware on every authenticated request.
	Verify(ctx context.Context, token string) (authctx.Actor, error)
	CreateUser(ctx context.Context, actor authctx.Actor, req CreateUserRequest) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("user_not_found")
)
