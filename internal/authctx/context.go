package authctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Role is an operator role from the account profile.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleAccountant       Role = "accountant"
	RoleInventoryManager Role = "inventory_manager"
	RoleSales            Role = "sales"
)

// Actor identifies the authenticated operator performing a workflow call.
// Workflow services take it as an explicit parameter so writes carry a
// created_by without relying on ambient globals.
type Actor struct {
	UserID snowflake.ID
	Email  string
	Role   Role
}

func (a Actor) Valid() bool { return a.UserID != 0 }

// Is reports whether the actor holds one of the given roles. Admin passes
// every check.
func (a Actor) Is(roles ...Role) bool {
	if a.Role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

type contextKey struct{}

// WithActor attaches the authenticated actor to the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok && actor.Valid()
}

// ValidRole reports whether the raw value names a known role.
func ValidRole(raw string) bool {
	switch Role(raw) {
	case RoleAdmin, RoleAccountant, RoleInventoryManager, RoleSales:
		return true
	default:
		return false
	}
}
