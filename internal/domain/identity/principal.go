package identity

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Principal is the authenticated caller. It is built once per request from
// the access token and passed explicitly to every service call.
type Principal struct {
	UserID  uuid.UUID
	Email   string
	Role    Role
	TokenID string
}

// IsAdmin reports whether the caller holds the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsZero reports whether the principal is unauthenticated
func (p Principal) IsZero() bool {
	return p.UserID == uuid.Nil
}

// RequireAdmin returns shared.ErrForbidden unless the caller is an admin
func (p Principal) RequireAdmin() error {
	if p.IsZero() {
		return shared.ErrUnauthorized
	}
	if !p.IsAdmin() {
		return shared.ErrForbidden
	}
	return nil
}

type principalKey struct{}

// WithPrincipal stores the principal in ctx
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
