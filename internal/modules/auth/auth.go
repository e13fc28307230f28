package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the already-authenticated caller extracted from a verified bearer token.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
}

type contextKey string

const identityKey contextKey = "github.com/georgemunganga/printa-backoffice/internal/modules/auth/identity"

// WithIdentity stores id on ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity set by Middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	if !ok || id == nil || id.UserID == uuid.Nil {
		return nil, false
	}
	return id, true
}
