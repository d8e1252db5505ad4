package auth

import (
	"context"

	"github.com/streamvault/streamvault/modules/user"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{ name string }

var identityContextKey = &contextKey{name: "auth_identity"}

// WithIdentity attaches a sanitized identity to the context.
func WithIdentity(ctx context.Context, u user.Public) context.Context {
	return context.WithValue(ctx, identityContextKey, u)
}

// IdentityFromContext returns the identity placed by the middleware.
// The second return value is false on routes the gate did not run for.
func IdentityFromContext(ctx context.Context) (user.Public, bool) {
	u, ok := ctx.Value(identityContextKey).(user.Public)
	return u, ok
}
