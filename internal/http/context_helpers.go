package httpx

import (
	"context"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
)

// userKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type userKey struct{}

// SetUserInContext returns a child context carrying the authenticated user.
func SetUserInContext(ctx context.Context, user domainauth.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the authenticated user placed in the context by the
// session guard, and a boolean indicating presence.
func UserFromContext(ctx context.Context) (domainauth.User, bool) {
	if user, ok := ctx.Value(userKey{}).(domainauth.User); ok {
		return user, true
	}
	return domainauth.User{}, false
}
