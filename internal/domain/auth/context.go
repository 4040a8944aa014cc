package auth

import "context"

// sessionIDKey is an unexported context key type to avoid collisions across packages.
// Centralized here so the request client, services, and middleware agree on
// which browser session a call is made on behalf of.
type sessionIDKey struct{}

// WithSessionID returns a child context carrying the browser session ID.
// If id is empty, the original ctx is returned unchanged.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFromContext returns the session ID from context and whether one is set.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok && id != "" {
		return id, true
	}
	return "", false
}
