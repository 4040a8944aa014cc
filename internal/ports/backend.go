package ports

import (
	"context"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
)

// RegisterInput groups fields for account creation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AccountGateway is the slice of the backend REST API the session service
// depends on. Authenticated operations read the session ID from context
// (auth.WithSessionID); the implementation attaches the session's bearer
// credential and clears it when the backend rejects it.
type AccountGateway interface {
	// Login exchanges email/password for the user and a fresh credential.
	Login(ctx context.Context, email, password string) (domainauth.User, domainauth.Credential, error)

	// Register creates an account. No credential is issued until first login.
	Register(ctx context.Context, in RegisterInput) error

	// Logout invalidates the backend-side session, best effort.
	Logout(ctx context.Context) error

	// CurrentUser is the "who am I" probe. Credential rejection surfaces as
	// an error matching backend.ErrCredentialRejected.
	CurrentUser(ctx context.Context) (domainauth.User, error)

	// ChangeRole assigns the caller's role and returns the rotated credential.
	ChangeRole(ctx context.Context, role domainauth.Role) (domainauth.User, domainauth.Credential, error)
}
