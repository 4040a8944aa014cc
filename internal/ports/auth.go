// Package ports defines interfaces (hexagonal ports) for credential and
// session behavior. Implementations live in internal/adapters; orchestration
// in internal/service.
package ports

import (
	"context"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
)

// CredentialStore persists the bearer credential for a browser session.
// Token and expiry are always written and removed together; a stored
// credential is either fully present or fully absent.
type CredentialStore interface {
	// Save stores the credential for the session, overwriting any prior value.
	// Both fields are written in a single operation.
	Save(ctx context.Context, sessionID string, cred domainauth.Credential) error

	// Get returns the stored credential. Absence is reported via
	// ErrNoCredential, independent of client-side expiry.
	Get(ctx context.Context, sessionID string) (domainauth.Credential, error)

	// Clear removes the credential. Clearing an empty store is a no-op.
	Clear(ctx context.Context, sessionID string) error
}

// ErrNoCredential is returned by CredentialStore.Get when no credential is
// stored for the session.
type noCredentialError struct{}

func (noCredentialError) Error() string { return "no credential stored" }

var ErrNoCredential error = noCredentialError{}
