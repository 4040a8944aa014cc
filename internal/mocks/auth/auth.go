// Package auth contains simple hand-written test doubles for credential and
// gateway ports. These are lightweight and suitable for unit tests without
// codegen.
package auth

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore = (*MemoryCredentialStore)(nil)
	_ ports.AccountGateway  = (*MockAccountGateway)(nil)
)

// MemoryCredentialStore is an in-memory CredentialStore for tests. It mirrors
// the Redis adapter's semantics: single-value writes, sentinel on absence,
// idempotent clear. Safe for concurrent use.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	creds map[string]domainauth.Credential

	// Optional error injection.
	SaveErr  error
	GetErr   error
	ClearErr error
}

// NewMemoryCredentialStore creates an empty in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{creds: map[string]domainauth.Credential{}}
}

func (s *MemoryCredentialStore) Save(_ context.Context, sessionID string, cred domainauth.Credential) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		s.creds = map[string]domainauth.Credential{}
	}
	s.creds[sessionID] = cred
	return nil
}

func (s *MemoryCredentialStore) Get(_ context.Context, sessionID string) (domainauth.Credential, error) {
	if s.GetErr != nil {
		return domainauth.Credential{}, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[sessionID]
	if !ok {
		return domainauth.Credential{}, ports.ErrNoCredential
	}
	return cred, nil
}

func (s *MemoryCredentialStore) Clear(_ context.Context, sessionID string) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, sessionID)
	return nil
}

// Len reports how many credentials are stored. Test helper.
func (s *MemoryCredentialStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.creds)
}

// MockAccountGateway simulates the backend account API with deterministic
// defaults and per-method overrides.
type MockAccountGateway struct {
	LoginFunc       func(ctx context.Context, email, password string) (domainauth.User, domainauth.Credential, error)
	RegisterFunc    func(ctx context.Context, in ports.RegisterInput) error
	LogoutFunc      func(ctx context.Context) error
	CurrentUserFunc func(ctx context.Context) (domainauth.User, error)
	ChangeRoleFunc  func(ctx context.Context, role domainauth.Role) (domainauth.User, domainauth.Credential, error)

	// DefaultUser is returned when no override is set.
	DefaultUser domainauth.User
}

// NewMockAccountGateway creates a gateway double with a sensible default user.
func NewMockAccountGateway() *MockAccountGateway {
	return &MockAccountGateway{
		DefaultUser: domainauth.User{
			ID:       "user-1",
			Name:     "Mock User",
			Email:    "mock.user@example.com",
			Role:     domainauth.RoleAdmin,
			Verified: true,
			Active:   true,
		},
	}
}

func (m *MockAccountGateway) defaultCredential() domainauth.Credential {
	return domainauth.Credential{
		Token:     "mock-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func (m *MockAccountGateway) Login(ctx context.Context, email, password string) (domainauth.User, domainauth.Credential, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	user := m.DefaultUser
	user.Email = email
	return user, m.defaultCredential(), nil
}

func (m *MockAccountGateway) Register(ctx context.Context, in ports.RegisterInput) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil
}

func (m *MockAccountGateway) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockAccountGateway) CurrentUser(ctx context.Context) (domainauth.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return m.DefaultUser, nil
}

func (m *MockAccountGateway) ChangeRole(ctx context.Context, role domainauth.Role) (domainauth.User, domainauth.Credential, error) {
	if m.ChangeRoleFunc != nil {
		return m.ChangeRoleFunc(ctx, role)
	}
	user := m.DefaultUser
	user.Role = role
	return user, m.defaultCredential(), nil
}
