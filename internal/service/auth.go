package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Gateway     ports.AccountGateway
	Credentials ports.CredentialStore
	Logger      *slog.Logger
}

// SessionService orchestrates the session lifecycle: login stores a fresh
// credential under a new browser session, role changes rotate it, logout and
// rejection destroy it. It owns no navigation; callers interpret its errors.
type SessionService struct {
	gateway ports.AccountGateway
	creds   ports.CredentialStore
	logger  *slog.Logger
}

// ErrInvalidRole is returned when a role-setup request names a role users
// cannot self-assign.
var ErrInvalidRole = errors.New("invalid role selection")

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		gateway: opts.Gateway,
		creds:   opts.Credentials,
		logger:  logger,
	}
}

// LoginResult contains the outcome of a successful login. ExpiresAt is the
// credential expiry so the transport layer can bound the session cookie.
type LoginResult struct {
	Session   domainauth.Session
	User      domainauth.User
	ExpiresAt time.Time
}

// Login authenticates against the backend and binds the returned credential
// to a new browser session. Token and expiry are written in one store call.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	user, cred, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("backend login: %w", err)
	}

	session := domainauth.Session{ID: generateSessionID()}
	if saveErr := s.creds.Save(ctx, session.ID, cred); saveErr != nil {
		return nil, fmt.Errorf("save credential: %w", saveErr)
	}

	return &LoginResult{Session: session, User: user, ExpiresAt: cred.ExpiresAt}, nil
}

// Discard drops the session's local credential without contacting the
// backend. The guard uses it when a session turns out to be dead so a stray
// credential never outlives the cookie.
func (s *SessionService) Discard(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.creds.Clear(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "discard credential failed", "error", err)
	}
}

// Register creates a backend account. No session is established; the user
// logs in interactively afterwards.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput) error {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return errors.New("name, email, and password are required")
	}
	if err := s.gateway.Register(ctx, in); err != nil {
		return fmt.Errorf("backend register: %w", err)
	}
	return nil
}

// Logout tears down the session. The backend call is best effort: the local
// credential is cleared regardless of its outcome so the next login starts
// clean.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to log out
	}

	ctx = domainauth.WithSessionID(ctx, sessionID)
	if err := s.gateway.Logout(ctx); err != nil {
		s.logger.WarnContext(ctx, "backend logout failed; clearing local credential anyway", "error", err)
	}

	if err := s.creds.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// CurrentUser resolves the session's principal through the backend probe.
// The user is fetched fresh every time and never cached across requests; a
// rejected credential has already been cleared by the request client when
// the error surfaces here.
func (s *SessionService) CurrentUser(ctx context.Context, sessionID string) (domainauth.User, error) {
	if sessionID == "" {
		return domainauth.User{}, errors.New("session ID is required")
	}

	ctx = domainauth.WithSessionID(ctx, sessionID)
	user, err := s.gateway.CurrentUser(ctx)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

// ChangeRole performs one-time role setup. Users may only self-assign staff
// or admin; superadmin is provisioned out of band. The rotated credential the
// backend returns overwrites the old one in a single store write.
func (s *SessionService) ChangeRole(ctx context.Context, sessionID string, role domainauth.Role) (domainauth.User, error) {
	if sessionID == "" {
		return domainauth.User{}, errors.New("session ID is required")
	}
	if role != domainauth.RoleStaff && role != domainauth.RoleAdmin {
		return domainauth.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	ctx = domainauth.WithSessionID(ctx, sessionID)
	user, cred, err := s.gateway.ChangeRole(ctx, role)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("change role: %w", err)
	}

	if saveErr := s.creds.Save(ctx, sessionID, cred); saveErr != nil {
		return domainauth.User{}, fmt.Errorf("save rotated credential: %w", saveErr)
	}
	return user, nil
}

// Status describes the session for the status endpoint.
type Status struct {
	Authenticated bool
	User          domainauth.User
	ExpiresAt     time.Time
}

// SessionStatus reports whether the session is authenticated and, if so, who
// the principal is and when the credential expires. Any failure reads as
// unauthenticated; status is informational and never blocks navigation.
func (s *SessionService) SessionStatus(ctx context.Context, sessionID string) Status {
	if sessionID == "" {
		return Status{}
	}

	cred, err := s.creds.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ports.ErrNoCredential) {
			s.logger.WarnContext(ctx, "credential lookup failed for status", "error", err)
		}
		return Status{}
	}

	user, err := s.CurrentUser(ctx, sessionID)
	if err != nil {
		return Status{}
	}

	return Status{Authenticated: true, User: user, ExpiresAt: cred.ExpiresAt}
}

// generateSessionID creates a random URL-safe browser session identifier.
func generateSessionID() string {
	return uuid.New().String()
}
