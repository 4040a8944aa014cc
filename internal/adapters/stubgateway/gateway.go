// Package stubgateway provides a config-free AccountGateway for local
// development. It lets the app run without a real backend: any email and
// password pair logs in, and the email's local part picks the role
// ("admin@..." becomes an admin, "super@..." a superadmin, anything else
// staff on first role setup).
package stubgateway

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
)

const tokenLifetime = 8 * time.Hour

// Gateway implements ports.AccountGateway in memory. It validates bearer
// credentials the same way the real backend does: by looking up the token
// the request client attached, read back through the credential store.
type Gateway struct {
	creds ports.CredentialStore

	mu      sync.Mutex
	byToken map[string]domainauth.User
	byEmail map[string]domainauth.User
	nextID  int
}

// Ensure compile-time conformance to the account gateway port.
var _ ports.AccountGateway = (*Gateway)(nil)

// NewGateway constructs a stub gateway reading tokens through the given store.
func NewGateway(creds ports.CredentialStore) *Gateway {
	return &Gateway{
		creds:   creds,
		byToken: make(map[string]domainauth.User),
		byEmail: make(map[string]domainauth.User),
	}
}

// Login accepts any non-empty credential pair and mints a fresh token.
func (g *Gateway) Login(_ context.Context, email, password string) (domainauth.User, domainauth.Credential, error) {
	if email == "" || password == "" {
		return domainauth.User{}, domainauth.Credential{}, errors.New("stub login: email and password are required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	user, ok := g.byEmail[email]
	if !ok {
		user = g.newUser(email)
		g.byEmail[email] = user
	}

	cred, err := g.mintLocked(user)
	if err != nil {
		return domainauth.User{}, domainauth.Credential{}, err
	}
	return user, cred, nil
}

// Register records the account so a later login finds it.
func (g *Gateway) Register(_ context.Context, in ports.RegisterInput) error {
	if in.Email == "" {
		return errors.New("stub register: email is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.byEmail[in.Email]; exists {
		return errors.New("stub register: account already exists")
	}
	user := g.newUser(in.Email)
	user.Name = in.Name
	g.byEmail[in.Email] = user
	return nil
}

// Logout invalidates the session's token.
func (g *Gateway) Logout(ctx context.Context) error {
	user, token, err := g.resolve(ctx)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.byToken, token)
	_ = user
	return nil
}

// CurrentUser answers the authenticated probe.
func (g *Gateway) CurrentUser(ctx context.Context) (domainauth.User, error) {
	user, _, err := g.resolve(ctx)
	return user, err
}

// ChangeRole assigns the role and rotates the token, like the real backend.
func (g *Gateway) ChangeRole(ctx context.Context, role domainauth.Role) (domainauth.User, domainauth.Credential, error) {
	user, token, err := g.resolve(ctx)
	if err != nil {
		return domainauth.User{}, domainauth.Credential{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	user.Role = role
	g.byEmail[user.Email] = user
	delete(g.byToken, token)

	cred, err := g.mintLocked(user)
	if err != nil {
		return domainauth.User{}, domainauth.Credential{}, err
	}
	return user, cred, nil
}

// resolve maps the session's stored token back to its user.
func (g *Gateway) resolve(ctx context.Context) (domainauth.User, string, error) {
	sessionID, ok := domainauth.SessionIDFromContext(ctx)
	if !ok {
		return domainauth.User{}, "", errors.New("stub gateway: no session in context")
	}

	cred, err := g.creds.Get(ctx, sessionID)
	if err != nil {
		return domainauth.User{}, "", fmt.Errorf("stub gateway: read credential: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	user, found := g.byToken[cred.Token]
	if !found {
		return domainauth.User{}, "", errors.New("stub gateway: unknown token")
	}
	return user, cred.Token, nil
}

// mintLocked creates a credential for the user. Caller holds g.mu.
func (g *Gateway) mintLocked(user domainauth.User) (domainauth.Credential, error) {
	token, err := randomToken(24)
	if err != nil {
		return domainauth.Credential{}, err
	}
	g.byToken[token] = user
	return domainauth.Credential{Token: token, ExpiresAt: time.Now().Add(tokenLifetime)}, nil
}

// newUser builds a user whose role follows the email's local part. Caller
// holds g.mu.
func (g *Gateway) newUser(email string) domainauth.User {
	g.nextID++

	role := domainauth.RoleUnassigned
	local := strings.SplitN(email, "@", 2)[0]
	switch {
	case strings.HasPrefix(local, "super"):
		role = domainauth.RoleSuperAdmin
	case strings.HasPrefix(local, "admin"):
		role = domainauth.RoleAdmin
	case strings.HasPrefix(local, "staff"):
		role = domainauth.RoleStaff
	}

	return domainauth.User{
		ID:       fmt.Sprintf("dev-%d", g.nextID),
		Name:     local,
		Email:    email,
		Role:     role,
		Verified: true,
		Active:   true,
	}
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
