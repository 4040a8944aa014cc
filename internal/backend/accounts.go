package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
)

// wireUser is the backend's user shape. Role is nullable: a freshly
// registered user has not picked one yet.
type wireUser struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     *string `json:"role"`
	Verified bool    `json:"verified"`
	Active   bool    `json:"active"`
}

func (u wireUser) toDomain() domainauth.User {
	role := domainauth.RoleUnassigned
	if u.Role != nil && *u.Role != "" {
		role = domainauth.Role(*u.Role)
	}
	return domainauth.User{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     role,
		Verified: u.Verified,
		Active:   u.Active,
	}
}

// credentialGrant is the {user, accessToken, expire} triple the backend
// returns on login and on role change. Expire is epoch milliseconds.
type credentialGrant struct {
	User        wireUser `json:"user"`
	AccessToken string   `json:"accessToken"`
	Expire      int64    `json:"expire"`
}

func (g credentialGrant) credential() domainauth.Credential {
	return domainauth.Credential{
		Token:     g.AccessToken,
		ExpiresAt: time.UnixMilli(g.Expire),
	}
}

// Login exchanges email and password for a user and a fresh credential.
// The call itself is unauthenticated; storing the credential is the caller's
// responsibility (the session service writes it atomically).
func (c *Client) Login(ctx context.Context, email, password string) (domainauth.User, domainauth.Credential, error) {
	var grant credentialGrant
	err := c.do(ctx, requestParams{
		Method: http.MethodPost,
		Path:   "/api/login",
		Body:   map[string]string{"email": email, "password": password},
		Out:    &grant,
	})
	if err != nil {
		return domainauth.User{}, domainauth.Credential{}, fmt.Errorf("login: %w", err)
	}
	return grant.User.toDomain(), grant.credential(), nil
}

// Register creates a new account. The backend sends a verification email;
// no credential is issued until the first login.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) error {
	if err := c.do(ctx, requestParams{
		Method: http.MethodPost,
		Path:   "/api/register",
		Body: map[string]string{
			"name":     in.Name,
			"email":    in.Email,
			"password": in.Password,
		},
	}); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout invalidates the server-side session on the backend. Callers clear
// the local credential regardless of this call's outcome.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, requestParams{
		Method: http.MethodDelete,
		Path:   "/api/logout",
	}); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUser is the "who am I" probe. A 401/403 here is the canonical
// "not logged in" signal the session guard consumes.
func (c *Client) CurrentUser(ctx context.Context) (domainauth.User, error) {
	var u wireUser
	err := c.do(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/api/users/admin",
		Out:    &u,
	})
	if err != nil {
		return domainauth.User{}, fmt.Errorf("current user: %w", err)
	}
	return u.toDomain(), nil
}

// ChangeRole assigns the caller's role. Role changes rotate the credential:
// the backend returns a fresh {user, accessToken, expire} triple and the old
// token stops being honored.
func (c *Client) ChangeRole(ctx context.Context, role domainauth.Role) (domainauth.User, domainauth.Credential, error) {
	var grant credentialGrant
	err := c.do(ctx, requestParams{
		Method: http.MethodPatch,
		Path:   "/api/me/role",
		Body:   map[string]string{"role": string(role)},
		Out:    &grant,
	})
	if err != nil {
		return domainauth.User{}, domainauth.Credential{}, fmt.Errorf("change role: %w", err)
	}
	return grant.User.toDomain(), grant.credential(), nil
}
