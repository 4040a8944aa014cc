package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
)

// UserQuery filters the superadmin user listing.
type UserQuery struct {
	Search string
	Role   domainauth.Role
}

// ListUsers returns platform users matching the query. Superadmin only; the
// backend enforces that and answers 403 for anyone else.
func (c *Client) ListUsers(ctx context.Context, q UserQuery) ([]domainauth.User, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("q", q.Search)
	}
	if q.Role != "" {
		query.Set("role", string(q.Role))
	}

	var wire []wireUser
	err := c.do(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/api/superadmin/users",
		Query:  query,
		Out:    &wire,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domainauth.User, 0, len(wire))
	for _, u := range wire {
		users = append(users, u.toDomain())
	}
	return users, nil
}

// UserUpdate carries the mutable fields of a platform user. Pointer fields
// are omitted when nil so updates only touch what the caller set.
type UserUpdate struct {
	Role     *domainauth.Role `json:"role,omitempty"`
	Verified *bool            `json:"verified,omitempty"`
	Active   *bool            `json:"active,omitempty"`
}

// UpdateUser patches a platform user's role or status.
func (c *Client) UpdateUser(ctx context.Context, userID string, update UserUpdate) (domainauth.User, error) {
	var u wireUser
	err := c.do(ctx, requestParams{
		Method: http.MethodPatch,
		Path:   "/api/superadmin/users/" + url.PathEscape(userID),
		Body:   update,
		Out:    &u,
	})
	if err != nil {
		return domainauth.User{}, fmt.Errorf("update user: %w", err)
	}
	return u.toDomain(), nil
}

// DeleteUser removes a platform user and their assignments.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if err := c.do(ctx, requestParams{
		Method: http.MethodDelete,
		Path:   "/api/superadmin/users/" + url.PathEscape(userID),
	}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
