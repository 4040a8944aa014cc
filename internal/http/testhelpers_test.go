package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	backendapi "github.com/acaralabs/acara-web/internal/backend"
	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
	"github.com/acaralabs/acara-web/internal/service"
)

// fakeSessions is a SessionServiceInterface double with per-method overrides.
type fakeSessions struct {
	LoginFunc       func(ctx context.Context, email, password string) (*service.LoginResult, error)
	RegisterFunc    func(ctx context.Context, in ports.RegisterInput) error
	LogoutFunc      func(ctx context.Context, sessionID string) error
	CurrentUserFunc func(ctx context.Context, sessionID string) (domainauth.User, error)
	ChangeRoleFunc  func(ctx context.Context, sessionID string, role domainauth.Role) (domainauth.User, error)
	StatusFunc      func(ctx context.Context, sessionID string) service.Status

	discarded []string
}

func (f *fakeSessions) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, email, password)
	}
	return nil, errors.New("login not configured")
}

func (f *fakeSessions) Register(ctx context.Context, in ports.RegisterInput) error {
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, in)
	}
	return nil
}

func (f *fakeSessions) Logout(ctx context.Context, sessionID string) error {
	if f.LogoutFunc != nil {
		return f.LogoutFunc(ctx, sessionID)
	}
	return nil
}

func (f *fakeSessions) CurrentUser(ctx context.Context, sessionID string) (domainauth.User, error) {
	if f.CurrentUserFunc != nil {
		return f.CurrentUserFunc(ctx, sessionID)
	}
	return domainauth.User{}, errors.New("current user not configured")
}

func (f *fakeSessions) ChangeRole(ctx context.Context, sessionID string, role domainauth.Role) (domainauth.User, error) {
	if f.ChangeRoleFunc != nil {
		return f.ChangeRoleFunc(ctx, sessionID, role)
	}
	return domainauth.User{}, errors.New("change role not configured")
}

func (f *fakeSessions) SessionStatus(ctx context.Context, sessionID string) service.Status {
	if f.StatusFunc != nil {
		return f.StatusFunc(ctx, sessionID)
	}
	return service.Status{}
}

func (f *fakeSessions) Discard(_ context.Context, sessionID string) {
	f.discarded = append(f.discarded, sessionID)
}

var _ SessionServiceInterface = (*fakeSessions)(nil)

// staffUser and friends are fixtures for guard tests.
func testUser(role domainauth.Role) domainauth.User {
	return domainauth.User{
		ID:       "u1",
		Name:     "Test User",
		Email:    "test@example.com",
		Role:     role,
		Verified: true,
		Active:   true,
	}
}

// sessionsFor returns a fake whose probe always resolves the given user.
func sessionsFor(user domainauth.User) *fakeSessions {
	return &fakeSessions{
		CurrentUserFunc: func(_ context.Context, _ string) (domainauth.User, error) {
			return user, nil
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// request builders

func browserRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	return r
}

func apiRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r.Header.Set("Accept", "application/json")
	return r
}

func withSessionCookie(r *http.Request, sessionID string) *http.Request {
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	return r
}

// fakeEventAPI implements EventAPI for handler tests.
type fakeEventAPI struct {
	EventAPI // panic on anything not overridden

	ListEventsFunc   func(ctx context.Context) ([]backendapi.Event, error)
	ListMyEventsFunc func(ctx context.Context) ([]backendapi.Event, error)
	UpdateEventFunc  func(ctx context.Context, id string, payload backendapi.EventPayload) (backendapi.Event, error)
	UploadImageFunc  func(ctx context.Context, filename string, content io.Reader) (string, error)
}

func (f *fakeEventAPI) ListEvents(ctx context.Context) ([]backendapi.Event, error) {
	return f.ListEventsFunc(ctx)
}

func (f *fakeEventAPI) ListMyEvents(ctx context.Context) ([]backendapi.Event, error) {
	return f.ListMyEventsFunc(ctx)
}

func (f *fakeEventAPI) UpdateEvent(ctx context.Context, id string, payload backendapi.EventPayload) (backendapi.Event, error) {
	return f.UpdateEventFunc(ctx, id, payload)
}

func (f *fakeEventAPI) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	return f.UploadImageFunc(ctx, filename, content)
}
