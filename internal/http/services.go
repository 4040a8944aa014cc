package httpx

import (
	"context"
	"io"

	"github.com/acaralabs/acara-web/internal/backend"
	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
	"github.com/acaralabs/acara-web/internal/service"
)

// SessionServiceInterface is the slice of the session service the HTTP layer
// depends on. Narrowed to an interface so handler tests can substitute doubles.
type SessionServiceInterface interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Register(ctx context.Context, in ports.RegisterInput) error
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (domainauth.User, error)
	ChangeRole(ctx context.Context, sessionID string, role domainauth.Role) (domainauth.User, error)
	SessionStatus(ctx context.Context, sessionID string) service.Status
	Discard(ctx context.Context, sessionID string)
}

// EventAPI covers the event catalogue operations handlers proxy to the backend.
type EventAPI interface {
	ListEvents(ctx context.Context) ([]backend.Event, error)
	ListMyEvents(ctx context.Context) ([]backend.Event, error)
	GetEvent(ctx context.Context, id string) (backend.Event, error)
	CreateEvent(ctx context.Context, payload backend.EventPayload) (backend.Event, error)
	UpdateEvent(ctx context.Context, id string, payload backend.EventPayload) (backend.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)
}

// OrderAPI covers registration and order listing.
type OrderAPI interface {
	ListOrders(ctx context.Context, q backend.OrderQuery) ([]backend.Order, error)
	RegisterParticipant(ctx context.Context, in backend.RegistrationInput) (backend.RegistrationResult, error)
	ApplyOrganizer(ctx context.Context, in backend.OrganizerApplication) error
}

// CertificateAPI covers certificate issuance and public verification.
type CertificateAPI interface {
	IssueCertificates(ctx context.Context, eventID string) (backend.IssueResult, error)
	GetPublicCertificate(ctx context.Context, id string) (backend.Certificate, error)
}

// DirectoryAPI covers the superadmin user directory.
type DirectoryAPI interface {
	ListUsers(ctx context.Context, q backend.UserQuery) ([]domainauth.User, error)
	UpdateUser(ctx context.Context, userID string, update backend.UserUpdate) (domainauth.User, error)
	DeleteUser(ctx context.Context, userID string) error
}
