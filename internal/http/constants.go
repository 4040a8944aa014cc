package httpx

import "errors"

// SessionCookieName is the browser cookie carrying the opaque session ID.
// The bearer token itself never reaches the browser.
const SessionCookieName = "session_id"

// Shared sentinel errors for guard and middleware responses.
var (
	errAuthenticationRequired = errors.New("authentication required")
	errInsufficientRole       = errors.New("insufficient permissions for this area")
	errRoleSetupRequired      = errors.New("role setup required before accessing this area")
)

const (
	// MaxUploadBytes bounds multipart certificate background uploads.
	MaxUploadBytes = 10 << 20 // 10 MiB

	// loginPath is where unauthenticated browser traffic is sent. The login
	// page itself is rendered by the frontend application in front of this
	// service; this service only serves the POST on the same path.
	loginPath = "/auth/login"

	// roleSetupPath is where authenticated-but-unassigned users are sent.
	roleSetupPath = "/role-setup"
)
