package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotConfigured is returned when the backend base URL is missing or
// unparseable. The client still constructs in that state; calls fail here.
var ErrNotConfigured = errors.New("backend base URL not configured")

// ErrCredentialRejected marks a 401/403 from the backend. The distinction
// between expiry, revocation, and a role change invalidating the old token is
// deliberately collapsed: all of them mean the session is no longer valid and
// require a fresh interactive login.
var ErrCredentialRejected = errors.New("credential rejected by backend")

// ErrUnavailable marks transport-level failures: the request never reached
// the backend, timed out, or was short-circuited by the open circuit breaker.
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx response from the backend, surfaced to the caller
// unchanged for statuses that are not authentication rejections.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend returned %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Unwrap maps authentication rejections onto ErrCredentialRejected so callers
// can use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrCredentialRejected
	}
	return nil
}

// errorBody mirrors the backend's error payload shape.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// responseError reads a non-2xx response body and translates it into an
// *APIError, preserving the backend's code and message when the body follows
// the standard shape. The body is fully consumed and closed by the caller.
func responseError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("unreadable error body: %v", err)}
	}

	var body errorBody
	if json.Unmarshal(raw, &body) == nil && (body.Error != "" || body.Message != "") {
		return &APIError{Status: resp.StatusCode, Code: body.Error, Message: body.Message}
	}

	return &APIError{Status: resp.StatusCode, Message: string(raw)}
}
