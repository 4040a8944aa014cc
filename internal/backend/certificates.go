package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// IssueResult reports how many certificates an issue run produced.
type IssueResult struct {
	IssuedCount int `json:"issued_count"`
}

// IssueCertificates triggers certificate issuance (and delivery email) for
// every attended participant of an event.
func (c *Client) IssueCertificates(ctx context.Context, eventID string) (IssueResult, error) {
	var res IssueResult
	err := c.do(ctx, requestParams{
		Method: http.MethodPost,
		Path:   "/api/events/" + url.PathEscape(eventID) + "/certificates/issue",
		Body:   map[string]string{},
		Out:    &res,
	})
	if err != nil {
		return IssueResult{}, fmt.Errorf("issue certificates: %w", err)
	}
	return res, nil
}

// Certificate is the public record used for verification. It intentionally
// exposes no participant contact details beyond the name printed on it.
type Certificate struct {
	ID          string `json:"id"`
	CertNo      string `json:"cert_no"`
	IssuedAt    string `json:"issued_at"`
	Participant struct {
		Name string `json:"name"`
	} `json:"participant"`
	Event struct {
		Title          string `json:"title"`
		CertBackground string `json:"cert_background"`
		Datetime       string `json:"datetime"`
	} `json:"event"`
}

// GetPublicCertificate fetches a certificate by ID for public verification.
// The endpoint is world-readable, so no credential is attached.
func (c *Client) GetPublicCertificate(ctx context.Context, id string) (Certificate, error) {
	var cert Certificate
	err := c.do(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/api/events/certificates/" + url.PathEscape(id) + "/public",
		Out:    &cert,
	})
	if err != nil {
		return Certificate{}, fmt.Errorf("get public certificate: %w", err)
	}
	return cert, nil
}
