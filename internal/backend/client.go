// Package backend is the authenticated request client for the remote REST
// backend. Every service function goes through Client, which attaches the
// session's bearer credential on the way out and reacts to credential
// rejection on the way back. The client never redirects and never retries a
// rejected request; interpreting an authentication failure is the caller's
// job (the session guard owns all navigation).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
)

// BreakerConfig tunes the circuit breaker in front of the backend origin.
type BreakerConfig struct {
	// MaxRequests allowed through in the half-open state. 0 means 1.
	MaxRequests uint32
	// Interval is the cyclic period for clearing counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// FailureRatio of transport failures that trips the breaker.
	FailureRatio float64
	// MinRequests before the ratio is evaluated.
	MinRequests uint32
}

// DefaultBreakerConfig returns sensible defaults for the backend breaker.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// Options groups dependencies for Client.
type Options struct {
	// BaseURL is the backend origin, e.g. "https://api.acara.example".
	// An empty value logs a loud warning but does not prevent construction;
	// calls will fail with ErrNotConfigured at call time.
	BaseURL string

	// Credentials is the store the client reads bearer tokens from and
	// clears on rejection.
	Credentials ports.CredentialStore

	// Timeout bounds each outbound request. Zero means 30s.
	Timeout time.Duration

	// Breaker tunes the circuit breaker. Zero value uses defaults.
	Breaker BreakerConfig

	// HTTPClient overrides the transport, primarily for tests.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Ensure compile-time conformance to the account gateway port.
var _ ports.AccountGateway = (*Client)(nil)

// Client is the authenticated HTTP client for the backend REST API.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	creds      ports.CredentialStore
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	logger     *slog.Logger
}

// NewClient constructs a Client. Construction never fails: a missing or bad
// base URL is reported loudly and the resulting client errors at call time.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var base *url.URL
	switch {
	case opts.BaseURL == "":
		logger.Warn("backend base URL is not set; all backend calls will fail")
	default:
		u, err := url.Parse(opts.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			logger.Warn("backend base URL is invalid; all backend calls will fail",
				"base_url", opts.BaseURL)
		} else {
			base = u
		}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	return &Client{
		base:       base,
		httpClient: httpClient,
		creds:      opts.Credentials,
		breaker:    newBreaker(opts.Breaker, logger),
		logger:     logger,
	}
}

func newBreaker(cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[*http.Response] {
	if cfg.FailureRatio <= 0 {
		cfg = DefaultBreakerConfig()
	}
	settings := gobreaker.Settings{
		Name:        "backend",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return gobreaker.NewCircuitBreaker[*http.Response](settings)
}

// requestParams groups inputs for do.
type requestParams struct {
	Method string
	Path   string
	Query  url.Values
	Body   any // JSON-encoded when non-nil
	Out    any // decoded from the response's data envelope when non-nil
}

// do builds, sends, and decodes one backend request.
//
// The bearer token is read from the credential store exactly once, before the
// request is sent; a credential cleared mid-flight is never re-read within the
// same request. Exactly one Authorization header is attached when a token is
// present, and none otherwise.
func (c *Client) do(ctx context.Context, p requestParams) error {
	req, err := c.newRequest(ctx, p)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorStatus(ctx, resp)
	}

	if p.Out == nil {
		return nil
	}
	return decodeData(resp.Body, p.Out)
}

func (c *Client) newRequest(ctx context.Context, p requestParams) (*http.Request, error) {
	if c.base == nil {
		return nil, ErrNotConfigured
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + p.Path
	if len(p.Query) > 0 {
		u.RawQuery = p.Query.Encode()
	}

	var body io.Reader = http.NoBody
	if p.Body != nil {
		raw, err := json.Marshal(p.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, p.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if p.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.attachBearer(ctx, req)
	return req, nil
}

// attachBearer sets the Authorization header from the session's stored
// credential. The token is attached even when the client-side expiry has
// passed: the backend is the final arbiter of validity, and a 401 from it is
// the canonical expiry signal.
func (c *Client) attachBearer(ctx context.Context, req *http.Request) {
	sid, ok := domainauth.SessionIDFromContext(ctx)
	if !ok || c.creds == nil {
		return
	}

	cred, err := c.creds.Get(ctx, sid)
	if err != nil {
		if !errors.Is(err, ports.ErrNoCredential) {
			c.logger.WarnContext(ctx, "credential lookup failed; sending request unauthenticated",
				"error", err)
		}
		return
	}

	req.Header.Set("Authorization", "Bearer "+cred.Token)
}

// send executes the request through the circuit breaker. Transport failures
// and 5xx responses count against the breaker; 4xx responses do not.
func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if resp.StatusCode >= 500 {
			defer drainAndClose(resp.Body)
			return nil, responseError(resp)
		}
		return resp, nil
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.WarnContext(ctx, "backend circuit breaker rejected request", "error", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp, nil
}

// handleErrorStatus translates a non-2xx response. Authentication rejections
// (401, 403) clear the stored credential before the error is surfaced so the
// next login starts clean.
func (c *Client) handleErrorStatus(ctx context.Context, resp *http.Response) error {
	err := responseError(resp)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if sid, ok := domainauth.SessionIDFromContext(ctx); ok && c.creds != nil {
			if clearErr := c.creds.Clear(ctx, sid); clearErr != nil {
				c.logger.WarnContext(ctx, "clear rejected credential failed", "error", clearErr)
			}
		}
	}

	return err
}

// dataEnvelope is the backend's standard success payload shape.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// decodeData unwraps the {"data": ...} envelope into out.
func decodeData(r io.Reader, out any) error {
	var env dataEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return errors.New("response envelope has no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
	_ = body.Close()
}
