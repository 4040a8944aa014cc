package config

import (
	"strings"
	"time"
)

// BackendConfig contains configuration for the remote REST backend the
// application proxies authenticated requests to.
type BackendConfig struct {
	// BaseURL is the backend origin, e.g. "https://api.acara.example".
	// Leaving it empty starts the server, but every backend call fails
	// until it is set.
	BaseURL string `env:"BASE_URL" envDefault:""`

	// Timeout bounds each outbound backend request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// Circuit breaker tuning. The breaker trips when FailureRatio of the
	// last window's requests failed, once at least BreakerMinRequests were
	// seen.
	BreakerMaxRequests  uint32        `env:"BREAKER_MAX_REQUESTS"  envDefault:"1"`
	BreakerInterval     time.Duration `env:"BREAKER_INTERVAL"      envDefault:"60s"`
	BreakerTimeout      time.Duration `env:"BREAKER_TIMEOUT"       envDefault:"30s"`
	BreakerFailureRatio float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32        `env:"BREAKER_MIN_REQUESTS"  envDefault:"5"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 30 * time.Second
	}
	if b.BreakerFailureRatio <= 0 || b.BreakerFailureRatio > 1 {
		b.BreakerFailureRatio = 0.5
	}
	if b.BreakerTimeout <= 0 {
		b.BreakerTimeout = 30 * time.Second
	}
}
