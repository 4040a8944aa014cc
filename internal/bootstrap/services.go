package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/acaralabs/acara-web/config"
	redisadapter "github.com/acaralabs/acara-web/internal/adapters/redis"
	"github.com/acaralabs/acara-web/internal/adapters/stubgateway"
	"github.com/acaralabs/acara-web/internal/backend"
	"github.com/acaralabs/acara-web/internal/ports"
	"github.com/acaralabs/acara-web/internal/service"
)

// ServiceDeps contains dependencies for building the service container.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the constructed application services.
type ServiceContainer struct {
	Credentials *redisadapter.CredentialStore
	Backend     *backend.Client
	Sessions    *service.SessionService
}

// NewServices wires the credential store, backend client, and session
// service from configuration.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	creds := redisadapter.NewCredentialStoreWithPrefix(deps.RedisClient, cfg.Redis.KeyPrefix)

	client := backend.NewClient(backend.Options{
		BaseURL:     cfg.Backend.BaseURL,
		Credentials: creds,
		Timeout:     cfg.Backend.Timeout,
		Breaker: backend.BreakerConfig{
			MaxRequests:  cfg.Backend.BreakerMaxRequests,
			Interval:     cfg.Backend.BreakerInterval,
			Timeout:      cfg.Backend.BreakerTimeout,
			FailureRatio: cfg.Backend.BreakerFailureRatio,
			MinRequests:  cfg.Backend.BreakerMinRequests,
		},
		Logger: logger,
	})

	// Without a configured backend in dev mode, sessions run against the
	// in-memory stub so login works locally. Data routes still need a real
	// backend either way.
	var gateway ports.AccountGateway = client
	if cfg.IsDev && cfg.Backend.BaseURL == "" {
		logger.Warn("no backend configured in dev mode; using in-memory stub gateway")
		gateway = stubgateway.NewGateway(creds)
	}

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Gateway:     gateway,
		Credentials: creds,
		Logger:      logger,
	})

	return ServiceContainer{
		Credentials: creds,
		Backend:     client,
		Sessions:    sessions,
	}
}
