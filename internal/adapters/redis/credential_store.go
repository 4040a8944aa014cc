// Package redis provides Redis-based adapters for acara-web.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
	"github.com/acaralabs/acara-web/internal/ports"
)

// retentionGrace keeps a credential readable for a while past its stated
// expiry. Expiry policy belongs to the callers, not the store: the backend is
// the final arbiter of token validity, so the store must not make a stale
// token vanish on its own the moment the client-side timestamp passes.
const retentionGrace = 24 * time.Hour

// defaultTTL bounds retention for credentials that carry no expiry at all.
const defaultTTL = 7 * 24 * time.Hour

// CredentialStore is a Redis-backed credential store for production use.
// Token and expiry are marshalled into a single value so that a write or a
// delete is atomic for both fields.
type CredentialStore struct {
	client redis.UniversalClient
	prefix string
}

// NewCredentialStore creates a Redis-backed credential store.
func NewCredentialStore(client redis.UniversalClient) *CredentialStore {
	return &CredentialStore{
		client: client,
		prefix: "cred:",
	}
}

// NewCredentialStoreWithPrefix creates a credential store with a custom key prefix.
func NewCredentialStoreWithPrefix(client redis.UniversalClient, prefix string) *CredentialStore {
	return &CredentialStore{
		client: client,
		prefix: prefix,
	}
}

func (s *CredentialStore) Save(ctx context.Context, sessionID string, cred domainauth.Credential) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if cred.Token == "" {
		return errors.New("credential token cannot be empty")
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	ttl := defaultTTL
	if !cred.ExpiresAt.IsZero() {
		ttl = time.Until(cred.ExpiresAt) + retentionGrace
		if ttl <= 0 {
			ttl = retentionGrace
		}
	}

	return s.client.Set(ctx, s.prefix+sessionID, data, ttl).Err()
}

func (s *CredentialStore) Get(ctx context.Context, sessionID string) (domainauth.Credential, error) {
	if sessionID == "" {
		return domainauth.Credential{}, ports.ErrNoCredential
	}

	data, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Credential{}, ports.ErrNoCredential
		}
		return domainauth.Credential{}, fmt.Errorf("redis get: %w", err)
	}

	var cred domainauth.Credential
	if unmarshalErr := json.Unmarshal([]byte(data), &cred); unmarshalErr != nil {
		return domainauth.Credential{}, fmt.Errorf("unmarshal credential: %w", unmarshalErr)
	}

	return cred, nil
}

func (s *CredentialStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to clear
	}

	// DEL on a missing key is a no-op in Redis, which gives us idempotence.
	return s.client.Del(ctx, s.prefix+sessionID).Err()
}
