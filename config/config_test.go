package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppConfigSanitizeDefaults(t *testing.T) {
	cfg := AppConfig{}
	cfg.Sanitize()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 1, cfg.HTTP.CompressionLevel)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.InDelta(t, 0.5, cfg.Backend.BreakerFailureRatio, 0.001)
	assert.Equal(t, "cred:", cfg.Redis.KeyPrefix)
}

func TestBackendConfigSanitizeTrimsBaseURL(t *testing.T) {
	cfg := BackendConfig{BaseURL: "  https://api.example.com/ "}
	cfg.Sanitize()
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
}

func TestHTTPConfigSanitizeClampsCompressionLevel(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 42}
	cfg.Sanitize()
	assert.Equal(t, 9, cfg.CompressionLevel)

	cfg = HTTPConfig{CompressionLevel: -3}
	cfg.Sanitize()
	assert.Equal(t, 1, cfg.CompressionLevel)
}

func TestRedisConfigSanitizeQualifiesSentinelNodes(t *testing.T) {
	cfg := RedisConfig{
		SentinelPort:  "27000",
		SentinelNodes: []string{"sentinel-a", " sentinel-b:26380 ", "", "sentinel-c"},
	}
	cfg.Sanitize()
	assert.Equal(t,
		[]string{"sentinel-a:27000", "sentinel-b:26380", "sentinel-c:27000"},
		cfg.SentinelNodes)
}

func TestRedisConfigSanitizeDefaultsSentinelPort(t *testing.T) {
	cfg := RedisConfig{SentinelNodes: []string{"sentinel-a"}}
	cfg.Sanitize()
	assert.Equal(t, "26379", cfg.SentinelPort)
	assert.Equal(t, []string{"sentinel-a:26379"}, cfg.SentinelNodes)
}

func TestBackendConfigSanitizeRejectsBadRatio(t *testing.T) {
	cfg := BackendConfig{BreakerFailureRatio: 1.5}
	cfg.Sanitize()
	assert.InDelta(t, 0.5, cfg.BreakerFailureRatio, 0.001)
}
