package config

import "strings"

// RedisConfig contains Redis configuration for the credential store.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`

	// KeyPrefix namespaces credential keys so the store can share a Redis
	// with other tenants.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"cred:"`
}

// Sanitize applies guardrails to Redis configuration values.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	if r.KeyPrefix == "" {
		r.KeyPrefix = "cred:"
	}
	if r.SentinelPort == "" {
		r.SentinelPort = "26379"
	}
	r.SentinelNodes = qualifySentinelNodes(r.SentinelNodes, r.SentinelPort)
}

// qualifySentinelNodes appends the default sentinel port to nodes given as a
// bare host, so SENTINEL_NODES can list hosts and SENTINEL_PORT once.
func qualifySentinelNodes(nodes []string, port string) []string {
	result := make([]string, 0, len(nodes))
	for _, node := range nodes {
		node = strings.TrimSpace(node)
		if node == "" {
			continue
		}
		if !strings.Contains(node, ":") {
			node = node + ":" + port
		}
		result = append(result, node)
	}
	return result
}
