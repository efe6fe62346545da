// Package config provides runtime settings for the portal client.
//
// Configuration is assembled in three layers, later layers taking
// precedence: struct defaults, a JSON file (path via -c/-config), and
// command-line flags.
package config

import "time"

// Storage backend selectors for the credential store.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds runtime settings for the portal client.
//
// Fields:
//   - ServerBaseURL: base URL of the remote authentication service.
//   - RequestTimeout: per-request timeout for the HTTP client.
//   - Storage: credential store backend (sqlite, redis, memory).
//   - StorePath: sqlite database path (sqlite backend only).
//   - RedisAddr: host:port of the Redis server (redis backend only).
//   - LogLevel: minimum log level (debug, info, warn, error).
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	Storage        string
	StorePath      string
	RedisAddr      string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
	c.Storage = StorageSQLite
	c.StorePath = "portal.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
