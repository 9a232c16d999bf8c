// Package config handles configuration for the terminal client,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

// Store backend names accepted by the -b flag and the JSON/env overlays.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds runtime settings for the TermRooms CLI.
//
// Fields:
//   - StoreBackend: which store implementation to use ("memory", "sqlite", "redis").
//   - DatabaseDSN: SQLite DSN (file path, or ":memory:").
//   - RedisAddr: host:port of the Redis server for the shared backend.
//   - SessionSecret: HMAC secret for signing the session token (HS256).
//     Do not use test defaults in prod.
type Config struct {
	StoreBackend  string
	DatabaseDSN   string
	RedisAddr     string
	SessionSecret string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.StoreBackend = BackendSQLite
	c.DatabaseDSN = "termrooms.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.SessionSecret = "secretKey"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
