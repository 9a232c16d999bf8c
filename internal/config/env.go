package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading a
// local .env file first when one exists. A missing .env file is not an
// error.
//
// Recognized variables:
//
//	TERMROOMS_BACKEND         store backend name
//	TERMROOMS_DATABASE_DSN    SQLite DSN
//	TERMROOMS_REDIS_ADDR      Redis host:port
//	TERMROOMS_SESSION_SECRET  session signing secret
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("TERMROOMS_BACKEND"); ok {
		config.StoreBackend = v
	}
	if v, ok := os.LookupEnv("TERMROOMS_DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("TERMROOMS_REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := os.LookupEnv("TERMROOMS_SESSION_SECRET"); ok {
		config.SessionSecret = v
	}
}
