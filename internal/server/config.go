// Package server hosts live matches over HTTP and WebSocket: an in-memory
// match registry, seat tokens for move authorization, and an optional
// built-in random opponent.
package server

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration, sourced from the environment
// after a best-effort .env load.
type Config struct {
	Addr        string        // UTTT_ADDR, listen address
	LogLevel    string        // UTTT_LOG_LEVEL, logrus level name
	TokenSecret string        // UTTT_TOKEN_SECRET, HMAC secret for seat tokens
	TokenTTL    time.Duration // UTTT_TOKEN_TTL, seat token lifetime
	DatabaseURL string        // UTTT_DATABASE_URL, Postgres match history (empty disables)
	RedisAddr   string        // UTTT_REDIS_ADDR, action queue (empty disables)
}

// LoadConfig reads configuration from the environment. Missing variables
// fall back to development defaults; an unparseable UTTT_TOKEN_TTL is an
// error rather than a silent fallback.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        envOr("UTTT_ADDR", ":8080"),
		LogLevel:    envOr("UTTT_LOG_LEVEL", "info"),
		TokenSecret: os.Getenv("UTTT_TOKEN_SECRET"),
		TokenTTL:    24 * time.Hour,
		DatabaseURL: os.Getenv("UTTT_DATABASE_URL"),
		RedisAddr:   os.Getenv("UTTT_REDIS_ADDR"),
	}
	if raw := os.Getenv("UTTT_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse UTTT_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}
	return cfg, nil
}

// envOr returns the environment variable value, or fallback when unset or
// empty.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
