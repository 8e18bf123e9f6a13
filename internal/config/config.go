// Package config loads application configuration from the environment,
// with an optional .env file for development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Port is the HTTP listen port.
	Port int

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs access tokens. Required.
	JWTSecret string

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration

	// CORSOrigin is the allowed origin for browser clients.
	CORSOrigin string

	// RateLimit is the per-IP request cap per minute.
	RateLimit int
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads configuration from environment variables. A .env file in
// the working directory is applied first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found", "error", err)
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}

	cfg := &Config{
		Port:       port,
		DBPath:     getEnv("DB_PATH", "./data/tabmate.db"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   ttl,
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		RateLimit:  rateLimit,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	return cfg, nil
}
