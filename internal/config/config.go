// Package config loads application configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Path string // SQLite file path, ":memory:" for ephemeral
}

// JWTConfig holds token-related configuration.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; a missing file is not an error —
// production deployments set real env vars.
//
// JWT_SECRET is the only required variable. Everything else has a default
// suitable for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            envInt("PORT", 8080),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path: envString("DB_PATH", "data/yogabook.db"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{envString("CORS_ALLOWED_ORIGIN", "http://localhost:4200")},
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required (try: openssl rand -hex 32)")
	}

	ttl, err := time.ParseDuration(envString("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid JWT_TTL: %w", err)
	}
	cfg.JWT.TTL = ttl

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
