// Copyright (c) 2026 Film8X. All rights reserved.

/*
Package config maps the process environment into the one immutable Config
struct the rest of Film8X is wired from.

All knobs come from environment variables (twelve-factor style); required
ones fail Load up front so a misconfigured deployment dies at boot instead
of at first request.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting of the API server.
type Config struct {
	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// PostgreSQL
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath points at the SQL migration directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Redis
	RedisURL string `env:"REDIS_URL,required"`

	// JWTSecret signs both session tokens (HMAC).
	JWTSecret string `env:"JWT_SECRET,required"`

	// ExtraOrigins lists additional CORS origins, comma-separated.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// Load parses the environment, failing when a required variable is absent.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (cfg *Config) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction reports whether the server runs in production mode.
func (cfg *Config) IsProduction() bool {
	return cfg.Environment == "production"
}

// AllowedOrigins splits EXTRA_ORIGINS into a cleaned origin list.
func (cfg *Config) AllowedOrigins() []string {
	if cfg.ExtraOrigins == "" {
		return nil
	}

	var origins []string
	for _, origin := range strings.Split(cfg.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// SecureCookies reports whether session cookies must carry the Secure flag.
// Only disabled in development so local HTTP testing keeps working.
func (cfg *Config) SecureCookies() bool {
	return !cfg.IsDevelopment()
}
