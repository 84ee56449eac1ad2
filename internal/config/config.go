// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the DreamCore server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend kinds.
const (
	BackendSQLite   = "sqlite"
	BackendSupabase = "supabase"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"dreamcore-dreamcore-dreamcore-00",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"DREAMCORE_DB_PATH" envDefault:"./data/dreamcore.db"`
	SessionSecret string `env:"DREAMCORE_SESSION_SECRET,required"`
	ServerHost    string `env:"DREAMCORE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"DREAMCORE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"DREAMCORE_ENV" envDefault:"development"`
	LogLevel      string `env:"DREAMCORE_LOG_LEVEL" envDefault:"info"`
	Language      string `env:"DREAMCORE_LANGUAGE" envDefault:"pt-BR"`
	SiteURL       string `env:"DREAMCORE_SITE_URL"` // Public base URL for robots.txt and sitemap.xml

	// Persistence backend: the local SQLite store or a hosted Supabase project.
	Backend         string `env:"DREAMCORE_BACKEND" envDefault:"sqlite"`
	SupabaseURL     string `env:"DREAMCORE_SUPABASE_URL"`
	SupabaseAnonKey string `env:"DREAMCORE_SUPABASE_ANON_KEY"`

	// Storage for settings, admin user snapshots and violation snapshots.
	RedisURL    string        `env:"DREAMCORE_REDIS_URL"`
	CachePrefix string        `env:"DREAMCORE_CACHE_PREFIX" envDefault:"dreamcore:"`
	CacheTTL    time.Duration `env:"DREAMCORE_CACHE_TTL" envDefault:"24h"`

	GeoIPDBPath string `env:"DREAMCORE_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	CarouselInterval time.Duration `env:"DREAMCORE_CAROUSEL_INTERVAL" envDefault:"8s"`
	FormMaxAttempts  int           `env:"DREAMCORE_FORM_MAX_ATTEMPTS" envDefault:"5"`
	FormWindow       time.Duration `env:"DREAMCORE_FORM_WINDOW" envDefault:"1m"`

	TrustedOrigins []string `env:"DREAMCORE_TRUSTED_ORIGINS" envSeparator:","`
	ContentFile    string   `env:"DREAMCORE_CONTENT_FILE"` // Optional YAML override for site content

	// Seeding configuration
	DoSeed        bool   `env:"DREAMCORE_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"DREAMCORE_ADMIN_EMAIL" envDefault:"admin@dreamcore.com"`
	AdminPassword string `env:"DREAMCORE_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis storage is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseSupabase returns true if the hosted backend is selected.
func (c Config) UseSupabase() bool {
	return c.Backend == BackendSupabase
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("DREAMCORE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// Validate reports invalid or inconsistent settings.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("DREAMCORE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("DREAMCORE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch c.Backend {
	case BackendSQLite:
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return errors.New("DREAMCORE_SUPABASE_URL and DREAMCORE_SUPABASE_ANON_KEY are required for the supabase backend")
		}
		if !strings.HasPrefix(c.SupabaseURL, "https://") && !c.IsDevelopment() {
			return errors.New("DREAMCORE_SUPABASE_URL must use https outside development")
		}
	default:
		return fmt.Errorf("DREAMCORE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendSupabase, c.Backend)
	}

	if c.CarouselInterval < time.Second {
		return fmt.Errorf("DREAMCORE_CAROUSEL_INTERVAL must be at least 1s, got %s", c.CarouselInterval)
	}
	if c.FormMaxAttempts < 1 || c.FormWindow <= 0 {
		return errors.New("DREAMCORE_FORM_MAX_ATTEMPTS and DREAMCORE_FORM_WINDOW must be positive")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
