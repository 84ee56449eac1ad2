// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/config"
	"github.com/dreamcore/site/internal/geoip"
	"github.com/dreamcore/site/internal/logging"
	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/security"
	"github.com/dreamcore/site/internal/store"
	"github.com/dreamcore/site/internal/supabase"
)

// app holds what every command needs: configuration, the logger, the local
// database and the data backend.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	monitor *security.Monitor
	geo     *geoip.Resolver
	db      *sql.DB
	store   *store.Store
	backend backend.Backend
}

// bootstrap loads configuration, sets up logging and opens the migrated
// local database. The caller closes the database.
func bootstrap() (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	geo, geoErr := geoip.Open(cfg.GeoIPDBPath, nil)
	monitor := security.NewMonitor(security.WithCountryResolver(geo))
	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel), monitor,
		logging.WithRequestPath(middleware.GetRequestPath))
	slog.SetDefault(logger)
	if geoErr != nil {
		slog.Warn("geoip database unavailable, country lookup disabled", "path", cfg.GeoIPDBPath, "error", geoErr)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, monitor: monitor, geo: geo, db: db, store: store.New(db)}
	a.backend = a.store
	if cfg.UseSupabase() {
		a.backend = supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, 0)
		slog.Info("using hosted backend", "url", cfg.SupabaseURL)
	} else {
		slog.Info("using local backend")
	}
	return a, nil
}

func (a *app) close() {
	if err := a.geo.Close(); err != nil {
		slog.Error("error closing geoip database", "error", err)
	}
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database connection", "error", err)
	}
}
