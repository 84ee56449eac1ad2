// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"time"
)

// Config selects and configures a Cache implementation.
type Config struct {
	// RedisURL selects the Redis cache when set; otherwise memory is used.
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
}

// New creates the cache described by cfg.
func New(cfg Config, logger *slog.Logger) (Cache, error) {
	if cfg.RedisURL == "" {
		return NewMemoryCache(MemoryCacheOptions{
			DefaultTTL:      cfg.DefaultTTL,
			CleanupInterval: time.Minute,
		}), nil
	}

	opts := DefaultRedisCacheOptions()
	opts.URL = cfg.RedisURL
	if cfg.Prefix != "" {
		opts.Prefix = cfg.Prefix
	}
	if cfg.DefaultTTL > 0 {
		opts.DefaultTTL = cfg.DefaultTTL
	}

	c, err := NewRedisCache(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	logger.Info("using redis cache", "prefix", opts.Prefix)
	return c, nil
}
