// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dreamcore/site/internal/cache"
)

// Storage keys.
const (
	KeyAdminUsers = "dreamcore_admin_users"
	KeySettings   = "dreamcore_settings"
	KeyViolations = "dreamcore_security_violations"
)

// retainForever is the cache TTL of entries stored without expiration.
const retainForever = 10 * 365 * 24 * time.Hour

type envelope struct {
	Value      json.RawMessage `json:"value"`
	Timestamp  int64           `json:"timestamp"`
	Expiration *int64          `json:"expiration"`
}

// SecureStorage stores JSON values with an optional expiration in a cache.
// Expired or unreadable entries read as absent and are removed.
type SecureStorage struct {
	cache   cache.Cache
	entries *cache.TypedCache[envelope]
	now     func() time.Time
	logger  *slog.Logger
}

// NewSecureStorage wraps c. A nil clock uses time.Now.
func NewSecureStorage(c cache.Cache, now func() time.Time, logger *slog.Logger) *SecureStorage {
	if now == nil {
		now = time.Now
	}
	return &SecureStorage{cache: c, entries: cache.NewTypedCache[envelope](c), now: now, logger: logger}
}

// Set stores value under key. A zero expiration keeps it until removed.
func (s *SecureStorage) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	now := s.now()
	env := envelope{Value: raw, Timestamp: now.UnixMilli()}
	ttl := retainForever
	if expiration > 0 {
		exp := now.Add(expiration).UnixMilli()
		env.Expiration = &exp
		ttl = expiration
	}

	return s.entries.Set(ctx, key, env, ttl)
}

// Get decodes the value under key into dst. It reports false when the key is
// absent, expired or unreadable.
func (s *SecureStorage) Get(ctx context.Context, key string, dst any) bool {
	env, err := s.entries.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		return false
	case errors.Is(err, cache.ErrUndecodable):
		s.logger.Warn("discarding unreadable storage entry", "key", key, "error", err)
		_ = s.entries.Delete(ctx, key)
		return false
	case err != nil:
		s.logger.Warn("secure storage read failed", "key", key, "error", err)
		return false
	}

	if env.Expiration != nil && s.now().UnixMilli() > *env.Expiration {
		_ = s.entries.Delete(ctx, key)
		return false
	}
	if err := json.Unmarshal(env.Value, dst); err != nil {
		s.logger.Warn("discarding unreadable storage value", "key", key, "error", err)
		_ = s.entries.Delete(ctx, key)
		return false
	}
	return true
}

// Remove deletes key.
func (s *SecureStorage) Remove(ctx context.Context, key string) error {
	return s.entries.Delete(ctx, key)
}

// Clear deletes every entry of the underlying cache.
func (s *SecureStorage) Clear(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
