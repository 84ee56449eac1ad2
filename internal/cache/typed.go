// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TypedCache stores values of type T as JSON in a Cache.
type TypedCache[T any] struct {
	cache Cache
}

// NewTypedCache wraps c.
func NewTypedCache[T any](c Cache) *TypedCache[T] {
	return &TypedCache[T]{cache: c}
}

// Get decodes the value under key. It returns ErrCacheMiss when the key is
// absent and ErrUndecodable when the stored bytes are not a T.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, error) {
	var value T
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("%w: %s: %v", ErrUndecodable, key, err)
	}
	return value, nil
}

// Set encodes value under key. A zero ttl uses the cache default.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return c.cache.Set(ctx, key, data, ttl)
}

// Delete removes key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}
