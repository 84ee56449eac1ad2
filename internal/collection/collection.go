// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package collection keeps an in-process cached list of one backend entity
// and patches it after each successful mutation.
//
// Consistency model: the cache is eventually consistent with the backend.
// A mutation is sent to the backend first; only when it succeeds is the local
// list patched with the row the backend returned, so the backend is
// authoritative for ids and timestamps. A failed mutation leaves the list
// untouched. Nothing invalidates the cache when another process writes the
// same table; the next Load picks those changes up. Concurrent mutations are
// applied in the order their backend calls complete. Rows the mapper rejects
// are skipped by Load and fail the mutation that returned them.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dreamcore/site/internal/backend"
)

// Options describe how a Collection maps between domain records T and
// backend rows R.
type Options[T, R any] struct {
	Table    backend.Table[R]
	ToWire   func(T) R
	FromWire func(R) (T, error)
	ID       func(T) string

	// Logger reports rows skipped by Load. Nil uses slog.Default.
	Logger *slog.Logger

	// Query is used by Load.
	Query backend.Query

	// Compare orders the list. When nil, records are kept newest first and
	// Create inserts at the front.
	Compare func(a, b T) int
}

// Collection is a cached, mutable list of records backed by a backend table.
type Collection[T, R any] struct {
	opts Options[T, R]

	mu      sync.RWMutex
	records []T
	loading bool
}

// New creates an empty collection. IsLoading reports true until the first
// Load completes.
func New[T, R any](opts Options[T, R]) *Collection[T, R] {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Collection[T, R]{opts: opts, loading: true}
}

// Load fetches all rows and replaces the cached list. On error the previous
// list is kept.
func (c *Collection[T, R]) Load(ctx context.Context) error {
	rows, err := c.opts.Table.List(ctx, c.opts.Query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	records := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := c.opts.FromWire(row)
		if err != nil {
			c.opts.Logger.Warn("skipping invalid row", "error", err)
			continue
		}
		records = append(records, rec)
	}
	if c.opts.Compare != nil {
		slices.SortStableFunc(records, c.opts.Compare)
	}
	c.records = records
	return nil
}

// Warm seeds the list from a snapshot while the first Load is pending.
// It is a no-op once a Load has completed.
func (c *Collection[T, R]) Warm(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loading {
		return
	}
	c.records = slices.Clone(records)
}

// Records returns a copy of the cached list.
func (c *Collection[T, R]) Records() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

// IsLoading reports whether the first Load is still pending.
func (c *Collection[T, R]) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Get returns the cached record with the given id.
func (c *Collection[T, R]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.records[i], true
	}
	var zero T
	return zero, false
}

// Create inserts in through the backend and adds the stored record to the list.
func (c *Collection[T, R]) Create(ctx context.Context, in T) (T, error) {
	row, err := c.opts.Table.Insert(ctx, c.opts.ToWire(in))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("creating record: %w", err)
	}
	rec, err := c.opts.FromWire(row)
	if err != nil {
		return rec, fmt.Errorf("creating record: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opts.Compare == nil {
		c.records = slices.Insert(c.records, 0, rec)
		return rec, nil
	}
	i, _ := slices.BinarySearchFunc(c.records, rec, c.opts.Compare)
	// Place after existing records that compare equal.
	for i < len(c.records) && c.opts.Compare(c.records[i], rec) == 0 {
		i++
	}
	c.records = slices.Insert(c.records, i, rec)
	return rec, nil
}

// Update applies patch to the record with id and replaces the cached copy
// with the stored row.
func (c *Collection[T, R]) Update(ctx context.Context, id string, patch backend.Patch) (T, error) {
	row, err := c.opts.Table.Update(ctx, id, patch)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("updating record %s: %w", id, err)
	}
	rec, err := c.opts.FromWire(row)
	if err != nil {
		return rec, fmt.Errorf("updating record %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.records[i] = rec
	}
	if c.opts.Compare != nil {
		slices.SortStableFunc(c.records, c.opts.Compare)
	}
	return rec, nil
}

// Delete removes the record with id. It returns backend.ErrNotFound, wrapped,
// when the backend has no such row.
func (c *Collection[T, R]) Delete(ctx context.Context, id string) error {
	if err := c.opts.Table.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = slices.DeleteFunc(c.records, func(r T) bool {
		return c.opts.ID(r) == id
	})
	return nil
}

func (c *Collection[T, R]) indexOf(id string) int {
	return slices.IndexFunc(c.records, func(r T) bool {
		return c.opts.ID(r) == id
	})
}
