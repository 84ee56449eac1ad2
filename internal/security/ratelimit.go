// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package security

import (
	"sync"
	"time"
)

// RateLimiter is a per-key sliding-window attempt counter.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	now      func() time.Time
}

// NewRateLimiter creates a limiter. A nil clock uses time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{attempts: make(map[string][]time.Time), now: now}
}

// Allow records an attempt for key and reports whether it is permitted.
// A denied attempt is not recorded.
func (l *RateLimiter) Allow(key string, maxAttempts int, window time.Duration) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	valid := within(l.attempts[key], now, window)
	if len(valid) >= maxAttempts {
		l.attempts[key] = valid
		return false
	}
	l.attempts[key] = append(valid, now)
	return true
}

// Reset forgets all attempts for key.
func (l *RateLimiter) Reset(key string) {
	l.mu.Lock()
	delete(l.attempts, key)
	l.mu.Unlock()
}

// Cleanup drops attempts older than window and removes empty keys. It
// returns the number of keys still tracked.
func (l *RateLimiter) Cleanup(window time.Duration) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, ts := range l.attempts {
		if valid := within(ts, now, window); len(valid) > 0 {
			l.attempts[key] = valid
		} else {
			delete(l.attempts, key)
		}
	}
	return len(l.attempts)
}

// within returns the timestamps younger than window, reusing ts.
func within(ts []time.Time, now time.Time, window time.Duration) []time.Time {
	valid := ts[:0]
	for _, t := range ts {
		if now.Sub(t) < window {
			valid = append(valid, t)
		}
	}
	return valid
}
