// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package security

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Form guard rejections.
var (
	ErrBotDetected = errors.New("security: automated client")
	ErrRateLimited = errors.New("security: too many submissions")
	ErrUnsafeInput = errors.New("security: unsafe input")
)

// FormGuard screens public form submissions before validation.
type FormGuard struct {
	limiter     *RateLimiter
	monitor     *Monitor
	sanitizer   *Sanitizer
	maxAttempts int
	window      time.Duration
	logger      *slog.Logger
}

// FormGuardConfig holds the submission limit per form and client.
type FormGuardConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// NewFormGuard creates a guard. Zero limits default to 5 per minute.
func NewFormGuard(limiter *RateLimiter, monitor *Monitor, sanitizer *Sanitizer, cfg FormGuardConfig, logger *slog.Logger) *FormGuard {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &FormGuard{
		limiter:     limiter,
		monitor:     monitor,
		sanitizer:   sanitizer,
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
		logger:      logger,
	}
}

// Check runs the bot check, the rate limit for form and client IP, and the
// unsafe-input check on every field, then sanitises the fields in place.
// Each rejection is recorded in the monitor.
func (g *FormGuard) Check(r *http.Request, form string, fields map[string]*string) error {
	if DetectBot(r.UserAgent()) {
		g.reject(r, ViolationBot, "automated client submitted "+form, map[string]any{"form": form})
		return ErrBotDetected
	}

	key := form + ":" + ClientIP(r)
	if !g.limiter.Allow(key, g.maxAttempts, g.window) {
		g.reject(r, ViolationRateLimit, "submission limit reached on "+form, map[string]any{"form": form})
		return ErrRateLimited
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := *fields[name]
		if ValidateSafeString(value) {
			continue
		}
		violation := ViolationUnsafeInput
		if strings.Contains(strings.ToLower(value), "<script") {
			violation = ViolationXSS
		}
		g.reject(r, violation, "unsafe input in "+form, map[string]any{
			"form":  form,
			"field": name,
			"value": Obfuscate(value, 8, 0),
		})
		return ErrUnsafeInput
	}

	for _, p := range fields {
		*p = g.sanitizer.SanitizeText(*p)
	}
	return nil
}

func (g *FormGuard) reject(r *http.Request, violation, message string, details map[string]any) {
	g.monitor.LogRequest(r, violation, message, details)
	g.logger.Warn("form submission rejected",
		"violation", violation,
		"ip", ClientIP(r),
		"path", r.URL.Path,
	)
}
