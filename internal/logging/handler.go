// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the slog setup and a handler that mirrors
// security events into the violation monitor shown in the admin area.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/dreamcore/site/internal/security"
)

// CategorySecurity is the value of the "category" attribute that marks a
// record as a security event.
const CategorySecurity = "security"

// Attribute keys read from security records.
const (
	keyCategory  = "category"
	keyType      = "type"
	keyMessage   = "message"
	keyIP        = "ip"
	keyUserAgent = "user_agent"
	keyURL       = "url"
	keyPath      = "path"
)

// ViolationRecorder receives the violations extracted from log records.
type ViolationRecorder interface {
	Log(v security.Violation)
}

// SecurityHandler is a slog.Handler that wraps another handler and also
// records WARN and ERROR records carrying category=security as violations.
type SecurityHandler struct {
	inner    slog.Handler
	recorder ViolationRecorder
	level    slog.Level
	attrs    []slog.Attr // accumulated by WithAttrs, top-level only
	grouped  bool
	pathFn   func(context.Context) string
}

// SecurityHandlerOption configures a SecurityHandler.
type SecurityHandlerOption func(*SecurityHandler)

// WithMinLevel sets the minimum level mirrored into the recorder (default WARN).
func WithMinLevel(level slog.Level) SecurityHandlerOption {
	return func(h *SecurityHandler) { h.level = level }
}

// WithRequestPath supplies the request path for records logged without one.
func WithRequestPath(fn func(context.Context) string) SecurityHandlerOption {
	return func(h *SecurityHandler) { h.pathFn = fn }
}

// NewSecurityHandler wraps inner.
func NewSecurityHandler(inner slog.Handler, recorder ViolationRecorder, opts ...SecurityHandlerOption) *SecurityHandler {
	h := &SecurityHandler{inner: inner, recorder: recorder, level: slog.LevelWarn}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled implements slog.Handler.
func (h *SecurityHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *SecurityHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level && h.recorder != nil {
		if v, ok := h.violation(ctx, r); ok {
			h.recorder.Log(v)
		}
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *SecurityHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	if !h.grouped {
		clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	}
	return &clone
}

// WithGroup implements slog.Handler. Attributes added inside a group are not
// inspected for security fields.
func (h *SecurityHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	clone.grouped = clone.grouped || name != ""
	return &clone
}

// violation builds a Violation from a record tagged category=security. The
// type defaults to the record message; remaining attributes become details.
func (h *SecurityHandler) violation(ctx context.Context, r slog.Record) (security.Violation, bool) {
	var (
		isSecurity bool
		v          = security.Violation{Timestamp: r.Time}
		details    = make(map[string]any)
	)

	collect := func(a slog.Attr) bool {
		val := a.Value.Resolve()
		switch a.Key {
		case keyCategory:
			isSecurity = val.String() == CategorySecurity
		case keyType:
			v.Type = val.String()
		case keyMessage:
			v.Message = val.String()
		case keyIP:
			v.IP = val.String()
		case keyUserAgent:
			v.UserAgent = val.String()
		case keyURL, keyPath:
			if v.URL == "" {
				v.URL = val.String()
			}
		default:
			details[a.Key] = val.Any()
		}
		return true
	}

	for _, a := range h.attrs {
		collect(a)
	}
	if !h.grouped {
		r.Attrs(collect)
	}

	if !isSecurity {
		return security.Violation{}, false
	}

	if v.Type == "" {
		v.Type = strings.ToUpper(strings.ReplaceAll(r.Message, " ", "_"))
	}
	if v.Message == "" {
		v.Message = r.Message
	}
	if v.URL == "" && h.pathFn != nil {
		v.URL = h.pathFn(ctx)
	}
	if len(details) > 0 {
		v.Details = details
	}
	return v, true
}

// ParseLevel maps a configured level name to a slog.Level. Unknown names
// select info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the application logger: a text handler at level wrapped by a
// SecurityHandler feeding recorder.
func New(w io.Writer, level slog.Level, recorder ViolationRecorder, opts ...SecurityHandlerOption) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSecurityHandler(inner, recorder, opts...))
}
