// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the admin gate, language
// selection, request throttling and response hardening.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dreamcore/site/internal/authgate"
	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/i18n"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyRequestPath ContextKey = "request_path"
)

// Flasher stores a one-shot notification for the next rendered page.
type Flasher interface {
	SetFlash(r *http.Request, message, flashType string)
}

// AdminGateConfig configures RequireAdmin.
type AdminGateConfig struct {
	Gate      *authgate.Gate
	Catalog   *i18n.Catalog
	Flasher   Flasher
	LoginPath string
	Logger    *slog.Logger
}

// RequireAdmin resolves the admin session on every request. Authenticated
// requests carry the user and the backend access token in their context.
// Unauthenticated browser requests are redirected to the login page and
// JSON requests get 401. A backend that cannot be reached yields 503.
func RequireAdmin(cfg AdminGateConfig) func(http.Handler) http.Handler {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/admin/login"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := GetLang(r)
			st, err := cfg.Gate.Resolve(r.Context())

			switch st.State {
			case authgate.StateAuthenticated:
				ctx := context.WithValue(r.Context(), ContextKeyUser, st.User)
				ctx = backend.WithAccessToken(ctx, st.AccessToken)
				next.ServeHTTP(w, r.WithContext(ctx))
				return

			case authgate.StateChecking:
				cfg.Logger.Error("admin session check failed", "error", err, "path", r.URL.Path)
				msg := cfg.Catalog.T(lang, "auth.unavailable")
				if WantsJSON(r) {
					writeJSONError(w, http.StatusServiceUnavailable, msg)
					return
				}
				http.Error(w, msg, http.StatusServiceUnavailable)
				return
			}

			if WantsJSON(r) {
				writeJSONError(w, http.StatusUnauthorized, cfg.Catalog.T(lang, "auth.required"))
				return
			}
			if cfg.Flasher != nil {
				cfg.Flasher.SetFlash(r, cfg.Catalog.T(lang, "auth.required"), "info")
			}
			http.Redirect(w, r, cfg.LoginPath, http.StatusSeeOther)
		})
	}
}

// GetUser retrieves the authenticated admin from the request context.
// Returns nil outside RequireAdmin.
func GetUser(r *http.Request) *backend.User {
	user, ok := r.Context().Value(ContextKeyUser).(backend.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserEmail returns the current admin's email, or empty string if not found.
func GetUserEmail(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.Email
	}
	return ""
}

// RequestPath creates middleware that stores the request path in the context.
// The logging handler includes it in security records.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

// WantsJSON reports whether the client asked for a JSON response.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
