// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager that carries the admin
// gate state and form tokens between requests.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// DefaultLifetime is the absolute lifetime of a session.
const DefaultLifetime = 24 * time.Hour

// DefaultIdleTimeout expires sessions left unused for this long.
const DefaultIdleTimeout = 2 * time.Hour

// New creates a session manager backed by the sessions table of db.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(db, 30*time.Minute)

	sm.Lifetime = DefaultLifetime
	sm.IdleTimeout = DefaultIdleTimeout
	sm.Cookie.Name = "dreamcore_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	// The __Host- prefix pins the cookie to this host over HTTPS.
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}
