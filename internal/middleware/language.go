// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/dreamcore/site/internal/i18n"
)

// ContextKeyLanguage holds the language code selected for the request.
const ContextKeyLanguage ContextKey = "language"

// SessionKeyLang is the session key of the visitor's language preference.
const SessionKeyLang = "lang"

// Language creates middleware that selects the UI language.
// Priority order:
// 1. Query parameter ?lang=XX (explicit switch, saved in the session)
// 2. Session preference
// 3. Accept-Language header
// 4. Catalog default
func Language(catalog *i18n.Catalog, sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			lang := ""

			if q := r.URL.Query().Get("lang"); q != "" && catalog.IsSupported(q) {
				lang = q
				if sm != nil {
					sm.Put(ctx, SessionKeyLang, lang)
				}
			}

			if lang == "" && sm != nil {
				if saved := sm.GetString(ctx, SessionKeyLang); catalog.IsSupported(saved) {
					lang = saved
				}
			}

			if lang == "" {
				if accept := r.Header.Get("Accept-Language"); accept != "" {
					lang = catalog.Match(accept)
				} else {
					lang = catalog.Default()
				}
			}

			ctx = context.WithValue(ctx, ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLang returns the language selected by Language, or the default
// language outside it.
func GetLang(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage
}
