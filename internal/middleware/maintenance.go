// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// Maintenance serves page with status 503 while enabled reports true.
// Paths with one of the allowed prefixes pass through so administrators can
// still reach the admin area and health checks keep working.
func Maintenance(enabled func() bool, page http.Handler, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled() || hasAnyPrefix(r.URL.Path, allowed) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Retry-After", "3600")
			w.Header().Set("Cache-Control", "no-store")
			page.ServeHTTP(&statusWriter{ResponseWriter: w, status: http.StatusServiceUnavailable}, r)
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// statusWriter forces the status code of the first WriteHeader call.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(int) {
	if !sw.wroteHeader {
		sw.wroteHeader = true
		sw.ResponseWriter.WriteHeader(sw.status)
	}
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.wroteHeader {
		sw.WriteHeader(sw.status)
	}
	return sw.ResponseWriter.Write(b)
}
