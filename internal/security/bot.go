// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package security

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mileusna/useragent"
)

var botPatterns = []string{"bot", "crawl", "spider", "scrape", "wget", "curl"}

// DetectBot reports whether the user agent looks automated.
func DetectBot(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	for _, p := range botPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return userAgent != "" && useragent.Parse(userAgent).Bot
}

// DetectSuspiciousSpeed reports whether more than maxPerSecond of the
// interactions happened within the last second before now.
func DetectSuspiciousSpeed(interactions []time.Time, maxPerSecond int, now time.Time) bool {
	if len(interactions) < 2 {
		return false
	}
	recent := 0
	for _, t := range interactions {
		if now.Sub(t) < time.Second {
			recent++
		}
	}
	return recent > maxPerSecond
}

// ClientIP returns the client address of r without the port. It expects a
// proxy-aware middleware such as chi's RealIP to have rewritten RemoteAddr.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
