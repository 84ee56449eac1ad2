// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"errors"
	"fmt"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/dreamcore/site/internal/geoip"
	"github.com/dreamcore/site/internal/security"
)

// Display formats.
const (
	DateFormat     = "02/01/2006"
	DateTimeFormat = "02/01/2006 15:04"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"truncate":       truncate,
		"join":           strings.Join,
		"contains":       slices.Contains[[]string],
		"statusClass":    statusClass,
		"severity":       security.Severity,
		"countryName":    geoip.CountryName,
		"add": func(a, b int) int {
			return a + b
		},
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
		"str":  func(v any) string { return fmt.Sprint(v) },
		"list": func(items ...string) []string { return items },
		"dict": dict,
	}
}

// dict builds a map from alternating keys and values, for passing several
// values to a nested template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DateFormat)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DateTimeFormat)
}

// truncate cuts s to n runes, appending an ellipsis when shortened.
func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// statusClass maps an entity status to its badge CSS class. Status types
// are string kinds, so any value is formatted first.
func statusClass(status any) string {
	switch fmt.Sprint(status) {
	case "approved", "active", "replied":
		return "badge badge-success"
	case "rejected", "suspended":
		return "badge badge-danger"
	case "pending", "development", "read":
		return "badge badge-warning"
	case "new":
		return "badge badge-info"
	}
	return "badge"
}
