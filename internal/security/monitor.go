// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package security

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/mileusna/useragent"
)

// Violation types.
const (
	ViolationXSS             = "XSS_ATTEMPT"
	ViolationInjection       = "INJECTION_ATTEMPT"
	ViolationMaliciousScript = "MALICIOUS_SCRIPT_INJECTION"
	ViolationRateLimit       = "RATE_LIMIT_EXCEEDED"
	ViolationBot             = "BOT_DETECTED"
	ViolationUnsafeInput     = "UNSAFE_INPUT"
	ViolationSuspiciousSpeed = "SUSPICIOUS_SPEED"
	ViolationLoginFailure    = "LOGIN_FAILURE"
	ViolationInvalidOrigin   = "INVALID_ORIGIN"
	ViolationAccessDenied    = "ACCESS_DENIED"
)

// Severity levels.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// DefaultMaxViolations is the number of violations the Monitor keeps.
const DefaultMaxViolations = 100

// DefaultRetention is how long ClearOlderThan keeps violations by default.
const DefaultRetention = 24 * time.Hour

// Severity classifies a violation type.
func Severity(violationType string) string {
	switch violationType {
	case ViolationXSS, ViolationInjection, ViolationMaliciousScript:
		return SeverityHigh
	case ViolationRateLimit, ViolationBot, ViolationUnsafeInput:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Violation is one recorded security event.
type Violation struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	UserAgent string         `json:"userAgent,omitempty"`
	Client    string         `json:"client,omitempty"`
	URL       string         `json:"url,omitempty"`
	IP        string         `json:"ip,omitempty"`
	Country   string         `json:"country,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Severity returns the severity of the violation type.
func (v Violation) Severity() string {
	return Severity(v.Type)
}

// MonitorStats summarises the recorded violations.
type MonitorStats struct {
	Total    int `json:"total"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	LastHour int `json:"lastHour"`
	Last24h  int `json:"last24h"`
}

// CountryResolver maps an IP address to a country code.
type CountryResolver interface {
	LookupCountry(ip string) string
}

// Monitor is a bounded in-memory log of security violations, oldest first.
type Monitor struct {
	mu         sync.RWMutex
	violations []Violation
	max        int
	now        func() time.Time
	geo        CountryResolver
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithMonitorClock overrides the clock.
func WithMonitorClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) { m.now = now }
}

// WithCountryResolver enables country lookup for request violations.
func WithCountryResolver(geo CountryResolver) MonitorOption {
	return func(m *Monitor) { m.geo = geo }
}

// WithMaxViolations sets the capacity.
func WithMaxViolations(n int) MonitorOption {
	return func(m *Monitor) {
		if n > 0 {
			m.max = n
		}
	}
}

// NewMonitor creates an empty monitor.
func NewMonitor(opts ...MonitorOption) *Monitor {
	m := &Monitor{max: DefaultMaxViolations, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Log records v, stamping it with the current time if unset. The oldest
// violation is evicted once the monitor is full.
func (m *Monitor) Log(v Violation) {
	if v.Timestamp.IsZero() {
		v.Timestamp = m.now()
	}
	if v.Client == "" && v.UserAgent != "" {
		v.Client = describeClient(v.UserAgent)
	}
	if v.Country == "" && v.IP != "" && m.geo != nil {
		v.Country = m.geo.LookupCountry(v.IP)
	}
	v.Details = RedactSensitive(v.Details)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.violations = append(m.violations, v)
	if over := len(m.violations) - m.max; over > 0 {
		m.violations = slices.Delete(m.violations, 0, over)
	}
}

// LogRequest records a violation with the request's user agent, URL and client IP.
func (m *Monitor) LogRequest(r *http.Request, violationType, message string, details map[string]any) {
	m.Log(Violation{
		Type:      violationType,
		Message:   message,
		UserAgent: r.UserAgent(),
		URL:       r.URL.String(),
		IP:        ClientIP(r),
		Details:   details,
	})
}

// Violations returns the violations of the given type, or all when
// violationType is empty.
func (m *Monitor) Violations(violationType string) []Violation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if violationType == "" {
		return slices.Clone(m.violations)
	}
	var out []Violation
	for _, v := range m.violations {
		if v.Type == violationType {
			out = append(out, v)
		}
	}
	return out
}

// ClearOlderThan drops violations older than d. Zero clears everything.
func (m *Monitor) ClearOlderThan(d time.Duration) int {
	cutoff := m.now().Add(-d)

	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.violations)
	if d <= 0 {
		m.violations = nil
		return before
	}
	m.violations = slices.DeleteFunc(m.violations, func(v Violation) bool {
		return !v.Timestamp.After(cutoff)
	})
	return before - len(m.violations)
}

// Stats counts violations by severity and recency.
func (m *Monitor) Stats() MonitorStats {
	now := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var s MonitorStats
	for _, v := range m.violations {
		s.Total++
		switch v.Severity() {
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		default:
			s.Low++
		}
		age := now.Sub(v.Timestamp)
		if age < time.Hour {
			s.LastHour++
		}
		if age < 24*time.Hour {
			s.Last24h++
		}
	}
	return s
}

// Restore replaces the log with a snapshot, keeping the newest entries that fit.
func (m *Monitor) Restore(snapshot []Violation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if over := len(snapshot) - m.max; over > 0 {
		snapshot = snapshot[over:]
	}
	m.violations = slices.Clone(snapshot)
}

func describeClient(uaString string) string {
	ua := useragent.Parse(uaString)
	name, os := ua.Name, ua.OS
	if name == "" {
		name = "Unknown"
	}
	if os == "" {
		return name
	}
	return name + " / " + os
}
