// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/dreamcore/site/internal/cache"
	"github.com/dreamcore/site/internal/version"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 3 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	checks    map[string]Pinger
	cache     cache.StatsProvider
	startTime time.Time
}

// HealthOption configures a HealthHandler.
type HealthOption func(*HealthHandler)

// WithCacheStats reports the counters of p in the admin details.
func WithCacheStats(p cache.StatsProvider) HealthOption {
	return func(h *HealthHandler) { h.cache = p }
}

// NewHealthHandler creates a health handler over the named dependencies.
// Nil pingers are skipped.
func NewHealthHandler(checks map[string]Pinger, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{checks: make(map[string]Pinger), startTime: time.Now()}
	for name, p := range checks {
		if p != nil {
			h.checks[name] = p
		}
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus represents the overall health status (admin callers only).
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   version.Info     `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health handles GET /health with the overall status only.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, _ := h.run(r.Context())
	writeJSON(w, httpStatus(status), HealthStatusPublic{Status: status})
}

// Details handles GET /admin/api/health with every check.
func (h *HealthHandler) Details(w http.ResponseWriter, r *http.Request) {
	status, checks := h.run(r.Context())
	resp := HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Get(),
		Checks:    checks,
	}
	if h.cache != nil {
		stats := h.cache.Stats()
		resp.Cache = &stats
	}
	if r.URL.Query().Get("verbose") == "true" {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		resp.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     mem.Alloc,
		}
	}
	writeJSON(w, httpStatus(status), resp)
}

func (h *HealthHandler) run(ctx context.Context) (string, map[string]Check) {
	checks := make(map[string]Check, len(h.checks))
	failed := 0
	for name, p := range h.checks {
		c := checkPing(ctx, p)
		if c.Status != statusHealthy {
			failed++
		}
		checks[name] = c
	}

	switch {
	case failed == 0:
		return statusHealthy, checks
	case failed == len(checks):
		return statusUnhealthy, checks
	default:
		return statusDegraded, checks
	}
}

func checkPing(ctx context.Context, p Pinger) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start).Round(time.Millisecond).String()
	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency}
	}
	return Check{Status: statusHealthy, Latency: latency}
}

func httpStatus(status string) int {
	if status == statusHealthy {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
