package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dreamcore/site/internal/cache"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	down := fakePinger{err: errors.New("connection refused")}

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantBody   string
	}{
		{"no checks", nil, http.StatusOK, statusHealthy},
		{"all healthy", map[string]Pinger{"database": fakePinger{}, "cache": fakePinger{}}, http.StatusOK, statusHealthy},
		{"one down", map[string]Pinger{"database": fakePinger{}, "cache": down}, http.StatusServiceUnavailable, statusDegraded},
		{"all down", map[string]Pinger{"database": down}, http.StatusServiceUnavailable, statusUnhealthy},
		{"nil skipped", map[string]Pinger{"database": fakePinger{}, "geoip": nil}, http.StatusOK, statusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checks)
			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var got HealthStatusPublic
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if got.Status != tt.wantBody {
				t.Errorf("status field = %q, want %q", got.Status, tt.wantBody)
			}
		})
	}
}

func TestHealthDetails(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"database": fakePinger{},
		"cache":    fakePinger{err: errors.New("timeout")},
	})

	w := httptest.NewRecorder()
	h.Details(w, httptest.NewRequest(http.MethodGet, "/admin/api/health?verbose=true", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	var got HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.Checks["cache"].Message != "timeout" {
		t.Errorf("cache message = %q, want timeout", got.Checks["cache"].Message)
	}
	if got.Checks["database"].Status != statusHealthy {
		t.Errorf("database status = %q", got.Checks["database"].Status)
	}
	if got.System == nil || got.System.GoVersion == "" {
		t.Error("verbose details should include system info")
	}
	if got.Version.Version == "" {
		t.Error("version missing")
	}
}

func TestHealthDetailsCacheStats(t *testing.T) {
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })

	ctx := context.Background()
	if err := mem.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, _ = mem.Get(ctx, "k")
	_, _ = mem.Get(ctx, "missing")

	h := NewHealthHandler(nil, WithCacheStats(mem))
	w := httptest.NewRecorder()
	h.Details(w, httptest.NewRequest(http.MethodGet, "/admin/api/health", nil))

	var got HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.Cache == nil {
		t.Fatal("details should include cache stats")
	}
	want := cache.Stats{Hits: 1, Misses: 1, Sets: 1, Items: 1, HitRate: 50}
	if *got.Cache != want {
		t.Errorf("cache stats = %+v, want %+v", *got.Cache, want)
	}

	// The public endpoint stays minimal.
	w = httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if bytes.Contains(w.Body.Bytes(), []byte("hits")) {
		t.Errorf("public health leaked cache stats: %s", w.Body.String())
	}
}
