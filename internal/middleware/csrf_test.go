package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDefaultCSRFConfig_Development(t *testing.T) {
	authKey := []byte("12345678901234567890123456789012") // 32-byte key
	cfg := DefaultCSRFConfig(authKey, true)

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}

	expectedOrigins := map[string]bool{
		"localhost:8080": true,
		"127.0.0.1:8080": true,
	}
	if len(cfg.TrustedOrigins) != len(expectedOrigins) {
		t.Errorf("expected %d TrustedOrigins in dev mode, got %d", len(expectedOrigins), len(cfg.TrustedOrigins))
	}
	for _, origin := range cfg.TrustedOrigins {
		if !expectedOrigins[origin] {
			t.Errorf("unexpected TrustedOrigin: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	authKey := []byte("12345678901234567890123456789012")

	cfg := DefaultCSRFConfig(authKey, false)
	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %v", cfg.TrustedOrigins)
	}

	cfg = DefaultCSRFConfig(authKey, false, "dreamcore.com", "www.dreamcore.com")
	if len(cfg.TrustedOrigins) != 2 || cfg.TrustedOrigins[0] != "dreamcore.com" {
		t.Errorf("TrustedOrigins = %v, want configured origins", cfg.TrustedOrigins)
	}
}

// TestTrustedOriginsFormat validates that TrustedOrigins use host:port.
// Full URLs cause "origin invalid" errors in the csrf library.
func TestTrustedOriginsFormat(t *testing.T) {
	cfg := DefaultCSRFConfig([]byte("12345678901234567890123456789012"), true)

	for _, origin := range cfg.TrustedOrigins {
		if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
			t.Errorf("TrustedOrigin %q should be host:port format, not full URL", origin)
		}
		if !strings.Contains(origin, ":") {
			t.Errorf("TrustedOrigin %q should include port", origin)
		}
	}
}

func TestCSRF_AllowsSameOriginAndSafeMethods(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig([]byte("12345678901234567890123456789012"), false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	tests := []struct {
		name   string
		method string
		site   string
	}{
		{"get cross-site", http.MethodGet, "cross-site"},
		{"post same-origin", http.MethodPost, "same-origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/contato", nil)
			req.Header.Set("Sec-Fetch-Site", tt.site)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
			}
		})
	}
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	called := false
	cfg := DefaultCSRFConfig([]byte("12345678901234567890123456789012"), false)
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		http.Error(w, "rejected", http.StatusForbidden)
	})

	handler := CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for a cross-site POST")
	}))

	req := httptest.NewRequest(http.MethodPost, "/contato", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if !called {
		t.Error("custom error handler was not called")
	}
}

func TestSkipCSRF_EmptyPaths(t *testing.T) {
	handler := SkipCSRF()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/any/path", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestCSRFHeaderName(t *testing.T) {
	if CSRFHeaderName != "X-CSRF-Token" {
		t.Errorf("expected CSRFHeaderName='X-CSRF-Token', got '%s'", CSRFHeaderName)
	}
}
