package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheHeaders(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		handler    http.Handler
		path       string
		wantCache  string
		wantPragma string
	}{
		{"static asset", StaticCache(86400)(ok), "/static/css/site.css", "public, max-age=86400", ""},
		{"short lived asset", StaticCache(60)(ok), "/static/js/carousel.js", "public, max-age=60", ""},
		{"admin page", NoStore(ok), "/admin/recruitments", "no-store", "no-cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantCache, rr.Header().Get("Cache-Control"))
			assert.Equal(t, tt.wantPragma, rr.Header().Get("Pragma"))
		})
	}
}
