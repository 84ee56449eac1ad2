package geoip

import (
	"net/netip"
	"path/filepath"
	"testing"

	"github.com/dreamcore/site/internal/testutil"
)

func TestOpenDisabled(t *testing.T) {
	r, err := Open("", testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Open(\"\") error = %v", err)
	}
	if r.Enabled() {
		t.Error("resolver without a path should be disabled")
	}
	if err := r.Reload(); err != nil {
		t.Errorf("Reload() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"), testutil.DiscardLogger())
	if err == nil {
		t.Fatal("Open(missing) should fail")
	}
	if r == nil || r.Enabled() {
		t.Fatal("Open(missing) should return a disabled resolver")
	}
	if got := r.LookupCountry("127.0.0.1"); got != CountryLocal {
		t.Errorf("LookupCountry(loopback) = %q, want %q", got, CountryLocal)
	}
}

func TestLookupCountryWithoutDatabase(t *testing.T) {
	r, _ := Open("", nil)

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", CountryLocal},
		{"::1", CountryLocal},
		{"10.1.2.3", CountryLocal},
		{"192.168.0.10", CountryLocal},
		{"::ffff:192.168.1.1", CountryLocal},
		{"fe80::1", CountryLocal},
		{"8.8.8.8", ""},
		{"not-an-ip", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := r.LookupCountry(tt.ip); got != tt.want {
			t.Errorf("LookupCountry(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}

func TestIsLocal(t *testing.T) {
	if !IsLocal(netip.MustParseAddr("172.20.0.1")) {
		t.Error("172.20.0.1 should be local")
	}
	if IsLocal(netip.MustParseAddr("172.32.0.1")) {
		t.Error("172.32.0.1 should not be local")
	}
}

func TestCountryName(t *testing.T) {
	tests := map[string]string{
		"BR":    "Brazil",
		"LOCAL": "Local Network",
		"ZZ":    "ZZ",
		"":      "Unknown",
	}
	for code, want := range tests {
		if got := CountryName(code); got != want {
			t.Errorf("CountryName(%q) = %q, want %q", code, got, want)
		}
	}
}
