package security

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamcore/site/internal/cache"
)

type staticGeo map[string]string

func (g staticGeo) LookupCountry(ip string) string { return g[ip] }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeverity(t *testing.T) {
	tests := map[string]string{
		ViolationXSS:             SeverityHigh,
		ViolationInjection:       SeverityHigh,
		ViolationMaliciousScript: SeverityHigh,
		ViolationRateLimit:       SeverityMedium,
		ViolationBot:             SeverityMedium,
		ViolationUnsafeInput:     SeverityMedium,
		ViolationInvalidOrigin:   SeverityLow,
		"SOMETHING_ELSE":         SeverityLow,
	}
	for typ, want := range tests {
		assert.Equal(t, want, Severity(typ), typ)
	}
}

func TestMonitorCapacityEvictsOldest(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(WithMonitorClock(clock.Now))

	for i := range 105 {
		m.Log(Violation{Type: ViolationBot, Message: fmt.Sprintf("v%d", i)})
	}

	all := m.Violations("")
	require.Len(t, all, DefaultMaxViolations)
	assert.Equal(t, "v5", all[0].Message)
	assert.Equal(t, "v104", all[len(all)-1].Message)
}

func TestMonitorFilterAndEnrich(t *testing.T) {
	m := NewMonitor(WithCountryResolver(staticGeo{"8.8.8.8": "US"}))

	r := httptest.NewRequest(http.MethodPost, "/contato", nil)
	r.RemoteAddr = "8.8.8.8:5555"
	r.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	m.LogRequest(r, ViolationXSS, "script tag", map[string]any{"password": "x", "field": "nome"})
	m.Log(Violation{Type: ViolationBot, Message: "bot"})

	xss := m.Violations(ViolationXSS)
	require.Len(t, xss, 1)
	v := xss[0]
	assert.Equal(t, "8.8.8.8", v.IP)
	assert.Equal(t, "US", v.Country)
	assert.Equal(t, "/contato", v.URL)
	assert.Contains(t, v.Client, "Chrome")
	assert.Equal(t, Redacted, v.Details["password"])
	assert.Equal(t, "nome", v.Details["field"])
	assert.False(t, v.Timestamp.IsZero())

	assert.Len(t, m.Violations(""), 2)
	assert.Empty(t, m.Violations(ViolationRateLimit))
}

func TestMonitorClearAndStats(t *testing.T) {
	clock := newFakeClock()
	m := NewMonitor(WithMonitorClock(clock.Now))

	m.Log(Violation{Type: ViolationXSS})
	clock.Advance(2 * time.Hour)
	m.Log(Violation{Type: ViolationRateLimit})
	clock.Advance(23 * time.Hour)
	m.Log(Violation{Type: "CUSTOM"})

	stats := m.Stats()
	assert.Equal(t, MonitorStats{Total: 3, High: 1, Medium: 1, Low: 1, LastHour: 1, Last24h: 2}, stats)

	removed := m.ClearOlderThan(DefaultRetention)
	assert.Equal(t, 1, removed)
	assert.Len(t, m.Violations(""), 2)

	removed = m.ClearOlderThan(0)
	assert.Equal(t, 2, removed)
	assert.Empty(t, m.Violations(""))
}

func TestMonitorRestore(t *testing.T) {
	m := NewMonitor(WithMaxViolations(2))
	m.Restore([]Violation{{Message: "a"}, {Message: "b"}, {Message: "c"}})

	got := m.Violations("")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Message)
}

func TestSecureStorage(t *testing.T) {
	clock := newFakeClock()
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{Now: clock.Now})
	t.Cleanup(func() { _ = mem.Close() })
	s := NewSecureStorage(mem, clock.Now, discardLogger())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "persist", []string{"a", "b"}, 0))
	require.NoError(t, s.Set(ctx, "temp", map[string]int{"n": 1}, time.Minute))

	var list []string
	require.True(t, s.Get(ctx, "persist", &list))
	assert.Equal(t, []string{"a", "b"}, list)

	var m map[string]int
	require.True(t, s.Get(ctx, "temp", &m))
	assert.Equal(t, 1, m["n"])

	clock.Advance(2 * time.Minute)
	assert.False(t, s.Get(ctx, "temp", &m))
	_, err := mem.Get(ctx, "temp")
	assert.ErrorIs(t, err, cache.ErrCacheMiss, "expired entry should be removed")

	assert.True(t, s.Get(ctx, "persist", &list), "entries without expiration persist")

	require.NoError(t, s.Remove(ctx, "persist"))
	assert.False(t, s.Get(ctx, "persist", &list))
}

func TestSecureStorageDiscardsCorruptEntries(t *testing.T) {
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })
	s := NewSecureStorage(mem, nil, discardLogger())
	ctx := context.Background()

	_ = mem.Set(ctx, "broken", []byte("{not json"), 0)
	var v any
	assert.False(t, s.Get(ctx, "broken", &v))
	_, err := mem.Get(ctx, "broken")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func newGuard(clock *fakeClock) (*FormGuard, *Monitor) {
	monitor := NewMonitor(WithMonitorClock(clock.Now))
	guard := NewFormGuard(NewRateLimiter(clock.Now), monitor, NewSanitizer(),
		FormGuardConfig{MaxAttempts: 1, Window: time.Minute}, discardLogger())
	return guard, monitor
}

func formRequest(ua string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/contato", strings.NewReader(""))
	r.RemoteAddr = "10.0.0.7:1234"
	r.Header.Set("User-Agent", ua)
	return r
}

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"

func TestFormGuardSanitisesAcceptedInput(t *testing.T) {
	guard, monitor := newGuard(newFakeClock())

	nome, msg := "Ana", "Olá <b>equipe</b> & <img src=x>"
	err := guard.Check(formRequest(browserUA), "contact", map[string]*string{"nome": &nome, "mensagem": &msg})
	require.NoError(t, err)
	assert.Equal(t, "Olá <b>equipe</b> & ", msg)
	assert.Empty(t, monitor.Violations(""))
}

func TestFormGuardRejections(t *testing.T) {
	clock := newFakeClock()
	guard, monitor := newGuard(clock)

	v := "ok"
	err := guard.Check(formRequest("python-requests crawler"), "contact", map[string]*string{"nome": &v})
	assert.True(t, errors.Is(err, ErrBotDetected))

	unsafe := `<script>alert(1)</script>`
	err = guard.Check(formRequest(browserUA), "contact", map[string]*string{"nome": &unsafe})
	assert.ErrorIs(t, err, ErrUnsafeInput)
	assert.Equal(t, `<script>alert(1)</script>`, unsafe, "rejected input is not modified")

	err = guard.Check(formRequest(browserUA), "contact", map[string]*string{"nome": &v})
	assert.ErrorIs(t, err, ErrRateLimited, "the unsafe attempt counts toward the limit")

	err = guard.Check(formRequest(browserUA), "recruitment", map[string]*string{"nome": &v})
	assert.NoError(t, err, "limits are per form")

	assert.Len(t, monitor.Violations(ViolationBot), 1)
	assert.Len(t, monitor.Violations(ViolationXSS), 1)
	assert.Len(t, monitor.Violations(ViolationRateLimit), 1)

	clock.Advance(time.Minute)
	err = guard.Check(formRequest(browserUA), "contact", map[string]*string{"nome": &v})
	assert.NoError(t, err)
}
