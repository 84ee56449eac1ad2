package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(t *testing.T) (*MemoryCache, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour, Now: clock.Now})
	t.Cleanup(func() { _ = c.Close() })
	return c, clock
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", string(val))
	}

	if err := cache.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "key1"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	src := []byte("abc")
	_ = cache.Set(ctx, "k", src, 0)
	src[0] = 'x'

	got, _ := cache.Get(ctx, "k")
	got[1] = 'y'

	again, _ := cache.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated: %q", again)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache, clock := newTestCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "short", []byte("v"), time.Minute)
	_ = cache.Set(ctx, "default", []byte("v"), 0)

	clock.Advance(2 * time.Minute)

	if _, err := cache.Get(ctx, "short"); err != ErrCacheMiss {
		t.Errorf("expired entry: got err %v, want ErrCacheMiss", err)
	}
	if _, err := cache.Get(ctx, "default"); err != nil {
		t.Error("entry with default TTL should still exist")
	}

	clock.Advance(time.Hour)
	cache.RemoveExpired()
	if keys := cache.keys(""); len(keys) != 0 {
		t.Errorf("Keys() after RemoveExpired = %v, want none", keys)
	}
}

func TestMemoryCache_KeysByPrefix(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "settings:site", []byte("1"), 0)
	_ = cache.Set(ctx, "settings:mail", []byte("1"), 0)
	_ = cache.Set(ctx, "violations", []byte("1"), 0)

	if got := len(cache.keys("settings:")); got != 2 {
		t.Errorf("Keys(settings:) returned %d keys, want 2", got)
	}

	_ = cache.Clear(ctx)
	if got := len(cache.keys("")); got != 0 {
		t.Errorf("Keys() after Clear returned %d keys, want 0", got)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), 0)
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "missing")

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Sets != 1 || stats.Items != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.HitRate < 66 || stats.HitRate > 67 {
		t.Errorf("HitRate = %.2f, want about 66.67", stats.HitRate)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{})
	_ = cache.Close()
	ctx := context.Background()

	if _, err := cache.Get(ctx, "a"); err != ErrCacheClosed {
		t.Errorf("Get after Close: got %v, want ErrCacheClosed", err)
	}
	if err := cache.Set(ctx, "a", nil, 0); err != ErrCacheClosed {
		t.Errorf("Set after Close: got %v, want ErrCacheClosed", err)
	}
	// Double close is safe.
	_ = cache.Close()
}

func TestMemoryCache_CleanupLoopStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	cache := NewMemoryCache(MemoryCacheOptions{CleanupInterval: 10 * time.Millisecond})
	_ = cache.Set(context.Background(), "a", []byte("1"), time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	_ = cache.Close()
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			_ = cache.Set(ctx, key, []byte{byte(i)}, 0)
			_, _ = cache.Get(ctx, key)
			_ = cache.Stats()
		}(i)
	}
	wg.Wait()

	if got := len(cache.keys("")); got != 20 {
		t.Errorf("expected 20 keys, got %d", got)
	}
}
