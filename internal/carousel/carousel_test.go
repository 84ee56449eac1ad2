package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dreamcore/site/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func projects(names ...string) []model.Project {
	out := make([]model.Project, len(names))
	for i, n := range names {
		out[i] = model.Project{ID: n, Name: n, Order: i}
	}
	return out
}

func names(ps []model.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestNavigationWraps(t *testing.T) {
	c := New(projects("a", "b", "c"))

	tests := []struct {
		name string
		move func() State
		want int
	}{
		{"next", c.Next, 1},
		{"next", c.Next, 2},
		{"next wraps to first", c.Next, 0},
		{"prev wraps to last", c.Prev, 2},
		{"prev", c.Prev, 1},
	}
	for _, tt := range tests {
		if got := tt.move().Index; got != tt.want {
			t.Errorf("%s: index = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestJump(t *testing.T) {
	c := New(projects("a", "b", "c"))

	s, err := c.Jump(2)
	require.NoError(t, err)
	assert.Equal(t, "c", s.Current.Name)

	for _, i := range []int{-1, 3} {
		s, err = c.Jump(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Equal(t, 2, s.Index, "rejected jump keeps the index")
	}
}

func TestFallbackAndSetProjects(t *testing.T) {
	fallback := projects("GameServer Pro", "DreamStack", "MarketBot AI")
	c := New(fallback)

	s := c.State()
	assert.True(t, s.Fallback)
	assert.Equal(t, names(fallback), names(s.Projects))

	_, err := c.Jump(2)
	require.NoError(t, err)

	c.SetProjects(projects("x", "y"))
	s = c.State()
	assert.False(t, s.Fallback)
	assert.Equal(t, 1, s.Index, "index clamped to the shorter list")
	assert.Equal(t, "y", s.Current.Name)

	c.SetProjects(nil)
	s = c.State()
	assert.True(t, s.Fallback)
	assert.Len(t, s.Projects, 3)
}

func TestEmptyCarousel(t *testing.T) {
	c := New(nil)
	assert.Equal(t, 0, c.Next().Index)
	assert.Equal(t, 0, c.Prev().Index)
	_, err := c.Jump(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestStaleTickIgnored(t *testing.T) {
	c := New(projects("a", "b", "c"), WithInterval(time.Hour))
	c.Start()
	defer c.Stop()

	c.mu.Lock()
	stale := c.generation
	c.mu.Unlock()

	c.Next()
	c.advance(stale)
	assert.Equal(t, 1, c.State().Index, "tick from before the manual move is dropped")

	c.mu.Lock()
	current := c.generation
	c.mu.Unlock()
	c.advance(current)
	assert.Equal(t, 2, c.State().Index)
}

func TestAutoAdvance(t *testing.T) {
	c := New(projects("a", "b"), WithInterval(time.Second))
	c.Start()

	require.Eventually(t, func() bool {
		return c.State().Index == 1
	}, 3*time.Second, 50*time.Millisecond)

	c.Stop()
	idx := c.State().Index
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()
	c.advance(gen)
	assert.Equal(t, idx, c.State().Index, "stopped carousel does not advance")
}

func TestWithIntervalMinimum(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(nil).Interval())
	assert.Equal(t, time.Second, New(nil, WithInterval(10*time.Millisecond)).Interval())
}
