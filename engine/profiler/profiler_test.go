package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilerPublishesPerInterval(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(WithClock(func() time.Time { return now }), WithInterval(time.Second))

	for i := 0; i < 19; i++ {
		now = now.Add(50 * time.Millisecond)
		_, ok := p.Tick()
		require.False(t, ok, "tick %d", i)
	}
	now = now.Add(50 * time.Millisecond)
	s, ok := p.Tick()
	require.True(t, ok)
	assert.InDelta(t, 20, s.FPS, 1e-6)
	assert.Greater(t, s.SysMB, 0.0)
	assert.Equal(t, s, p.Last())

	now = now.Add(time.Second / 2)
	_, ok = p.Tick()
	assert.False(t, ok, "window restarts after publishing")
}
