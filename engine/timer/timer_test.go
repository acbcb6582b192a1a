package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeTimer() (Timer, *fakeClock) {
	fc := &fakeClock{t: time.Unix(1000, 0)}
	return NewTimer(WithNow(fc.now)), fc
}

func TestTickMeasuresDelta(t *testing.T) {
	tm, fc := newFakeTimer()
	fc.advance(16 * time.Millisecond)
	tm.Tick()
	assert.InDelta(t, 0.016, tm.DeltaTime(), 1e-6)
	fc.advance(4 * time.Millisecond)
	tm.Tick()
	assert.InDelta(t, 0.004, tm.DeltaTime(), 1e-6)
}

func TestFPSPublishedOncePerSecond(t *testing.T) {
	tm, fc := newFakeTimer()
	for range 10 {
		fc.advance(99 * time.Millisecond)
		tm.Tick()
	}
	assert.Equal(t, uint16(0), tm.FPS())

	fc.advance(20 * time.Millisecond)
	tm.Tick()
	assert.Equal(t, uint16(10), tm.FPS())

	fc.advance(10 * time.Millisecond)
	tm.Tick()
	assert.Equal(t, uint16(10), tm.FPS())
}

func TestPausedTimeExcludedFromTotal(t *testing.T) {
	tm, fc := newFakeTimer()
	fc.advance(2 * time.Second)
	tm.Stop()
	assert.True(t, tm.Paused())
	fc.advance(5 * time.Second)
	assert.InDelta(t, 2.0, tm.TotalTime(), 1e-6)

	tm.Toggle()
	assert.False(t, tm.Paused())
	assert.Equal(t, float32(0), tm.DeltaTime())
	fc.advance(1 * time.Second)
	assert.InDelta(t, 3.0, tm.TotalTime(), 1e-6)

	tm.Toggle()
	assert.True(t, tm.Paused())
}

func TestStartWithoutStopIsNoop(t *testing.T) {
	tm, fc := newFakeTimer()
	fc.advance(time.Second)
	tm.Start()
	assert.InDelta(t, 1.0, tm.TotalTime(), 1e-6)
}

func TestResetClearsState(t *testing.T) {
	tm, fc := newFakeTimer()
	fc.advance(3 * time.Second)
	tm.Tick()
	tm.Stop()
	tm.Reset()
	assert.False(t, tm.Paused())
	assert.Equal(t, uint16(0), tm.FPS())
	assert.Equal(t, float32(0), tm.DeltaTime())
	assert.Equal(t, float32(0), tm.TotalTime())
}

func TestDayClockWraps(t *testing.T) {
	c := NewDayClock(WithTimeOfDay(23 * 3600))
	c.Advance(2)
	assert.InDelta(t, 3600, c.TimeOfDay(), 1e-2)

	c.SetTimeOfDay(-3600)
	assert.InDelta(t, 23*3600, c.TimeOfDay(), 1e-2)

	c.SetTimeScale(0)
	c.Advance(100)
	assert.InDelta(t, 23*3600, c.TimeOfDay(), 1e-2)
	assert.Equal(t, DefaultDayLength, c.DayLength())
}
