package timer

import (
	"sync"
	"time"
)

type timerImpl struct {
	mu *sync.Mutex

	now func() time.Time

	base       time.Time
	prev       time.Time
	frameStart time.Time
	pauseStart time.Time
	pausedTime time.Duration

	dt         time.Duration
	fps        uint16
	frameCount uint16
	paused     bool
}

// Timer tracks frame delta time, total unpaused time and a frames-per-second counter
// that is refreshed once every second.
type Timer interface {
	// Reset sets the base time to now and clears pause, delta and FPS bookkeeping.
	Reset()

	// Tick advances the timer by one frame. It measures the delta since the previous tick
	// and publishes the FPS once per elapsed second.
	Tick()

	// Start resumes a stopped timer. The paused span is excluded from TotalTime and the
	// next delta starts fresh from now.
	Start()

	// Stop pauses the timer.
	Stop()

	// Toggle switches between Start and Stop.
	Toggle()

	// FPS returns the frame count of the last completed one-second window.
	//
	// Returns:
	//   - uint16: frames per second
	FPS() uint16

	// DeltaTime returns the time between the two most recent ticks.
	//
	// Returns:
	//   - float32: delta in seconds
	DeltaTime() float32

	// TotalTime returns the time since Reset, excluding paused spans.
	//
	// Returns:
	//   - float32: total time in seconds
	TotalTime() float32

	// Paused reports whether the timer is stopped.
	//
	// Returns:
	//   - bool: true while stopped
	Paused() bool
}

var _ Timer = &timerImpl{}

// NewTimer creates a Timer and resets it.
//
// Parameters:
//   - options: functional options to configure the timer
//
// Returns:
//   - Timer: the newly created timer
func NewTimer(options ...TimerBuilderOption) Timer {
	t := &timerImpl{
		mu:  &sync.Mutex{},
		now: time.Now,
	}
	for _, option := range options {
		option(t)
	}
	t.Reset()
	return t
}

func (t *timerImpl) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.base = now
	t.prev = now
	t.frameStart = now
	t.pausedTime = 0
	t.paused = false
	t.dt = 0
	t.fps = 0
	t.frameCount = 0
}

func (t *timerImpl) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.dt = now.Sub(t.prev)
	if now.Sub(t.frameStart) >= time.Second {
		t.fps = t.frameCount
		t.frameCount = 0
		t.frameStart = now
	} else {
		t.frameCount++
	}
	t.prev = now
}

func (t *timerImpl) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start()
}

func (t *timerImpl) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop()
}

func (t *timerImpl) Toggle() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.paused {
		t.start()
	} else {
		t.stop()
	}
}

func (t *timerImpl) FPS() uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fps
}

func (t *timerImpl) DeltaTime() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float32(t.dt.Seconds())
}

func (t *timerImpl) TotalTime() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	end := t.now()
	if t.paused {
		end = t.pauseStart
	}
	return float32((end.Sub(t.base) - t.pausedTime).Seconds())
}

func (t *timerImpl) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

func (t *timerImpl) start() {
	if !t.paused {
		return
	}
	now := t.now()
	t.paused = false
	t.pausedTime += now.Sub(t.pauseStart)
	t.prev = now
	t.frameStart = now
	t.dt = 0
}

func (t *timerImpl) stop() {
	if t.paused {
		return
	}
	t.paused = true
	t.pauseStart = t.now()
}
