package timer

import (
	"sync"

	"github.com/chewxy/math32"
)

const (
	// DefaultDayLength is one day in seconds.
	DefaultDayLength float32 = 86400
	// DefaultTimeScale makes one real second advance one simulated hour.
	DefaultTimeScale float32 = 3600
)

type dayClockImpl struct {
	mu *sync.Mutex

	tod       float32
	dayLength float32
	timeScale float32
}

// DayClock is the shared simulation clock. The scene advances it and the sun model reads it.
type DayClock interface {
	// Advance moves the clock forward by dt real seconds scaled by the time scale,
	// wrapping at the day length.
	//
	// Parameters:
	//   - dt: real elapsed seconds
	Advance(dt float32)

	// TimeOfDay returns the current time of day in [0, DayLength).
	//
	// Returns:
	//   - float32: time of day in simulated seconds
	TimeOfDay() float32

	// SetTimeOfDay sets the time of day, wrapping into [0, DayLength).
	//
	// Parameters:
	//   - tod: time of day in simulated seconds
	SetTimeOfDay(tod float32)

	// DayLength returns the length of one day in simulated seconds.
	DayLength() float32

	// TimeScale returns the simulated seconds per real second.
	TimeScale() float32

	// SetTimeScale changes the simulated seconds per real second.
	SetTimeScale(scale float32)
}

var _ DayClock = &dayClockImpl{}

// NewDayClock creates a DayClock starting at midnight with the default day length and time scale.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - DayClock: the newly created clock
func NewDayClock(options ...DayClockBuilderOption) DayClock {
	c := &dayClockImpl{
		mu:        &sync.Mutex{},
		dayLength: DefaultDayLength,
		timeScale: DefaultTimeScale,
	}
	for _, option := range options {
		option(c)
	}
	c.tod = c.wrap(c.tod)
	return c
}

func (c *dayClockImpl) Advance(dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tod = c.wrap(c.tod + dt*c.timeScale)
}

func (c *dayClockImpl) TimeOfDay() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tod
}

func (c *dayClockImpl) SetTimeOfDay(tod float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tod = c.wrap(tod)
}

func (c *dayClockImpl) DayLength() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dayLength
}

func (c *dayClockImpl) TimeScale() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeScale
}

func (c *dayClockImpl) SetTimeScale(scale float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeScale = scale
}

func (c *dayClockImpl) wrap(tod float32) float32 {
	tod = math32.Mod(tod, c.dayLength)
	if tod < 0 {
		tod += c.dayLength
	}
	if tod >= c.dayLength {
		tod = 0
	}
	return tod
}
