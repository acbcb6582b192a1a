package timer

import "time"

type TimerBuilderOption func(*timerImpl)

// WithNow replaces the wall clock used by the timer. Tests use it to drive time by hand.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - TimerBuilderOption: a function that sets the clock source
func WithNow(now func() time.Time) TimerBuilderOption {
	return func(t *timerImpl) {
		if now != nil {
			t.now = now
		}
	}
}

type DayClockBuilderOption func(*dayClockImpl)

// WithDayLength sets the length of one simulated day in simulated seconds.
//
// Parameters:
//   - seconds: day length, must be positive
//
// Returns:
//   - DayClockBuilderOption: a function that sets the day length
func WithDayLength(seconds float32) DayClockBuilderOption {
	return func(c *dayClockImpl) {
		if seconds > 0 {
			c.dayLength = seconds
		}
	}
}

// WithTimeScale sets how many simulated seconds pass per real second.
//
// Parameters:
//   - scale: the time scale
//
// Returns:
//   - DayClockBuilderOption: a function that sets the time scale
func WithTimeScale(scale float32) DayClockBuilderOption {
	return func(c *dayClockImpl) {
		c.timeScale = scale
	}
}

// WithTimeOfDay sets the starting time of day in simulated seconds.
//
// Parameters:
//   - tod: time of day
//
// Returns:
//   - DayClockBuilderOption: a function that sets the starting time
func WithTimeOfDay(tod float32) DayClockBuilderOption {
	return func(c *dayClockImpl) {
		c.tod = tod
	}
}
