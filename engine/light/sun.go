package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SunParams are the fixed astronomical constants of the sun model.
type SunParams struct {
	// Radius is the apparent sun radius in units of the unit sky sphere. Below this
	// elevation the horizon-softening correction applies.
	Radius float32
	// Latitude of the observer in radians.
	Latitude float32
	// Declination of the sun in radians.
	Declination float32
	// UTCOffset of local time in hours.
	UTCOffset float32
	// Intensity is the light color scale while the whole disc is above the horizon.
	Intensity float32
}

// DefaultSunParams returns a mid-latitude summer sun.
func DefaultSunParams() SunParams {
	return SunParams{
		Radius:      0.1,
		Latitude:    mgl32.DegToRad(52.33),
		Declination: mgl32.DegToRad(23),
		UTCOffset:   2,
		Intensity:   0.5,
	}
}

// LSTOffset returns the time of day in seconds at which the hour angle is zero.
func (p SunParams) LSTOffset() float32 {
	return (12 + p.UTCOffset) * 3600
}

// SunState is the derived sun position and light for one time of day.
type SunState struct {
	Azimuth     float32
	Inclination float32
	// Visual is the unit direction toward the sun as seen in the sky.
	Visual mgl32.Vec3
	// Dir is the light direction, pointing from the sun toward the scene.
	Dir mgl32.Vec3
	// Visible is the fraction of the sun disc above the horizon.
	Visible float32
	// Intensity is the scalar light color.
	Intensity float32
}

// Color returns the grey light color for the state.
func (s SunState) Color() mgl32.Vec3 {
	return mgl32.Vec3{s.Intensity, s.Intensity, s.Intensity}
}

func skyDir(azimuth, inclination float32) mgl32.Vec3 {
	sa, ca := math32.Sincos(azimuth)
	si, ci := math32.Sincos(inclination)
	return mgl32.Vec3{ca * si, ci, sa * si}
}

// ComputeSun evaluates the sun model at a time of day. Azimuth advances linearly with the
// day fraction and inclination follows the hour angle for the fixed latitude and declination.
// Near the horizon the effective inclination is lowered toward the centroid of the visible
// part of the disc and the intensity is scaled by the visible fraction.
//
// Parameters:
//   - p: the sun constants
//   - tod: time of day in seconds, in [0, dayLength)
//   - dayLength: length of a day in seconds
//
// Returns:
//   - SunState: the derived state
func ComputeSun(p SunParams, tod, dayLength float32) SunState {
	t := tod / dayLength
	azimuth := math32.Pi/2 - 2*math32.Pi*t

	hourAngle := math32.Pi / 12 * ((tod - p.LSTOffset()) / 3600)
	sinElev := math32.Sin(p.Latitude)*math32.Sin(p.Declination) +
		math32.Cos(p.Latitude)*math32.Cos(p.Declination)*math32.Cos(hourAngle)
	inclination := math32.Pi/2 - math32.Asin(common.Clamp(sinElev, -1, 1))

	visual := skyDir(azimuth, inclination)
	s := SunState{
		Azimuth:     azimuth,
		Inclination: inclination,
		Visual:      visual,
		Visible:     1,
		Intensity:   p.Intensity,
		Dir:         visual.Mul(-1),
	}
	if visual.Y() >= p.Radius || p.Radius <= 0 {
		return s
	}

	alpha := math32.Acos(common.Clamp(-visual.Y()/p.Radius, -1, 1))
	seg := 2*alpha - math32.Sin(2*alpha)
	s.Visible = seg / (2 * math32.Pi)

	// The centroid offset tends to the radius as the last sliver of the disc sets.
	shift := p.Radius
	if seg > 1e-6 {
		sa := math32.Sin(alpha)
		shift = 4 * p.Radius * sa * sa * sa / (3 * seg)
	}
	s.Inclination = inclination - shift
	s.Dir = skyDir(azimuth, s.Inclination).Mul(-1)
	s.Intensity = p.Intensity * s.Visible
	return s
}

type sunImpl struct {
	mu *sync.Mutex

	clock  timer.DayClock
	params SunParams
	state  SunState
}

// Sun tracks the sun for a shared DayClock.
type Sun interface {
	// Update re-evaluates the sun at the clock's current time of day.
	Update()

	// State returns the most recent evaluation.
	//
	// Returns:
	//   - SunState: the sun state
	State() SunState

	// DirLight returns the state as a directional light.
	//
	// Returns:
	//   - DirLight: the light
	DirLight() DirLight

	// Params returns the sun constants.
	Params() SunParams

	// SetParams replaces the sun constants and re-evaluates.
	SetParams(p SunParams)
}

var _ Sun = &sunImpl{}

// NewSun creates a Sun reading time from clock and evaluates it once.
//
// Parameters:
//   - clock: the shared simulation clock
//   - options: functional options to configure the sun
//
// Returns:
//   - Sun: the newly created sun
func NewSun(clock timer.DayClock, options ...SunBuilderOption) Sun {
	if clock == nil {
		panic("light: NewSun requires a non-nil DayClock")
	}
	s := &sunImpl{
		mu:     &sync.Mutex{},
		clock:  clock,
		params: DefaultSunParams(),
	}
	for _, option := range options {
		option(s)
	}
	s.Update()
	return s
}

func (s *sunImpl) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ComputeSun(s.params, s.clock.TimeOfDay(), s.clock.DayLength())
}

func (s *sunImpl) State() SunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *sunImpl) DirLight() DirLight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DirLight{
		Color:          s.state.Color(),
		Dir:            s.state.Dir,
		ShadowMapCount: 1,
		ShadowMapResX:  ShadowMapResolution,
		ShadowMapResY:  ShadowMapResolution,
	}
}

func (s *sunImpl) Params() SunParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

func (s *sunImpl) SetParams(p SunParams) {
	s.mu.Lock()
	s.params = p
	s.mu.Unlock()
	s.Update()
}
