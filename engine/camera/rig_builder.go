package camera

type RigBuilderOption func(*rigImpl)

// WithOrbit sets the starting orbit. Theta is clamped away from the poles and phi is wrapped.
//
// Parameters:
//   - radius: distance from the anchor
//   - theta: inclination from +Y in radians
//   - phi: azimuth in radians
//
// Returns:
//   - RigBuilderOption: a function that sets the orbit
func WithOrbit(radius, theta, phi float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.radius = radius
		r.theta = theta
		r.phi = phi
	}
}

// WithRadiusRange sets the scroll zoom bounds.
//
// Parameters:
//   - lo, hi: minimum and maximum orbit radius
//
// Returns:
//   - RigBuilderOption: a function that sets the radius bounds
func WithRadiusRange(lo, hi float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.minRadius = lo
		r.maxRadius = hi
	}
}

// WithMouseSensitivity sets radians of rotation per pixel of cursor movement.
//
// Parameters:
//   - s: sensitivity
//
// Returns:
//   - RigBuilderOption: a function that sets the sensitivity
func WithMouseSensitivity(s float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.mouseSensitivity = s
	}
}

// WithScrollStep sets the radius change per scroll notch.
func WithScrollStep(step float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.scrollStep = step
	}
}

// WithFlySpeed sets the free-fly speed in units per second and the shift multiplier.
//
// Parameters:
//   - speed: base speed
//   - boost: multiplier applied while shift is held
//
// Returns:
//   - RigBuilderOption: a function that sets the fly speed
func WithFlySpeed(speed, boost float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.flySpeed = speed
		r.boost = boost
	}
}

// WithMode sets the starting mode.
func WithMode(mode RigMode) RigBuilderOption {
	return func(r *rigImpl) {
		r.mode = mode
	}
}
