package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon float32 = 1e-5

// WorldUp is the fixed world up direction.
var WorldUp = mgl32.Vec3{0, 1, 0}

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - float32: the clamped value
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapAngle maps an angle in radians into [0, 2π).
//
// Parameters:
//   - a: angle in radians
//
// Returns:
//   - float32: the equivalent angle in [0, 2π)
func WrapAngle(a float32) float32 {
	const twoPi = 2 * math32.Pi
	a = math32.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}

// SphericalToCartesian converts spherical coordinates (radius, polar angle theta
// measured from +Y, azimuth phi measured in the XZ plane from +X) to a Cartesian offset.
//
// Parameters:
//   - r: radius
//   - theta: polar angle in radians
//   - phi: azimuth in radians
//
// Returns:
//   - mgl32.Vec3: the Cartesian offset
func SphericalToCartesian(r, theta, phi float32) mgl32.Vec3 {
	st, ct := math32.Sincos(theta)
	sp, cp := math32.Sincos(phi)
	return mgl32.Vec3{r * st * cp, r * ct, r * st * sp}
}

// Orthonormalize runs Gram-Schmidt over a forward/up pair and derives a left-handed right vector.
// Returns the input basis unchanged if forward and up are degenerate.
//
// Parameters:
//   - forward: desired forward direction
//   - up: approximate up direction
//
// Returns:
//   - f, u, r: orthonormal forward, up and right vectors
func Orthonormalize(forward, up mgl32.Vec3) (f, u, r mgl32.Vec3) {
	f = forward.Normalize()
	u = up.Sub(f.Mul(up.Dot(f)))
	if u.Len() < epsilon {
		u = WorldUp.Sub(f.Mul(WorldUp.Dot(f)))
		if u.Len() < epsilon {
			u = mgl32.Vec3{0, 0, 1}.Sub(f.Mul(f.Z()))
		}
	}
	u = u.Normalize()
	r = u.Cross(f)
	return f, u, r
}

// ApproxEqualVec3 reports whether two vectors are equal within tol per component.
func ApproxEqualVec3(a, b mgl32.Vec3, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol && math32.Abs(a[1]-b[1]) <= tol && math32.Abs(a[2]-b[2]) <= tol
}
