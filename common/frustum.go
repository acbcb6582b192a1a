package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space as (a, b, c, d) with ax + by + cz + d = 0.
// The normal (a, b, c) faces the inside half-space, so a point p is inside when
// Dot(plane, (p, 1)) >= 0.
type Plane = mgl32.Vec4

// FrustumPlane indices. The order matches the camera's plane output.
const (
	FrustumNear   = 0
	FrustumFar    = 1
	FrustumLeft   = 2
	FrustumRight  = 3
	FrustumTop    = 4
	FrustumBottom = 5
)

// Frustum holds six inward-facing planes.
type Frustum struct {
	Planes [6]Plane
}

// PlaneFromPoints builds the plane through p with the given normal, normalizing the result.
//
// Parameters:
//   - n: plane normal (need not be unit length)
//   - p: any point on the plane
//
// Returns:
//   - Plane: the normalized plane
func PlaneFromPoints(n, p mgl32.Vec3) Plane {
	l := n.Len()
	if l > 0 {
		n = n.Mul(1 / l)
	}
	return Plane{n.X(), n.Y(), n.Z(), -n.Dot(p)}
}

// SignedDistance returns the signed distance from p to the plane. Positive is inside.
func SignedDistance(pl Plane, p mgl32.Vec3) float32 {
	return pl.Dot(p.Vec4(1))
}

// ContainsPoint reports whether p lies inside or on every plane of the frustum.
func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for _, pl := range f.Planes {
		if SignedDistance(pl, p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere is at least partially inside the frustum.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius
//
// Returns:
//   - bool: false only when the sphere is fully outside one of the planes
func (f Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, pl := range f.Planes {
		if SignedDistance(pl, center) < -radius {
			return false
		}
	}
	return true
}

// IntersectsAABB reports whether an axis-aligned box is at least partially inside the frustum,
// testing the positive vertex of the box against each plane.
func (f Frustum) IntersectsAABB(lo, hi mgl32.Vec3) bool {
	for _, pl := range f.Planes {
		p := lo
		if pl[0] >= 0 {
			p[0] = hi[0]
		}
		if pl[1] >= 0 {
			p[1] = hi[1]
		}
		if pl[2] >= 0 {
			p[2] = hi[2]
		}
		if SignedDistance(pl, p) < 0 {
			return false
		}
	}
	return true
}

// ExtractFrustumFromMatrix extracts inward-facing frustum planes from a view-projection matrix
// using the Gribb/Hartmann method, for a zero-to-one depth range.
// The result is returned in the same near, far, left, right, top, bottom order used by the camera.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - vp: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)
	f := Frustum{Planes: [6]Plane{
		r2,         // near: z >= 0
		r3.Sub(r2), // far
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Sub(r1), // top
		r3.Add(r1), // bottom
	}}
	for i := range f.Planes {
		n := f.Planes[i].Vec3().Len()
		if n > 0 {
			f.Planes[i] = f.Planes[i].Mul(1 / n)
		}
	}
	return f
}
