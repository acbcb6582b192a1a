package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// triangleEpsilon rejects rays parallel to a triangle.
const triangleEpsilon = 1e-8

// Ray is a half line. Distances returned by the intersection tests are in units of Dir, so
// they are world distances only for a normalized ray.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// Transformed returns the ray mapped through m.
func (r Ray) Transformed(m mgl32.Mat4) Ray {
	return Ray{
		Origin: m.Mul4x1(r.Origin.Vec4(1)).Vec3(),
		Dir:    m.Mul4x1(r.Dir.Vec4(0)).Vec3(),
	}
}

// Normalized returns the ray with a unit direction.
func (r Ray) Normalized() Ray {
	return Ray{Origin: r.Origin, Dir: r.Dir.Normalize()}
}

// At returns the point at parameter d.
func (r Ray) At(d float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(d))
}

// IntersectSphere returns the parameter of the first hit in front of the origin. A ray starting
// inside the sphere hits the far side.
func (r Ray) IntersectSphere(s Sphere) (float32, bool) {
	v := r.Origin.Sub(s.Center)
	a := r.Dir.Dot(r.Dir)
	b := 2 * v.Dot(r.Dir)
	c := v.Dot(v) - s.Radius*s.Radius

	delta := b*b - 4*a*c
	if a == 0 || delta < 0 {
		return 0, false
	}
	sq := math32.Sqrt(delta)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 >= 0 {
		return t0, true
	}
	if t1 >= 0 {
		return t1, true
	}
	return 0, false
}

// IntersectAABB runs the slab test and returns the entry parameter, or 0 if the origin is inside.
func (r Ray) IntersectAABB(a AABB) (float32, bool) {
	near := float32(math32.Inf(-1))
	far := float32(math32.Inf(1))
	for i := 0; i < 3; i++ {
		if r.Dir[i] == 0 {
			if r.Origin[i] < a.Min[i] || r.Origin[i] > a.Max[i] {
				return 0, false
			}
			continue
		}
		t0 := (a.Min[i] - r.Origin[i]) / r.Dir[i]
		t1 := (a.Max[i] - r.Origin[i]) / r.Dir[i]
		near = max(near, min(t0, t1))
		far = min(far, max(t0, t1))
	}
	if far < near || far < 0 {
		return 0, false
	}
	return max(near, 0), true
}

// IntersectTriangle runs the Möller–Trumbore test against the triangle p0 p1 p2.
func (r Ray) IntersectTriangle(p0, p1, p2 mgl32.Vec3) (float32, bool) {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	m := r.Origin.Sub(p0)

	c1 := r.Dir.Cross(e2)
	a := e1.Dot(c1)
	if math32.Abs(a) < triangleEpsilon {
		return 0, false
	}
	c2 := m.Cross(e1)

	d := e2.Dot(c2) / a
	u := m.Dot(c1) / a
	v := r.Dir.Dot(c2) / a
	if d > 0 && u >= 0 && v >= 0 && u+v <= 1 {
		return d, true
	}
	return 0, false
}
