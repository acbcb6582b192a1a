// Package collision provides bounding volumes, ray queries and the separating axis tests used
// for object and terrain collision.
package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis aligned box. Min holds the smallest coordinate on every axis.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB returns the box spanned by two opposite corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])},
		Max: mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])},
	}
}

// Center returns the box midpoint.
func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extents returns the half size on every axis.
func (a AABB) Extents() mgl32.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// Corners returns the eight box corners.
func (a AABB) Corners() [8]mgl32.Vec3 {
	lo, hi := a.Min, a.Max
	return [8]mgl32.Vec3{
		{lo[0], lo[1], lo[2]},
		{lo[0], lo[1], hi[2]},
		{lo[0], hi[1], hi[2]},
		{lo[0], hi[1], lo[2]},
		{hi[0], lo[1], lo[2]},
		{hi[0], lo[1], hi[2]},
		{hi[0], hi[1], hi[2]},
		{hi[0], hi[1], lo[2]},
	}
}

// Translated returns the box moved by t.
func (a AABB) Translated(t mgl32.Vec3) AABB {
	return AABB{Min: a.Min.Add(t), Max: a.Max.Add(t)}
}

// Transformed returns the box scaled component-wise by s, then moved by t.
func (a AABB) Transformed(t, s mgl32.Vec3) AABB {
	return NewAABB(mulVec(a.Min, s).Add(t), mulVec(a.Max, s).Add(t))
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{min(a.Min[0], b.Min[0]), min(a.Min[1], b.Min[1]), min(a.Min[2], b.Min[2])},
		Max: mgl32.Vec3{max(a.Max[0], b.Max[0]), max(a.Max[1], b.Max[1]), max(a.Max[2], b.Max[2])},
	}
}

// ContainsPoint reports whether p lies inside or on the box.
func (a AABB) ContainsPoint(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < a.Min[i] || p[i] > a.Max[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether the interiors of a and b overlap. Boxes that only touch do not
// intersect, so a resting object can slide along its support.
func (a AABB) Intersects(b AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Max[i] <= b.Min[i] || a.Min[i] >= b.Max[i] {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether s touches or overlaps the box.
func (a AABB) IntersectsSphere(s Sphere) bool {
	var d float32
	for i := 0; i < 3; i++ {
		c := s.Center[i]
		switch {
		case c < a.Min[i]:
			d += (c - a.Min[i]) * (c - a.Min[i])
		case c > a.Max[i]:
			d += (c - a.Max[i]) * (c - a.Max[i])
		}
	}
	return d <= s.Radius*s.Radius
}

// Interval projects the box onto axis.
func (a AABB) Interval(axis mgl32.Vec3) (lo, hi float32) {
	c := a.Corners()
	return interval(c[:], axis)
}

// BoundingSphere returns the sphere through the box corners.
func (a AABB) BoundingSphere() Sphere {
	return Sphere{Center: a.Center(), Radius: a.Extents().Len()}
}

func interval(verts []mgl32.Vec3, axis mgl32.Vec3) (lo, hi float32) {
	lo = verts[0].Dot(axis)
	hi = lo
	for _, v := range verts[1:] {
		d := v.Dot(axis)
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return lo, hi
}

func mulVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func maxComponent(v mgl32.Vec3) float32 {
	return max(math32.Abs(v[0]), math32.Abs(v[1]), math32.Abs(v[2]))
}
