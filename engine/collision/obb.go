package collision

import (
	"github.com/go-gl/mathgl/mgl32"
)

// axisEpsilon rejects degenerate separating axes produced by crossing parallel edges.
const axisEpsilon = 1e-6

var worldAxes = [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// OBB is an oriented box stored as its eight corners and three face normals.
type OBB struct {
	Verts   [8]mgl32.Vec3
	Normals [3]mgl32.Vec3
}

// OBBFromAABB returns the oriented box equal to a.
func OBBFromAABB(a AABB) OBB {
	return OBB{Verts: a.Corners(), Normals: worldAxes}
}

// Transformed applies scale s, rotation q and translation t to the box. Normals are transformed
// by the inverse transpose and renormalized.
func (o OBB) Transformed(t mgl32.Vec3, q mgl32.Quat, s mgl32.Vec3) OBB {
	w := mgl32.Translate3D(t[0], t[1], t[2]).Mul4(q.Mat4()).Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	nm := w.Mat3().Inv().Transpose()

	var out OBB
	for i, v := range o.Verts {
		out.Verts[i] = w.Mul4x1(v.Vec4(1)).Vec3()
	}
	for i, n := range o.Normals {
		out.Normals[i] = nm.Mul3x1(n).Normalize()
	}
	return out
}

// Interval projects the box onto axis.
func (o OBB) Interval(axis mgl32.Vec3) (lo, hi float32) {
	return interval(o.Verts[:], axis)
}

// Center returns the mean of the corners.
func (o OBB) Center() mgl32.Vec3 {
	var c mgl32.Vec3
	for _, v := range o.Verts {
		c = c.Add(v)
	}
	return c.Mul(1.0 / 8)
}

type projector interface {
	Interval(axis mgl32.Vec3) (lo, hi float32)
}

// separated reports whether axis separates a and b. Near-zero axes never separate.
func separated(a, b projector, axis mgl32.Vec3) bool {
	if axis.LenSqr() < axisEpsilon {
		return false
	}
	lo0, hi0 := a.Interval(axis)
	lo1, hi1 := b.Interval(axis)
	return hi1 < lo0 || hi0 < lo1
}

// sat runs the 15 axis separating axis test over two boxes with face normals na and nb.
func sat(a, b projector, na, nb [3]mgl32.Vec3) bool {
	for _, axis := range na {
		if separated(a, b, axis) {
			return false
		}
	}
	for _, axis := range nb {
		if separated(a, b, axis) {
			return false
		}
	}
	for _, a0 := range na {
		for _, a1 := range nb {
			if separated(a, b, a0.Cross(a1)) {
				return false
			}
		}
	}
	return true
}

// IntersectsAABB runs the separating axis test against an axis aligned box.
func (o OBB) IntersectsAABB(a AABB) bool {
	return sat(o, a, o.Normals, worldAxes)
}

// IntersectsOBB runs the separating axis test against another oriented box.
func (o OBB) IntersectsOBB(b OBB) bool {
	return sat(o, b, o.Normals, b.Normals)
}

// IntersectsSphere finds the box point closest to the sphere center and compares its distance
// to the radius.
func (o OBB) IntersectsSphere(s Sphere) bool {
	var closest mgl32.Vec3
	for _, n := range o.Normals {
		lo, hi := o.Interval(n)
		c := s.Center.Dot(n)
		closest = closest.Add(n.Mul(min(max(c, lo), hi)))
	}
	return closest.Sub(s.Center).Len() <= s.Radius
}
