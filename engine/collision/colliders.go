package collision

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Colliders is the set of collision shapes owned by one object, in object or world space.
type Colliders struct {
	Boxes   []AABB
	OBBs    []OBB
	Spheres []Sphere
}

// Empty reports whether there are no shapes.
func (c Colliders) Empty() bool {
	return len(c.Boxes) == 0 && len(c.OBBs) == 0 && len(c.Spheres) == 0
}

// Transformed maps object space colliders to world space. Axis aligned boxes stay axis aligned
// and ignore rotation; use OBBs for shapes that must rotate.
func (c Colliders) Transformed(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) Colliders {
	out := Colliders{
		Boxes:   make([]AABB, len(c.Boxes)),
		OBBs:    make([]OBB, len(c.OBBs)),
		Spheres: make([]Sphere, len(c.Spheres)),
	}
	for i, b := range c.Boxes {
		out.Boxes[i] = b.Transformed(pos, scale)
	}
	for i, b := range c.OBBs {
		out.OBBs[i] = b.Transformed(pos, rot, scale)
	}
	for i, s := range c.Spheres {
		out.Spheres[i] = s.Transformed(pos, rot, scale)
	}
	return out
}

// Translated returns the colliders moved by d.
func (c Colliders) Translated(d mgl32.Vec3) Colliders {
	return c.Transformed(d, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
}

// Bounds returns the box enclosing every shape. ok is false for an empty set.
func (c Colliders) Bounds() (b AABB, ok bool) {
	add := func(x AABB) {
		if !ok {
			b, ok = x, true
			return
		}
		b = b.Union(x)
	}
	for _, x := range c.Boxes {
		add(x)
	}
	for _, o := range c.OBBs {
		add(NewAABB(o.Verts[0], o.Verts[0]).boundVerts(o.Verts[:]))
	}
	for _, s := range c.Spheres {
		r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
		add(AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)})
	}
	return b, ok
}

func (a AABB) boundVerts(verts []mgl32.Vec3) AABB {
	for _, v := range verts {
		a = a.Union(AABB{Min: v, Max: v})
	}
	return a
}

// Intersects reports whether any shape of c overlaps any shape of o.
func (c Colliders) Intersects(o Colliders) bool {
	for _, a := range c.Boxes {
		for _, b := range o.Boxes {
			if a.Intersects(b) {
				return true
			}
		}
		for _, b := range o.OBBs {
			if b.IntersectsAABB(a) {
				return true
			}
		}
		for _, s := range o.Spheres {
			if a.IntersectsSphere(s) {
				return true
			}
		}
	}
	for _, a := range c.OBBs {
		for _, b := range o.Boxes {
			if a.IntersectsAABB(b) {
				return true
			}
		}
		for _, b := range o.OBBs {
			if a.IntersectsOBB(b) {
				return true
			}
		}
		for _, s := range o.Spheres {
			if a.IntersectsSphere(s) {
				return true
			}
		}
	}
	for _, a := range c.Spheres {
		for _, b := range o.Boxes {
			if b.IntersectsSphere(a) {
				return true
			}
		}
		for _, b := range o.OBBs {
			if b.IntersectsSphere(a) {
				return true
			}
		}
		for _, s := range o.Spheres {
			if a.IntersectsSphere(s) {
				return true
			}
		}
	}
	return false
}

// IntersectRay returns the closest hit of r against any shape.
func (c Colliders) IntersectRay(r Ray) (float32, bool) {
	best, hit := float32(0), false
	try := func(d float32, ok bool) {
		if ok && (!hit || d < best) {
			best, hit = d, true
		}
	}
	for _, b := range c.Boxes {
		try(r.IntersectAABB(b))
	}
	for _, s := range c.Spheres {
		try(r.IntersectSphere(s))
	}
	for _, o := range c.OBBs {
		try(r.intersectOBB(o))
	}
	return best, hit
}

// obbFaces lists the corner indices of each box face, matching AABB.Corners ordering.
var obbFaces = [6][4]int{
	{0, 1, 2, 3},
	{4, 7, 6, 5},
	{0, 4, 5, 1},
	{3, 2, 6, 7},
	{0, 3, 7, 4},
	{1, 5, 6, 2},
}

func (r Ray) intersectOBB(o OBB) (float32, bool) {
	best, hit := float32(0), false
	for _, f := range obbFaces {
		v := o.Verts
		for _, tri := range [2][3]int{{f[0], f[1], f[2]}, {f[0], f[2], f[3]}} {
			if d, ok := r.IntersectTriangle(v[tri[0]], v[tri[1]], v[tri[2]]); ok && (!hit || d < best) {
				best, hit = d, true
			}
		}
	}
	return best, hit
}
