package collision

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox() AABB {
	return AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
}

func TestAABBBasics(t *testing.T) {
	b := NewAABB(mgl32.Vec3{2, -1, 3}, mgl32.Vec3{0, 1, -3})
	assert.Equal(t, mgl32.Vec3{0, -1, -3}, b.Min)
	assert.Equal(t, mgl32.Vec3{2, 1, 3}, b.Max)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, b.Center())

	moved := unitBox().Transformed(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{2, 1, -1})
	assert.Equal(t, mgl32.Vec3{8, -1, -1}, moved.Min)
	assert.Equal(t, mgl32.Vec3{12, 1, 1}, moved.Max)

	lo, hi := unitBox().Interval(mgl32.Vec3{1, 1, 0})
	assert.Equal(t, float32(-2), lo)
	assert.Equal(t, float32(2), hi)
}

func TestAABBIntersects(t *testing.T) {
	a := unitBox()
	assert.True(t, a.Intersects(a.Translated(mgl32.Vec3{1.5, 0, 0})))
	assert.False(t, a.Intersects(a.Translated(mgl32.Vec3{2, 0, 0})), "touching faces do not intersect")
	assert.False(t, a.Intersects(a.Translated(mgl32.Vec3{0, 3, 0})))

	assert.True(t, a.IntersectsSphere(Sphere{Center: mgl32.Vec3{2, 0, 0}, Radius: 1}))
	assert.False(t, a.IntersectsSphere(Sphere{Center: mgl32.Vec3{2, 2, 0}, Radius: 1}))
}

func TestOBBSeparatingAxis(t *testing.T) {
	o := OBBFromAABB(unitBox())
	rot := mgl32.QuatRotate(math32.Pi/4, mgl32.Vec3{0, 1, 0})

	// a 45 degree box reaches sqrt(2) along x
	r := o.Transformed(mgl32.Vec3{0, 0, 0}, rot, mgl32.Vec3{1, 1, 1})
	assert.True(t, r.IntersectsAABB(unitBox().Translated(mgl32.Vec3{2.3, 0, 0})))
	assert.False(t, r.IntersectsAABB(unitBox().Translated(mgl32.Vec3{2.5, 0, 0})))

	// corner to corner on the diagonal is separated by a rotated face normal
	far := o.Transformed(mgl32.Vec3{2.1, 0, 2.1}, rot, mgl32.Vec3{1, 1, 1})
	assert.False(t, OBBFromAABB(unitBox()).IntersectsOBB(far))
	near := o.Transformed(mgl32.Vec3{1.5, 0, 1.5}, rot, mgl32.Vec3{1, 1, 1})
	assert.True(t, OBBFromAABB(unitBox()).IntersectsOBB(near))

	for _, n := range r.Normals {
		assert.InDelta(t, 1, n.Len(), 1e-5)
	}
}

func TestOBBIntersectsSphere(t *testing.T) {
	o := OBBFromAABB(unitBox())
	assert.True(t, o.IntersectsSphere(Sphere{Center: mgl32.Vec3{1.5, 0, 0}, Radius: 0.6}))
	assert.False(t, o.IntersectsSphere(Sphere{Center: mgl32.Vec3{1.5, 1.5, 0}, Radius: 0.6}))
}

func TestSphere(t *testing.T) {
	s := Sphere{Center: mgl32.Vec3{1, 0, 0}, Radius: 1}
	rot := mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0})
	w := s.Transformed(mgl32.Vec3{0, 5, 0}, rot, mgl32.Vec3{2, 3, 1})
	assert.True(t, common.ApproxEqualVec3(mgl32.Vec3{0, 5, -2}, w.Center, 1e-5))
	assert.Equal(t, float32(3), w.Radius)

	assert.True(t, s.IntersectsSphere(Sphere{Center: mgl32.Vec3{3, 0, 0}, Radius: 1}))
	assert.False(t, s.IntersectsSphere(Sphere{Center: mgl32.Vec3{3.1, 0, 0}, Radius: 1}))
}

func TestRaySphere(t *testing.T) {
	s := Sphere{Center: mgl32.Vec3{0, 0, 10}, Radius: 2}
	d, ok := Ray{Dir: mgl32.Vec3{0, 0, 1}}.IntersectSphere(s)
	require.True(t, ok)
	assert.InDelta(t, 8, d, 1e-5)

	d, ok = Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{0, 0, 1}}.IntersectSphere(s)
	require.True(t, ok)
	assert.InDelta(t, 2, d, 1e-5)

	_, ok = Ray{Dir: mgl32.Vec3{0, 0, -1}}.IntersectSphere(s)
	assert.False(t, ok, "sphere behind the ray")
	_, ok = Ray{Dir: mgl32.Vec3{0, 1, 0}}.IntersectSphere(s)
	assert.False(t, ok)
}

func TestRayAABB(t *testing.T) {
	b := unitBox().Translated(mgl32.Vec3{5, 0, 0})
	d, ok := Ray{Dir: mgl32.Vec3{1, 0, 0}}.IntersectAABB(b)
	require.True(t, ok)
	assert.InDelta(t, 4, d, 1e-5)

	_, ok = Ray{Origin: mgl32.Vec3{0, 3, 0}, Dir: mgl32.Vec3{1, 0, 0}}.IntersectAABB(b)
	assert.False(t, ok)
	_, ok = Ray{Dir: mgl32.Vec3{-1, 0, 0}}.IntersectAABB(b)
	assert.False(t, ok)

	d, ok = Ray{Origin: mgl32.Vec3{5, 0, 0}, Dir: mgl32.Vec3{0, 1, 0}}.IntersectAABB(b)
	require.True(t, ok)
	assert.Equal(t, float32(0), d)
}

func TestRayTriangle(t *testing.T) {
	p0, p1, p2 := mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{1, 0, -1}, mgl32.Vec3{0, 0, 1}
	d, ok := Ray{Origin: mgl32.Vec3{0, 5, 0}, Dir: mgl32.Vec3{0, -1, 0}}.IntersectTriangle(p0, p1, p2)
	require.True(t, ok)
	assert.InDelta(t, 5, d, 1e-5)

	_, ok = Ray{Origin: mgl32.Vec3{3, 5, 0}, Dir: mgl32.Vec3{0, -1, 0}}.IntersectTriangle(p0, p1, p2)
	assert.False(t, ok)
	_, ok = Ray{Origin: mgl32.Vec3{0, 5, 0}, Dir: mgl32.Vec3{1, 0, 0}}.IntersectTriangle(p0, p1, p2)
	assert.False(t, ok, "parallel ray")
}

func TestRayTransformed(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{1, 0, 0}, Dir: mgl32.Vec3{0, 0, 2}}
	m := mgl32.Translate3D(0, 3, 0)
	tr := r.Transformed(m)
	assert.Equal(t, mgl32.Vec3{1, 3, 0}, tr.Origin)
	assert.Equal(t, mgl32.Vec3{0, 0, 2}, tr.Dir)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, tr.Normalized().Dir)
}

func TestColliders(t *testing.T) {
	local := Colliders{Boxes: []AABB{unitBox()}}
	a := local.Transformed(mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
	b := local.Translated(mgl32.Vec3{1.5, 0, 0})
	c := Colliders{Spheres: []Sphere{{Center: mgl32.Vec3{0, 5, 0}, Radius: 1}}}

	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
	assert.True(t, c.Intersects(Colliders{OBBs: []OBB{OBBFromAABB(unitBox().Translated(mgl32.Vec3{0, 3.5, 0}))}}))

	both := Colliders{Boxes: a.Boxes, Spheres: c.Spheres}
	bounds, ok := both.Bounds()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, bounds.Min)
	assert.Equal(t, mgl32.Vec3{1, 6, 1}, bounds.Max)

	_, ok = Colliders{}.Bounds()
	assert.False(t, ok)
	assert.True(t, Colliders{}.Empty())

	d, hit := both.IntersectRay(Ray{Origin: mgl32.Vec3{0, 20, 0}, Dir: mgl32.Vec3{0, -1, 0}})
	require.True(t, hit)
	assert.InDelta(t, 14, d, 1e-5)
}
