package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0, WrapAngle(0), 1e-6)
	assert.InDelta(t, math32.Pi/2, WrapAngle(-3*math32.Pi/2), 1e-5)
	assert.InDelta(t, math32.Pi, WrapAngle(3*math32.Pi), 1e-5)
	assert.Less(t, WrapAngle(2*math32.Pi), 2*math32.Pi)
}

func TestSphericalToCartesian(t *testing.T) {
	assert.True(t, ApproxEqualVec3(mgl32.Vec3{0, 2, 0}, SphericalToCartesian(2, 0, 0), 1e-5))
	assert.True(t, ApproxEqualVec3(mgl32.Vec3{3, 0, 0}, SphericalToCartesian(3, math32.Pi/2, 0), 1e-5))
	assert.True(t, ApproxEqualVec3(mgl32.Vec3{0, 0, 1}, SphericalToCartesian(1, math32.Pi/2, math32.Pi/2), 1e-5))
}

func TestOrthonormalize(t *testing.T) {
	f, u, r := Orthonormalize(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 1, 1})
	assert.True(t, ApproxEqualVec3(mgl32.Vec3{0, 0, 1}, f, 1e-5))
	assert.True(t, ApproxEqualVec3(mgl32.Vec3{0, 1, 0}, u, 1e-5))
	assert.InDelta(t, 0, r.Dot(f), 1e-5)
	assert.InDelta(t, 0, r.Dot(u), 1e-5)
	assert.InDelta(t, 1, r.Len(), 1e-5)

	// Parallel up falls back to the world up.
	_, u, _ = Orthonormalize(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 0, 0})
	assert.True(t, ApproxEqualVec3(WorldUp, u, 1e-5))
}

func TestQuadOverlap(t *testing.T) {
	a := Quad{X: 0, Y: 0, W: 10, H: 10}
	assert.Equal(t, Quad{X: 5, Y: 2, W: 5, H: 8}, QuadOverlap(a, Quad{X: 5, Y: 2, W: 20, H: 20}))
	assert.Equal(t, a, QuadOverlap(a, DefaultScissor))

	disjoint := QuadOverlap(a, Quad{X: 20, Y: 20, W: 1, H: 1})
	assert.Zero(t, disjoint.W)
	assert.Zero(t, disjoint.H)
	assert.False(t, a.Contains(11, 5))
	assert.True(t, a.Contains(10, 10))
}

func TestFrustumFromPlanes(t *testing.T) {
	var f Frustum
	// Unit cube around the origin with inward normals.
	normals := []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for i, n := range normals {
		f.Planes[i] = PlaneFromPoints(n, n.Mul(-1))
	}
	assert.True(t, f.ContainsPoint(mgl32.Vec3{0.5, 0, 0}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{2, 0, 0}))
	assert.True(t, f.IntersectsSphere(mgl32.Vec3{1.5, 0, 0}, 0.6))
	assert.False(t, f.IntersectsSphere(mgl32.Vec3{3, 0, 0}, 0.6))
	assert.True(t, f.IntersectsAABB(mgl32.Vec3{0.9, 0.9, 0.9}, mgl32.Vec3{3, 3, 3}))
	assert.False(t, f.IntersectsAABB(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{3, 3, 3}))
}
