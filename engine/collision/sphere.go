package collision

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Transformed applies scale s, rotation q and translation t. The radius grows by the largest
// scale component.
func (s Sphere) Transformed(t mgl32.Vec3, q mgl32.Quat, sc mgl32.Vec3) Sphere {
	return Sphere{
		Center: q.Rotate(mulVec(s.Center, sc)).Add(t),
		Radius: s.Radius * maxComponent(sc),
	}
}

// IntersectsSphere reports whether the spheres touch or overlap.
func (s Sphere) IntersectsSphere(o Sphere) bool {
	r := s.Radius + o.Radius
	return s.Center.Sub(o.Center).LenSqr() <= r*r
}

// InFrustum reports whether the sphere is at least partially inside f.
func (s Sphere) InFrustum(f common.Frustum) bool {
	return f.IntersectsSphere(s.Center, s.Radius)
}
