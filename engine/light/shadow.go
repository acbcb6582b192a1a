package light

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowMapResolution is the default width and height in texels of the sun's shadow map.
const ShadowMapResolution = 2048

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units)
// of the sun's shadow frustum around its center.
const DefaultShadowHalfExtent float32 = 40.0

// DefaultShadowNear is the default near plane of the sun's shadow projection.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the default far plane of the sun's shadow projection.
const DefaultShadowFar float32 = 200.0

// ShadowViewProj builds an orthographic view-projection matrix for a directional light's
// shadow pass. The frustum is centered on center (typically the player) and looks along dir.
// The result uses OpenGL clip conventions as produced by mgl32.LookAtV and mgl32.Ortho.
//
// Parameters:
//   - dir: normalized light direction, from the light toward the scene
//   - center: world-space center of the shadow frustum
//   - halfExtent: half-size of the orthographic frustum in world units
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - mgl32.Mat4: the light view-projection matrix
func ShadowViewProj(dir, center mgl32.Vec3, halfExtent, near, far float32) mgl32.Mat4 {
	// Place the eye behind the center, opposite the light direction.
	eye := center.Sub(dir.Mul(far * 0.5))

	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir.Y()) > 0.99 {
		up = mgl32.Vec3{1, 0, 0}
	}
	view := mgl32.LookAtV(eye, center, up)
	proj := mgl32.Ortho(-halfExtent, halfExtent, -halfExtent, halfExtent, near, far)
	return proj.Mul4(view)
}

// NormalBias returns the world-space normal-offset bias for a shadow map: the world size
// of one texel multiplied by scale.
func NormalBias(halfExtent, scale float32, resolution int) float32 {
	return 2 * halfExtent / float32(resolution) * scale
}
