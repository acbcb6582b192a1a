package camera

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithPos sets the camera's starting position.
//
// Parameters:
//   - pos: world-space position
//
// Returns:
//   - CameraBuilderOption: a function that sets the position
func WithPos(pos mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pos = pos
	}
}

// WithBasis sets the camera's starting orientation.
//
// Parameters:
//   - forward: view direction
//   - up: approximate up direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the orientation
func WithBasis(forward, up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.forward, c.up, c.right = common.Orthonormalize(forward, up)
	}
}

// WithHFOV sets the horizontal field of view in radians.
//
// Parameters:
//   - hfov: horizontal field of view
//
// Returns:
//   - CameraBuilderOption: a function that sets the field of view
func WithHFOV(hfov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.hfov = hfov
	}
}

// WithAspectRatio sets the aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - CameraBuilderOption: a function that sets the aspect ratio
func WithAspectRatio(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}
