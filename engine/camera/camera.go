package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	pos     mgl32.Vec3
	forward mgl32.Vec3
	up      mgl32.Vec3
	right   mgl32.Vec3

	hfov   float32
	vfov   float32
	aspect float32
	near   float32
	far    float32

	projectionMatrix mgl32.Mat4

	// view-dependent cache, valid while dirty is false
	dirty          bool
	generation     uint64
	viewMatrix     mgl32.Mat4
	invViewMatrix  mgl32.Mat4
	viewProjMatrix mgl32.Mat4
	frustumPoints  [8]mgl32.Vec3
	frustumPlanes  [6]common.Plane
}

// Camera is a left-handed perspective camera with a zero-to-one depth range.
// Basis mutators only invalidate the cached view state; it is rebuilt on the next
// view-dependent read. Projection setters rebuild the projection immediately.
type Camera interface {
	// Pos returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Pos() mgl32.Vec3

	// Forward returns the unit view direction.
	//
	// Returns:
	//   - mgl32.Vec3: the forward vector
	Forward() mgl32.Vec3

	// Up returns the unit up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Right returns the unit right vector.
	//
	// Returns:
	//   - mgl32.Vec3: the right vector
	Right() mgl32.Vec3

	// SetPos moves the camera.
	//
	// Parameters:
	//   - pos: world-space position
	SetPos(pos mgl32.Vec3)

	// SetBasis replaces the orientation. The pair is orthonormalized and right is derived.
	//
	// Parameters:
	//   - forward: view direction
	//   - up: approximate up direction
	SetBasis(forward, up mgl32.Vec3)

	// Walk moves the camera along its forward vector.
	//
	// Parameters:
	//   - d: signed distance
	Walk(d float32)

	// Strafe moves the camera along its right vector.
	//
	// Parameters:
	//   - d: signed distance
	Strafe(d float32)

	// Tilt moves the camera along its up vector.
	//
	// Parameters:
	//   - d: signed distance
	Tilt(d float32)

	// Rotate turns the camera about the world Y axis.
	//
	// Parameters:
	//   - angle: rotation in radians
	Rotate(angle float32)

	// Pitch turns the camera about its own right vector.
	//
	// Parameters:
	//   - angle: rotation in radians
	Pitch(angle float32)

	// HFOV returns the horizontal field of view in radians.
	HFOV() float32

	// VFOV returns the vertical field of view in radians.
	VFOV() float32

	// Near returns the near plane distance.
	Near() float32

	// Far returns the far plane distance.
	Far() float32

	// AspectRatio returns width / height.
	AspectRatio() float32

	// ImagePlaneDistance returns 1/tan(vfov/2), the distance of the unit-height image plane.
	ImagePlaneDistance() float32

	// SetHFOV sets the horizontal field of view and derives the vertical one.
	//
	// Parameters:
	//   - hfov: horizontal field of view in radians
	SetHFOV(hfov float32)

	// SetVFOV sets the vertical field of view and derives the horizontal one.
	//
	// Parameters:
	//   - vfov: vertical field of view in radians
	SetVFOV(vfov float32)

	// SetNear sets the near plane distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far plane distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetAspectRatio sets width / height, keeping the horizontal field of view.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspectRatio(aspect float32)

	// V returns the world-to-view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	V() mgl32.Mat4

	// InvV returns the view-to-world matrix. Its columns are right, up, forward and position.
	//
	// Returns:
	//   - mgl32.Mat4: the inverse view matrix
	InvV() mgl32.Mat4

	// P returns the projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	P() mgl32.Mat4

	// VP returns P * V.
	//
	// Returns:
	//   - mgl32.Mat4: the view-projection matrix
	VP() mgl32.Mat4

	// ViewFrustumPointsW returns the 8 world-space frustum corners: the near rectangle
	// (-w,-h), (-w,h), (w,h), (w,-h) followed by the far rectangle in the same order.
	//
	// Returns:
	//   - [8]mgl32.Vec3: the corners
	ViewFrustumPointsW() [8]mgl32.Vec3

	// ViewFrustumPlanesW returns the near, far, left, right, top and bottom planes.
	// A point p is inside when Dot(plane, (p, 1)) >= 0.
	//
	// Returns:
	//   - [6]common.Plane: the planes
	ViewFrustumPlanesW() [6]common.Plane

	// Frustum returns ViewFrustumPlanesW wrapped as a common.Frustum.
	Frustum() common.Frustum

	// CursorProjW converts a cursor position in normalized device coordinates into an
	// unnormalized world-space ray direction through the image plane.
	//
	// Parameters:
	//   - ndc: cursor position, both axes in [-1, 1], +Y up
	//
	// Returns:
	//   - mgl32.Vec3: the ray direction
	CursorProjW(ndc mgl32.Vec2) mgl32.Vec3

	// ViewGeneration returns how many times the view-dependent cache has been rebuilt.
	ViewGeneration() uint64

	// Uniform returns the GPU camera uniform for the current state.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform block
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at the origin looking down +Z with a 90 degree horizontal
// field of view and a 16:9 aspect ratio.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:      &sync.Mutex{},
		forward: mgl32.Vec3{0, 0, 1},
		up:      mgl32.Vec3{0, 1, 0},
		right:   mgl32.Vec3{1, 0, 0},
		hfov:    math32.Pi / 2,
		aspect:  16.0 / 9.0,
		near:    0.1,
		far:     500,
		dirty:   true,
	}
	for _, option := range options {
		option(c)
	}
	c.vfov = vfovFromHfov(c.hfov, c.aspect)
	c.updateProjection()
	return c
}

func (c *cameraImpl) Pos() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forward
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.right
}

func (c *cameraImpl) SetPos(pos mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = pos
	c.dirty = true
}

func (c *cameraImpl) SetBasis(forward, up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forward, c.up, c.right = common.Orthonormalize(forward, up)
	c.dirty = true
}

func (c *cameraImpl) Walk(d float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = c.pos.Add(c.forward.Mul(d))
	c.dirty = true
}

func (c *cameraImpl) Strafe(d float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = c.pos.Add(c.right.Mul(d))
	c.dirty = true
}

func (c *cameraImpl) Tilt(d float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = c.pos.Add(c.up.Mul(d))
	c.dirty = true
}

func (c *cameraImpl) Rotate(angle float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := mgl32.QuatRotate(angle, common.WorldUp)
	c.forward, c.up, c.right = common.Orthonormalize(q.Rotate(c.forward), q.Rotate(c.up))
	c.dirty = true
}

func (c *cameraImpl) Pitch(angle float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := mgl32.QuatRotate(angle, c.right)
	c.forward, c.up, c.right = common.Orthonormalize(q.Rotate(c.forward), q.Rotate(c.up))
	c.dirty = true
}

func (c *cameraImpl) HFOV() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hfov
}

func (c *cameraImpl) VFOV() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vfov
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) AspectRatio() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) ImagePlaneDistance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return 1 / math32.Tan(c.vfov/2)
}

func (c *cameraImpl) SetHFOV(hfov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hfov = hfov
	c.vfov = vfovFromHfov(hfov, c.aspect)
	c.updateProjection()
}

func (c *cameraImpl) SetVFOV(vfov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vfov = vfov
	c.hfov = 2 * math32.Atan(c.aspect*math32.Tan(vfov/2))
	c.updateProjection()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateProjection()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateProjection()
}

func (c *cameraImpl) SetAspectRatio(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.vfov = vfovFromHfov(c.hfov, aspect)
	c.updateProjection()
}

func (c *cameraImpl) V() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return c.viewMatrix
}

func (c *cameraImpl) InvV() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return c.invViewMatrix
}

func (c *cameraImpl) P() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) VP() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return c.viewProjMatrix
}

func (c *cameraImpl) ViewFrustumPointsW() [8]mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return c.frustumPoints
}

func (c *cameraImpl) ViewFrustumPlanesW() [6]common.Plane {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return c.frustumPlanes
}

func (c *cameraImpl) Frustum() common.Frustum {
	return common.Frustum{Planes: c.ViewFrustumPlanesW()}
}

func (c *cameraImpl) CursorProjW(ndc mgl32.Vec2) mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	ipd := 1 / math32.Tan(c.vfov/2)
	return c.invViewMatrix.Mul4x1(mgl32.Vec4{ndc.X() * c.aspect, ndc.Y(), ipd, 0}).Vec3()
}

func (c *cameraImpl) ViewGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	return GPUCameraUniform{
		ViewProj:       c.viewProjMatrix,
		CameraPosition: c.pos,
	}
}

// refresh rebuilds the view-dependent cache if a mutator invalidated it. Callers hold mu.
func (c *cameraImpl) refresh() {
	if !c.dirty {
		return
	}
	c.invViewMatrix = mgl32.Mat4FromCols(c.right.Vec4(0), c.up.Vec4(0), c.forward.Vec4(0), c.pos.Vec4(1))
	c.viewMatrix = mgl32.Mat4FromRows(
		c.right.Vec4(-c.right.Dot(c.pos)),
		c.up.Vec4(-c.up.Dot(c.pos)),
		c.forward.Vec4(-c.forward.Dot(c.pos)),
		mgl32.Vec4{0, 0, 0, 1},
	)
	c.viewProjMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.updateFrustum()
	c.dirty = false
	c.generation++
}

func (c *cameraImpl) updateFrustum() {
	tanHalf := math32.Tan(c.vfov / 2)
	corner := func(x, y, z float32) mgl32.Vec3 {
		return c.pos.Add(c.right.Mul(x)).Add(c.up.Mul(y)).Add(c.forward.Mul(z))
	}
	for i, d := range [2]float32{c.near, c.far} {
		h := d * tanHalf
		w := h * c.aspect
		c.frustumPoints[i*4+0] = corner(-w, -h, d)
		c.frustumPoints[i*4+1] = corner(-w, h, d)
		c.frustumPoints[i*4+2] = corner(w, h, d)
		c.frustumPoints[i*4+3] = corner(w, -h, d)
	}

	p := c.frustumPoints
	c.frustumPlanes[common.FrustumNear] = common.PlaneFromPoints(p[1].Sub(p[2]).Cross(p[3].Sub(p[2])), p[2])
	c.frustumPlanes[common.FrustumFar] = common.PlaneFromPoints(p[4].Sub(p[7]).Cross(p[6].Sub(p[7])), p[7])
	c.frustumPlanes[common.FrustumLeft] = common.PlaneFromPoints(p[0].Sub(p[4]).Cross(p[5].Sub(p[4])), p[4])
	c.frustumPlanes[common.FrustumRight] = common.PlaneFromPoints(p[7].Sub(p[3]).Cross(p[2].Sub(p[3])), p[3])
	c.frustumPlanes[common.FrustumTop] = common.PlaneFromPoints(p[6].Sub(p[2]).Cross(p[1].Sub(p[2])), p[2])
	c.frustumPlanes[common.FrustumBottom] = common.PlaneFromPoints(p[0].Sub(p[3]).Cross(p[7].Sub(p[3])), p[3])
}

// updateProjection builds a left-handed perspective matrix with depth mapped to [0, 1].
// Callers hold mu.
func (c *cameraImpl) updateProjection() {
	f := 1 / math32.Tan(c.vfov/2)
	depth := c.far - c.near
	c.projectionMatrix = mgl32.Mat4{}
	c.projectionMatrix[0] = f / c.aspect
	c.projectionMatrix[5] = f
	c.projectionMatrix[10] = c.far / depth
	c.projectionMatrix[11] = 1
	c.projectionMatrix[14] = -c.far * c.near / depth
	c.dirty = true
}

func vfovFromHfov(hfov, aspect float32) float32 {
	return 2 * math32.Atan(math32.Tan(hfov/2)/aspect)
}
