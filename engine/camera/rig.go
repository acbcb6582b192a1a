package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RigMode selects how the rig drives its camera.
type RigMode uint8

const (
	// ThirdPerson orbits the camera around an anchor point.
	ThirdPerson RigMode = iota
	// FreeFly moves the camera directly from mouse and keyboard input.
	FreeFly
)

// thetaEpsilon keeps the orbit away from the poles, where the basis would degenerate.
const thetaEpsilon float32 = 0.01

type rigImpl struct {
	mu *sync.Mutex

	camera Camera
	mode   RigMode

	radius    float32
	theta     float32
	phi       float32
	minRadius float32
	maxRadius float32

	mouseSensitivity float32
	scrollStep       float32
	flySpeed         float32
	boost            float32
}

// Rig drives a Camera either as a third-person orbit around an anchor or as a free-fly camera.
type Rig interface {
	// Camera returns the driven camera.
	Camera() Camera

	// Mode returns the current rig mode.
	Mode() RigMode

	// SetMode switches the rig mode.
	//
	// Parameters:
	//   - mode: the new mode
	SetMode(mode RigMode)

	// ToggleMode switches between ThirdPerson and FreeFly.
	ToggleMode()

	// OnMouseMove applies a cursor delta. Third-person changes the orbit angles,
	// free-fly rotates and pitches the camera.
	//
	// Parameters:
	//   - dx, dy: cursor delta in pixels
	OnMouseMove(dx, dy float32)

	// OnScroll adjusts the orbit radius, clamped to the configured range.
	//
	// Parameters:
	//   - notches: vertical scroll offset, positive zooms in
	OnScroll(notches float32)

	// Update positions the camera for this step. In third-person mode the camera is
	// placed on the orbit around anchor and re-aimed at it. In free-fly mode WASD,
	// Space and C move the camera, boosted while shift is held.
	//
	// Parameters:
	//   - dt: step duration in seconds
	//   - anchor: world-space orbit target
	//   - st: the current input state, may be nil
	Update(dt float32, anchor mgl32.Vec3, st *input.InputState)

	// Radius returns the orbit radius.
	Radius() float32

	// Theta returns the orbit inclination from +Y in radians.
	Theta() float32

	// Phi returns the orbit azimuth in [0, 2π).
	Phi() float32
}

var _ Rig = &rigImpl{}

// NewRig creates a third-person Rig around cam with radius 5, theta π/2 and phi -π/2,
// which places the camera behind an anchor that faces +Z.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the newly created rig
func NewRig(cam Camera, options ...RigBuilderOption) Rig {
	if cam == nil {
		panic("camera: NewRig requires a non-nil Camera")
	}
	r := &rigImpl{
		mu:               &sync.Mutex{},
		camera:           cam,
		mode:             ThirdPerson,
		radius:           5,
		theta:            math32.Pi / 2,
		phi:              -math32.Pi / 2,
		minRadius:        3,
		maxRadius:        10,
		mouseSensitivity: 0.005,
		scrollStep:       0.5,
		flySpeed:         10,
		boost:            5,
	}
	for _, option := range options {
		option(r)
	}
	r.theta = common.Clamp(r.theta, thetaEpsilon, math32.Pi-thetaEpsilon)
	r.phi = common.WrapAngle(r.phi)
	r.radius = common.Clamp(r.radius, r.minRadius, r.maxRadius)
	return r
}

func (r *rigImpl) Camera() Camera {
	return r.camera
}

func (r *rigImpl) Mode() RigMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *rigImpl) SetMode(mode RigMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = mode
}

func (r *rigImpl) ToggleMode() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == ThirdPerson {
		r.mode = FreeFly
	} else {
		r.mode = ThirdPerson
	}
}

func (r *rigImpl) OnMouseMove(dx, dy float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.mouseSensitivity
	if r.mode == FreeFly {
		r.camera.Rotate(dx * s)
		r.camera.Pitch(dy * s)
		return
	}
	r.theta = common.Clamp(r.theta+dy*s, thetaEpsilon, math32.Pi-thetaEpsilon)
	r.phi = common.WrapAngle(r.phi - dx*s)
}

func (r *rigImpl) OnScroll(notches float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.radius = common.Clamp(r.radius-notches*r.scrollStep, r.minRadius, r.maxRadius)
}

func (r *rigImpl) Update(dt float32, anchor mgl32.Vec3, st *input.InputState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == FreeFly {
		r.fly(dt, st)
		return
	}
	pos := anchor.Add(common.SphericalToCartesian(r.radius, r.theta, r.phi))
	forward := anchor.Sub(pos).Normalize()
	right := common.WorldUp.Cross(forward).Normalize()
	up := forward.Cross(right)
	r.camera.SetPos(pos)
	r.camera.SetBasis(forward, up)
}

func (r *rigImpl) Radius() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.radius
}

func (r *rigImpl) Theta() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theta
}

func (r *rigImpl) Phi() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phi
}

func (r *rigImpl) fly(dt float32, st *input.InputState) {
	if st == nil {
		return
	}
	d := r.flySpeed * dt
	if st.Shift() {
		d *= r.boost
	}
	if st.Pressed(input.KeyW) {
		r.camera.Walk(d)
	}
	if st.Pressed(input.KeyS) {
		r.camera.Walk(-d)
	}
	if st.Pressed(input.KeyD) {
		r.camera.Strafe(d)
	}
	if st.Pressed(input.KeyA) {
		r.camera.Strafe(-d)
	}
	if st.Pressed(input.KeySpace) {
		r.camera.Tilt(d)
	}
	if st.Pressed(input.KeyC) {
		r.camera.Tilt(-d)
	}
}
