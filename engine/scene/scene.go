package scene

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/camera"
	"github.com/Carmen-Shannon/oxy-frontier/engine/collision"
	"github.com/Carmen-Shannon/oxy-frontier/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/light"
	"github.com/Carmen-Shannon/oxy-frontier/engine/loader"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/terrain"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultMaxStep is the tallest ledge the player climbs without jumping.
	DefaultMaxStep float32 = 0.5
	// StepIncrement is the vertical probe increment of the step-up search.
	StepIncrement float32 = 0.05
	// DefaultAnchorHeight lifts the camera orbit target from the player's feet.
	DefaultAnchorHeight float32 = 1.5
	// DefaultCullChunkSize is the number of objects culled per worker task.
	DefaultCullChunkSize = 64
)

// DefaultGravity is the acceleration applied to an airborne player.
var DefaultGravity = mgl32.Vec3{0, -9.8, 0}

// DefaultPlayerPosition is where the default player starts.
var DefaultPlayerPosition = mgl32.Vec3{0, 5, -10}

// ErrUnknownLight is returned for point light ids the scene does not hold.
var ErrUnknownLight = errors.New("scene: unknown point light")

// ErrNoLoader is returned by AddObject when the scene has no mesh loader.
var ErrNoLoader = errors.New("scene: no mesh loader configured")

// defaultPlayerColliders is a standing box with the feet at the origin.
func defaultPlayerColliders() collision.Colliders {
	return collision.Colliders{
		Boxes: []collision.AABB{{Min: mgl32.Vec3{-0.4, 0, -0.4}, Max: mgl32.Vec3{0.4, 1.8, 0.4}}},
	}
}

type pointLightEntry struct {
	id    int
	rid   int
	light light.PointLight
}

type scene struct {
	mu *sync.Mutex

	cam     camera.Camera
	rig     camera.Rig
	terrain terrain.Terrain
	player  game_object.Player
	clock   timer.DayClock
	sun     light.Sun
	loader  loader.Loader
	r       renderer.SceneRenderer

	rigOptions []camera.RigBuilderOption
	sunOptions []light.SunBuilderOption

	// objects in insertion order. The player is held separately.
	objects []game_object.GameObject
	nextID  uint64

	lights      []pointLightEntry
	nextLightID int

	gravity      mgl32.Vec3
	maxStep      float32
	anchorHeight float32

	// computePool fans object culling out across reusable goroutines.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
	cullChunkSize  int

	shadowHalfExtent float32
	shadowNear       float32
	shadowFar        float32
}

// Scene owns the world state and runs the per-step simulation and per-frame snapshot.
type Scene interface {
	// Camera returns the scene camera.
	Camera() camera.Camera

	// Rig returns the camera-follow rig driving the camera.
	Rig() camera.Rig

	// Terrain returns the scene terrain.
	Terrain() terrain.Terrain

	// Player returns the player.
	Player() game_object.Player

	// Clock returns the shared day clock.
	Clock() timer.DayClock

	// Sun returns the sun model.
	Sun() light.Sun

	// Update advances the simulation by one step: player controls, player movement against the
	// terrain and the other objects, camera follow, time of day, then object updates.
	//
	// Parameters:
	//   - dt: step duration in seconds
	//   - st: the current input state, may be nil
	Update(dt float32, st *input.InputState)

	// OnInputEvent handles an event the GUI did not consume.
	//
	// Parameters:
	//   - ev: the event
	//
	// Returns:
	//   - bool: true if the scene used the event
	OnInputEvent(ev input.Event) bool

	// Draw builds the frame snapshot and submits it to r.
	//
	// Parameters:
	//   - r: the renderer receiving the snapshot
	//
	// Returns:
	//   - renderer.RenderData: the submitted snapshot
	Draw(r renderer.SceneRenderer) renderer.RenderData

	// AddObject loads meshName through the loader and places a new object at pos.
	//
	// Parameters:
	//   - meshName: the mesh path
	//   - pos: the world position
	//
	// Returns:
	//   - game_object.GameObject: the new object
	//   - error: if the mesh cannot be loaded
	AddObject(meshName string, pos mgl32.Vec3) (game_object.GameObject, error)

	// AddGameObject adds obj, assigning an id if it has none.
	//
	// Returns:
	//   - uint64: the object id
	AddGameObject(obj game_object.GameObject) uint64

	// RemoveObject removes the object with the given id.
	//
	// Returns:
	//   - bool: false if no such object exists
	RemoveObject(id uint64) bool

	// Object returns the object with the given id.
	Object(id uint64) (game_object.GameObject, bool)

	// Objects returns the objects in insertion order.
	Objects() []game_object.GameObject

	// PickObject returns the object whose colliders the ray hits first.
	//
	// Parameters:
	//   - ray: a ray with a normalized direction
	//
	// Returns:
	//   - game_object.GameObject: the hit object
	//   - float32: the hit distance
	//   - bool: false if nothing was hit
	PickObject(ray collision.Ray) (game_object.GameObject, float32, bool)

	// MoveObject moves obj by d, probing each axis against the colliders of every other object.
	// Blocked horizontal moves try to step up by StepIncrement up to the max step height. A
	// blocked downward move zeroes the vertical velocity.
	//
	// Parameters:
	//   - obj: the object to move
	//   - d: the displacement
	//
	// Returns:
	//   - bool: true if any axis was blocked
	MoveObject(obj game_object.GameObject, d mgl32.Vec3) bool

	// RotateObject applies q to obj unless the rotated colliders would overlap another object.
	//
	// Returns:
	//   - bool: true if the rotation was applied
	RotateObject(obj game_object.GameObject, q mgl32.Quat) bool

	// AddPointLight adds a static point light.
	//
	// Returns:
	//   - int: the light id
	AddPointLight(l light.PointLight) int

	// UpdatePointLight replaces the light with the given id.
	//
	// Returns:
	//   - error: ErrUnknownLight if id is unknown
	UpdatePointLight(id int, l light.PointLight) error

	// RemovePointLight removes the light with the given id.
	//
	// Returns:
	//   - bool: false if id is unknown
	RemovePointLight(id int) bool

	// PointLights returns the static lights in insertion order.
	PointLights() []light.PointLight

	// SetTimeOfDay sets the clock to the given hour and re-evaluates the sun.
	//
	// Parameters:
	//   - hours: hour of the day, wrapped into the day length
	SetTimeOfDay(hours float32)

	// Save writes the scene file to path, first copying an existing file to path.bak.
	Save(path string) error

	// Load replaces the serializable objects and the point lights with the contents of path.
	Load(path string) error

	// Encode writes the scene file format to w.
	Encode(w io.Writer) error

	// Decode replaces the serializable objects and the point lights with a scene read from r.
	Decode(r io.Reader) error

	// Close stops the worker pool.
	Close()
}

var _ Scene = &scene{}

// NewScene creates a Scene over cam and t. A default Player, DayClock and Sun are created
// unless supplied through options.
//
// Parameters:
//   - cam: the camera, driven by the scene's rig
//   - t: the terrain
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(cam camera.Camera, t terrain.Terrain, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if t == nil {
		panic("scene: NewScene requires a non-nil Terrain")
	}

	s := &scene{
		mu:               &sync.Mutex{},
		cam:              cam,
		terrain:          t,
		nextID:           1,
		nextLightID:      1,
		gravity:          DefaultGravity,
		maxStep:          DefaultMaxStep,
		anchorHeight:     DefaultAnchorHeight,
		computeWorkers:   max(runtime.NumCPU()-1, 1),
		cullChunkSize:    DefaultCullChunkSize,
		shadowHalfExtent: light.DefaultShadowHalfExtent,
		shadowNear:       light.DefaultShadowNear,
		shadowFar:        light.DefaultShadowFar,
	}

	for _, option := range options {
		option(s)
	}

	if s.player == nil {
		s.player = game_object.NewPlayer(game_object.WithObjectOptions(
			game_object.WithPosition(DefaultPlayerPosition),
		))
	}
	if s.player.Colliders().Empty() {
		s.player.SetColliders(defaultPlayerColliders())
	}
	if s.clock == nil {
		s.clock = timer.NewDayClock()
	}
	s.sun = light.NewSun(s.clock, s.sunOptions...)
	s.rig = camera.NewRig(cam, s.rigOptions...)

	// Created after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Camera() camera.Camera { return s.cam }

func (s *scene) Rig() camera.Rig { return s.rig }

func (s *scene) Terrain() terrain.Terrain { return s.terrain }

func (s *scene) Player() game_object.Player { return s.player }

func (s *scene) Clock() timer.DayClock { return s.clock }

func (s *scene) Sun() light.Sun { return s.sun }

func (s *scene) playerAnchor() mgl32.Vec3 {
	return s.player.Position().Add(mgl32.Vec3{0, s.anchorHeight, 0})
}

// walkBasis returns the camera's forward and right directions flattened onto the ground plane.
func (s *scene) walkBasis() (f, r mgl32.Vec3) {
	return flatten(s.cam.Forward()), flatten(s.cam.Right())
}

func flatten(v mgl32.Vec3) mgl32.Vec3 {
	v[1] = 0
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

func (s *scene) Update(dt float32, st *input.InputState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playerControls(st)
	if q, ok := s.player.NextRotation(dt); ok {
		s.rotateObject(s.player, q)
	}
	s.tryPlayerMove(dt)

	s.rig.Update(dt, s.playerAnchor(), st)

	s.clock.Advance(dt)
	s.sun.Update()

	for _, obj := range s.objects {
		if q, ok := obj.NextRotation(dt); ok {
			s.rotateObject(obj, q)
		}
		if v := obj.Velocity(); v != (mgl32.Vec3{}) {
			_, _ = s.moveObject(obj, v.Mul(dt))
		}
	}
}

// playerControls maps held keys to walking and turning. Keys drive the camera instead while
// the rig is flying.
func (s *scene) playerControls(st *input.InputState) {
	if st == nil || s.rig.Mode() != camera.ThirdPerson {
		if s.player.Walking() {
			s.player.Stop()
		}
		s.player.StopTurning()
		return
	}

	forward, right := s.walkBasis()
	var dir mgl32.Vec3
	if st.Pressed(input.KeyW) {
		dir = dir.Add(forward)
	}
	if st.Pressed(input.KeyS) {
		dir = dir.Sub(forward)
	}
	if st.Pressed(input.KeyD) {
		dir = dir.Add(right)
	}
	if st.Pressed(input.KeyA) {
		dir = dir.Sub(right)
	}
	if dir.Len() > 0 {
		s.player.Walk(dir)
	} else if s.player.Walking() {
		s.player.Stop()
	}

	switch {
	case st.Pressed(input.KeyQ) && !st.Pressed(input.KeyE):
		s.player.Turn(1)
	case st.Pressed(input.KeyE) && !st.Pressed(input.KeyQ):
		s.player.Turn(-1)
	default:
		s.player.StopTurning()
	}
}

// tryPlayerMove moves the player one step against the terrain, then against the other objects.
func (s *scene) tryPlayerMove(dt float32) terrain.CollisionResult {
	p := s.player
	v := p.Velocity()
	a := p.Acceleration()
	step := v.Add(a.Mul(dt)).Mul(dt)

	box, ok := p.Bounds()
	if !ok {
		pos := p.Position()
		box = collision.AABB{Min: pos, Max: pos}
	}
	res, dh := s.terrain.Collision(box.Translated(step), s.maxStep)

	var d mgl32.Vec3
	grounded := false
	switch res {
	case terrain.Collision:
		v[1] = 0
		if a.Y() < 0 {
			a = mgl32.Vec3{}
		}
		// Resting contact slides along the ground, anything taller is a wall.
		if dh >= -terrain.ContactEpsilon && dh <= terrain.ContactEpsilon {
			d = mgl32.Vec3{step.X(), 0, step.Z()}
			grounded = true
		}
	case terrain.ResolvedCollision:
		v[1] = 0
		a = mgl32.Vec3{}
		d = mgl32.Vec3{0, step.Y() + dh, 0}
		grounded = true
	default:
		if a.Y() == 0 {
			a = s.gravity
		}
		v = v.Add(a.Mul(dt))
		d = step
	}
	p.SetVelocity(v)
	p.SetAcceleration(a)

	if _, landed := s.moveObject(p, d); landed {
		grounded = true
	}
	p.SetGrounded(grounded)
	return res
}

// others returns the world colliders of every object except obj.
func (s *scene) others(obj game_object.GameObject) []collision.Colliders {
	out := make([]collision.Colliders, 0, len(s.objects)+1)
	add := func(o game_object.GameObject) {
		if o == obj {
			return
		}
		if c := o.WorldColliders(); !c.Empty() {
			out = append(out, c)
		}
	}
	add(s.player)
	for _, o := range s.objects {
		add(o)
	}
	return out
}

func (s *scene) MoveObject(obj game_object.GameObject, d mgl32.Vec3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocked, _ := s.moveObject(obj, d)
	return blocked
}

// moveObject reports whether any axis was blocked and whether a downward move landed on
// another object.
func (s *scene) moveObject(obj game_object.GameObject, d mgl32.Vec3) (blocked, landed bool) {
	if d == (mgl32.Vec3{}) {
		return false, false
	}
	if obj.Colliders().Empty() {
		obj.Move(d)
		return false, false
	}

	others := s.others(obj)
	rot := obj.Rotation()
	collides := func(pos mgl32.Vec3) bool {
		c := obj.WorldCollidersAt(pos, rot)
		for _, o := range others {
			if c.Intersects(o) {
				return true
			}
		}
		return false
	}

	pos := obj.Position()
	for _, axis := range [2]int{0, 2} {
		if d[axis] == 0 {
			continue
		}
		next := pos
		next[axis] += d[axis]
		if !collides(next) {
			pos = next
			continue
		}
		stepped := false
		for lift := StepIncrement; lift <= s.maxStep+1e-6; lift += StepIncrement {
			up := next
			up[1] += lift
			if !collides(up) {
				pos, stepped = up, true
				break
			}
		}
		if !stepped {
			blocked = true
		}
	}

	if d[1] != 0 {
		next := pos
		next[1] += d[1]
		if !collides(next) {
			pos = next
		} else {
			blocked = true
			if d[1] < 0 {
				v := obj.Velocity()
				v[1] = 0
				obj.SetVelocity(v)
				landed = true
			}
		}
	}

	obj.SetPosition(pos)
	return blocked, landed
}

func (s *scene) RotateObject(obj game_object.GameObject, q mgl32.Quat) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotateObject(obj, q)
}

func (s *scene) rotateObject(obj game_object.GameObject, q mgl32.Quat) bool {
	if !obj.Colliders().Empty() {
		c := obj.WorldCollidersAt(obj.Position(), q)
		for _, o := range s.others(obj) {
			if c.Intersects(o) {
				return false
			}
		}
	}
	obj.SetRotation(q)
	return true
}

func (s *scene) OnInputEvent(ev input.Event) bool {
	switch ev.Type {
	case input.MouseMoved:
		s.rig.OnMouseMove(ev.CursorDelta.X(), ev.CursorDelta.Y())
		return true
	case input.MouseScrolled:
		s.rig.OnScroll(ev.Scroll.Y())
		return true
	case input.KeyPressed:
		if ev.Repeated {
			return false
		}
		switch ev.Key {
		case input.KeyV:
			s.rig.ToggleMode()
			return true
		case input.KeySpace:
			if s.rig.Mode() == camera.ThirdPerson {
				s.player.Jump()
				return true
			}
		}
	}
	return false
}

func (s *scene) Draw(r renderer.SceneRenderer) renderer.RenderData {
	s.mu.Lock()
	objects := append([]game_object.GameObject(nil), s.objects...)
	lights := make([]light.PointLight, len(s.lights))
	for i, e := range s.lights {
		lights[i] = e.light
	}
	s.mu.Unlock()

	f := s.cam.Frustum()
	sun := s.sun.DirLight()
	data := renderer.RenderData{
		Camera:         s.cam.Uniform(),
		Sun:            sun,
		ShadowViewProj: light.ShadowViewProj(sun.Dir, s.player.Position(), s.shadowHalfExtent, s.shadowNear, s.shadowFar),
		SkyColor:       skyColor(s.sun.State(), s.sun.Params()),
		Objects:        s.cullObjects(objects, f),
		TerrainPatches: s.terrain.VisiblePatches(f),
		Wireframe:      s.terrain.Wireframe(),
	}
	if s.player.Visible() {
		data.Objects = append(data.Objects, instance(s.player))
	}
	for _, i := range light.CullPointLights(lights, f) {
		data.PointLights = append(data.PointLights, lights[i])
	}

	r.SetDirLight(sun)
	r.Submit(data)
	return data
}

func instance(obj game_object.GameObject) renderer.ObjectInstance {
	return renderer.ObjectInstance{
		ID:    obj.ID(),
		Mesh:  obj.Mesh(),
		Model: obj.ModelMatrix(),
		Mode:  uint32(obj.RenderMode()),
	}
}

// cullObjects tests objects against f in chunks on the compute pool. The output keeps the input
// order. Objects without colliders are never culled.
func (s *scene) cullObjects(objects []game_object.GameObject, f common.Frustum) []renderer.ObjectInstance {
	if len(objects) == 0 {
		return nil
	}
	chunks := (len(objects) + s.cullChunkSize - 1) / s.cullChunkSize
	results := make([][]renderer.ObjectInstance, chunks)

	// The WaitGroup is the per-frame barrier. pool.Wait blocks until workers idle-exit.
	var wg sync.WaitGroup
	for c := 0; c < chunks; c++ {
		lo := c * s.cullChunkSize
		hi := min(lo+s.cullChunkSize, len(objects))
		wg.Add(1)
		s.computePool.SubmitTask(worker.Task{
			ID: c,
			Do: func() (any, error) {
				defer wg.Done()
				out := make([]renderer.ObjectInstance, 0, hi-lo)
				for _, obj := range objects[lo:hi] {
					if !obj.Visible() {
						continue
					}
					if b, ok := obj.Bounds(); ok && !f.IntersectsAABB(b.Min, b.Max) {
						continue
					}
					out = append(out, instance(obj))
				}
				results[c] = out
				return nil, nil
			},
		})
	}
	wg.Wait()

	var out []renderer.ObjectInstance
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// skyColor scales a clear-day blue by the sun's current strength, with a dark night floor.
func skyColor(st light.SunState, p light.SunParams) common.Color {
	k := float32(1)
	if p.Intensity > 0 {
		k = common.Clamp(st.Intensity/p.Intensity, 0, 1)
	}
	return common.Color{0.02 + 0.43*k, 0.03 + 0.62*k, 0.08 + 0.87*k, 1}
}

func (s *scene) AddObject(meshName string, pos mgl32.Vec3) (game_object.GameObject, error) {
	if s.loader == nil {
		return nil, ErrNoLoader
	}
	info, err := s.loader.Load(meshName)
	if err != nil {
		return nil, fmt.Errorf("scene: failed to add %q: %w", meshName, err)
	}
	obj := game_object.NewGameObject(
		game_object.WithMesh(meshName),
		game_object.WithPosition(pos),
		game_object.WithColliders(info.Colliders),
	)
	s.AddGameObject(obj)
	slog.Debug("object added", "component", "scene", "id", obj.ID(), "mesh", meshName)
	return obj, nil
}

func (s *scene) AddGameObject(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addGameObject(obj)
}

func (s *scene) addGameObject(obj game_object.GameObject) uint64 {
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	s.objects = append(s.objects, obj)
	return obj.ID()
}

func (s *scene) RemoveObject(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, obj := range s.objects {
		if obj.ID() == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

func (s *scene) Object(id uint64) (game_object.GameObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range s.objects {
		if obj.ID() == id {
			return obj, true
		}
	}
	return nil, false
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game_object.GameObject(nil), s.objects...)
}

func (s *scene) PickObject(ray collision.Ray) (game_object.GameObject, float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hit game_object.GameObject
	best := float32(0)
	for _, obj := range s.objects {
		if !obj.Visible() {
			continue
		}
		d, ok := obj.WorldColliders().IntersectRay(ray)
		if ok && (hit == nil || d < best) {
			hit, best = obj, d
		}
	}
	return hit, best, hit != nil
}

func (s *scene) AddPointLight(l light.PointLight) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPointLight(l)
}

func (s *scene) addPointLight(l light.PointLight) int {
	e := pointLightEntry{id: s.nextLightID, rid: -1, light: l}
	s.nextLightID++
	if s.r != nil {
		e.rid = s.r.AddPointLight(l)
	}
	s.lights = append(s.lights, e)
	return e.id
}

func (s *scene) UpdatePointLight(id int, l light.PointLight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lights {
		e := &s.lights[i]
		if e.id != id {
			continue
		}
		e.light = l
		if s.r != nil && e.rid >= 0 {
			if err := s.r.UpdatePointLight(e.rid, l); err != nil {
				return fmt.Errorf("scene: failed to update point light %d: %w", id, err)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownLight, id)
}

func (s *scene) RemovePointLight(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.lights {
		if e.id != id {
			continue
		}
		if s.r != nil && e.rid >= 0 {
			s.r.RemovePointLight(e.rid)
		}
		s.lights = append(s.lights[:i], s.lights[i+1:]...)
		return true
	}
	return false
}

func (s *scene) PointLights() []light.PointLight {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]light.PointLight, len(s.lights))
	for i, e := range s.lights {
		out[i] = e.light
	}
	return out
}

func (s *scene) SetTimeOfDay(hours float32) {
	s.clock.SetTimeOfDay(hours * 3600)
	s.sun.Update()
}

func (s *scene) Close() {
	s.computePool.Stop()
}
