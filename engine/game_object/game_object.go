package game_object

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/Carmen-Shannon/oxy-frontier/engine/collision"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderMode selects the pipeline an object is drawn with. The values are stored in scene files.
type RenderMode uint32

const (
	RenderDefault   RenderMode = 0
	RenderHighlight RenderMode = 7
	RenderBillboard RenderMode = 8
)

// maxMeshNameLength is the longest mesh name a scene record can hold.
const maxMeshNameLength = 255

type gameObject struct {
	mu *sync.Mutex

	id         uint64
	mesh       string
	renderMode RenderMode

	pos   mgl32.Vec3
	scale mgl32.Vec3
	rot   mgl32.Quat

	velocity     mgl32.Vec3
	acceleration mgl32.Vec3
	rotVelocity  float32

	colliders    collision.Colliders
	serializable bool
	visible      bool
}

// GameObject defines the interface for a scene entity: a mesh reference, a transform,
// linear and angular velocity, and object-space collision shapes.
// All methods are safe for concurrent use.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Mesh returns the asset path of the object's mesh.
	//
	// Returns:
	//   - string: the mesh path, empty for objects without a mesh
	Mesh() string

	// RenderMode returns the pipeline used to draw the object.
	RenderMode() RenderMode

	// SetRenderMode changes the pipeline used to draw the object.
	SetRenderMode(m RenderMode)

	// Position returns the world-space position.
	Position() mgl32.Vec3

	// SetPosition sets the world-space position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Move translates the object by d.
	//
	// Parameters:
	//   - d: the displacement
	Move(d mgl32.Vec3)

	// Scale returns the per-axis scale.
	Scale() mgl32.Vec3

	// SetScale sets the per-axis scale.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s mgl32.Vec3)

	// Rotation returns the orientation.
	Rotation() mgl32.Quat

	// SetRotation sets the orientation. The quaternion is normalized.
	//
	// Parameters:
	//   - q: the new orientation
	SetRotation(q mgl32.Quat)

	// NextRotation returns the orientation after integrating the angular velocity about +Y
	// over dt, without applying it.
	//
	// Parameters:
	//   - dt: step duration in seconds
	//
	// Returns:
	//   - mgl32.Quat: the integrated orientation
	//   - bool: false when the object is not rotating
	NextRotation(dt float32) (mgl32.Quat, bool)

	// Velocity returns the linear velocity.
	Velocity() mgl32.Vec3

	// SetVelocity sets the linear velocity.
	SetVelocity(v mgl32.Vec3)

	// Acceleration returns the linear acceleration.
	Acceleration() mgl32.Vec3

	// SetAcceleration sets the linear acceleration.
	SetAcceleration(a mgl32.Vec3)

	// RotVelocity returns the angular velocity about +Y in radians per second.
	RotVelocity() float32

	// SetRotVelocity sets the angular velocity about +Y.
	SetRotVelocity(w float32)

	// Colliders returns the object-space collision shapes.
	Colliders() collision.Colliders

	// SetColliders replaces the object-space collision shapes.
	SetColliders(c collision.Colliders)

	// WorldColliders returns the collision shapes transformed by the current transform.
	//
	// Returns:
	//   - collision.Colliders: world-space shapes
	WorldColliders() collision.Colliders

	// WorldCollidersAt returns the collision shapes for a hypothetical transform,
	// keeping the current scale.
	//
	// Parameters:
	//   - pos: the candidate position
	//   - rot: the candidate orientation
	//
	// Returns:
	//   - collision.Colliders: world-space shapes
	WorldCollidersAt(pos mgl32.Vec3, rot mgl32.Quat) collision.Colliders

	// Bounds returns the world-space box enclosing every collider.
	//
	// Returns:
	//   - collision.AABB: the bounds
	//   - bool: false when the object has no colliders
	Bounds() (collision.AABB, bool)

	// ModelMatrix returns translate * rotate * scale.
	ModelMatrix() mgl32.Mat4

	// Serializable reports whether the object is written to scene files.
	Serializable() bool

	// SetSerializable marks whether the object is written to scene files.
	SetSerializable(s bool)

	// Visible reports whether the object is drawn.
	Visible() bool

	// SetVisible shows or hides the object.
	SetVisible(v bool)

	// Serialize writes the object's scene record.
	//
	// Parameters:
	//   - w: the destination
	//
	// Returns:
	//   - error: if the mesh name is too long or the write fails
	Serialize(w io.Writer) error
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// The default object sits at the origin with unit scale, identity rotation, and is visible and serializable.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	return newGameObject(options...)
}

func newGameObject(options ...GameObjectBuilderOption) *gameObject {
	obj := &gameObject{
		mu:           &sync.Mutex{},
		scale:        mgl32.Vec3{1, 1, 1},
		rot:          mgl32.QuatIdent(),
		serializable: true,
		visible:      true,
	}
	for _, option := range options {
		option(obj)
	}
	return obj
}

// record is the fixed-width tail of a scene record, after the mesh name.
type record struct {
	RenderMode uint32
	Pos        [3]float32
	Scale      [3]float32
	Rot        [4]float32 // w, x, y, z
}

// Deserialize reads one scene record and builds the object it describes.
// Colliders are not part of the record; the caller attaches them from the mesh.
//
// Parameters:
//   - r: the source
//   - options: extra options applied after the record
//
// Returns:
//   - GameObject: the object
//   - error: if the record is truncated
func Deserialize(r io.Reader, options ...GameObjectBuilderOption) (GameObject, error) {
	var n [1]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, fmt.Errorf("game_object: failed to read mesh name length: %w", err)
	}
	name := make([]byte, n[0])
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("game_object: failed to read mesh name: %w", err)
	}
	var rec record
	if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
		return nil, fmt.Errorf("game_object: failed to read record for %q: %w", name, err)
	}
	rot := mgl32.Quat{W: rec.Rot[0], V: mgl32.Vec3{rec.Rot[1], rec.Rot[2], rec.Rot[3]}}
	base := []GameObjectBuilderOption{
		WithMesh(string(name)),
		WithRenderMode(RenderMode(rec.RenderMode)),
		WithPosition(rec.Pos),
		WithScale(rec.Scale),
		WithRotation(rot),
	}
	return NewGameObject(append(base, options...)...), nil
}

func (g *gameObject) ID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id = id
}

func (g *gameObject) Mesh() string {
	return g.mesh
}

func (g *gameObject) RenderMode() RenderMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.renderMode
}

func (g *gameObject) SetRenderMode(m RenderMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.renderMode = m
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pos
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pos = p
}

func (g *gameObject) Move(d mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pos = g.pos.Add(d)
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) Rotation() mgl32.Quat {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rot
}

func (g *gameObject) SetRotation(q mgl32.Quat) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rot = q.Normalize()
}

func (g *gameObject) NextRotation(dt float32) (mgl32.Quat, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rotVelocity == 0 {
		return g.rot, false
	}
	return g.rot.Mul(mgl32.QuatRotate(g.rotVelocity*dt, mgl32.Vec3{0, 1, 0})).Normalize(), true
}

func (g *gameObject) Velocity() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.velocity
}

func (g *gameObject) SetVelocity(v mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.velocity = v
}

func (g *gameObject) Acceleration() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.acceleration
}

func (g *gameObject) SetAcceleration(a mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.acceleration = a
}

func (g *gameObject) RotVelocity() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotVelocity
}

func (g *gameObject) SetRotVelocity(w float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotVelocity = w
}

func (g *gameObject) Colliders() collision.Colliders {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.colliders
}

func (g *gameObject) SetColliders(c collision.Colliders) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.colliders = c
}

func (g *gameObject) WorldColliders() collision.Colliders {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.colliders.Transformed(g.pos, g.rot, g.scale)
}

func (g *gameObject) WorldCollidersAt(pos mgl32.Vec3, rot mgl32.Quat) collision.Colliders {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.colliders.Transformed(pos, rot, g.scale)
}

func (g *gameObject) Bounds() (collision.AABB, bool) {
	return g.WorldColliders().Bounds()
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return mgl32.Translate3D(g.pos[0], g.pos[1], g.pos[2]).
		Mul4(g.rot.Mat4()).
		Mul4(mgl32.Scale3D(g.scale[0], g.scale[1], g.scale[2]))
}

func (g *gameObject) Serializable() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.serializable
}

func (g *gameObject) SetSerializable(s bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.serializable = s
}

func (g *gameObject) Visible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.visible
}

func (g *gameObject) SetVisible(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visible = v
}

func (g *gameObject) Serialize(w io.Writer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.mesh) > maxMeshNameLength {
		return fmt.Errorf("game_object: mesh name %q exceeds %d bytes", g.mesh, maxMeshNameLength)
	}
	buf := make([]byte, 0, 1+len(g.mesh)+binary.Size(record{}))
	buf = append(buf, byte(len(g.mesh)))
	buf = append(buf, g.mesh...)
	rec := record{
		RenderMode: uint32(g.renderMode),
		Pos:        g.pos,
		Scale:      g.scale,
		Rot:        [4]float32{g.rot.W, g.rot.V[0], g.rot.V[1], g.rot.V[2]},
	}
	buf, err := binary.Append(buf, binary.LittleEndian, &rec)
	if err != nil {
		return fmt.Errorf("game_object: failed to encode %q: %w", g.mesh, err)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("game_object: failed to write %q: %w", g.mesh, err)
	}
	return nil
}
