package game_object

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-frontier/engine/collision"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, want, got mgl32.Vec3, msg ...string) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v %s", i, got, strings.Join(msg, " "))
	}
}

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Scale())
	assert.Equal(t, mgl32.QuatIdent(), obj.Rotation())
	assert.True(t, obj.Visible())
	assert.True(t, obj.Serializable())
	_, ok := obj.Bounds()
	assert.False(t, ok, "no colliders means no bounds")
}

func TestWorldColliders(t *testing.T) {
	obj := NewGameObject(
		WithPosition(mgl32.Vec3{10, 0, 0}),
		WithScale(mgl32.Vec3{2, 2, 2}),
		WithColliders(collision.Colliders{
			Boxes: []collision.AABB{{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}},
		}),
	)
	b, ok := obj.Bounds()
	require.True(t, ok)
	assertVec(t, mgl32.Vec3{8, -2, -2}, b.Min)
	assertVec(t, mgl32.Vec3{12, 2, 2}, b.Max)

	moved := obj.WorldCollidersAt(mgl32.Vec3{0, 5, 0}, mgl32.QuatIdent())
	assertVec(t, mgl32.Vec3{-2, 3, -2}, moved.Boxes[0].Min)
	assertVec(t, mgl32.Vec3{10, 0, 0}, obj.Position(), "probing must not move the object")
}

func TestNextRotation(t *testing.T) {
	obj := NewGameObject()
	_, ok := obj.NextRotation(1)
	assert.False(t, ok)

	obj.SetRotVelocity(math32.Pi / 2)
	q, ok := obj.NextRotation(1)
	require.True(t, ok)
	assertVec(t, mgl32.Vec3{1, 0, 0}, q.Rotate(mgl32.Vec3{0, 0, 1}))
	assert.Equal(t, mgl32.QuatIdent(), obj.Rotation())
}

func TestModelMatrix(t *testing.T) {
	obj := NewGameObject(
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithScale(mgl32.Vec3{2, 2, 2}),
		WithRotation(mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0})),
	)
	p := mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 1}, obj.ModelMatrix())
	assertVec(t, mgl32.Vec3{3, 2, 3}, p)
}

func TestSerializeRoundTrip(t *testing.T) {
	rot := mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0})
	obj := NewGameObject(
		WithMesh("assets/meshes/crate.glb"),
		WithRenderMode(RenderBillboard),
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithScale(mgl32.Vec3{4, 5, 6}),
		WithRotation(rot),
	)

	var buf bytes.Buffer
	require.NoError(t, obj.Serialize(&buf))
	assert.Equal(t, 1+len("assets/meshes/crate.glb")+4+12+12+16, buf.Len())
	assert.Equal(t, byte(len("assets/meshes/crate.glb")), buf.Bytes()[0])

	got, err := Deserialize(&buf, WithID(9))
	require.NoError(t, err)
	assert.Equal(t, "assets/meshes/crate.glb", got.Mesh())
	assert.Equal(t, RenderBillboard, got.RenderMode())
	assert.Equal(t, uint64(9), got.ID())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, got.Position())
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, got.Scale())
	assert.InDelta(t, rot.W, got.Rotation().W, 1e-6)
	assertVec(t, rot.V, got.Rotation().V)
	assert.Zero(t, buf.Len())
}

func TestSerializeErrors(t *testing.T) {
	obj := NewGameObject(WithMesh(strings.Repeat("m", 256)))
	assert.Error(t, obj.Serialize(&bytes.Buffer{}))

	var buf bytes.Buffer
	require.NoError(t, NewGameObject(WithMesh("a")).Serialize(&buf))
	_, err := Deserialize(bytes.NewReader(buf.Bytes()[:10]))
	assert.Error(t, err)

	_, err = Deserialize(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestPlayerWalk(t *testing.T) {
	p := NewPlayer()
	assert.False(t, p.Serializable())

	p.Walk(mgl32.Vec3{1, 0, 0})
	assert.True(t, p.Walking())
	assertVec(t, mgl32.Vec3{DefaultSpeed, 0, 0}, p.Velocity())
	assertVec(t, mgl32.Vec3{1, 0, 0}, p.Facing())

	p.Walk(mgl32.Vec3{0, 3, -2})
	assertVec(t, mgl32.Vec3{0, 0, -DefaultSpeed}, p.Velocity())
	assertVec(t, mgl32.Vec3{0, 0, -1}, p.Facing())

	p.Walk(mgl32.Vec3{0, 1, 0})
	assertVec(t, mgl32.Vec3{0, 0, -DefaultSpeed}, p.Velocity())

	p.Stop()
	assert.False(t, p.Walking())
	assertVec(t, mgl32.Vec3{}, p.Velocity())
	p.Stop()
	assertVec(t, mgl32.Vec3{}, p.Velocity())
}

func TestPlayerWalkKeepsVerticalVelocity(t *testing.T) {
	p := NewPlayer(WithSpeed(2))
	p.SetVelocity(mgl32.Vec3{0, -3, 0})
	p.Walk(mgl32.Vec3{0, 0, 1})
	assertVec(t, mgl32.Vec3{0, -3, 2}, p.Velocity())
	p.Stop()
	assertVec(t, mgl32.Vec3{0, -3, 0}, p.Velocity())
}

func TestPlayerRotationRetargetsWalk(t *testing.T) {
	p := NewPlayer()
	p.Walk(mgl32.Vec3{0, 0, 1})
	p.SetRotation(mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0}))
	assertVec(t, mgl32.Vec3{DefaultSpeed, 0, 0}, p.Velocity())
}

func TestPlayerTurn(t *testing.T) {
	p := NewPlayer()
	p.Turn(3)
	assert.InDelta(t, DefaultRotationSpeed, p.RotVelocity(), 1e-5)
	p.Turn(1)
	assert.InDelta(t, DefaultRotationSpeed, p.RotVelocity(), 1e-5)
	p.Turn(-1)
	assert.InDelta(t, -DefaultRotationSpeed, p.RotVelocity(), 1e-5)
	p.StopTurning()
	assert.InDelta(t, 0, p.RotVelocity(), 1e-5)
}

func TestPlayerJump(t *testing.T) {
	p := NewPlayer(WithJumpVelocity(6))
	assert.False(t, p.Jump(), "cannot jump in the air")
	assertVec(t, mgl32.Vec3{}, p.Velocity())

	p.SetGrounded(true)
	assert.True(t, p.Jump())
	assertVec(t, mgl32.Vec3{0, 6, 0}, p.Velocity())
	assert.False(t, p.Grounded())
	assert.False(t, p.Jump())
}

func TestPlayerObjectOptions(t *testing.T) {
	p := NewPlayer(WithObjectOptions(
		WithPosition(mgl32.Vec3{0, 5, -10}),
		WithRotation(mgl32.QuatRotate(math32.Pi, mgl32.Vec3{0, 1, 0})),
	))
	assert.Equal(t, mgl32.Vec3{0, 5, -10}, p.Position())
	assertVec(t, mgl32.Vec3{0, 0, -1}, p.Facing())

	p.Walk(p.Facing())
	assertVec(t, mgl32.Vec3{0, 0, -DefaultSpeed}, p.Velocity())
}
