package scene

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-frontier/engine/camera"
	"github.com/Carmen-Shannon/oxy-frontier/engine/collision"
	"github.com/Carmen-Shannon/oxy-frontier/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/light"
	"github.com/Carmen-Shannon/oxy-frontier/engine/loader"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/terrain"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const step = float32(1) / 240

func box(lo, hi mgl32.Vec3) collision.Colliders {
	return collision.Colliders{Boxes: []collision.AABB{{Min: lo, Max: hi}}}
}

func unitBox() collision.Colliders {
	return box(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
}

func newTestScene(t *testing.T, playerPos mgl32.Vec3, options ...SceneBuilderOption) Scene {
	t.Helper()
	p := game_object.NewPlayer(game_object.WithObjectOptions(game_object.WithPosition(playerPos)))
	options = append([]SceneBuilderOption{WithPlayer(p), WithComputeWorkers(2)}, options...)
	s := NewScene(camera.NewCamera(), terrain.NewTerrain(), options...)
	t.Cleanup(s.Close)
	return s
}

func run(s Scene, n int, st *input.InputState) {
	for i := 0; i < n; i++ {
		s.Update(step, st)
	}
}

func TestNewScenePanicsOnNilCollaborators(t *testing.T) {
	assert.PanicsWithValue(t, "scene: NewScene requires a non-nil Camera", func() {
		NewScene(nil, terrain.NewTerrain())
	})
	assert.PanicsWithValue(t, "scene: NewScene requires a non-nil Terrain", func() {
		NewScene(camera.NewCamera(), nil)
	})
}

func TestDefaultPlayer(t *testing.T) {
	s := NewScene(camera.NewCamera(), terrain.NewTerrain())
	defer s.Close()
	assert.Equal(t, DefaultPlayerPosition, s.Player().Position())
	assert.False(t, s.Player().Colliders().Empty())
}

func TestFallingPlayerLands(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{0, 1, 0})
	p := s.Player()

	run(s, 10, nil)
	assert.Less(t, p.Position().Y(), float32(1))
	assert.Less(t, p.Velocity().Y(), float32(0))
	assert.Equal(t, DefaultGravity, p.Acceleration())
	assert.False(t, p.Grounded())

	run(s, 240, nil)
	assert.InDelta(t, 0, p.Position().Y(), 1e-3)
	assert.Equal(t, float32(0), p.Velocity().Y())
	assert.Equal(t, mgl32.Vec3{}, p.Acceleration())
	assert.True(t, p.Grounded())
}

func TestRestingPlayerStaysPut(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{3, 0, 4})
	p := s.Player()

	run(s, 120, nil)
	assert.Equal(t, mgl32.Vec3{3, 0, 4}, p.Position())
	assert.Equal(t, float32(0), p.Velocity().Y())
	assert.True(t, p.Grounded())
}

func TestPlayerWalksRelativeToCamera(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{0, 0, 0})
	p := s.Player()
	// Places the orbit camera behind the player, looking along +Z.
	run(s, 1, nil)

	var st input.InputState
	st.Keys[input.KeyW] = true
	run(s, 24, &st)
	assert.InDelta(t, 24*step*game_object.DefaultSpeed, p.Position().Z(), 1e-3)
	assert.InDelta(t, 0, p.Position().X(), 1e-4)
	assert.InDelta(t, 0, p.Position().Y(), 1e-4)
	assert.True(t, p.Walking())

	run(s, 1, &input.InputState{})
	assert.False(t, p.Walking())
	z := p.Position().Z()
	run(s, 10, &input.InputState{})
	assert.Equal(t, z, p.Position().Z())
}

func TestFreeFlyIgnoresWalkKeys(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{0, 0, 0})
	assert.True(t, s.OnInputEvent(input.KeyPress(input.KeyV)))
	assert.Equal(t, camera.FreeFly, s.Rig().Mode())

	var st input.InputState
	st.Keys[input.KeyW] = true
	run(s, 10, &st)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, s.Player().Position())
}

func TestJump(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{0, 0, 0})
	p := s.Player()
	run(s, 1, nil)
	require.True(t, p.Grounded())

	assert.True(t, s.OnInputEvent(input.KeyPress(input.KeySpace)))
	assert.InDelta(t, game_object.DefaultJumpVelocity, p.Velocity().Y(), 1e-5)

	run(s, 24, nil)
	assert.Greater(t, p.Position().Y(), float32(0.4))
	assert.False(t, p.Grounded())

	run(s, 480, nil)
	assert.InDelta(t, 0, p.Position().Y(), 1e-3)
	assert.True(t, p.Grounded())
}

func TestOnInputEventRoutesToRig(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{})
	r := s.Rig().Radius()
	assert.True(t, s.OnInputEvent(input.MouseScroll(0, 1)))
	assert.Less(t, s.Rig().Radius(), r)

	phi := s.Rig().Phi()
	assert.True(t, s.OnInputEvent(input.MouseMove(100, 0)))
	assert.NotEqual(t, phi, s.Rig().Phi())

	assert.False(t, s.OnInputEvent(input.KeyPress(input.KeyG)))
	assert.False(t, s.OnInputEvent(input.Event{Type: input.KeyPressed, Key: input.KeyV, Repeated: true}))
	assert.Equal(t, camera.ThirdPerson, s.Rig().Mode())
}

func TestMoveObjectBlockedByWall(t *testing.T) {
	wall := game_object.NewGameObject(game_object.WithColliders(box(mgl32.Vec3{1, 0, -1}, mgl32.Vec3{2, 2, 1})))
	mover := game_object.NewGameObject(
		game_object.WithPosition(mgl32.Vec3{0, 1, 0}),
		game_object.WithColliders(box(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})),
	)
	s := newTestScene(t, mgl32.Vec3{50, 0, 50}, WithObjects(wall, mover))

	assert.True(t, s.MoveObject(mover, mgl32.Vec3{1, 0, 0}))
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, mover.Position())

	assert.False(t, s.MoveObject(mover, mgl32.Vec3{0, 0, 2}))
	assert.Equal(t, mgl32.Vec3{0, 1, 2}, mover.Position())
}

func TestMoveObjectStepsUp(t *testing.T) {
	ledge := game_object.NewGameObject(game_object.WithColliders(box(mgl32.Vec3{1, 0, -1}, mgl32.Vec3{3, 0.2, 1})))
	mover := game_object.NewGameObject(
		game_object.WithPosition(mgl32.Vec3{0, 0.5, 0}),
		game_object.WithColliders(box(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})),
	)
	s := newTestScene(t, mgl32.Vec3{50, 0, 50}, WithObjects(ledge, mover))

	assert.False(t, s.MoveObject(mover, mgl32.Vec3{1, 0, 0}))
	assert.InDelta(t, 1, mover.Position().X(), 1e-6)
	assert.InDelta(t, 0.725, mover.Position().Y(), 0.03)
}

func TestMoveObjectLandsOnObject(t *testing.T) {
	ledge := game_object.NewGameObject(game_object.WithColliders(box(mgl32.Vec3{1, 0, -1}, mgl32.Vec3{3, 0.2, 1})))
	mover := game_object.NewGameObject(
		game_object.WithPosition(mgl32.Vec3{2, 1, 0}),
		game_object.WithVelocity(mgl32.Vec3{1, -3, 0}),
		game_object.WithColliders(box(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})),
	)
	s := newTestScene(t, mgl32.Vec3{50, 0, 50}, WithObjects(ledge, mover))

	assert.True(t, s.MoveObject(mover, mgl32.Vec3{0, -0.6, 0}))
	assert.Equal(t, mgl32.Vec3{2, 1, 0}, mover.Position())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mover.Velocity())
}

func TestRotateObjectRevertsOnCollision(t *testing.T) {
	post := game_object.NewGameObject(game_object.WithColliders(box(mgl32.Vec3{-0.5, 0, 1}, mgl32.Vec3{0.5, 1, 2})))
	beam := game_object.NewGameObject(game_object.WithColliders(collision.Colliders{
		OBBs: []collision.OBB{collision.OBBFromAABB(collision.AABB{Min: mgl32.Vec3{-3, 0, -0.2}, Max: mgl32.Vec3{3, 1, 0.2}})},
	}))
	s := newTestScene(t, mgl32.Vec3{50, 0, 50}, WithObjects(post, beam))

	quarter := mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0})
	assert.False(t, s.RotateObject(beam, quarter))
	assert.Equal(t, mgl32.QuatIdent(), beam.Rotation())

	small := mgl32.QuatRotate(0.05, mgl32.Vec3{0, 1, 0})
	assert.True(t, s.RotateObject(beam, small))
	assert.InDelta(t, small.W, beam.Rotation().W, 1e-6)
}

func TestObjectsAndPicking(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{})
	near := game_object.NewGameObject(game_object.WithColliders(unitBox()))
	far := game_object.NewGameObject(game_object.WithPosition(mgl32.Vec3{0, 0, 5}), game_object.WithColliders(unitBox()))
	fixed := game_object.NewGameObject(game_object.WithID(40))

	assert.Equal(t, uint64(1), s.AddGameObject(near))
	assert.Equal(t, uint64(2), s.AddGameObject(far))
	assert.Equal(t, uint64(40), s.AddGameObject(fixed))
	assert.Equal(t, uint64(41), s.AddGameObject(game_object.NewGameObject()))
	assert.Len(t, s.Objects(), 4)

	hit, d, ok := s.PickObject(collision.Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{0, 0, -1}})
	require.True(t, ok)
	assert.Equal(t, far, hit)
	assert.InDelta(t, 4, d, 1e-4)

	require.True(t, s.RemoveObject(2))
	assert.False(t, s.RemoveObject(2))
	_, ok = s.Object(2)
	assert.False(t, ok)

	hit, _, ok = s.PickObject(collision.Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{0, 0, -1}})
	require.True(t, ok)
	assert.Equal(t, near, hit)

	_, _, ok = s.PickObject(collision.Ray{Origin: mgl32.Vec3{0, 10, 10}, Dir: mgl32.Vec3{0, 0, -1}})
	assert.False(t, ok)
}

func TestAddObjectThroughLoader(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithMesh("crate", loader.MeshInfo{Colliders: unitBox()}))
	s := newTestScene(t, mgl32.Vec3{}, WithLoader(l))

	obj, err := s.AddObject("crate", mgl32.Vec3{4, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, "crate", obj.Mesh())
	b, ok := obj.Bounds()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{3, 0, -1}, b.Min)

	_, err = s.AddObject("missing.glb", mgl32.Vec3{})
	assert.Error(t, err)
	assert.Len(t, s.Objects(), 1)

	_, err = newTestScene(t, mgl32.Vec3{}).AddObject("crate", mgl32.Vec3{})
	assert.ErrorIs(t, err, ErrNoLoader)
}

func TestDrawCullsInStableOrder(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{0, 0, -10}, WithCullChunkSize(1))
	run(s, 1, nil)

	add := func(mesh string, pos mgl32.Vec3, c collision.Colliders, visible bool) {
		s.AddGameObject(game_object.NewGameObject(
			game_object.WithMesh(mesh),
			game_object.WithPosition(pos),
			game_object.WithColliders(c),
			game_object.WithVisible(visible),
		))
	}
	add("front", mgl32.Vec3{0, 1, 20}, unitBox(), true)
	add("behind", mgl32.Vec3{0, 1, -80}, unitBox(), true)
	add("hidden", mgl32.Vec3{0, 1, 25}, unitBox(), false)
	add("unbounded", mgl32.Vec3{0, 1, -80}, collision.Colliders{}, true)
	add("front2", mgl32.Vec3{2, 1, 30}, unitBox(), true)

	r := renderer.NewRenderer(renderer.NewRecorderBackend(), 1280, 720)
	data := s.Draw(r)

	var meshes []string
	for _, o := range data.Objects {
		meshes = append(meshes, o.Mesh)
	}
	assert.Equal(t, []string{"front", "unbounded", "front2", ""}, meshes)
	assert.NotEmpty(t, data.TerrainPatches)
	assert.Equal(t, s.Sun().DirLight(), data.Sun)
	assert.Equal(t, float32(1), data.SkyColor[3])
}

func TestDrawCullsPointLights(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{0, 0, -10})
	run(s, 1, nil)
	s.AddPointLight(light.DefaultPointLight(mgl32.Vec3{0, 2, 20}))
	s.AddPointLight(light.DefaultPointLight(mgl32.Vec3{0, 2, -500}))

	data := s.Draw(renderer.NewRenderer(renderer.NewRecorderBackend(), 1280, 720))
	require.Len(t, data.PointLights, 1)
	assert.Equal(t, mgl32.Vec3{0, 2, 20}, data.PointLights[0].Pos)
}

func TestPointLightsMirroredToRenderer(t *testing.T) {
	r := renderer.NewRenderer(renderer.NewRecorderBackend(), 1280, 720)
	s := newTestScene(t, mgl32.Vec3{}, WithRenderer(r))

	a := s.AddPointLight(light.DefaultPointLight(mgl32.Vec3{1, 0, 0}))
	b := s.AddPointLight(light.DefaultPointLight(mgl32.Vec3{2, 0, 0}))
	assert.Len(t, r.PointLights(), 2)

	moved := light.DefaultPointLight(mgl32.Vec3{5, 0, 0})
	require.NoError(t, s.UpdatePointLight(b, moved))
	assert.Equal(t, moved, r.PointLights()[1])
	assert.ErrorIs(t, s.UpdatePointLight(99, moved), ErrUnknownLight)

	assert.True(t, s.RemovePointLight(a))
	assert.False(t, s.RemovePointLight(a))
	assert.Equal(t, []light.PointLight{moved}, r.PointLights())
	assert.Equal(t, []light.PointLight{moved}, s.PointLights())
}

func TestSetTimeOfDay(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{})
	s.SetTimeOfDay(14)
	assert.InDelta(t, 14*3600, s.Clock().TimeOfDay(), 1e-2)
	noon := s.Sun().State()
	assert.Equal(t, float32(1), noon.Visible)

	s.SetTimeOfDay(2)
	assert.Less(t, s.Sun().State().Intensity, noon.Intensity)
}

func TestUpdateAdvancesClock(t *testing.T) {
	s := newTestScene(t, mgl32.Vec3{})
	before := s.Clock().TimeOfDay()
	run(s, 24, nil)
	assert.InDelta(t, before+24*step*s.Clock().TimeScale(), s.Clock().TimeOfDay(), 1)
}

func TestEncodeDecode(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithMesh("crate", loader.MeshInfo{Colliders: unitBox()}))
	src := newTestScene(t, mgl32.Vec3{}, WithLoader(l))
	_, err := src.AddObject("crate", mgl32.Vec3{1, 2, 3})
	require.NoError(t, err)
	src.AddGameObject(game_object.NewGameObject(game_object.WithMesh("scratch"), game_object.WithSerializable(false)))
	src.AddPointLight(light.DefaultPointLight(mgl32.Vec3{0, 4, 0}))

	var buf bytes.Buffer
	require.NoError(t, src.Encode(&buf))
	assert.Equal(t, 8+(1+len("crate")+44)+8+light.PointLightRecordSize, buf.Len())

	dst := newTestScene(t, mgl32.Vec3{}, WithLoader(l))
	dst.AddGameObject(game_object.NewGameObject(game_object.WithMesh("old")))
	require.NoError(t, dst.Decode(&buf))

	objects := dst.Objects()
	require.Len(t, objects, 1)
	assert.Equal(t, "crate", objects[0].Mesh())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, objects[0].Position())
	assert.False(t, objects[0].Colliders().Empty())
	assert.Equal(t, []light.PointLight{light.DefaultPointLight(mgl32.Vec3{0, 4, 0})}, dst.PointLights())
}

func TestDecodeRejectsTruncatedFile(t *testing.T) {
	src := newTestScene(t, mgl32.Vec3{})
	src.AddGameObject(game_object.NewGameObject(game_object.WithMesh("crate")))
	var buf bytes.Buffer
	require.NoError(t, src.Encode(&buf))

	dst := newTestScene(t, mgl32.Vec3{})
	dst.AddGameObject(game_object.NewGameObject(game_object.WithMesh("keep")))
	assert.Error(t, dst.Decode(bytes.NewReader(buf.Bytes()[:buf.Len()-4])))
	require.Len(t, dst.Objects(), 1)
	assert.Equal(t, "keep", dst.Objects()[0].Mesh())
}

func TestSaveWritesBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.bin")
	s := newTestScene(t, mgl32.Vec3{})

	s.AddGameObject(game_object.NewGameObject(game_object.WithMesh("a")))
	require.NoError(t, s.Save(path))
	_, err := os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	s.AddGameObject(game_object.NewGameObject(game_object.WithMesh("b")))
	require.NoError(t, s.Save(path))
	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, first, backup)

	loaded := newTestScene(t, mgl32.Vec3{})
	require.NoError(t, loaded.Load(path))
	assert.Len(t, loaded.Objects(), 2)

	assert.Error(t, loaded.Load(filepath.Join(t.TempDir(), "missing.bin")))
}
