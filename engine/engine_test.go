package engine

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frontier/engine/camera"
	"github.com/Carmen-Shannon/oxy-frontier/engine/config"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/loader"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/scene"
	"github.com/Carmen-Shannon/oxy-frontier/engine/terrain"
	"github.com/Carmen-Shannon/oxy-frontier/engine/text"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	e   Engine
	clk *fakeClock
	rec renderer.RecorderBackend
	in  input.Collector
}

func newHarness(t *testing.T, sceneOptions []scene.SceneBuilderOption, options ...EngineBuilderOption) *harness {
	t.Helper()
	h := &harness{
		clk: &fakeClock{now: time.Unix(1000, 0)},
		rec: renderer.NewRecorderBackend(),
		in:  input.NewCollector(),
	}
	r := renderer.NewRenderer(h.rec, 1280, 720)
	sceneOptions = append([]scene.SceneBuilderOption{scene.WithComputeWorkers(1)}, sceneOptions...)
	s := scene.NewScene(camera.NewCamera(), terrain.NewTerrain(), sceneOptions...)
	t.Cleanup(s.Close)
	options = append([]EngineBuilderOption{
		WithTimer(timer.NewTimer(timer.WithNow(h.clk.Now))),
		WithCollector(h.in),
	}, options...)
	h.e = NewEngine(r, s, text.NewBasicFont(), options...)
	return h
}

func (h *harness) tap(keys ...input.Key) {
	for _, k := range keys {
		h.in.KeyEvent(k, true, false)
		h.in.KeyEvent(k, false, false)
	}
}

func (h *harness) typeLine(s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			h.tap(input.KeyA + input.Key(c-'a'))
		case c >= '0' && c <= '9':
			h.tap(input.Key0 + input.Key(c-'0'))
		case c == ' ':
			h.tap(input.KeySpace)
		}
	}
	h.tap(input.KeyEnter)
}

func (h *harness) frame(t *testing.T, d time.Duration) {
	t.Helper()
	h.clk.advance(d)
	require.NoError(t, h.e.Frame())
}

func TestNewEnginePanics(t *testing.T) {
	r := renderer.NewRenderer(renderer.NewRecorderBackend(), 10, 10)
	s := scene.NewScene(camera.NewCamera(), terrain.NewTerrain(), scene.WithComputeWorkers(1))
	t.Cleanup(s.Close)
	f := text.NewBasicFont()

	assert.PanicsWithValue(t, "engine: NewEngine requires a non-nil Renderer", func() { NewEngine(nil, s, f) })
	assert.PanicsWithValue(t, "engine: NewEngine requires a non-nil Scene", func() { NewEngine(r, nil, f) })
	assert.PanicsWithValue(t, "engine: NewEngine requires a non-nil Font", func() { NewEngine(r, s, nil) })
}

func TestFrameAdvancesSceneClock(t *testing.T) {
	h := newHarness(t, nil)
	clock := h.e.Scene().Clock()
	start := clock.TimeOfDay()

	h.frame(t, time.Second/60)
	assert.InDelta(t, start+clock.TimeScale()/60, clock.TimeOfDay(), 0.05)
	assert.Equal(t, 1, h.rec.Frames())
}

func TestFrameClampsLongFrames(t *testing.T) {
	h := newHarness(t, nil)
	clock := h.e.Scene().Clock()
	start := clock.TimeOfDay()

	h.frame(t, 2*time.Second)
	assert.InDelta(t, start+clock.TimeScale()*MaxFrameTime, clock.TimeOfDay(), 0.05)
}

func TestConsoleToggleAndCommands(t *testing.T) {
	h := newHarness(t, nil)
	c := h.e.Console()
	require.False(t, c.Visible())

	h.tap(input.KeyGraveAccent)
	h.frame(t, 0)
	require.True(t, c.Visible())
	assert.True(t, c.Input().Focused())
	assert.Empty(t, c.Input().Text(), "the toggle key is not typed")

	h.typeLine("time 6")
	h.frame(t, 0)
	assert.InDelta(t, 6*3600, h.e.Scene().Clock().TimeOfDay(), 0.5)
	assert.Contains(t, c.Output(), "Time set to 06.00.")
	assert.Equal(t, []string{"time 6"}, c.History())

	// V goes to the console, not to the camera rig.
	mode := h.e.Scene().Rig().Mode()
	h.tap(input.KeyV)
	h.frame(t, 0)
	assert.Equal(t, mode, h.e.Scene().Rig().Mode())
	assert.Equal(t, "v", c.Input().Text())

	h.tap(input.KeyGraveAccent)
	h.frame(t, 0)
	assert.False(t, c.Visible())
	assert.False(t, c.Input().Focused())

	h.tap(input.KeyV)
	h.frame(t, 0)
	assert.NotEqual(t, mode, h.e.Scene().Rig().Mode())
}

func TestUnknownAndEmptyCommands(t *testing.T) {
	h := newHarness(t, nil)
	h.e.ExecuteCommand("jump high")
	assert.Equal(t, "jump: unknown command.", h.e.Console().Output())

	h.e.ExecuteCommand("time")
	assert.Contains(t, h.e.Console().Output(), "time: command expects exactly 1 argument.")
	h.e.ExecuteCommand("time noon")
	assert.Contains(t, h.e.Console().Output(), `time: invalid hour - "noon"`)
}

func TestTimeCommandRejectsNonFiniteHours(t *testing.T) {
	h := newHarness(t, nil)
	h.e.ExecuteCommand("time 6")
	require.InDelta(t, 6*3600, h.e.Scene().Clock().TimeOfDay(), 0.5)

	for _, arg := range []string{"nan", "NaN", "inf", "-Inf", "24", "-1"} {
		h.e.ExecuteCommand("time " + arg)
		assert.Contains(t, h.e.Console().Output(), `time: invalid hour - "`+arg+`"`)
		assert.InDelta(t, 6*3600, h.e.Scene().Clock().TimeOfDay(), 0.5, arg)
	}

	h.frame(t, 0)
	tod := h.e.Scene().Clock().TimeOfDay()
	assert.False(t, math.IsNaN(float64(tod)))
}

func TestResCommandResizesAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultPath)
	h := newHarness(t, nil, WithConfig(config.Default(), path))

	h.e.ExecuteCommand("res 800 600")
	w, ht := h.rec.SurfaceSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, ht)
	assert.InDelta(t, 800.0/600.0, h.e.Scene().Camera().AspectRatio(), 1e-5)
	assert.Contains(t, h.e.Console().Output(), "Window resized to 800x600")

	saved, err := config.Read(path)
	require.NoError(t, err)
	assert.Equal(t, 800, saved.ResX)
	assert.Equal(t, 600, saved.ResY)
	assert.Equal(t, saved, h.e.Config())

	h.e.ExecuteCommand("res 800")
	assert.Contains(t, h.e.Console().Output(), "res: command expects exactly 2 arguments.")
	h.e.ExecuteCommand("res 0 600")
	assert.Contains(t, h.e.Console().Output(), `res: invalid resolution - "0 600"`)
	w, _ = h.rec.SurfaceSize()
	assert.Equal(t, 800, w)
}

func TestVSyncCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultPath)
	h := newHarness(t, nil, WithConfig(config.Default(), path))
	require.Equal(t, renderer.PresentModeVSync, h.rec.CurrentPresentMode())

	h.e.ExecuteCommand("vsync off")
	assert.Equal(t, renderer.PresentModeUncapped, h.rec.CurrentPresentMode())
	assert.Contains(t, h.e.Console().Output(), "Vsync disabled.")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "vsync=off")

	h.e.ExecuteCommand("vsync maybe")
	assert.Contains(t, h.e.Console().Output(), `vsync: unknown argument - "maybe"`)

	h.e.ExecuteCommand("vsync on")
	assert.Equal(t, renderer.PresentModeVSync, h.rec.CurrentPresentMode())
	assert.True(t, h.e.Config().VSync)
}

func TestExitCommandStopsFrames(t *testing.T) {
	h := newHarness(t, nil)
	require.True(t, h.e.Running())
	h.e.ExecuteCommand("exit")
	assert.False(t, h.e.Running())

	require.NoError(t, h.e.RunFrames(5))
	assert.Equal(t, 0, h.rec.Frames())
	h.e.Quit()
}

func TestCtrlShortcuts(t *testing.T) {
	h := newHarness(t, nil)
	require.False(t, h.e.CursorLocked())

	h.in.KeyEvent(input.KeyLeftControl, true, false)
	h.tap(input.KeyL)
	h.frame(t, 0)
	assert.True(t, h.e.CursorLocked())

	h.tap(input.KeyL)
	h.frame(t, 0)
	assert.False(t, h.e.CursorLocked())

	h.tap(input.KeyQ)
	h.frame(t, 0)
	assert.False(t, h.e.Running())
}

func TestApplyConfig(t *testing.T) {
	h := newHarness(t, nil)
	cfg := config.Config{ResX: 1024, ResY: 768, VSync: false}
	h.e.ApplyConfig(cfg)

	w, ht := h.rec.SurfaceSize()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, ht)
	assert.Equal(t, renderer.PresentModeUncapped, h.rec.CurrentPresentMode())
	assert.Equal(t, cfg, h.e.Config())
}

func TestQueuedConfigKeepsLatest(t *testing.T) {
	h := newHarness(t, nil)
	e := h.e.(*engine)
	e.queueConfig(config.Config{ResX: 640, ResY: 480, VSync: true})
	e.queueConfig(config.Config{ResX: 1600, ResY: 900, VSync: true})

	h.frame(t, time.Second/60)
	assert.Equal(t, 1600, h.e.Config().ResX)
	w, _ := h.rec.SurfaceSize()
	assert.Equal(t, 1600, w)
}

func TestMinimizedWindowSkipsFrames(t *testing.T) {
	h := newHarness(t, nil)
	e := h.e.(*engine)
	e.resize(0, 0)
	h.frame(t, time.Second/60)
	assert.Equal(t, 0, h.rec.Frames())

	e.resize(640, 480)
	h.frame(t, time.Second/60)
	assert.Equal(t, 1, h.rec.Frames())
}

func TestFpsLabel(t *testing.T) {
	assert.Equal(t, "Fps: 60 | 16.67ms", fpsText(60))
	assert.Equal(t, "Fps: 0 | 0.00ms", fpsText(0))

	h := newHarness(t, nil)
	for i := 0; i < 3; i++ {
		h.frame(t, time.Second/60)
	}
	assert.Regexp(t, `^Fps: \d+ \| \d+\.\d{2}ms$`, h.e.FpsLabel().Text())
}

func TestEditorSpawnsInFrontOfCamera(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "meshes"), 0o755))
	mesh := filepath.Join("meshes", "crate.glb")
	require.NoError(t, os.WriteFile(filepath.Join(dir, mesh), nil, 0o644))
	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithAssetRoot(dir), loader.WithMesh(mesh, loader.MeshInfo{}))

	h := newHarness(t, []scene.SceneBuilderOption{scene.WithLoader(l)}, WithEditor(l, "meshes"))
	ed := h.e.Editor()
	require.NotNil(t, ed)
	require.False(t, ed.Visible())
	before := len(h.e.Scene().Objects())

	h.tap(input.KeyF2)
	h.frame(t, 0)
	require.True(t, ed.Visible())
	assert.True(t, ed.Input().Focused())
	assert.False(t, h.e.CursorLocked())
	assert.Equal(t, []string{mesh}, ed.Items())

	// the scene is frozen while editing
	clock := h.e.Scene().Clock()
	tod := clock.TimeOfDay()
	h.frame(t, time.Second/60)
	assert.Equal(t, tod, clock.TimeOfDay())

	cam := h.e.Scene().Camera()
	want := cam.Pos().Add(cam.Forward().Mul(spawnDistance))
	h.tap(input.KeyEnter)
	h.frame(t, 0)

	objects := h.e.Scene().Objects()
	require.Len(t, objects, before+1)
	got := objects[len(objects)-1]
	assert.Equal(t, mesh, got.Mesh())
	assert.InDelta(t, want.X(), got.Position().X(), 1e-4)
	assert.InDelta(t, want.Y(), got.Position().Y(), 1e-4)
	assert.InDelta(t, want.Z(), got.Position().Z(), 1e-4)

	h.tap(input.KeyF2)
	h.frame(t, 0)
	assert.False(t, ed.Visible())
	assert.True(t, h.e.CursorLocked())
}

func TestF5SavesWorldWhileEditing(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.scn")
	terrainPath := filepath.Join(dir, "terrain.bin")
	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithAssetRoot(dir))
	h := newHarness(t, nil, WithEditor(l, "meshes"), WithWorldFiles(scenePath, terrainPath))

	h.tap(input.KeyF5)
	h.frame(t, 0)
	assert.NoFileExists(t, scenePath, "F5 only saves from the editor")

	h.tap(input.KeyF2, input.KeyF5)
	h.frame(t, 0)
	assert.FileExists(t, scenePath)
	assert.FileExists(t, terrainPath)

	loaded, err := terrain.LoadFile(terrainPath)
	require.NoError(t, err)
	assert.Equal(t, h.e.Scene().Terrain().Size(), loaded.Size())
}
