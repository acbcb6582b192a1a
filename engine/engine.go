// Package engine runs the game loop: it drains window input, routes it to the GUI and the scene,
// integrates the scene in fixed sub-steps and draws a frame.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/config"
	"github.com/Carmen-Shannon/oxy-frontier/engine/editor"
	"github.com/Carmen-Shannon/oxy-frontier/engine/gui"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/loader"
	"github.com/Carmen-Shannon/oxy-frontier/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/scene"
	"github.com/Carmen-Shannon/oxy-frontier/engine/terrain"
	"github.com/Carmen-Shannon/oxy-frontier/engine/text"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// FixedStep is the simulation sub-step in seconds.
	FixedStep float32 = 1.0 / 240
	// MaxFrameTime caps the simulated time per frame so a stall cannot explode the step count.
	MaxFrameTime float32 = 0.05

	// consoleHeight is the console's share of the window height.
	consoleHeight = 0.4
	// spawnDistance is how far in front of the camera the editor places new objects.
	spawnDistance = 10
)

// engine implements the Engine interface.
type engine struct {
	quitChannel chan struct{}
	quitOnce    sync.Once
	wg          sync.WaitGroup

	window    window.Window
	collector input.Collector
	renderer  renderer.Renderer
	scene     scene.Scene
	timer     timer.Timer
	font      text.Font
	loader    loader.Loader
	meshDir   string

	gui       *gui.Container
	fpsLabel  gui.Label
	console   gui.Console
	consoleID gui.ChildID
	editor    editor.ObjectAddPanel
	editorID  gui.ChildID

	cfg           config.Config
	configPath    string
	configChannel chan config.Config

	scenePath   string
	terrainPath string

	cursorLocked bool
	minimized    bool

	profiler         *profiler.Profiler
	profilingEnabled bool
}

// Engine owns the frame loop and the screen-space GUI around a Scene.
type Engine interface {
	// Run locks the cursor, watches the config file and runs frames until Quit, the window
	// closing, or ctx ending.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: the first frame error
	Run(ctx context.Context) error

	// RunFrames runs up to n frames, stopping early on Quit.
	//
	// Parameters:
	//   - n: the frame count
	//
	// Returns:
	//   - error: the first frame error
	RunFrames(n int) error

	// Frame runs one iteration: input, simulation, GUI update and draw.
	//
	// Returns:
	//   - error: if the renderer fails to present
	Frame() error

	// HandleEvent routes one input event. Global shortcuts come first, then the GUI, then the scene.
	//
	// Parameters:
	//   - ev: the event
	//   - st: the input state
	HandleEvent(ev input.Event, st *input.InputState)

	// ExecuteCommand runs a console command line and prints its result to the console.
	//
	// Parameters:
	//   - line: the command line
	ExecuteCommand(line string)

	// ApplyConfig applies resolution and vsync settings. The config file is not written.
	//
	// Parameters:
	//   - cfg: the settings
	ApplyConfig(cfg config.Config)

	// Config returns the settings in effect.
	Config() config.Config

	// Scene returns the scene.
	Scene() scene.Scene

	// GUI returns the root GUI container.
	GUI() *gui.Container

	// Console returns the drop-down console.
	Console() gui.Console

	// FpsLabel returns the frame rate label.
	FpsLabel() gui.Label

	// Editor returns the mesh picker, or nil when no loader was configured.
	Editor() editor.ObjectAddPanel

	// CursorLocked reports whether the cursor is captured for camera control.
	CursorLocked() bool

	// Running reports whether the loop should keep going.
	Running() bool

	// Quit stops the loop. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine drawing s and its GUI through r.
//
// Parameters:
//   - r: the renderer
//   - s: the scene
//   - f: the GUI font
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(r renderer.Renderer, s scene.Scene, f text.Font, options ...EngineBuilderOption) Engine {
	if r == nil {
		panic("engine: NewEngine requires a non-nil Renderer")
	}
	if s == nil {
		panic("engine: NewEngine requires a non-nil Scene")
	}
	if f == nil {
		panic("engine: NewEngine requires a non-nil Font")
	}
	e := &engine{
		quitChannel:   make(chan struct{}),
		renderer:      r,
		scene:         s,
		font:          f,
		meshDir:       editor.DefaultMeshDir,
		cfg:           config.Default(),
		configChannel: make(chan config.Config, 1),
		gui:           gui.NewContainer(),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.timer == nil {
		e.timer = timer.NewTimer()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	if e.collector == nil {
		if e.window != nil {
			e.collector = e.window.Collector()
		} else {
			e.collector = input.NewCollector()
		}
	}

	w, h := r.Size()
	e.fpsLabel = gui.NewLabel(f, "", mgl32.Vec2{0, 0}, gui.WithUpdateCallback(func(l gui.Label, _ float32) {
		l.SetText(fpsText(e.timer.FPS()))
	}))
	e.gui.AddChild(e.fpsLabel)

	if e.loader != nil {
		pos := mgl32.Vec2{float32(w-editor.DefaultPanelSize) / 2, float32(h-editor.DefaultPanelSize) / 2}
		e.editor = editor.NewObjectAddPanel(f, e.loader, pos, e.spawnObject, editor.WithMeshDir(e.meshDir))
		e.editor.SetVisible(false)
		e.editorID = e.gui.AddChild(e.editor)
	}

	e.console = gui.NewConsole(f, common.Quad{W: float32(w), H: consoleHeight * float32(h)}, e.ExecuteCommand)
	e.consoleID = e.gui.AddChild(e.console)

	e.renderer.SetPresentMode(presentMode(e.cfg.VSync))
	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}
	return e
}

func fpsText(fps uint16) string {
	var ms float64
	if fps > 0 {
		ms = 1000 / float64(fps)
	}
	return fmt.Sprintf("Fps: %d | %.2fms", fps, ms)
}

func presentMode(vsync bool) renderer.PresentMode {
	if vsync {
		return renderer.PresentModeVSync
	}
	return renderer.PresentModeUncapped
}

func (e *engine) Scene() scene.Scene { return e.scene }

func (e *engine) GUI() *gui.Container { return e.gui }

func (e *engine) Console() gui.Console { return e.console }

func (e *engine) FpsLabel() gui.Label { return e.fpsLabel }

func (e *engine) Editor() editor.ObjectAddPanel { return e.editor }

func (e *engine) Config() config.Config { return e.cfg }

func (e *engine) CursorLocked() bool { return e.cursorLocked }

func (e *engine) Running() bool {
	select {
	case <-e.quitChannel:
		return false
	default:
	}
	return e.window == nil || e.window.IsRunning()
}

// Quit closes the quit channel once and asks the window to close.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

func (e *engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		e.wg.Wait()
	}()

	if e.configPath != "" {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			if err := config.Watch(ctx, e.configPath, e.queueConfig); err != nil {
				slog.Error("config watch stopped", "component", "engine", "path", e.configPath, "err", err)
			}
		}()
	}

	e.setCursorLocked(true)
	e.timer.Reset()
	for e.Running() && ctx.Err() == nil {
		if err := e.Frame(); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) RunFrames(n int) error {
	for i := 0; i < n && e.Running(); i++ {
		if err := e.Frame(); err != nil {
			return err
		}
	}
	return nil
}

// queueConfig hands a reloaded config to the loop goroutine, replacing any pending one.
func (e *engine) queueConfig(cfg config.Config) {
	select {
	case e.configChannel <- cfg:
	default:
		select {
		case <-e.configChannel:
		default:
		}
		e.configChannel <- cfg
	}
}

func (e *engine) Frame() error {
	select {
	case cfg := <-e.configChannel:
		slog.Info("config reloaded", "component", "engine", "res_x", cfg.ResX, "res_y", cfg.ResY, "vsync", cfg.VSync)
		e.ApplyConfig(cfg)
	default:
	}

	if e.window != nil {
		e.window.PollEvents()
	}
	st := e.collector.State()
	for _, ev := range e.collector.Drain() {
		e.HandleEvent(ev, &st)
	}
	if e.minimized {
		return nil
	}

	e.timer.Tick()
	frameTime := e.timer.DeltaTime()
	if !e.editorOpen() {
		e.simulate(frameTime, &st)
	}

	if err := e.renderer.BeginFrame(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.scene.Draw(e.renderer)
	e.gui.UpdateChildren(e.renderer, frameTime)
	e.gui.DrawChildren(e.renderer)
	if err := e.renderer.EndFrame(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}
	return nil
}

// simulate advances the scene by frameTime, clamped to MaxFrameTime, in FixedStep sub-steps
// followed by the remainder. Movement keys are withheld while a widget holds keyboard focus.
func (e *engine) simulate(frameTime float32, st *input.InputState) {
	if e.gui.KeyboardFocus() != 0 {
		st = nil
	}
	remaining := min(frameTime, MaxFrameTime)
	for remaining > FixedStep {
		e.scene.Update(FixedStep, st)
		remaining -= FixedStep
	}
	if remaining > 0 {
		e.scene.Update(remaining, st)
	}
}

func (e *engine) HandleEvent(ev input.Event, st *input.InputState) {
	if ev.Type == input.KeyPressed && e.handleShortcut(ev, st) {
		return
	}
	if !(e.cursorLocked && ev.IsMouseEvent()) && e.gui.HandleEvent(ev, st) {
		return
	}
	if ev.IsMouseEvent() && e.editorOpen() {
		return
	}
	e.scene.OnInputEvent(ev)
}

func (e *engine) handleShortcut(ev input.Event, st *input.InputState) bool {
	if ev.Repeated {
		return false
	}
	if st.Ctrl() {
		switch ev.Key {
		case input.KeyL:
			e.setCursorLocked(!e.cursorLocked)
			return true
		case input.KeyQ:
			e.Quit()
			return true
		}
	}
	switch ev.Key {
	case input.KeyGraveAccent:
		e.togglePanel(e.console, e.consoleID)
		return true
	case input.KeyF2:
		if e.editor == nil || e.gui.KeyboardFocus() == e.consoleID {
			return false
		}
		e.togglePanel(e.editor, e.editorID)
		e.setCursorLocked(!e.editor.Visible())
		return true
	case input.KeyF5:
		if !e.editorOpen() {
			return false
		}
		e.saveWorld()
		return true
	}
	return false
}

// saveWorld writes the scene and terrain files that were configured.
func (e *engine) saveWorld() {
	if e.scenePath != "" {
		if err := e.scene.Save(e.scenePath); err != nil {
			slog.Error("failed to save scene", "component", "engine", "path", e.scenePath, "err", err)
		}
	}
	if e.terrainPath != "" {
		if err := terrain.SaveFile(e.scene.Terrain(), e.terrainPath); err != nil {
			slog.Error("failed to save terrain", "component", "engine", "path", e.terrainPath, "err", err)
		}
	}
}

// togglePanel shows w and gives it keyboard focus, or hides it and drops focus it holds.
func (e *engine) togglePanel(w gui.Widget, id gui.ChildID) {
	if w.Visible() {
		w.SetVisible(false)
		if e.gui.KeyboardFocus() == id {
			e.gui.ResetKeyboardFocus()
		}
		if e.gui.MouseFocus() == id {
			e.gui.ResetMouseFocus()
		}
		return
	}
	w.SetVisible(true)
	e.gui.SetKeyboardFocus(id)
}

func (e *engine) editorOpen() bool {
	return e.editor != nil && e.editor.Visible()
}

func (e *engine) setCursorLocked(locked bool) {
	e.cursorLocked = locked
	if e.window != nil {
		e.window.SetCursorLocked(locked)
	}
}

// spawnObject places mesh in front of the camera.
func (e *engine) spawnObject(mesh string) error {
	cam := e.scene.Camera()
	pos := cam.Pos().Add(cam.Forward().Mul(spawnDistance))
	_, err := e.scene.AddObject(mesh, pos)
	return err
}

// resize reacts to a new framebuffer size. A zero size means the window is minimized and frames
// are skipped until it is restored.
func (e *engine) resize(width, height int) {
	if width == 0 || height == 0 {
		e.minimized = true
		return
	}
	e.minimized = false
	e.renderer.Resize(width, height)
	e.scene.Camera().SetAspectRatio(float32(width) / float32(height))
}

func (e *engine) setResolution(width, height int) {
	if e.window != nil {
		e.window.SetSize(width, height)
		return
	}
	e.resize(width, height)
}

func (e *engine) ApplyConfig(cfg config.Config) {
	if cfg.ResX != e.cfg.ResX || cfg.ResY != e.cfg.ResY {
		e.setResolution(cfg.ResX, cfg.ResY)
	}
	if cfg.VSync != e.cfg.VSync {
		e.renderer.SetPresentMode(presentMode(cfg.VSync))
	}
	e.cfg = cfg
}

// saveConfig persists the current settings when a config path is set.
func (e *engine) saveConfig() {
	if e.configPath == "" {
		return
	}
	if err := e.cfg.Save(e.configPath); err != nil {
		slog.Error("failed to save config", "component", "engine", "path", e.configPath, "err", err)
	}
}
