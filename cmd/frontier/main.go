// Command frontier runs the game: a third-person walk over a heightfield terrain with a day/night
// sun, a drop-down console and an F2 mesh picker.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-frontier/engine"
	"github.com/Carmen-Shannon/oxy-frontier/engine/camera"
	"github.com/Carmen-Shannon/oxy-frontier/engine/config"
	"github.com/Carmen-Shannon/oxy-frontier/engine/editor"
	"github.com/Carmen-Shannon/oxy-frontier/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frontier/engine/loader"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/scene"
	"github.com/Carmen-Shannon/oxy-frontier/engine/terrain"
	"github.com/Carmen-Shannon/oxy-frontier/engine/text"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

type options struct {
	configPath  string
	tuningPath  string
	scenePath   string
	terrainPath string
	assetRoot   string
	fontPath    string
	headless    bool
	frames      int
	verbose     bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", config.DefaultPath, "display settings file, rewritten on start")
	flag.StringVar(&o.tuningPath, "tuning", config.DefaultTuningPath, "optional gameplay constants")
	flag.StringVar(&o.scenePath, "scene", "scene.scn", "scene file loaded at start and saved with F5 in the editor")
	flag.StringVar(&o.terrainPath, "terrain", "", "terrain file; a flat terrain is generated when empty or missing")
	flag.StringVar(&o.assetRoot, "assets", ".", "directory that mesh paths are relative to")
	flag.StringVar(&o.fontPath, "font", "assets/fonts/font.ttf", "GUI font; falls back to a built-in bitmap font")
	flag.BoolVar(&o.headless, "headless", false, "run without a window, presenting to an in-memory backend")
	flag.IntVar(&o.frames, "frames", 0, "stop after this many frames; 0 runs until quit")
	flag.BoolVar(&o.verbose, "v", false, "debug logging and frame statistics")
	flag.Parse()

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(o); err != nil {
		slog.Error("frontier stopped", "err", err)
		os.Exit(1)
	}
}

func run(o options) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	tuning, err := config.LoadTuning(o.tuningPath)
	if err != nil {
		return err
	}

	var win window.Window
	var backend renderer.RendererBackend
	width, height := cfg.ResX, cfg.ResY
	if o.headless {
		backend = renderer.NewRecorderBackend()
	} else {
		win, err = window.NewWindow(window.WithTitle("frontier"), window.WithSize(cfg.ResX, cfg.ResY))
		if err != nil {
			return err
		}
		defer win.Close()
		width, height = win.Size()
		if backend, err = renderer.NewWGPUBackend(win.SurfaceDescriptor(), false); err != nil {
			return err
		}
	}
	mode := renderer.PresentModeVSync
	if !cfg.VSync {
		mode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(backend, width, height, renderer.WithPresentMode(mode))
	defer r.Release()

	terr, err := loadTerrain(o.terrainPath)
	if err != nil {
		return err
	}
	font, err := text.LoadFont(o.fontPath, 18)
	if err != nil {
		slog.Warn("using built-in font", "path", o.fontPath, "err", err)
		font = text.NewBasicFont()
	}
	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithAssetRoot(o.assetRoot))

	// Start high above the player looking 45 degrees down; the rig takes over on the first update.
	s45 := float32(math.Sqrt2 / 2)
	cam := camera.NewCamera(
		camera.WithPos(mgl32.Vec3{0, 66, -70}),
		camera.WithBasis(mgl32.Vec3{0, -s45, s45}, mgl32.Vec3{0, s45, s45}),
		camera.WithHFOV(math.Pi/2),
		camera.WithAspectRatio(float32(width)/float32(height)),
		camera.WithNear(1),
		camera.WithFar(2000),
	)
	player := game_object.NewPlayer(append(tuning.PlayerOptions(),
		game_object.WithObjectOptions(game_object.WithPosition(scene.DefaultPlayerPosition)))...)

	sceneOptions := append(tuning.SceneOptions(),
		scene.WithLoader(l),
		scene.WithRenderer(r),
		scene.WithPlayer(player),
		scene.WithDayClock(timer.NewDayClock(tuning.DayClockOptions()...)),
	)
	s := scene.NewScene(cam, terr, sceneOptions...)
	defer s.Close()
	if o.scenePath != "" {
		if err := s.Load(o.scenePath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			slog.Info("no scene file, starting empty", "path", o.scenePath)
		}
	}

	engineOptions := []engine.EngineBuilderOption{
		engine.WithConfig(cfg, o.configPath),
		engine.WithEditor(l, editor.DefaultMeshDir),
		engine.WithWorldFiles(o.scenePath, o.terrainPath),
		engine.WithProfiling(o.verbose),
	}
	if win != nil {
		engineOptions = append(engineOptions, engine.WithWindow(win))
	}
	e := engine.NewEngine(r, s, font, engineOptions...)

	if o.frames > 0 {
		return e.RunFrames(o.frames)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return e.Run(ctx)
}

func loadTerrain(path string) (terrain.Terrain, error) {
	if path == "" {
		return terrain.NewTerrain(), nil
	}
	t, err := terrain.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("no terrain file, generating flat terrain", "path", path)
		return terrain.NewTerrain(), nil
	}
	return t, err
}
