package engine

import (
	"github.com/Carmen-Shannon/oxy-frontier/engine/config"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/loader"
	"github.com/Carmen-Shannon/oxy-frontier/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables frame statistics logged at debug level.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window that supplies input and receives cursor and size changes.
// Without a window the engine runs headless.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithCollector sets the input source. Defaults to the window's collector, or a fresh one
// when headless.
func WithCollector(c input.Collector) EngineBuilderOption {
	return func(e *engine) {
		e.collector = c
	}
}

// WithTimer replaces the frame timer.
func WithTimer(t timer.Timer) EngineBuilderOption {
	return func(e *engine) {
		e.timer = t
	}
}

// WithConfig sets the settings in effect at startup and the file that the console commands save
// to and Run watches. An empty path disables saving and watching.
//
// Parameters:
//   - cfg: the startup settings
//   - path: the config file path
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config, path string) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
		e.configPath = path
	}
}

// WithEditor enables the F2 mesh picker listing dir through l.
//
// Parameters:
//   - l: the loader
//   - dir: the mesh directory
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEditor(l loader.Loader, dir string) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
		if dir != "" {
			e.meshDir = dir
		}
	}
}

// WithWorldFiles sets where F5 saves the scene and the terrain while the editor is open.
// Empty paths are skipped.
//
// Parameters:
//   - scenePath: the scene file
//   - terrainPath: the terrain file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWorldFiles(scenePath, terrainPath string) EngineBuilderOption {
	return func(e *engine) {
		e.scenePath = scenePath
		e.terrainPath = terrainPath
	}
}
