package scene

import (
	"github.com/Carmen-Shannon/oxy-frontier/engine/camera"
	"github.com/Carmen-Shannon/oxy-frontier/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frontier/engine/light"
	"github.com/Carmen-Shannon/oxy-frontier/engine/loader"
	"github.com/Carmen-Shannon/oxy-frontier/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frontier/engine/timer"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLoader sets the mesh loader used by AddObject and Load.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoader(l loader.Loader) SceneBuilderOption {
	return func(s *scene) {
		s.loader = l
	}
}

// WithRenderer registers the scene's point lights with r as they are added, updated and removed.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRenderer(r renderer.SceneRenderer) SceneBuilderOption {
	return func(s *scene) {
		s.r = r
	}
}

// WithPlayer replaces the default player. A player without colliders gets a standing box.
//
// Parameters:
//   - p: the player
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPlayer(p game_object.Player) SceneBuilderOption {
	return func(s *scene) {
		s.player = p
	}
}

// WithDayClock shares an existing clock with the scene's sun.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithDayClock(c timer.DayClock) SceneBuilderOption {
	return func(s *scene) {
		s.clock = c
	}
}

// WithSunParams sets the sun constants.
func WithSunParams(p light.SunParams) SceneBuilderOption {
	return func(s *scene) {
		s.sunOptions = append(s.sunOptions, light.WithSunParams(p))
	}
}

// WithRigOptions passes options through to the camera-follow rig.
func WithRigOptions(options ...camera.RigBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.rigOptions = append(s.rigOptions, options...)
	}
}

// WithObjects adds initial objects to the scene.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			s.addGameObject(obj)
		}
	}
}

// WithGravity sets the acceleration applied to the airborne player.
func WithGravity(g mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.gravity = g
	}
}

// WithMaxStep sets the tallest ledge the player climbs without jumping.
// Negative values are treated as zero.
//
// Parameters:
//   - h: the step height in world units
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaxStep(h float32) SceneBuilderOption {
	return func(s *scene) {
		s.maxStep = max(h, 0)
	}
}

// WithAnchorHeight sets how far above the player's feet the camera orbits.
func WithAnchorHeight(h float32) SceneBuilderOption {
	return func(s *scene) {
		s.anchorHeight = h
	}
}

// WithComputeWorkers sets the number of worker goroutines used to cull objects in Draw.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithCullChunkSize sets how many objects one culling task tests. Values below 1 are treated as 1.
func WithCullChunkSize(n int) SceneBuilderOption {
	return func(s *scene) {
		s.cullChunkSize = max(n, 1)
	}
}

// WithShadowHalfExtent sets the orthographic half-extent of the directional shadow
// frustum in world units. Larger values capture more of the scene but reduce shadow
// resolution. Default is light.DefaultShadowHalfExtent (40.0).
//
// Parameters:
//   - halfExtent: half-size of the shadow frustum in world units
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowHalfExtent(halfExtent float32) SceneBuilderOption {
	return func(s *scene) {
		s.shadowHalfExtent = halfExtent
	}
}

// WithShadowNearFar sets the near and far planes for the directional shadow projection.
// Default is light.DefaultShadowNear (0.1) and light.DefaultShadowFar (200.0).
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowNearFar(near, far float32) SceneBuilderOption {
	return func(s *scene) {
		s.shadowNear = near
		s.shadowFar = far
	}
}
