package game_object

import (
	"github.com/Carmen-Shannon/oxy-frontier/engine/collision"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithMesh sets the mesh asset path. The path is what scene files store.
//
// Parameters:
//   - path: mesh asset path
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the mesh
func WithMesh(path string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mesh = path
	}
}

// WithRenderMode sets the pipeline the object is drawn with.
func WithRenderMode(m RenderMode) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.renderMode = m
	}
}

// WithPosition sets the initial position of the GameObject.
//
// Parameters:
//   - p: the world-space position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(p mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.pos = p
	}
}

// WithScale sets the initial per-axis scale of the GameObject.
//
// Parameters:
//   - s: the scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(s mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = s
	}
}

// WithRotation sets the initial orientation of the GameObject. The quaternion is normalized.
//
// Parameters:
//   - q: the orientation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithRotation(q mgl32.Quat) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rot = q.Normalize()
	}
}

// WithVelocity sets the initial linear velocity.
func WithVelocity(v mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.velocity = v
	}
}

// WithColliders sets the object-space collision shapes.
//
// Parameters:
//   - c: the shapes
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the colliders
func WithColliders(c collision.Colliders) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.colliders = c
	}
}

// WithSerializable marks whether the object is written to scene files. Defaults to true.
func WithSerializable(s bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.serializable = s
	}
}

// WithVisible sets whether the object is drawn. Defaults to true.
func WithVisible(v bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.visible = v
	}
}

// PlayerBuilderOption is a functional option for configuring a Player during construction.
type PlayerBuilderOption func(*player)

// WithObjectOptions applies GameObject options to the player's underlying object.
//
// Parameters:
//   - options: the object options
//
// Returns:
//   - PlayerBuilderOption: functional option to configure the object
func WithObjectOptions(options ...GameObjectBuilderOption) PlayerBuilderOption {
	return func(p *player) {
		for _, option := range options {
			option(p.gameObject)
		}
	}
}

// WithSpeed sets the walking speed in units per second. Defaults to DefaultSpeed.
func WithSpeed(speed float32) PlayerBuilderOption {
	return func(p *player) {
		p.speed = speed
	}
}

// WithRotationSpeed sets the turning speed in radians per second. Defaults to DefaultRotationSpeed.
func WithRotationSpeed(speed float32) PlayerBuilderOption {
	return func(p *player) {
		p.rotSpeed = speed
	}
}

// WithJumpVelocity sets the vertical velocity a jump adds. Defaults to DefaultJumpVelocity.
func WithJumpVelocity(v float32) PlayerBuilderOption {
	return func(p *player) {
		p.jumpVelocity = v
	}
}
