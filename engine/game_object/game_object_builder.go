package game_object

import (
	"github.com/Carmen-Shannon/oxy-world/engine/ai"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/physics"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/animator"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID overrides the automatically assigned ID of the GameObject.
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

// WithEnabled sets whether the GameObject is enabled for rendering. Objects start enabled.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial world position.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = mgl32.Vec3{x, y, z}
	}
}

// WithScale sets the initial per-axis scale. Only instances apply scale when drawn.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithRotation sets the initial orientation.
//
// Parameters:
//   - q: the rotation quaternion
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithRotation(q mgl32.Quat) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = q
	}
}

// WithHeading sets the initial orientation as a yaw around +Z.
//
// Parameters:
//   - radians: the yaw angle
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithHeading(radians float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = mgl32.QuatRotate(radians, mgl32.Vec3{0, 0, 1})
	}
}

// WithAnimator attaches an Animator that overrides frame transforms when drawn.
//
// Parameters:
//   - a: the animator
//   - fixed: whether the root frame keeps its static translation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the animator
func WithAnimator(a animator.Animator, fixed bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.animator = a
		obj.animationFixed = fixed
	}
}

// WithLOD links the low-detail object drawn beyond the first draw distance.
//
// Parameters:
//   - lod: the LOD object
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the LOD link
func WithLOD(lod GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.lod = lod
	}
}

// WithHiddenFrames hides the named frames.
//
// Parameters:
//   - names: the frame names to hide
//
// Returns:
//   - GameObjectBuilderOption: functional option to hide frames
func WithHiddenFrames(names ...string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		for _, n := range names {
			obj.hiddenFrames[n] = struct{}{}
		}
	}
}

// WithBody attaches a physics body whose world transform replaces position and rotation.
//
// Parameters:
//   - body: the physics body
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the body
func WithBody(body physics.Body) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.body = body
	}
}

// WithController attaches an AI controller to a character.
//
// Parameters:
//   - c: the controller
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the controller
func WithController(c ai.Controller) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.controller = c
	}
}

// WithDefinition attaches the draw definition whose distances and clump count drive level of
// detail. Vehicles take it from catalog.VehicleDefinition.DrawDefinition; NewInstance always
// overrides it with its own definition.
//
// Parameters:
//   - def: the definition
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the definition
func WithDefinition(def *catalog.ObjectDefinition) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.definition = def
	}
}
