package game_object

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/ai"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/physics"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/animator"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies which variant of the GameObject union an object is.
type Kind int

const (
	KindCharacter Kind = iota
	KindInstance
	KindVehicle
)

func (k Kind) String() string {
	switch k {
	case KindCharacter:
		return "character"
	case KindInstance:
		return "instance"
	case KindVehicle:
		return "vehicle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// VehicleInfo holds the vehicle-only fields of a GameObject.
type VehicleInfo struct {
	PrimaryColor   common.Color
	SecondaryColor common.Color
	// WheelModel names the frame inside the shared wheels model used for every wheel.
	WheelModel string
	WheelScale float32
	Physics    physics.Vehicle
}

type gameObject struct {
	mu *sync.RWMutex

	id        uint64
	kind      Kind
	enabled   atomic.Bool
	modelName string

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	definition     *catalog.ObjectDefinition
	animator       animator.Animator
	animationFixed bool
	lod            GameObject
	hiddenFrames   map[string]struct{}
	body           physics.Body

	vehicle    *VehicleInfo
	controller ai.Controller
}

// GameObject defines the interface for a world entity: a character, a placed instance or a vehicle.
// Transform accessors are safe to call from the render thread while the simulation thread writes them.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Kind returns which variant this object is.
	//
	// Returns:
	//   - Kind: the object kind
	Kind() Kind

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// ModelName returns the logical model name looked up in the asset cache.
	//
	// Returns:
	//   - string: the model name
	ModelName() string

	// Definition returns the catalog definition of an instance, or the draw definition a vehicle
	// was built with. Nil when the object has none.
	//
	// Returns:
	//   - *catalog.ObjectDefinition: the definition or nil
	Definition() *catalog.ObjectDefinition

	// Position returns the world position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Rotation returns the world orientation.
	//
	// Returns:
	//   - mgl32.Quat: the rotation
	Rotation() mgl32.Quat

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetTransform replaces position and rotation in one step.
	//
	// Parameters:
	//   - position: the new position
	//   - rotation: the new rotation
	SetTransform(position mgl32.Vec3, rotation mgl32.Quat)

	// SetScale replaces the per-axis scale.
	//
	// Parameters:
	//   - scale: the new scale
	SetScale(scale mgl32.Vec3)

	// Animator returns the Animator driving this object's frames, or nil.
	//
	// Returns:
	//   - animator.Animator: the animator or nil
	Animator() animator.Animator

	// AnimationFixed reports whether the root frame keeps its static translation while animating.
	//
	// Returns:
	//   - bool: true when the root is pinned
	AnimationFixed() bool

	// LOD returns the low-detail object drawn in place of this one beyond its first draw distance, or nil.
	//
	// Returns:
	//   - GameObject: the linked LOD object or nil
	LOD() GameObject

	// IsFrameHidden reports whether the named frame is hidden from drawing. Its children still draw.
	//
	// Parameters:
	//   - name: the frame name
	//
	// Returns:
	//   - bool: true when hidden
	IsFrameHidden(name string) bool

	// SetFrameHidden hides or shows a frame by name.
	//
	// Parameters:
	//   - name: the frame name
	//   - hidden: true to hide
	SetFrameHidden(name string, hidden bool)

	// Body returns the physics body whose transform overrides position and rotation, or nil.
	//
	// Returns:
	//   - physics.Body: the body or nil
	Body() physics.Body

	// Vehicle returns the vehicle-only fields, or nil for other kinds.
	//
	// Returns:
	//   - *VehicleInfo: the vehicle fields or nil
	Vehicle() *VehicleInfo

	// Controller returns the AI controller of a character, or nil.
	//
	// Returns:
	//   - ai.Controller: the controller or nil
	Controller() ai.Controller
}

var _ GameObject = &gameObject{}

var nextID atomic.Uint64

func newGameObject(kind Kind, modelName string, options []GameObjectBuilderOption) *gameObject {
	obj := &gameObject{
		mu:           &sync.RWMutex{},
		id:           nextID.Add(1),
		kind:         kind,
		modelName:    modelName,
		rotation:     mgl32.QuatIdent(),
		scale:        mgl32.Vec3{1, 1, 1},
		hiddenFrames: make(map[string]struct{}),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

// NewCharacter creates a pedestrian GameObject.
//
// Parameters:
//   - modelName: the character's model name
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the character
func NewCharacter(modelName string, options ...GameObjectBuilderOption) GameObject {
	return newGameObject(KindCharacter, modelName, options)
}

// NewInstance creates a placed object from its catalog definition. The model name comes from the definition.
//
// Parameters:
//   - def: the object definition, must not be nil
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the instance
func NewInstance(def *catalog.ObjectDefinition, options ...GameObjectBuilderOption) GameObject {
	if def == nil {
		panic("game_object: NewInstance requires a definition")
	}
	obj := newGameObject(KindInstance, def.ModelName, options)
	obj.definition = def
	return obj
}

// NewVehicle creates a vehicle GameObject.
//
// Parameters:
//   - modelName: the body model name
//   - info: the vehicle fields, must not be nil
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the vehicle
func NewVehicle(modelName string, info *VehicleInfo, options ...GameObjectBuilderOption) GameObject {
	if info == nil {
		panic("game_object: NewVehicle requires VehicleInfo")
	}
	obj := newGameObject(KindVehicle, modelName, options)
	if info.WheelScale == 0 {
		info.WheelScale = 1
	}
	obj.vehicle = info
	if obj.body == nil && info.Physics != nil {
		obj.body = info.Physics
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Kind() Kind {
	return g.kind
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) ModelName() string {
	return g.modelName
}

func (g *gameObject) Definition() *catalog.ObjectDefinition {
	return g.definition
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) Rotation() mgl32.Quat {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) SetTransform(position mgl32.Vec3, rotation mgl32.Quat) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = position
	g.rotation = rotation
}

func (g *gameObject) SetScale(scale mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = scale
}

func (g *gameObject) Animator() animator.Animator {
	return g.animator
}

func (g *gameObject) AnimationFixed() bool {
	return g.animationFixed
}

func (g *gameObject) LOD() GameObject {
	return g.lod
}

func (g *gameObject) IsFrameHidden(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, hidden := g.hiddenFrames[name]
	return hidden
}

func (g *gameObject) SetFrameHidden(name string, hidden bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if hidden {
		g.hiddenFrames[name] = struct{}{}
	} else {
		delete(g.hiddenFrames, name)
	}
}

func (g *gameObject) Body() physics.Body {
	return g.body
}

func (g *gameObject) Vehicle() *VehicleInfo {
	return g.vehicle
}

func (g *gameObject) Controller() ai.Controller {
	return g.controller
}
