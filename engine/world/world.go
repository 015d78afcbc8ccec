package world

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/ai"
	"github.com/Carmen-Shannon/oxy-world/engine/game_object"
	"github.com/Carmen-Shannon/oxy-world/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// MinutesPerDay is the length of one game day in game minutes.
const MinutesPerDay = 1440

// Snapshot is a read-only view of the world taken at one instant. Slices are copies; the objects
// themselves are shared and guard their own mutable state.
type Snapshot struct {
	Pedestrians []game_object.GameObject
	Instances   []game_object.GameObject
	Vehicles    []game_object.GameObject
	Graph       *ai.Graph
	// GameTime is the time of day in minutes, in [0, 1440).
	GameTime float32
}

// Hour returns the time of day in fractional hours.
func (s Snapshot) Hour() float32 {
	return s.GameTime / 60
}

type world struct {
	mu *sync.RWMutex

	pedestrians []game_object.GameObject
	instances   []game_object.GameObject
	vehicles    []game_object.GameObject
	graph       *ai.Graph

	gameTime  float32
	timeScale float32
	walkSpeed float32
}

// World owns every simulated object and the game clock.
type World interface {
	// Add inserts objects into the list matching their kind, preserving insertion order.
	//
	// Parameters:
	//   - objects: the objects to add
	Add(objects ...game_object.GameObject)

	// Remove deletes the object with the given ID from whichever list holds it.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - bool: true if an object was removed
	Remove(id uint64) bool

	// Graph returns the navigation graph.
	//
	// Returns:
	//   - *ai.Graph: the graph
	Graph() *ai.Graph

	// GameTime returns the time of day in minutes.
	//
	// Returns:
	//   - float32: minutes since midnight
	GameTime() float32

	// SetGameTime sets the time of day in minutes. Values wrap into one day.
	//
	// Parameters:
	//   - minutes: minutes since midnight
	SetGameTime(minutes float32)

	// Advance runs one simulation step: the clock moves, animators tick, vehicles drive and
	// characters with a controller walk toward their target.
	//
	// Parameters:
	//   - deltaTime: elapsed simulation time in seconds
	Advance(deltaTime float32)

	// Snapshot returns a consistent view for the render thread.
	//
	// Returns:
	//   - Snapshot: the current world state
	Snapshot() Snapshot
}

var _ World = &world{}

// NewWorld creates an empty World with the given options applied.
//
// Parameters:
//   - options: variadic list of WorldBuilderOption functions
//
// Returns:
//   - World: the new world
func NewWorld(options ...WorldBuilderOption) World {
	w := &world{
		mu:        &sync.RWMutex{},
		graph:     &ai.Graph{},
		timeScale: 1,
		walkSpeed: 1.5,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *world) Add(objects ...game_object.GameObject) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, obj := range objects {
		switch obj.Kind() {
		case game_object.KindCharacter:
			w.pedestrians = append(w.pedestrians, obj)
		case game_object.KindInstance:
			w.instances = append(w.instances, obj)
		case game_object.KindVehicle:
			w.vehicles = append(w.vehicles, obj)
		}
	}
}

func (w *world) Remove(id uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, list := range []*[]game_object.GameObject{&w.pedestrians, &w.instances, &w.vehicles} {
		for i, obj := range *list {
			if obj.ID() == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return true
			}
		}
	}
	return false
}

func (w *world) Graph() *ai.Graph {
	return w.graph
}

func (w *world) GameTime() float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gameTime
}

func (w *world) SetGameTime(minutes float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gameTime = common.WrapFloat(minutes, MinutesPerDay)
}

func (w *world) Advance(deltaTime float32) {
	w.mu.Lock()
	w.gameTime = common.WrapFloat(w.gameTime+deltaTime*w.timeScale, MinutesPerDay)
	peds := w.pedestrians
	instances := w.instances
	vehicles := w.vehicles
	w.mu.Unlock()

	for _, obj := range peds {
		tickAnimator(obj, deltaTime)
		w.walk(obj, deltaTime)
	}
	for _, obj := range instances {
		tickAnimator(obj, deltaTime)
	}
	for _, obj := range vehicles {
		tickAnimator(obj, deltaTime)
		drive(obj, deltaTime)
	}
}

func (w *world) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Snapshot{
		Pedestrians: append([]game_object.GameObject(nil), w.pedestrians...),
		Instances:   append([]game_object.GameObject(nil), w.instances...),
		Vehicles:    append([]game_object.GameObject(nil), w.vehicles...),
		Graph:       w.graph,
		GameTime:    w.gameTime,
	}
}

func tickAnimator(obj game_object.GameObject, deltaTime float32) {
	if a := obj.Animator(); a != nil {
		a.Tick(deltaTime)
	}
}

func (w *world) walk(obj game_object.GameObject, deltaTime float32) {
	ctrl := obj.Controller()
	if ctrl == nil {
		return
	}
	pos := obj.Position()
	target := ctrl.Update(pos)
	delta := target.Sub(pos)
	delta[2] = 0
	dist := delta.Len()
	if dist < 1e-4 {
		return
	}
	step := min(w.walkSpeed*deltaTime, dist)
	dir := delta.Mul(1 / dist)
	// heading 0 faces +Y
	heading := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, dir)
	obj.SetTransform(pos.Add(dir.Mul(step)), heading)
}

func drive(obj game_object.GameObject, deltaTime float32) {
	info := obj.Vehicle()
	if info == nil {
		return
	}
	kv, ok := info.Physics.(physics.KinematicVehicle)
	if !ok {
		return
	}
	kv.Step(deltaTime)
	obj.SetTransform(kv.Position(), mgl32.Mat4ToQuat(kv.WorldTransform()))
}
