package physics

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Body is a simulated object whose world transform overrides the object's own position and rotation.
type Body interface {
	// WorldTransform returns the body's current world matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the world transform
	WorldTransform() mgl32.Mat4
}

// Vehicle is a Body with wheels.
type Vehicle interface {
	Body

	// WheelCount returns the number of wheels attached to the chassis.
	//
	// Returns:
	//   - int: the wheel count
	WheelCount() int

	// WheelTransform returns the world transform of a wheel, including suspension offset and spin.
	//
	// Parameters:
	//   - index: the wheel index
	//
	// Returns:
	//   - mgl32.Mat4: the wheel world transform, or identity when the index is out of range
	WheelTransform(index int) mgl32.Mat4

	// WheelConnectionPoint returns where a wheel attaches to the chassis in chassis space.
	// Wheels with a negative x connection sit on the left side of the vehicle.
	//
	// Parameters:
	//   - index: the wheel index
	//
	// Returns:
	//   - mgl32.Vec3: the chassis-space connection point
	WheelConnectionPoint(index int) mgl32.Vec3
}

// staticBody is a Body with a fixed world transform.
type staticBody struct {
	transform mgl32.Mat4
}

var _ Body = &staticBody{}

// NewStaticBody creates a Body that never moves.
//
// Parameters:
//   - transform: the fixed world matrix
//
// Returns:
//   - Body: the static body
func NewStaticBody(transform mgl32.Mat4) Body {
	return &staticBody{transform: transform}
}

func (b *staticBody) WorldTransform() mgl32.Mat4 {
	return b.transform
}

// kinematicVehicle moves along a scripted heading instead of being integrated from forces.
type kinematicVehicle struct {
	mu *sync.RWMutex

	position   mgl32.Vec3
	heading    float32
	speed      float32
	yawRate    float32
	wheelAngle float32

	connections    []mgl32.Vec3
	suspensionRest float32
	wheelRadius    float32
}

// KinematicVehicle is a Vehicle driven by speed and yaw rate. Step advances it by one simulation tick.
type KinematicVehicle interface {
	Vehicle

	// Step advances the chassis along its heading and spins the wheels to match.
	//
	// Parameters:
	//   - deltaTime: elapsed simulation time in seconds
	Step(deltaTime float32)

	// SetSpeed sets the forward speed in units per second.
	//
	// Parameters:
	//   - speed: the forward speed
	SetSpeed(speed float32)

	// SetYawRate sets the turn rate in radians per second.
	//
	// Parameters:
	//   - rate: the yaw rate
	SetYawRate(rate float32)

	// Position returns the chassis position.
	//
	// Returns:
	//   - mgl32.Vec3: the world position
	Position() mgl32.Vec3
}

var _ KinematicVehicle = &kinematicVehicle{}

// NewKinematicVehicle creates a KinematicVehicle with the given options applied.
//
// Parameters:
//   - options: variadic list of VehicleBuilderOption functions
//
// Returns:
//   - KinematicVehicle: the new vehicle
func NewKinematicVehicle(options ...VehicleBuilderOption) KinematicVehicle {
	v := &kinematicVehicle{
		mu:             &sync.RWMutex{},
		suspensionRest: 0.2,
		wheelRadius:    0.35,
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

func (v *kinematicVehicle) chassis() mgl32.Mat4 {
	return mgl32.Translate3D(v.position[0], v.position[1], v.position[2]).
		Mul4(mgl32.HomogRotate3DZ(v.heading))
}

func (v *kinematicVehicle) WorldTransform() mgl32.Mat4 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.chassis()
}

func (v *kinematicVehicle) WheelCount() int {
	return len(v.connections)
}

func (v *kinematicVehicle) WheelTransform(index int) mgl32.Mat4 {
	if index < 0 || index >= len(v.connections) {
		return mgl32.Ident4()
	}
	v.mu.RLock()
	defer v.mu.RUnlock()

	c := v.connections[index]
	hub := mgl32.Translate3D(c[0], c[1], c[2]-v.suspensionRest)
	return v.chassis().Mul4(hub).Mul4(mgl32.HomogRotate3DX(v.wheelAngle))
}

func (v *kinematicVehicle) WheelConnectionPoint(index int) mgl32.Vec3 {
	if index < 0 || index >= len(v.connections) {
		return mgl32.Vec3{}
	}
	return v.connections[index]
}

func (v *kinematicVehicle) Step(deltaTime float32) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.heading += v.yawRate * deltaTime
	// +Y is forward at heading 0
	forward := mgl32.Vec3{-sin32(v.heading), cos32(v.heading), 0}
	v.position = v.position.Add(forward.Mul(v.speed * deltaTime))
	if v.wheelRadius > 0 {
		v.wheelAngle += v.speed * deltaTime / v.wheelRadius
	}
}

func (v *kinematicVehicle) SetSpeed(speed float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.speed = speed
}

func (v *kinematicVehicle) SetYawRate(rate float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.yawRate = rate
}

func (v *kinematicVehicle) Position() mgl32.Vec3 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.position
}
