package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VehicleBuilderOption is a functional option for configuring a KinematicVehicle during construction.
type VehicleBuilderOption func(*kinematicVehicle)

// WithPosition sets the starting chassis position.
//
// Parameters:
//   - position: the world position
//
// Returns:
//   - VehicleBuilderOption: a function that applies the position option
func WithPosition(position mgl32.Vec3) VehicleBuilderOption {
	return func(v *kinematicVehicle) {
		v.position = position
	}
}

// WithHeading sets the starting yaw around +Z in radians.
//
// Parameters:
//   - heading: the yaw angle
//
// Returns:
//   - VehicleBuilderOption: a function that applies the heading option
func WithHeading(heading float32) VehicleBuilderOption {
	return func(v *kinematicVehicle) {
		v.heading = heading
	}
}

// WithWheels sets the chassis-space wheel connection points.
//
// Parameters:
//   - points: one connection point per wheel
//
// Returns:
//   - VehicleBuilderOption: a function that applies the wheels option
func WithWheels(points ...mgl32.Vec3) VehicleBuilderOption {
	return func(v *kinematicVehicle) {
		v.connections = append([]mgl32.Vec3(nil), points...)
	}
}

// WithSuspension sets the suspension rest length and wheel radius.
//
// Parameters:
//   - rest: distance the hub hangs below its connection point
//   - radius: wheel radius used to derive spin from speed
//
// Returns:
//   - VehicleBuilderOption: a function that applies the suspension option
func WithSuspension(rest, radius float32) VehicleBuilderOption {
	return func(v *kinematicVehicle) {
		v.suspensionRest = rest
		v.wheelRadius = radius
	}
}

// WithMotion sets the initial forward speed and yaw rate.
//
// Parameters:
//   - speed: forward speed in units per second
//   - yawRate: turn rate in radians per second
//
// Returns:
//   - VehicleBuilderOption: a function that applies the motion option
func WithMotion(speed, yawRate float32) VehicleBuilderOption {
	return func(v *kinematicVehicle) {
		v.speed = speed
		v.yawRate = yawRate
	}
}

func sin32(a float32) float32 { return float32(math.Sin(float64(a))) }
func cos32(a float32) float32 { return float32(math.Cos(float64(a))) }
