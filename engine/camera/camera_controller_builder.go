package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption configures a controller in NewCameraController.
type CameraControllerOption func(*flyController)

// WithPosition sets the starting eye position.
func WithPosition(position mgl32.Vec3) CameraControllerOption {
	return func(fc *flyController) {
		fc.position = position
	}
}

// WithAngles sets the starting yaw and pitch in radians.
//
// Parameters:
//   - yaw: heading about world Z, 0 looks along +Y
//   - pitch: angle above the horizon
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithAngles(yaw, pitch float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.yaw, fc.pitch = yaw, pitch
	}
}

// WithPitchBounds narrows or widens the allowed pitch range.
func WithPitchBounds(min, max float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.pitchMin, fc.pitchMax = min, max
	}
}

// WithMouseSensitivity sets the radians turned per pixel of cursor movement.
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.sensitivity = sensitivity
	}
}

// WithPanSpeed sets the distance moved per unit of pan input.
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.speed = speed
	}
}
