package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraController is a fly controller that owns the eye position and view angles.
//
// Yaw rotates about world Z and pitch tilts above or below the horizon. Yaw 0 with pitch 0 looks
// along +Y. Movement is expressed in the camera's local frame and scaled by the pan speed.
type CameraController interface {
	// Position returns the world-space eye position.
	Position() mgl32.Vec3

	// SetPosition teleports the eye.
	//
	// Parameters:
	//   - position: world-space coordinates
	SetPosition(position mgl32.Vec3)

	// Target returns the point one unit ahead of the eye.
	Target() mgl32.Vec3

	// Forward returns the unit view direction.
	Forward() mgl32.Vec3

	Yaw() float32
	SetYaw(yaw float32)
	Pitch() float32

	// SetPitch sets the vertical angle, clamped to the pitch bounds.
	SetPitch(pitch float32)

	// Look turns by a cursor delta. Positive dx turns right and positive dy looks down.
	//
	// Parameters:
	//   - dx: horizontal cursor delta in pixels
	//   - dy: vertical cursor delta in pixels
	Look(dx, dy float32)

	// PanForward moves along the view direction, negative backwards.
	PanForward(delta float32)

	// PanRight moves along the horizontal right axis, negative left.
	PanRight(delta float32)

	// PanUp moves along world Z.
	PanUp(delta float32)
}

// pitchLimit keeps the view off the poles where LookAt degenerates.
const pitchLimit = math.Pi/2 - 0.05

// flyController is the CameraController implementation.
type flyController struct {
	mu *sync.Mutex

	position   mgl32.Vec3
	yaw, pitch float32

	pitchMin, pitchMax float32
	sensitivity        float32
	speed              float32
}

var _ CameraController = &flyController{}

// NewCameraController creates a fly controller at the origin looking along +Y.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the new controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	fc := &flyController{
		mu:          &sync.Mutex{},
		pitchMin:    -pitchLimit,
		pitchMax:    pitchLimit,
		sensitivity: 0.005,
		speed:       1,
	}
	for _, option := range options {
		option(fc)
	}
	fc.pitch = mgl32.Clamp(fc.pitch, fc.pitchMin, fc.pitchMax)
	return fc
}

// heading returns the forward and horizontal right axes. Caller holds mu.
func (fc *flyController) heading() (forward, right mgl32.Vec3) {
	sy, cy := math.Sincos(float64(fc.yaw))
	sp, cp := math.Sincos(float64(fc.pitch))
	forward = mgl32.Vec3{float32(-sy * cp), float32(cy * cp), float32(sp)}
	right = mgl32.Vec3{float32(cy), float32(sy), 0}
	return forward, right
}

func (fc *flyController) Position() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.position
}

func (fc *flyController) SetPosition(position mgl32.Vec3) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = position
}

func (fc *flyController) Target() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	forward, _ := fc.heading()
	return fc.position.Add(forward)
}

func (fc *flyController) Forward() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	forward, _ := fc.heading()
	return forward
}

func (fc *flyController) Yaw() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.yaw
}

func (fc *flyController) SetYaw(yaw float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.yaw = yaw
}

func (fc *flyController) Pitch() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.pitch
}

func (fc *flyController) SetPitch(pitch float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.pitch = mgl32.Clamp(pitch, fc.pitchMin, fc.pitchMax)
}

func (fc *flyController) Look(dx, dy float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.yaw -= dx * fc.sensitivity
	fc.pitch = mgl32.Clamp(fc.pitch-dy*fc.sensitivity, fc.pitchMin, fc.pitchMax)
}

func (fc *flyController) PanForward(delta float32) {
	fc.move(func(forward, _ mgl32.Vec3) mgl32.Vec3 { return forward.Mul(delta) })
}

func (fc *flyController) PanRight(delta float32) {
	fc.move(func(_, right mgl32.Vec3) mgl32.Vec3 { return right.Mul(delta) })
}

func (fc *flyController) PanUp(delta float32) {
	fc.move(func(_, _ mgl32.Vec3) mgl32.Vec3 { return mgl32.Vec3{0, 0, delta} })
}

func (fc *flyController) move(offset func(forward, right mgl32.Vec3) mgl32.Vec3) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	forward, right := fc.heading()
	fc.position = fc.position.Add(offset(forward, right).Mul(fc.speed))
}
