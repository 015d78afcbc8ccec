package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/go-gl/mathgl/mgl32"
)

// worldUp is the up axis of the Z-up world.
var worldUp = mgl32.Vec3{0, 0, 1}

// Lens holds the perspective settings of a camera.
type Lens struct {
	Fov    float32 // vertical field of view in radians
	Aspect float32 // width / height
	Near   float32
	Far    float32
}

// DefaultLens is a 60 degree lens with a 1000 unit far plane.
func DefaultLens() Lens {
	return Lens{Fov: mgl32.DegToRad(60), Aspect: 1, Near: 0.1, Far: 1000}
}

func (l Lens) projection() mgl32.Mat4 {
	aspect := l.Aspect
	if aspect <= 0 || math.IsNaN(float64(aspect)) {
		aspect = 1
	}
	return mgl32.Perspective(l.Fov, aspect, l.Near, l.Far)
}

type cameraImpl struct {
	mu *sync.Mutex

	lens       Lens
	controller CameraController

	view, projection, viewProj mgl32.Mat4
}

// Camera is a perspective viewer camera driven by a CameraController.
//
// The lens is owned by the camera, the eye position and orientation by the controller. Update
// copies the controller state into the cached matrices, so a render frame sees one consistent view.
type Camera interface {
	// Lens returns the current perspective settings.
	//
	// Returns:
	//   - Lens: the lens
	Lens() Lens

	// SetLens replaces the perspective settings and recomputes the projection.
	//
	// Parameters:
	//   - lens: the new lens
	SetLens(lens Lens)

	// Far returns the far clip distance of the lens.
	Far() float32

	// SetFar moves the far clip plane.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetAspect changes the aspect ratio, typically after a window resize.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// View returns the cached view matrix.
	View() mgl32.Mat4

	// Projection returns the cached projection matrix in OpenGL clip convention (z in [-1, 1]).
	Projection() mgl32.Mat4

	// ViewProjection returns Projection * View.
	ViewProjection() mgl32.Mat4

	// Frustum returns the normalized clip planes of the cached view-projection.
	//
	// Returns:
	//   - common.Frustum: the six frustum planes
	Frustum() common.Frustum

	// WorldPosition returns the eye position, or the origin without a controller.
	WorldPosition() mgl32.Vec3

	// Rotation returns yaw about Z followed by pitch about the local X axis.
	// Without a controller it is the identity.
	Rotation() mgl32.Quat

	// Controller returns the attached controller, or nil.
	Controller() CameraController

	// SetController attaches a controller and refreshes the view.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// Update refreshes the cached matrices from the controller. No-op without one.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with DefaultLens unless options say otherwise.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:   &sync.Mutex{},
		lens: DefaultLens(),
		view: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.refresh()
	return c
}

func (c *cameraImpl) Lens() Lens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lens
}

func (c *cameraImpl) SetLens(lens Lens) {
	c.withLock(func() { c.lens = lens })
}

func (c *cameraImpl) Far() float32 {
	return c.Lens().Far
}

func (c *cameraImpl) SetFar(far float32) {
	c.withLock(func() { c.lens.Far = far })
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.withLock(func() { c.lens.Aspect = aspect })
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProj
}

func (c *cameraImpl) Frustum() common.Frustum {
	return common.ExtractFrustum(c.ViewProjection())
}

func (c *cameraImpl) WorldPosition() mgl32.Vec3 {
	if ctrl := c.Controller(); ctrl != nil {
		return ctrl.Position()
	}
	return mgl32.Vec3{}
}

func (c *cameraImpl) Rotation() mgl32.Quat {
	ctrl := c.Controller()
	if ctrl == nil {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(ctrl.Yaw(), worldUp).Mul(mgl32.QuatRotate(ctrl.Pitch(), mgl32.Vec3{1, 0, 0}))
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.withLock(func() { c.controller = ctrl })
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller != nil {
		c.refresh()
	}
}

// withLock applies a change under the mutex and refreshes the matrices.
func (c *cameraImpl) withLock(change func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	change()
	c.refresh()
}

// refresh recomputes the cached matrices. Without a controller the view stays put.
// Caller holds mu.
func (c *cameraImpl) refresh() {
	c.projection = c.lens.projection()
	if c.controller != nil {
		c.view = mgl32.LookAtV(c.controller.Position(), c.controller.Target(), worldUp)
	}
	c.viewProj = c.projection.Mul4(c.view)
}
