package camera

// CameraBuilderOption configures a camera in NewCamera.
type CameraBuilderOption func(*cameraImpl)

// WithLens replaces the whole lens.
//
// Parameters:
//   - lens: the perspective settings
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithLens(lens Lens) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens = lens
	}
}

// WithFov sets the vertical field of view in radians.
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens.Fov = fov
	}
}

// WithAspect sets the aspect ratio (width / height).
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens.Aspect = aspect
	}
}

// WithClip sets the near and far plane distances.
func WithClip(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens.Near, c.lens.Far = near, far
	}
}

// WithController attaches a controller. NewCamera builds the first view from it.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
