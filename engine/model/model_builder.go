package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithFrames is an option builder that sets the frame arena of the Model.
// Frames may be given with Parent links only; child lists are derived in NewModel.
//
// Parameters:
//   - frames: the frame arena
//
// Returns:
//   - ModelBuilderOption: a function that applies the frames option to a model
func WithFrames(frames []Frame) ModelBuilderOption {
	return func(m *model) {
		m.frames = frames
	}
}

// WithRootFrame is an option builder that sets the index of the root frame. Defaults to 0.
//
// Parameters:
//   - index: the root frame index
//
// Returns:
//   - ModelBuilderOption: a function that applies the root frame option to a model
func WithRootFrame(index int) ModelBuilderOption {
	return func(m *model) {
		m.rootFrame = index
	}
}

// WithGeometries is an option builder that sets the geometry chunk collection of the Model.
//
// Parameters:
//   - geometries: the geometry chunks referenced by frames
//
// Returns:
//   - ModelBuilderOption: a function that applies the geometries option to a model
func WithGeometries(geometries []GeometryChunk) ModelBuilderOption {
	return func(m *model) {
		m.geometries = geometries
	}
}

// WithAnimations is an option builder that sets the animation clips of the Model.
//
// Parameters:
//   - animations: the animation clips to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the animations option to a model
func WithAnimations(animations []*AnimationClip) ModelBuilderOption {
	return func(m *model) {
		m.animations = animations
	}
}
