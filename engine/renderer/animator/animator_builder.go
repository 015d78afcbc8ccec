package animator

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithClip is an option builder that starts playing the named clip immediately.
// Unknown clip names leave the animator idle.
//
// Parameters:
//   - clipName: the clip to play
//   - loop: whether playback wraps
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the clip option to an animator
func WithClip(clipName string, loop bool) AnimatorBuilderOption {
	return func(a *animator) {
		clip := a.model.Animation(clipName)
		if clip == nil {
			return
		}
		a.clip = clip
		a.loop = loop
		a.playing = true
	}
}

// WithSpeed is an option builder that sets the playback speed multiplier.
//
// Parameters:
//   - speed: the speed multiplier
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the speed option to an animator
func WithSpeed(speed float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.speed = speed
	}
}
