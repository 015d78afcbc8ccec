package animator

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	model model.Model
	clip  *model.AnimationClip

	prevTime, time, speed float32
	loop, playing         bool
}

// Animator defines the public interface for per-object keyframe animation.
//
// The Animator owns the playback clock of one object. The simulation thread advances it with Tick,
// and the render thread asks for per-frame pose overrides with PoseOverride, interpolating between
// the two most recent simulation steps by the render alpha.
type Animator interface {
	// Model returns the model whose frames this animator drives.
	//
	// Returns:
	//   - model.Model: the animated model
	Model() model.Model

	// Play starts the named clip from time zero.
	//
	// Parameters:
	//   - clipName: the name of an animation clip on the model
	//   - loop: whether playback wraps at the end of the clip
	//
	// Returns:
	//   - bool: false if the model has no clip with that name
	Play(clipName string, loop bool) bool

	// Stop halts playback. PoseOverride keeps returning the pose at the stop time.
	Stop()

	// SetSpeed sets the playback speed multiplier.
	//
	// Parameters:
	//   - speed: the speed multiplier (1.0 = normal, 0.5 = half speed)
	SetSpeed(speed float32)

	// Tick advances the playback clock by one simulation step.
	//
	// Parameters:
	//   - deltaTime: elapsed simulation time in seconds
	Tick(deltaTime float32)

	// Time returns the current playback time in seconds.
	//
	// Returns:
	//   - float32: the clip-local time
	Time() float32

	// PoseOverride returns the local transform of a frame at the render interpolation fraction.
	// Frames the active clip does not animate return their static local transform. With fixed set,
	// the root frame keeps its static translation so the object stays anchored at its world position.
	//
	// Parameters:
	//   - frame: the frame to sample
	//   - alpha: interpolation fraction in [0, 1] between the previous and current simulation step
	//   - fixed: whether root translation is pinned
	//
	// Returns:
	//   - mgl32.Mat4: the local transform override
	PoseOverride(frame *model.Frame, alpha float32, fixed bool) mgl32.Mat4
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator for the given model.
//
// Parameters:
//   - m: the model to animate, must not be nil
//   - options: variadic list of AnimatorBuilderOption functions to configure the animator
//
// Returns:
//   - Animator: a new Animator with no clip playing unless configured otherwise
func NewAnimator(m model.Model, options ...AnimatorBuilderOption) Animator {
	if m == nil {
		panic("animator: NewAnimator requires a non-nil Model")
	}
	a := &animator{
		mu:    &sync.Mutex{},
		model: m,
		speed: 1.0,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) Model() model.Model {
	return a.model
}

func (a *animator) Play(clipName string, loop bool) bool {
	clip := a.model.Animation(clipName)
	if clip == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clip = clip
	a.time, a.prevTime = 0, 0
	a.loop = loop
	a.playing = true
	return true
}

func (a *animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.playing = false
	a.prevTime = a.time
}

func (a *animator) SetSpeed(speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speed = speed
}

func (a *animator) Tick(deltaTime float32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.prevTime = a.time
	if !a.playing || a.clip == nil {
		return
	}

	a.time += deltaTime * a.speed
	duration := a.clip.Duration
	if duration <= 0 {
		a.time = 0
		return
	}
	if a.time > duration {
		if a.loop {
			a.time = float32(math.Mod(float64(a.time), float64(duration)))
		} else {
			a.time = duration
			a.playing = false
		}
	}
}

func (a *animator) Time() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.time
}

func (a *animator) PoseOverride(frame *model.Frame, alpha float32, fixed bool) mgl32.Mat4 {
	a.mu.Lock()
	clip := a.clip
	t := a.sampleTime(common.Clamp01(alpha))
	a.mu.Unlock()

	if clip == nil || frame == nil {
		return staticLocal(frame)
	}
	channel, ok := clip.Channels[frame.Name]
	if !ok {
		return frame.Local
	}

	translation := common.TranslationOf(frame.Local)
	if len(channel.PositionKeys) > 0 && !(fixed && frame.Parent == model.NoParent) {
		translation = sampleVector(channel.PositionKeys, t)
	}

	rotation := mgl32.Mat4ToQuat(frame.Local)
	if len(channel.RotationKeys) > 0 {
		rotation = sampleQuaternion(channel.RotationKeys, t)
	}

	return mgl32.Translate3D(translation[0], translation[1], translation[2]).Mul4(rotation.Mat4())
}

// sampleTime returns the clip time between the previous and current tick. Must be called with mu held.
func (a *animator) sampleTime(alpha float32) float32 {
	if a.clip == nil {
		return 0
	}
	cur := a.time
	if cur < a.prevTime && a.clip.Duration > 0 {
		// the clock wrapped during the last tick
		cur += a.clip.Duration
	}
	t := a.prevTime + (cur-a.prevTime)*alpha
	if a.clip.Duration > 0 && t > a.clip.Duration {
		t -= a.clip.Duration
	}
	return t
}

func staticLocal(frame *model.Frame) mgl32.Mat4 {
	if frame == nil {
		return mgl32.Ident4()
	}
	return frame.Local
}
