package world

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/ai"
)

// WorldBuilderOption is a functional option for configuring a World during construction.
type WorldBuilderOption func(*world)

// WithStartTime sets the initial time of day in minutes.
//
// Parameters:
//   - minutes: minutes since midnight
//
// Returns:
//   - WorldBuilderOption: a function that applies the start time
func WithStartTime(minutes float32) WorldBuilderOption {
	return func(w *world) {
		w.gameTime = common.WrapFloat(minutes, MinutesPerDay)
	}
}

// WithTimeScale sets how many game minutes pass per simulated second. Defaults to 1.
//
// Parameters:
//   - scale: game minutes per second
//
// Returns:
//   - WorldBuilderOption: a function that applies the time scale
func WithTimeScale(scale float32) WorldBuilderOption {
	return func(w *world) {
		w.timeScale = scale
	}
}

// WithWalkSpeed sets the speed of controller-driven characters in units per second.
//
// Parameters:
//   - speed: the walk speed
//
// Returns:
//   - WorldBuilderOption: a function that applies the walk speed
func WithWalkSpeed(speed float32) WorldBuilderOption {
	return func(w *world) {
		w.walkSpeed = speed
	}
}

// WithGraph sets the navigation graph.
//
// Parameters:
//   - g: the graph
//
// Returns:
//   - WorldBuilderOption: a function that applies the graph
func WithGraph(g *ai.Graph) WorldBuilderOption {
	return func(w *world) {
		if g != nil {
			w.graph = g
		}
	}
}
