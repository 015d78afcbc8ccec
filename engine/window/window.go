package window

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
)

// Input is the set of viewer input handlers. Nil handlers are ignored.
type Input struct {
	// KeyDown receives the key code on press and on auto-repeat.
	KeyDown func(key uint32)
	// KeyUp receives the key code on release.
	KeyUp func(key uint32)
	// LookStart and LookEnd bracket a middle mouse drag, with the cursor position.
	LookStart func(x, y int32)
	LookEnd   func(x, y int32)
	// MouseMove receives the cursor position in pixels.
	MouseMove func(x, y int32)
	// Scroll receives the vertical wheel delta, positive away from the user.
	Scroll func(delta float32)
}

// Window is the viewer's desktop window. It is the presentation surface of the WGPU renderer.
//
// Every method except RequestClose must be called on the goroutine that created the window,
// which is locked to its OS thread.
type Window interface {
	renderer.Surface

	// SetInput replaces the input handlers.
	//
	// Parameters:
	//   - in: the handlers
	SetInput(in Input)

	// SetResizeCallback sets the function called with the new framebuffer size in pixels.
	//
	// Parameters:
	//   - callback: function receiving width and height
	SetResizeCallback(callback func(width, height int))

	// SetUpdateCallback sets the function called once per message loop iteration.
	//
	// Parameters:
	//   - callback: function to call, or nil
	SetUpdateCallback(callback func())

	// ProcessMessages polls window events until the window is asked to close.
	ProcessMessages()

	// IsRunning reports whether the window is open and no close was requested.
	//
	// Returns:
	//   - bool: true while the message loop should continue
	IsRunning() bool

	// RequestClose asks the message loop to stop. Safe to call from any goroutine.
	RequestClose()

	// Close destroys the window and terminates GLFW.
	//
	// Returns:
	//   - error: an error if the window was already closed
	Close() error
}

// settings is the construction-time configuration of a window.
type settings struct {
	title               string
	width, height       int
	minWidth, minHeight int
	maxWidth, maxHeight int
	resizable           bool
}

func defaultSettings() settings {
	return settings{
		title:     "oxy-world",
		width:     1280,
		height:    720,
		minWidth:  640,
		minHeight: 360,
		maxWidth:  3840,
		maxHeight: 2160,
		resizable: true,
	}
}

// NewWindow creates and shows a GLFW window. The calling goroutine is locked to its OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	cfg := defaultSettings()
	for _, opt := range options {
		opt(&cfg)
	}
	w, err := newGLFWWindow(cfg)
	if err != nil {
		panic(fmt.Sprintf("window: failed to create platform window: %v", err))
	}
	return w
}

var _ Window = &glfwWindow{}
