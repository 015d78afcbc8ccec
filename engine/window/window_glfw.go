package window

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW implementation of Window.
type glfwWindow struct {
	win *glfw.Window

	width, height int
	closeWanted   atomic.Bool

	input    Input
	onResize func(width, height int)
	onUpdate func()
}

// newGLFWWindow creates the window without a client API, since WebGPU brings its own.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newGLFWWindow(cfg settings) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if cfg.resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(cfg.width, cfg.height, cfg.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(cfg.minWidth, cfg.minHeight, cfg.maxWidth, cfg.maxHeight)

	w := &glfwWindow{win: win}
	// framebuffer pixels differ from screen coordinates on high-DPI displays
	w.width, w.height = win.GetFramebufferSize()
	w.installCallbacks()
	return w, nil
}

func (w *glfwWindow) installCallbacks() {
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.RequestClose()
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.input.KeyDown != nil {
				w.input.KeyDown(uint32(key))
			}
		case glfw.Release:
			if w.input.KeyUp != nil {
				w.input.KeyUp(uint32(key))
			}
		}
	})

	w.win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.input.Scroll != nil {
			w.input.Scroll(float32(yoff))
		}
	})

	w.win.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonMiddle {
			return
		}
		x, y := win.GetCursorPos()
		switch {
		case action == glfw.Press && w.input.LookStart != nil:
			w.input.LookStart(int32(x), int32(y))
		case action == glfw.Release && w.input.LookEnd != nil:
			w.input.LookEnd(int32(x), int32(y))
		}
	})

	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.input.MouseMove != nil {
			w.input.MouseMove(int32(x), int32(y))
		}
	})

	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = width, height
		if w.onResize != nil && width > 0 && height > 0 {
			w.onResize(width, height)
		}
	})
}

// SurfaceDescriptor builds the platform surface descriptor through the wgpuglfw bridge.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.win == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

func (w *glfwWindow) Width() int {
	return w.width
}

func (w *glfwWindow) Height() int {
	return w.height
}

func (w *glfwWindow) SetInput(in Input) {
	w.input = in
}

func (w *glfwWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *glfwWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *glfwWindow) IsRunning() bool {
	return w.win != nil && !w.closeWanted.Load() && !w.win.ShouldClose()
}

func (w *glfwWindow) ProcessMessages() {
	for w.IsRunning() {
		glfw.PollEvents()
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

// RequestClose only sets a flag and the GLFW close flag, glfwSetWindowShouldClose being one of
// the calls GLFW allows from any thread.
func (w *glfwWindow) RequestClose() {
	w.closeWanted.Store(true)
	if w.win != nil {
		w.win.SetShouldClose(true)
	}
}

func (w *glfwWindow) Close() error {
	if w.win == nil {
		return errors.New("window: already closed")
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
	return nil
}
