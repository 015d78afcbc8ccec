package engine

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/window"
)

const (
	// timeSkipMinutes is how far the T key moves the game clock.
	timeSkipMinutes = 60
	// fastMoveFactor multiplies movement while shift is held.
	fastMoveFactor = 4
)

// viewerControls maps window input onto the fly camera and the engine toggles.
//
// WASD moves in the view plane and QE moves down and up, applied once per simulation step for as
// long as the keys are held. Holding the middle mouse button looks around. P toggles the path
// overlay, T skips the clock forward an hour and space pauses the simulation.
type viewerControls struct {
	mu *sync.Mutex

	e    *engine
	ctrl camera.CameraController

	held       map[uint32]bool
	looking    bool
	lastX      int32
	lastY      int32
	lookDX     float32
	lookDY     float32
	paused     bool
	togglePath bool
}

func newViewerControls(e *engine, ctrl camera.CameraController) *viewerControls {
	return &viewerControls{
		mu:   &sync.Mutex{},
		e:    e,
		ctrl: ctrl,
		held: make(map[uint32]bool),
	}
}

func (c *viewerControls) bind(w window.Window) {
	w.SetInput(window.Input{
		KeyDown:   c.keyDown,
		KeyUp:     c.keyUp,
		LookStart: c.lookStart,
		LookEnd:   func(_, _ int32) { c.lookEnd() },
		MouseMove: c.mouseMove,
	})
}

func (c *viewerControls) keyDown(key uint32) {
	c.mu.Lock()
	repeat := c.held[key]
	c.held[key] = true
	c.mu.Unlock()
	if repeat {
		return
	}

	switch key {
	case common.KeyP:
		c.e.SetDebugPaths(!c.e.DebugPaths())
	case common.KeyT:
		w := c.e.world
		w.SetGameTime(w.GameTime() + timeSkipMinutes)
	case common.KeySpace:
		c.mu.Lock()
		c.paused = !c.paused
		paused := c.paused
		c.mu.Unlock()
		c.e.SetPaused(paused)
	}
}

func (c *viewerControls) keyUp(key uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.held, key)
}

func (c *viewerControls) lookStart(x, y int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.looking = true
	c.lastX, c.lastY = x, y
}

func (c *viewerControls) lookEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.looking = false
}

func (c *viewerControls) mouseMove(x, y int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.looking {
		c.lookDX += float32(x - c.lastX)
		c.lookDY += float32(y - c.lastY)
	}
	c.lastX, c.lastY = x, y
}

// apply moves the camera by the held keys and the accumulated mouse motion.
func (c *viewerControls) apply(dt float32) {
	if c.ctrl == nil {
		return
	}
	c.mu.Lock()
	axis := func(pos, neg uint32) float32 {
		var v float32
		if c.held[pos] {
			v++
		}
		if c.held[neg] {
			v--
		}
		return v
	}
	forward := axis(common.KeyW, common.KeyS)
	right := axis(common.KeyD, common.KeyA)
	up := axis(common.KeyE, common.KeyQ)
	step := dt
	if c.held[common.KeyLeftShift] {
		step *= fastMoveFactor
	}
	dx, dy := c.lookDX, c.lookDY
	c.lookDX, c.lookDY = 0, 0
	c.mu.Unlock()

	if forward != 0 {
		c.ctrl.PanForward(forward * step)
	}
	if right != 0 {
		c.ctrl.PanRight(right * step)
	}
	if up != 0 {
		c.ctrl.PanUp(up * step)
	}
	if dx != 0 || dy != 0 {
		c.ctrl.Look(dx, dy)
	}
}
