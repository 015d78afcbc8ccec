package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/profiler"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/Carmen-Shannon/oxy-world/engine/scene"
	"github.com/Carmen-Shannon/oxy-world/engine/window"
	"github.com/Carmen-Shannon/oxy-world/engine/world"
	"github.com/rs/zerolog"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine: Run requires a window, use RunFrames for headless rendering")

// engine implements the Engine interface.
// Coordinates the simulation, render, and window threads.
type engine struct {
	logger zerolog.Logger

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	world    world.World
	camera   camera.Camera
	controls *viewerControls

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickMu         sync.Mutex
	engineTickRate time.Duration
	lastTick       atomic.Int64 // unix nanoseconds of the last simulation step
	tickCallback   func(deltaTime float32)

	debugPaths atomic.Bool
	paused     atomic.Bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the viewer.
// It runs the fixed-rate simulation loop, the render loop, and window management.
type Engine interface {
	// Window returns the underlying window, nil in headless mode.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the rendered scene.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// World returns the simulated world.
	//
	// Returns:
	//   - world.World: the world
	World() world.World

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the simulation tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 30 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called after each simulation step.
	//
	// Parameters:
	//   - callback: function receiving the step length in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetDebugPaths toggles drawing of the AI path overlay after the world.
	//
	// Parameters:
	//   - enabled: whether paths are drawn
	SetDebugPaths(enabled bool)

	// DebugPaths reports whether the path overlay is drawn.
	//
	// Returns:
	//   - bool: true if paths are drawn
	DebugPaths() bool

	// SetPaused stops or resumes the simulation. Rendering continues while paused.
	//
	// Parameters:
	//   - paused: whether the simulation is halted
	SetPaused(paused bool)

	// Run starts the simulation and render loops and blocks until the window closes.
	//
	// Returns:
	//   - error: ErrNoWindow in headless mode
	Run() error

	// RunFrames renders a fixed number of frames on the calling goroutine, advancing the world
	// by one tick before each frame. Used for headless rendering.
	//
	// Parameters:
	//   - frames: the number of frames to render
	//
	// Returns:
	//   - error: the first frame error
	RunFrames(frames int) error

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine for a scene and the world it draws.
//
// Parameters:
//   - r: the renderer the scene draws with, must not be nil
//   - s: the scene, must not be nil
//   - w: the world, must not be nil
//   - options: functional options for engine configuration (window, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(r renderer.Renderer, s scene.Scene, w world.World, options ...EngineBuilderOption) Engine {
	if r == nil || s == nil || w == nil {
		panic("engine: NewEngine requires a renderer, a scene and a world")
	}
	e := &engine{
		logger:          zerolog.Nop(),
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		renderer:        r,
		scene:           s,
		world:           w,
		camera:          s.Camera(),
		engineTickRate:  time.Second / 30,
	}
	e.lastTick.Store(time.Now().UnixNano())

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		p, err := profiler.NewProfiler(nil, profiler.WithLogger(e.logger))
		if err != nil {
			e.logger.Warn().Err(err).Msg("profiler disabled")
		}
		e.profiler = p
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.renderer.Resize(width, height)
			if height > 0 {
				e.camera.SetAspect(float32(width) / float32(height))
			}
		})
		if e.camera != nil {
			e.controls = newViewerControls(e, e.camera.Controller())
			e.controls.bind(e.window)
		}
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) World() world.World {
	return e.world
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	e.running.Store(true)
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
	return e.window.Close()
}

func (e *engine) RunFrames(frames int) error {
	for i := 0; i < frames; i++ {
		e.tick(float32(e.tickPeriod().Seconds()))
		if err := e.renderFrame(1); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handle launches the simulation and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

func (e *engine) tickPeriod() time.Duration {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	return e.engineTickRate
}

// tick runs one simulation step unless paused.
func (e *engine) tick(dt float32) {
	if e.controls != nil {
		e.controls.apply(dt)
	}
	if !e.paused.Load() {
		e.world.Advance(dt)
	}
	e.lastTick.Store(time.Now().UnixNano())
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

// handleEngine runs the fixed-rate simulation loop in its own goroutine.
// Each step advances the world by exactly one tick period, and dynamic rate changes arrive
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	period := e.tickPeriod()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			e.tick(float32(period.Seconds()))
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			period = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("render goroutine recovered from panic")
			e.signalQuit()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			start := time.Now()
			alpha := interpolation(start.Sub(time.Unix(0, e.lastTick.Load())), e.tickPeriod())
			if err := e.renderFrame(alpha); err != nil {
				e.logger.Error().Err(err).Msg("frame skipped")
			}

			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame draws the world, the optional path overlay, and presents.
func (e *engine) renderFrame(alpha float32) error {
	start := time.Now()
	if e.camera != nil {
		e.camera.Update()
	}
	if err := e.scene.RenderWorld(alpha); err != nil {
		return err
	}
	if e.debugPaths.Load() {
		e.scene.RenderPaths()
	}
	e.renderer.EndFrame()
	e.renderer.Present()

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(time.Since(start), e.scene.Stats())
	}
	return nil
}

// interpolation is the fraction of a tick period elapsed since the last step, clamped to [0, 1].
func interpolation(sinceTick, period time.Duration) float32 {
	if period <= 0 {
		return 1
	}
	return common.Clamp01(float32(sinceTick) / float32(period))
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the simulation tick rate.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickDuration(fps)
	e.tickMu.Lock()
	e.engineTickRate = newRate
	e.tickMu.Unlock()

	if !e.running.Load() {
		return
	}
	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func tickDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = 30
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetDebugPaths(enabled bool) {
	e.debugPaths.Store(enabled)
}

func (e *engine) DebugPaths() bool {
	return e.debugPaths.Load()
}

func (e *engine) SetPaused(paused bool) {
	e.paused.Store(paused)
}
