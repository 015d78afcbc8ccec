package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/ai"
	"github.com/Carmen-Shannon/oxy-world/engine/assets"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/Carmen-Shannon/oxy-world/engine/scene"
	"github.com/Carmen-Shannon/oxy-world/engine/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headless(t *testing.T, options ...EngineBuilderOption) (*engine, renderer.Renderer) {
	t.Helper()
	r := renderer.NewRenderer(renderer.BackendTypeRecording, nil)
	t.Cleanup(r.Release)

	g := &ai.Graph{}
	g.AddNode(ai.NodeTypeVehicle, mgl32.Vec3{0, 20, 0}, 4, false)
	w := world.NewWorld(world.WithStartTime(600), world.WithTimeScale(60), world.WithGraph(g))

	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
	s := scene.NewScene(r, cam, w, assets.NewStore())
	e := NewEngine(r, s, w, options...).(*engine)
	return e, r
}

func TestNewEngine_NilDependenciesPanic(t *testing.T) {
	r := renderer.NewRenderer(renderer.BackendTypeRecording, nil)
	w := world.NewWorld()
	s := scene.NewScene(r, camera.NewCamera(), w, assets.NewStore())
	assert.Panics(t, func() { NewEngine(nil, s, w) })
	assert.Panics(t, func() { NewEngine(r, nil, w) })
	assert.Panics(t, func() { NewEngine(r, s, nil) })
}

func TestRunFrames(t *testing.T) {
	e, r := headless(t, WithTickRate(10))

	ticks := 0
	e.SetTickCallback(func(dt float32) {
		assert.InDelta(t, 0.1, dt, 1e-6)
		ticks++
	})
	require.NoError(t, e.RunFrames(3))

	assert.Equal(t, 3, ticks)
	assert.Equal(t, uint64(3), r.Frames())
	// three tenths of a second at 60 game minutes per second
	assert.InDelta(t, 618, e.World().GameTime(), 1e-3)

	last := r.Commands()
	assert.Equal(t, renderer.CommandPresent, last[len(last)-1].Kind)
	assert.Empty(t, filter(last, renderer.CommandDrawLines))
}

func TestRunFrames_DebugPaths(t *testing.T) {
	e, r := headless(t, WithDebugPaths(true))
	assert.True(t, e.DebugPaths())
	require.NoError(t, e.RunFrames(1))
	assert.Len(t, filter(r.Commands(), renderer.CommandDrawLines), 1)

	e.SetDebugPaths(false)
	require.NoError(t, e.RunFrames(1))
	assert.Empty(t, filter(r.Commands(), renderer.CommandDrawLines))
}

func TestRunFrames_Paused(t *testing.T) {
	e, _ := headless(t)
	e.SetPaused(true)
	require.NoError(t, e.RunFrames(2))
	assert.Equal(t, float32(600), e.World().GameTime())
}

func TestRunFrames_FrameError(t *testing.T) {
	e, r := headless(t)
	require.NoError(t, r.BeginFrame(common.White))
	assert.Error(t, e.RunFrames(1))
}

func TestRun_Headless(t *testing.T) {
	e, _ := headless(t)
	assert.ErrorIs(t, e.Run(), ErrNoWindow)
}

func TestQuit_Idempotent(t *testing.T) {
	e, _ := headless(t)
	assert.NotPanics(t, func() {
		e.Quit()
		e.Quit()
	})
	select {
	case <-e.quitChannel:
	default:
		t.Fatal("quit channel still open")
	}
}

func TestSetTickRate(t *testing.T) {
	e, _ := headless(t)
	e.SetTickRate(0)
	assert.Equal(t, time.Second/30, e.tickPeriod())

	e.running.Store(true)
	e.SetTickRate(20)
	e.SetTickRate(50)
	assert.Equal(t, time.Second/50, <-e.tickRateChannel)
	assert.Equal(t, time.Second/50, e.tickPeriod())
}

func TestInterpolation(t *testing.T) {
	period := 100 * time.Millisecond
	assert.Equal(t, float32(0), interpolation(0, period))
	assert.InDelta(t, 0.25, interpolation(25*time.Millisecond, period), 1e-6)
	assert.Equal(t, float32(1), interpolation(time.Second, period))
	assert.Equal(t, float32(0), interpolation(-time.Millisecond, period))
	assert.Equal(t, float32(1), interpolation(time.Millisecond, 0))
}

func TestViewerControls(t *testing.T) {
	e, _ := headless(t)
	ctrl := e.camera.Controller()
	c := newViewerControls(e, ctrl)
	e.controls = c

	start := ctrl.Position()
	c.keyDown(common.KeyW)
	e.tick(1)
	moved := ctrl.Position().Sub(start)
	assert.Greater(t, moved.Dot(ctrl.Forward()), float32(0))

	c.keyUp(common.KeyW)
	before := ctrl.Position()
	e.tick(1)
	assert.Equal(t, before, ctrl.Position())

	c.keyDown(common.KeyP)
	assert.True(t, e.DebugPaths())
	c.keyDown(common.KeyP) // held, not a new press
	assert.True(t, e.DebugPaths())
	c.keyUp(common.KeyP)

	gt := e.World().GameTime()
	c.keyDown(common.KeyT)
	assert.InDelta(t, gt+timeSkipMinutes, e.World().GameTime(), 1e-3)

	c.keyDown(common.KeySpace)
	assert.True(t, e.paused.Load())

	yaw := ctrl.Yaw()
	c.mouseMove(10, 10)
	c.lookStart(10, 10)
	c.mouseMove(30, 10)
	c.lookEnd()
	c.mouseMove(90, 10)
	e.tick(0)
	assert.NotEqual(t, yaw, ctrl.Yaw())
}

func filter(cmds []renderer.Command, kind renderer.CommandKind) []renderer.Command {
	var out []renderer.Command
	for _, c := range cmds {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
