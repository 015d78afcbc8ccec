package scene

import (
	"context"
	"sync"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/assets"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/light"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/Carmen-Shannon/oxy-world/engine/water"
	"github.com/Carmen-Shannon/oxy-world/engine/weather"
	"github.com/Carmen-Shannon/oxy-world/engine/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu     *sync.Mutex
	logger zerolog.Logger

	renderer renderer.Renderer
	camera   camera.Camera
	world    world.World
	models   assets.ModelCache
	textures assets.TextureCache

	weather *weather.Table
	preset  weather.Preset

	waterCfg   water.Config
	waterTable *water.HeightTable

	meter   metric.Meter
	metrics *sceneMetrics

	culler   *Culler
	gpu      *gpuCache
	deferred *DeferralQueue
	fr       *frameRenderer
	lighting light.SceneLighting
	stats    Stats

	skyMesh       renderer.MeshID
	skyIndexCount uint32

	carLines, pedLines []renderer.LineVertex
}

// Scene draws a world snapshot each frame: pedestrians, instances with level of detail, vehicles
// with their wheels, deferred transparent geometry, water and the sky dome, in that order.
//
// RenderWorld opens a frame on the renderer and leaves it open so RenderPaths can add the debug
// overlay. The caller ends and presents the frame.
type Scene interface {
	// RenderWorld renders one frame of the world.
	//
	// Parameters:
	//   - alpha: interpolation fraction in [0, 1] between the previous and current simulation step
	//
	// Returns:
	//   - error: an error if the frame could not be started or a program could not be bound
	RenderWorld(alpha float32) error

	// RenderPaths draws the AI graph overlay into the open frame.
	RenderPaths()

	// Stats returns the counters of the most recent RenderWorld call.
	//
	// Returns:
	//   - Stats: the frame counters
	Stats() Stats

	// Lighting returns the lighting derived for the most recent frame.
	//
	// Returns:
	//   - light.SceneLighting: the frame lighting
	Lighting() light.SceneLighting

	// Camera returns the camera the scene renders from.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// SetWeatherPreset selects the weather preset sampled from the next frame on.
	//
	// Parameters:
	//   - preset: the preset
	SetWeatherPreset(preset weather.Preset)

	// SetWaterTable replaces the water height table. A nil table disables the water pass.
	//
	// Parameters:
	//   - cfg: the water grid configuration
	//   - table: the height table, must validate against cfg
	//
	// Returns:
	//   - error: an error if the table does not match the configuration
	SetWaterTable(cfg water.Config, table *water.HeightTable) error
}

var _ Scene = &scene{}

// NewScene creates a Scene and registers the renderer's programs. A program that fails to build
// terminates the process through the logger.
//
// Parameters:
//   - r: the renderer to submit to
//   - cam: the camera to render from
//   - w: the world providing snapshots
//   - store: the model and texture caches
//   - options: variadic list of SceneBuilderOption functions to configure the scene
//
// Returns:
//   - Scene: the scene
func NewScene(r renderer.Renderer, cam camera.Camera, w world.World, store assets.Store, options ...SceneBuilderOption) Scene {
	switch {
	case r == nil:
		panic("scene: NewScene requires a Renderer")
	case cam == nil:
		panic("scene: NewScene requires a Camera")
	case w == nil:
		panic("scene: NewScene requires a World")
	case store == nil:
		panic("scene: NewScene requires an asset Store")
	}

	s := &scene{
		mu:       &sync.Mutex{},
		logger:   zerolog.Nop(),
		renderer: r,
		camera:   cam,
		world:    w,
		models:   store,
		textures: store,
		weather:  weather.DefaultTable(),
		preset:   weather.PresetSunny,
		waterCfg: water.DefaultConfig(),
		culler:   &Culler{},
		deferred: &DeferralQueue{},
	}
	for _, opt := range options {
		opt(s)
	}

	if s.waterTable != nil {
		if err := s.waterTable.Validate(s.waterCfg); err != nil {
			s.logger.Warn().Err(err).Msg("water table rejected, water disabled")
			s.waterTable = nil
		}
	}

	var err error
	if s.metrics, err = newSceneMetrics(s.meter); err != nil {
		s.logger.Warn().Err(err).Msg("scene metrics unavailable")
	}

	if err := r.RegisterPrograms(); err != nil {
		s.logger.Fatal().Err(err).Msg("program build failed")
	}

	vertices, indices := SkyDome()
	s.skyMesh, err = r.UploadMesh("Sky Dome", vertices, indices)
	if err != nil {
		s.logger.Fatal().Err(err).Msg("sky dome upload failed")
	}
	s.skyIndexCount = uint32(len(indices))

	s.gpu = newGPUCache(r, s.logger)
	s.fr = &frameRenderer{
		culler:   s.culler,
		resolver: &MaterialResolver{textures: s.textures, gpu: s.gpu},
		gpu:      s.gpu,
		deferred: s.deferred,
		counters: newFrameCounters(),
	}
	return s
}

func (s *scene) RenderWorld(alpha float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.world.Snapshot()
	tod := common.WrapFloat(snap.GameTime, world.MinutesPerDay)
	cond := s.weather.Sample(s.preset, tod/60)
	s.lighting = light.NewSceneLighting(cond, tod)

	s.camera.SetFar(cond.FarClip)
	proj, view := s.camera.Projection(), s.camera.View()
	s.culler.Update(proj, view)
	camPos := s.camera.WorldPosition()

	if err := s.renderer.BeginFrame(s.lighting.ClearColor()); err != nil {
		return err
	}
	s.renderer.SetSceneUniforms(camera.NewGPUCameraUniform(s.camera), light.NewGPUSceneUniform(s.lighting))

	s.fr.counters.reset()
	s.fr.alpha = common.Clamp01(alpha)
	s.fr.ctx = NewRenderContext(s.renderer, s.lighting.MaterialDiffuse, s.lighting.MaterialAmbient)
	defer s.finishFrame()

	if err := s.fr.ctx.UseProgram(renderer.ProgramWorld); err != nil {
		return err
	}
	s.renderPedestrians(snap.Pedestrians)
	s.renderInstances(snap.Instances, snap.Hour(), camPos)
	s.renderVehicles(snap.Vehicles, camPos)
	s.deferred.Flush(s.fr.replay)

	if err := s.renderWater(camPos, cond.FarClip); err != nil {
		return err
	}
	return s.renderSky(proj, view)
}

// finishFrame publishes the frame's counters. Must be called with mu held.
func (s *scene) finishFrame() {
	s.stats = s.fr.counters.Stats
	if s.metrics != nil {
		s.metrics.record(context.Background(), s.fr.counters)
	}
	s.logger.Trace().
		Int("rendered", s.stats.Rendered).
		Int("culled", s.stats.Culled).
		Int("deferred", s.stats.Deferred).
		Int("water", s.stats.Water).
		Msg("frame rendered")
}

func (s *scene) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *scene) Lighting() light.SceneLighting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lighting
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) SetWeatherPreset(preset weather.Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preset = preset
}

func (s *scene) SetWaterTable(cfg water.Config, table *water.HeightTable) error {
	if table != nil {
		if err := table.Validate(cfg); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waterCfg = cfg
	s.waterTable = table
	return nil
}

// cameraPlanar is the camera position projected onto the water plane.
func cameraPlanar(p mgl32.Vec3) mgl32.Vec2 {
	return mgl32.Vec2{p[0], p[1]}
}
