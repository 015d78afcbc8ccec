package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-world/engine"
	"github.com/Carmen-Shannon/oxy-world/engine/assets"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/config"
	"github.com/Carmen-Shannon/oxy-world/engine/loader"
	"github.com/Carmen-Shannon/oxy-world/engine/logging"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/Carmen-Shannon/oxy-world/engine/scene"
	"github.com/Carmen-Shannon/oxy-world/engine/water"
	"github.com/Carmen-Shannon/oxy-world/engine/weather"
	"github.com/Carmen-Shannon/oxy-world/engine/window"
	"github.com/Carmen-Shannon/oxy-world/engine/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

func main() {
	configDir := flag.String("config", ".", "directory containing "+config.ConfigFileName)
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		boot := logging.Setup("info", os.Stdout, false)
		boot.Fatal().Err(err).Msg("Failed to load config")
	}
	settings, err := config.Current()
	if err != nil {
		logging.Setup("info", os.Stdout, false).Fatal().Err(err).Msg("Failed to decode config")
	}
	logger := logging.Setup(settings.LogLevel, os.Stdout, false)

	if err := run(settings, logger); err != nil {
		logger.Fatal().Err(err).Msg("oxy-world stopped")
	}
}

func run(settings config.Settings, logger zerolog.Logger) error {
	cat, err := catalog.Open(settings.Catalog.Path, logger)
	if err != nil {
		return err
	}
	defer cat.Close()
	if err := seedCatalog(cat); err != nil {
		return err
	}

	w, err := buildWorld(cat,
		world.WithStartTime(settings.World.StartTime),
		world.WithTimeScale(settings.World.TimeScale),
	)
	if err != nil {
		return err
	}

	store := assets.NewStore(
		assets.WithLogger(logger),
		assets.WithLoader(loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(logger))),
		assets.WithDirectories(filepath.Join(settings.Assets.Dir, "models"), filepath.Join(settings.Assets.Dir, "textures")),
		assets.WithWorkers(settings.Assets.Workers),
	)
	models, textures, err := assetNames(cat)
	if err != nil {
		return err
	}
	if err := store.Preload(context.Background(), models, textures); err != nil {
		logger.Warn().Err(err).Msg("some assets failed to load")
	}
	fillMissing(store, logger)

	preset, err := weather.ParsePreset(settings.World.WeatherPreset)
	if err != nil {
		logger.Warn().Err(err).Str("preset", settings.World.WeatherPreset).Msg("unknown weather preset, using sunny")
	}
	waterCfg, waterTable := loadWater(settings.Water, logger)

	backend := renderer.ParseBackendType(settings.Render.Backend)
	headless := backend == renderer.BackendTypeRecording

	var win window.Window
	var surface renderer.Surface
	if !headless {
		win = window.NewWindow(
			window.WithTitle(settings.Window.Title),
			window.WithSize(settings.Window.Width, settings.Window.Height),
		)
		surface = win
	}

	presentMode := renderer.PresentModeUncapped
	if settings.Render.VSync {
		presentMode = renderer.PresentModeVSync
	}
	r := renderer.NewRenderer(backend, surface,
		renderer.WithLogger(logger),
		renderer.WithMSAA(renderer.ParseMSAA(settings.Render.MSAA)),
		renderer.WithPresentMode(presentMode),
		renderer.WithDrawCapacity(settings.Render.DrawCapacity),
	)
	defer r.Release()

	aspect := float32(16) / 9
	if win != nil && win.Height() > 0 {
		aspect = float32(win.Width()) / float32(win.Height())
	}
	cam := camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(settings.Camera.Fov)),
		camera.WithAspect(aspect),
		camera.WithClip(settings.Camera.Near, 1000),
		camera.WithController(camera.NewCameraController(
			camera.WithPosition(mgl32.Vec3{-6, -25, 6}),
			camera.WithAngles(mgl32.DegToRad(-10), mgl32.DegToRad(-8)),
			camera.WithPanSpeed(12),
		)),
	)

	s := scene.NewScene(r, cam, w, store,
		scene.WithLogger(logger),
		scene.WithWeather(nil, preset),
		scene.WithWater(waterCfg, waterTable),
	)

	options := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithTickRate(settings.World.TickRate),
		engine.WithDebugPaths(settings.Render.DebugPaths),
		engine.WithProfiling(zerolog.GlobalLevel() <= zerolog.DebugLevel),
	}
	if win != nil {
		options = append(options, engine.WithWindow(win))
	}
	e := engine.NewEngine(r, s, w, options...)

	if headless {
		if err := e.RunFrames(settings.Render.Frames); err != nil {
			return err
		}
		logger.Info().Int("frames", settings.Render.Frames).Interface("stats", s.Stats()).Msg("headless run finished")
		return nil
	}
	return e.Run()
}

// loadWater reads the configured height table, falling back to a flat table.
func loadWater(cfg config.WaterConfig, logger zerolog.Logger) (water.Config, *water.HeightTable) {
	wc := water.Config{
		WorldSize:    cfg.WorldSize,
		HQDataSize:   cfg.HQDataSize,
		LQDataSize:   cfg.LQDataSize,
		HQDistance:   cfg.HQDistance,
		NoWaterIndex: cfg.NoWaterIndex,
	}
	if cfg.Table == "" {
		return wc, water.FlatTable(wc, cfg.Height)
	}
	f, err := os.Open(cfg.Table)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Table).Msg("water table not found, using a flat table")
		return wc, water.FlatTable(wc, cfg.Height)
	}
	defer f.Close()
	table, err := water.LoadHeightTable(f)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Table).Msg("water table unreadable, using a flat table")
		return wc, water.FlatTable(wc, cfg.Height)
	}
	return wc, table
}
