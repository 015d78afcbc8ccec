package scene

import (
	"github.com/Carmen-Shannon/oxy-world/engine/water"
	"github.com/Carmen-Shannon/oxy-world/engine/weather"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLogger sets the logger for missing asset warnings and frame traces.
//
// Parameters:
//   - logger: the parent logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) SceneBuilderOption {
	return func(s *scene) {
		s.logger = logger.With().Str("component", "scene").Logger()
	}
}

// WithWeather sets the weather table and the preset sampled each frame.
// Defaults to the embedded table and PresetSunny.
//
// Parameters:
//   - table: the weather table
//   - preset: the active preset
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWeather(table *weather.Table, preset weather.Preset) SceneBuilderOption {
	return func(s *scene) {
		if table != nil {
			s.weather = table
		}
		s.preset = preset
	}
}

// WithWater sets the water grid and height table. Without it the water pass draws nothing.
//
// Parameters:
//   - cfg: the water grid configuration
//   - table: the height table
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWater(cfg water.Config, table *water.HeightTable) SceneBuilderOption {
	return func(s *scene) {
		s.waterCfg = cfg
		s.waterTable = table
	}
}

// WithMeter sets the meter the scene counters are exported through.
// Defaults to the global OpenTelemetry meter provider.
//
// Parameters:
//   - m: the meter
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMeter(m metric.Meter) SceneBuilderOption {
	return func(s *scene) {
		s.meter = m
	}
}
