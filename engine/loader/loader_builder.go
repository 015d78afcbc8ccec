package loader

import (
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/rs/zerolog"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the logger that reports each newly cached model at debug level.
func WithLogger(logger zerolog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger.With().Str("component", "loader").Logger()
	}
}

// WithModels seeds the cache, keyed by each model's name. Load and LoadReader return seeded
// models without touching the backend, which lets procedural stand-ins shadow files on disk.
func WithModels(models ...model.Model) LoaderBuilderOption {
	return func(l *loader) {
		for _, m := range models {
			if m != nil {
				l.modelCache[m.Name()] = m
			}
		}
	}
}
