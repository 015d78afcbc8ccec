package assets

import (
	"github.com/Carmen-Shannon/oxy-world/engine/loader"
	"github.com/rs/zerolog"
)

// StoreBuilderOption is a functional option for configuring a Store via NewStore.
type StoreBuilderOption func(*store)

// WithLogger is an option builder that sets the logger used for preload reports.
//
// Parameters:
//   - logger: the logger instance
//
// Returns:
//   - StoreBuilderOption: a function that applies the logger option to a store
func WithLogger(logger zerolog.Logger) StoreBuilderOption {
	return func(s *store) {
		s.logger = logger.With().Str("component", "assets").Logger()
	}
}

// WithLoader is an option builder that sets the model loader. Defaults to a glTF loader.
//
// Parameters:
//   - l: the loader instance
//
// Returns:
//   - StoreBuilderOption: a function that applies the loader option to a store
func WithLoader(l loader.Loader) StoreBuilderOption {
	return func(s *store) {
		s.loader = l
	}
}

// WithDirectories is an option builder that sets where model and texture files are looked up.
//
// Parameters:
//   - modelDir: the directory holding .glb and .gltf files
//   - textureDir: the directory holding image files
//
// Returns:
//   - StoreBuilderOption: a function that applies the directories option to a store
func WithDirectories(modelDir, textureDir string) StoreBuilderOption {
	return func(s *store) {
		s.modelDir = modelDir
		s.textureDir = textureDir
	}
}

// WithWorkers is an option builder that sets the preload worker count. Values below 1 are ignored.
//
// Parameters:
//   - n: the maximum number of concurrent preload workers
//
// Returns:
//   - StoreBuilderOption: a function that applies the workers option to a store
func WithWorkers(n int) StoreBuilderOption {
	return func(s *store) {
		if n > 0 {
			s.workers = n
		}
	}
}
