package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-world/engine/model"
)

// loaderBackend defines the format-specific half of model loading.
// Concrete implementations (e.g., gltfLoaderBackend) turn file bytes into a validated model.Model.
type loaderBackend interface {
	// Load imports a model from the given file path. External buffers resolve relative to the file.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - model.Model: the imported model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream. External buffer URIs cannot be resolved.
	//
	// Parameters:
	//   - name: the model name, or empty to use the document scene name
	//   - r: the reader providing model data
	//
	// Returns:
	//   - model.Model: the imported model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Model, error)
}
