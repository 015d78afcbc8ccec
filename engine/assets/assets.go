package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-world/engine/loader"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/rs/zerolog"
)

var (
	// ErrModelNotFound is returned when no model file exists for a requested name.
	ErrModelNotFound = errors.New("model not found")
	// ErrTextureNotFound is returned when no image file exists for a requested name.
	ErrTextureNotFound = errors.New("texture not found")
)

// textureExtensions are tried in order when resolving a texture name to a file.
var textureExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// modelExtensions are tried in order when resolving a model name to a file.
var modelExtensions = []string{".glb", ".gltf"}

// ModelCache resolves models by name. Lookups never block on IO.
type ModelCache interface {
	// Model returns the cached model with the given name.
	//
	// Parameters:
	//   - name: the model name
	//
	// Returns:
	//   - model.Model: the model, or nil when it is not loaded
	//   - bool: whether the model was found
	Model(name string) (model.Model, bool)
}

// TextureCache resolves textures by name. Lookups never block on IO.
type TextureCache interface {
	// Texture returns the cached texture with the given name.
	//
	// Parameters:
	//   - name: the texture name
	//
	// Returns:
	//   - *Texture: the texture, or nil when it is not loaded
	//   - bool: whether the texture was found
	Texture(name string) (*Texture, bool)
}

// store is the implementation of the Store interface.
type store struct {
	mu *sync.RWMutex

	logger     zerolog.Logger
	loader     loader.Loader
	modelDir   string
	textureDir string

	workers  int
	pool     worker.DynamicWorkerPool
	models   map[string]model.Model
	textures map[string]*Texture
}

// Store owns the model and texture caches and fills them from disk.
//
// Loaded assets stay resident. Preload decodes files on a worker pool so the render thread only
// ever performs map lookups.
type Store interface {
	ModelCache
	TextureCache

	// AddModel inserts a model under its own name, replacing any previous entry with that name.
	//
	// Parameters:
	//   - m: the model to cache
	AddModel(m model.Model)

	// AddTexture inserts a texture under its own name, replacing any previous entry with that name.
	//
	// Parameters:
	//   - t: the texture to cache
	AddTexture(t *Texture)

	// LoadModel loads the named model from the model directory if it is not cached yet.
	//
	// Parameters:
	//   - name: the model name, resolved to <modelDir>/<name>.glb or .gltf
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: ErrModelNotFound when no file exists, or the loader error
	LoadModel(name string) (model.Model, error)

	// LoadTexture loads the named texture from the texture directory if it is not cached yet.
	//
	// Parameters:
	//   - name: the texture name, resolved to <textureDir>/<name>.png, .jpg, .jpeg or .bmp
	//
	// Returns:
	//   - *Texture: the loaded texture
	//   - error: ErrTextureNotFound when no file exists, or the decode error
	LoadTexture(name string) (*Texture, error)

	// Preload loads models and textures in parallel and blocks until all tasks finish.
	// Per-item failures are logged and returned joined; successful items stay cached.
	//
	// Parameters:
	//   - ctx: cancels submission of the remaining tasks
	//   - models: model names to load
	//   - textures: texture names to load
	//
	// Returns:
	//   - error: the joined per-item errors, or the context error
	Preload(ctx context.Context, models, textures []string) error

	// Textures returns the names of every cached texture.
	//
	// Returns:
	//   - []string: the cached texture names
	Textures() []string
}

var _ Store = &store{}

// NewStore creates a new asset Store.
//
// Parameters:
//   - options: variadic list of StoreBuilderOption functions to configure the store
//
// Returns:
//   - Store: a new Store with empty caches
func NewStore(options ...StoreBuilderOption) Store {
	s := &store{
		mu:       &sync.RWMutex{},
		logger:   zerolog.Nop(),
		workers:  4,
		models:   make(map[string]model.Model),
		textures: make(map[string]*Texture),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.loader == nil {
		s.loader = loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(s.logger))
	}
	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	return s
}

func (s *store) Model(name string) (model.Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[name]
	return m, ok
}

func (s *store) Texture(name string) (*Texture, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.textures[name]
	return t, ok
}

func (s *store) AddModel(m model.Model) {
	if m == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[m.Name()] = m
}

func (s *store) AddTexture(t *Texture) {
	if t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textures[t.Name] = t
}

func (s *store) LoadModel(name string) (model.Model, error) {
	if m, ok := s.Model(assetName(name)); ok {
		return m, nil
	}
	path, ok := resolve(s.modelDir, name, modelExtensions)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	m, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.models[assetName(name)] = m
	s.mu.Unlock()
	return m, nil
}

func (s *store) LoadTexture(name string) (*Texture, error) {
	if t, ok := s.Texture(assetName(name)); ok {
		return t, nil
	}
	path, ok := resolve(s.textureDir, name, textureExtensions)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTextureNotFound, name)
	}
	t, err := DecodeTextureFile(path)
	if err != nil {
		return nil, err
	}
	t.Name = assetName(name)
	s.AddTexture(t)
	return t, nil
}

func (s *store) Preload(ctx context.Context, models, textures []string) error {
	var (
		wg     sync.WaitGroup
		errMu  sync.Mutex
		errs   []error
		taskID int
	)
	record := func(kind, name string, err error) {
		s.logger.Warn().Err(err).Str("kind", kind).Str("name", name).Msg("asset preload failed")
		errMu.Lock()
		errs = append(errs, err)
		errMu.Unlock()
	}
	submit := func(kind, name string, load func(string) error) bool {
		if ctx.Err() != nil {
			return false
		}
		wg.Add(1)
		s.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				if err := load(name); err != nil {
					record(kind, name, err)
					return nil, err
				}
				return nil, nil
			},
		})
		taskID++
		return true
	}

	start := time.Now()
	for _, name := range models {
		if !submit("model", name, func(n string) error { _, err := s.LoadModel(n); return err }) {
			break
		}
	}
	for _, name := range textures {
		if !submit("texture", name, func(n string) error { _, err := s.LoadTexture(n); return err }) {
			break
		}
	}
	wg.Wait()

	s.logger.Info().
		Int("models", len(models)).
		Int("textures", len(textures)).
		Int("failed", len(errs)).
		Dur("elapsed", time.Since(start)).
		Msg("assets preloaded")

	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (s *store) Textures() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.textures))
	for name := range s.textures {
		names = append(names, name)
	}
	return names
}

// resolve finds the first existing file <dir>/<name><ext>. Names that already carry an extension are tried verbatim.
func resolve(dir, name string, extensions []string) (string, bool) {
	if dir == "" {
		return "", false
	}
	if ext := filepath.Ext(name); ext != "" {
		for _, e := range extensions {
			if strings.EqualFold(ext, e) {
				path := filepath.Join(dir, name)
				if _, err := os.Stat(path); err == nil {
					return path, true
				}
			}
		}
	}
	for _, ext := range extensions {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// assetName strips a known file extension so "body.png" and "body" share a cache key.
func assetName(name string) string {
	ext := filepath.Ext(name)
	for _, known := range append(modelExtensions, textureExtensions...) {
		if strings.EqualFold(ext, known) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
