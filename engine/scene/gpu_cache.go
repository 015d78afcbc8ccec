package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-world/engine/assets"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/rs/zerolog"
)

type meshKey struct {
	model model.Model
	chunk int
}

// gpuCache uploads geometry chunks and textures on first use and remembers their handles.
// Failed uploads are remembered too, so a broken asset costs one warning instead of one per frame.
type gpuCache struct {
	r      renderer.Renderer
	logger zerolog.Logger

	meshes   map[meshKey]renderer.MeshID
	textures map[string]renderer.TextureID
	failed   map[any]struct{}
}

func newGPUCache(r renderer.Renderer, logger zerolog.Logger) *gpuCache {
	return &gpuCache{
		r:        r,
		logger:   logger,
		meshes:   make(map[meshKey]renderer.MeshID),
		textures: make(map[string]renderer.TextureID),
		failed:   make(map[any]struct{}),
	}
}

// mesh returns the handle of a model's geometry chunk, uploading it if needed.
func (c *gpuCache) mesh(m model.Model, chunk int) (renderer.MeshID, bool) {
	key := meshKey{model: m, chunk: chunk}
	if id, ok := c.meshes[key]; ok {
		return id, true
	}
	if _, failed := c.failed[key]; failed {
		return 0, false
	}
	g := m.Geometry(chunk)
	if g == nil {
		c.failed[key] = struct{}{}
		return 0, false
	}
	id, err := c.r.UploadMesh(fmt.Sprintf("%s#%d", m.Name(), chunk), g.Vertices, g.Indices)
	if err != nil {
		c.logger.Warn().Err(err).Str("model", m.Name()).Int("chunk", chunk).Msg("geometry upload failed")
		c.failed[key] = struct{}{}
		return 0, false
	}
	c.meshes[key] = id
	return id, true
}

// texture returns the handle of a cached texture, uploading it if needed. A failed upload
// resolves to the white texture.
func (c *gpuCache) texture(t *assets.Texture) renderer.TextureID {
	if id, ok := c.textures[t.Name]; ok {
		return id
	}
	if _, failed := c.failed[t.Name]; failed {
		return renderer.NoTexture
	}
	id, err := c.r.UploadTexture(t.Name, t.StagingData())
	if err != nil {
		c.logger.Warn().Err(err).Str("texture", t.Name).Msg("texture upload failed")
		c.failed[t.Name] = struct{}{}
		return renderer.NoTexture
	}
	c.textures[t.Name] = id
	return id
}
