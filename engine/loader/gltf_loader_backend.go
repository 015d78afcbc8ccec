package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-world/engine/model"
)

// gltfLoaderBackend implements loaderBackend for glTF 2.0 JSON and GLB files.
type gltfLoaderBackend struct{}

var _ loaderBackend = &gltfLoaderBackend{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackend{}
}

func (b *gltfLoaderBackend) Load(path string) (model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return b.build(name, data, filepath.Dir(path))
}

func (b *gltfLoaderBackend) LoadReader(name string, r io.Reader) (model.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return b.build(name, data, "")
}

// build runs the extractors over a parsed document and assembles the model.
// An empty name falls back to the document's scene name.
func (b *gltfLoaderBackend) build(name string, data []byte, baseDir string) (model.Model, error) {
	parser := newGLTFParser()
	if err := parser.Parse(data, baseDir); err != nil {
		return nil, err
	}
	doc := parser.Document()

	frames, nodeToFrame, err := extractFrames(doc)
	if err != nil {
		return nil, fmt.Errorf("frames: %w", err)
	}
	materials, err := extractMaterials(doc)
	if err != nil {
		return nil, fmt.Errorf("materials: %w", err)
	}
	chunks, err := extractChunks(parser, materials)
	if err != nil {
		return nil, fmt.Errorf("meshes: %w", err)
	}
	for i := range frames {
		for _, g := range frames[i].Geometries {
			if g < 0 || g >= len(chunks) {
				return nil, fmt.Errorf("frame %q references missing mesh %d", frames[i].Name, g)
			}
		}
	}
	clips, err := extractAnimations(parser, frames, nodeToFrame)
	if err != nil {
		return nil, fmt.Errorf("animations: %w", err)
	}

	if name == "" {
		name = sceneName(doc)
	}
	m := model.NewModel(
		model.WithName(name),
		model.WithFrames(frames),
		model.WithGeometries(chunks),
		model.WithAnimations(clips),
	)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func sceneName(doc *gltfDocument) string {
	if len(doc.Scenes) == 0 {
		return ""
	}
	scene := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		scene = *doc.Scene
	}
	return doc.Scenes[scene].Name
}
