package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
)

// extractChunks converts every glTF mesh into one GeometryChunk. Primitives become subgeometries over a
// shared index buffer. Chunks with a COLOR_0 attribute are prelit; the rest take their color from materials.
//
// Parameters:
//   - parser: the parser holding the document
//   - materials: the converted document materials, shared by every chunk
//
// Returns:
//   - []model.GeometryChunk: one chunk per mesh, in mesh order
//   - error: error if any primitive cannot be read
func extractChunks(parser gltfParser, materials []material.Material) ([]model.GeometryChunk, error) {
	doc := parser.Document()
	chunks := make([]model.GeometryChunk, len(doc.Meshes))
	for mi := range doc.Meshes {
		chunk := model.GeometryChunk{Materials: materials, Flags: model.ModuleMaterialColor}
		for pi := range doc.Meshes[mi].Primitives {
			if err := appendPrimitive(parser, &doc.Meshes[mi].Primitives[pi], &chunk); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
		chunk.Bounds = model.ComputeBounds(chunk.Vertices)
		chunks[mi] = chunk
	}
	return chunks, nil
}

func appendPrimitive(parser gltfParser, prim *gltfPrimitive, chunk *model.GeometryChunk) error {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return fmt.Errorf("unsupported primitive mode: %d (only triangles supported)", *prim.Mode)
	}
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := parser.ReadFloats(posAccessor, gltfAccessorTypeVec3)
	if err != nil {
		return fmt.Errorf("failed to read positions: %w", err)
	}

	count := len(positions) / 3
	base := uint32(len(chunk.Vertices))
	vertices := make([]model.Vertex, count)
	for i := range vertices {
		vertices[i].Position = [3]float32{positions[i*3], positions[i*3+1], positions[i*3+2]}
		vertices[i].Normal = [3]float32{0, 0, 1}
		vertices[i].Color = [4]float32{1, 1, 1, 1}
	}

	if acc, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := parser.ReadFloats(acc, gltfAccessorTypeVec3)
		if err != nil {
			return fmt.Errorf("failed to read normals: %w", err)
		}
		for i := 0; i < count && i*3+2 < len(normals); i++ {
			vertices[i].Normal = [3]float32{normals[i*3], normals[i*3+1], normals[i*3+2]}
		}
	}

	if acc, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := parser.ReadFloats(acc, gltfAccessorTypeVec2)
		if err != nil {
			return fmt.Errorf("failed to read texcoords: %w", err)
		}
		for i := 0; i < count && i*2+1 < len(uvs); i++ {
			vertices[i].TexCoord = [2]float32{uvs[i*2], uvs[i*2+1]}
		}
	}

	if acc, ok := prim.Attributes["COLOR_0"]; ok {
		if err := readColors(parser, acc, vertices); err != nil {
			return err
		}
		chunk.Flags = model.ModulePrelit
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = parser.ReadIndices(*prim.Indices); err != nil {
			return fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	start := uint32(len(chunk.Indices))
	for _, idx := range indices {
		if int(idx) >= count {
			return fmt.Errorf("index %d exceeds vertex count %d", idx, count)
		}
		chunk.Indices = append(chunk.Indices, idx+base)
	}
	chunk.Vertices = append(chunk.Vertices, vertices...)

	materialIndex := -1
	if prim.Material != nil {
		materialIndex = *prim.Material
	}
	chunk.Subgeometries = append(chunk.Subgeometries, model.Subgeometry{
		Start:    start,
		Count:    uint32(len(indices)),
		Material: materialIndex,
	})
	return nil
}

// readColors reads COLOR_0 as VEC4, or VEC3 with opaque alpha.
func readColors(parser gltfParser, accessor int, vertices []model.Vertex) error {
	doc := parser.Document()
	if accessor < 0 || accessor >= len(doc.Accessors) {
		return fmt.Errorf("color accessor %d out of range", accessor)
	}
	n := componentCount(doc.Accessors[accessor].Type)
	if n != 3 && n != 4 {
		return fmt.Errorf("unsupported color accessor type %s", doc.Accessors[accessor].Type)
	}
	colors, err := parser.ReadFloats(accessor, doc.Accessors[accessor].Type)
	if err != nil {
		return fmt.Errorf("failed to read colors: %w", err)
	}
	for i := 0; i < len(vertices) && (i+1)*n <= len(colors); i++ {
		c := colors[i*n : (i+1)*n]
		vertices[i].Color = [4]float32{c[0], c[1], c[2], 1}
		if n == 4 {
			vertices[i].Color[3] = c[3]
		}
	}
	return nil
}
