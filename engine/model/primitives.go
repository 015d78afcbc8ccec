package model

import (
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
)

// NewBoxChunk builds a cube geometry chunk of the given half extent centered on the origin.
// The 36 indices are split evenly over the materials, one subgeometry per material, so a
// single material yields one subgeometry covering the whole cube.
//
// Parameters:
//   - halfExtent: half the edge length of the cube
//   - flags: the module flags for the chunk
//   - materials: the chunk materials, at least one is required
//
// Returns:
//   - GeometryChunk: the cube chunk with bounds already computed
func NewBoxChunk(halfExtent float32, flags ModuleFlags, materials ...material.Material) GeometryChunk {
	if len(materials) == 0 {
		materials = []material.Material{material.NewMaterial()}
	}

	h := halfExtent
	faces := []struct {
		normal [3]float32
		corner [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{-h, h, -h}, {h, h, -h}, {h, -h, -h}, {-h, -h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, -h}, {h, h, -h}, {h, h, h}, {h, -h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, h}, {-h, h, h}, {-h, h, -h}, {-h, -h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for i := 0; i < 4; i++ {
			vertices = append(vertices, Vertex{
				Position: f.corner[i],
				Normal:   f.normal,
				Color:    [4]float32{1, 1, 1, 1},
				TexCoord: uvs[i],
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	subgeometries := make([]Subgeometry, 0, len(materials))
	per := uint32(len(indices) / len(materials))
	for i := range materials {
		start := uint32(i) * per
		count := per
		if i == len(materials)-1 {
			count = uint32(len(indices)) - start
		}
		subgeometries = append(subgeometries, Subgeometry{Start: start, Count: count, Material: i})
	}

	return GeometryChunk{
		Bounds:        ComputeBounds(vertices),
		Subgeometries: subgeometries,
		Materials:     materials,
		Flags:         flags,
		Vertices:      vertices,
		Indices:       indices,
	}
}

// NewQuadChunk builds a unit quad spanning [0,1] on X and Y at z=0, facing +Z. Scaling and
// translating it through a world matrix places one water block.
//
// Returns:
//   - GeometryChunk: the quad chunk with a single subgeometry
func NewQuadChunk() GeometryChunk {
	vertices := []Vertex{
		{Position: [3]float32{0, 0, 0}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{1, 0, 0}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{1, 1, 0}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}, Color: [4]float32{1, 1, 1, 1}, TexCoord: [2]float32{0, 1}},
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return GeometryChunk{
		Bounds:        ComputeBounds(vertices),
		Subgeometries: []Subgeometry{{Start: 0, Count: 6, Material: 0}},
		Materials:     []material.Material{material.NewMaterial()},
		Vertices:      vertices,
		Indices:       indices,
	}
}
