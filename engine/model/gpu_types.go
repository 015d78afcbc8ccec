package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for world geometry.
// Matches Vertex layout exactly (48 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// VertexStride is the size in bytes of one marshaled Vertex.
const VertexStride = 48

// Vertex is the GPU-aligned representation of a single world geometry vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
type Vertex struct {
	Position [3]float32 // offset  0: model-space position (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal (12 bytes)
	Color    [4]float32 // offset 24: per-vertex RGBA, white when the geometry is not prelit (16 bytes)
	TexCoord [2]float32 // offset 40: UV texture coordinate (8 bytes)
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the Vertex into dst, which must hold at least VertexStride bytes.
func (v *Vertex) Marshal(dst []byte) {
	put := func(off int, f float32) {
		binary.LittleEndian.PutUint32(dst[off:off+4], math.Float32bits(f))
	}
	put(0, v.Position[0])
	put(4, v.Position[1])
	put(8, v.Position[2])
	put(12, v.Normal[0])
	put(16, v.Normal[1])
	put(20, v.Normal[2])
	put(24, v.Color[0])
	put(28, v.Color[1])
	put(32, v.Color[2])
	put(36, v.Color[3])
	put(40, v.TexCoord[0])
	put(44, v.TexCoord[1])
}

// MarshalVertices packs a vertex slice into one contiguous buffer for upload.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: len(vertices)*VertexStride bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i := range vertices {
		vertices[i].Marshal(buf[i*VertexStride:])
	}
	return buf
}

// MarshalIndices packs 32-bit indices little-endian.
//
// Parameters:
//   - indices: the index list
//
// Returns:
//   - []byte: len(indices)*4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// ComputeBounds returns a bounding sphere centered on the axis-aligned box of the positions,
// with the radius reaching the furthest vertex.
//
// Parameters:
//   - vertices: the vertex data to bound
//
// Returns:
//   - common.Sphere: the bounding sphere, zero for an empty slice
func ComputeBounds(vertices []Vertex) common.Sphere {
	if len(vertices) == 0 {
		return common.Sphere{}
	}
	minV := mgl32.Vec3(vertices[0].Position)
	maxV := minV
	for _, v := range vertices[1:] {
		for a := 0; a < 3; a++ {
			minV[a] = min(minV[a], v.Position[a])
			maxV[a] = max(maxV[a], v.Position[a])
		}
	}
	center := minV.Add(maxV).Mul(0.5)

	var maxDistSq float32
	for _, v := range vertices {
		d := mgl32.Vec3(v.Position).Sub(center)
		maxDistSq = max(maxDistSq, d.Dot(d))
	}
	return common.Sphere{Center: center, Radius: float32(math.Sqrt(float64(maxDistSq)))}
}
