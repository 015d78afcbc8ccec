package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUDrawUniformSource is the canonical WGSL definition of the DrawUniform struct.
// Matches GPUDrawUniform layout exactly (96 bytes, std140 aligned).
//
//go:embed assets/draw_uniform.wgsl
var GPUDrawUniformSource string

// GPUDrawUniform is the per-draw uniform block written for every subgeometry submission.
// It carries the resolved material state: world matrix, tint and the two lighting scalars.
// Size: 96 bytes.
type GPUDrawUniform struct {
	Model   [16]float32 // offset  0: world matrix, column-major (64 bytes)
	Tint    [4]float32  // offset 64: resolved RGBA tint (16 bytes)
	Diffuse float32     // offset 80: material diffuse intensity
	Ambient float32     // offset 84: material ambient intensity
	_       [2]float32  // offset 88: padding to 16-byte multiple
}

// NewGPUDrawUniform packs a world matrix and resolved material state into a GPUDrawUniform.
//
// Parameters:
//   - model: the world matrix
//   - tint: the resolved tint color
//   - diffuse: the diffuse intensity
//   - ambient: the ambient intensity
//
// Returns:
//   - GPUDrawUniform: the packed uniform
func NewGPUDrawUniform(model mgl32.Mat4, tint common.Color, diffuse, ambient float32) GPUDrawUniform {
	return GPUDrawUniform{
		Model:   model,
		Tint:    [4]float32{tint.R, tint.G, tint.B, tint.A},
		Diffuse: diffuse,
		Ambient: ambient,
	}
}

// Size returns the size of the GPUDrawUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUDrawUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDrawUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload.
func (g *GPUDrawUniform) Marshal() []byte {
	buf := make([]byte, 96)
	for i, v := range g.Model {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	for i, v := range g.Tint {
		binary.LittleEndian.PutUint32(buf[64+i*4:68+i*4], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[80:84], math.Float32bits(g.Diffuse))
	binary.LittleEndian.PutUint32(buf[84:88], math.Float32bits(g.Ambient))
	return buf
}
