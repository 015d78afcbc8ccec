package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-world/common"
)

// GPUSceneUniformSource is the canonical WGSL definition of the SceneUniform struct.
// Matches GPUSceneUniform layout exactly (96 bytes).
//
//go:embed assets/scene_uniform.wgsl
var GPUSceneUniformSource string

// GPUSceneUniform is the GPU-aligned representation of SceneLighting.
// Size: 96 bytes.
type GPUSceneUniform struct {
	Ambient         [4]float32 // offset  0
	Dynamic         [4]float32 // offset 16
	SunDirection    [3]float32 // offset 32
	FogStart        float32    // offset 44
	SkyTop          [4]float32 // offset 48
	SkyBottom       [4]float32 // offset 64
	FogEnd          float32    // offset 80
	MaterialDiffuse float32    // offset 84
	MaterialAmbient float32    // offset 88
	_pad            float32    // offset 92: padding to 96 bytes
}

// NewGPUSceneUniform packs a SceneLighting into its GPU layout.
//
// Parameters:
//   - l: the lighting state
//
// Returns:
//   - GPUSceneUniform: the packed uniform
func NewGPUSceneUniform(l SceneLighting) GPUSceneUniform {
	return GPUSceneUniform{
		Ambient:         rgba(l.Ambient),
		Dynamic:         rgba(l.Dynamic),
		SunDirection:    l.SunDirection,
		FogStart:        l.FogStart,
		SkyTop:          rgba(l.SkyTop),
		SkyBottom:       rgba(l.SkyBottom),
		FogEnd:          l.FogEnd,
		MaterialDiffuse: l.MaterialDiffuse,
		MaterialAmbient: l.MaterialAmbient,
	}
}

// Size returns the size of the GPUSceneUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUSceneUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSceneUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (g *GPUSceneUniform) Marshal() []byte {
	buf := make([]byte, 96)
	put := func(offset int, values ...float32) {
		for i, v := range values {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
		}
	}
	put(0, g.Ambient[:]...)
	put(16, g.Dynamic[:]...)
	put(32, g.SunDirection[:]...)
	put(44, g.FogStart)
	put(48, g.SkyTop[:]...)
	put(64, g.SkyBottom[:]...)
	put(80, g.FogEnd, g.MaterialDiffuse, g.MaterialAmbient, 0)
	return buf
}

func rgba(c common.Color) [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
