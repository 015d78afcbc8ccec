package renderer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/light"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
)

// Program names one of the fixed render programs.
type Program string

const (
	// ProgramNone means no program is bound.
	ProgramNone Program = ""

	// ProgramWorld draws lit, fogged, textured world geometry.
	ProgramWorld Program = "world"

	// ProgramWater draws textured water tiles.
	ProgramWater Program = "water"

	// ProgramSky draws the sky dome gradient on the far plane.
	ProgramSky Program = "sky"

	// ProgramLines draws colored debug line lists.
	ProgramLines Program = "lines"
)

// Programs lists every program built by RegisterPrograms, in registration order.
var Programs = []Program{ProgramWorld, ProgramWater, ProgramSky, ProgramLines}

// MeshID is a handle to an uploaded vertex and index buffer pair. The zero value is no mesh.
type MeshID uint32

// TextureID is a handle to an uploaded texture. NoTexture selects the renderer's 1x1 white texture,
// so untextured draws sample white.
type TextureID uint32

// NoTexture is the handle of the built-in white texture.
const NoTexture TextureID = 0

// DrawCommand is one indexed draw of the bound mesh with the bound program and texture.
type DrawCommand struct {
	// Uniform is the per-draw block: world matrix, tint and lighting scalars.
	Uniform material.GPUDrawUniform

	// Start and Count select the index range to draw.
	Start, Count uint32
}

// LineVertexStride is the size in bytes of one marshaled LineVertex.
const LineVertexStride = 28

// LineVertex is one endpoint of a debug line. Matches the WGSL LineVertexInput struct.
type LineVertex struct {
	Position [3]float32 // offset  0
	Color    [4]float32 // offset 12
}

// NewLineVertex builds a LineVertex from a position and an opaque RGB color.
func NewLineVertex(pos [3]float32, c common.Color) LineVertex {
	return LineVertex{Position: pos, Color: [4]float32{c.R, c.G, c.B, c.A}}
}

// MarshalLineVertices packs line vertices little-endian for upload.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: len(vertices)*LineVertexStride bytes
func MarshalLineVertices(vertices []LineVertex) []byte {
	buf := make([]byte, len(vertices)*LineVertexStride)
	for i, v := range vertices {
		off := i * LineVertexStride
		for j, f := range v.Position {
			binary.LittleEndian.PutUint32(buf[off+j*4:], math.Float32bits(f))
		}
		for j, f := range v.Color {
			binary.LittleEndian.PutUint32(buf[off+12+j*4:], math.Float32bits(f))
		}
	}
	return buf
}

// CommandKind identifies a captured renderer call.
type CommandKind int

const (
	CommandBeginFrame CommandKind = iota
	CommandSceneUniforms
	CommandUseProgram
	CommandBindMesh
	CommandBindTexture
	CommandDrawIndexed
	CommandDrawWater
	CommandDrawSky
	CommandDrawLines
	CommandEndFrame
	CommandPresent
)

var commandKindNames = [...]string{
	"BeginFrame", "SceneUniforms", "UseProgram", "BindMesh", "BindTexture",
	"DrawIndexed", "DrawWater", "DrawSky", "DrawLines", "EndFrame", "Present",
}

// String returns the call name.
func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandKindNames) {
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
	return commandKindNames[k]
}

// Command is one renderer call captured by the recording backend. Only the fields relevant to
// Kind are set.
type Command struct {
	Kind CommandKind

	Clear   common.Color
	Camera  camera.GPUCameraUniform
	Scene   light.GPUSceneUniform
	Program Program
	Mesh    MeshID
	Texture TextureID
	Draw    DrawCommand
	Lines   []LineVertex
}
