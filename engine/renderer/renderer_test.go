package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) Renderer {
	t.Helper()
	r := NewRenderer(BackendTypeRecording, nil)
	require.NoError(t, r.RegisterPrograms())
	t.Cleanup(r.Release)
	return r
}

func kinds(cmds []Command) []CommandKind {
	out := make([]CommandKind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind
	}
	return out
}

func TestRegisterPrograms(t *testing.T) {
	r := newTestRenderer(t)

	for _, name := range Programs {
		p := r.Program(name)
		require.NotNil(t, p, name)
		vs := p.Shader(shader.ShaderTypeVertex)
		require.NotNil(t, vs)
		assert.Equal(t, "vs_main", vs.EntryPoint())
		assert.Equal(t, "fs_main", p.Shader(shader.ShaderTypeFragment).EntryPoint())
	}

	world := r.Program(ProgramWorld).Shader(shader.ShaderTypeVertex).VertexLayouts()
	require.Len(t, world, 1)
	assert.Equal(t, uint64(model.VertexStride), world[0].ArrayStride)
	assert.Len(t, world[0].Attributes, 4)

	lines := r.Program(ProgramLines).Shader(shader.ShaderTypeVertex).VertexLayouts()
	require.Len(t, lines, 1)
	assert.Equal(t, uint64(LineVertexStride), lines[0].ArrayStride)

	assert.Equal(t, wgpu.PrimitiveTopologyLineList, r.Program(ProgramLines).Topology())
	assert.False(t, r.Program(ProgramWater).DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, r.Program(ProgramSky).DepthCompare())
	assert.True(t, r.Program(ProgramWorld).BlendEnabled())

	// second call is a no-op
	before := r.Program(ProgramWorld)
	require.NoError(t, r.RegisterPrograms())
	assert.Same(t, before, r.Program(ProgramWorld))
}

func TestNewRenderer_WGPUWithoutSurfacePanics(t *testing.T) {
	assert.Panics(t, func() { NewRenderer(BackendTypeWGPU, nil) })
}

func TestUploadMesh_Validation(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.UploadMesh("empty", nil, nil)
	assert.Error(t, err)

	chunk := model.NewQuadChunk()
	a, err := r.UploadMesh("a", chunk.Vertices, chunk.Indices)
	require.NoError(t, err)
	b, err := r.UploadMesh("b", chunk.Vertices, chunk.Indices)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotZero(t, a)
}

func TestUploadTexture_Validation(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.UploadTexture("short", common.TextureStagingData{Pixels: make([]byte, 3), Width: 1, Height: 1})
	assert.Error(t, err)
	_, err = r.UploadTexture("zero", common.TextureStagingData{})
	assert.Error(t, err)

	id, err := r.UploadTexture("ok", common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2})
	require.NoError(t, err)
	assert.NotEqual(t, NoTexture, id)
}

func TestBeginFrame_TwiceFails(t *testing.T) {
	r := newTestRenderer(t)
	require.NoError(t, r.BeginFrame(common.White))
	assert.Error(t, r.BeginFrame(common.White))
	r.EndFrame()
	assert.NoError(t, r.BeginFrame(common.White))
	assert.Equal(t, uint64(2), r.Frames())
}

func TestUseProgram_Unregistered(t *testing.T) {
	r := NewRenderer(BackendTypeRecording, nil)
	assert.Error(t, r.UseProgram(ProgramWorld))
	assert.NoError(t, r.UseProgram(ProgramNone))
	assert.Equal(t, ProgramNone, r.CurrentProgram())
}

func TestDraws_DroppedWithoutState(t *testing.T) {
	r := newTestRenderer(t)
	chunk := model.NewQuadChunk()
	mesh, err := r.UploadMesh("quad", chunk.Vertices, chunk.Indices)
	require.NoError(t, err)
	cmd := DrawCommand{Count: 6}

	// outside a frame
	r.DrawIndexed(cmd)

	require.NoError(t, r.BeginFrame(common.White))
	// no program
	r.DrawIndexed(cmd)
	require.NoError(t, r.UseProgram(ProgramWorld))
	// no mesh
	r.DrawIndexed(cmd)
	// wrong program
	r.DrawWater(cmd)
	r.DrawSky(cmd)
	r.DrawLines([]LineVertex{{}, {}})

	r.BindMesh(mesh)
	r.DrawIndexed(cmd)
	r.EndFrame()

	got := kinds(r.Commands())
	assert.Equal(t, []CommandKind{CommandBeginFrame, CommandUseProgram, CommandBindMesh, CommandDrawIndexed, CommandEndFrame}, got)
}

func TestBeginFrame_ResetsBindings(t *testing.T) {
	r := newTestRenderer(t)
	chunk := model.NewQuadChunk()
	mesh, err := r.UploadMesh("quad", chunk.Vertices, chunk.Indices)
	require.NoError(t, err)

	require.NoError(t, r.BeginFrame(common.White))
	require.NoError(t, r.UseProgram(ProgramWorld))
	r.BindMesh(mesh)
	r.EndFrame()

	require.NoError(t, r.BeginFrame(common.White))
	assert.Equal(t, ProgramNone, r.CurrentProgram())
	r.DrawIndexed(DrawCommand{Count: 6})
	assert.Equal(t, []CommandKind{CommandBeginFrame}, kinds(r.Commands()))
}

func TestCommands_FrameSequence(t *testing.T) {
	r := newTestRenderer(t)
	chunk := model.NewQuadChunk()
	mesh, err := r.UploadMesh("quad", chunk.Vertices, chunk.Indices)
	require.NoError(t, err)
	clear := common.RGB(0.2, 0.3, 0.4)

	require.NoError(t, r.BeginFrame(clear))
	require.NoError(t, r.UseProgram(ProgramSky))
	r.BindMesh(mesh)
	r.DrawSky(DrawCommand{Count: 6})
	require.NoError(t, r.UseProgram(ProgramWater))
	r.DrawWater(DrawCommand{})
	require.NoError(t, r.UseProgram(ProgramLines))
	r.DrawLines([]LineVertex{{}, {}, {}})
	r.EndFrame()
	r.Present()

	cmds := r.Commands()
	assert.Equal(t, []CommandKind{
		CommandBeginFrame,
		CommandUseProgram, CommandBindMesh, CommandDrawSky,
		CommandUseProgram, CommandDrawWater,
		CommandUseProgram, CommandDrawLines,
		CommandEndFrame, CommandPresent,
	}, kinds(cmds))
	assert.Equal(t, clear, cmds[0].Clear)
	assert.Len(t, cmds[7].Lines, 2, "odd trailing vertex is dropped")
}

func TestCommands_OpenFrameVisible(t *testing.T) {
	r := newTestRenderer(t)
	require.NoError(t, r.BeginFrame(common.White))
	require.NoError(t, r.UseProgram(ProgramWorld))
	assert.Equal(t, []CommandKind{CommandBeginFrame, CommandUseProgram}, kinds(r.Commands()))
}

func TestParseBackendType(t *testing.T) {
	assert.Equal(t, BackendTypeRecording, ParseBackendType("recording"))
	assert.Equal(t, BackendTypeWGPU, ParseBackendType("wgpu"))
	assert.Equal(t, BackendTypeWGPU, ParseBackendType("vulkan"))
}

func TestParseMSAA(t *testing.T) {
	tests := []struct {
		in   int
		want MSAASampleCount
	}{
		{0, MSAAOff},
		{1, MSAAOff},
		{2, MSAAOff},
		{4, MSAA4x},
		{6, MSAA4x},
		{8, MSAA8x},
		{16, MSAA8x},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseMSAA(tc.in), "samples=%d", tc.in)
	}
}

func TestMarshalLineVertices(t *testing.T) {
	v := NewLineVertex([3]float32{1, 2, 3}, common.Color{R: 0.5, G: 0.25, B: 0, A: 1})
	buf := MarshalLineVertices([]LineVertex{v, v})
	require.Len(t, buf, 2*LineVertexStride)
	at := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(3), at(8))
	assert.Equal(t, float32(0.5), at(12))
	assert.Equal(t, float32(1), at(24))
	assert.Equal(t, float32(1), at(LineVertexStride))
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "DrawWater", CommandDrawWater.String())
	assert.Equal(t, "CommandKind(99)", CommandKind(99).String())
}

func TestClipDepthCorrection(t *testing.T) {
	near := clipDepthCorrection.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := clipDepthCorrection.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	assert.InDelta(t, 0, near[2], 1e-6)
	assert.InDelta(t, 1, far[2], 1e-6)
}
