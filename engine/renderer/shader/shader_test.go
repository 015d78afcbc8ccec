package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexStruct = `struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) color: vec4<f32>,
};`

const testSource = `//#include vertex
//#include uniforms

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return u.model * vec4<f32>(in.position, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}`

func testIncludes() map[string]string {
	return map[string]string{
		"vertex":   testVertexStruct,
		"uniforms": "//#include vertex\nstruct U { model: mat4x4<f32> };\n@group(0) @binding(0) var<uniform> u: U;",
	}
}

func TestPreProcessor_ExpandsOnce(t *testing.T) {
	pp := NewPreProcessor(testIncludes())
	out, err := pp.Process(testSource)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "struct VertexInput"))
	assert.Contains(t, out, "var<uniform> u: U;")
	assert.NotContains(t, out, "//#include")
	assert.Equal(t, []string{"vertex", "uniforms"}, pp.Included())
}

func TestPreProcessor_Errors(t *testing.T) {
	pp := NewPreProcessor(map[string]string{
		"a": "//#include b",
		"b": "//#include a",
	})
	_, err := pp.Process("//#include a")
	assert.ErrorContains(t, err, "cycle")

	_, err = pp.Process("//#include missing")
	assert.ErrorContains(t, err, `unknown include "missing"`)

	_, err = pp.Process("//#include")
	assert.ErrorContains(t, err, "without a name")
}

func TestNewShader_VertexStage(t *testing.T) {
	s, err := NewShader("test_vs", ShaderTypeVertex, testSource, NewPreProcessor(testIncludes()))
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint())
	require.Len(t, s.VertexLayouts(), 1)
	layout := s.VertexLayouts()[0]
	assert.Equal(t, uint64(28), layout.ArrayStride)
	require.Len(t, layout.Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[0].Format)
	assert.Equal(t, uint64(12), layout.Attributes[1].Offset)
	assert.Equal(t, uint32(1), layout.Attributes[1].ShaderLocation)
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
}

func TestNewShader_FragmentStage(t *testing.T) {
	s, err := NewShader("test_fs", ShaderTypeFragment, testSource, NewPreProcessor(testIncludes()))
	require.NoError(t, err)
	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Nil(t, s.VertexLayouts())
}

func TestNewShader_Errors(t *testing.T) {
	pp := NewPreProcessor(testIncludes())

	_, err := NewShader("empty", ShaderTypeVertex, "", pp)
	assert.Error(t, err)

	_, err = NewShader("no_entry", ShaderTypeFragment, "fn helper() {}", pp)
	assert.ErrorContains(t, err, "no fragment entry point")

	bad := "struct In { @location(0) m: mat4x4<f32>, };\n@vertex\nfn vs(in: In) -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }"
	_, err = NewShader("bad_input", ShaderTypeVertex, bad, pp)
	assert.ErrorContains(t, err, "unsupported type")
}
