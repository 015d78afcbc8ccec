package shader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormat pairs a wgpu vertex format with its packed byte size.
type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

// vertexFormats maps the WGSL types allowed on vertex inputs to their wgpu formats.
var vertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
}

var (
	// vertexEntryRegex captures the vertex entry point name and the type of its first parameter.
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\s+fn\s+(\w+)\s*\(\s*(?:\w+\s*:\s*(\w+))?`)

	// fragmentEntryRegex captures the fragment entry point name.
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\s+fn\s+(\w+)`)

	// locationFieldRegex matches one `@location(N) name: type` struct member.
	locationFieldRegex = regexp.MustCompile(`@location\((\d+)\)\s*(\w+)\s*:\s*([\w<>]+)`)

	lineCommentRegex = regexp.MustCompile(`//[^\n]*`)
)

// entryPoint returns the name of the entry point for the given stage, or "" when absent.
func entryPoint(source string, shaderType ShaderType) string {
	source = lineCommentRegex.ReplaceAllString(source, "")
	re := vertexEntryRegex
	if shaderType == ShaderTypeFragment {
		re = fragmentEntryRegex
	}
	if m := re.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

// vertexLayout derives the vertex buffer layout from the struct taken by the vertex entry point.
// Attributes are tightly packed in declaration order. A vertex entry point without a struct
// parameter yields an empty layout.
//
// Parameters:
//   - source: pre-processed WGSL source
//
// Returns:
//   - []wgpu.VertexBufferLayout: zero or one buffer layout
//   - error: an error if the input struct is missing or uses a type with no vertex format
func vertexLayout(source string) ([]wgpu.VertexBufferLayout, error) {
	source = lineCommentRegex.ReplaceAllString(source, "")
	m := vertexEntryRegex.FindStringSubmatch(source)
	if m == nil || m[2] == "" {
		return nil, nil
	}
	body, ok := structBody(source, m[2])
	if !ok {
		return nil, fmt.Errorf("vertex input struct %q not found", m[2])
	}

	var offset uint64
	attrs := make([]wgpu.VertexAttribute, 0, 4)
	for _, field := range locationFieldRegex.FindAllStringSubmatch(body, -1) {
		loc, _ := strconv.Atoi(field[1])
		vf, ok := vertexFormats[field[3]]
		if !ok {
			return nil, fmt.Errorf("vertex input %s.%s: unsupported type %q", m[2], field[2], field[3])
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         vf.format,
			Offset:         offset,
			ShaderLocation: uint32(loc),
		})
		offset += vf.size
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return []wgpu.VertexBufferLayout{{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}}, nil
}

// structBody returns the text between the braces of the named struct.
func structBody(source, name string) (string, bool) {
	re := regexp.MustCompile(`struct\s+` + regexp.QuoteMeta(name) + `\s*\{`)
	loc := re.FindStringIndex(source)
	if loc == nil {
		return "", false
	}
	rest := source[loc[1]:]
	end := strings.IndexByte(rest, '}')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
