package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader.
	ShaderTypeFragment
)

// String returns the stage name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	shaderType    ShaderType
	entryPoint    string
	vertexLayouts []wgpu.VertexBufferLayout
	includes      []string
	module        *wgpu.ShaderModuleDescriptor
}

// Shader is one pre-processed WGSL stage ready for pipeline creation.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the expanded WGSL source
	Source() string

	// ShaderType returns the pipeline stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader's stage.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// VertexLayouts returns the vertex buffer layouts derived from the vertex entry point's input
	// struct. Fragment shaders return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// Includes returns the names expanded by the pre-processor, in emission order.
	//
	// Returns:
	//   - []string: the include names
	Includes() []string

	// Module returns the wgpu.ShaderModuleDescriptor built from the pre-processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor holding the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader pre-processes a WGSL source and extracts the stage metadata used for pipeline creation.
//
// Parameters:
//   - key: a unique identifier for the shader, used as the module label
//   - shaderType: the stage to compile the shader for
//   - source: the raw WGSL source, possibly with include directives
//   - pp: the pre-processor resolving include directives
//
// Returns:
//   - Shader: the prepared shader
//   - error: an error if pre-processing fails, the stage has no entry point, or the vertex input
//     struct cannot be mapped to vertex formats
func NewShader(key string, shaderType ShaderType, source string, pp PreProcessor) (Shader, error) {
	if source == "" {
		return nil, errors.New("shader: empty source for " + key)
	}
	expanded, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:        key,
		source:     expanded,
		shaderType: shaderType,
		entryPoint: entryPoint(expanded, shaderType),
		includes:   append([]string(nil), pp.Included()...),
	}
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no %s entry point", key, shaderType)
	}
	if shaderType == ShaderTypeVertex {
		if s.vertexLayouts, err = vertexLayout(expanded); err != nil {
			return nil, fmt.Errorf("shader %s: %w", key, err)
		}
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: expanded,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Includes() []string {
	return s.includes
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
