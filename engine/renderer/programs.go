package renderer

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/light"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	//go:embed assets/bindings.wgsl
	bindingsSource string

	//go:embed assets/texture.wgsl
	textureBindingsSource string

	//go:embed assets/line_vertex.wgsl
	lineVertexSource string

	//go:embed assets/world.wgsl
	worldSource string

	//go:embed assets/water.wgsl
	waterSource string

	//go:embed assets/sky.wgsl
	skySource string

	//go:embed assets/lines.wgsl
	linesSource string
)

// shaderIncludes returns the include registry shared by every program source.
func shaderIncludes() map[string]string {
	return map[string]string{
		"camera":      camera.GPUCameraUniformSource,
		"scene":       light.GPUSceneUniformSource,
		"draw":        material.GPUDrawUniformSource,
		"vertex":      model.GPUVertexSource,
		"line_vertex": lineVertexSource,
		"bindings":    bindingsSource,
		"texture":     textureBindingsSource,
	}
}

// programSpec pairs a program's WGSL source with its fixed-function state.
type programSpec struct {
	source  string
	options []pipeline.PipelineBuilderOption
}

var programSpecs = map[Program]programSpec{
	ProgramWorld: {
		source:  worldSource,
		options: []pipeline.PipelineBuilderOption{pipeline.WithBlendEnabled(true)},
	},
	ProgramWater: {
		source: waterSource,
		options: []pipeline.PipelineBuilderOption{
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepth(wgpu.CompareFunctionLess, false),
		},
	},
	ProgramSky: {
		source:  skySource,
		options: []pipeline.PipelineBuilderOption{pipeline.WithDepth(wgpu.CompareFunctionLessEqual, false)},
	},
	ProgramLines: {
		source:  linesSource,
		options: []pipeline.PipelineBuilderOption{pipeline.WithTopology(wgpu.PrimitiveTopologyLineList)},
	},
}

// buildProgram pre-processes both stages of a program and wraps them in a Pipeline.
//
// Parameters:
//   - p: the program to build
//   - pp: the pre-processor resolving include directives
//
// Returns:
//   - pipeline.Pipeline: the program description, not yet created on the GPU
//   - error: an error if the program is unknown or a stage fails to pre-process
func buildProgram(p Program, pp shader.PreProcessor) (pipeline.Pipeline, error) {
	spec, ok := programSpecs[p]
	if !ok {
		return nil, fmt.Errorf("unknown program %q", p)
	}
	vs, err := shader.NewShader(string(p)+"_vs", shader.ShaderTypeVertex, spec.source, pp)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(string(p)+"_fs", shader.ShaderTypeFragment, spec.source, pp)
	if err != nil {
		return nil, err
	}
	opts := append([]pipeline.PipelineBuilderOption{pipeline.WithShaders(vs, fs)}, spec.options...)
	return pipeline.NewPipeline(string(p), opts...), nil
}
