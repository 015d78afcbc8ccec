package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption configures a provider in NewBindGroupProvider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithUniform attaches a uniform buffer, as the scene and object uniform blocks use.
//
// Parameters:
//   - binding: the @binding index inside the group
//   - buf: the uniform buffer
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithUniform(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) { p.buffers[binding] = buf }
}

// WithMesh makes the provider a mesh resource drawn with indexCount indices.
func WithMesh(vertices, indices *wgpu.Buffer, indexCount uint32) BindGroupProviderOption {
	return func(p *bindGroupProvider) { p.SetMesh(vertices, indices, indexCount) }
}
