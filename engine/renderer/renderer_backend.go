package renderer

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/light"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/pipeline"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU backend drawing to a window surface.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeRecording selects the headless backend that captures the command stream.
	BackendTypeRecording
)

// ParseBackendType maps a configuration string to a backend type. Unknown values select WGPU.
//
// Parameters:
//   - s: "wgpu" or "recording"
//
// Returns:
//   - RendererBackendType: the matching backend type
func ParseBackendType(s string) RendererBackendType {
	if s == "recording" {
		return BackendTypeRecording
	}
	return BackendTypeWGPU
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8x multisample anti-aliasing. Adapter-dependent.
	MSAA8x MSAASampleCount = 8
)

// ParseMSAA maps a configured sample count to the nearest supported MSAASampleCount at or below it.
//
// Parameters:
//   - samples: the configured sample count
//
// Returns:
//   - MSAASampleCount: MSAAOff, MSAA4x or MSAA8x
func ParseMSAA(samples int) MSAASampleCount {
	switch {
	case samples >= 8:
		return MSAA8x
	case samples >= 4:
		return MSAA4x
	default:
		return MSAAOff
	}
}

// RendererBackend is the set of primitive operations a backend provides to the Renderer. Handles
// are allocated by the Renderer; backends only map them to their own resources. Calls between
// BeginFrame and EndFrame come from a single goroutine.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and depth attachments for a surface size.
	ConfigureSurface(width, height int)

	// SetPresentMode selects VSync or uncapped presentation for the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// RegisterProgram creates the GPU objects for a program.
	RegisterProgram(name Program, p pipeline.Pipeline) error

	// UploadMesh stores vertex and index bytes under a mesh handle.
	UploadMesh(id MeshID, label string, vertices, indices []byte, indexCount uint32) error

	// UploadTexture stores RGBA8 pixels under a texture handle.
	UploadTexture(id TextureID, label string, data common.TextureStagingData) error

	// BeginFrame acquires the frame target and clears it to the given color.
	BeginFrame(clear common.Color) error

	// SetSceneUniforms writes the per-frame camera and lighting blocks.
	SetSceneUniforms(cam camera.GPUCameraUniform, scene light.GPUSceneUniform)

	// UseProgram binds a registered program, or unbinds with ProgramNone.
	UseProgram(name Program, p pipeline.Pipeline)

	// BindMesh binds the vertex and index buffers of a mesh.
	BindMesh(id MeshID)

	// BindTexture binds a texture for subsequent world and water draws.
	BindTexture(id TextureID)

	// DrawIndexed draws an index range of the bound mesh.
	DrawIndexed(cmd DrawCommand)

	// DrawWater draws the built-in unit water quad transformed by the command's matrix.
	DrawWater(cmd DrawCommand)

	// DrawSky draws an index range of the bound mesh as the sky dome.
	DrawSky(cmd DrawCommand)

	// DrawLines draws a line list with the identity model matrix.
	DrawLines(lines []LineVertex)

	// EndFrame finishes and submits the frame's commands.
	EndFrame()

	// Present shows the finished frame.
	Present()

	// Commands returns the command stream captured for the last frame, or nil for GPU backends.
	Commands() []Command

	// Release frees all backend resources.
	Release()
}
