package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/light"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog"
)

// Surface is the drawable the WGPU backend presents to. engine/window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu     *sync.Mutex
	logger zerolog.Logger

	backendType RendererBackendType
	backend     RendererBackend

	programs map[Program]pipeline.Pipeline
	current  Program
	mesh     MeshID
	inFrame  bool
	frames   uint64

	nextMesh    MeshID
	nextTexture TextureID

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	drawCapacity         int
}

// Renderer is the draw API the scene submits to. It owns the four fixed programs, hands out mesh
// and texture handles, and forwards binding and draw calls to the selected backend.
//
// Draws are only accepted between BeginFrame and EndFrame and only with the matching program
// bound: DrawIndexed with ProgramWorld, DrawWater with ProgramWater, DrawSky with ProgramSky and
// DrawLines with ProgramLines. Other draws are dropped.
type Renderer interface {
	// RegisterPrograms builds and registers the world, water, sky and lines programs.
	// Programs already registered are skipped.
	//
	// Returns:
	//   - error: an error if a program fails to pre-process or the backend rejects it
	RegisterPrograms() error

	// Program returns the registered pipeline description for a program, or nil.
	//
	// Parameters:
	//   - p: the program name
	//
	// Returns:
	//   - pipeline.Pipeline: the program's pipeline or nil
	Program(p Program) pipeline.Pipeline

	// Resize configures the backend for a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// UploadMesh uploads a vertex and index list and returns its handle.
	//
	// Parameters:
	//   - label: a debug label for the GPU buffers
	//   - vertices: the vertices to upload
	//   - indices: the triangle indices to upload
	//
	// Returns:
	//   - MeshID: the handle to bind with BindMesh
	//   - error: an error if the lists are empty or the backend fails
	UploadMesh(label string, vertices []model.Vertex, indices []uint32) (MeshID, error)

	// UploadTexture uploads RGBA8 pixels and returns its handle.
	//
	// Parameters:
	//   - name: a debug label for the GPU texture
	//   - data: the pixel data and dimensions
	//
	// Returns:
	//   - TextureID: the handle to bind with BindTexture
	//   - error: an error if the data is malformed or the backend fails
	UploadTexture(name string, data common.TextureStagingData) (TextureID, error)

	// BeginFrame starts a frame cleared to the given color. The previous frame's binding state is
	// discarded.
	//
	// Parameters:
	//   - clear: the color the frame target is cleared to
	//
	// Returns:
	//   - error: an error if a frame is already open or the frame target cannot be acquired
	BeginFrame(clear common.Color) error

	// SetSceneUniforms writes the per-frame camera and lighting blocks.
	//
	// Parameters:
	//   - cam: the camera block
	//   - scene: the lighting and fog block
	SetSceneUniforms(cam camera.GPUCameraUniform, scene light.GPUSceneUniform)

	// UseProgram binds a registered program. ProgramNone unbinds.
	//
	// Parameters:
	//   - p: the program to bind
	//
	// Returns:
	//   - error: an error if the program is not registered
	UseProgram(p Program) error

	// CurrentProgram returns the bound program.
	//
	// Returns:
	//   - Program: the bound program or ProgramNone
	CurrentProgram() Program

	// BindMesh binds an uploaded mesh for DrawIndexed and DrawSky.
	//
	// Parameters:
	//   - id: the mesh handle
	BindMesh(id MeshID)

	// BindTexture binds an uploaded texture, or the white texture with NoTexture.
	//
	// Parameters:
	//   - id: the texture handle
	BindTexture(id TextureID)

	// DrawIndexed draws an index range of the bound mesh with ProgramWorld.
	//
	// Parameters:
	//   - cmd: the draw uniform and index range
	DrawIndexed(cmd DrawCommand)

	// DrawWater draws the unit water quad with ProgramWater. The quad spans [0,1] on x and y at
	// z = 0 before the command's matrix is applied.
	//
	// Parameters:
	//   - cmd: the draw uniform; the index range is ignored
	DrawWater(cmd DrawCommand)

	// DrawSky draws an index range of the bound mesh with ProgramSky. The command's matrix is the
	// projection times the rotation-only view.
	//
	// Parameters:
	//   - cmd: the draw uniform and index range
	DrawSky(cmd DrawCommand)

	// DrawLines draws a line list with ProgramLines. Vertices pair up into segments.
	//
	// Parameters:
	//   - lines: the line endpoints
	DrawLines(lines []LineVertex)

	// EndFrame submits the open frame.
	EndFrame()

	// Present shows the submitted frame.
	Present()

	// Frames returns the number of frames begun.
	//
	// Returns:
	//   - uint64: the frame counter
	Frames() uint64

	// Commands returns the command stream the recording backend captured for the most recent
	// frame. GPU backends return nil.
	//
	// Returns:
	//   - []Command: the captured commands
	Commands() []Command

	// Release frees every backend resource.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the selected backend.
//
// Parameters:
//   - backendType: BackendTypeWGPU or BackendTypeRecording
//   - surface: the window surface to present to; ignored by the recording backend
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: a renderer with no programs registered yet
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:           &sync.Mutex{},
		logger:       zerolog.Nop(),
		backendType:  backendType,
		programs:     make(map[Program]pipeline.Pipeline),
		presentMode:  PresentModeUncapped,
		msaa:         MSAA4x,
		drawCapacity: defaultDrawCapacity,
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeRecording:
		r.backend = newRecordingRendererBackend()
	case BackendTypeWGPU:
		fallthrough
	default:
		if surface == nil {
			panic("renderer: BackendTypeWGPU requires a surface")
		}
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.drawCapacity, r.logger)
		r.backend.SetPresentMode(r.presentMode)
		r.backend.ConfigureSurface(surface.Width(), surface.Height())
	}
	return r
}

func (r *renderer) RegisterPrograms() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pp := shader.NewPreProcessor(shaderIncludes())
	for _, name := range Programs {
		if _, exists := r.programs[name]; exists {
			continue
		}
		p, err := buildProgram(name, pp)
		if err != nil {
			return fmt.Errorf("build program %s: %w", name, err)
		}
		if err := r.backend.RegisterProgram(name, p); err != nil {
			return fmt.Errorf("register program %s: %w", name, err)
		}
		r.programs[name] = p
		r.logger.Debug().Str("program", string(name)).Msg("program registered")
	}
	return nil
}

func (r *renderer) Program(p Program) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.programs[p]
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) UploadMesh(label string, vertices []model.Vertex, indices []uint32) (MeshID, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return 0, errors.New("renderer: mesh " + label + " has no geometry")
	}
	r.mu.Lock()
	r.nextMesh++
	id := r.nextMesh
	r.mu.Unlock()

	if err := r.backend.UploadMesh(id, label, model.MarshalVertices(vertices), model.MarshalIndices(indices), uint32(len(indices))); err != nil {
		return 0, fmt.Errorf("upload mesh %s: %w", label, err)
	}
	return id, nil
}

func (r *renderer) UploadTexture(name string, data common.TextureStagingData) (TextureID, error) {
	if data.Width == 0 || data.Height == 0 || len(data.Pixels) != int(data.Width*data.Height*4) {
		return NoTexture, fmt.Errorf("renderer: texture %s has %d bytes for %dx%d", name, len(data.Pixels), data.Width, data.Height)
	}
	r.mu.Lock()
	r.nextTexture++
	id := r.nextTexture
	r.mu.Unlock()

	if err := r.backend.UploadTexture(id, name, data); err != nil {
		return NoTexture, fmt.Errorf("upload texture %s: %w", name, err)
	}
	return id, nil
}

func (r *renderer) BeginFrame(clear common.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFrame {
		return errors.New("renderer: previous frame not ended")
	}
	if err := r.backend.BeginFrame(clear); err != nil {
		return err
	}
	r.inFrame = true
	r.current = ProgramNone
	r.mesh = 0
	r.frames++
	return nil
}

func (r *renderer) SetSceneUniforms(cam camera.GPUCameraUniform, scene light.GPUSceneUniform) {
	r.backend.SetSceneUniforms(cam, scene)
}

func (r *renderer) UseProgram(p Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p == ProgramNone {
		r.current = ProgramNone
		r.backend.UseProgram(ProgramNone, nil)
		return nil
	}
	pl, ok := r.programs[p]
	if !ok {
		return fmt.Errorf("renderer: program %q not registered", p)
	}
	r.current = p
	r.backend.UseProgram(p, pl)
	return nil
}

func (r *renderer) CurrentProgram() Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *renderer) BindMesh(id MeshID) {
	r.mu.Lock()
	r.mesh = id
	r.mu.Unlock()
	r.backend.BindMesh(id)
}

func (r *renderer) BindTexture(id TextureID) {
	r.backend.BindTexture(id)
}

func (r *renderer) DrawIndexed(cmd DrawCommand) {
	if !r.accepts(ProgramWorld, true) {
		return
	}
	r.backend.DrawIndexed(cmd)
}

func (r *renderer) DrawWater(cmd DrawCommand) {
	if !r.accepts(ProgramWater, false) {
		return
	}
	r.backend.DrawWater(cmd)
}

func (r *renderer) DrawSky(cmd DrawCommand) {
	if !r.accepts(ProgramSky, true) {
		return
	}
	r.backend.DrawSky(cmd)
}

func (r *renderer) DrawLines(lines []LineVertex) {
	if len(lines) < 2 || !r.accepts(ProgramLines, false) {
		return
	}
	r.backend.DrawLines(lines[:len(lines)&^1])
}

// accepts reports whether a draw for the given program may be issued now.
func (r *renderer) accepts(p Program, needsMesh bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case !r.inFrame:
		r.logger.Debug().Str("program", string(p)).Msg("draw outside frame dropped")
		return false
	case r.current != p:
		r.logger.Debug().Str("program", string(p)).Str("bound", string(r.current)).Msg("draw with wrong program dropped")
		return false
	case needsMesh && r.mesh == 0:
		r.logger.Debug().Str("program", string(p)).Msg("draw without mesh dropped")
		return false
	}
	return true
}

func (r *renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inFrame {
		return
	}
	r.backend.EndFrame()
	r.inFrame = false
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Commands() []Command {
	return r.backend.Commands()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
	r.programs = make(map[Program]pipeline.Pipeline)
}
