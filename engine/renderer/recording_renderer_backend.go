package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/light"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/pipeline"
)

// recordingRendererBackend captures every call of a frame instead of drawing. It backs headless
// runs and scene tests.
type recordingRendererBackend struct {
	mu *sync.Mutex

	programs map[Program]bool
	meshes   map[MeshID]uint32
	textures map[TextureID]common.TextureStagingData

	width, height int
	presentMode   PresentMode

	current []Command
	last    []Command
}

var _ RendererBackend = &recordingRendererBackend{}

func newRecordingRendererBackend() *recordingRendererBackend {
	return &recordingRendererBackend{
		mu:       &sync.Mutex{},
		programs: make(map[Program]bool),
		meshes:   make(map[MeshID]uint32),
		textures: make(map[TextureID]common.TextureStagingData),
	}
}

func (b *recordingRendererBackend) record(c Command) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = append(b.current, c)
}

func (b *recordingRendererBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *recordingRendererBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *recordingRendererBackend) RegisterProgram(name Program, _ pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.programs[name] = true
	return nil
}

func (b *recordingRendererBackend) UploadMesh(id MeshID, label string, vertices, indices []byte, indexCount uint32) error {
	if len(indices) != int(indexCount)*4 {
		return fmt.Errorf("mesh %s: %d index bytes for %d indices", label, len(indices), indexCount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meshes[id] = indexCount
	return nil
}

func (b *recordingRendererBackend) UploadTexture(id TextureID, _ string, data common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.textures[id] = data
	return nil
}

func (b *recordingRendererBackend) BeginFrame(clear common.Color) error {
	b.mu.Lock()
	b.current = b.current[:0:0]
	b.mu.Unlock()
	b.record(Command{Kind: CommandBeginFrame, Clear: clear})
	return nil
}

func (b *recordingRendererBackend) SetSceneUniforms(cam camera.GPUCameraUniform, scene light.GPUSceneUniform) {
	b.record(Command{Kind: CommandSceneUniforms, Camera: cam, Scene: scene})
}

func (b *recordingRendererBackend) UseProgram(name Program, _ pipeline.Pipeline) {
	b.record(Command{Kind: CommandUseProgram, Program: name})
}

func (b *recordingRendererBackend) BindMesh(id MeshID) {
	b.record(Command{Kind: CommandBindMesh, Mesh: id})
}

func (b *recordingRendererBackend) BindTexture(id TextureID) {
	b.record(Command{Kind: CommandBindTexture, Texture: id})
}

func (b *recordingRendererBackend) DrawIndexed(cmd DrawCommand) {
	b.record(Command{Kind: CommandDrawIndexed, Draw: cmd})
}

func (b *recordingRendererBackend) DrawWater(cmd DrawCommand) {
	b.record(Command{Kind: CommandDrawWater, Draw: cmd})
}

func (b *recordingRendererBackend) DrawSky(cmd DrawCommand) {
	b.record(Command{Kind: CommandDrawSky, Draw: cmd})
}

func (b *recordingRendererBackend) DrawLines(lines []LineVertex) {
	b.record(Command{Kind: CommandDrawLines, Lines: append([]LineVertex(nil), lines...)})
}

func (b *recordingRendererBackend) EndFrame() {
	b.record(Command{Kind: CommandEndFrame})
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = b.current
	b.current = nil
}

func (b *recordingRendererBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.last) > 0 && b.last[len(b.last)-1].Kind == CommandEndFrame {
		b.last = append(b.last, Command{Kind: CommandPresent})
	}
}

// Commands returns the commands of the open frame, or of the last ended frame when none is open.
func (b *recordingRendererBackend) Commands() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	src := b.current
	if len(src) == 0 {
		src = b.last
	}
	return append([]Command(nil), src...)
}

func (b *recordingRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.programs)
	clear(b.meshes)
	clear(b.textures)
	b.current, b.last = nil, nil
}
