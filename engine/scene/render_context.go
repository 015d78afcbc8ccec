package scene

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext is the binding state of one frame, passed by pointer through every pass. Setters
// skip backend calls that would not change anything.
//
// Pass entry and exit state:
//   - pedestrian, instance, vehicle and replay passes enter and leave with ProgramWorld bound
//   - the water pass leaves with ProgramWater bound
//   - the sky pass leaves with no program bound
type RenderContext struct {
	r renderer.Renderer

	program      renderer.Program
	mesh         renderer.MeshID
	texture      renderer.TextureID
	textureBound bool

	tint             common.Color
	diffuse, ambient float32
}

// NewRenderContext creates a context with nothing bound and the given default intensities.
//
// Parameters:
//   - r: the renderer the context forwards to
//   - diffuse: the default diffuse intensity
//   - ambient: the default ambient intensity
//
// Returns:
//   - *RenderContext: the context
func NewRenderContext(r renderer.Renderer, diffuse, ambient float32) *RenderContext {
	return &RenderContext{
		r:       r,
		tint:    common.White,
		diffuse: diffuse,
		ambient: ambient,
	}
}

// UseProgram binds a program. Switching programs forgets the bound mesh.
func (c *RenderContext) UseProgram(p renderer.Program) error {
	if c.program == p {
		return nil
	}
	if err := c.r.UseProgram(p); err != nil {
		return err
	}
	c.program = p
	c.mesh = 0
	return nil
}

// Program returns the bound program.
func (c *RenderContext) Program() renderer.Program {
	return c.program
}

func (c *RenderContext) BindMesh(id renderer.MeshID) {
	if c.mesh == id {
		return
	}
	c.r.BindMesh(id)
	c.mesh = id
}

func (c *RenderContext) BindTexture(id renderer.TextureID) {
	if c.textureBound && c.texture == id {
		return
	}
	c.r.BindTexture(id)
	c.texture = id
	c.textureBound = true
}

// Texture returns the bound texture and whether one has been bound this frame.
func (c *RenderContext) Texture() (renderer.TextureID, bool) {
	return c.texture, c.textureBound
}

func (c *RenderContext) SetTint(tint common.Color) {
	c.tint = tint
}

func (c *RenderContext) Tint() common.Color {
	return c.tint
}

func (c *RenderContext) SetIntensity(diffuse, ambient float32) {
	c.diffuse, c.ambient = diffuse, ambient
}

// Intensity returns the diffuse and ambient intensities the next draw uses.
func (c *RenderContext) Intensity() (float32, float32) {
	return c.diffuse, c.ambient
}

func (c *RenderContext) uniform(matrix mgl32.Mat4) material.GPUDrawUniform {
	return material.NewGPUDrawUniform(matrix, c.tint, c.diffuse, c.ambient)
}

// Draw submits an index range of the bound mesh with the current tint and intensities.
func (c *RenderContext) Draw(matrix mgl32.Mat4, start, count uint32) {
	c.r.DrawIndexed(renderer.DrawCommand{Uniform: c.uniform(matrix), Start: start, Count: count})
}

// DrawWater submits one water quad.
func (c *RenderContext) DrawWater(matrix mgl32.Mat4) {
	c.r.DrawWater(renderer.DrawCommand{Uniform: c.uniform(matrix)})
}

// DrawSky submits the bound dome mesh with a projection times rotation-only view matrix.
func (c *RenderContext) DrawSky(matrix mgl32.Mat4, count uint32) {
	c.r.DrawSky(renderer.DrawCommand{Uniform: c.uniform(matrix), Count: count})
}

func (c *RenderContext) DrawLines(lines []renderer.LineVertex) {
	c.r.DrawLines(lines)
}

// Reset unbinds the program and forgets every cached binding.
func (c *RenderContext) Reset() {
	if c.program != renderer.ProgramNone {
		_ = c.r.UseProgram(renderer.ProgramNone)
	}
	c.program = renderer.ProgramNone
	c.mesh = 0
	c.textureBound = false
	c.tint = common.White
}
