package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFrame(t *testing.T) renderer.Renderer {
	t.Helper()
	r := renderer.NewRenderer(renderer.BackendTypeRecording, nil)
	t.Cleanup(r.Release)
	require.NoError(t, r.RegisterPrograms())
	require.NoError(t, r.BeginFrame(common.White))
	return r
}

func TestRenderContext_SkipsRedundantBinds(t *testing.T) {
	r := openFrame(t)
	ctx := NewRenderContext(r, 0.9, 0.1)

	require.NoError(t, ctx.UseProgram(renderer.ProgramWorld))
	require.NoError(t, ctx.UseProgram(renderer.ProgramWorld))
	ctx.BindMesh(3)
	ctx.BindMesh(3)
	ctx.BindTexture(renderer.NoTexture)
	ctx.BindTexture(renderer.NoTexture)

	cmds := r.Commands()
	assert.Len(t, ofKind(cmds, renderer.CommandUseProgram), 1)
	assert.Len(t, ofKind(cmds, renderer.CommandBindMesh), 1)
	assert.Len(t, ofKind(cmds, renderer.CommandBindTexture), 1)
}

func TestRenderContext_ProgramSwitchForgetsMesh(t *testing.T) {
	r := openFrame(t)
	ctx := NewRenderContext(r, 0.9, 0.1)

	require.NoError(t, ctx.UseProgram(renderer.ProgramWorld))
	ctx.BindMesh(3)
	require.NoError(t, ctx.UseProgram(renderer.ProgramSky))
	ctx.BindMesh(3)

	assert.Len(t, ofKind(r.Commands(), renderer.CommandBindMesh), 2)
	assert.Equal(t, renderer.ProgramSky, ctx.Program())
}

func TestRenderContext_DrawCarriesState(t *testing.T) {
	r := openFrame(t)
	ctx := NewRenderContext(r, 0.9, 0.1)
	require.NoError(t, ctx.UseProgram(renderer.ProgramWorld))
	ctx.BindMesh(1)
	ctx.SetTint(common.RGB(1, 0, 0))
	ctx.SetIntensity(0.5, 0.25)
	ctx.Draw(mgl32.Translate3D(1, 2, 3), 6, 12)

	draws := ofKind(r.Commands(), renderer.CommandDrawIndexed)
	require.Len(t, draws, 1)
	d := draws[0].Draw
	assert.Equal(t, uint32(6), d.Start)
	assert.Equal(t, uint32(12), d.Count)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, d.Uniform.Tint)
	assert.Equal(t, float32(0.5), d.Uniform.Diffuse)
	assert.Equal(t, float32(0.25), d.Uniform.Ambient)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, originOfDraw(draws[0]))
}

func TestRenderContext_Reset(t *testing.T) {
	r := openFrame(t)
	ctx := NewRenderContext(r, 0.9, 0.1)
	require.NoError(t, ctx.UseProgram(renderer.ProgramWorld))
	ctx.BindTexture(renderer.NoTexture)
	ctx.SetTint(common.RGB(0, 0, 1))

	ctx.Reset()
	assert.Equal(t, renderer.ProgramNone, ctx.Program())
	assert.Equal(t, renderer.ProgramNone, r.CurrentProgram())
	assert.Equal(t, common.White, ctx.Tint())
	_, bound := ctx.Texture()
	assert.False(t, bound)

	// a second reset has nothing to unbind
	before := len(r.Commands())
	ctx.Reset()
	assert.Len(t, r.Commands(), before)
}

func TestRenderContext_UnregisteredProgram(t *testing.T) {
	r := renderer.NewRenderer(renderer.BackendTypeRecording, nil)
	t.Cleanup(r.Release)
	require.NoError(t, r.BeginFrame(common.White))
	ctx := NewRenderContext(r, 0.9, 0.1)
	assert.Error(t, ctx.UseProgram(renderer.ProgramWorld))
	assert.Equal(t, renderer.ProgramNone, ctx.Program())
}

func TestDeferralQueue_FlushOrder(t *testing.T) {
	var q DeferralQueue
	q.Push(DrawCall{Chunk: 1})
	q.Push(DrawCall{Chunk: 2})
	q.Push(DrawCall{Chunk: 3})
	require.Equal(t, 3, q.Len())

	var seen []int
	n := q.Flush(func(c DrawCall) {
		seen = append(seen, c.Chunk)
		if c.Chunk == 1 {
			q.Push(DrawCall{Chunk: 9})
		}
	})
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, 1, q.Len())

	assert.Equal(t, 1, q.Flush(func(DrawCall) {}))
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Flush(func(DrawCall) { t.Fatal("empty queue replayed") }))
}

func TestSkyDome(t *testing.T) {
	vertices, indices := SkyDome()
	assert.Len(t, vertices, 80)
	assert.Len(t, indices, 378)
	for _, v := range vertices {
		assert.GreaterOrEqual(t, v.Position[2], float32(-1e-6))
		assert.LessOrEqual(t, v.Position[2], float32(1+1e-6))
	}
	for _, i := range indices {
		assert.Less(t, i, uint32(len(vertices)))
	}
	assert.InDelta(t, 1, vertices[len(vertices)-1].Position[2], 1e-6)
}

func TestSkyMatrix_DropsTranslation(t *testing.T) {
	view := mgl32.Translate3D(10, 20, 30)
	assert.Equal(t, mgl32.Ident4(), skyMatrix(mgl32.Ident4(), view))
}
