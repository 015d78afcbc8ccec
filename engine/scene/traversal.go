package scene

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/game_object"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// frameItem is a pending frame on the traversal stack with its parent's accumulated matrix.
type frameItem struct {
	frame  int
	parent mgl32.Mat4
}

// frameRenderer walks frame trees and submits their chunks for one frame.
type frameRenderer struct {
	ctx      *RenderContext
	culler   *Culler
	resolver *MaterialResolver
	gpu      *gpuCache
	deferred *DeferralQueue
	counters *frameCounters
	alpha    float32

	stack []frameItem
}

// renderModel draws a whole model from its root frame.
func (f *frameRenderer) renderModel(m model.Model, matrix mgl32.Mat4, obj game_object.GameObject, category CullCategory) {
	f.renderFrameTree(m, m.RootFrame(), matrix, obj, category)
}

// renderFrameTree walks the subtree under frame depth first, children in order, without recursion.
// Each frame's local transform is the animator pose when obj has an animator. Chunks of a hidden
// frame are skipped and chunks outside the frustum are counted as culled. Children are visited
// regardless of either.
func (f *frameRenderer) renderFrameTree(m model.Model, frame int, matrix mgl32.Mat4, obj game_object.GameObject, category CullCategory) {
	f.stack = append(f.stack[:0], frameItem{frame: frame, parent: matrix})
	for len(f.stack) > 0 {
		item := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]

		fr := m.Frame(item.frame)
		if fr == nil {
			continue
		}
		world := item.parent.Mul4(f.localTransform(fr, obj))

		if obj == nil || !obj.IsFrameHidden(fr.Name) {
			parentOrigin := common.TranslationOf(item.parent)
			for _, g := range fr.Geometries {
				chunk := m.Geometry(g)
				if chunk == nil {
					continue
				}
				if !f.culler.Intersects(chunk.Bounds.Center.Add(parentOrigin), chunk.Bounds.Radius) {
					f.counters.cull(category)
					continue
				}
				f.renderChunk(m, g, world, obj)
			}
		}

		for i := len(fr.Children) - 1; i >= 0; i-- {
			f.stack = append(f.stack, frameItem{frame: fr.Children[i], parent: world})
		}
	}
}

func (f *frameRenderer) localTransform(fr *model.Frame, obj game_object.GameObject) mgl32.Mat4 {
	if obj != nil {
		if a := obj.Animator(); a != nil {
			return a.PoseOverride(fr, f.alpha, obj.AnimationFixed())
		}
	}
	return fr.Local
}

// renderChunk draws every subgeometry of a chunk, queueing the ones that must wait for the
// transparent pass. The tint starts white for each chunk.
func (f *frameRenderer) renderChunk(m model.Model, g int, matrix mgl32.Mat4, obj game_object.GameObject) {
	chunk := m.Geometry(g)
	f.ctx.SetTint(common.White)
	for sg := range chunk.Subgeometries {
		if !f.renderSubgeometry(m, g, sg, matrix, obj, true) {
			f.deferred.Push(DrawCall{Model: m, Chunk: g, Subgeometry: sg, Matrix: matrix, Object: obj})
			f.counters.Deferred++
		}
	}
}

// renderSubgeometry resolves the material and draws one index range.
//
// Returns:
//   - bool: false when the draw was deferred
func (f *frameRenderer) renderSubgeometry(m model.Model, g, sg int, matrix mgl32.Mat4, obj game_object.GameObject, opaque bool) bool {
	chunk := m.Geometry(g)
	sub := chunk.Subgeometries[sg]

	mesh, ok := f.gpu.mesh(m, g)
	if !ok {
		return true
	}

	// an out of range material index draws with whatever is bound
	if mat := chunk.MaterialFor(sub); mat != nil {
		if f.resolver.Resolve(f.ctx, chunk, mat, obj, opaque) == ResolveDefer {
			return false
		}
	}

	f.ctx.BindMesh(mesh)
	f.counters.Rendered++
	f.ctx.Draw(matrix, sub.Start, sub.Count)
	return true
}

// replay draws a deferred entry with a white tint and its recorded matrix.
func (f *frameRenderer) replay(dc DrawCall) {
	f.ctx.SetTint(common.White)
	f.renderSubgeometry(dc.Model, dc.Chunk, dc.Subgeometry, dc.Matrix, dc.Object, false)
	f.counters.replayed++
}
