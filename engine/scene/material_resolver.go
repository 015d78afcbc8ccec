package scene

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/assets"
	"github.com/Carmen-Shannon/oxy-world/engine/game_object"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
)

// ResolveResult tells the caller what to do with a subgeometry after material resolution.
type ResolveResult int

const (
	// ResolveDraw means the binding state is ready and the subgeometry should be drawn now.
	ResolveDraw ResolveResult = iota

	// ResolveDefer means the subgeometry uses a transparent texture and must wait for the replay pass.
	ResolveDefer
)

// MaterialResolver turns a material into binding state on a RenderContext.
type MaterialResolver struct {
	textures assets.TextureCache
	gpu      *gpuCache
}

// Resolve binds the material's first texture, selects the tint and sets the lighting intensities.
//
// A transparent texture during an opaque pass defers the draw before anything is changed. A
// texture missing from the cache binds the white texture. The tint is only selected on opaque
// passes and only for chunks flagged with ModuleMaterialColor: the owning vehicle's primary or
// secondary color when the material asks for it, otherwise the material color.
//
// Parameters:
//   - ctx: the frame's binding state
//   - chunk: the geometry chunk being drawn
//   - mat: the subgeometry's material, must not be nil
//   - obj: the owning object, may be nil
//   - opaque: whether this is the opaque pass
//
// Returns:
//   - ResolveResult: ResolveDefer when the draw must be queued, otherwise ResolveDraw
func (m *MaterialResolver) Resolve(ctx *RenderContext, chunk *model.GeometryChunk, mat material.Material, obj game_object.GameObject, opaque bool) ResolveResult {
	texture := renderer.NoTexture
	if refs := mat.Textures(); len(refs) > 0 {
		if tex, ok := m.textures.Texture(refs[0].Name); ok {
			if tex.Transparent && opaque {
				return ResolveDefer
			}
			texture = m.gpu.texture(tex)
		}
	}
	ctx.BindTexture(texture)

	if opaque && chunk.Flags.Has(model.ModuleMaterialColor) {
		ctx.SetTint(materialTint(mat, obj))
	}
	ctx.SetIntensity(mat.DiffuseIntensity(), mat.AmbientIntensity())
	return ResolveDraw
}

func materialTint(mat material.Material, obj game_object.GameObject) common.Color {
	if obj != nil && obj.Kind() == game_object.KindVehicle {
		if info := obj.Vehicle(); info != nil {
			switch {
			case mat.HasFlag(material.MaterialFlagPrimaryColor):
				return opaqueColor(info.PrimaryColor)
			case mat.HasFlag(material.MaterialFlagSecondaryColor):
				return opaqueColor(info.SecondaryColor)
			}
		}
	}
	return opaqueColor(mat.Tint())
}

func opaqueColor(c common.Color) common.Color {
	c.A = 1
	return c
}
