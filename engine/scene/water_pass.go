package scene

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/Carmen-Shannon/oxy-world/engine/water"
	"github.com/go-gl/mathgl/mgl32"
)

// waterTexture is the texture cache name of the water surface.
const waterTexture = "water_old"

// renderWater draws the high and low detail water tiles around the camera. It enters with any
// program and leaves with ProgramWater bound.
func (s *scene) renderWater(camPos mgl32.Vec3, far float32) error {
	if s.waterTable == nil {
		return nil
	}
	ctx := s.fr.ctx
	if err := ctx.UseProgram(renderer.ProgramWater); err != nil {
		return err
	}
	texture := renderer.NoTexture
	if tex, ok := s.textures.Texture(waterTexture); ok {
		texture = s.gpu.texture(tex)
	}
	ctx.BindTexture(texture)
	ctx.SetTint(common.White)
	ctx.SetIntensity(s.lighting.MaterialDiffuse, s.lighting.MaterialAmbient)

	hq, lq := water.SelectTiles(s.waterCfg, s.waterTable, cameraPlanar(camPos), far)
	for _, t := range hq {
		ctx.DrawWater(t.Model())
	}
	for _, t := range lq {
		ctx.DrawWater(t.Model())
	}
	s.fr.counters.Water = len(hq) + len(lq)
	return nil
}
