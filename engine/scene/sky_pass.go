package scene

import (
	"math"

	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	skySegments = 8
	skyRows     = 10
)

// SkyDome builds the upper hemisphere mesh of the sky: rows of rings from the horizon (z = 0) to the
// zenith (z = 1), each ring split into segments.
//
// Returns:
//   - []model.Vertex: rows × segments vertices
//   - []uint32: two triangles for each of the (rows−1) × (segments−1) quads
func SkyDome() ([]model.Vertex, []uint32) {
	r := 1 / float64(skyRows-1)
	s := 1 / float64(skySegments-1)

	vertices := make([]model.Vertex, 0, skyRows*skySegments)
	for row := 0; row < skyRows; row++ {
		elevation := math.Pi / 2 * float64(row) * r
		for seg := 0; seg < skySegments; seg++ {
			azimuth := 2 * math.Pi * float64(seg) * s
			pos := [3]float32{
				float32(math.Cos(azimuth) * math.Cos(elevation)),
				float32(math.Sin(azimuth) * math.Cos(elevation)),
				float32(math.Sin(elevation)),
			}
			vertices = append(vertices, model.Vertex{Position: pos, Normal: pos, Color: [4]float32{1, 1, 1, 1}})
		}
	}

	indices := make([]uint32, 0, (skyRows-1)*(skySegments-1)*6)
	for row := uint32(0); row < skyRows-1; row++ {
		for seg := uint32(0); seg < skySegments-1; seg++ {
			a := row*skySegments + seg
			b := row*skySegments + seg + 1
			c := (row+1)*skySegments + seg + 1
			d := (row+1)*skySegments + seg
			indices = append(indices, a, b, c, a, c, d)
		}
	}
	return vertices, indices
}

// skyMatrix is the projection times the view with its translation removed, so the dome stays
// centered on the camera.
func skyMatrix(proj, view mgl32.Mat4) mgl32.Mat4 {
	view[12], view[13], view[14] = 0, 0, 0
	return proj.Mul4(view)
}

// renderSky draws the dome and leaves no program bound.
func (s *scene) renderSky(proj, view mgl32.Mat4) error {
	ctx := s.fr.ctx
	if err := ctx.UseProgram(renderer.ProgramSky); err != nil {
		return err
	}
	ctx.BindMesh(s.skyMesh)
	ctx.DrawSky(skyMatrix(proj, view), s.skyIndexCount)
	ctx.Reset()
	return nil
}
