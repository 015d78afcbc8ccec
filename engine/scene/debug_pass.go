package scene

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/ai"
	"github.com/Carmen-Shannon/oxy-world/engine/game_object"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	carLineColor = common.RGB(1, 0, 0)
	pedLineColor = common.RGB(0, 1, 0)
)

// pathLines collects the debug segments of the AI graph and of every pedestrian heading for a
// target. Vehicle lanes and pedestrian targets go to car, pedestrian nodes and links go to ped.
func (s *scene) pathLines(graph *ai.Graph, peds []game_object.GameObject) (car, ped []renderer.LineVertex) {
	car, ped = s.carLines[:0], s.pedLines[:0]
	up1 := mgl32.Vec3{0, 0, 1}
	line := func(dst []renderer.LineVertex, a, b mgl32.Vec3, c common.Color) []renderer.LineVertex {
		return append(dst, renderer.NewLineVertex(a, c), renderer.NewLineVertex(b, c))
	}

	if graph != nil {
		graph.Each(func(n *ai.Node) {
			if n.Type == ai.NodeTypePedestrian {
				height := mgl32.Vec3{0, 0, 1}
				if n.External {
					height = mgl32.Vec3{0, 0, 2}
				}
				ped = line(ped, n.Position, n.Position.Add(height), pedLineColor)
			} else {
				half := mgl32.Vec3{n.Size / 2, 0, 0}
				car = line(car, n.Position.Sub(half), n.Position.Add(half), carLineColor)
			}
			for _, end := range n.Connections {
				if n.Type == ai.NodeTypePedestrian {
					ped = line(ped, n.Position.Add(up1), end.Position.Add(up1), pedLineColor)
				} else {
					car = line(car, n.Position.Add(up1), end.Position.Add(up1), carLineColor)
				}
			}
		})
	}

	for _, p := range peds {
		if c := p.Controller(); c != nil {
			car = line(car, p.Position(), c.TargetPosition(), carLineColor)
		}
	}
	return car, ped
}

// RenderPaths draws the AI graph and pedestrian targets as lines into the open frame. The lines
// program is left unbound afterwards.
func (s *scene) RenderPaths() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.world.Snapshot()
	car, ped := s.pathLines(snap.Graph, snap.Pedestrians)

	ctx := s.fr.ctx
	if ctx == nil {
		ctx = NewRenderContext(s.renderer, s.lighting.MaterialDiffuse, s.lighting.MaterialAmbient)
	}
	if err := ctx.UseProgram(renderer.ProgramLines); err != nil {
		s.logger.Error().Err(err).Msg("debug paths skipped")
		return
	}
	ctx.DrawLines(car)
	ctx.DrawLines(ped)
	ctx.Reset()

	// keep the backing arrays for the next frame
	s.carLines, s.pedLines = car[:0], ped[:0]
}
