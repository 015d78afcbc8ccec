package water

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Tile is one water quad chosen for drawing.
type Tile struct {
	X, Y   int
	Origin mgl32.Vec2
	Size   float32
	Height float32
}

// Model returns the tile's world matrix for a unit quad spanning [0,1] in the xy plane: the quad is
// scaled to the block size and lifted to the tile's water height.
func (t Tile) Model() mgl32.Mat4 {
	return mgl32.Translate3D(t.Origin[0], t.Origin[1], t.Height).Mul4(mgl32.Scale3D(t.Size, t.Size, 1))
}

// SelectTiles picks the high- and low-detail tiles to draw for a camera position.
//
// A high-detail tile is drawn when its center lies within HQDistance plus half a tile of the camera.
// A low-detail tile is drawn when it lies clear of the high-detail band, within the far clip, and its
// footprint holds no high-detail tile drawn this frame, so the two sets never overlap. Cells whose height
// index is NoWaterIndex or beyond, or outside the height list, are skipped.
//
// Parameters:
//   - cfg: the grid configuration
//   - table: the height table, already validated against cfg
//   - camera: the camera position projected onto the xy plane
//   - far: the far clip distance
//
// Returns:
//   - hq: the high-detail tiles in x-major order
//   - lq: the low-detail tiles in x-major order
func SelectTiles(cfg Config, table *HeightTable, camera mgl32.Vec2, far float32) (hq, lq []Tile) {
	blockHQ := cfg.BlockHQ()
	blockLQ := cfg.BlockLQ()
	offset := cfg.Offset()

	drawnHQ := make([]bool, cfg.HQDataSize*cfg.HQDataSize)
	for x := 0; x < cfg.HQDataSize; x++ {
		for y := 0; y < cfg.HQDataSize; y++ {
			origin := offset.Add(mgl32.Vec2{float32(x), float32(y)}.Mul(blockHQ))
			d := planarDistance(camera, origin, blockHQ)
			if d-blockHQ/2 >= cfg.HQDistance {
				continue
			}
			i := x*cfg.HQDataSize + y
			h, ok := cfg.height(table, table.RealWater[i])
			if !ok {
				continue
			}
			drawnHQ[i] = true
			hq = append(hq, Tile{X: x, Y: y, Origin: origin, Size: blockHQ, Height: h})
		}
	}

	for x := 0; x < cfg.LQDataSize; x++ {
		for y := 0; y < cfg.LQDataSize; y++ {
			origin := offset.Add(mgl32.Vec2{float32(x), float32(y)}.Mul(blockLQ))
			d := planarDistance(camera, origin, blockLQ)
			if d-blockHQ/4 < cfg.HQDistance {
				continue
			}
			if d-blockLQ/2 > far {
				continue
			}
			h, ok := cfg.height(table, table.VisibleWater[x*cfg.LQDataSize+y])
			if !ok {
				continue
			}
			if cfg.coversDrawnHQ(drawnHQ, x, y, blockLQ, blockHQ) {
				continue
			}
			lq = append(lq, Tile{X: x, Y: y, Origin: origin, Size: blockLQ, Height: h})
		}
	}
	return hq, lq
}

func planarDistance(camera, origin mgl32.Vec2, block float32) float32 {
	center := origin.Add(mgl32.Vec2{block / 2, block / 2})
	return center.Sub(camera).Len()
}

func (c Config) height(table *HeightTable, index int) (float32, bool) {
	if index >= c.NoWaterIndex || index < 0 || index >= len(table.Heights) {
		return 0, false
	}
	return table.Heights[index], true
}

// coversDrawnHQ reports whether the footprint of low-detail tile (x, y) holds any drawn high-detail tile.
func (c Config) coversDrawnHQ(drawn []bool, x, y int, blockLQ, blockHQ float32) bool {
	ratio := float64(blockLQ / blockHQ)
	x0, x1 := int(math.Floor(float64(x)*ratio)), int(math.Ceil(float64(x+1)*ratio))
	y0, y1 := int(math.Floor(float64(y)*ratio)), int(math.Ceil(float64(y+1)*ratio))
	x1, y1 = min(x1, c.HQDataSize), min(y1, c.HQDataSize)
	for hx := max(x0, 0); hx < x1; hx++ {
		for hy := max(y0, 0); hy < y1; hy++ {
			if drawn[hx*c.HQDataSize+hy] {
				return true
			}
		}
	}
	return false
}
