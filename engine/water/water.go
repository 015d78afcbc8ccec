package water

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidTable is returned when a height table does not match its grid configuration.
var ErrInvalidTable = errors.New("water: invalid height table")

// Config holds the dimensions of the two water grids.
type Config struct {
	// WorldSize is the edge length of the square area both grids cover, centered on the origin.
	WorldSize float32 `mapstructure:"worldSize"`
	// HQDataSize is the tile count per edge of the high-detail grid.
	HQDataSize int `mapstructure:"hqDataSize"`
	// LQDataSize is the tile count per edge of the low-detail grid.
	LQDataSize int `mapstructure:"lqDataSize"`
	// HQDistance bounds the planar camera distance within which high-detail tiles are drawn.
	HQDistance float32 `mapstructure:"hqDistance"`
	// NoWaterIndex is the height index marking a tile without water.
	NoWaterIndex int `mapstructure:"noWaterIndex"`
}

// DefaultConfig returns the standard grid layout.
func DefaultConfig() Config {
	return Config{
		WorldSize:    4096,
		HQDataSize:   128,
		LQDataSize:   64,
		HQDistance:   128,
		NoWaterIndex: 48,
	}
}

// BlockHQ returns the edge length of one high-detail tile.
func (c Config) BlockHQ() float32 { return c.WorldSize / float32(c.HQDataSize) }

// BlockLQ returns the edge length of one low-detail tile.
func (c Config) BlockLQ() float32 { return c.WorldSize / float32(c.LQDataSize) }

// Offset returns the world position of tile (0, 0).
func (c Config) Offset() mgl32.Vec2 { return mgl32.Vec2{-c.WorldSize / 2, -c.WorldSize / 2} }

// HeightTable maps grid cells to water heights.
type HeightTable struct {
	// Heights is indexed by the values stored in RealWater and VisibleWater.
	Heights []float32
	// RealWater is the high-detail grid, indexed x*HQDataSize + y.
	RealWater []int
	// VisibleWater is the low-detail grid, indexed x*LQDataSize + y.
	VisibleWater []int
}

// Validate checks that both grids match the configured sizes.
//
// Parameters:
//   - cfg: the grid configuration
//
// Returns:
//   - error: an error wrapping ErrInvalidTable on mismatch
func (t *HeightTable) Validate(cfg Config) error {
	if cfg.HQDataSize <= 0 || cfg.LQDataSize <= 0 || cfg.WorldSize <= 0 {
		return fmt.Errorf("%w: non-positive grid configuration", ErrInvalidTable)
	}
	if len(t.RealWater) != cfg.HQDataSize*cfg.HQDataSize {
		return fmt.Errorf("%w: high-detail grid has %d cells, want %d", ErrInvalidTable, len(t.RealWater), cfg.HQDataSize*cfg.HQDataSize)
	}
	if len(t.VisibleWater) != cfg.LQDataSize*cfg.LQDataSize {
		return fmt.Errorf("%w: low-detail grid has %d cells, want %d", ErrInvalidTable, len(t.VisibleWater), cfg.LQDataSize*cfg.LQDataSize)
	}
	return nil
}

const (
	// maxHeights is the most heights a byte cell index can address.
	maxHeights = math.MaxUint8 + 1
	// maxCells bounds one grid to 2048x2048 cells.
	maxCells = 2048 * 2048
)

// LoadHeightTable reads a little-endian table: a uint32 height count followed by float32 heights, then
// a uint32 cell count and one byte per high-detail cell, then the same for the low-detail grid.
//
// Parameters:
//   - r: the table source
//
// Returns:
//   - *HeightTable: the parsed table
//   - error: an error if the source is truncated, or wrapping ErrInvalidTable when a count is out of range
func LoadHeightTable(r io.Reader) (*HeightTable, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("error reading height count: %w", err)
	}
	if count > maxHeights {
		return nil, fmt.Errorf("%w: %d heights, at most %d", ErrInvalidTable, count, maxHeights)
	}
	heights := make([]float32, count)
	if err := binary.Read(r, binary.LittleEndian, heights); err != nil {
		return nil, fmt.Errorf("error reading heights: %w", err)
	}

	hqCells, err := readCells(r)
	if err != nil {
		return nil, fmt.Errorf("error reading high-detail grid: %w", err)
	}
	visible, err := readCells(r)
	if err != nil {
		return nil, fmt.Errorf("error reading low-detail grid: %w", err)
	}
	return &HeightTable{Heights: heights, RealWater: hqCells, VisibleWater: visible}, nil
}

// WriteHeightTable writes t in the format read by LoadHeightTable.
//
// Parameters:
//   - w: the destination
//   - t: the table to write
//
// Returns:
//   - error: an error if writing failed or a cell index does not fit a byte
func WriteHeightTable(w io.Writer, t *HeightTable) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(t.Heights))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, t.Heights); err != nil {
		return err
	}
	for _, grid := range [][]int{t.RealWater, t.VisibleWater} {
		cells := make([]uint8, len(grid))
		for i, v := range grid {
			if v < 0 || v > math.MaxUint8 {
				return fmt.Errorf("%w: cell %d index %d", ErrInvalidTable, i, v)
			}
			cells[i] = uint8(v)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(cells))); err != nil {
			return err
		}
		if _, err := w.Write(cells); err != nil {
			return err
		}
	}
	return nil
}

func readCells(r io.Reader) ([]int, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if count > maxCells {
		return nil, fmt.Errorf("%w: %d cells, at most %d", ErrInvalidTable, count, maxCells)
	}
	raw := make([]uint8, count)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	cells := make([]int, count)
	for i, v := range raw {
		cells[i] = int(v)
	}
	return cells, nil
}

// FlatTable builds a table where every cell of both grids shares one height.
//
// Parameters:
//   - cfg: the grid configuration
//   - height: the water height
//
// Returns:
//   - *HeightTable: the table
func FlatTable(cfg Config, height float32) *HeightTable {
	return &HeightTable{
		Heights:      []float32{height},
		RealWater:    make([]int, cfg.HQDataSize*cfg.HQDataSize),
		VisibleWater: make([]int, cfg.LQDataSize*cfg.LQDataSize),
	}
}
