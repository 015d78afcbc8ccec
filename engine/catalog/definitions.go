package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"gorm.io/datatypes"
)

// ObjectDefinition describes a placeable object type: its model, draw distances and visibility window.
type ObjectDefinition struct {
	ID                uint   `gorm:"primaryKey;autoIncrement:false"`
	ModelName         string `gorm:"index"`
	TextureDictionary string
	// NumClumps is 1 for ordinary objects; larger values mean the root frame's children are
	// alternative detail levels, from far (second to last) to near (last).
	NumClumps     int `gorm:"default:1"`
	DrawDistance0 float32
	DrawDistance1 float32
	// TimeOn and TimeOff bound the hours in which the object is visible. Equal values mean always.
	TimeOn  int
	TimeOff int
	IsLOD   bool
	// LODID links a high-detail definition to the low-detail definition drawn beyond DrawDistance0. Zero means none.
	LODID uint
}

// DrawDistances returns both draw distance thresholds.
func (d *ObjectDefinition) DrawDistances() [2]float32 {
	return [2]float32{d.DrawDistance0, d.DrawDistance1}
}

// VehicleDefinition describes a vehicle type and its wheel layout.
type VehicleDefinition struct {
	ID        uint   `gorm:"primaryKey;autoIncrement:false"`
	ModelName string `gorm:"index"`
	// WheelModelID references the ObjectDefinition whose ModelName names the wheel frame inside the shared wheels model.
	WheelModelID   uint
	WheelScale     float32 `gorm:"default:1"`
	PrimaryColor   uint32
	SecondaryColor uint32
	WheelOffsets   datatypes.JSON
	// NumClumps and the draw distances follow the ObjectDefinition rules for the body model.
	NumClumps     int `gorm:"default:1"`
	DrawDistance0 float32
	DrawDistance1 float32
}

// DrawDefinition returns the body's level of detail settings as an ObjectDefinition, the shape
// the renderer reads for every object kind. Zero clumps are treated as one.
//
// Returns:
//   - *ObjectDefinition: a definition carrying the model name, clump count and draw distances
func (v *VehicleDefinition) DrawDefinition() *ObjectDefinition {
	return &ObjectDefinition{
		ID:            v.ID,
		ModelName:     v.ModelName,
		NumClumps:     max(v.NumClumps, 1),
		DrawDistance0: v.DrawDistance0,
		DrawDistance1: v.DrawDistance1,
	}
}

// SetWheelOffsets encodes the chassis-space wheel connection points.
//
// Parameters:
//   - offsets: one point per wheel
//
// Returns:
//   - error: an error if the points could not be encoded
func (v *VehicleDefinition) SetWheelOffsets(offsets []mgl32.Vec3) error {
	raw, err := json.Marshal(offsets)
	if err != nil {
		return fmt.Errorf("error encoding wheel offsets: %w", err)
	}
	v.WheelOffsets = datatypes.JSON(raw)
	return nil
}

// Wheels decodes the chassis-space wheel connection points.
//
// Returns:
//   - []mgl32.Vec3: the wheel points, nil when none are stored
//   - error: an error if the stored JSON is malformed
func (v *VehicleDefinition) Wheels() ([]mgl32.Vec3, error) {
	if len(v.WheelOffsets) == 0 {
		return nil, nil
	}
	var offsets []mgl32.Vec3
	if err := json.Unmarshal(v.WheelOffsets, &offsets); err != nil {
		return nil, fmt.Errorf("error decoding wheel offsets for vehicle %d: %w", v.ID, err)
	}
	return offsets, nil
}

// unpackColor splits a 0xRRGGBBAA value into bytes.
func unpackColor(c uint32) [4]uint8 {
	return [4]uint8{uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)}
}

// Colors returns the primary and secondary paint as RGBA bytes.
func (v *VehicleDefinition) Colors() (primary, secondary [4]uint8) {
	return unpackColor(v.PrimaryColor), unpackColor(v.SecondaryColor)
}

// PackColor builds the 0xRRGGBBAA value stored in VehicleDefinition color fields.
func PackColor(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

var models = []any{&ObjectDefinition{}, &VehicleDefinition{}}
