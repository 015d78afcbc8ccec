package material

import (
	"github.com/Carmen-Shannon/oxy-world/common"
)

// MaterialFlag is a bit set selecting per-object color substitution for a material.
type MaterialFlag uint32

const (
	// MaterialFlagPrimaryColor substitutes the owning vehicle's primary color for the material color.
	MaterialFlagPrimaryColor MaterialFlag = 1 << iota

	// MaterialFlagSecondaryColor substitutes the owning vehicle's secondary color for the material color.
	MaterialFlagSecondaryColor
)

// TextureRef names a texture in the texture cache. The renderer resolves it every frame.
type TextureRef struct {
	Name string
}

// material is the implementation of the Material interface.
type material struct {
	name     string
	color    [4]uint8
	diffuse  float32
	ambient  float32
	textures []TextureRef
	flags    MaterialFlag
}

// Material defines the interface for a surface material attached to a geometry chunk.
//
// A Material is immutable once built. It carries the stored base color in byte range, the lighting
// intensity scalars and an ordered list of texture references. Flag bits mark the material as a
// slot for a vehicle's primary or secondary paint.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the stored base color in byte range.
	//
	// Returns:
	//   - [4]uint8: the RGBA color
	Color() [4]uint8

	// Tint returns the stored base color scaled to the [0, 1] range.
	//
	// Returns:
	//   - common.Color: the normalized color
	Tint() common.Color

	// DiffuseIntensity retrieves the diffuse lighting scalar.
	//
	// Returns:
	//   - float32: the diffuse intensity
	DiffuseIntensity() float32

	// AmbientIntensity retrieves the ambient lighting scalar.
	//
	// Returns:
	//   - float32: the ambient intensity
	AmbientIntensity() float32

	// Textures retrieves the ordered texture references of the material.
	//
	// Returns:
	//   - []TextureRef: the texture references, first entry is the diffuse map
	Textures() []TextureRef

	// Flags retrieves the color substitution flags.
	//
	// Returns:
	//   - MaterialFlag: the flag bits
	Flags() MaterialFlag

	// HasFlag reports whether every bit of f is set on the material.
	//
	// Parameters:
	//   - f: the flag bits to test
	//
	// Returns:
	//   - bool: true if all bits are set
	HasFlag(f MaterialFlag) bool
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults to an opaque white color with full diffuse and no ambient contribution.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		color:   [4]uint8{255, 255, 255, 255},
		diffuse: 1.0,
		ambient: 0.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() [4]uint8 {
	return m.color
}

func (m *material) Tint() common.Color {
	return common.ColorFromBytes(m.color)
}

func (m *material) DiffuseIntensity() float32 {
	return m.diffuse
}

func (m *material) AmbientIntensity() float32 {
	return m.ambient
}

func (m *material) Textures() []TextureRef {
	return m.textures
}

func (m *material) Flags() MaterialFlag {
	return m.flags
}

func (m *material) HasFlag(f MaterialFlag) bool {
	return m.flags&f == f
}
