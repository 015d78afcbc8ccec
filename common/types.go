// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGBA color with components in the [0, 1] range.
type Color struct {
	R, G, B, A float32
}

// White is the identity tint. Multiplying by it leaves vertex and texture colors untouched.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// ColorFromBytes converts 8-bit color channels into a Color, scaling each component by 1/255.
//
// Parameters:
//   - rgba: the byte-range color
//
// Returns:
//   - Color: the normalized color
func ColorFromBytes(rgba [4]uint8) Color {
	return Color{
		R: float32(rgba[0]) / 255,
		G: float32(rgba[1]) / 255,
		B: float32(rgba[2]) / 255,
		A: float32(rgba[3]) / 255,
	}
}

// RGB returns an opaque color from the given components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Vec4 returns the color as an mgl32.Vec4 for uniform packing.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// Lerp linearly interpolates between c and other by t.
//
// Parameters:
//   - other: the target color
//   - t: the interpolation fraction, 0 returns c and 1 returns other
//
// Returns:
//   - Color: the blended color
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Translate returns the sphere offset by the given vector.
func (s Sphere) Translate(offset mgl32.Vec3) Sphere {
	return Sphere{Center: s.Center.Add(offset), Radius: s.Radius}
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero fields fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	MaxAnisotropy                            uint16
}

// TranslationOf returns the translation column of an affine transform.
func TranslationOf(m mgl32.Mat4) mgl32.Vec3 {
	return m.Col(3).Vec3()
}
