package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that sets the stored byte-range RGBA color of the material.
//
// Parameters:
//   - color: the base color with 0-255 components
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color [4]uint8) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithIntensities is an option builder that sets the diffuse and ambient lighting scalars.
//
// Parameters:
//   - diffuse: the diffuse intensity
//   - ambient: the ambient intensity
//
// Returns:
//   - MaterialBuilderOption: a function that applies the intensities option to a material
func WithIntensities(diffuse, ambient float32) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = diffuse
		m.ambient = ambient
	}
}

// WithTexture appends a texture reference by name.
//
// Parameters:
//   - name: the texture cache key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(name string) MaterialBuilderOption {
	return func(m *material) {
		m.textures = append(m.textures, TextureRef{Name: name})
	}
}

// WithTextures replaces the texture reference list.
func WithTextures(refs []TextureRef) MaterialBuilderOption {
	return func(m *material) {
		m.textures = refs
	}
}

// WithFlags is an option builder that sets the color substitution flags.
//
// Parameters:
//   - flags: the MaterialFlag bit set
//
// Returns:
//   - MaterialBuilderOption: a function that applies the flags option to a material
func WithFlags(flags MaterialFlag) MaterialBuilderOption {
	return func(m *material) {
		m.flags = flags
	}
}
