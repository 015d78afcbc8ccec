package light

// SceneLightingOption is a functional option applied by NewSceneLighting after the weather-derived values.
type SceneLightingOption func(*SceneLighting)

// WithFogEnd overrides the full-fog distance, normally the camera far clip.
//
// Parameters:
//   - end: the fog end distance
//
// Returns:
//   - SceneLightingOption: a function that applies the fog end option
func WithFogEnd(end float32) SceneLightingOption {
	return func(l *SceneLighting) {
		l.FogEnd = end
	}
}

// WithMaterialDefaults overrides the default material intensity scalars.
//
// Parameters:
//   - diffuse: the default diffuse intensity
//   - ambient: the default ambient intensity
//
// Returns:
//   - SceneLightingOption: a function that applies the material defaults option
func WithMaterialDefaults(diffuse, ambient float32) SceneLightingOption {
	return func(l *SceneLighting) {
		l.MaterialDiffuse = diffuse
		l.MaterialAmbient = ambient
	}
}
