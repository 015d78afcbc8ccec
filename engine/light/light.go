package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/weather"
	"github.com/go-gl/mathgl/mgl32"
)

// MinutesPerDay is the length of the game day in minutes.
const MinutesPerDay = 24 * 60

const (
	// DefaultMaterialDiffuse is the diffuse intensity applied before any material overrides it.
	DefaultMaterialDiffuse float32 = 0.9
	// DefaultMaterialAmbient is the ambient intensity applied before any material overrides it.
	DefaultMaterialAmbient float32 = 0.1
)

// SceneLighting is the per-frame global lighting state shared by every world draw.
//
// The sun is the only light. Ambient and dynamic colors come from the weather sample, and fog
// blends fragments toward the ambient color between FogStart and FogEnd.
type SceneLighting struct {
	// Ambient is the ambient light color and the fog target color.
	Ambient common.Color
	// Dynamic is the direct sunlight color.
	Dynamic common.Color
	// SunDirection is the unit vector toward the sun.
	SunDirection mgl32.Vec3
	// SkyTop and SkyBottom are the sky gradient endpoints. SkyBottom is also the clear color.
	SkyTop, SkyBottom common.Color
	// FogStart is the distance where fog begins.
	FogStart float32
	// FogEnd is the distance of full fog, equal to the camera far clip.
	FogEnd float32
	// MaterialDiffuse and MaterialAmbient are the default intensity scalars for the frame.
	MaterialDiffuse, MaterialAmbient float32
}

// SunDirection returns the sun direction for a time of day. The sun sits at the nadir at
// midnight, rises in -X and passes the zenith at noon.
//
// Parameters:
//   - timeOfDay: minutes since midnight, wrapped into [0, MinutesPerDay)
//
// Returns:
//   - mgl32.Vec3: the unit sun direction
func SunDirection(timeOfDay float32) mgl32.Vec3 {
	tod := common.WrapFloat(timeOfDay, MinutesPerDay)
	theta := (float64(tod)/MinutesPerDay - 0.5) * 2 * math.Pi
	s, c := math.Sincos(theta)
	return mgl32.Vec3{float32(s), 0, float32(c)}.Normalize()
}

// NewSceneLighting derives the frame's lighting from a weather sample.
//
// Parameters:
//   - cond: the weather conditions for the current hour
//   - timeOfDay: minutes since midnight
//   - options: variadic list of SceneLightingOption functions to override derived values
//
// Returns:
//   - SceneLighting: the lighting state
func NewSceneLighting(cond weather.Conditions, timeOfDay float32, options ...SceneLightingOption) SceneLighting {
	l := SceneLighting{
		Ambient:         opaque(cond.Ambient),
		Dynamic:         opaque(cond.Direct),
		SunDirection:    SunDirection(timeOfDay),
		SkyTop:          opaque(cond.SkyTop),
		SkyBottom:       opaque(cond.SkyBottom),
		FogStart:        cond.FogStart,
		FogEnd:          cond.FarClip,
		MaterialDiffuse: DefaultMaterialDiffuse,
		MaterialAmbient: DefaultMaterialAmbient,
	}
	for _, opt := range options {
		opt(&l)
	}
	return l
}

// ClearColor returns the color the frame is cleared to.
//
// Returns:
//   - common.Color: the sky bottom color
func (l *SceneLighting) ClearColor() common.Color {
	return l.SkyBottom
}

func opaque(c common.Color) common.Color {
	c.A = 1
	return c
}
