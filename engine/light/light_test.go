package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name string
		tod  float32
		x, z float32
	}{
		{"midnight", 0, 0, -1},
		{"six", 360, -1, 0},
		{"noon", 720, 0, 1},
		{"eighteen", 1080, 1, 0},
		{"wraps", 1440 + 720, 0, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := SunDirection(tc.tod)
			assert.InDelta(t, tc.x, d[0], 1e-5)
			assert.InDelta(t, 0, d[1], 1e-6)
			assert.InDelta(t, tc.z, d[2], 1e-5)
			assert.InDelta(t, 1, d.Len(), 1e-5)
		})
	}
}

func TestNewSceneLighting(t *testing.T) {
	cond := weather.Conditions{
		SkyTop:    common.Color{R: 0.1, G: 0.2, B: 0.9},
		SkyBottom: common.Color{R: 0.7, G: 0.8, B: 0.9},
		Ambient:   common.Color{R: 0.3, G: 0.3, B: 0.3},
		Direct:    common.Color{R: 1, G: 0.9, B: 0.8},
		FogStart:  100,
		FarClip:   800,
	}
	l := NewSceneLighting(cond, 720)
	assert.Equal(t, float32(1), l.Ambient.A)
	assert.Equal(t, float32(100), l.FogStart)
	assert.Equal(t, float32(800), l.FogEnd)
	assert.Equal(t, DefaultMaterialDiffuse, l.MaterialDiffuse)
	assert.Equal(t, DefaultMaterialAmbient, l.MaterialAmbient)
	assert.Equal(t, common.Color{R: 0.7, G: 0.8, B: 0.9, A: 1}, l.ClearColor())

	l = NewSceneLighting(cond, 0, WithFogEnd(400), WithMaterialDefaults(0.5, 0.5))
	assert.Equal(t, float32(400), l.FogEnd)
	assert.Equal(t, float32(0.5), l.MaterialAmbient)
}

func TestGPUSceneUniform_Marshal(t *testing.T) {
	l := NewSceneLighting(weather.Conditions{FogStart: 50, FarClip: 600}, 720)
	u := NewGPUSceneUniform(l)
	require.Equal(t, 96, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 96)
	at := func(offset int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:])) }
	assert.Equal(t, float32(1), at(12))
	assert.InDelta(t, 1, at(40), 1e-5)
	assert.Equal(t, float32(50), at(44))
	assert.Equal(t, float32(600), at(80))
	assert.Equal(t, DefaultMaterialDiffuse, at(84))
	assert.Equal(t, DefaultMaterialAmbient, at(88))
}
