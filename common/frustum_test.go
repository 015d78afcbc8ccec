package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func lookDownFrustum(far float32) Frustum {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, far)
	return ExtractFrustum(proj.Mul4(view))
}

func TestExtractFrustum_PlanesAreNormalized(t *testing.T) {
	f := lookDownFrustum(100)
	for i, p := range f.Planes {
		assert.InDelta(t, 1.0, p.Normal.Len(), 1e-5, "plane %d", i)
	}
}

func TestIntersectsSphere_FarClip(t *testing.T) {
	tests := []struct {
		name   string
		far    float32
		center mgl32.Vec3
		radius float32
		want   bool
	}{
		{name: "inside far 100", far: 100, center: mgl32.Vec3{}, radius: 1, want: true},
		{name: "beyond far 5", far: 5, center: mgl32.Vec3{}, radius: 1, want: false},
		{name: "straddles far plane", far: 9.5, center: mgl32.Vec3{}, radius: 1, want: true},
		{name: "behind camera", far: 100, center: mgl32.Vec3{0, 0, 20}, radius: 1, want: false},
		{name: "far to the side", far: 100, center: mgl32.Vec3{100, 0, 0}, radius: 1, want: false},
		{name: "touching side plane", far: 100, center: mgl32.Vec3{6.5, 0, 0}, radius: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := lookDownFrustum(tt.far)
			assert.Equal(t, tt.want, f.IntersectsSphere(tt.center, tt.radius))
		})
	}
}

func TestPlane_SignedDistance(t *testing.T) {
	p := Plane{Normal: mgl32.Vec3{0, 0, 1}, Distance: -2}
	assert.InDelta(t, 3.0, p.SignedDistance(mgl32.Vec3{0, 0, 5}), 1e-6)
	assert.InDelta(t, -2.0, p.SignedDistance(mgl32.Vec3{}), 1e-6)
}

func TestColorFromBytes(t *testing.T) {
	c := ColorFromBytes([4]uint8{255, 0, 51, 255})
	assert.InDelta(t, 1.0, c.R, 1e-6)
	assert.InDelta(t, 0.0, c.G, 1e-6)
	assert.InDelta(t, 0.2, c.B, 1e-6)
	assert.InDelta(t, 1.0, c.A, 1e-6)
}

func TestWrapFloat(t *testing.T) {
	assert.InDelta(t, 60.0, WrapFloat(1500, 1440), 1e-4)
	assert.InDelta(t, 1380.0, WrapFloat(-60, 1440), 1e-4)
	assert.InDelta(t, 0.0, WrapFloat(0, 1440), 1e-6)
}
