package physics

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestStaticBody(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	assert.Equal(t, m, NewStaticBody(m).WorldTransform())
}

func TestKinematicVehicle_WheelTransform(t *testing.T) {
	v := NewKinematicVehicle(
		WithPosition(mgl32.Vec3{10, 0, 0}),
		WithWheels(mgl32.Vec3{-1, 1.5, 0}, mgl32.Vec3{1, 1.5, 0}),
		WithSuspension(0.25, 0.5),
	)
	assert.Equal(t, 2, v.WheelCount())
	assert.Equal(t, mgl32.Vec3{-1, 1.5, 0}, v.WheelConnectionPoint(0))

	hub := common.TranslationOf(v.WheelTransform(1))
	assert.InDelta(t, 11, hub[0], 1e-5)
	assert.InDelta(t, 1.5, hub[1], 1e-5)
	assert.InDelta(t, -0.25, hub[2], 1e-5)

	assert.Equal(t, mgl32.Ident4(), v.WheelTransform(5))
	assert.Equal(t, mgl32.Vec3{}, v.WheelConnectionPoint(-1))
}

func TestKinematicVehicle_Step(t *testing.T) {
	v := NewKinematicVehicle(WithMotion(2, 0))
	v.Step(1.5)
	pos := v.Position()
	assert.InDelta(t, 0, pos[0], 1e-5)
	assert.InDelta(t, 3, pos[1], 1e-5)

	v.SetSpeed(1)
	v.SetYawRate(math.Pi / 2)
	v.Step(1)
	// a quarter turn to the left faces -X
	pos = v.Position()
	assert.InDelta(t, -1, pos[0], 1e-5)
	assert.InDelta(t, 3, pos[1], 1e-5)
}
