package game_object

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/ai"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	ped := NewCharacter("ped")
	inst := NewInstance(&catalog.ObjectDefinition{ID: 1, ModelName: "house"})
	car := NewVehicle("sedan", &VehicleInfo{WheelModel: "wheel_sport"})

	assert.Equal(t, KindCharacter, ped.Kind())
	assert.Equal(t, KindInstance, inst.Kind())
	assert.Equal(t, KindVehicle, car.Kind())
	assert.Equal(t, "house", inst.ModelName())
	assert.Nil(t, ped.Vehicle())
	assert.Nil(t, ped.Definition())
	require.NotNil(t, car.Vehicle())
	assert.Equal(t, float32(1), car.Vehicle().WheelScale)
	assert.NotEqual(t, ped.ID(), inst.ID())
	assert.Equal(t, "vehicle", KindVehicle.String())
}

func TestConstructorsPanic(t *testing.T) {
	assert.Panics(t, func() { NewInstance(nil) })
	assert.Panics(t, func() { NewVehicle("x", nil) })
}

func TestDefaultsAndOptions(t *testing.T) {
	g := &ai.Graph{}
	node := g.AddNode(ai.NodeTypePedestrian, mgl32.Vec3{1, 2, 3}, 0, false)
	ctrl := ai.NewPathController(node, 1)
	lod := NewInstance(&catalog.ObjectDefinition{ID: 2, ModelName: "lodhouse", IsLOD: true})
	body := physics.NewStaticBody(mgl32.Translate3D(5, 0, 0))

	obj := NewInstance(&catalog.ObjectDefinition{ID: 1, ModelName: "house"},
		WithID(42),
		WithPosition(1, 2, 3),
		WithScale(2, 2, 2),
		WithHeading(1),
		WithLOD(lod),
		WithHiddenFrames("door"),
		WithBody(body),
		WithController(ctrl),
		WithEnabled(false),
	)
	assert.Equal(t, uint64(42), obj.ID())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, obj.Position())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, obj.Scale())
	assert.True(t, obj.Rotation().ApproxEqual(mgl32.QuatRotate(1, mgl32.Vec3{0, 0, 1})))
	assert.Same(t, lod, obj.LOD())
	assert.True(t, obj.IsFrameHidden("door"))
	assert.Equal(t, body, obj.Body())
	assert.Equal(t, ctrl, obj.Controller())
	assert.False(t, obj.Enabled())

	plain := NewCharacter("ped")
	assert.True(t, plain.Enabled())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, plain.Scale())
	assert.Equal(t, mgl32.QuatIdent(), plain.Rotation())
	assert.Nil(t, plain.Animator())
}

func TestVehicle_PhysicsBecomesBody(t *testing.T) {
	pv := physics.NewKinematicVehicle()
	car := NewVehicle("sedan", &VehicleInfo{PrimaryColor: common.RGB(1, 0, 0), WheelScale: 0.5, Physics: pv})
	assert.Equal(t, pv, car.Body())
	assert.Equal(t, float32(0.5), car.Vehicle().WheelScale)
}

func TestFrameHidden_Concurrent(t *testing.T) {
	obj := NewCharacter("ped")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			obj.SetFrameHidden("arm", i%2 == 0)
			_ = obj.IsFrameHidden("arm")
			obj.SetTransform(mgl32.Vec3{float32(i), 0, 0}, mgl32.QuatIdent())
			_ = obj.Position()
		}(i)
	}
	wg.Wait()

	obj.SetFrameHidden("arm", false)
	assert.False(t, obj.IsFrameHidden("arm"))
}

func TestVehicle_WithDefinition(t *testing.T) {
	def := &catalog.ObjectDefinition{ID: 9, ModelName: "sedan", NumClumps: 1, DrawDistance0: 80}
	car := NewVehicle("sedan", &VehicleInfo{}, WithDefinition(def))
	assert.Same(t, def, car.Definition())
	assert.Nil(t, NewVehicle("sedan", &VehicleInfo{}).Definition())

	// an instance keeps its own definition
	own := &catalog.ObjectDefinition{ID: 10, ModelName: "lamp"}
	lamp := NewInstance(own, WithDefinition(def))
	assert.Same(t, own, lamp.Definition())
}
