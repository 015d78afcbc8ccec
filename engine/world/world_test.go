package world

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-world/engine/ai"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/game_object"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/physics"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/animator"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_SortsByKindAndKeepsOrder(t *testing.T) {
	w := NewWorld()
	p1 := game_object.NewCharacter("a")
	p2 := game_object.NewCharacter("b")
	inst := game_object.NewInstance(&catalog.ObjectDefinition{ModelName: "house"})
	car := game_object.NewVehicle("car", &game_object.VehicleInfo{})
	w.Add(p1, inst, car, p2)

	snap := w.Snapshot()
	assert.Equal(t, []game_object.GameObject{p1, p2}, snap.Pedestrians)
	assert.Equal(t, []game_object.GameObject{inst}, snap.Instances)
	assert.Equal(t, []game_object.GameObject{car}, snap.Vehicles)

	assert.True(t, w.Remove(p1.ID()))
	assert.False(t, w.Remove(p1.ID()))
	assert.Equal(t, []game_object.GameObject{p2}, w.Snapshot().Pedestrians)
	// the earlier snapshot is unaffected
	assert.Len(t, snap.Pedestrians, 2)
}

func TestAdvance_Clock(t *testing.T) {
	w := NewWorld(WithStartTime(1439), WithTimeScale(2))
	w.Advance(1)
	assert.InDelta(t, 1, w.GameTime(), 1e-4)

	w.SetGameTime(-60)
	assert.InDelta(t, 1380, w.GameTime(), 1e-4)
	assert.InDelta(t, 23, w.Snapshot().Hour(), 1e-4)
}

func TestAdvance_TicksAnimators(t *testing.T) {
	m := model.NewModel(
		model.WithFrames([]model.Frame{{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent}}),
		model.WithAnimations([]*model.AnimationClip{{Name: "idle", Duration: 10}}),
	)
	a := animator.NewAnimator(m, animator.WithClip("idle", true))
	w := NewWorld()
	w.Add(game_object.NewInstance(&catalog.ObjectDefinition{ModelName: "m"}, game_object.WithAnimator(a, false)))

	w.Advance(0.5)
	w.Advance(0.25)
	assert.InDelta(t, 0.75, a.Time(), 1e-5)
}

func TestAdvance_DrivesVehicles(t *testing.T) {
	pv := physics.NewKinematicVehicle(physics.WithMotion(4, 0))
	car := game_object.NewVehicle("car", &game_object.VehicleInfo{Physics: pv})
	w := NewWorld()
	w.Add(car)

	w.Advance(0.5)
	assert.InDelta(t, 2, car.Position()[1], 1e-5)
}

func TestAdvance_WalksTowardTarget(t *testing.T) {
	g := &ai.Graph{}
	target := g.AddNode(ai.NodeTypePedestrian, mgl32.Vec3{10, 0, 0}, 0, false)
	ped := game_object.NewCharacter("ped", game_object.WithController(ai.NewPathController(target, 0.5)))
	w := NewWorld(WithGraph(g), WithWalkSpeed(2))
	w.Add(ped)
	require.Same(t, g, w.Graph())

	w.Advance(1)
	assert.InDelta(t, 2, ped.Position()[0], 1e-5)

	// facing +X after turning from +Y
	facing := ped.Rotation().Rotate(mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, 1, facing[0], 1e-4)

	for i := 0; i < 10; i++ {
		w.Advance(1)
	}
	assert.InDelta(t, 10, ped.Position()[0], 1e-4)
}
