package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/ai"
	"github.com/Carmen-Shannon/oxy-world/engine/assets"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/game_object"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/physics"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-world/engine/water"
	"github.com/Carmen-Shannon/oxy-world/engine/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	r     renderer.Renderer
	world world.World
	store assets.Store
	cam   camera.Camera
	scene Scene
}

// newFixture builds a scene on the recording backend with the camera at the origin looking
// along +Y at noon.
func newFixture(t *testing.T, options ...SceneBuilderOption) *fixture {
	t.Helper()
	return newFixtureWithWorld(t, world.NewWorld(world.WithStartTime(720)), options...)
}

func newFixtureWithWorld(t *testing.T, w world.World, options ...SceneBuilderOption) *fixture {
	t.Helper()
	r := renderer.NewRenderer(renderer.BackendTypeRecording, nil)
	t.Cleanup(r.Release)
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(
		camera.WithPosition(mgl32.Vec3{0, 0, 0}),
		camera.WithAngles(0, 0),
	)))
	cam.Update()
	store := assets.NewStore()
	return &fixture{r: r, world: w, store: store, cam: cam, scene: NewScene(r, cam, w, store, options...)}
}

func (f *fixture) render(t *testing.T) []renderer.Command {
	t.Helper()
	require.NoError(t, f.scene.RenderWorld(1))
	return f.r.Commands()
}

func boxModel(name string, flags model.ModuleFlags, materials ...material.Material) model.Model {
	return model.NewModel(
		model.WithName(name),
		model.WithFrames([]model.Frame{{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent, Geometries: []int{0}}}),
		model.WithGeometries([]model.GeometryChunk{model.NewBoxChunk(1, flags, materials...)}),
	)
}

func ofKind(cmds []renderer.Command, kind renderer.CommandKind) []renderer.Command {
	var out []renderer.Command
	for _, c := range cmds {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func indexOf(cmds []renderer.Command, kind renderer.CommandKind) int {
	for i, c := range cmds {
		if c.Kind == kind {
			return i
		}
	}
	return -1
}

func tintOf(c renderer.Command) common.Color {
	t := c.Draw.Uniform.Tint
	return common.Color{R: t[0], G: t[1], B: t[2], A: t[3]}
}

func originOfDraw(c renderer.Command) mgl32.Vec3 {
	return common.TranslationOf(mgl32.Mat4(c.Draw.Uniform.Model))
}

func TestNewScene_NilDependenciesPanic(t *testing.T) {
	r := renderer.NewRenderer(renderer.BackendTypeRecording, nil)
	cam := camera.NewCamera()
	w := world.NewWorld()
	store := assets.NewStore()
	assert.Panics(t, func() { NewScene(nil, cam, w, store) })
	assert.Panics(t, func() { NewScene(r, nil, w, store) })
	assert.Panics(t, func() { NewScene(r, cam, nil, store) })
	assert.Panics(t, func() { NewScene(r, cam, w, nil) })
}

func TestRenderWorld_EmptyWorld(t *testing.T) {
	f := newFixture(t)
	cmds := f.render(t)

	kinds := make([]renderer.CommandKind, len(cmds))
	for i, c := range cmds {
		kinds[i] = c.Kind
	}
	assert.Equal(t, []renderer.CommandKind{
		renderer.CommandBeginFrame,
		renderer.CommandSceneUniforms,
		renderer.CommandUseProgram,
		renderer.CommandUseProgram,
		renderer.CommandBindMesh,
		renderer.CommandDrawSky,
		renderer.CommandUseProgram,
	}, kinds)

	assert.Equal(t, renderer.ProgramWorld, cmds[2].Program)
	assert.Equal(t, renderer.ProgramSky, cmds[3].Program)
	assert.Equal(t, renderer.ProgramNone, cmds[6].Program)
	assert.Equal(t, uint32(378), cmds[5].Draw.Count)

	lighting := f.scene.Lighting()
	assert.Equal(t, lighting.SkyBottom, cmds[0].Clear)
	assert.Equal(t, Stats{}, f.scene.Stats())
	assert.Equal(t, renderer.ProgramNone, f.r.CurrentProgram())
}

func TestRenderWorld_FarClipFromWeather(t *testing.T) {
	f := newFixture(t)
	f.render(t)
	assert.InDelta(t, 1200, f.cam.Far(), 1e-3)
	assert.InDelta(t, 1200, f.scene.Lighting().FogEnd, 1e-3)
}

func TestRenderWorld_Pedestrians(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(boxModel("ped", 0))
	f.world.Add(
		game_object.NewCharacter("ped", game_object.WithPosition(0, 10, 0)),
		game_object.NewCharacter("ped", game_object.WithPosition(0, -10, 0)),
		game_object.NewCharacter("ghost", game_object.WithPosition(0, 10, 0)),
	)

	draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
	require.Len(t, draws, 1)
	assert.Equal(t, uint32(36), draws[0].Draw.Count)
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, originOfDraw(draws[0]))
	assert.Equal(t, common.White, tintOf(draws[0]))
	assert.Equal(t, Stats{Rendered: 1, Culled: 1}, f.scene.Stats())
}

func TestRenderWorld_DisabledObjectSkipped(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(boxModel("ped", 0))
	f.world.Add(game_object.NewCharacter("ped", game_object.WithPosition(0, 10, 0), game_object.WithEnabled(false)))
	assert.Empty(t, ofKind(f.render(t), renderer.CommandDrawIndexed))
}

func TestRenderWorld_InstanceLOD(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(boxModel("tree", 0))
	f.store.AddModel(boxModel("tree_lod", 0, material.NewMaterial(), material.NewMaterial()))

	treeDef := &catalog.ObjectDefinition{ID: 1, ModelName: "tree", NumClumps: 1, DrawDistance0: 100}
	lodDef := &catalog.ObjectDefinition{ID: 2, ModelName: "tree_lod", NumClumps: 1, DrawDistance0: 500, IsLOD: true}

	near := game_object.NewInstance(treeDef, game_object.WithPosition(0, 50, 0))
	farNoLink := game_object.NewInstance(treeDef, game_object.WithPosition(0, 300, 0))
	lod := game_object.NewInstance(lodDef, game_object.WithPosition(0, 300, 0))
	farLinked := game_object.NewInstance(treeDef, game_object.WithPosition(0, 300, 0), game_object.WithLOD(lod))
	f.world.Add(near, farNoLink, lod, farLinked)

	draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
	require.Len(t, draws, 3)
	assert.Equal(t, uint32(36), draws[0].Draw.Count)
	assert.Equal(t, mgl32.Vec3{0, 50, 0}, originOfDraw(draws[0]))
	// the linked model is drawn with the high detail instance's matrix
	assert.Equal(t, uint32(18), draws[1].Draw.Count)
	assert.Equal(t, uint32(18), draws[2].Draw.Count)
	assert.Equal(t, mgl32.Vec3{0, 300, 0}, originOfDraw(draws[1]))

	assert.Equal(t, Stats{Rendered: 3, Culled: 1}, f.scene.Stats())
}

func houseModel() model.Model {
	lifted := mgl32.Translate3D(0, 0, 5)
	return model.NewModel(
		model.WithName("house"),
		model.WithFrames([]model.Frame{
			{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent},
			{Name: "house_low", Local: lifted, Parent: 0, Geometries: []int{0}},
			{Name: "house_high", Local: lifted, Parent: 0, Geometries: []int{1}},
		}),
		model.WithGeometries([]model.GeometryChunk{
			model.NewBoxChunk(1, 0, material.NewMaterial(), material.NewMaterial()),
			model.NewBoxChunk(1, 0),
		}),
	)
}

func TestRenderWorld_MultiClump(t *testing.T) {
	def := &catalog.ObjectDefinition{ID: 3, ModelName: "house", NumClumps: 2, DrawDistance0: 100, DrawDistance1: 200}

	tests := []struct {
		name  string
		y     float32
		draws int
		stats Stats
	}{
		{"high detail", 50, 1, Stats{Rendered: 1}},
		{"low detail", 150, 2, Stats{Rendered: 2}},
		{"beyond", 250, 0, Stats{Culled: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.AddModel(houseModel())
			f.world.Add(game_object.NewInstance(def, game_object.WithPosition(0, tc.y, 0)))

			draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
			require.Len(t, draws, tc.draws)
			for _, d := range draws {
				// the child's own lift is cancelled
				assert.InDelta(t, 0, originOfDraw(d)[2], 1e-4)
				assert.InDelta(t, tc.y, originOfDraw(d)[1], 1e-4)
			}
			assert.Equal(t, tc.stats, f.scene.Stats())
		})
	}
}

func TestRenderWorld_InstanceTimeWindow(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(boxModel("lamp", 0))
	night := &catalog.ObjectDefinition{ID: 4, ModelName: "lamp", NumClumps: 1, DrawDistance0: 100, TimeOn: 20, TimeOff: 6}
	always := &catalog.ObjectDefinition{ID: 5, ModelName: "lamp", NumClumps: 1, DrawDistance0: 100}
	f.world.Add(
		game_object.NewInstance(night, game_object.WithPosition(0, 20, 0)),
		game_object.NewInstance(always, game_object.WithPosition(0, 20, 0)),
	)
	assert.Len(t, ofKind(f.render(t), renderer.CommandDrawIndexed), 1)
}

func TestRenderWorld_InstanceUsesPhysicsBody(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(boxModel("crate", 0))
	def := &catalog.ObjectDefinition{ID: 6, ModelName: "crate", NumClumps: 1, DrawDistance0: 100}
	body := physics.NewStaticBody(mgl32.Translate3D(3, 30, 1))
	f.world.Add(game_object.NewInstance(def, game_object.WithPosition(0, 10, 0), game_object.WithBody(body)))

	draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
	require.Len(t, draws, 1)
	assert.Equal(t, mgl32.Vec3{3, 30, 1}, originOfDraw(draws[0]))
}

func TestRenderWorld_TransparentDeferred(t *testing.T) {
	f := newFixture(t)
	f.store.AddTexture(assets.NewSolidTexture("glass", [4]uint8{255, 255, 255, 128}))
	f.store.AddModel(boxModel("window", model.ModuleMaterialColor,
		material.NewMaterial(material.WithTexture("glass"), material.WithColor([4]uint8{255, 0, 0, 255})),
		material.NewMaterial(material.WithColor([4]uint8{0, 255, 0, 255}), material.WithIntensities(0.5, 0.25)),
	))
	f.world.Add(game_object.NewCharacter("window", game_object.WithPosition(0, 10, 0)))

	cmds := f.render(t)
	draws := ofKind(cmds, renderer.CommandDrawIndexed)
	require.Len(t, draws, 2)

	// the opaque half first, then the replay with a white tint and its own texture bound
	assert.Equal(t, uint32(18), draws[0].Draw.Start)
	assert.Equal(t, common.RGB(0, 1, 0), tintOf(draws[0]))
	assert.Equal(t, float32(0.5), draws[0].Draw.Uniform.Diffuse)
	assert.Equal(t, uint32(0), draws[1].Draw.Start)
	assert.Equal(t, common.White, tintOf(draws[1]))

	textures := ofKind(cmds, renderer.CommandBindTexture)
	require.NotEmpty(t, textures)
	assert.NotEqual(t, renderer.NoTexture, textures[len(textures)-1].Texture)

	assert.Equal(t, Stats{Rendered: 2, Deferred: 1}, f.scene.Stats())
}

func TestRenderWorld_VehicleColors(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(boxModel("car", model.ModuleMaterialColor,
		material.NewMaterial(material.WithFlags(material.MaterialFlagPrimaryColor)),
		material.NewMaterial(material.WithFlags(material.MaterialFlagSecondaryColor)),
		material.NewMaterial(material.WithColor([4]uint8{0, 0, 0, 255})),
	))
	f.store.AddModel(boxModel("plain", 0, material.NewMaterial(material.WithColor([4]uint8{0, 0, 0, 255}))))
	f.store.AddModel(boxModel("painted_ped", model.ModuleMaterialColor,
		material.NewMaterial(material.WithFlags(material.MaterialFlagPrimaryColor), material.WithColor([4]uint8{0, 0, 255, 255})),
	))

	info := &game_object.VehicleInfo{PrimaryColor: common.RGB(1, 0, 0), SecondaryColor: common.RGB(0, 1, 0)}
	f.world.Add(
		game_object.NewVehicle("car", info, game_object.WithPosition(0, 20, 0)),
		game_object.NewVehicle("plain", &game_object.VehicleInfo{PrimaryColor: common.RGB(1, 0, 0)}, game_object.WithPosition(0, 20, 0)),
		game_object.NewCharacter("painted_ped", game_object.WithPosition(0, 20, 0)),
	)

	draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
	require.Len(t, draws, 5)
	// pedestrians are drawn before vehicles
	assert.Equal(t, common.RGB(0, 0, 1), tintOf(draws[0]))
	assert.Equal(t, common.RGB(1, 0, 0), tintOf(draws[1]))
	assert.Equal(t, common.RGB(0, 1, 0), tintOf(draws[2]))
	assert.Equal(t, common.RGB(0, 0, 0), tintOf(draws[3]))
	assert.Equal(t, common.White, tintOf(draws[4]))
}

func wheelsModelFixture() model.Model {
	return model.NewModel(
		model.WithName("wheels"),
		model.WithFrames([]model.Frame{
			{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent},
			{Name: "wheel_std", Local: mgl32.Ident4(), Parent: 0},
			{Name: "wheel_std_l0", Local: mgl32.Ident4(), Parent: 1, Geometries: []int{0}},
			{Name: "wheel_std_l1", Local: mgl32.Ident4(), Parent: 1, Geometries: []int{1}},
		}),
		model.WithGeometries([]model.GeometryChunk{
			model.NewBoxChunk(0.5, 0),
			model.NewBoxChunk(0.5, 0, material.NewMaterial(), material.NewMaterial()),
		}),
	)
}

func TestRenderWorld_VehicleWheels(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(wheelsModelFixture())

	vehicle := physics.NewKinematicVehicle(
		physics.WithPosition(mgl32.Vec3{0, 20, 0}),
		physics.WithWheels(
			mgl32.Vec3{1, 1, 0}, mgl32.Vec3{-1, 1, 0},
			mgl32.Vec3{1, -1, 0}, mgl32.Vec3{-1, -1, 0},
		),
		physics.WithSuspension(0.2, 0.4),
	)
	info := &game_object.VehicleInfo{WheelModel: "wheel_std", WheelScale: 1, Physics: vehicle}
	// the body model is not loaded; the wheels still draw
	f.world.Add(game_object.NewVehicle("missing_car", info, game_object.WithPosition(0, 20, 0)))

	draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
	require.Len(t, draws, 4)
	mirrored := 0
	for _, d := range draws {
		assert.Equal(t, uint32(36), d.Draw.Count, "first LOD child only")
		if d.Draw.Uniform.Model[0] < 0 {
			mirrored++
		}
	}
	assert.Equal(t, 2, mirrored)
}

func TestRenderWorld_WheelsCulled(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(wheelsModelFixture())
	vehicle := physics.NewKinematicVehicle(
		physics.WithPosition(mgl32.Vec3{0, -20, 0}),
		physics.WithWheels(mgl32.Vec3{1, 1, 0}, mgl32.Vec3{-1, 1, 0}),
	)
	info := &game_object.VehicleInfo{WheelModel: "wheel_std", WheelScale: 1, Physics: vehicle}
	f.world.Add(game_object.NewVehicle("missing_car", info))

	assert.Empty(t, ofKind(f.render(t), renderer.CommandDrawIndexed))
	assert.Equal(t, Stats{Culled: 2}, f.scene.Stats())
}

func TestWheelMatrix(t *testing.T) {
	base := mgl32.Translate3D(1, 2, 3)
	right := WheelMatrix(base, 2, mgl32.Vec3{1, 0, 0})
	assert.Equal(t, float32(2), right[0])
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, common.TranslationOf(right))

	left := WheelMatrix(base, 2, mgl32.Vec3{-1, 0, 0})
	assert.Equal(t, float32(-2), left[0])
	assert.Equal(t, float32(2), left[5])
}

func TestRenderWorld_HiddenFrame(t *testing.T) {
	f := newFixture(t)
	m := model.NewModel(
		model.WithName("rig"),
		model.WithFrames([]model.Frame{
			{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent, Geometries: []int{0}},
			{Name: "hat", Local: mgl32.Translate3D(0, 0, 2), Parent: 0, Geometries: []int{0}},
			{Name: "hand", Local: mgl32.Translate3D(1, 0, 0), Parent: 0, Geometries: []int{0}},
		}),
		model.WithGeometries([]model.GeometryChunk{model.NewBoxChunk(0.25, 0)}),
	)
	f.store.AddModel(m)
	f.world.Add(game_object.NewCharacter("rig", game_object.WithPosition(0, 10, 0), game_object.WithHiddenFrames("hat")))

	draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
	require.Len(t, draws, 2)
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, originOfDraw(draws[0]))
	assert.Equal(t, mgl32.Vec3{1, 10, 0}, originOfDraw(draws[1]))
}

func TestRenderWorld_HiddenAncestorsStillTraverse(t *testing.T) {
	f := newFixture(t)
	m := model.NewModel(
		model.WithName("arm_rig"),
		model.WithFrames([]model.Frame{
			{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent, Geometries: []int{0}},
			{Name: "arm", Local: mgl32.Translate3D(1, 0, 0), Parent: 0, Geometries: []int{0}},
			{Name: "hand", Local: mgl32.Translate3D(1, 0, 0), Parent: 1, Geometries: []int{0}},
		}),
		model.WithGeometries([]model.GeometryChunk{model.NewBoxChunk(0.25, 0)}),
	)
	f.store.AddModel(m)
	f.world.Add(game_object.NewCharacter("arm_rig", game_object.WithPosition(0, 10, 0), game_object.WithHiddenFrames("root", "arm")))

	draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
	require.Len(t, draws, 1)
	assert.Equal(t, mgl32.Vec3{2, 10, 0}, originOfDraw(draws[0]))
	assert.Equal(t, Stats{Rendered: 1}, f.scene.Stats())
}

func TestRenderWorld_CulledParentStillTraverses(t *testing.T) {
	f := newFixture(t)
	m := model.NewModel(
		model.WithName("crane"),
		model.WithFrames([]model.Frame{
			{Name: "base", Local: mgl32.Ident4(), Parent: model.NoParent, Geometries: []int{0}},
			{Name: "boom", Local: mgl32.Translate3D(0, 15, 0), Parent: 0},
			{Name: "hook", Local: mgl32.Translate3D(1, 0, 0), Parent: 1, Geometries: []int{0}},
		}),
		model.WithGeometries([]model.GeometryChunk{model.NewBoxChunk(0.25, 0)}),
	)
	f.store.AddModel(m)
	// the base sits behind the camera, the hook lands in front of it
	f.world.Add(game_object.NewCharacter("crane", game_object.WithPosition(0, -5, 0)))

	draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
	require.Len(t, draws, 1)
	assert.Equal(t, mgl32.Vec3{1, 10, 0}, originOfDraw(draws[0]))
	assert.Equal(t, Stats{Rendered: 1, Culled: 1}, f.scene.Stats())
}

func TestRenderWorld_AnimatorPoseFollowsAlpha(t *testing.T) {
	m := model.NewModel(
		model.WithName("walker"),
		model.WithFrames([]model.Frame{{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent, Geometries: []int{0}}}),
		model.WithGeometries([]model.GeometryChunk{model.NewBoxChunk(0.25, 0)}),
		model.WithAnimations([]*model.AnimationClip{{
			Name:     "walk",
			Duration: 2,
			Channels: map[string]*model.AnimationChannel{
				"root": {
					FrameName: "root",
					PositionKeys: []model.VectorKeyframe{
						{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
						{Time: 2, Value: mgl32.Vec3{0, 4, 0}},
					},
				},
			},
		}}),
	)

	tests := []struct {
		name  string
		alpha float32
		y     float32
	}{
		{"half step", 0.5, 11},
		{"full step", 1, 12},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.AddModel(m)
			a := animator.NewAnimator(m, animator.WithClip("walk", true))
			a.Tick(1)
			f.world.Add(game_object.NewCharacter("walker", game_object.WithPosition(0, 10, 0), game_object.WithAnimator(a, false)))

			require.NoError(t, f.scene.RenderWorld(tc.alpha))
			draws := ofKind(f.r.Commands(), renderer.CommandDrawIndexed)
			require.Len(t, draws, 1)
			assert.InDelta(t, tc.y, originOfDraw(draws[0])[1], 1e-4)
		})
	}
}

func vanModel() model.Model {
	return model.NewModel(
		model.WithName("van"),
		model.WithFrames([]model.Frame{
			{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent},
			{Name: "van_low", Local: mgl32.Translate3D(0, 0, 5), Parent: 0, Geometries: []int{0}},
			{Name: "van_high", Local: mgl32.Translate3D(0, 0, 5), Parent: 0, Geometries: []int{1}},
		}),
		model.WithGeometries([]model.GeometryChunk{
			model.NewBoxChunk(1, 0, material.NewMaterial(), material.NewMaterial()),
			model.NewBoxChunk(1, model.ModuleMaterialColor, material.NewMaterial(material.WithFlags(material.MaterialFlagPrimaryColor))),
		}),
	)
}

func TestRenderWorld_VehicleLOD(t *testing.T) {
	def := (&catalog.VehicleDefinition{ID: 2, ModelName: "van", NumClumps: 2, DrawDistance0: 20, DrawDistance1: 50}).DrawDefinition()

	tests := []struct {
		name   string
		y      float32
		counts []uint32
		stats  Stats
	}{
		{"near child", 10, []uint32{36}, Stats{Rendered: 1}},
		{"far child", 30, []uint32{18, 18}, Stats{Rendered: 2}},
		{"beyond", 60, nil, Stats{Culled: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.AddModel(vanModel())
			info := &game_object.VehicleInfo{PrimaryColor: common.RGB(1, 0, 0)}
			f.world.Add(game_object.NewVehicle("van", info, game_object.WithPosition(0, tc.y, 0), game_object.WithDefinition(def)))

			draws := ofKind(f.render(t), renderer.CommandDrawIndexed)
			require.Len(t, draws, len(tc.counts))
			for i, d := range draws {
				assert.Equal(t, tc.counts[i], d.Draw.Count)
				assert.InDelta(t, 0, originOfDraw(d)[2], 1e-4)
			}
			if tc.name == "near child" {
				// the vehicle still owns the child subtree, so its paint applies
				assert.Equal(t, common.RGB(1, 0, 0), tintOf(draws[0]))
			}
			assert.Equal(t, tc.stats, f.scene.Stats())
		})
	}
}

func TestRenderWorld_VehicleWithoutDefinitionDrawsWholeModel(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(vanModel())
	f.world.Add(game_object.NewVehicle("van", &game_object.VehicleInfo{}, game_object.WithPosition(0, 30, 0)))

	assert.Len(t, ofKind(f.render(t), renderer.CommandDrawIndexed), 3)
}

func TestRenderWorld_Water(t *testing.T) {
	cfg := water.Config{WorldSize: 64, HQDataSize: 8, LQDataSize: 4, HQDistance: 16, NoWaterIndex: 48}
	table := water.FlatTable(cfg, 1.5)
	f := newFixture(t, WithWater(cfg, table))
	f.store.AddModel(boxModel("ped", 0))
	f.world.Add(game_object.NewCharacter("ped", game_object.WithPosition(0, 10, 0)))

	cmds := f.render(t)
	hq, lq := water.SelectTiles(cfg, table, mgl32.Vec2{0, 0}, f.cam.Far())
	waterDraws := ofKind(cmds, renderer.CommandDrawWater)
	require.NotEmpty(t, waterDraws)
	assert.Len(t, waterDraws, len(hq)+len(lq))
	assert.Equal(t, len(waterDraws), f.scene.Stats().Water)
	assert.InDelta(t, 1.5, originOfDraw(waterDraws[0])[2], 1e-5)

	assert.Less(t, indexOf(cmds, renderer.CommandDrawIndexed), indexOf(cmds, renderer.CommandDrawWater))
	assert.Less(t, indexOf(cmds, renderer.CommandDrawWater), indexOf(cmds, renderer.CommandDrawSky))
}

func TestSetWaterTable_Validates(t *testing.T) {
	f := newFixture(t)
	cfg := water.Config{WorldSize: 64, HQDataSize: 8, LQDataSize: 4, HQDistance: 16, NoWaterIndex: 48}
	assert.Error(t, f.scene.SetWaterTable(cfg, &water.HeightTable{}))
	require.NoError(t, f.scene.SetWaterTable(cfg, water.FlatTable(cfg, 0)))
	assert.NotEmpty(t, ofKind(f.render(t), renderer.CommandDrawWater))
}

func TestRenderWorld_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.store.AddModel(boxModel("ped", 0))
	f.store.AddModel(houseModel())
	def := &catalog.ObjectDefinition{ID: 3, ModelName: "house", NumClumps: 2, DrawDistance0: 100, DrawDistance1: 200}
	f.world.Add(
		game_object.NewCharacter("ped", game_object.WithPosition(0, 10, 0)),
		game_object.NewCharacter("ped", game_object.WithPosition(0, -10, 0)),
		game_object.NewInstance(def, game_object.WithPosition(0, 150, 0)),
	)

	first := f.render(t)
	firstStats := f.scene.Stats()
	f.r.EndFrame()
	second := f.render(t)
	assert.Equal(t, firstStats, f.scene.Stats())
	assert.Equal(t, len(ofKind(first, renderer.CommandDrawIndexed)), len(ofKind(second, renderer.CommandDrawIndexed)))
}

func TestRenderWorld_FrameAlreadyOpen(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.scene.RenderWorld(0))
	assert.Error(t, f.scene.RenderWorld(0))
}

func TestRenderPaths(t *testing.T) {
	g := &ai.Graph{}
	a := g.AddNode(ai.NodeTypePedestrian, mgl32.Vec3{0, 10, 0}, 0, true)
	b := g.AddNode(ai.NodeTypePedestrian, mgl32.Vec3{5, 10, 0}, 0, false)
	g.Connect(a, b)
	g.AddNode(ai.NodeTypeVehicle, mgl32.Vec3{0, 20, 0}, 4, false)

	w := world.NewWorld(world.WithStartTime(720), world.WithGraph(g))
	f := newFixtureWithWorld(t, w)
	w.Add(game_object.NewCharacter("ghost", game_object.WithPosition(1, 1, 0), game_object.WithController(ai.NewPathController(b, 1))))

	require.NoError(t, f.scene.RenderWorld(1))
	f.scene.RenderPaths()
	cmds := f.r.Commands()

	lines := ofKind(cmds, renderer.CommandDrawLines)
	require.Len(t, lines, 2)
	car, ped := lines[0].Lines, lines[1].Lines
	require.Len(t, car, 4)
	require.Len(t, ped, 6)

	red := [4]float32{1, 0, 0, 1}
	green := [4]float32{0, 1, 0, 1}
	assert.Equal(t, [3]float32{-2, 20, 0}, car[0].Position)
	assert.Equal(t, [3]float32{2, 20, 0}, car[1].Position)
	assert.Equal(t, [3]float32{1, 1, 0}, car[2].Position)
	assert.Equal(t, [3]float32{5, 10, 0}, car[3].Position)
	assert.Equal(t, red, car[0].Color)

	// external pedestrian nodes stand 2 units tall
	assert.Equal(t, [3]float32{0, 10, 2}, ped[1].Position)
	assert.Equal(t, [3]float32{0, 10, 1}, ped[2].Position)
	assert.Equal(t, [3]float32{5, 10, 1}, ped[3].Position)
	assert.Equal(t, [3]float32{5, 10, 1}, ped[5].Position)
	assert.Equal(t, green, ped[0].Color)

	last := cmds[len(cmds)-1]
	assert.Equal(t, renderer.CommandUseProgram, last.Kind)
	assert.Equal(t, renderer.ProgramNone, last.Program)
}
