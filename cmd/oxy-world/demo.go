package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/ai"
	"github.com/Carmen-Shannon/oxy-world/engine/assets"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/game_object"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/physics"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-world/engine/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// Catalog IDs of the demo definitions.
const (
	idLamp     uint = 1
	idTree     uint = 2
	idTreeLOD  uint = 3
	idHouse    uint = 4
	idWheelStd uint = 5
	idSedan    uint = 1
)

const (
	pedModel      = "ped"
	wheelsModel   = "wheels"
	waterTexture  = "water_old"
	glassTexture  = "glass"
	sidewalkSpan  = 40
	pedestrianCnt = 3
)

// demoDefinitions is the catalog content of the demo street.
func demoDefinitions() ([]any, error) {
	sedan := &catalog.VehicleDefinition{
		ID:             idSedan,
		ModelName:      "sedan",
		WheelModelID:   idWheelStd,
		WheelScale:     1,
		PrimaryColor:   catalog.PackColor(180, 20, 20, 255),
		SecondaryColor: catalog.PackColor(230, 230, 230, 255),
		NumClumps:      1,
		DrawDistance0:  250,
	}
	if err := sedan.SetWheelOffsets([]mgl32.Vec3{
		{1, 1.4, 0}, {-1, 1.4, 0},
		{1, -1.4, 0}, {-1, -1.4, 0},
	}); err != nil {
		return nil, err
	}
	return []any{
		&catalog.ObjectDefinition{ID: idLamp, ModelName: "lamp_post", NumClumps: 1, DrawDistance0: 150, TimeOn: 20, TimeOff: 6},
		&catalog.ObjectDefinition{ID: idTree, ModelName: "tree", NumClumps: 1, DrawDistance0: 120, LODID: idTreeLOD},
		&catalog.ObjectDefinition{ID: idTreeLOD, ModelName: "tree_lod", NumClumps: 1, DrawDistance0: 600, IsLOD: true},
		&catalog.ObjectDefinition{ID: idHouse, ModelName: "house", NumClumps: 2, DrawDistance0: 100, DrawDistance1: 300},
		&catalog.ObjectDefinition{ID: idWheelStd, ModelName: "wheel_std", NumClumps: 1, DrawDistance0: 50},
		sedan,
	}, nil
}

// seedCatalog migrates the schema and inserts the demo definitions.
func seedCatalog(cat catalog.Catalog) error {
	if err := cat.Migrate(); err != nil {
		return err
	}
	defs, err := demoDefinitions()
	if err != nil {
		return err
	}
	return cat.Seed(defs...)
}

// demoGraph lays a pedestrian sidewalk along +Y at x = 6 and a vehicle lane at x = 0.
func demoGraph() (*ai.Graph, []*ai.Node) {
	g := &ai.Graph{}
	var walk []*ai.Node
	for i := 0; i <= 4; i++ {
		y := float32(i) * sidewalkSpan / 4
		walk = append(walk, g.AddNode(ai.NodeTypePedestrian, mgl32.Vec3{6, y, 0}, 1, i == 0 || i == 4))
	}
	for i := 0; i < len(walk)-1; i++ {
		g.Connect(walk[i], walk[i+1])
		g.Connect(walk[i+1], walk[i])
	}
	var lane []*ai.Node
	for i := 0; i <= 4; i++ {
		lane = append(lane, g.AddNode(ai.NodeTypeVehicle, mgl32.Vec3{0, float32(i) * 25, 0}, 6, false))
	}
	for i := 0; i < len(lane)-1; i++ {
		g.Connect(lane[i], lane[i+1])
	}
	return g, walk
}

// buildWorld populates a world from the catalog: walking pedestrians, street furniture with hour
// windows and LOD links, a multi-clump house and a driving sedan.
func buildWorld(cat catalog.Catalog, options ...world.WorldBuilderOption) (world.World, error) {
	graph, walk := demoGraph()
	w := world.NewWorld(append(options, world.WithGraph(graph))...)

	for i := 0; i < pedestrianCnt; i++ {
		start := walk[i]
		w.Add(game_object.NewCharacter(pedModel,
			game_object.WithPosition(start.Position[0], start.Position[1]+1, 0),
			game_object.WithController(ai.NewPathController(walk[i+1], 0.5)),
		))
	}

	lamp, err := cat.Object(idLamp)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 4; i++ {
		w.Add(game_object.NewInstance(lamp, game_object.WithPosition(4, float32(i)*15, 0)))
	}

	tree, err := cat.Object(idTree)
	if err != nil {
		return nil, err
	}
	treeLOD, err := cat.Object(tree.LODID)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 6; i++ {
		pos := mgl32.Vec3{-8, float32(i) * 60, 0}
		low := game_object.NewInstance(treeLOD, game_object.WithPosition(pos[0], pos[1], pos[2]))
		w.Add(low, game_object.NewInstance(tree,
			game_object.WithPosition(pos[0], pos[1], pos[2]),
			game_object.WithLOD(low),
		))
	}

	house, err := cat.Object(idHouse)
	if err != nil {
		return nil, err
	}
	w.Add(game_object.NewInstance(house, game_object.WithPosition(18, 30, 0), game_object.WithHeading(mgl32.DegToRad(90))))

	sedan, err := buildVehicle(cat, idSedan, mgl32.Vec3{0, 5, 0.5})
	if err != nil {
		return nil, err
	}
	w.Add(sedan)
	return w, nil
}

// buildVehicle creates a driving vehicle from its catalog definition.
func buildVehicle(cat catalog.Catalog, id uint, position mgl32.Vec3) (game_object.GameObject, error) {
	def, err := cat.Vehicle(id)
	if err != nil {
		return nil, err
	}
	wheelDef, err := cat.Object(def.WheelModelID)
	if err != nil {
		return nil, fmt.Errorf("vehicle %d wheel: %w", id, err)
	}
	offsets, err := def.Wheels()
	if err != nil {
		return nil, err
	}
	primary, secondary := def.Colors()
	body := physics.NewKinematicVehicle(
		physics.WithPosition(position),
		physics.WithWheels(offsets...),
		physics.WithSuspension(0.3, 0.4),
		physics.WithMotion(4, 0.05),
	)
	info := &game_object.VehicleInfo{
		PrimaryColor:   common.ColorFromBytes(primary),
		SecondaryColor: common.ColorFromBytes(secondary),
		WheelModel:     wheelDef.ModelName,
		WheelScale:     def.WheelScale,
		Physics:        body,
	}
	return game_object.NewVehicle(def.ModelName, info,
		game_object.WithPosition(position[0], position[1], position[2]),
		game_object.WithDefinition(def.DrawDefinition()),
	), nil
}

// assetNames lists every model and texture the demo world references.
func assetNames(cat catalog.Catalog) (models, textures []string, err error) {
	objects, err := cat.Objects()
	if err != nil {
		return nil, nil, err
	}
	models = []string{pedModel, wheelsModel, "sedan"}
	for _, o := range objects {
		if o.ID == idWheelStd {
			continue
		}
		models = append(models, o.ModelName)
	}
	return models, []string{waterTexture, glassTexture}, nil
}

// fillMissing registers procedural stand-ins for assets that are not on disk.
func fillMissing(store assets.Store, logger zerolog.Logger) {
	for _, m := range fallbackModels() {
		if _, ok := store.Model(m.Name()); ok {
			continue
		}
		logger.Info().Str("model", m.Name()).Msg("using procedural model")
		store.AddModel(m)
	}
	for _, t := range []*assets.Texture{
		assets.NewSolidTexture(waterTexture, [4]uint8{40, 90, 140, 200}),
		assets.NewSolidTexture(glassTexture, [4]uint8{200, 220, 255, 96}),
	} {
		if _, ok := store.Texture(t.Name); ok {
			continue
		}
		store.AddTexture(t)
	}
}

func box(name string, half float32, flags model.ModuleFlags, mats ...material.Material) model.Model {
	return model.NewModel(
		model.WithName(name),
		model.WithFrames([]model.Frame{{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent, Geometries: []int{0}}}),
		model.WithGeometries([]model.GeometryChunk{model.NewBoxChunk(half, flags, mats...)}),
	)
}

func colored(rgba [4]uint8) material.Material {
	return material.NewMaterial(material.WithColor(rgba))
}

func fallbackModels() []model.Model {
	lifted := func(z float32) mgl32.Mat4 { return mgl32.Translate3D(0, 0, z) }
	house := model.NewModel(
		model.WithName("house"),
		model.WithFrames([]model.Frame{
			{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent},
			{Name: "house_l1", Local: lifted(4), Parent: 0, Geometries: []int{0}},
			{Name: "house_l0", Local: lifted(4), Parent: 0, Geometries: []int{1}},
		}),
		model.WithGeometries([]model.GeometryChunk{
			model.NewBoxChunk(4, model.ModuleMaterialColor, colored([4]uint8{150, 120, 100, 255})),
			model.NewBoxChunk(4, model.ModuleMaterialColor,
				colored([4]uint8{190, 160, 130, 255}),
				material.NewMaterial(material.WithTexture(glassTexture)),
			),
		}),
	)
	wheels := model.NewModel(
		model.WithName(wheelsModel),
		model.WithFrames([]model.Frame{
			{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent},
			{Name: "wheel_std", Local: mgl32.Ident4(), Parent: 0},
			{Name: "wheel_std_l0", Local: mgl32.Ident4(), Parent: 1, Geometries: []int{0}},
		}),
		model.WithGeometries([]model.GeometryChunk{
			model.NewBoxChunk(0.35, model.ModuleMaterialColor, colored([4]uint8{20, 20, 20, 255})),
		}),
	)
	return []model.Model{
		box(pedModel, 0.4, model.ModuleMaterialColor, colored([4]uint8{60, 80, 200, 255})),
		box("lamp_post", 0.2, model.ModuleMaterialColor, colored([4]uint8{90, 90, 90, 255})),
		box("tree", 1.5, model.ModuleMaterialColor, colored([4]uint8{40, 130, 40, 255}), colored([4]uint8{100, 70, 40, 255})),
		box("tree_lod", 1.5, model.ModuleMaterialColor, colored([4]uint8{40, 110, 40, 255})),
		box("sedan", 1, model.ModuleMaterialColor,
			material.NewMaterial(material.WithFlags(material.MaterialFlagPrimaryColor)),
			material.NewMaterial(material.WithFlags(material.MaterialFlagSecondaryColor)),
			material.NewMaterial(material.WithTexture(glassTexture)),
		),
		house,
		wheels,
	}
}
