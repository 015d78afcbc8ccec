package main

import (
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-world/engine/assets"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/config"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer"
	"github.com/Carmen-Shannon/oxy-world/engine/scene"
	"github.com/Carmen-Shannon/oxy-world/engine/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	cat, err := catalog.Open(filepath.Join(t.TempDir(), "demo.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	require.NoError(t, seedCatalog(cat))
	// seeding again upserts
	require.NoError(t, seedCatalog(cat))
	return cat
}

func TestBuildWorld(t *testing.T) {
	cat := seededCatalog(t)
	w, err := buildWorld(cat, world.WithStartTime(720))
	require.NoError(t, err)

	snap := w.Snapshot()
	assert.Len(t, snap.Pedestrians, pedestrianCnt)
	assert.Len(t, snap.Instances, 4+12+1)
	require.Len(t, snap.Vehicles, 1)

	linked := 0
	for _, obj := range snap.Instances {
		if obj.LOD() != nil {
			linked++
			assert.True(t, obj.LOD().Definition().IsLOD)
		}
	}
	assert.Equal(t, 6, linked)

	info := snap.Vehicles[0].Vehicle()
	require.NotNil(t, info)
	assert.Equal(t, "wheel_std", info.WheelModel)
	assert.Equal(t, 4, info.Physics.WheelCount())
	assert.InDelta(t, 180.0/255, info.PrimaryColor.R, 1e-6)
	for _, p := range snap.Pedestrians {
		assert.NotNil(t, p.Controller())
	}
}

func TestAssetNames(t *testing.T) {
	models, textures, err := assetNames(seededCatalog(t))
	require.NoError(t, err)
	assert.Contains(t, models, "house")
	assert.Contains(t, models, wheelsModel)
	assert.NotContains(t, models, "wheel_std")
	assert.Equal(t, []string{waterTexture, glassTexture}, textures)
}

func TestFillMissing_KeepsLoadedAssets(t *testing.T) {
	store := assets.NewStore()
	own := box("tree", 9, 0)
	store.AddModel(own)
	fillMissing(store, zerolog.Nop())

	got, ok := store.Model("tree")
	require.True(t, ok)
	assert.Same(t, own, got)
	for _, name := range []string{pedModel, wheelsModel, "sedan", "house", "lamp_post", "tree_lod"} {
		_, ok := store.Model(name)
		assert.True(t, ok, name)
	}
	_, ok = store.Texture(waterTexture)
	assert.True(t, ok)
}

func TestDemoRendersHeadless(t *testing.T) {
	cat := seededCatalog(t)
	w, err := buildWorld(cat, world.WithStartTime(720))
	require.NoError(t, err)
	store := assets.NewStore()
	fillMissing(store, zerolog.Nop())

	r := renderer.NewRenderer(renderer.BackendTypeRecording, nil)
	t.Cleanup(r.Release)
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(
		camera.WithPosition(mgl32.Vec3{0, -25, 6}),
	)))
	wcfg, table := loadWater(config.WaterConfig{WorldSize: 256, HQDataSize: 16, LQDataSize: 8, HQDistance: 64, NoWaterIndex: 48}, zerolog.Nop())
	s := scene.NewScene(r, cam, w, store, scene.WithWater(wcfg, table))

	require.NoError(t, s.RenderWorld(1))
	stats := s.Stats()
	assert.Positive(t, stats.Rendered)
	assert.Positive(t, stats.Water)
	assert.Positive(t, stats.Deferred, "glass is transparent")
}

func TestLoadWater_MissingTableFallsBack(t *testing.T) {
	cfg := config.WaterConfig{WorldSize: 64, HQDataSize: 8, LQDataSize: 4, HQDistance: 16, NoWaterIndex: 48, Table: "/nonexistent/water.dat", Height: 2}
	wc, table := loadWater(cfg, zerolog.Nop())
	require.NoError(t, table.Validate(wc))
	assert.Equal(t, []float32{2}, table.Heights)
}
