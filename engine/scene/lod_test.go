package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestMinDistance(t *testing.T) {
	m := boxModel("box", 0)
	radius := m.Geometry(0).Bounds.Radius

	d := MinDistance(m, mgl32.Vec3{0, 10, 0}, mgl32.Vec3{})
	assert.InDelta(t, 10-radius, d, 1e-4)

	empty := model.NewModel(model.WithName("empty"))
	assert.Equal(t, float32(100000), MinDistance(empty, mgl32.Vec3{}, mgl32.Vec3{}))
}

func TestSelectLOD_SingleClump(t *testing.T) {
	m := boxModel("tree", 0)
	def := &catalog.ObjectDefinition{NumClumps: 1, DrawDistance0: 100}
	lodTarget := &catalog.ObjectDefinition{NumClumps: 1, DrawDistance0: 100, IsLOD: true}
	link := &catalog.ObjectDefinition{NumClumps: 1, DrawDistance0: 400}

	tests := []struct {
		name    string
		def     *catalog.ObjectDefinition
		linked  *catalog.ObjectDefinition
		mindist float32
		want    LODKind
	}{
		{"within draw distance", def, nil, 50, LODFull},
		{"on the threshold", def, nil, 100, LODFull},
		{"beyond without link", def, nil, 101, LODCulled},
		{"beyond with link in range", def, link, 300, LODLinked},
		{"beyond link range", def, link, 401, LODCulled},
		{"close LOD target", lodTarget, nil, 50, LODSkip},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SelectLOD(tc.def, tc.linked, m, tc.mindist).Kind)
		})
	}
}

func TestSelectLOD_MultiClump(t *testing.T) {
	m := houseModel()
	def := &catalog.ObjectDefinition{NumClumps: 2, DrawDistance0: 100, DrawDistance1: 200}

	high := SelectLOD(def, nil, m, 100)
	assert.Equal(t, LODDecision{Kind: LODChild, Frame: 2}, high)

	low := SelectLOD(def, nil, m, 150)
	assert.Equal(t, LODDecision{Kind: LODChild, Frame: 1}, low)

	assert.Equal(t, LODCulled, SelectLOD(def, nil, m, 201).Kind)

	// a root with one child has no low detail branch
	single := boxModel("single", 0)
	assert.Equal(t, LODSkip, SelectLOD(def, nil, single, 150).Kind)

	oneChild := model.NewModel(
		model.WithName("one_child"),
		model.WithFrames([]model.Frame{
			{Name: "root", Local: mgl32.Ident4(), Parent: model.NoParent},
			{Name: "only", Local: mgl32.Ident4(), Parent: 0, Geometries: []int{0}},
		}),
		model.WithGeometries([]model.GeometryChunk{model.NewBoxChunk(1, 0)}),
	)
	assert.Equal(t, LODDecision{Kind: LODChild, Frame: 1}, SelectLOD(def, nil, oneChild, 50))
	assert.Equal(t, LODSkip, SelectLOD(def, nil, oneChild, 150).Kind)
}

func TestChildMatrix_CancelsLocal(t *testing.T) {
	obj := mgl32.Translate3D(4, 5, 6)
	child := &model.Frame{Local: mgl32.Translate3D(0, 0, 3)}
	got := childMatrix(obj, child).Mul4(child.Local)
	assert.True(t, got.ApproxEqual(obj))
}

func TestInstanceActive(t *testing.T) {
	tests := []struct {
		name    string
		on, off int
		hour    float32
		want    bool
	}{
		{"no window", 0, 0, 12, true},
		{"night object at noon", 20, 6, 12, false},
		{"night object late", 20, 6, 22, true},
		{"night object early", 20, 6, 3, true},
		{"night object at switch on", 20, 6, 20, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, instanceActive(tc.on, tc.off, tc.hour))
		})
	}
}
