package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeFrameModel() Model {
	return NewModel(
		WithName("car"),
		WithFrames([]Frame{
			{Name: "root", Local: mgl32.Ident4(), Parent: NoParent},
			{Name: "body_lo", Local: mgl32.Ident4(), Parent: 0, Geometries: []int{0}},
			{Name: "body_hi", Local: mgl32.Translate3D(0, 0, 1), Parent: 0, Geometries: []int{1}},
		}),
		WithGeometries([]GeometryChunk{
			NewBoxChunk(1, ModuleMaterialColor),
			NewBoxChunk(1, ModuleMaterialColor, material.NewMaterial(), material.NewMaterial()),
		}),
	)
}

func TestNewModel_DerivesChildren(t *testing.T) {
	m := threeFrameModel()
	root := m.Frame(m.RootFrame())
	require.NotNil(t, root)
	assert.Equal(t, []int{1, 2}, root.Children)
	assert.Empty(t, m.Frame(1).Children)
	assert.NoError(t, m.Validate())
}

func TestFindFrame(t *testing.T) {
	m := threeFrameModel()
	idx, ok := m.FindFrame("body_hi")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = m.FindFrame("missing")
	assert.False(t, ok)
	assert.Nil(t, m.Frame(7))
	assert.Nil(t, m.Geometry(-1))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		frames []Frame
		geoms  []GeometryChunk
	}{
		{name: "no frames"},
		{
			name: "two roots",
			frames: []Frame{
				{Name: "a", Parent: NoParent},
				{Name: "b", Parent: NoParent},
			},
		},
		{
			name: "cycle",
			frames: []Frame{
				{Name: "root", Parent: NoParent, Children: []int{1}},
				{Name: "a", Parent: 0, Children: []int{2}},
				{Name: "b", Parent: 1, Children: []int{1}},
			},
		},
		{
			name:   "bad geometry index",
			frames: []Frame{{Name: "root", Parent: NoParent, Geometries: []int{3}}},
		},
		{
			name: "unreachable frame",
			frames: []Frame{
				{Name: "root", Parent: NoParent, Children: []int{1}},
				{Name: "a", Parent: 0},
				{Name: "orphan", Parent: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(WithName(tt.name), WithFrames(tt.frames), WithGeometries(tt.geoms))
			assert.ErrorIs(t, m.Validate(), ErrInvalidHierarchy)
		})
	}
}

func TestNewBoxChunk(t *testing.T) {
	chunk := NewBoxChunk(2, ModulePrelit, material.NewMaterial(), material.NewMaterial(), material.NewMaterial())
	assert.Len(t, chunk.Vertices, 24)
	assert.Len(t, chunk.Indices, 36)
	require.Len(t, chunk.Subgeometries, 3)

	var total uint32
	for _, sg := range chunk.Subgeometries {
		total += sg.Count
	}
	assert.Equal(t, uint32(36), total)
	assert.InDelta(t, 0, chunk.Bounds.Center.Len(), 1e-6)
	assert.InDelta(t, 2*1.7320508, chunk.Bounds.Radius, 1e-4)
	assert.Nil(t, chunk.MaterialFor(Subgeometry{Material: 9}))
}

func TestNewQuadChunk(t *testing.T) {
	chunk := NewQuadChunk()
	require.Len(t, chunk.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, chunk.Indices)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, chunk.Bounds.Center)
	for _, v := range chunk.Vertices {
		assert.Equal(t, float32(0), v.Position[2])
	}
}

func TestComputeBounds_OffCenter(t *testing.T) {
	b := ComputeBounds([]Vertex{
		{Position: [3]float32{10, 0, 0}},
		{Position: [3]float32{12, 0, 0}},
	})
	assert.Equal(t, mgl32.Vec3{11, 0, 0}, b.Center)
	assert.InDelta(t, 1.0, b.Radius, 1e-6)
}

func TestMarshalVertices(t *testing.T) {
	buf := MarshalVertices(make([]Vertex, 3))
	assert.Len(t, buf, 3*VertexStride)
	v := Vertex{}
	assert.Equal(t, VertexStride, v.Size())
	assert.Len(t, MarshalIndices([]uint32{1, 2, 3}), 12)
}
