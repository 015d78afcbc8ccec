package ai

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(g *Graph) (*Node, *Node, *Node) {
	a := g.AddNode(NodeTypePedestrian, mgl32.Vec3{0, 0, 0}, 0, false)
	b := g.AddNode(NodeTypePedestrian, mgl32.Vec3{10, 0, 0}, 0, true)
	c := g.AddNode(NodeTypeVehicle, mgl32.Vec3{20, 0, 0}, 4, false)
	g.Connect(a, b)
	g.Connect(b, a)
	g.Connect(b, c)
	return a, b, c
}

func TestGraph_Nearest(t *testing.T) {
	g := &Graph{}
	a, b, c := line(g)
	assert.Same(t, b, g.Nearest(NodeTypePedestrian, mgl32.Vec3{8, 1, 0}))
	assert.Same(t, a, g.Nearest(NodeTypePedestrian, mgl32.Vec3{-5, 0, 0}))
	assert.Same(t, c, g.Nearest(NodeTypeVehicle, mgl32.Vec3{0, 0, 0}))
	assert.Nil(t, (&Graph{}).Nearest(NodeTypeVehicle, mgl32.Vec3{}))

	count := 0
	g.Each(func(*Node) { count++ })
	assert.Equal(t, 3, count)
}

func TestPathController_Walk(t *testing.T) {
	g := &Graph{}
	a, b, c := line(g)
	ctrl := NewPathController(a, 0.5)
	require.Equal(t, a.Position, ctrl.TargetPosition())

	// far away, target holds
	assert.Equal(t, a.Position, ctrl.Update(mgl32.Vec3{5, 5, 0}))

	// arrive at a, go to b
	assert.Equal(t, b.Position, ctrl.Update(a.Position))
	// arrive at b, skip the way back to a
	assert.Equal(t, c.Position, ctrl.Update(b.Position))
	// c is a dead end
	assert.Equal(t, c.Position, ctrl.Update(c.Position))
}

func TestNodeType_String(t *testing.T) {
	assert.Equal(t, "pedestrian", NodeTypePedestrian.String())
	assert.Equal(t, "vehicle", NodeTypeVehicle.String())
	assert.Equal(t, "NodeType(7)", NodeType(7).String())
}
