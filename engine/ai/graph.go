package ai

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeType classifies a path node as a pedestrian or a vehicle node.
type NodeType int

const (
	NodeTypePedestrian NodeType = iota
	NodeTypeVehicle
)

func (t NodeType) String() string {
	switch t {
	case NodeTypePedestrian:
		return "pedestrian"
	case NodeTypeVehicle:
		return "vehicle"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is a single navigation point.
type Node struct {
	Type     NodeType
	Position mgl32.Vec3
	// Size is the lane width of vehicle nodes.
	Size float32
	// External marks pedestrian nodes that connect to another path group.
	External    bool
	Connections []*Node
}

// Graph is the navigation graph shared by every controller.
type Graph struct {
	mu    sync.RWMutex
	Nodes []*Node
}

// AddNode appends a node to the graph and returns it.
//
// Parameters:
//   - nodeType: the node classification
//   - position: the world position
//   - size: the lane width, ignored for pedestrian nodes
//   - external: whether a pedestrian node is external
//
// Returns:
//   - *Node: the new node
func (g *Graph) AddNode(nodeType NodeType, position mgl32.Vec3, size float32, external bool) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := &Node{Type: nodeType, Position: position, Size: size, External: external}
	g.Nodes = append(g.Nodes, n)
	return n
}

// Connect links a to b. Connections are directed; call twice for a two-way link.
func (g *Graph) Connect(a, b *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a.Connections = append(a.Connections, b)
}

// Each calls fn for every node in insertion order while holding the read lock.
//
// Parameters:
//   - fn: the visitor
func (g *Graph) Each(fn func(n *Node)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, n := range g.Nodes {
		fn(n)
	}
}

// Nearest returns the closest node of the given type, or nil when the graph has none.
//
// Parameters:
//   - nodeType: the node type to search
//   - position: the query point
//
// Returns:
//   - *Node: the closest node
func (g *Graph) Nearest(nodeType NodeType, position mgl32.Vec3) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var best *Node
	var bestDist float32
	for _, n := range g.Nodes {
		if n.Type != nodeType {
			continue
		}
		d := n.Position.Sub(position).LenSqr()
		if best == nil || d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
