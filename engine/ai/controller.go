package ai

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Controller steers a character toward a target.
type Controller interface {
	// TargetPosition returns the point the character is currently heading for.
	//
	// Returns:
	//   - mgl32.Vec3: the target position
	TargetPosition() mgl32.Vec3

	// Update advances the controller given the character's current position.
	//
	// Parameters:
	//   - position: where the character stands now
	//
	// Returns:
	//   - mgl32.Vec3: the position to steer toward after the update
	Update(position mgl32.Vec3) mgl32.Vec3
}

// pathController walks a node graph, choosing the first connection it has not just come from.
type pathController struct {
	mu *sync.Mutex

	current, previous *Node
	arriveRadius      float32
}

var _ Controller = &pathController{}

// NewPathController creates a Controller that follows graph connections starting at start.
//
// Parameters:
//   - start: the first node to walk to, must not be nil
//   - arriveRadius: distance at which a node counts as reached
//
// Returns:
//   - Controller: the path controller
func NewPathController(start *Node, arriveRadius float32) Controller {
	if start == nil {
		panic("ai: NewPathController requires a start node")
	}
	return &pathController{mu: &sync.Mutex{}, current: start, arriveRadius: arriveRadius}
}

func (p *pathController) TargetPosition() mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current.Position
}

func (p *pathController) Update(position mgl32.Vec3) mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current.Position.Sub(position).Len() > p.arriveRadius {
		return p.current.Position
	}

	next := p.pickNext()
	if next != nil {
		p.previous, p.current = p.current, next
	}
	return p.current.Position
}

func (p *pathController) pickNext() *Node {
	conns := p.current.Connections
	if len(conns) == 0 {
		return nil
	}
	for _, c := range conns {
		if c != p.previous {
			return c
		}
	}
	// dead end, turn back
	return conns[0]
}
