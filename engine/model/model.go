package model

import (
	"errors"
	"fmt"
)

// ErrInvalidHierarchy is returned by Validate when the frame arena is not a single rooted tree.
var ErrInvalidHierarchy = errors.New("model: invalid frame hierarchy")

// model is the implementation of the Model interface.
type model struct {
	name       string
	frames     []Frame
	geometries []GeometryChunk
	rootFrame  int
	animations []*AnimationClip
}

// Model defines the interface for a loaded 3D model.
//
// A Model is a frame tree stored as a flat arena plus a flat collection of geometry chunks that
// frames reference by index. Models are owned by the asset cache and never mutated by the renderer.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Frames retrieves the frame arena.
	//
	// Returns:
	//   - []Frame: every frame of the model, indexed by frame index
	Frames() []Frame

	// Frame retrieves a single frame by index.
	//
	// Parameters:
	//   - index: the frame index
	//
	// Returns:
	//   - *Frame: the frame, or nil if the index is out of range
	Frame(index int) *Frame

	// RootFrame returns the index of the root frame.
	//
	// Returns:
	//   - int: the root frame index
	RootFrame() int

	// FindFrame returns the index of the first frame with the given name, in arena order.
	//
	// Parameters:
	//   - name: the frame name to search for
	//
	// Returns:
	//   - int: the frame index
	//   - bool: false if no frame matches
	FindFrame(name string) (int, bool)

	// Geometries retrieves the geometry chunk collection.
	//
	// Returns:
	//   - []GeometryChunk: the chunks, indexed by chunk index
	Geometries() []GeometryChunk

	// Geometry retrieves a single chunk by index.
	//
	// Parameters:
	//   - index: the chunk index
	//
	// Returns:
	//   - *GeometryChunk: the chunk, or nil if the index is out of range
	Geometry(index int) *GeometryChunk

	// Animations retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Animations() []*AnimationClip

	// Animation returns the clip with the given name, or nil.
	//
	// Parameters:
	//   - name: the animation clip name
	//
	// Returns:
	//   - *AnimationClip: the clip, or nil if not found
	Animation(name string) *AnimationClip

	// Validate checks that the frames form exactly one acyclic tree rooted at RootFrame and that every
	// frame, geometry and material index is in range.
	//
	// Returns:
	//   - error: an error wrapping ErrInvalidHierarchy describing the first violation found
	Validate() error
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// If no frame carries explicit Children, the child lists are derived from the Parent indices in arena order.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	m.linkChildren()
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Frames() []Frame {
	return m.frames
}

func (m *model) Frame(index int) *Frame {
	if index < 0 || index >= len(m.frames) {
		return nil
	}
	return &m.frames[index]
}

func (m *model) RootFrame() int {
	return m.rootFrame
}

func (m *model) FindFrame(name string) (int, bool) {
	for i := range m.frames {
		if m.frames[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

func (m *model) Geometries() []GeometryChunk {
	return m.geometries
}

func (m *model) Geometry(index int) *GeometryChunk {
	if index < 0 || index >= len(m.geometries) {
		return nil
	}
	return &m.geometries[index]
}

func (m *model) Animations() []*AnimationClip {
	return m.animations
}

func (m *model) Animation(name string) *AnimationClip {
	for _, clip := range m.animations {
		if clip.Name == name {
			return clip
		}
	}
	return nil
}

func (m *model) Validate() error {
	if len(m.frames) == 0 {
		return fmt.Errorf("%w: %s has no frames", ErrInvalidHierarchy, m.name)
	}
	if m.rootFrame < 0 || m.rootFrame >= len(m.frames) {
		return fmt.Errorf("%w: root frame %d out of range", ErrInvalidHierarchy, m.rootFrame)
	}

	for i := range m.frames {
		f := &m.frames[i]
		if f.Parent == NoParent && i != m.rootFrame {
			return fmt.Errorf("%w: frame %q is a second root", ErrInvalidHierarchy, f.Name)
		}
		for _, g := range f.Geometries {
			if g < 0 || g >= len(m.geometries) {
				return fmt.Errorf("%w: frame %q references geometry %d", ErrInvalidHierarchy, f.Name, g)
			}
		}
	}

	seen := make([]bool, len(m.frames))
	stack := []int{m.rootFrame}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[idx] {
			return fmt.Errorf("%w: frame %q reached twice", ErrInvalidHierarchy, m.frames[idx].Name)
		}
		seen[idx] = true
		for _, c := range m.frames[idx].Children {
			if c < 0 || c >= len(m.frames) {
				return fmt.Errorf("%w: frame %q has child %d", ErrInvalidHierarchy, m.frames[idx].Name, c)
			}
			stack = append(stack, c)
		}
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: frame %q unreachable from root", ErrInvalidHierarchy, m.frames[i].Name)
		}
	}

	for gi := range m.geometries {
		g := &m.geometries[gi]
		for _, sg := range g.Subgeometries {
			if uint64(sg.Start)+uint64(sg.Count) > uint64(len(g.Indices)) && len(g.Indices) > 0 {
				return fmt.Errorf("%w: geometry %d subgeometry exceeds index buffer", ErrInvalidHierarchy, gi)
			}
		}
	}
	return nil
}

// linkChildren fills Children from Parent when the arena was built with parent links only.
func (m *model) linkChildren() {
	for i := range m.frames {
		if len(m.frames[i].Children) > 0 {
			return
		}
	}
	for i := range m.frames {
		p := m.frames[i].Parent
		if p >= 0 && p < len(m.frames) && p != i {
			m.frames[p].Children = append(m.frames[p].Children, i)
		}
	}
}
