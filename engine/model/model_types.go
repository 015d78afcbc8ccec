package model

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// NoParent marks the root frame's parent index.
const NoParent = -1

// --- Frame hierarchy ---

// Frame is one node in a model's rigid transform hierarchy.
// Frames live in a flat arena owned by the Model; Parent and Children are indices into that arena.
type Frame struct {
	// Name is the frame identifier used for animation channels, hide flags and wheel lookup.
	Name string

	// Local is the static transform relative to the parent frame.
	Local mgl32.Mat4

	// Parent is the index of the parent frame, or NoParent for the root.
	Parent int

	// Children are the indices of the child frames in draw order.
	Children []int

	// Geometries are the indices of the geometry chunks owned by this frame.
	Geometries []int
}

// --- Geometry ---

// ModuleFlags describe how a geometry chunk's color is sourced.
type ModuleFlags uint32

const (
	// ModulePrelit marks geometry carrying per-vertex colors.
	ModulePrelit ModuleFlags = 0x08

	// ModuleMaterialColor marks geometry whose color is modulated by its materials.
	ModuleMaterialColor ModuleFlags = 0x40
)

// Has reports whether all bits of f are set.
func (m ModuleFlags) Has(f ModuleFlags) bool {
	return m&f == f
}

// Subgeometry is an indexed triangle range within a geometry chunk sharing one material.
type Subgeometry struct {
	// Start is the first index in the chunk's index buffer.
	Start uint32

	// Count is the number of indices drawn.
	Count uint32

	// Material is the index into the owning chunk's Materials.
	Material int
}

// GeometryChunk is a mesh piece with a model-space bounding sphere.
type GeometryChunk struct {
	// Bounds is the bounding sphere in model-local space.
	Bounds common.Sphere

	// Subgeometries are the material ranges of the chunk.
	Subgeometries []Subgeometry

	// Materials are the materials referenced by Subgeometries.
	Materials []material.Material

	// Flags select per-vertex or per-material coloring.
	Flags ModuleFlags

	// Vertices and Indices are the CPU copies uploaded to the renderer on first use.
	Vertices []Vertex
	Indices  []uint32
}

// MaterialFor returns the material referenced by a subgeometry, or nil when its index is out of range.
//
// Parameters:
//   - sg: the subgeometry
//
// Returns:
//   - material.Material: the referenced material or nil
func (g *GeometryChunk) MaterialFor(sg Subgeometry) material.Material {
	if sg.Material < 0 || sg.Material >= len(g.Materials) {
		return nil
	}
	return g.Materials[sg.Material]
}

// --- Animation Types ---

// AnimationClip represents a single animation (walk, run, door swing, etc.).
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// Channels contains animation data keyed by frame name.
	Channels map[string]*AnimationChannel
}

// AnimationChannel contains keyframe data for a single frame.
type AnimationChannel struct {
	// FrameName is the name of the frame this channel animates.
	FrameName string

	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation.
	RotationKeys []QuaternionKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value mgl32.Vec3
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the rotation at this keyframe.
	Value mgl32.Quat
}
