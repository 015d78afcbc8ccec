package scene

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/catalog"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// minDistanceStart is the distance reported for a model without geometry.
const minDistanceStart = 100000

// LODKind is the outcome of level-of-detail selection for one instance.
type LODKind int

const (
	// LODCulled means the instance is beyond its draw distance and counts as culled.
	LODCulled LODKind = iota
	// LODSkip means nothing is drawn and nothing is counted: a LOD target close enough for its
	// high-detail parent to cover it, or a multi clump model whose root frame lacks the child the
	// distance asks for, such as a single child when the object is between DrawDistance0 and
	// DrawDistance1.
	LODSkip
	// LODFull draws the whole model from its root frame.
	LODFull
	// LODLinked draws the linked low-detail object's model with the instance's matrix.
	LODLinked
	// LODChild draws the subtree of one child of the root frame.
	LODChild
)

// LODDecision is the selected branch and, for LODChild, the chosen frame index.
type LODDecision struct {
	Kind  LODKind
	Frame int
}

// MinDistance returns the smallest distance from the camera to any chunk's bounding sphere
// surface, with chunk centers offset by the object's origin.
//
// Parameters:
//   - m: the model whose chunks are measured
//   - origin: the translation of the object's world matrix
//   - camPos: the camera position
//
// Returns:
//   - float32: the minimum surface distance, 100000 when the model has no geometry
func MinDistance(m model.Model, origin, camPos mgl32.Vec3) float32 {
	d := float32(minDistanceStart)
	geoms := m.Geometries()
	for i := range geoms {
		b := geoms[i].Bounds
		d = min(d, origin.Add(b.Center).Sub(camPos).Len()-b.Radius)
	}
	return d
}

// SelectLOD chooses what to draw for an instance. Distances equal to a threshold select the
// higher detail branch.
//
// Single clump objects draw their full model within DrawDistance0, except LOD targets which draw
// nothing there. Beyond it, the linked object is drawn if it is within its own DrawDistance0, and
// the instance is culled otherwise or when it has no link. Multi clump objects carry both details
// under the root frame: the last child within DrawDistance0, the second-to-last child within
// DrawDistance1, culled beyond that.
//
// Parameters:
//   - def: the instance's definition
//   - linked: the definition of the linked low-detail object, nil when there is none
//   - m: the instance's model
//   - mindist: the result of MinDistance for the instance
//
// Returns:
//   - LODDecision: the selected branch
func SelectLOD(def *catalog.ObjectDefinition, linked *catalog.ObjectDefinition, m model.Model, mindist float32) LODDecision {
	if def.NumClumps <= 1 {
		if mindist > def.DrawDistance0 {
			if linked == nil || mindist > linked.DrawDistance0 {
				return LODDecision{Kind: LODCulled}
			}
			return LODDecision{Kind: LODLinked}
		}
		if def.IsLOD {
			return LODDecision{Kind: LODSkip}
		}
		return LODDecision{Kind: LODFull}
	}

	if mindist > def.DrawDistance1 {
		return LODDecision{Kind: LODCulled}
	}
	root := m.Frame(m.RootFrame())
	if root == nil {
		return LODDecision{Kind: LODSkip}
	}
	children := root.Children
	pick := len(children) - 1
	if mindist > def.DrawDistance0 {
		pick = len(children) - 2
	}
	if pick < 0 {
		return LODDecision{Kind: LODSkip}
	}
	return LODDecision{Kind: LODChild, Frame: children[pick]}
}

// childMatrix cancels a child frame's own local transform so its subtree is placed by the
// object matrix alone.
func childMatrix(objMatrix mgl32.Mat4, child *model.Frame) mgl32.Mat4 {
	return objMatrix.Mul4(child.Local.Inv())
}

func originOf(m mgl32.Mat4) mgl32.Vec3 {
	return common.TranslationOf(m)
}
