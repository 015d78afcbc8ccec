package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// syntheticRootName names the frame added above scenes with several root nodes.
const syntheticRootName = "root"

// extractFrames flattens the default scene's node tree into a frame arena in depth-first order.
// Each node's mesh index becomes the frame's single geometry index.
//
// Returns:
//   - []model.Frame: the frame arena, root first
//   - map[int]int: glTF node index to frame index
//   - error: error if the node graph is not a tree
func extractFrames(doc *gltfDocument) ([]model.Frame, map[int]int, error) {
	roots := sceneRoots(doc)
	if len(roots) == 0 {
		return nil, nil, fmt.Errorf("document has no nodes")
	}

	frames := make([]model.Frame, 0, len(doc.Nodes)+1)
	nodeToFrame := make(map[int]int, len(doc.Nodes))
	parentFrame := model.NoParent
	if len(roots) > 1 {
		frames = append(frames, model.Frame{Name: syntheticRootName, Local: mgl32.Ident4(), Parent: model.NoParent})
		parentFrame = 0
	}

	type pending struct{ node, parent int }
	stack := make([]pending, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, pending{roots[i], parentFrame})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.node < 0 || top.node >= len(doc.Nodes) {
			return nil, nil, fmt.Errorf("node index %d out of range", top.node)
		}
		if _, dup := nodeToFrame[top.node]; dup {
			return nil, nil, fmt.Errorf("node %d has more than one parent", top.node)
		}

		node := &doc.Nodes[top.node]
		idx := len(frames)
		nodeToFrame[top.node] = idx
		frame := model.Frame{
			Name:   frameName(node, top.node),
			Local:  nodeLocal(node),
			Parent: top.parent,
		}
		if node.Mesh != nil {
			frame.Geometries = []int{*node.Mesh}
		}
		frames = append(frames, frame)
		if top.parent != model.NoParent {
			frames[top.parent].Children = append(frames[top.parent].Children, idx)
		}

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, pending{node.Children[i], idx})
		}
	}
	return frames, nodeToFrame, nil
}

// sceneRoots returns the root nodes of the default scene, or every parentless node when no scene is declared.
func sceneRoots(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		scene := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			scene = *doc.Scene
		}
		return doc.Scenes[scene].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

func frameName(node *gltfNode, index int) string {
	if node.Name != "" {
		return node.Name
	}
	return fmt.Sprintf("node_%d", index)
}

// nodeLocal returns the node's matrix, or T * R * S from its components.
func nodeLocal(node *gltfNode) mgl32.Mat4 {
	if node.Matrix != nil {
		return mgl32.Mat4(*node.Matrix)
	}
	m := mgl32.Ident4()
	if t := node.Translation; t != nil {
		m = mgl32.Translate3D(t[0], t[1], t[2])
	}
	if r := node.Rotation; r != nil {
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		m = m.Mul4(q.Normalize().Mat4())
	}
	if s := node.Scale; s != nil {
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}
