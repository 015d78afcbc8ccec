package scene

import (
	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Culler tests bounding spheres against the frame's view frustum. The planes are rebuilt once per
// frame by Update and nothing else is cached.
type Culler struct {
	frustum common.Frustum
}

// Update rebuilds the frustum planes from a projection and a view matrix.
//
// Parameters:
//   - proj: the projection matrix, already rebuilt with this frame's far clip
//   - view: the view matrix
func (c *Culler) Update(proj, view mgl32.Mat4) {
	c.frustum = common.ExtractFrustum(proj.Mul4(view))
}

// Intersects reports whether a sphere touches the frustum.
//
// Parameters:
//   - center: the world-space sphere center
//   - radius: the sphere radius
//
// Returns:
//   - bool: true iff the center lies no further than radius behind every plane
func (c *Culler) Intersects(center mgl32.Vec3, radius float32) bool {
	return c.frustum.IntersectsSphere(center, radius)
}
