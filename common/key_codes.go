package common

// Virtual key codes used by the viewer controls.
// Printable keys use their ASCII value, which is also what GLFW reports.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // forward
	KeyA     = 65  // strafe left
	KeyS     = 83  // back
	KeyD     = 68  // strafe right
	KeyQ     = 81  // down
	KeyE     = 69  // up
	KeyP     = 80  // toggle path overlay
	KeyT     = 84  // skip game time forward
	KeySpace = 32  // pause game time
	KeyEsc   = 256 // quit (GLFW)

	KeyLeftShift = 340 // fast move (GLFW)
)
