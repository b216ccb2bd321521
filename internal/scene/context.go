package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FrameContext carries the per-frame state every behaviour consumes during
// update and draw: the active scene and camera plus the matrices derived for
// this tick. It is built once at the top of the frame and passed explicitly,
// so behaviours never have to reach for process-wide globals mid-frame.
type FrameContext struct {
	Scene   *Scene
	Camera  *Camera
	View    mgl32.Mat4
	Proj    mgl32.Mat4
	DT      float32
	Elapsed float32
}
