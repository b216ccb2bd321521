package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowSettings sizes the directional shadow frustum and map.
type ShadowSettings struct {
	Resolution int32   `yaml:"resolution"` // square depth map edge, texels
	HalfExtent float32 `yaml:"halfExtent"` // orthographic frustum half-size, world units
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
}

// DefaultShadowSettings matches the demo scene scale.
func DefaultShadowSettings() ShadowSettings {
	return ShadowSettings{Resolution: 2048, HalfExtent: 30, Near: 1, Far: 120}
}

// upAlignLimit is cos(~2.6 degrees). A light direction closer than that to
// world-up would make the look-at cross product degenerate.
const upAlignLimit = 0.999

// DirectionalLightSpace derives the projection*view matrix for the shadow
// pass. The frustum centers on the main camera's position so the shadow
// window follows the viewer; the eye backs off along the negated light
// direction by the frustum half-size. The shadow producer and every shadow
// consumer must call this same function, or the depth map and its sampling
// disagree and shadows misalign.
func DirectionalLightSpace(camPos, lightDir mgl32.Vec3, set ShadowSettings) mgl32.Mat4 {
	dir := lightDir.Normalize()
	center := camPos
	eye := center.Sub(dir.Mul(set.HalfExtent))

	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(dir.Dot(up)) > upAlignLimit {
		// Near-vertical light: substitute world Z for up.
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(eye, center, up)
	proj := mgl32.Ortho(
		-set.HalfExtent, set.HalfExtent,
		-set.HalfExtent, set.HalfExtent,
		set.Near, set.Far,
	)
	return proj.Mul4(view)
}
