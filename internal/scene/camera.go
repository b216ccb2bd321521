package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// mainCamera is process-wide, last-writer-wins. Callers must not race;
// the engine itself only touches it from the frame loop thread.
var mainCamera *Camera

// SetMainCamera designates the camera read by every renderer during draw.
func SetMainCamera(c *Camera) { mainCamera = c }

// MainCamera returns the current main camera, or nil when none is set.
func MainCamera() *Camera { return mainCamera }

// Camera derives view and projection matrices from its entity's Transform
// each update. The engine's forward axis is +Z, so the view matrix carries a
// 180 degree turn to match the rasterizer's -Z viewing convention.
type Camera struct {
	BaseBehaviour

	FOV    float32 // vertical field of view, degrees
	Near   float32
	Far    float32
	Aspect float32

	proj mgl32.Mat4
	view mgl32.Mat4
}

// flipY converts between the engine's forward=+Z convention and the GL view
// convention; the same correction Transform.LookAt applies.
var flipY = mgl32.HomogRotate3DY(math32.Pi)

func NewCamera(fovDeg, aspect, near, far float32) *Camera {
	c := &Camera{
		FOV:    fovDeg,
		Near:   near,
		Far:    far,
		Aspect: aspect,
		proj:   mgl32.Ident4(),
		view:   mgl32.Ident4(),
	}
	c.recompute()
	return c
}

func (c *Camera) TypeName() string { return "camera" }

// Update recomputes both matrices from the owning transform. The scene calls
// this every tick, even while idle, so editor-preview style behaviours keep
// seeing fresh matrices.
func (c *Camera) Update(ctx *FrameContext, dt float32) {
	c.recompute()
}

func (c *Camera) recompute() {
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
	if c.owner != nil {
		c.view = c.owner.Transform().WorldMatrix().Mul4(flipY).Inv()
	} else {
		c.view = mgl32.Ident4()
	}
}

func (c *Camera) Projection() mgl32.Mat4 { return c.proj }
func (c *Camera) View() mgl32.Mat4       { return c.view }

// SetViewport updates the aspect ratio from framebuffer dimensions.
func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// Position returns the camera's world-space position.
func (c *Camera) Position() mgl32.Vec3 {
	if c.owner == nil {
		return mgl32.Vec3{}
	}
	return c.owner.Transform().WorldPosition()
}

// ScreenToWorldRay unprojects a pixel coordinate into a world-space ray.
// The ray through the exact viewport center starts at the camera position and
// runs along the transform's forward vector.
func (c *Camera) ScreenToWorldRay(x, y float32, width, height int) (origin, dir mgl32.Vec3) {
	ndcX := 2*x/float32(width) - 1
	ndcY := 1 - 2*y/float32(height)

	inv := c.proj.Mul4(c.view).Inv()
	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})

	p0 := near.Vec3().Mul(1 / near.W())
	p1 := far.Vec3().Mul(1 / far.W())

	return c.Position(), p1.Sub(p0).Normalize()
}

// WorldToScreen projects a world-space point to pixel coordinates. The third
// return is false when the point lies behind the camera.
func (c *Camera) WorldToScreen(p mgl32.Vec3, width, height int) (float32, float32, bool) {
	clip := c.proj.Mul4(c.view).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	sx := (ndc.X() + 1) / 2 * float32(width)
	sy := (1 - ndc.Y()) / 2 * float32(height)
	return sx, sy, true
}

// ToData / FromData serialize the lens parameters; the transform is handled
// by the owning entity.
func (c *Camera) ToData() map[string]any {
	return map[string]any{
		"type":   c.TypeName(),
		"fov":    c.FOV,
		"near":   c.Near,
		"far":    c.Far,
		"aspect": c.Aspect,
	}
}

func (c *Camera) FromData(data map[string]any) {
	c.FOV = floatOr(data, "fov", 60)
	c.Near = floatOr(data, "near", 0.1)
	c.Far = floatOr(data, "far", 1000)
	c.Aspect = floatOr(data, "aspect", 1.5)
	c.recompute()
}
