// Package behaviours collects reusable entity behaviours that sit on top of
// the scene core: camera controllers and simple animation drivers.
package behaviours

import (
	"github.com/go-gl/mathgl/mgl32"

	"forge3d/internal/input"
	"forge3d/internal/scene"
)

// FlyCamera is a free-flight controller: WASD moves in the camera plane, Q/E
// move vertically, holding the right mouse button steers with the cursor.
// Attach it to the entity carrying the Camera behaviour.
type FlyCamera struct {
	scene.BaseBehaviour

	Input *input.Manager

	Speed       float32 // units per second
	SprintScale float32
	Sensitivity float32 // degrees per cursor pixel

	yaw   float32
	pitch float32
}

// NewFlyCamera wires the controller to an input manager.
func NewFlyCamera(in *input.Manager) *FlyCamera {
	return &FlyCamera{
		Input:       in,
		Speed:       8,
		SprintScale: 3,
		Sensitivity: 0.15,
	}
}

// Init seeds yaw and pitch from the entity's current orientation so the first
// mouse movement does not snap the view.
func (f *FlyCamera) Init() error {
	if f.Owner() != nil {
		e := f.Owner().Transform().Euler()
		f.pitch, f.yaw = e.X(), e.Y()
	}
	return nil
}

func (f *FlyCamera) Update(ctx *scene.FrameContext, dt float32) {
	if f.Input == nil || f.Owner() == nil {
		return
	}
	t := f.Owner().Transform()

	if f.Input.IsActive(input.ActionMouseRight) {
		dx, dy := f.Input.MouseDelta()
		f.yaw -= float32(dx) * f.Sensitivity
		f.pitch -= float32(dy) * f.Sensitivity
		if f.pitch > 89 {
			f.pitch = 89
		}
		if f.pitch < -89 {
			f.pitch = -89
		}
		t.SetEuler(mgl32.Vec3{f.pitch, f.yaw, 0})
	}

	var move mgl32.Vec3
	if f.Input.IsActive(input.ActionMoveForward) {
		move = move.Add(t.Forward())
	}
	if f.Input.IsActive(input.ActionMoveBackward) {
		move = move.Add(t.Back())
	}
	if f.Input.IsActive(input.ActionMoveRight) {
		move = move.Add(t.Right())
	}
	if f.Input.IsActive(input.ActionMoveLeft) {
		move = move.Add(t.Left())
	}
	if f.Input.IsActive(input.ActionMoveUp) {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if f.Input.IsActive(input.ActionMoveDown) {
		move = move.Add(mgl32.Vec3{0, -1, 0})
	}
	if move.Len() == 0 {
		return
	}

	speed := f.Speed
	if f.Input.IsActive(input.ActionSprint) {
		speed *= f.SprintScale
	}
	t.Translate(move.Normalize().Mul(speed * dt))
}
