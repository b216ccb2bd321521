package behaviours

import (
	"github.com/go-gl/mathgl/mgl32"

	"forge3d/internal/scene"
)

// Spinner rotates the owning entity around a fixed axis at a constant rate.
type Spinner struct {
	scene.BaseBehaviour

	Axis         mgl32.Vec3
	DegPerSecond float32
}

// NewSpinner spins around the world Y axis by default.
func NewSpinner(degPerSecond float32) *Spinner {
	return &Spinner{Axis: mgl32.Vec3{0, 1, 0}, DegPerSecond: degPerSecond}
}

func (s *Spinner) Update(ctx *scene.FrameContext, dt float32) {
	if s.Owner() == nil || s.DegPerSecond == 0 {
		return
	}
	axis := s.Axis
	if axis.Len() == 0 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	s.Owner().Transform().Rotate(axis, s.DegPerSecond*dt)
}
