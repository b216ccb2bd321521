package behaviours

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/go-gl/mathgl/mgl32"

	"forge3d/internal/scene"
)

// TweenMove eases the owning entity from its position at Init to Target over
// Duration seconds. With PingPong set it oscillates between the two points
// forever; otherwise it parks at Target and disables itself.
type TweenMove struct {
	scene.BaseBehaviour

	Target   mgl32.Vec3
	Duration float32
	Easing   ease.TweenFunc
	PingPong bool

	from      mgl32.Vec3
	tween     *gween.Tween
	reversing bool
}

// NewTweenMove animates toward target over the given duration with a smooth
// in-out curve.
func NewTweenMove(target mgl32.Vec3, duration float32) *TweenMove {
	return &TweenMove{
		Target:   target,
		Duration: duration,
		Easing:   ease.InOutQuad,
	}
}

func (m *TweenMove) Init() error {
	if m.Duration <= 0 {
		m.Duration = 1
	}
	if m.Easing == nil {
		m.Easing = ease.InOutQuad
	}
	if m.Owner() != nil {
		m.from = m.Owner().Transform().Position()
	}
	m.tween = gween.New(0, 1, m.Duration, m.Easing)
	return nil
}

func (m *TweenMove) Update(ctx *scene.FrameContext, dt float32) {
	if m.tween == nil || m.Owner() == nil {
		return
	}

	progress, finished := m.tween.Update(dt)

	from, to := m.from, m.Target
	if m.reversing {
		from, to = to, from
	}
	pos := from.Add(to.Sub(from).Mul(progress))
	m.Owner().Transform().SetPosition(pos)

	if !finished {
		return
	}
	if m.PingPong {
		m.reversing = !m.reversing
		m.tween = gween.New(0, 1, m.Duration, m.Easing)
		return
	}
	m.SetEnabled(false)
}
