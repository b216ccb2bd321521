package behaviours

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"forge3d/internal/scene"
)

const eps = 1e-3

func approxVec(t *testing.T, got, want mgl32.Vec3, msg string) {
	t.Helper()
	if got.Sub(want).Len() > eps {
		t.Fatalf("%s: got %v, want %v", msg, got, want)
	}
}

func TestTweenMoveReachesTarget(t *testing.T) {
	e := scene.NewEntity("mover", scene.EntityStatic)
	e.Transform().SetPosition(mgl32.Vec3{0, 0, 0})

	tm := NewTweenMove(mgl32.Vec3{10, 0, 0}, 2)
	e.AddBehaviour(tm)

	ctx := &scene.FrameContext{}
	for i := 0; i < 200; i++ {
		tm.Update(ctx, 1.0/60)
	}

	approxVec(t, e.Transform().Position(), mgl32.Vec3{10, 0, 0}, "final position")
	if tm.Enabled() {
		t.Fatal("one-shot tween should disable itself on arrival")
	}
}

func TestTweenMoveMonotonicProgress(t *testing.T) {
	e := scene.NewEntity("mover", scene.EntityStatic)
	tm := NewTweenMove(mgl32.Vec3{0, 0, 100}, 1)
	e.AddBehaviour(tm)

	ctx := &scene.FrameContext{}
	prev := float32(0)
	for i := 0; i < 60; i++ {
		tm.Update(ctx, 1.0/60)
		z := e.Transform().Position().Z()
		if z < prev-eps {
			t.Fatalf("position moved backwards at step %d: %v < %v", i, z, prev)
		}
		prev = z
	}
}

func TestTweenMovePingPongReturns(t *testing.T) {
	e := scene.NewEntity("mover", scene.EntityStatic)
	tm := NewTweenMove(mgl32.Vec3{4, 0, 0}, 0.5)
	tm.PingPong = true
	e.AddBehaviour(tm)

	ctx := &scene.FrameContext{}
	// One full cycle out and back, with slack for the step landing just
	// short of a leg boundary.
	for i := 0; i < 62; i++ {
		tm.Update(ctx, 1.0/60)
	}

	if got := e.Transform().Position(); got.Len() > 0.05 {
		t.Fatalf("after ping-pong cycle: got %v, want near origin", got)
	}
	if !tm.Enabled() {
		t.Fatal("ping-pong tween should stay enabled")
	}
}

func TestSpinnerRotatesAtRate(t *testing.T) {
	e := scene.NewEntity("spinner", scene.EntityStatic)
	sp := NewSpinner(90)
	e.AddBehaviour(sp)

	ctx := &scene.FrameContext{}
	// 1 second of updates: 90 degrees of yaw.
	for i := 0; i < 100; i++ {
		sp.Update(ctx, 0.01)
	}
	e.Transform().UpdateMatrices()

	approxVec(t, e.Transform().Forward(), mgl32.Vec3{1, 0, 0}, "forward after 90 degree yaw")
}

func TestSpinnerZeroRateIsInert(t *testing.T) {
	e := scene.NewEntity("still", scene.EntityStatic)
	sp := NewSpinner(0)
	e.AddBehaviour(sp)

	before := e.Transform().Rotation()
	sp.Update(&scene.FrameContext{}, 1)
	if e.Transform().Rotation() != before {
		t.Fatal("zero-rate spinner should not touch the rotation")
	}
}
