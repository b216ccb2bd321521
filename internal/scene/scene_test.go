package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// recorder is a test behaviour that counts lifecycle calls.
type recorder struct {
	BaseBehaviour
	initCalls    int
	updateCalls  int
	drawCalls    int
	destroyCalls int
	failInit     bool
	log          *[]string
	name         string
}

func (r *recorder) Init() error {
	r.initCalls++
	if r.failInit {
		return errors.New("no GPU context")
	}
	return nil
}

func (r *recorder) Update(ctx *FrameContext, dt float32) { r.updateCalls++ }
func (r *recorder) Draw(ctx *FrameContext)               { r.drawCalls++ }

func (r *recorder) Destroy() {
	r.destroyCalls++
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
}

func newRunningScene(t *testing.T) *Scene {
	t.Helper()
	s := NewScene("test")
	s.Initialize()
	s.SetRunning(true)
	return s
}

func TestBehaviourInitFailureIsSkipped(t *testing.T) {
	s := newRunningScene(t)

	e := NewEntity("thing", EntityStatic)
	bad := &recorder{failInit: true}
	good := &recorder{}
	e.AddBehaviour(bad)
	e.AddBehaviour(good)
	if err := s.AddEntity(e); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}

	s.Update(0.016)
	s.Draw()

	if bad.initCalls != 1 {
		t.Errorf("failed behaviour re-initialized, init calls = %d", bad.initCalls)
	}
	if bad.updateCalls != 0 || bad.drawCalls != 0 {
		t.Errorf("failed behaviour ran: %d updates, %d draws", bad.updateCalls, bad.drawCalls)
	}
	if good.updateCalls != 1 || good.drawCalls != 1 {
		t.Errorf("sibling behaviour did not run: %d updates, %d draws", good.updateCalls, good.drawCalls)
	}
}

func TestInactiveEntitySkipsUpdateAndHiddenSkipsDraw(t *testing.T) {
	s := newRunningScene(t)

	e := NewEntity("thing", EntityStatic)
	r := &recorder{}
	e.AddBehaviour(r)
	_ = s.AddEntity(e)

	e.Active = false
	s.Update(0.016)
	s.Draw()
	if r.updateCalls != 0 || r.drawCalls != 0 {
		t.Errorf("inactive entity ran: %d updates, %d draws", r.updateCalls, r.drawCalls)
	}

	e.Active = true
	e.Show = false
	s.Update(0.016)
	s.Draw()
	if r.updateCalls != 1 {
		t.Errorf("active hidden entity should update, updates = %d", r.updateCalls)
	}
	if r.drawCalls != 0 {
		t.Errorf("hidden entity drew, draws = %d", r.drawCalls)
	}
}

func TestRemoveBehaviourDestroysSynchronously(t *testing.T) {
	e := NewEntity("thing", EntityStatic)
	r := &recorder{}
	e.AddBehaviour(r)
	e.RemoveBehaviour(r)

	if r.destroyCalls != 1 {
		t.Errorf("destroy calls = %d, want 1", r.destroyCalls)
	}
	if len(e.Behaviours()) != 0 {
		t.Errorf("behaviour still attached after removal")
	}
}

func TestSceneNotRunningOnlyUpdatesCamera(t *testing.T) {
	s := NewScene("test")
	s.Initialize()
	// Not running.

	camEntity := NewEntity("cam", EntityCamera)
	cam := NewCamera(60, 1.5, 0.1, 100)
	camEntity.AddBehaviour(cam)
	camRec := &recorder{}
	camEntity.AddBehaviour(camRec)
	_ = s.AddEntity(camEntity)
	SetMainCamera(cam)
	defer SetMainCamera(nil)

	other := NewEntity("thing", EntityStatic)
	otherRec := &recorder{}
	other.AddBehaviour(otherRec)
	_ = s.AddEntity(other)

	s.Update(0.016)
	s.Draw()

	if camRec.updateCalls != 1 {
		t.Errorf("camera entity should update while idle, updates = %d", camRec.updateCalls)
	}
	if otherRec.updateCalls != 0 {
		t.Errorf("non-camera entity advanced while idle, updates = %d", otherRec.updateCalls)
	}
	if otherRec.drawCalls != 0 {
		t.Errorf("scene drew while idle")
	}
	if s.Elapsed() != 0 {
		t.Errorf("elapsed advanced while idle: %v", s.Elapsed())
	}
}

func TestElapsedAccumulatesWhileRunning(t *testing.T) {
	s := newRunningScene(t)
	s.Update(0.25)
	s.Update(0.25)
	if s.Elapsed() != 0.5 {
		t.Errorf("elapsed = %v, want 0.5", s.Elapsed())
	}
}

// hookRecorder records hook ordering against entity updates.
type hookRecorder struct {
	BaseSceneBehaviour
	log *[]string
}

func (h *hookRecorder) BeforeUpdate(ctx *FrameContext) { *h.log = append(*h.log, "beforeUpdate") }
func (h *hookRecorder) AfterUpdate(ctx *FrameContext)  { *h.log = append(*h.log, "afterUpdate") }
func (h *hookRecorder) BeforeDraw(ctx *FrameContext)   { *h.log = append(*h.log, "beforeDraw") }
func (h *hookRecorder) AfterDraw(ctx *FrameContext)    { *h.log = append(*h.log, "afterDraw") }

type logBehaviour struct {
	BaseBehaviour
	log  *[]string
	name string
}

func (l *logBehaviour) Update(ctx *FrameContext, dt float32) { *l.log = append(*l.log, l.name) }
func (l *logBehaviour) Draw(ctx *FrameContext)               { *l.log = append(*l.log, l.name) }

func TestSceneHookOrdering(t *testing.T) {
	s := newRunningScene(t)
	var log []string
	s.AddSceneBehaviour(&hookRecorder{log: &log})

	e := NewEntity("thing", EntityStatic)
	e.AddBehaviour(&logBehaviour{log: &log, name: "entity"})
	_ = s.AddEntity(e)

	s.Update(0.016)
	s.Draw()

	want := []string{"beforeUpdate", "entity", "afterUpdate", "beforeDraw", "entity", "afterDraw"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log[%d] = %q, want %q (full: %v)", i, log[i], want[i], log)
		}
	}
}

func TestDestroyOrderLightsFirst(t *testing.T) {
	s := newRunningScene(t)
	var order []string

	static := NewEntity("static", EntityStatic)
	static.AddBehaviour(&recorder{log: &order, name: "static"})
	_ = s.AddEntity(static)

	lightEntity := NewDirectionalLightEntity("sun", mgl32.Vec3{1, 1, 1})
	lightEntity.AddBehaviour(&recorder{log: &order, name: "light"})
	_ = s.AddEntity(lightEntity)

	s.Destroy()

	if len(order) != 2 || order[0] != "light" || order[1] != "static" {
		t.Errorf("destroy order = %v, want [light static]", order)
	}
	if s.State() != StateDestroyed {
		t.Errorf("state = %v, want destroyed", s.State())
	}
	if len(s.Entities()) != 0 {
		t.Errorf("entity list not cleared")
	}
}

func TestDestroyedSceneRejectsEntities(t *testing.T) {
	s := newRunningScene(t)
	s.Destroy()

	if err := s.AddEntity(NewEntity("late", EntityStatic)); err == nil {
		t.Errorf("destroyed scene accepted an entity")
	}
	// Further ticks are inert, not panics.
	s.Update(0.016)
	s.Draw()
}

func TestEntityDestroyIsIdempotent(t *testing.T) {
	e := NewEntity("thing", EntityStatic)
	r := &recorder{}
	e.AddBehaviour(r)
	e.Destroy()
	e.Destroy()
	if r.destroyCalls != 1 {
		t.Errorf("destroy calls = %d, want 1", r.destroyCalls)
	}
}

func TestCurrentSceneLastWriterWins(t *testing.T) {
	a := NewScene("a")
	b := NewScene("b")
	SetCurrentScene(a)
	SetCurrentScene(b)
	if CurrentScene() != b {
		t.Errorf("current scene should be the last written")
	}
	b.Destroy()
	if CurrentScene() != nil {
		t.Errorf("destroying the current scene should clear the global")
	}
}
