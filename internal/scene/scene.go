package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// currentScene is process-wide, last-writer-wins, same contract as the main
// camera.
var currentScene *Scene

func SetCurrentScene(s *Scene) { currentScene = s }
func CurrentScene() *Scene     { return currentScene }

// State is the scene lifecycle position.
type State int

const (
	StateStopped State = iota // created, Initialize not called yet
	StateReady                // initialized; idle unless running
	StateDestroyed            // terminal
)

// SceneBehaviour hooks scene-level logic around the two frame phases.
type SceneBehaviour interface {
	BeforeUpdate(ctx *FrameContext)
	AfterUpdate(ctx *FrameContext)
	BeforeDraw(ctx *FrameContext)
	AfterDraw(ctx *FrameContext)
}

// BaseSceneBehaviour provides no-op hooks to embed.
type BaseSceneBehaviour struct{}

func (BaseSceneBehaviour) BeforeUpdate(ctx *FrameContext) {}
func (BaseSceneBehaviour) AfterUpdate(ctx *FrameContext)  {}
func (BaseSceneBehaviour) BeforeDraw(ctx *FrameContext)   {}
func (BaseSceneBehaviour) AfterDraw(ctx *FrameContext)    {}

// Scene owns all entities (lights and cameras included) and drives the
// per-frame update/draw orchestration.
//
// Lifecycle: Stopped -> Initialize -> Ready (idle; the main camera still
// updates every tick) -> SetRunning(true) -> full update/draw per tick ->
// Destroy -> Destroyed (terminal, rejects AddEntity).
type Scene struct {
	// root is the scene's own entity: its transform and behaviours update
	// before the regular entity list each running tick.
	root *Entity

	entities []*Entity
	hooks    []SceneBehaviour

	state   State
	running bool
	elapsed float32

	Background mgl32.Vec3
	Shadow     ShadowSettings

	// shadowMap is the depth texture published by a shadow-map renderer this
	// frame; zero means no shadow pass ran.
	shadowMap uint32
}

func NewScene(name string) *Scene {
	return &Scene{
		root:       NewEntity(name, EntityScene),
		Background: mgl32.Vec3{0.53, 0.81, 0.92},
		Shadow:     DefaultShadowSettings(),
	}
}

func (s *Scene) Name() string    { return s.root.Name }
func (s *Scene) Root() *Entity   { return s.root }
func (s *Scene) State() State    { return s.state }
func (s *Scene) Elapsed() float32 { return s.elapsed }

// Entities returns the owned entity list. Callers must not mutate it.
func (s *Scene) Entities() []*Entity { return s.entities }

func (s *Scene) IsRunning() bool { return s.running && s.state == StateReady }

func (s *Scene) SetRunning(v bool) {
	if s.state == StateDestroyed {
		return
	}
	s.running = v
}

// AddEntity appends an entity and, once the scene is initialized, brings its
// behaviours up immediately. Destroyed scenes reject new entities.
func (s *Scene) AddEntity(e *Entity) error {
	if s.state == StateDestroyed {
		return fmt.Errorf("scene %q is destroyed", s.Name())
	}
	e.scene = s
	s.entities = append(s.entities, e)
	if s.state == StateReady {
		e.Initialize()
	}
	return nil
}

// RemoveEntity detaches the entity without destroying it.
func (s *Scene) RemoveEntity(e *Entity) {
	for i, cur := range s.entities {
		if cur == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			e.scene = nil
			return
		}
	}
}

// AddSceneBehaviour registers a four-phase hook.
func (s *Scene) AddSceneBehaviour(h SceneBehaviour) {
	s.hooks = append(s.hooks, h)
}

// Initialize visits every entity and moves the scene to Ready.
func (s *Scene) Initialize() {
	if s.state != StateStopped {
		return
	}
	s.root.Initialize()
	for _, e := range s.entities {
		e.Initialize()
	}
	s.state = StateReady
}

// frameContext assembles the per-tick context from the main camera.
func (s *Scene) frameContext(dt float32) *FrameContext {
	ctx := &FrameContext{
		Scene:   s,
		DT:      dt,
		Elapsed: s.elapsed,
		View:    mgl32.Ident4(),
		Proj:    mgl32.Ident4(),
	}
	if cam := MainCamera(); cam != nil {
		ctx.Camera = cam
		ctx.View = cam.View()
		ctx.Proj = cam.Projection()
	}
	return ctx
}

// Update advances one tick. The main camera's entity updates unconditionally,
// even while idle, so camera-follow and preview behaviours keep working; when
// not running, nothing else advances.
func (s *Scene) Update(dt float32) {
	if s.state != StateReady {
		return
	}
	ctx := s.frameContext(dt)

	var camEntity *Entity
	if cam := MainCamera(); cam != nil {
		camEntity = cam.Owner()
	}
	if camEntity != nil {
		camEntity.Update(ctx, dt)
	}

	if !s.running {
		return
	}

	for _, h := range s.hooks {
		h.BeforeUpdate(ctx)
	}

	s.elapsed += dt
	ctx.Elapsed = s.elapsed

	s.root.Update(ctx, dt)
	for _, e := range s.entities {
		if e == camEntity {
			continue // already advanced this tick
		}
		e.Update(ctx, dt)
	}

	for _, h := range s.hooks {
		h.AfterUpdate(ctx)
	}
}

// Draw renders one frame: beforeDraw hooks, the early pass (shadow maps),
// every visible entity, afterDraw hooks. Clearing the default framebuffer to
// Background is the caller's job, since the scene itself never touches the
// GPU API.
func (s *Scene) Draw() {
	if s.state != StateReady || !s.running {
		return
	}
	ctx := s.frameContext(0)
	ctx.Elapsed = s.elapsed

	for _, h := range s.hooks {
		h.BeforeDraw(ctx)
	}

	// Off-screen passes run first so the main pass can sample their output.
	for _, e := range s.entities {
		e.drawEarly(ctx)
	}
	s.root.Draw(ctx)
	for _, e := range s.entities {
		e.Draw(ctx)
	}

	for _, h := range s.hooks {
		h.AfterDraw(ctx)
	}
}

// PublishShadowMap records the depth texture the main pass may sample this
// frame. A shadow-map renderer calls it at the top of its early pass.
func (s *Scene) PublishShadowMap(tex uint32) { s.shadowMap = tex }

// ShadowMap returns the published depth texture handle, zero when absent.
func (s *Scene) ShadowMap() uint32 { return s.shadowMap }

// Destroy tears the scene down: lights first, then the remaining entities,
// then the list is cleared. Renderer behaviours may hold references into
// light data, so the light-first ordering is load-bearing. Terminal.
func (s *Scene) Destroy() {
	if s.state == StateDestroyed {
		return
	}
	for _, e := range s.entities {
		if e.Type().IsLight() {
			e.Destroy()
		}
	}
	for _, e := range s.entities {
		if !e.Type().IsLight() {
			e.Destroy()
		}
	}
	s.entities = nil
	s.root.Destroy()
	s.running = false
	s.state = StateDestroyed
	if currentScene == s {
		currentScene = nil
	}
}
