package scene

import (
	"log"

	"github.com/google/uuid"

	"forge3d/internal/transform"
)

// EntityType discriminates the role of an entity in the scene graph.
type EntityType int

const (
	EntityStatic EntityType = iota
	EntityAmbientLight
	EntityDirectionalLight
	EntityPointLight
	EntitySpotLight
	EntityCamera
	EntityScene
)

var entityTypeNames = map[EntityType]string{
	EntityStatic:           "static",
	EntityAmbientLight:     "ambientLight",
	EntityDirectionalLight: "directionalLight",
	EntityPointLight:       "pointLight",
	EntitySpotLight:        "spotLight",
	EntityCamera:           "camera",
	EntityScene:            "scene",
}

func (t EntityType) String() string {
	if s, ok := entityTypeNames[t]; ok {
		return s
	}
	return "static"
}

func entityTypeFromName(name string) EntityType {
	for t, s := range entityTypeNames {
		if s == name {
			return t
		}
	}
	return EntityStatic
}

// IsLight reports whether the type is one of the light specializations.
func (t EntityType) IsLight() bool {
	switch t {
	case EntityAmbientLight, EntityDirectionalLight, EntityPointLight, EntitySpotLight:
		return true
	}
	return false
}

// Entity is a node in the scene graph: one owned Transform plus an ordered
// collection of Behaviours whose lifecycle it drives.
type Entity struct {
	id   string
	Name string
	Tag  string

	// Active gates update; Show additionally gates draw.
	Active bool
	Show   bool

	entityType EntityType
	trans      *transform.Transform
	behaviours []Behaviour

	scene     *Scene // owning scene, not owned
	destroyed bool
}

// NewEntity is the factory for all entity kinds.
func NewEntity(name string, typ EntityType) *Entity {
	return &Entity{
		id:         uuid.NewString(),
		Name:       name,
		Active:     true,
		Show:       true,
		entityType: typ,
		trans:      transform.New(),
	}
}

func (e *Entity) UUID() string                    { return e.id }
func (e *Entity) Type() EntityType                { return e.entityType }
func (e *Entity) Transform() *transform.Transform { return e.trans }
func (e *Entity) Scene() *Scene                   { return e.scene }
func (e *Entity) Destroyed() bool                 { return e.destroyed }

// Behaviours returns the owned behaviour list. Callers must not mutate it.
func (e *Entity) Behaviours() []Behaviour { return e.behaviours }

// AddBehaviour sets the back-reference, initializes the behaviour, then
// appends it. Init therefore runs while the sibling list may still be under
// construction, and behaviours must tolerate that.
func (e *Entity) AddBehaviour(b Behaviour) {
	b.SetOwner(e)
	e.initBehaviour(b)
	e.behaviours = append(e.behaviours, b)
}

// RemoveBehaviour detaches the behaviour and destroys it synchronously.
func (e *Entity) RemoveBehaviour(b Behaviour) {
	for i, cur := range e.behaviours {
		if cur == b {
			e.behaviours = append(e.behaviours[:i], e.behaviours[i+1:]...)
			b.Destroy()
			return
		}
	}
}

// Initialize visits every behaviour in insertion order, initializing the ones
// that have not been initialized yet. Safe to call repeatedly.
func (e *Entity) Initialize() {
	for _, b := range e.behaviours {
		e.initBehaviour(b)
	}
}

func (e *Entity) initBehaviour(b Behaviour) {
	if b.Initialized() {
		return
	}
	if err := b.Init(); err != nil {
		log.Printf("forge3d: behaviour %T on entity %q failed to initialize: %v", b, e.Name, err)
		b.MarkInitialized(true)
		return
	}
	b.MarkInitialized(false)
}

func (e *Entity) runnable(b Behaviour) bool {
	return b.Enabled() && b.Initialized() && !b.Failed()
}

// Update recomputes the transform hierarchy below this entity, then updates
// every currently-runnable behaviour in list order. Behaviours appended
// during the pass run from the next frame on.
func (e *Entity) Update(ctx *FrameContext, dt float32) {
	if !e.Active || e.destroyed {
		return
	}
	e.trans.UpdateMatrices()
	bs := e.behaviours
	for _, b := range bs {
		if e.runnable(b) {
			b.Update(ctx, dt)
		}
	}
}

// Draw mirrors Update for active and visible entities.
func (e *Entity) Draw(ctx *FrameContext) {
	if !e.Active || !e.Show || e.destroyed {
		return
	}
	bs := e.behaviours
	for _, b := range bs {
		if e.runnable(b) {
			b.Draw(ctx)
		}
	}
}

func (e *Entity) drawEarly(ctx *FrameContext) {
	if !e.Active || !e.Show || e.destroyed {
		return
	}
	for _, b := range e.behaviours {
		if ed, ok := b.(EarlyDrawer); ok && e.runnable(b) {
			ed.DrawEarly(ctx)
		}
	}
}

// Destroy tears down every behaviour, then marks the entity destroyed.
// Idempotent.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	for _, b := range e.behaviours {
		b.Destroy()
	}
	e.destroyed = true
}

// BehaviourOf returns the first behaviour of the requested concrete type.
func BehaviourOf[T Behaviour](e *Entity) (T, bool) {
	for _, b := range e.behaviours {
		if v, ok := b.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
