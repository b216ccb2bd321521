package scene

// Behaviour is the polymorphic unit of per-entity logic and rendering.
// Lifecycle: constructed -> Init (once) -> repeated Update/Draw while enabled
// -> Destroy. A behaviour never outlives its owning entity.
//
// Init must not panic on missing resources: it returns an error, the entity
// marks the behaviour failed, and the behaviour is skipped on later
// update/draw without crashing the entity.
type Behaviour interface {
	Init() error
	Update(ctx *FrameContext, dt float32)
	Draw(ctx *FrameContext)
	Destroy()

	SetOwner(e *Entity)
	Owner() *Entity
	Enabled() bool
	SetEnabled(v bool)
	Initialized() bool
	Failed() bool
	MarkInitialized(failed bool)
}

// DataBehaviour is implemented by behaviours that participate in
// serialization. TypeName keys the factory registry.
type DataBehaviour interface {
	Behaviour
	TypeName() string
	ToData() map[string]any
	FromData(data map[string]any)
}

// EarlyDrawer marks behaviours that render before the main pass (off-screen
// passes such as shadow maps). DrawEarly runs for every active+visible entity
// before any Draw call of the frame.
type EarlyDrawer interface {
	DrawEarly(ctx *FrameContext)
}

// BaseBehaviour provides default no-op implementations and the owner
// back-reference. Embed it and override what the variant needs.
type BaseBehaviour struct {
	owner       *Entity
	disabled    bool
	initialized bool
	failed      bool
}

func (b *BaseBehaviour) Init() error                          { return nil }
func (b *BaseBehaviour) Update(ctx *FrameContext, dt float32) {}
func (b *BaseBehaviour) Draw(ctx *FrameContext)               {}
func (b *BaseBehaviour) Destroy()                             {}

func (b *BaseBehaviour) SetOwner(e *Entity) { b.owner = e }
func (b *BaseBehaviour) Owner() *Entity     { return b.owner }

func (b *BaseBehaviour) Enabled() bool     { return !b.disabled }
func (b *BaseBehaviour) SetEnabled(v bool) { b.disabled = !v }

func (b *BaseBehaviour) Initialized() bool { return b.initialized }
func (b *BaseBehaviour) Failed() bool      { return b.failed }

func (b *BaseBehaviour) MarkInitialized(failed bool) {
	b.initialized = true
	b.failed = failed
}
