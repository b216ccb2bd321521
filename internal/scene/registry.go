package scene

// behaviourFactories maps serialized type names to constructors. It is an
// explicit table populated at startup via RegisterBehaviour; deserialization
// never reflects.
var behaviourFactories = map[string]func() DataBehaviour{}

// RegisterBehaviour installs a constructor for a serialized behaviour type.
// Later registrations under the same name win, which lets applications
// override engine defaults.
func RegisterBehaviour(name string, factory func() DataBehaviour) {
	behaviourFactories[name] = factory
}

// NewBehaviourByName constructs a registered behaviour, or returns false for
// an unknown type name.
func NewBehaviourByName(name string) (DataBehaviour, bool) {
	f, ok := behaviourFactories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

func init() {
	RegisterBehaviour("camera", func() DataBehaviour { return NewCamera(60, 1.5, 0.1, 1000) })
	RegisterBehaviour("ambientLight", func() DataBehaviour { return &AmbientLight{} })
	RegisterBehaviour("directionalLight", func() DataBehaviour { return &DirectionalLight{} })
	RegisterBehaviour("pointLight", func() DataBehaviour { return &PointLight{Constant: 1} })
	RegisterBehaviour("spotLight", func() DataBehaviour {
		return &SpotLight{PointLight: PointLight{Constant: 1}, InnerDeg: 25, OuterDeg: 35}
	})
}
