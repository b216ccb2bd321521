package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultAmbient is the low-intensity gray applied when the scene contains no
// ambient light entity.
var DefaultAmbient = mgl32.Vec3{0.2, 0.2, 0.2}

// Light is the base light behaviour: a color. Direction for directional and
// spot lights is never stored; it is always the owning transform's forward
// vector.
type Light struct {
	BaseBehaviour
	Color mgl32.Vec3
}

// Direction returns the light direction derived from the owning transform.
func (l *Light) Direction() mgl32.Vec3 {
	if l.owner == nil {
		return mgl32.Vec3{0, 0, 1}
	}
	return l.owner.Transform().Forward()
}

func (l *Light) ToData() map[string]any {
	return map[string]any{"color": []float32{l.Color.X(), l.Color.Y(), l.Color.Z()}}
}

func (l *Light) FromData(data map[string]any) {
	if v, ok := floats(data["color"]); ok && len(v) == 3 {
		l.Color = mgl32.Vec3{v[0], v[1], v[2]}
	}
}

// AmbientLight tints every fragment uniformly.
type AmbientLight struct {
	Light
}

func (l *AmbientLight) TypeName() string { return "ambientLight" }

func (l *AmbientLight) ToData() map[string]any {
	data := l.Light.ToData()
	data["type"] = l.TypeName()
	return data
}

// DirectionalLight models a distant source such as the sun. It is the only
// light type the shadow-map pipeline consumes.
type DirectionalLight struct {
	Light
}

func (l *DirectionalLight) TypeName() string { return "directionalLight" }

func (l *DirectionalLight) ToData() map[string]any {
	data := l.Light.ToData()
	data["type"] = l.TypeName()
	return data
}

// PointLight adds distance attenuation coefficients.
type PointLight struct {
	Light
	Constant  float32
	Linear    float32
	Quadratic float32
}

func (l *PointLight) TypeName() string { return "pointLight" }

func (l *PointLight) ToData() map[string]any {
	data := l.Light.ToData()
	data["type"] = l.TypeName()
	data["attenuation"] = []float32{l.Constant, l.Linear, l.Quadratic}
	return data
}

func (l *PointLight) FromData(data map[string]any) {
	l.Light.FromData(data)
	if v, ok := floats(data["attenuation"]); ok && len(v) == 3 {
		l.Constant, l.Linear, l.Quadratic = v[0], v[1], v[2]
	}
}

// SpotLight adds a cone. Angles are stored in degrees; SetCone keeps
// inner <= outer.
type SpotLight struct {
	PointLight
	InnerDeg float32
	OuterDeg float32
}

func (l *SpotLight) TypeName() string { return "spotLight" }

// SetCone sets the cone angles in degrees, clamping inner to outer.
func (l *SpotLight) SetCone(innerDeg, outerDeg float32) {
	if innerDeg > outerDeg {
		innerDeg = outerDeg
	}
	l.InnerDeg = innerDeg
	l.OuterDeg = outerDeg
}

func (l *SpotLight) ToData() map[string]any {
	data := l.PointLight.ToData()
	data["type"] = l.TypeName()
	data["innerDeg"] = l.InnerDeg
	data["outerDeg"] = l.OuterDeg
	return data
}

func (l *SpotLight) FromData(data map[string]any) {
	l.PointLight.FromData(data)
	l.SetCone(floatOr(data, "innerDeg", 25), floatOr(data, "outerDeg", 35))
}

// Entity factories for the light specializations.

func NewAmbientLightEntity(name string, color mgl32.Vec3) *Entity {
	e := NewEntity(name, EntityAmbientLight)
	l := &AmbientLight{}
	l.Color = color
	e.AddBehaviour(l)
	return e
}

func NewDirectionalLightEntity(name string, color mgl32.Vec3) *Entity {
	e := NewEntity(name, EntityDirectionalLight)
	l := &DirectionalLight{}
	l.Color = color
	e.AddBehaviour(l)
	return e
}

func NewPointLightEntity(name string, color mgl32.Vec3, constant, linear, quadratic float32) *Entity {
	e := NewEntity(name, EntityPointLight)
	l := &PointLight{Constant: constant, Linear: linear, Quadratic: quadratic}
	l.Color = color
	e.AddBehaviour(l)
	return e
}

func NewSpotLightEntity(name string, color mgl32.Vec3, constant, linear, quadratic, innerDeg, outerDeg float32) *Entity {
	e := NewEntity(name, EntitySpotLight)
	l := &SpotLight{PointLight: PointLight{Constant: constant, Linear: linear, Quadratic: quadratic}}
	l.Color = color
	l.SetCone(innerDeg, outerDeg)
	e.AddBehaviour(l)
	return e
}

// LightData is the flattened, upload-ready view of every active and visible
// light in the scene: parallel arrays per light group plus a count. A group
// with count zero carries nil slices; renderers must skip the array upload
// entirely in that case.
type LightData struct {
	Ambient mgl32.Vec3

	DirCount      int32
	DirDirections []float32 // 3 per light, normalized
	DirColors     []float32 // 3 per light

	PointCount        int32
	PointPositions    []float32 // 3 per light
	PointColors       []float32 // 3 per light
	PointAttenuations []float32 // constant, linear, quadratic per light

	SpotCount        int32
	SpotPositions    []float32
	SpotDirections   []float32
	SpotColors       []float32
	SpotAttenuations []float32
	SpotCones        []float32 // cos(inner), cos(outer) per light
}

// AggregateLights partitions the scene's lights by entity type and flattens
// their fields. Inactive or hidden light entities and disabled light
// behaviours are excluded. With no ambient light present the ambient term is
// DefaultAmbient.
func AggregateLights(s *Scene) LightData {
	data := LightData{Ambient: DefaultAmbient}
	if s == nil {
		return data
	}

	haveAmbient := false
	for _, e := range s.Entities() {
		if !e.Active || !e.Show || !e.Type().IsLight() {
			continue
		}
		switch e.Type() {
		case EntityAmbientLight:
			l, ok := BehaviourOf[*AmbientLight](e)
			if !ok || !l.Enabled() {
				continue
			}
			if !haveAmbient {
				data.Ambient = l.Color
				haveAmbient = true
			}
		case EntityDirectionalLight:
			l, ok := BehaviourOf[*DirectionalLight](e)
			if !ok || !l.Enabled() {
				continue
			}
			d := l.Direction()
			data.DirCount++
			data.DirDirections = append(data.DirDirections, d.X(), d.Y(), d.Z())
			data.DirColors = append(data.DirColors, l.Color.X(), l.Color.Y(), l.Color.Z())
		case EntityPointLight:
			l, ok := BehaviourOf[*PointLight](e)
			if !ok || !l.Enabled() {
				continue
			}
			p := e.Transform().WorldPosition()
			data.PointCount++
			data.PointPositions = append(data.PointPositions, p.X(), p.Y(), p.Z())
			data.PointColors = append(data.PointColors, l.Color.X(), l.Color.Y(), l.Color.Z())
			data.PointAttenuations = append(data.PointAttenuations, l.Constant, l.Linear, l.Quadratic)
		case EntitySpotLight:
			l, ok := BehaviourOf[*SpotLight](e)
			if !ok || !l.Enabled() {
				continue
			}
			p := e.Transform().WorldPosition()
			d := l.Direction()
			data.SpotCount++
			data.SpotPositions = append(data.SpotPositions, p.X(), p.Y(), p.Z())
			data.SpotDirections = append(data.SpotDirections, d.X(), d.Y(), d.Z())
			data.SpotColors = append(data.SpotColors, l.Color.X(), l.Color.Y(), l.Color.Z())
			data.SpotAttenuations = append(data.SpotAttenuations, l.Constant, l.Linear, l.Quadratic)
			data.SpotCones = append(data.SpotCones,
				math32.Cos(mgl32.DegToRad(l.InnerDeg)),
				math32.Cos(mgl32.DegToRad(l.OuterDeg)))
		}
	}
	return data
}

// FindDirectionalLight returns the scene's first active directional light
// entity and behaviour, or nil when none exists. Shadow consumers degrade to
// "no shadow contribution" on a nil result.
func FindDirectionalLight(s *Scene) (*Entity, *DirectionalLight) {
	if s == nil {
		return nil, nil
	}
	for _, e := range s.Entities() {
		if !e.Active || !e.Show || e.Type() != EntityDirectionalLight {
			continue
		}
		if l, ok := BehaviourOf[*DirectionalLight](e); ok && l.Enabled() {
			return e, l
		}
	}
	return nil, nil
}
