package scene

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"forge3d/internal/transform"
)

// ToData flattens the entity into a string-keyed map: identity, flags, the
// transform sub-map, and one sub-map per serializable behaviour.
func (e *Entity) ToData() map[string]any {
	bs := make([]map[string]any, 0, len(e.behaviours))
	for _, b := range e.behaviours {
		db, ok := b.(DataBehaviour)
		if !ok {
			continue
		}
		data := db.ToData()
		data["type"] = db.TypeName()
		bs = append(bs, data)
	}
	return map[string]any{
		"uuid":       e.id,
		"name":       e.Name,
		"tag":        e.Tag,
		"type":       e.entityType.String(),
		"active":     e.Active,
		"show":       e.Show,
		"transform":  e.trans.ToData(),
		"behaviours": bs,
	}
}

// EntityFromData rebuilds an entity, constructing behaviours through the
// factory registry. Unknown behaviour types are skipped, not fatal. Transform
// parent links are NOT resolved here; the caller links the whole batch once
// every transform exists.
func EntityFromData(data map[string]any) *Entity {
	name, _ := data["name"].(string)
	typeName, _ := data["type"].(string)
	e := NewEntity(name, entityTypeFromName(typeName))

	if id, ok := data["uuid"].(string); ok && id != "" {
		e.id = id
	}
	if tag, ok := data["tag"].(string); ok {
		e.Tag = tag
	}
	if v, ok := data["active"].(bool); ok {
		e.Active = v
	}
	if v, ok := data["show"].(bool); ok {
		e.Show = v
	}
	if td, ok := submap(data["transform"]); ok {
		e.trans.FromData(td)
	}
	for _, bd := range sublist(data["behaviours"]) {
		tn, _ := bd["type"].(string)
		b, ok := NewBehaviourByName(tn)
		if !ok {
			continue
		}
		b.FromData(bd)
		e.AddBehaviour(b)
	}
	return e
}

// sceneFile is the on-disk layout.
type sceneFile struct {
	Name       string           `yaml:"name"`
	Background []float32        `yaml:"background"`
	Shadow     ShadowSettings   `yaml:"shadow"`
	Entities   []map[string]any `yaml:"entities"`
}

// Save persists the scene to a YAML file.
func (s *Scene) Save(path string) error {
	f := sceneFile{
		Name:       s.Name(),
		Background: []float32{s.Background.X(), s.Background.Y(), s.Background.Z()},
		Shadow:     s.Shadow,
	}
	for _, e := range s.entities {
		f.Entities = append(f.Entities, e.ToData())
	}
	out, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write scene file: %w", err)
	}
	return nil
}

// LoadScene reads a YAML scene file, rebuilds every entity, and resolves
// transform parent links by uuid once the whole batch exists.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	var f sceneFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}

	s := NewScene(f.Name)
	if len(f.Background) == 3 {
		s.Background = mgl32.Vec3{f.Background[0], f.Background[1], f.Background[2]}
	}
	if f.Shadow.Resolution > 0 {
		s.Shadow = f.Shadow
	}

	byUUID := make(map[string]*transform.Transform)
	refs := make(map[*transform.Transform]string)
	for _, ed := range f.Entities {
		e := EntityFromData(ed)
		if err := s.AddEntity(e); err != nil {
			return nil, err
		}
		byUUID[e.Transform().UUID()] = e.Transform()
		if td, ok := submap(ed["transform"]); ok {
			refs[e.Transform()] = transform.ParentRef(td)
		}
	}
	transform.ResolveParents(byUUID, refs)
	return s, nil
}

// submap coerces the map shapes produced in memory and by YAML decoding.
func submap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}

func sublist(v any) []map[string]any {
	var out []map[string]any
	switch l := v.(type) {
	case []map[string]any:
		return l
	case []any:
		for _, e := range l {
			if m, ok := submap(e); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func floatOr(data map[string]any, key string, def float32) float32 {
	switch v := data[key].(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	}
	return def
}

// floats coerces the slice shapes produced by ToData and by YAML decoding.
func floats(v any) ([]float32, bool) {
	switch s := v.(type) {
	case []float32:
		return s, true
	case []float64:
		out := make([]float32, len(s))
		for i, f := range s {
			out[i] = float32(f)
		}
		return out, true
	case []any:
		out := make([]float32, len(s))
		for i, e := range s {
			switch f := e.(type) {
			case float64:
				out[i] = float32(f)
			case float32:
				out[i] = f
			case int:
				out[i] = float32(f)
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}
