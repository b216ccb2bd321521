package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ToData flattens the transform into a string-keyed map. The parent link is
// stored as a uuid reference and resolved post-hoc by ResolveParents once all
// transforms in a load batch exist.
func (t *Transform) ToData() map[string]any {
	data := map[string]any{
		"uuid":     t.id,
		"position": vecSlice(t.position),
		"rotation": []float32{t.rotation.W, t.rotation.X(), t.rotation.Y(), t.rotation.Z()},
		"scale":    vecSlice(t.scale),
	}
	if t.parent != nil {
		data["parent"] = t.parent.id
	}
	return data
}

// FromData restores local state from a map produced by ToData. Parent links
// are not restored here; collect them with ParentRef and apply through
// ResolveParents.
func (t *Transform) FromData(data map[string]any) {
	if id, ok := data["uuid"].(string); ok && id != "" {
		t.id = id
	}
	if v, ok := floats(data["position"]); ok && len(v) == 3 {
		t.position = mgl32.Vec3{v[0], v[1], v[2]}
	}
	if v, ok := floats(data["rotation"]); ok && len(v) == 4 {
		t.SetRotation(mgl32.Quat{W: v[0], V: mgl32.Vec3{v[1], v[2], v[3]}})
	}
	if v, ok := floats(data["scale"]); ok && len(v) == 3 {
		t.scale = mgl32.Vec3{v[0], v[1], v[2]}
	}
	t.dirty = true
}

// ParentRef extracts the serialized parent uuid, if any.
func ParentRef(data map[string]any) string {
	id, _ := data["parent"].(string)
	return id
}

// ResolveParents links a batch of deserialized transforms by uuid. Unknown
// references leave the node a root.
func ResolveParents(byUUID map[string]*Transform, refs map[*Transform]string) {
	for t, ref := range refs {
		if ref == "" {
			continue
		}
		if p, ok := byUUID[ref]; ok {
			// Ignore a malformed batch that would form a cycle.
			_ = t.SetParent(p)
		}
	}
}

func vecSlice(v mgl32.Vec3) []float32 {
	return []float32{v.X(), v.Y(), v.Z()}
}

// floats coerces the slice shapes produced by ToData and by YAML decoding
// into a []float32.
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
