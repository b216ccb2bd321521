// Package meshdata defines the consolidated-index mesh format the engine
// consumes: flat parallel attribute arrays sharing one index list, plus named
// material parameter sets. File-format parsers and procedural generators
// produce this; the engine core only reads it.
package meshdata

// Mesh holds flattened attribute streams. All streams share Indices; a
// stream is either empty or holds exactly len(Positions)/3 entries of its
// arity. TexCoords, Tangents and Bitangents are optional.
type Mesh struct {
	Positions  []float32 // 3 per vertex
	Normals    []float32 // 3 per vertex
	TexCoords  []float32 // 2 per vertex
	Tangents   []float32 // 3 per vertex
	Bitangents []float32 // 3 per vertex
	Indices    []uint32
}

// VertexCount returns the number of vertices in the position stream.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Material is a named parameter set consumed by renderer behaviours. Map
// paths are resolved by the texture loader; empty paths mean the feature is
// absent.
type Material struct {
	Name string

	Diffuse   [3]float32
	Specular  [3]float32
	Shininess float32

	DiffuseMap string
	NormalMap  string
}

// DefaultMaterial is a matte mid-gray.
func DefaultMaterial() Material {
	return Material{
		Name:      "default",
		Diffuse:   [3]float32{0.8, 0.8, 0.8},
		Specular:  [3]float32{0.3, 0.3, 0.3},
		Shininess: 32,
	}
}
