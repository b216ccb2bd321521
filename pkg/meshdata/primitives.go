package meshdata

import (
	"github.com/chewxy/math32"
)

// cubeFace describes one axis-aligned face: normal, tangent (direction of
// increasing U) and bitangent (increasing V).
type cubeFace struct {
	normal    [3]float32
	tangent   [3]float32
	bitangent [3]float32
}

var cubeFaces = []cubeFace{
	{normal: [3]float32{0, 0, 1}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 1, 0}},   // +Z
	{normal: [3]float32{0, 0, -1}, tangent: [3]float32{-1, 0, 0}, bitangent: [3]float32{0, 1, 0}}, // -Z
	{normal: [3]float32{1, 0, 0}, tangent: [3]float32{0, 0, -1}, bitangent: [3]float32{0, 1, 0}},  // +X
	{normal: [3]float32{-1, 0, 0}, tangent: [3]float32{0, 0, 1}, bitangent: [3]float32{0, 1, 0}},  // -X
	{normal: [3]float32{0, 1, 0}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 0, -1}},  // +Y
	{normal: [3]float32{0, -1, 0}, tangent: [3]float32{1, 0, 0}, bitangent: [3]float32{0, 0, 1}},  // -Y
}

// Cube generates an axis-aligned cube centered at the origin with the given
// edge length: 24 vertices (4 per face, so normals stay hard) and 36 indices.
func Cube(size float32) *Mesh {
	h := size / 2
	m := &Mesh{}

	for _, f := range cubeFaces {
		n := f.normal
		t := f.tangent
		b := f.bitangent
		base := uint32(m.VertexCount())

		// Four corners: (-t-b), (+t-b), (+t+b), (-t+b), pushed out along n.
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
		for i, c := range corners {
			px := (n[0] + t[0]*c[0] + b[0]*c[1]) * h
			py := (n[1] + t[1]*c[0] + b[1]*c[1]) * h
			pz := (n[2] + t[2]*c[0] + b[2]*c[1]) * h
			m.Positions = append(m.Positions, px, py, pz)
			m.Normals = append(m.Normals, n[0], n[1], n[2])
			m.TexCoords = append(m.TexCoords, uvs[i][0], uvs[i][1])
			m.Tangents = append(m.Tangents, t[0], t[1], t[2])
			m.Bitangents = append(m.Bitangents, b[0], b[1], b[2])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Plane generates a flat rectangle in the XZ plane facing +Y, centered at
// the origin. uvRepeat tiles the texture across the surface.
func Plane(width, depth, uvRepeat float32) *Mesh {
	hw, hd := width/2, depth/2
	return &Mesh{
		Positions: []float32{
			-hw, 0, -hd,
			hw, 0, -hd,
			hw, 0, hd,
			-hw, 0, hd,
		},
		Normals: []float32{
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
			0, 1, 0,
		},
		TexCoords: []float32{
			0, 0,
			uvRepeat, 0,
			uvRepeat, uvRepeat,
			0, uvRepeat,
		},
		Tangents: []float32{
			1, 0, 0,
			1, 0, 0,
			1, 0, 0,
			1, 0, 0,
		},
		Bitangents: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		Indices: []uint32{0, 2, 1, 0, 3, 2},
	}
}

// UVSphere generates a longitude/latitude sphere. rings is the number of
// horizontal bands (>= 2), sectors the number of vertical slices (>= 3).
func UVSphere(radius float32, rings, sectors int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if sectors < 3 {
		sectors = 3
	}
	m := &Mesh{}

	for r := 0; r <= rings; r++ {
		v := float32(r) / float32(rings)
		phi := v * math32.Pi // 0 at the north pole
		sinPhi, cosPhi := math32.Sin(phi), math32.Cos(phi)
		for s := 0; s <= sectors; s++ {
			u := float32(s) / float32(sectors)
			theta := u * 2 * math32.Pi
			sinTheta, cosTheta := math32.Sin(theta), math32.Cos(theta)

			nx := sinPhi * cosTheta
			ny := cosPhi
			nz := sinPhi * sinTheta

			m.Positions = append(m.Positions, nx*radius, ny*radius, nz*radius)
			m.Normals = append(m.Normals, nx, ny, nz)
			m.TexCoords = append(m.TexCoords, u, 1-v)

			// Tangent points along increasing longitude.
			m.Tangents = append(m.Tangents, -sinTheta, 0, cosTheta)
			// Bitangent along increasing latitude.
			m.Bitangents = append(m.Bitangents,
				cosPhi*cosTheta, -sinPhi, cosPhi*sinTheta)
		}
	}

	stride := uint32(sectors + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < sectors; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			m.Indices = append(m.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return m
}
