package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"forge3d/pkg/meshdata"
)

// Vertex layout shared by every mesh shader: attribute locations are fixed so
// renderers never have to query them for the mandatory streams.
const (
	AttribPosition  = 0
	AttribNormal    = 1
	AttribTexCoord  = 2
	AttribTangent   = 3
	AttribBitangent = 4
)

// vertexStride is floats per interleaved vertex: pos3 + normal3 + uv2 +
// tangent3 + bitangent3.
const vertexStride = 14

// Mesh owns the GPU buffers for one indexed triangle mesh. The index list is
// shared across all attribute streams (consolidated-index format).
type Mesh struct {
	vao uint32
	vbo uint32
	ebo uint32

	indexCount int32
}

// NewMesh uploads mesh data. Requires a current GL context.
func NewMesh(data *meshdata.Mesh) *Mesh {
	verts := interleave(data)

	m := &Mesh{indexCount: int32(len(data.Indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.EnableVertexAttribArray(AttribPosition)
	gl.VertexAttribPointerWithOffset(AttribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(AttribNormal)
	gl.VertexAttribPointerWithOffset(AttribNormal, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(AttribTexCoord)
	gl.VertexAttribPointerWithOffset(AttribTexCoord, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(AttribTangent)
	gl.VertexAttribPointerWithOffset(AttribTangent, 3, gl.FLOAT, false, stride, 8*4)
	gl.EnableVertexAttribArray(AttribBitangent)
	gl.VertexAttribPointerWithOffset(AttribBitangent, 3, gl.FLOAT, false, stride, 11*4)

	gl.BindVertexArray(0)
	return m
}

// Draw issues the indexed draw call.
func (m *Mesh) Draw() {
	if m == nil || m.indexCount == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// IndexCount returns the number of indices uploaded.
func (m *Mesh) IndexCount() int32 { return m.indexCount }

// Destroy releases the buffers. Safe to call repeatedly; zero handles are
// skipped.
func (m *Mesh) Destroy() {
	if m == nil {
		return
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	m.indexCount = 0
}

// interleave packs the parallel attribute streams into one vertex buffer.
// Missing optional streams (uvs, tangents) pad with zeros.
func interleave(data *meshdata.Mesh) []float32 {
	n := len(data.Positions) / 3
	verts := make([]float32, 0, n*vertexStride)
	for i := 0; i < n; i++ {
		verts = append(verts, data.Positions[i*3], data.Positions[i*3+1], data.Positions[i*3+2])
		if len(data.Normals) >= (i+1)*3 {
			verts = append(verts, data.Normals[i*3], data.Normals[i*3+1], data.Normals[i*3+2])
		} else {
			verts = append(verts, 0, 1, 0)
		}
		if len(data.TexCoords) >= (i+1)*2 {
			verts = append(verts, data.TexCoords[i*2], data.TexCoords[i*2+1])
		} else {
			verts = append(verts, 0, 0)
		}
		if len(data.Tangents) >= (i+1)*3 {
			verts = append(verts, data.Tangents[i*3], data.Tangents[i*3+1], data.Tangents[i*3+2])
		} else {
			verts = append(verts, 1, 0, 0)
		}
		if len(data.Bitangents) >= (i+1)*3 {
			verts = append(verts, data.Bitangents[i*3], data.Bitangents[i*3+1], data.Bitangents[i*3+2])
		} else {
			verts = append(verts, 0, 0, 1)
		}
	}
	return verts
}
