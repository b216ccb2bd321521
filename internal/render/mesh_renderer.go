package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"forge3d/internal/graphics"
	"forge3d/internal/scene"
	"forge3d/pkg/meshdata"
)

// Texture unit assignments shared by every renderer variant.
const (
	unitDiffuse = 0
	unitNormal  = 1
	unitShadow  = 7
)

// Default shader asset paths.
const (
	LitVertPath       = "assets/shaders/lit.vert"
	LitFragPath       = "assets/shaders/lit.frag"
	NormalMapVertPath = "assets/shaders/normalmap.vert"
	NormalMapFragPath = "assets/shaders/normalmap.frag"
	UnlitVertPath     = "assets/shaders/unlit.vert"
	UnlitFragPath     = "assets/shaders/unlit.frag"
	DepthVertPath     = "assets/shaders/depth.vert"
	DepthFragPath     = "assets/shaders/depth.frag"
)

// Primitive describes a procedurally generated mesh for serialization. Kind is
// one of "cube", "plane", "sphere"; unused parameters are ignored.
type Primitive struct {
	Kind string

	Size     float32 // cube edge
	Width    float32 // plane
	Depth    float32 // plane
	UVRepeat float32 // plane
	Radius   float32 // sphere
	Rings    int     // sphere
	Sectors  int     // sphere
}

// Build generates the mesh data the descriptor names.
func (p Primitive) Build() (*meshdata.Mesh, error) {
	switch p.Kind {
	case "cube":
		return meshdata.Cube(p.Size), nil
	case "plane":
		return meshdata.Plane(p.Width, p.Depth, p.UVRepeat), nil
	case "sphere":
		return meshdata.UVSphere(p.Radius, p.Rings, p.Sectors), nil
	}
	return nil, fmt.Errorf("unknown primitive kind %q", p.Kind)
}

// CubePrimitive is a convenience descriptor for a unit-scale cube.
func CubePrimitive(size float32) Primitive { return Primitive{Kind: "cube", Size: size} }

// PlanePrimitive describes a flat ground rectangle.
func PlanePrimitive(width, depth, uvRepeat float32) Primitive {
	return Primitive{Kind: "plane", Width: width, Depth: depth, UVRepeat: uvRepeat}
}

// SpherePrimitive describes a UV sphere.
func SpherePrimitive(radius float32, rings, sectors int) Primitive {
	return Primitive{Kind: "sphere", Radius: radius, Rings: rings, Sectors: sectors}
}

// MeshRenderer draws one mesh with Blinn-Phong lighting, the scene's
// aggregated light set and, when a shadow map was published this frame,
// directional shadowing. Missing mesh or shader makes Draw a silent no-op.
type MeshRenderer struct {
	scene.BaseBehaviour

	Mesh     *graphics.Mesh
	Shader   *graphics.Shader
	Material meshdata.Material

	// Primitive regenerates the mesh on Init when Mesh is nil. It also makes
	// the renderer serializable; renderers fed an external mesh are not.
	Primitive Primitive

	// Shader source paths used when Shader is nil at Init.
	VertPath string
	FragPath string

	CastShadows    bool
	ReceiveShadows bool

	diffuse *graphics.Texture

	ownsMesh   bool
	ownsShader bool

	// extraUniforms runs after the standard uploads so variants can add their
	// own bindings without re-implementing Draw.
	extraUniforms func(sh *graphics.Shader)
}

// NewMeshRenderer builds a renderer over a generated primitive using the
// default lit shader. Shadows are on by default.
func NewMeshRenderer(prim Primitive, mat meshdata.Material) *MeshRenderer {
	return &MeshRenderer{
		Material:       mat,
		Primitive:      prim,
		VertPath:       LitVertPath,
		FragPath:       LitFragPath,
		CastShadows:    true,
		ReceiveShadows: true,
	}
}

func (m *MeshRenderer) TypeName() string { return "meshRenderer" }

// Init compiles the shader, uploads the mesh and kicks off texture loads.
// Requires a current GL context.
func (m *MeshRenderer) Init() error {
	if m.Shader == nil {
		vert, frag := m.VertPath, m.FragPath
		if vert == "" {
			vert, frag = LitVertPath, LitFragPath
		}
		sh, err := graphics.NewShader(vert, frag)
		if err != nil {
			return fmt.Errorf("mesh renderer shader: %w", err)
		}
		m.Shader = sh
		m.ownsShader = true
	}
	if m.Mesh == nil && m.Primitive.Kind != "" {
		data, err := m.Primitive.Build()
		if err != nil {
			return err
		}
		m.Mesh = graphics.NewMesh(data)
		m.ownsMesh = true
	}
	if m.Material.DiffuseMap != "" {
		m.diffuse = graphics.GetTexture(m.Material.DiffuseMap)
	}
	return nil
}

// Draw renders the mesh for the main pass.
func (m *MeshRenderer) Draw(ctx *scene.FrameContext) {
	if m.Mesh == nil || !m.Shader.Valid() || m.Owner() == nil {
		return
	}

	model := m.Owner().Transform().WorldMatrix()
	mvp := ctx.Proj.Mul4(ctx.View).Mul4(model)
	normalMat := model.Mat3().Inv().Transpose()

	sh := m.Shader
	sh.Use()
	sh.SetMatrix4("model", &model[0])
	sh.SetMatrix4("mvp", &mvp[0])
	sh.SetMatrix3("normalMatrix", &normalMat[0])

	if ctx.Camera != nil && ctx.Camera.Owner() != nil {
		eye := ctx.Camera.Owner().Transform().WorldPosition()
		sh.SetVector3("viewPos", eye.X(), eye.Y(), eye.Z())
	}

	sh.SetVector3("materialDiffuse", m.Material.Diffuse[0], m.Material.Diffuse[1], m.Material.Diffuse[2])
	sh.SetVector3("materialSpecular", m.Material.Specular[0], m.Material.Specular[1], m.Material.Specular[2])
	sh.SetFloat("materialShininess", m.Material.Shininess)

	m.diffuse.Bind(unitDiffuse)
	sh.SetInt("diffuseMap", unitDiffuse)

	uploadLights(sh, scene.AggregateLights(ctx.Scene))
	m.uploadShadow(ctx, sh)

	if m.extraUniforms != nil {
		m.extraUniforms(sh)
	}

	m.Mesh.Draw()
}

// uploadShadow binds the published depth map and the matching light-space
// matrix, or flags shadows off when either is absent.
func (m *MeshRenderer) uploadShadow(ctx *scene.FrameContext, sh *graphics.Shader) {
	if !m.ReceiveShadows || ctx.Scene == nil || ctx.Scene.ShadowMap() == 0 {
		sh.SetBool("shadowsEnabled", false)
		return
	}
	_, light := scene.FindDirectionalLight(ctx.Scene)
	if light == nil || ctx.Camera == nil || ctx.Camera.Owner() == nil {
		sh.SetBool("shadowsEnabled", false)
		return
	}

	camPos := ctx.Camera.Owner().Transform().WorldPosition()
	lightSpace := scene.DirectionalLightSpace(camPos, light.Direction(), ctx.Scene.Shadow)

	sh.SetBool("shadowsEnabled", true)
	sh.SetMatrix4("lightSpace", &lightSpace[0])
	gl.ActiveTexture(gl.TEXTURE0 + unitShadow)
	gl.BindTexture(gl.TEXTURE_2D, ctx.Scene.ShadowMap())
	sh.SetInt("shadowMap", unitShadow)
}

// CastsShadow reports whether the depth pre-pass should include this mesh.
func (m *MeshRenderer) CastsShadow() bool {
	return m.CastShadows && m.Mesh != nil
}

// DrawDepth renders the mesh into the bound depth target. The depth shader is
// already active with the light-space matrix set; only the model matrix
// varies per caster.
func (m *MeshRenderer) DrawDepth(sh *graphics.Shader) {
	if m.Mesh == nil || m.Owner() == nil {
		return
	}
	model := m.Owner().Transform().WorldMatrix()
	sh.SetMatrix4("model", &model[0])
	m.Mesh.Draw()
}

// Destroy releases GPU resources the renderer itself created. Shared meshes,
// shaders and cached textures are left alone.
func (m *MeshRenderer) Destroy() {
	if m.ownsMesh {
		m.Mesh.Destroy()
		m.Mesh = nil
	}
	if m.ownsShader {
		m.Shader.Destroy()
		m.Shader = nil
	}
}

func (m *MeshRenderer) ToData() map[string]any {
	return map[string]any{
		"type": m.TypeName(),
		"primitive": map[string]any{
			"kind":     m.Primitive.Kind,
			"size":     m.Primitive.Size,
			"width":    m.Primitive.Width,
			"depth":    m.Primitive.Depth,
			"uvRepeat": m.Primitive.UVRepeat,
			"radius":   m.Primitive.Radius,
			"rings":    m.Primitive.Rings,
			"sectors":  m.Primitive.Sectors,
		},
		"material": map[string]any{
			"name":       m.Material.Name,
			"diffuse":    []float32{m.Material.Diffuse[0], m.Material.Diffuse[1], m.Material.Diffuse[2]},
			"specular":   []float32{m.Material.Specular[0], m.Material.Specular[1], m.Material.Specular[2]},
			"shininess":  m.Material.Shininess,
			"diffuseMap": m.Material.DiffuseMap,
			"normalMap":  m.Material.NormalMap,
		},
		"vert":           m.VertPath,
		"frag":           m.FragPath,
		"castShadows":    m.CastShadows,
		"receiveShadows": m.ReceiveShadows,
	}
}

func (m *MeshRenderer) FromData(data map[string]any) {
	if p, ok := data["primitive"].(map[string]any); ok {
		m.Primitive = Primitive{
			Kind:     stringOr(p, "kind", ""),
			Size:     floatOr(p, "size", 1),
			Width:    floatOr(p, "width", 1),
			Depth:    floatOr(p, "depth", 1),
			UVRepeat: floatOr(p, "uvRepeat", 1),
			Radius:   floatOr(p, "radius", 1),
			Rings:    intOr(p, "rings", 16),
			Sectors:  intOr(p, "sectors", 32),
		}
	}
	if mat, ok := data["material"].(map[string]any); ok {
		m.Material = meshdata.DefaultMaterial()
		m.Material.Name = stringOr(mat, "name", m.Material.Name)
		if v, ok := vec3Of(mat, "diffuse"); ok {
			m.Material.Diffuse = v
		}
		if v, ok := vec3Of(mat, "specular"); ok {
			m.Material.Specular = v
		}
		m.Material.Shininess = floatOr(mat, "shininess", m.Material.Shininess)
		m.Material.DiffuseMap = stringOr(mat, "diffuseMap", "")
		m.Material.NormalMap = stringOr(mat, "normalMap", "")
	}
	m.VertPath = stringOr(data, "vert", LitVertPath)
	m.FragPath = stringOr(data, "frag", LitFragPath)
	m.CastShadows = boolOr(data, "castShadows", true)
	m.ReceiveShadows = boolOr(data, "receiveShadows", true)
}

func stringOr(data map[string]any, key, def string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return def
}

func boolOr(data map[string]any, key string, def bool) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return def
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

func intOr(data map[string]any, key string, def int) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case float32:
		return int(v)
	}
	return def
}

func vec3Of(data map[string]any, key string) ([3]float32, bool) {
	var out [3]float32
	list, ok := data[key].([]any)
	if !ok {
		if f32s, ok := data[key].([]float32); ok && len(f32s) == 3 {
			copy(out[:], f32s)
			return out, true
		}
		return out, false
	}
	if len(list) != 3 {
		return out, false
	}
	for i, item := range list {
		switch v := item.(type) {
		case float64:
			out[i] = float32(v)
		case float32:
			out[i] = v
		case int:
			out[i] = float32(v)
		default:
			return out, false
		}
	}
	return out, true
}

