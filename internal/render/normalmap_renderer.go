package render

import (
	"forge3d/internal/graphics"
	"forge3d/internal/scene"
	"forge3d/pkg/meshdata"
)

// NormalMapRenderer is a MeshRenderer variant that perturbs surface normals
// with a tangent-space normal map. Without a normal map in the material it
// falls back to plain vertex normals, so the same behaviour is safe on any
// mesh.
type NormalMapRenderer struct {
	MeshRenderer

	normalTex *graphics.Texture
}

// NewNormalMapRenderer builds the variant over a generated primitive.
func NewNormalMapRenderer(prim Primitive, mat meshdata.Material) *NormalMapRenderer {
	r := &NormalMapRenderer{}
	r.Material = mat
	r.Primitive = prim
	r.VertPath = NormalMapVertPath
	r.FragPath = NormalMapFragPath
	r.CastShadows = true
	r.ReceiveShadows = true
	return r
}

func (r *NormalMapRenderer) TypeName() string { return "normalMapRenderer" }

func (r *NormalMapRenderer) Init() error {
	if r.VertPath == "" {
		r.VertPath, r.FragPath = NormalMapVertPath, NormalMapFragPath
	}
	if err := r.MeshRenderer.Init(); err != nil {
		return err
	}
	if r.Material.NormalMap != "" {
		r.normalTex = graphics.GetTexture(r.Material.NormalMap)
	}
	r.extraUniforms = r.bindNormalMap
	return nil
}

// bindNormalMap runs inside the base Draw, after the standard uploads. The
// map is only enabled once its texture is actually resident; the placeholder
// would otherwise flatten every normal to (1,1,1).
func (r *NormalMapRenderer) bindNormalMap(sh *graphics.Shader) {
	use := r.normalTex != nil && r.normalTex.Ready() &&
		sh.AttribLocation("inTangent") >= 0
	sh.SetBool("useNormalMap", use)
	if !use {
		return
	}
	r.normalTex.Bind(unitNormal)
	sh.SetInt("normalMap", unitNormal)
}

func (r *NormalMapRenderer) ToData() map[string]any {
	data := r.MeshRenderer.ToData()
	data["type"] = r.TypeName()
	return data
}

var _ scene.DataBehaviour = (*NormalMapRenderer)(nil)
