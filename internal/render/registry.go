package render

import (
	"forge3d/internal/scene"
	"forge3d/pkg/meshdata"
)

func init() {
	scene.RegisterBehaviour("meshRenderer", func() scene.DataBehaviour {
		return NewMeshRenderer(Primitive{}, meshdata.DefaultMaterial())
	})
	scene.RegisterBehaviour("normalMapRenderer", func() scene.DataBehaviour {
		return NewNormalMapRenderer(Primitive{}, meshdata.DefaultMaterial())
	})
}
