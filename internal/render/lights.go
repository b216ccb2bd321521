// Package render holds the renderer behaviours that bridge the scene graph to
// the GPU: the lit mesh renderer, its normal-mapped variant and the
// shadow-map pre-pass.
package render

import (
	"forge3d/internal/graphics"
	"forge3d/internal/scene"
)

// Light array capacities. Must match the array sizes declared in the lit
// shaders.
const (
	MaxDirLights   = 4
	MaxPointLights = 16
	MaxSpotLights  = 8
)

// uploadLights pushes the aggregated light data into the bound shader. Groups
// with count zero upload only the zero count; their arrays keep whatever the
// previous frame left, which the shader never reads past the count.
func uploadLights(sh *graphics.Shader, lights scene.LightData) {
	sh.SetVector3("ambientLight", lights.Ambient.X(), lights.Ambient.Y(), lights.Ambient.Z())

	n := clampCount(lights.DirCount, MaxDirLights)
	sh.SetInt("dirLightCount", n)
	if n > 0 {
		sh.SetVector3Array("dirLightDirections", n, lights.DirDirections)
		sh.SetVector3Array("dirLightColors", n, lights.DirColors)
	}

	n = clampCount(lights.PointCount, MaxPointLights)
	sh.SetInt("pointLightCount", n)
	if n > 0 {
		sh.SetVector3Array("pointLightPositions", n, lights.PointPositions)
		sh.SetVector3Array("pointLightColors", n, lights.PointColors)
		sh.SetVector3Array("pointLightAttenuations", n, lights.PointAttenuations)
	}

	n = clampCount(lights.SpotCount, MaxSpotLights)
	sh.SetInt("spotLightCount", n)
	if n > 0 {
		sh.SetVector3Array("spotLightPositions", n, lights.SpotPositions)
		sh.SetVector3Array("spotLightDirections", n, lights.SpotDirections)
		sh.SetVector3Array("spotLightColors", n, lights.SpotColors)
		sh.SetVector3Array("spotLightAttenuations", n, lights.SpotAttenuations)
		sh.SetVector2Array("spotLightCones", n, lights.SpotCones)
	}
}

func clampCount(n, max int32) int32 {
	if n > max {
		return max
	}
	return n
}
