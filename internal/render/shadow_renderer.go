package render

import (
	"fmt"
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"forge3d/internal/graphics"
	"forge3d/internal/scene"
)

// ShadowCaster is implemented by renderer behaviours that can draw themselves
// into the depth pre-pass.
type ShadowCaster interface {
	scene.Behaviour
	CastsShadow() bool
	DrawDepth(sh *graphics.Shader)
}

// ShadowMapRenderer runs the early depth-only pass for the scene's first
// directional light and publishes the resulting depth texture on the scene.
// With no directional light present it publishes zero and the frame renders
// unshadowed.
//
// Attach it to any always-visible entity; one per scene.
type ShadowMapRenderer struct {
	scene.BaseBehaviour

	target *graphics.DepthTarget
	shader *graphics.Shader

	// Restored after the pass. Updated by SetViewport on window resize.
	viewportW int32
	viewportH int32
}

// NewShadowMapRenderer creates the pass with the given restore viewport.
func NewShadowMapRenderer(viewportW, viewportH int32) *ShadowMapRenderer {
	return &ShadowMapRenderer{viewportW: viewportW, viewportH: viewportH}
}

func (r *ShadowMapRenderer) TypeName() string { return "shadowMapRenderer" }

// SetViewport updates the viewport restored after the pass.
func (r *ShadowMapRenderer) SetViewport(w, h int32) {
	if h <= 0 {
		return
	}
	r.viewportW, r.viewportH = w, h
}

// Init allocates the depth target sized from the owning scene's shadow
// settings and compiles the depth-only shader. Requires a current GL context.
func (r *ShadowMapRenderer) Init() error {
	res := scene.DefaultShadowSettings().Resolution
	if r.Owner() != nil && r.Owner().Scene() != nil {
		res = r.Owner().Scene().Shadow.Resolution
	}

	target, err := graphics.NewDepthTarget(res)
	if err != nil {
		return fmt.Errorf("shadow map target: %w", err)
	}
	sh, err := graphics.NewShader(DepthVertPath, DepthFragPath)
	if err != nil {
		target.Destroy()
		return fmt.Errorf("shadow map shader: %w", err)
	}
	r.target = target
	r.shader = sh
	return nil
}

// DrawEarly renders every caster into the depth target before the main pass.
func (r *ShadowMapRenderer) DrawEarly(ctx *scene.FrameContext) {
	if ctx.Scene == nil || r.target == nil || !r.shader.Valid() {
		return
	}

	_, light := scene.FindDirectionalLight(ctx.Scene)
	if light == nil || ctx.Camera == nil || ctx.Camera.Owner() == nil {
		ctx.Scene.PublishShadowMap(0)
		return
	}

	camPos := ctx.Camera.Owner().Transform().WorldPosition()
	lightDir := light.Direction()
	lightSpace := scene.DirectionalLightSpace(camPos, lightDir, ctx.Scene.Shadow)

	casters := collectCasters(ctx.Scene)
	sortCastersBackToFront(casters, lightDir)

	r.target.Bind()
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	// Front-face culling reduces peter-panning on closed meshes.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)

	r.shader.Use()
	r.shader.SetMatrix4("lightSpace", &lightSpace[0])
	for _, c := range casters {
		c.caster.DrawDepth(r.shader)
	}

	gl.CullFace(gl.BACK)
	r.target.Unbind(r.viewportW, r.viewportH)

	ctx.Scene.PublishShadowMap(r.target.Texture())
}

// Destroy releases the depth target and shader.
func (r *ShadowMapRenderer) Destroy() {
	r.target.Destroy()
	r.target = nil
	r.shader.Destroy()
	r.shader = nil
}

// casterEntry pairs a caster with its world position for sorting.
type casterEntry struct {
	caster ShadowCaster
	pos    mgl32.Vec3
}

// collectCasters gathers every runnable shadow caster on an active, visible
// entity.
func collectCasters(s *scene.Scene) []casterEntry {
	var out []casterEntry
	for _, e := range s.Entities() {
		if !e.Active || !e.Show {
			continue
		}
		for _, b := range e.Behaviours() {
			c, ok := b.(ShadowCaster)
			if !ok || !c.Enabled() || !c.Initialized() || c.Failed() || !c.CastsShadow() {
				continue
			}
			out = append(out, casterEntry{caster: c, pos: e.Transform().WorldPosition()})
		}
	}
	return out
}

// sortCastersBackToFront orders casters by decreasing depth along the light
// direction, so the farthest-from-light meshes draw first.
func sortCastersBackToFront(casters []casterEntry, lightDir mgl32.Vec3) {
	sort.SliceStable(casters, func(i, j int) bool {
		return casters[i].pos.Dot(lightDir) > casters[j].pos.Dot(lightDir)
	})
}
