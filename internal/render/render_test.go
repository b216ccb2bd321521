package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"forge3d/internal/graphics"
	"forge3d/internal/scene"
	"forge3d/pkg/meshdata"
)

func TestPrimitiveBuild(t *testing.T) {
	cases := []struct {
		prim     Primitive
		wantTris int
	}{
		{CubePrimitive(1), 12},
		{PlanePrimitive(10, 10, 4), 2},
		{SpherePrimitive(1, 4, 8), 64},
	}
	for _, c := range cases {
		m, err := c.prim.Build()
		if err != nil {
			t.Fatalf("Build(%q): %v", c.prim.Kind, err)
		}
		if got := m.TriangleCount(); got != c.wantTris {
			t.Errorf("Build(%q) triangles = %d, want %d", c.prim.Kind, got, c.wantTris)
		}
	}
	if _, err := (Primitive{Kind: "torus"}).Build(); err == nil {
		t.Error("unknown primitive kind should error")
	}
}

func TestClampCount(t *testing.T) {
	if got := clampCount(3, MaxDirLights); got != 3 {
		t.Errorf("clampCount(3) = %d", got)
	}
	if got := clampCount(100, MaxPointLights); got != MaxPointLights {
		t.Errorf("clampCount(100) = %d, want %d", got, MaxPointLights)
	}
}

// stubCaster records depth draws without touching the GPU.
type stubCaster struct {
	scene.BaseBehaviour
	name  string
	casts bool
}

func (c *stubCaster) CastsShadow() bool             { return c.casts }
func (c *stubCaster) DrawDepth(sh *graphics.Shader) {}

func addCaster(t *testing.T, s *scene.Scene, name string, pos mgl32.Vec3, casts bool) *scene.Entity {
	t.Helper()
	e := scene.NewEntity(name, scene.EntityStatic)
	e.Transform().SetPosition(pos)
	e.Transform().UpdateMatrices()
	e.AddBehaviour(&stubCaster{name: name, casts: casts})
	if err := s.AddEntity(e); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestCollectCastersFiltering(t *testing.T) {
	s := scene.NewScene("test")
	addCaster(t, s, "in", mgl32.Vec3{}, true)
	addCaster(t, s, "optedOut", mgl32.Vec3{}, false)
	hidden := addCaster(t, s, "hidden", mgl32.Vec3{}, true)
	hidden.Show = false
	inactive := addCaster(t, s, "inactive", mgl32.Vec3{}, true)
	inactive.Active = false
	s.Initialize()

	casters := collectCasters(s)
	if len(casters) != 1 {
		t.Fatalf("collected %d casters, want 1", len(casters))
	}
	if got := casters[0].caster.(*stubCaster).name; got != "in" {
		t.Errorf("collected %q, want %q", got, "in")
	}
}

func TestSortCastersBackToFront(t *testing.T) {
	// Light shining along +Z: larger Z is deeper, draws first.
	entries := []casterEntry{
		{caster: &stubCaster{name: "near"}, pos: mgl32.Vec3{0, 0, 1}},
		{caster: &stubCaster{name: "far"}, pos: mgl32.Vec3{0, 0, 10}},
		{caster: &stubCaster{name: "mid"}, pos: mgl32.Vec3{0, 0, 5}},
	}
	sortCastersBackToFront(entries, mgl32.Vec3{0, 0, 1})

	want := []string{"far", "mid", "near"}
	for i, w := range want {
		if got := entries[i].caster.(*stubCaster).name; got != w {
			t.Errorf("entry %d = %q, want %q", i, got, w)
		}
	}
}

func TestMeshRendererDataRoundTrip(t *testing.T) {
	src := NewMeshRenderer(SpherePrimitive(2.5, 10, 20), meshdata.Material{
		Name:       "brick",
		Diffuse:    [3]float32{0.9, 0.4, 0.3},
		Specular:   [3]float32{0.5, 0.5, 0.5},
		Shininess:  64,
		DiffuseMap: "assets/textures/brick.png",
		NormalMap:  "assets/textures/brick_n.png",
	})
	src.CastShadows = false

	dst := NewMeshRenderer(Primitive{}, meshdata.DefaultMaterial())
	dst.FromData(src.ToData())

	if dst.Primitive != src.Primitive {
		t.Errorf("primitive = %+v, want %+v", dst.Primitive, src.Primitive)
	}
	if dst.Material != src.Material {
		t.Errorf("material = %+v, want %+v", dst.Material, src.Material)
	}
	if dst.CastShadows != false || dst.ReceiveShadows != true {
		t.Errorf("shadow flags = %v/%v, want false/true", dst.CastShadows, dst.ReceiveShadows)
	}
}

func TestRendererRegistryNames(t *testing.T) {
	for _, name := range []string{"meshRenderer", "normalMapRenderer"} {
		b, ok := scene.NewBehaviourByName(name)
		if !ok {
			t.Fatalf("behaviour %q not registered", name)
		}
		if got := b.TypeName(); got != name {
			t.Errorf("TypeName() = %q, want %q", got, name)
		}
	}
}
