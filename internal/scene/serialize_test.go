package scene

import (
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestEntityDataRoundTrip(t *testing.T) {
	e := NewEntity("lamp", EntityPointLight)
	e.Tag = "props"
	e.Transform().SetPosition(mgl32.Vec3{1.5, -2, 3})
	e.Transform().SetEuler(mgl32.Vec3{15, 30, 45})
	e.Transform().SetScale(mgl32.Vec3{2, 2, 2})
	l := &PointLight{Constant: 1, Linear: 0.09, Quadratic: 0.032}
	l.Color = mgl32.Vec3{1, 0.8, 0.6}
	e.AddBehaviour(l)

	restored := EntityFromData(e.ToData())

	if restored.UUID() != e.UUID() {
		t.Errorf("uuid = %q, want %q", restored.UUID(), e.UUID())
	}
	if restored.Name != "lamp" || restored.Tag != "props" {
		t.Errorf("name/tag = %q/%q", restored.Name, restored.Tag)
	}
	if restored.Type() != EntityPointLight {
		t.Errorf("type = %v, want point light", restored.Type())
	}
	if len(restored.Behaviours()) != len(e.Behaviours()) {
		t.Errorf("behaviour count = %d, want %d", len(restored.Behaviours()), len(e.Behaviours()))
	}

	const tol = 1e-5
	gotP, wantP := restored.Transform().Position(), e.Transform().Position()
	for i := 0; i < 3; i++ {
		if math32.Abs(gotP[i]-wantP[i]) > tol {
			t.Fatalf("position = %v, want %v", gotP, wantP)
		}
	}
	if math32.Abs(math32.Abs(restored.Transform().Rotation().Dot(e.Transform().Rotation()))-1) > tol {
		t.Errorf("rotation not preserved")
	}

	rl, ok := BehaviourOf[*PointLight](restored)
	if !ok {
		t.Fatalf("point light behaviour not reconstructed")
	}
	if rl.Linear != 0.09 || rl.Quadratic != 0.032 {
		t.Errorf("attenuation = (%v, %v, %v)", rl.Constant, rl.Linear, rl.Quadratic)
	}
}

func TestUnknownBehaviourTypeIsSkipped(t *testing.T) {
	data := map[string]any{
		"name": "thing",
		"type": "static",
		"behaviours": []map[string]any{
			{"type": "definitelyNotRegistered"},
		},
	}
	e := EntityFromData(data)
	if len(e.Behaviours()) != 0 {
		t.Errorf("unknown behaviour type was constructed")
	}
}

func TestSceneSaveLoadRoundTrip(t *testing.T) {
	s := NewScene("level1")
	s.Background = mgl32.Vec3{0.1, 0.2, 0.3}
	s.Initialize()

	parent := NewEntity("rig", EntityStatic)
	parent.Transform().SetPosition(mgl32.Vec3{10, 0, 0})
	_ = s.AddEntity(parent)

	child := NewEntity("lamp", EntityPointLight)
	pl := &PointLight{Constant: 1, Linear: 0.09, Quadratic: 0.032}
	pl.Color = mgl32.Vec3{1, 1, 1}
	child.AddBehaviour(pl)
	child.Transform().SetPosition(mgl32.Vec3{0, 2, 0})
	if err := child.Transform().SetParent(parent.Transform()); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	_ = s.AddEntity(child)

	camEntity := NewEntity("cam", EntityCamera)
	camEntity.AddBehaviour(NewCamera(45, 1, 0.1, 100))
	_ = s.AddEntity(camEntity)

	path := filepath.Join(t.TempDir(), "level1.yaml")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}

	if loaded.Name() != "level1" {
		t.Errorf("name = %q", loaded.Name())
	}
	bg := loaded.Background
	if math32.Abs(bg.X()-0.1) > 1e-5 || math32.Abs(bg.Y()-0.2) > 1e-5 || math32.Abs(bg.Z()-0.3) > 1e-5 {
		t.Errorf("background = %v", bg)
	}
	if len(loaded.Entities()) != 3 {
		t.Fatalf("entity count = %d, want 3", len(loaded.Entities()))
	}

	// Parent linkage restored by uuid once the whole batch exists.
	var loadedParent, loadedChild *Entity
	for _, e := range loaded.Entities() {
		switch e.Name {
		case "rig":
			loadedParent = e
		case "lamp":
			loadedChild = e
		}
	}
	if loadedParent == nil || loadedChild == nil {
		t.Fatalf("entities missing after load")
	}
	if loadedChild.Transform().Parent() != loadedParent.Transform() {
		t.Errorf("transform parent linkage not restored")
	}

	// The hierarchy composes after load exactly as before save.
	loadedParent.Transform().UpdateMatrices()
	wp := loadedChild.Transform().WorldPosition()
	want := mgl32.Vec3{10, 2, 0}
	for i := 0; i < 3; i++ {
		if math32.Abs(wp[i]-want[i]) > 1e-4 {
			t.Fatalf("child world position = %v, want %v", wp, want)
		}
	}

	// Camera lens parameters survive.
	var loadedCam *Camera
	for _, e := range loaded.Entities() {
		if c, ok := BehaviourOf[*Camera](e); ok {
			loadedCam = c
			break
		}
	}
	if loadedCam == nil {
		t.Fatalf("camera behaviour missing after load")
	}
	if loadedCam.FOV != 45 {
		t.Errorf("camera fov = %v, want 45", loadedCam.FOV)
	}
}
