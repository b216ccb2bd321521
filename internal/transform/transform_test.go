package transform

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return math32.Abs(a.X()-b.X()) <= tol &&
		math32.Abs(a.Y()-b.Y()) <= tol &&
		math32.Abs(a.Z()-b.Z()) <= tol
}

func matNear(a, b mgl32.Mat4, tol float32) bool {
	for i := 0; i < 16; i++ {
		if math32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestWorldMatrixComposition(t *testing.T) {
	// Three-level chain: root -> mid -> leaf
	root := New()
	mid := New()
	leaf := New()
	if err := mid.SetParent(root); err != nil {
		t.Fatalf("SetParent(root): %v", err)
	}
	if err := leaf.SetParent(mid); err != nil {
		t.Fatalf("SetParent(mid): %v", err)
	}

	root.SetPosition(mgl32.Vec3{1, 2, 3})
	mid.SetEuler(mgl32.Vec3{0, 90, 0})
	mid.SetPosition(mgl32.Vec3{0, 1, 0})
	leaf.SetPosition(mgl32.Vec3{2, 0, 0})
	leaf.SetScale(mgl32.Vec3{2, 2, 2})

	root.UpdateMatrices()

	// world(n) == world(parent) * local(n) for every node
	if !matNear(mid.WorldMatrix(), root.WorldMatrix().Mul4(mid.LocalMatrix()), eps) {
		t.Errorf("mid world != root.world * mid.local")
	}
	if !matNear(leaf.WorldMatrix(), mid.WorldMatrix().Mul4(leaf.LocalMatrix()), eps) {
		t.Errorf("leaf world != mid.world * leaf.local")
	}
	if !matNear(root.WorldMatrix(), root.LocalMatrix(), eps) {
		t.Errorf("root world != root local")
	}

	// Leaf sits 2 along mid's rotated X. Yaw +90 about Y maps +X to -Z.
	want := mgl32.Vec3{1 + 0, 2 + 1, 3 - 2}
	if !vecNear(leaf.WorldPosition(), want, 1e-4) {
		t.Errorf("leaf world position = %v, want %v", leaf.WorldPosition(), want)
	}
}

func TestDirtyPropagation(t *testing.T) {
	root := New()
	mid := New()
	leaf := New()
	_ = mid.SetParent(root)
	_ = leaf.SetParent(mid)
	root.UpdateMatrices()

	rootBefore := root.WorldMatrix()

	// Mutating mid must update mid and leaf, and leave root untouched.
	mid.SetPosition(mgl32.Vec3{5, 0, 0})
	root.UpdateMatrices()

	if root.WorldMatrix() != rootBefore {
		t.Errorf("ancestor world matrix changed by descendant mutation")
	}
	if !vecNear(mid.WorldPosition(), mgl32.Vec3{5, 0, 0}, eps) {
		t.Errorf("mid world position = %v, want {5 0 0}", mid.WorldPosition())
	}
	if !vecNear(leaf.WorldPosition(), mgl32.Vec3{5, 0, 0}, eps) {
		t.Errorf("leaf world position not propagated, got %v", leaf.WorldPosition())
	}
}

func TestUpdateMatricesIdempotent(t *testing.T) {
	root := New()
	child := New()
	_ = child.SetParent(root)
	root.SetEuler(mgl32.Vec3{10, 20, 30})
	child.SetPosition(mgl32.Vec3{1, 2, 3})

	root.UpdateMatrices()
	w1root := root.WorldMatrix()
	w1child := child.WorldMatrix()

	root.UpdateMatrices()

	// Bit-identical, not merely close.
	if root.WorldMatrix() != w1root {
		t.Errorf("root world matrix changed across idempotent update")
	}
	if child.WorldMatrix() != w1child {
		t.Errorf("child world matrix changed across idempotent update")
	}
}

func TestDeepDirtyNodeIsReached(t *testing.T) {
	// Clean parent, dirty grandchild: the pass must still recompute the leaf.
	root := New()
	mid := New()
	leaf := New()
	_ = mid.SetParent(root)
	_ = leaf.SetParent(mid)
	root.UpdateMatrices()

	leaf.SetPosition(mgl32.Vec3{0, 0, 7})
	root.UpdateMatrices()

	if !vecNear(leaf.WorldPosition(), mgl32.Vec3{0, 0, 7}, eps) {
		t.Errorf("dirty leaf below clean parent not recomputed, got %v", leaf.WorldPosition())
	}
}

func TestSetParentReparents(t *testing.T) {
	a := New()
	b := New()
	c := New()
	_ = c.SetParent(a)

	if len(a.Children()) != 1 {
		t.Fatalf("a should have 1 child, has %d", len(a.Children()))
	}

	if err := c.SetParent(b); err != nil {
		t.Fatalf("reparent: %v", err)
	}

	// Atomic: removed from old list, appended to new, never in both.
	if len(a.Children()) != 0 {
		t.Errorf("old parent still holds child")
	}
	if len(b.Children()) != 1 || b.Children()[0] != c {
		t.Errorf("new parent missing child")
	}
	if c.Parent() != b {
		t.Errorf("child parent pointer not updated")
	}
}

func TestSetParentRejectsCycles(t *testing.T) {
	a := New()
	b := New()
	c := New()
	_ = b.SetParent(a)
	_ = c.SetParent(b)

	if err := a.SetParent(c); err == nil {
		t.Errorf("expected error re-parenting a under its own descendant")
	}
	if err := a.SetParent(a); err == nil {
		t.Errorf("expected error re-parenting a under itself")
	}
	// Tree unchanged after the rejected calls.
	if a.Parent() != nil || b.Parent() != a || c.Parent() != b {
		t.Errorf("rejected reparent mutated the tree")
	}
}

func TestDirectionAccessors(t *testing.T) {
	tr := New()
	tr.UpdateMatrices()

	if !vecNear(tr.Forward(), mgl32.Vec3{0, 0, 1}, eps) {
		t.Errorf("identity forward = %v, want +Z", tr.Forward())
	}
	if !vecNear(tr.Right(), mgl32.Vec3{1, 0, 0}, eps) {
		t.Errorf("identity right = %v, want +X", tr.Right())
	}
	if !vecNear(tr.Up(), mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("identity up = %v, want +Y", tr.Up())
	}

	// Yaw +90 about Y maps forward +Z to +X.
	tr.SetEuler(mgl32.Vec3{0, 90, 0})
	tr.UpdateMatrices()
	if !vecNear(tr.Forward(), mgl32.Vec3{1, 0, 0}, 1e-4) {
		t.Errorf("yawed forward = %v, want +X", tr.Forward())
	}
	if !vecNear(tr.Back(), mgl32.Vec3{-1, 0, 0}, 1e-4) {
		t.Errorf("yawed back = %v, want -X", tr.Back())
	}
}

func TestLookAtMatchesForwardConvention(t *testing.T) {
	tr := New()
	tr.SetPosition(mgl32.Vec3{0, 0, 0})
	target := mgl32.Vec3{3, 0, 4}
	tr.LookAt(target, mgl32.Vec3{0, 1, 0})
	tr.UpdateMatrices()

	want := target.Normalize() // {0.6, 0, 0.8}
	if !vecNear(tr.Forward(), want, 1e-4) {
		t.Errorf("LookAt forward = %v, want %v", tr.Forward(), want)
	}
}

func TestEulerPoleSingularity(t *testing.T) {
	tr := New()
	tr.SetEuler(mgl32.Vec3{90, 0, 0})
	q := tr.Rotation()

	// Converting the pole quaternion back must not produce NaN.
	e := quatToEuler(q)
	for i := 0; i < 3; i++ {
		if math32.IsNaN(e[i]) {
			t.Fatalf("euler component %d is NaN at the pole", i)
		}
	}

	// Re-applying the quaternion reproduces pitch = 90 within 0.01 degrees.
	tr2 := New()
	tr2.SetRotation(q)
	if math32.Abs(tr2.Euler().X()-90) > 0.01 {
		t.Errorf("pole pitch = %v, want 90 +/- 0.01", tr2.Euler().X())
	}

	// Same at the south pole.
	tr.SetEuler(mgl32.Vec3{-90, 0, 0})
	e = quatToEuler(tr.Rotation())
	if math32.IsNaN(e.X()) || math32.Abs(e.X()+90) > 0.01 {
		t.Errorf("south pole pitch = %v, want -90", e.X())
	}
}

func TestEulerRoundTripSimpleAxes(t *testing.T) {
	cases := []mgl32.Vec3{
		{30, 0, 0},
		{0, 45, 0},
		{0, 0, 60},
		{20, 40, 0},
	}
	for _, want := range cases {
		q := eulerToQuat(want)
		got := quatToEuler(q)
		if !vecNear(got, want, 0.01) {
			t.Errorf("euler round trip %v -> %v", want, got)
		}
	}
}

func TestTransformDataRoundTrip(t *testing.T) {
	parent := New()
	tr := New()
	_ = tr.SetParent(parent)
	tr.SetPosition(mgl32.Vec3{1, -2, 3.5})
	tr.SetEuler(mgl32.Vec3{10, 20, 30})
	tr.SetScale(mgl32.Vec3{2, 1, 0.5})

	data := tr.ToData()

	restored := New()
	restored.FromData(data)

	if restored.UUID() != tr.UUID() {
		t.Errorf("uuid not preserved")
	}
	if !vecNear(restored.Position(), tr.Position(), eps) {
		t.Errorf("position = %v, want %v", restored.Position(), tr.Position())
	}
	if !vecNear(restored.Scale(), tr.Scale(), eps) {
		t.Errorf("scale = %v, want %v", restored.Scale(), tr.Scale())
	}
	dot := restored.Rotation().Dot(tr.Rotation())
	if math32.Abs(dot) < 1-eps {
		t.Errorf("rotation not preserved, |dot| = %v", dot)
	}

	if ParentRef(data) != parent.UUID() {
		t.Errorf("parent ref = %q, want %q", ParentRef(data), parent.UUID())
	}

	// Post-hoc linkage once the whole batch exists.
	restoredParent := New()
	restoredParent.FromData(parent.ToData())
	ResolveParents(
		map[string]*Transform{restoredParent.UUID(): restoredParent},
		map[*Transform]string{restored: ParentRef(data)},
	)
	if restored.Parent() != restoredParent {
		t.Errorf("parent linkage not resolved")
	}
}
