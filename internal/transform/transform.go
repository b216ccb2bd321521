package transform

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Transform is a node in the spatial hierarchy: local position, rotation and
// non-uniform scale, with lazily recomputed local and world matrices.
//
// The world matrix of a node equals parent.world * local (or local for a
// root) and is guaranteed correct only after UpdateMatrices has run for the
// node and all of its ancestors in the current frame.
type Transform struct {
	id string

	position mgl32.Vec3
	rotation mgl32.Quat
	euler    mgl32.Vec3 // cached degrees view of rotation (pitch, yaw, roll)
	scale    mgl32.Vec3

	dirty bool
	local mgl32.Mat4
	world mgl32.Mat4

	parent   *Transform // not owned
	children []*Transform
}

// New creates an identity Transform with a fresh uuid.
func New() *Transform {
	return &Transform{
		id:       uuid.NewString(),
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
		dirty:    true,
		local:    mgl32.Ident4(),
		world:    mgl32.Ident4(),
	}
}

// UUID returns the stable identifier used for parent linkage in serialized data.
func (t *Transform) UUID() string { return t.id }

func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Rotation() mgl32.Quat { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3    { return t.scale }

// Euler returns the cached Euler-degrees view of the rotation (pitch, yaw, roll).
func (t *Transform) Euler() mgl32.Vec3 { return t.euler }

func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.dirty = true
}

// SetRotation sets the rotation quaternion and refreshes the cached Euler view.
func (t *Transform) SetRotation(q mgl32.Quat) {
	t.rotation = q.Normalize()
	t.euler = quatToEuler(t.rotation)
	t.dirty = true
}

// SetEuler sets the rotation from Euler degrees (pitch, yaw, roll), applied
// in yaw-pitch-roll order.
func (t *Transform) SetEuler(deg mgl32.Vec3) {
	t.euler = deg
	t.rotation = eulerToQuat(deg)
	t.dirty = true
}

func (t *Transform) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.dirty = true
}

// Translate offsets the local position.
func (t *Transform) Translate(delta mgl32.Vec3) {
	t.position = t.position.Add(delta)
	t.dirty = true
}

// Rotate applies an additional rotation of angleDeg degrees about the given
// local axis.
func (t *Transform) Rotate(axis mgl32.Vec3, angleDeg float32) {
	q := mgl32.QuatRotate(mgl32.DegToRad(angleDeg), axis.Normalize())
	t.SetRotation(t.rotation.Mul(q))
}

// ScaleBy multiplies the local scale componentwise.
func (t *Transform) ScaleBy(s mgl32.Vec3) {
	t.scale = mgl32.Vec3{t.scale.X() * s.X(), t.scale.Y() * s.Y(), t.scale.Z() * s.Z()}
	t.dirty = true
}

func (t *Transform) Parent() *Transform { return t.parent }

// Children returns the owned child list. Callers must not mutate it.
func (t *Transform) Children() []*Transform { return t.children }

// SetParent re-parents the node. The node is removed from the old parent's
// child list and appended to the new one within this single call, so it never
// appears in two trees at once. Passing nil detaches the node.
// Re-parenting a node under itself or one of its own descendants is rejected.
func (t *Transform) SetParent(p *Transform) error {
	if p == t {
		return fmt.Errorf("transform: cannot parent %s to itself", t.id)
	}
	if p != nil && p.isDescendantOf(t) {
		return fmt.Errorf("transform: cannot parent %s to its own descendant %s", t.id, p.id)
	}
	if t.parent != nil {
		t.parent.removeChild(t)
	}
	t.parent = p
	if p != nil {
		p.children = append(p.children, t)
	}
	t.dirty = true
	return nil
}

func (t *Transform) isDescendantOf(a *Transform) bool {
	for n := t.parent; n != nil; n = n.parent {
		if n == a {
			return true
		}
	}
	return false
}

func (t *Transform) removeChild(c *Transform) {
	for i, ch := range t.children {
		if ch == c {
			t.children = append(t.children[:i], t.children[i+1:]...)
			return
		}
	}
}

// UpdateMatrices recomputes this node's matrices if stale and then visits
// every child unconditionally, so deeper dirty nodes are always reached.
// A parent's matrix is finalized before any of its children recompute.
// Calling it twice with no mutation in between is a no-op the second time.
func (t *Transform) UpdateMatrices() {
	t.update(false)
}

func (t *Transform) update(parentChanged bool) {
	changed := parentChanged
	if t.dirty || parentChanged {
		if t.dirty {
			t.local = mgl32.Translate3D(t.position.X(), t.position.Y(), t.position.Z()).
				Mul4(t.rotation.Mat4()).
				Mul4(mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z()))
		}
		if t.parent != nil {
			t.world = t.parent.world.Mul4(t.local)
		} else {
			t.world = t.local
		}
		t.dirty = false
		changed = true
	}
	for _, c := range t.children {
		c.update(changed)
	}
}

// LocalMatrix returns the cached local matrix (valid after UpdateMatrices).
func (t *Transform) LocalMatrix() mgl32.Mat4 { return t.local }

// WorldMatrix returns the cached world matrix (valid after UpdateMatrices).
func (t *Transform) WorldMatrix() mgl32.Mat4 { return t.world }

// WorldPosition returns the translation column of the cached world matrix.
func (t *Transform) WorldPosition() mgl32.Vec3 {
	return mgl32.Vec3{t.world[12], t.world[13], t.world[14]}
}

// Direction accessors read fixed columns of the current world matrix; callers
// must have run an UpdateMatrices pass this frame or they read last frame's
// orientation. Engine convention: forward is +Z.

func (t *Transform) Right() mgl32.Vec3 {
	return mgl32.Vec3{t.world[0], t.world[1], t.world[2]}.Normalize()
}

func (t *Transform) Up() mgl32.Vec3 {
	return mgl32.Vec3{t.world[4], t.world[5], t.world[6]}.Normalize()
}

func (t *Transform) Forward() mgl32.Vec3 {
	return mgl32.Vec3{t.world[8], t.world[9], t.world[10]}.Normalize()
}

func (t *Transform) Left() mgl32.Vec3 { return t.Right().Mul(-1) }
func (t *Transform) Down() mgl32.Vec3 { return t.Up().Mul(-1) }
func (t *Transform) Back() mgl32.Vec3 { return t.Forward().Mul(-1) }

// LookAt orients the node so its forward axis points at target. The
// quaternion comes from the camera look-at derivation, which assumes a -Z
// view axis; the trailing 180 degree turn about local Y converts it to the
// engine's forward = +Z convention and must not be removed.
func (t *Transform) LookAt(target, worldUp mgl32.Vec3) {
	view := mgl32.LookAtV(t.position, target, worldUp)
	q := mgl32.Mat4ToQuat(view.Inv())
	q = q.Mul(mgl32.QuatRotate(math32.Pi, mgl32.Vec3{0, 1, 0}))
	t.SetRotation(q)
}

// eulerToQuat builds the rotation from degrees (pitch, yaw, roll) as
// Ry(yaw) * Rx(pitch) * Rz(roll).
func eulerToQuat(deg mgl32.Vec3) mgl32.Quat {
	pitch := mgl32.DegToRad(deg.X())
	yaw := mgl32.DegToRad(deg.Y())
	roll := mgl32.DegToRad(deg.Z())
	qy := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})
	qz := mgl32.QuatRotate(roll, mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz).Normalize()
}

// quatToEuler converts back to degrees (pitch, yaw, roll). The 0.4995
// threshold on the squared norm guards the gimbal singularity near +/-90
// degrees pitch; without it the asin argument drifts past 1 and yields NaN.
func quatToEuler(q mgl32.Quat) mgl32.Vec3 {
	x, y, z, w := q.X(), q.Y(), q.Z(), q.W
	unit := x*x + y*y + z*z + w*w
	test := x*w - y*z

	var pitch, yaw, roll float32
	switch {
	case test > 0.4995*unit: // straight up
		pitch = math32.Pi / 2
		yaw = 2 * math32.Atan2(y, x)
		roll = 0
	case test < -0.4995*unit: // straight down
		pitch = -math32.Pi / 2
		yaw = -2 * math32.Atan2(y, x)
		roll = 0
	default:
		pitch = math32.Asin(2 * test / unit)
		yaw = math32.Atan2(2*(w*y+z*x), 1-2*(x*x+y*y))
		roll = math32.Atan2(2*(w*z+x*y), 1-2*(z*z+x*x))
	}
	return mgl32.Vec3{
		mgl32.RadToDeg(pitch),
		mgl32.RadToDeg(yaw),
		mgl32.RadToDeg(roll),
	}
}
