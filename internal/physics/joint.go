package physics

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// JointSpec describes a spherical joint: AnchorA on BodyA and AnchorB on
// BodyB (both body-local) are kept coincident while rotation stays free.
type JointSpec struct {
	BodyA, BodyB     BodyHandle
	AnchorA, AnchorB rl.Vector3

	// CollideConnected enables contacts between the two jointed bodies
	CollideConnected bool
}

type joint struct {
	handle JointHandle
	a, b   *body
	spec   JointSpec
}

// CreateJoint adds a spherical joint between two bodies and wakes both.
func (w *World) CreateJoint(spec JointSpec) (JointHandle, error) {
	a, ok := w.byHandle[spec.BodyA]
	if !ok {
		return 0, fmt.Errorf("create joint: body %d: %w", spec.BodyA, ErrUnknownBody)
	}
	b, ok := w.byHandle[spec.BodyB]
	if !ok {
		return 0, fmt.Errorf("create joint: body %d: %w", spec.BodyB, ErrUnknownBody)
	}
	if a == b {
		return 0, fmt.Errorf("create joint on body %d: %w", spec.BodyA, ErrSelfJoint)
	}

	w.nextJoint++
	j := &joint{handle: w.nextJoint, a: a, b: b, spec: spec}
	w.joints = append(w.joints, j)
	a.joints = append(a.joints, j)
	b.joints = append(b.joints, j)

	if !spec.CollideConnected {
		w.excluded[makePairKey(a.handle, b.handle)]++
	}

	a.wake()
	b.wake()
	return j.handle, nil
}

func (w *World) removeJoint(j *joint) {
	for i, other := range w.joints {
		if other == j {
			w.joints = append(w.joints[:i], w.joints[i+1:]...)
			break
		}
	}
	j.a.joints = dropJoint(j.a.joints, j)
	j.b.joints = dropJoint(j.b.joints, j)

	if !j.spec.CollideConnected {
		key := makePairKey(j.a.handle, j.b.handle)
		if w.excluded[key]--; w.excluded[key] <= 0 {
			delete(w.excluded, key)
		}
	}

	// The survivor may be hanging from the removed body
	j.a.wake()
	j.b.wake()
}

func dropJoint(js []*joint, j *joint) []*joint {
	for i, other := range js {
		if other == j {
			return append(js[:i], js[i+1:]...)
		}
	}
	return js
}

// anchors returns the world anchor points and their body-relative offsets
func (j *joint) anchors() (pa, pb, ra, rb rl.Vector3) {
	ra = rl.Vector3RotateByQuaternion(j.spec.AnchorA, j.a.rot)
	rb = rl.Vector3RotateByQuaternion(j.spec.AnchorB, j.b.rot)
	return rl.Vector3Add(j.a.pos, ra), rl.Vector3Add(j.b.pos, rb), ra, rb
}

func (w *World) solveJoints() {
	for _, j := range w.joints {
		if !j.a.simulated() && !j.b.simulated() {
			continue
		}
		pa, pb, ra, rb := j.anchors()
		applyCorrection(j.a, j.b, ra, rb, rl.Vector3Subtract(pb, pa))
	}
}
