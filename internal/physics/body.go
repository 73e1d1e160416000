package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.1 // units/sec - below this, a body might sleep
	SleepAngularThreshold  = 0.2 // rad/sec - below this, a body might sleep
	SleepTimeThreshold     = 0.5 // seconds of low velocity before sleeping
)

// BodyHandle identifies a body for its whole lifetime. Handles are never
// reused within a world.
type BodyHandle uint32

// ColliderHandle identifies a collider.
type ColliderHandle uint32

// JointHandle identifies a joint.
type JointHandle uint32

type BodyKind int

const (
	// Dynamic bodies are moved by the simulation.
	Dynamic BodyKind = iota
	// Fixed bodies never move.
	Fixed
)

func (k BodyKind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Fixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Pose is a rigid transform: position and unit quaternion.
type Pose struct {
	Position rl.Vector3
	Rotation rl.Quaternion
}

// NewPose returns a pose at position with identity rotation.
func NewPose(position rl.Vector3) Pose {
	return Pose{Position: position, Rotation: rl.QuaternionIdentity()}
}

// TransformPoint maps a body-local point to world space.
func (p Pose) TransformPoint(local rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(p.Position, rl.Vector3RotateByQuaternion(local, p.Rotation))
}

type body struct {
	handle BodyHandle
	kind   BodyKind

	pos     rl.Vector3
	rot     rl.Quaternion
	prevPos rl.Vector3
	prevRot rl.Quaternion

	linVel rl.Vector3
	angVel rl.Vector3 // radians per second

	invMass    float32
	invInertia float32 // scalar approximation of the inertia tensor

	colliders []*collider
	joints    []*joint

	// Sleep state - sleeping bodies skip simulation
	sleeping   bool
	sleepTimer float32

	// active is set when the body was simulated during the last step
	active bool
}

type collider struct {
	handle ColliderHandle
	body   *body // nil for colliders attached to the ground
	shape  Shape
	pose   Pose // used when body is nil
}

func (b *body) pose() Pose {
	return Pose{Position: b.pos, Rotation: b.rot}
}

func (b *body) isDynamic() bool {
	return b.kind == Dynamic
}

// simulated reports whether the body takes part in this step
func (b *body) simulated() bool {
	return b.kind == Dynamic && !b.sleeping
}

// Wake forces the body out of sleep state
func (b *body) wake() {
	b.sleeping = false
	b.sleepTimer = 0
}

// updateSleepTimer accumulates time spent below the sleep thresholds and
// reports whether the body is ready to sleep
func (b *body) updateSleepTimer(dt float32) bool {
	if b.sleeping || !b.isDynamic() {
		return b.sleeping
	}

	speed := rl.Vector3Length(b.linVel)
	angSpeed := rl.Vector3Length(b.angVel)

	if speed < SleepVelocityThreshold && angSpeed < SleepAngularThreshold {
		b.sleepTimer += dt
	} else {
		b.sleepTimer = 0
	}
	return b.sleepTimer >= SleepTimeThreshold
}

func (b *body) sleep() {
	b.sleeping = true
	b.linVel = rl.Vector3{}
	b.angVel = rl.Vector3{}
}

// updateMass recomputes mass properties from the attached colliders
func (b *body) updateMass(density float32) {
	if !b.isDynamic() {
		b.invMass = 0
		b.invInertia = 0
		return
	}

	var mass, inertia float32
	for _, c := range b.colliders {
		m := c.shape.volume() * density
		mass += m
		inertia += m * c.shape.inertiaFactor()
	}
	if mass <= 0 {
		mass = 1
		inertia = 1
	}
	b.invMass = 1 / mass
	b.invInertia = 1 / inertia
}

func (c *collider) worldPose() Pose {
	if c.body == nil {
		return c.pose
	}
	return c.body.pose()
}
