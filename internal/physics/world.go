package physics

import (
	"fmt"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Config holds the tunables of a World.
type Config struct {
	Gravity  rl.Vector3
	Timestep float32 // seconds per Step
	Substeps int     // solver substeps per Step

	// JointIterations is the number of joint solver passes per substep
	JointIterations int

	Density        float32
	Friction       float32
	AngularDamping float32
	GroundHalfSize rl.Vector3
	GroundPosition rl.Vector3

	// MaxDepenetrationSpeed caps the separating speed produced by pushing
	// overlapping bodies apart
	MaxDepenetrationSpeed float32
}

// DefaultConfig returns the sandbox defaults: earth gravity, 60 Hz and a
// 20x0.2x20 ground slab centered on the origin.
func DefaultConfig() Config {
	return Config{
		Gravity:         rl.Vector3{X: 0, Y: -9.81, Z: 0},
		Timestep:        1.0 / 60.0,
		Substeps:        4,
		JointIterations: 2,
		Density:         1.0,
		Friction:        0.5,
		AngularDamping:  0.5,
		GroundHalfSize:  rl.Vector3{X: 10.0, Y: 0.1, Z: 10.0},

		MaxDepenetrationSpeed: 5.0,
	}
}

type pairKey struct {
	A, B BodyHandle
}

func makePairKey(a, b BodyHandle) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{A: a, B: b}
}

// World owns all bodies, colliders and joints of the simulation.
type World struct {
	cfg Config

	bodies   []*body // creation order, drives solver order
	byHandle map[BodyHandle]*body
	statics  []*collider // colliders without a body (ground)

	joints []*joint

	// excluded holds body pairs whose contacts are ignored
	excluded map[pairKey]int

	grid     map[CellKey][]*collider
	cellSize float32

	// pendingWake holds sleeping bodies hit during the current substep
	pendingWake []*body

	nextBody     BodyHandle
	nextCollider ColliderHandle
	nextJoint    JointHandle

	ticks           uint64
	lastLoggedCount int
}

// NewWorld creates a world with a static ground collider.
func NewWorld(cfg Config) *World {
	if cfg.Substeps < 1 {
		cfg.Substeps = 1
	}
	if cfg.JointIterations < 1 {
		cfg.JointIterations = 1
	}
	if cfg.Timestep <= 0 {
		cfg.Timestep = 1.0 / 60.0
	}
	if cfg.Density <= 0 {
		cfg.Density = 1
	}

	w := &World{
		cfg:      cfg,
		byHandle: make(map[BodyHandle]*body),
		excluded: make(map[pairKey]int),
		grid:     make(map[CellKey][]*collider),
		cellSize: CellSize,
	}

	w.AddStaticCollider(Cuboid{HalfExtents: cfg.GroundHalfSize}, NewPose(cfg.GroundPosition))
	return w
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config {
	return w.cfg
}

// CreateBody adds a body with no colliders at pose.
func (w *World) CreateBody(kind BodyKind, pose Pose) BodyHandle {
	if pose.Rotation == (rl.Quaternion{}) {
		pose.Rotation = rl.QuaternionIdentity()
	}

	w.nextBody++
	b := &body{
		handle:  w.nextBody,
		kind:    kind,
		pos:     pose.Position,
		rot:     pose.Rotation,
		prevPos: pose.Position,
		prevRot: pose.Rotation,
	}
	b.updateMass(w.cfg.Density)

	w.bodies = append(w.bodies, b)
	w.byHandle[b.handle] = b

	if n := len(w.bodies); n%100 == 0 && n != w.lastLoggedCount {
		w.lastLoggedCount = n
		log.Printf("Physics: %d bodies", n)
	}
	return b.handle
}

// CreateCollider attaches shape to the body named by h.
func (w *World) CreateCollider(shape Shape, h BodyHandle) (ColliderHandle, error) {
	b, ok := w.byHandle[h]
	if !ok {
		return 0, fmt.Errorf("create collider on body %d: %w", h, ErrUnknownBody)
	}
	if err := validateShape(shape); err != nil {
		return 0, err
	}

	w.nextCollider++
	c := &collider{handle: w.nextCollider, body: b, shape: shape}
	b.colliders = append(b.colliders, c)
	b.updateMass(w.cfg.Density)
	return c.handle, nil
}

// AddStaticCollider adds a collider fixed in the world at pose.
func (w *World) AddStaticCollider(shape Shape, pose Pose) ColliderHandle {
	if pose.Rotation == (rl.Quaternion{}) {
		pose.Rotation = rl.QuaternionIdentity()
	}
	w.nextCollider++
	c := &collider{handle: w.nextCollider, shape: shape, pose: pose}
	w.statics = append(w.statics, c)
	return c.handle
}

func validateShape(shape Shape) error {
	switch s := shape.(type) {
	case Sphere:
		if s.Radius <= 0 {
			return fmt.Errorf("sphere radius %v: %w", s.Radius, ErrInvalidShape)
		}
	case Cuboid:
		if s.HalfExtents.X <= 0 || s.HalfExtents.Y <= 0 || s.HalfExtents.Z <= 0 {
			return fmt.Errorf("cuboid half extents %v: %w", s.HalfExtents, ErrInvalidShape)
		}
	case Capsule:
		if s.Radius <= 0 || s.HalfHeight < 0 {
			return fmt.Errorf("capsule %v/%v: %w", s.HalfHeight, s.Radius, ErrInvalidShape)
		}
	default:
		return fmt.Errorf("shape %T: %w", shape, ErrInvalidShape)
	}
	return nil
}

// RemoveBody deletes a body together with its colliders and joints.
func (w *World) RemoveBody(h BodyHandle) error {
	b, ok := w.byHandle[h]
	if !ok {
		return fmt.Errorf("remove body %d: %w", h, ErrUnknownBody)
	}

	for _, j := range append([]*joint(nil), b.joints...) {
		w.removeJoint(j)
	}

	delete(w.byHandle, h)
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	return nil
}

// Body returns the current pose of a body.
func (w *World) Body(h BodyHandle) (Pose, bool) {
	b, ok := w.byHandle[h]
	if !ok {
		return Pose{}, false
	}
	return b.pose(), true
}

// IsSleeping reports whether a body is currently asleep.
func (w *World) IsSleeping(h BodyHandle) bool {
	b, ok := w.byHandle[h]
	return ok && b.sleeping
}

// SetLinearVelocity sets the linear velocity of a dynamic body and wakes it.
func (w *World) SetLinearVelocity(h BodyHandle, v rl.Vector3) error {
	b, ok := w.byHandle[h]
	if !ok {
		return fmt.Errorf("set velocity of body %d: %w", h, ErrUnknownBody)
	}
	b.linVel = v
	b.wake()
	return nil
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// JointCount returns the number of live joints.
func (w *World) JointCount() int {
	return len(w.joints)
}

// TickCount returns how many times Step has run.
func (w *World) TickCount() uint64 {
	return w.ticks
}

// ForEachActiveBody calls visit for every body simulated during the last
// step. Iteration order is unspecified.
func (w *World) ForEachActiveBody(visit func(h BodyHandle, pose Pose)) {
	for h, b := range w.byHandle {
		if b.active {
			visit(h, b.pose())
		}
	}
}

// Step advances the simulation by one fixed timestep.
func (w *World) Step() {
	for _, b := range w.bodies {
		b.active = false
	}
	w.propagateWake()

	h := w.cfg.Timestep / float32(w.cfg.Substeps)
	for i, n := 0, w.cfg.Substeps; i < n; i++ {
		// 1. Integrate gravity and velocities into predicted poses
		w.integrate(h)

		// 2. Contacts against statics and other bodies
		contacts := w.detectContacts()

		// 3. Position solve: contacts, then joints
		w.solveContactPositions(contacts)
		for j, m := 0, w.cfg.JointIterations; j < m; j++ {
			w.solveJoints()
		}

		// 4. Derive velocities from the corrected poses
		w.updateVelocities(h)

		// 5. Velocity pass: remove approach speed, apply friction
		w.solveContactVelocities(contacts, h)
	}

	w.trySleep()
	w.ticks++
}

// trySleep puts jointed groups to sleep together once every member has
// been slow for long enough
func (w *World) trySleep() {
	ready := make(map[*body]bool, len(w.bodies))
	for _, b := range w.bodies {
		if b.simulated() {
			ready[b] = b.updateSleepTimer(w.cfg.Timestep)
		}
	}

	visited := make(map[*body]bool)
	for _, b := range w.bodies {
		if !b.simulated() || visited[b] {
			continue
		}

		group := []*body{b}
		visited[b] = true
		allReady := true
		for i := 0; i < len(group); i++ {
			cur := group[i]
			if !ready[cur] {
				allReady = false
			}
			for _, j := range cur.joints {
				for _, other := range [2]*body{j.a, j.b} {
					if other.simulated() && !visited[other] {
						visited[other] = true
						group = append(group, other)
					}
				}
			}
		}

		if allReady {
			for _, g := range group {
				g.sleep()
			}
		}
	}
}

// propagateWake wakes every body connected by a joint to an awake body
func (w *World) propagateWake() {
	for changed := true; changed; {
		changed = false
		for _, j := range w.joints {
			if j.a.sleeping != j.b.sleeping && j.a.isDynamic() && j.b.isDynamic() {
				j.a.wake()
				j.b.wake()
				changed = true
			}
		}
	}
}

func (w *World) integrate(h float32) {
	damping := 1 / (1 + h*w.cfg.AngularDamping)
	for _, b := range w.bodies {
		if !b.simulated() {
			continue
		}
		b.active = true
		b.prevPos = b.pos
		b.prevRot = b.rot

		b.linVel = rl.Vector3Add(b.linVel, rl.Vector3Scale(w.cfg.Gravity, h))
		b.pos = rl.Vector3Add(b.pos, rl.Vector3Scale(b.linVel, h))

		b.angVel = rl.Vector3Scale(b.angVel, damping)
		b.rot = rotateBy(b.rot, rl.Vector3Scale(b.angVel, h))
	}
}

func (w *World) updateVelocities(h float32) {
	for _, b := range w.bodies {
		if !b.simulated() || !b.active {
			continue
		}
		b.linVel = rl.Vector3Scale(rl.Vector3Subtract(b.pos, b.prevPos), 1/h)

		dq := rl.QuaternionMultiply(b.rot, conjugate(b.prevRot))
		omega := rl.Vector3Scale(rl.Vector3{X: dq.X, Y: dq.Y, Z: dq.Z}, 2/h)
		if dq.W < 0 {
			omega = rl.Vector3Negate(omega)
		}
		b.angVel = omega
	}
}
