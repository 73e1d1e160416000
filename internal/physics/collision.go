package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// contact is a penetration between two colliders. Moving a along normal
// by depth (or b against it) separates them. b is nil for world statics.
type contact struct {
	a, b   *body
	pa, pb rl.Vector3 // deepest points on a and b
	normal rl.Vector3
	depth  float32
}

// segment is the swept-sphere form of spheres and capsules
type segment struct {
	p, q   rl.Vector3
	radius float32
}

func asSegment(c *collider) (segment, bool) {
	pose := c.worldPose()
	switch s := c.shape.(type) {
	case Sphere:
		return segment{p: pose.Position, q: pose.Position, radius: s.Radius}, true
	case Capsule:
		p, q := s.segment(pose)
		return segment{p: p, q: q, radius: s.Radius}, true
	}
	return segment{}, false
}

func asOBB(c *collider) (OBB, bool) {
	box, ok := c.shape.(Cuboid)
	if !ok {
		return OBB{}, false
	}
	pose := c.worldPose()
	return NewOBB(pose.Position, box.HalfExtents, pose.Rotation), true
}

// samples returns the sphere centers used to test a segment against a box
func (s segment) samples() []rl.Vector3 {
	if rl.Vector3Equals(s.p, s.q) {
		return []rl.Vector3{s.p}
	}
	mid := rl.Vector3Lerp(s.p, s.q, 0.5)
	return []rl.Vector3{s.p, mid, s.q}
}

// detectContacts gathers all contacts involving at least one awake body
func (w *World) detectContacts() []contact {
	w.rebuildGrid()

	var statics []*collider
	statics = append(statics, w.statics...)
	for _, b := range w.bodies {
		if !b.isDynamic() {
			statics = append(statics, b.colliders...)
		}
	}

	var contacts []contact
	for _, b := range w.bodies {
		if !b.simulated() {
			continue
		}
		for _, c := range b.colliders {
			box := c.bounds()

			for _, s := range statics {
				if !box.Intersects(s.bounds()) {
					continue
				}
				if s.body != nil && w.isExcluded(b, s.body) {
					continue
				}
				contacts = collide(c, s, contacts)
			}

			for _, o := range w.neighbors(b.pos) {
				other := o.body
				if other == b || w.isExcluded(b, other) {
					continue
				}
				// Awake pairs are visited from the lower handle only
				if other.simulated() && other.handle < b.handle {
					continue
				}
				if !box.Intersects(o.bounds()) {
					continue
				}

				n := len(contacts)
				contacts = collide(c, o, contacts)
				if len(contacts) > n && other.sleeping && rl.Vector3Length(b.linVel) > SleepVelocityThreshold*2 {
					w.pendingWake = append(w.pendingWake, other)
				}
			}
		}
	}
	return contacts
}

func (w *World) isExcluded(a, b *body) bool {
	return w.excluded[makePairKey(a.handle, b.handle)] > 0
}

// collide appends the contacts between two colliders to out
func collide(ca, cb *collider, out []contact) []contact {
	sa, aIsSeg := asSegment(ca)
	sb, bIsSeg := asSegment(cb)

	switch {
	case aIsSeg && bIsSeg:
		return collideSegments(ca.body, cb.body, sa, sb, out)
	case aIsSeg:
		if box, ok := asOBB(cb); ok {
			return collideSegmentBox(ca.body, cb.body, sa, box, out)
		}
	case bIsSeg:
		if box, ok := asOBB(ca); ok {
			return collideSegmentBox(cb.body, ca.body, sb, box, out)
		}
	default:
		boxA, okA := asOBB(ca)
		boxB, okB := asOBB(cb)
		if okA && okB {
			out = collideCorners(ca.body, cb.body, boxA, boxB, out)
			return collideCorners(cb.body, ca.body, boxB, boxA, out)
		}
	}
	return out
}

func collideSegments(a, b *body, sa, sb segment, out []contact) []contact {
	c1, c2 := closestPointsSegments(sa.p, sa.q, sb.p, sb.q)
	diff := rl.Vector3Subtract(c1, c2)
	dist := rl.Vector3Length(diff)
	sum := sa.radius + sb.radius
	if dist >= sum {
		return out
	}

	normal := rl.Vector3{Y: 1}
	if dist > 1e-6 {
		normal = rl.Vector3Scale(diff, 1/dist)
	}
	return append(out, contact{
		a:      a,
		b:      b,
		pa:     rl.Vector3Subtract(c1, rl.Vector3Scale(normal, sa.radius)),
		pb:     rl.Vector3Add(c2, rl.Vector3Scale(normal, sb.radius)),
		normal: normal,
		depth:  sum - dist,
	})
}

func collideSegmentBox(a, b *body, s segment, box OBB, out []contact) []contact {
	for _, center := range s.samples() {
		normal, surface, depth, ok := box.sphereContact(center, s.radius)
		if !ok {
			continue
		}
		out = append(out, contact{
			a:      a,
			b:      b,
			pa:     rl.Vector3Subtract(center, rl.Vector3Scale(normal, s.radius)),
			pb:     surface,
			normal: normal,
			depth:  depth,
		})
	}
	return out
}

// collideCorners pushes corners of boxA that sit inside boxB
func collideCorners(a, b *body, boxA, boxB OBB, out []contact) []contact {
	for _, corner := range boxA.corners() {
		normal, surface, depth, ok := boxB.sphereContact(corner, 0)
		if !ok {
			continue
		}
		out = append(out, contact{a: a, b: b, pa: corner, pb: surface, normal: normal, depth: depth})
	}
	return out
}

func offset(b *body, p rl.Vector3) rl.Vector3 {
	if b == nil {
		return rl.Vector3{}
	}
	return rl.Vector3Subtract(p, b.pos)
}

func (w *World) solveContactPositions(contacts []contact) {
	for _, c := range contacts {
		applyCorrection(c.a, c.b, offset(c.a, c.pa), offset(c.b, c.pb), rl.Vector3Scale(c.normal, c.depth))
	}
}

func velocityOf(b *body) rl.Vector3 {
	if b == nil || !b.simulated() {
		return rl.Vector3{}
	}
	return b.linVel
}

func invMassOf(b *body) float32 {
	if b == nil || !b.simulated() {
		return 0
	}
	return b.invMass
}

// solveContactVelocities removes approach velocity along contact normals
// and applies Coulomb friction bounded by the normal correction
func (w *World) solveContactVelocities(contacts []contact, h float32) {
	for _, c := range contacts {
		wa, wb := invMassOf(c.a), invMassOf(c.b)
		if wa+wb == 0 {
			continue
		}

		rel := rl.Vector3Subtract(velocityOf(c.a), velocityOf(c.b))
		vn := rl.Vector3DotProduct(rel, c.normal)
		tangent := rl.Vector3Subtract(rel, rl.Vector3Scale(c.normal, vn))

		var dv rl.Vector3
		if vn < 0 {
			dv = rl.Vector3Scale(c.normal, -vn)
		} else if limit := w.cfg.MaxDepenetrationSpeed; limit > 0 && vn > limit {
			dv = rl.Vector3Scale(c.normal, limit-vn)
		}

		if vt := rl.Vector3Length(tangent); vt > 1e-6 {
			limit := w.cfg.Friction * (c.depth / h)
			if limit > vt {
				limit = vt
			}
			dv = rl.Vector3Add(dv, rl.Vector3Scale(tangent, -limit/vt))
		}

		if wa > 0 {
			c.a.linVel = rl.Vector3Add(c.a.linVel, rl.Vector3Scale(dv, wa/(wa+wb)))
		}
		if wb > 0 {
			c.b.linVel = rl.Vector3Subtract(c.b.linVel, rl.Vector3Scale(dv, wb/(wa+wb)))
		}
	}

	for _, b := range w.pendingWake {
		b.wake()
	}
	w.pendingWake = w.pendingWake[:0]
}
