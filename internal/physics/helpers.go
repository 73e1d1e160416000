package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// cross computes the cross product of two vectors
func cross(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// conjugate inverts a unit quaternion
func conjugate(q rl.Quaternion) rl.Quaternion {
	return rl.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// rotateBy applies a small rotation vector (axis * angle) to q
func rotateBy(q rl.Quaternion, dTheta rl.Vector3) rl.Quaternion {
	spin := rl.QuaternionMultiply(rl.Quaternion{X: dTheta.X, Y: dTheta.Y, Z: dTheta.Z}, q)
	q.X += 0.5 * spin.X
	q.Y += 0.5 * spin.Y
	q.Z += 0.5 * spin.Z
	q.W += 0.5 * spin.W
	return rl.QuaternionNormalize(q)
}

// generalizedInverseMass is the inverse mass felt at offset r along n
func generalizedInverseMass(b *body, r, n rl.Vector3) float32 {
	if b == nil || !b.simulated() {
		return 0
	}
	rn := cross(r, n)
	return b.invMass + b.invInertia*rl.Vector3DotProduct(rn, rn)
}

// applyCorrection moves a along delta and b against it so the two points
// at offsets ra and rb meet. Either body may be nil (static).
func applyCorrection(a, b *body, ra, rb, delta rl.Vector3) {
	c := rl.Vector3Length(delta)
	if c < 1e-6 {
		return
	}
	n := rl.Vector3Scale(delta, 1/c)

	wa := generalizedInverseMass(a, ra, n)
	wb := generalizedInverseMass(b, rb, n)
	if wa+wb == 0 {
		return
	}

	p := rl.Vector3Scale(n, c/(wa+wb))
	if wa > 0 {
		a.pos = rl.Vector3Add(a.pos, rl.Vector3Scale(p, a.invMass))
		a.rot = rotateBy(a.rot, rl.Vector3Scale(cross(ra, p), a.invInertia))
	}
	if wb > 0 {
		b.pos = rl.Vector3Subtract(b.pos, rl.Vector3Scale(p, b.invMass))
		b.rot = rotateBy(b.rot, rl.Vector3Scale(cross(rb, p), -b.invInertia))
	}
}

// closestPointOnSegment returns the point of [a, b] closest to p
func closestPointOnSegment(a, b, p rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	denom := rl.Vector3DotProduct(ab, ab)
	if denom < 1e-12 {
		return a
	}
	t := clampf(rl.Vector3DotProduct(rl.Vector3Subtract(p, a), ab)/denom, 0, 1)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

// closestPointsSegments returns the closest pair of points between the
// segments [p1, q1] and [p2, q2]
func closestPointsSegments(p1, q1, p2, q2 rl.Vector3) (c1, c2 rl.Vector3) {
	d1 := rl.Vector3Subtract(q1, p1)
	d2 := rl.Vector3Subtract(q2, p2)
	r := rl.Vector3Subtract(p1, p2)
	a := rl.Vector3DotProduct(d1, d1)
	e := rl.Vector3DotProduct(d2, d2)
	f := rl.Vector3DotProduct(d2, r)

	const eps = 1e-9
	var s, t float32
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = clampf(f/e, 0, 1)
	default:
		c := rl.Vector3DotProduct(d1, r)
		if e <= eps {
			s = clampf(-c/a, 0, 1)
		} else {
			b := rl.Vector3DotProduct(d1, d2)
			denom := a*e - b*b
			if denom > eps {
				s = clampf((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clampf(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clampf((b-c)/a, 0, 1)
			}
		}
	}

	return rl.Vector3Add(p1, rl.Vector3Scale(d1, s)), rl.Vector3Add(p2, rl.Vector3Scale(d2, t))
}
