package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RayHit describes the closest collider hit by a ray. Body is zero for
// world statics such as the ground.
type RayHit struct {
	Body     BodyHandle
	Collider ColliderHandle
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// CastRay returns the closest hit along the ray within maxDistance. All
// colliders are considered, dynamic ones included.
func (w *World) CastRay(origin, direction rl.Vector3, maxDistance float32) (RayHit, bool) {
	if rl.Vector3Length(direction) < 1e-9 {
		return RayHit{}, false
	}
	direction = rl.Vector3Normalize(direction)

	closest := RayHit{Distance: maxDistance}
	hit := false

	test := func(c *collider) {
		t, normal, ok := raycastCollider(origin, direction, c, closest.Distance)
		if !ok {
			return
		}
		closest = RayHit{
			Collider: c.handle,
			Point:    rl.Vector3Add(origin, rl.Vector3Scale(direction, t)),
			Normal:   normal,
			Distance: t,
		}
		if c.body != nil {
			closest.Body = c.body.handle
		}
		hit = true
	}

	for _, c := range w.statics {
		test(c)
	}
	for _, b := range w.bodies {
		for _, c := range b.colliders {
			test(c)
		}
	}

	return closest, hit
}

// raycastCollider intersects a normalized ray with one collider. The ray is
// moved into collider space, tested there, and the normal rotated back.
func raycastCollider(origin, direction rl.Vector3, c *collider, maxDistance float32) (float32, rl.Vector3, bool) {
	pose := c.worldPose()
	inv := conjugate(pose.Rotation)
	lo := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(origin, pose.Position), inv)
	ld := rl.Vector3RotateByQuaternion(direction, inv)

	var (
		t      float32
		normal rl.Vector3
		ok     bool
	)
	switch s := c.shape.(type) {
	case Cuboid:
		t, normal, ok = raycastBox(lo, ld, s.HalfExtents, maxDistance)
	case Sphere:
		t, normal, ok = raycastSphere(lo, ld, rl.Vector3{}, s.Radius, maxDistance)
	case Capsule:
		t, normal, ok = raycastCapsule(lo, ld, s, maxDistance)
	}
	if !ok {
		return 0, rl.Vector3{}, false
	}
	return t, rl.Vector3RotateByQuaternion(normal, pose.Rotation), true
}

func raycastBox(origin, direction, half rl.Vector3, maxDistance float32) (float32, rl.Vector3, bool) {
	boxMin := rl.Vector3Negate(half)
	boxMax := half

	tmin := float32(-1e30)
	tmax := float32(1e30)

	slabs := [3][4]float32{
		{origin.X, direction.X, boxMin.X, boxMax.X},
		{origin.Y, direction.Y, boxMin.Y, boxMax.Y},
		{origin.Z, direction.Z, boxMin.Z, boxMax.Z},
	}
	for _, s := range slabs {
		o, d, lo, hi := s[0], s[1], s[2], s[3]
		if d == 0 {
			if o < lo || o > hi {
				return 0, rl.Vector3{}, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, rl.Vector3{}, false
		}
	}

	if tmax < 0 || tmin > maxDistance {
		return 0, rl.Vector3{}, false
	}

	t := tmin
	if t < 0 {
		t = tmax
	}
	if t < 0 || t > maxDistance {
		return 0, rl.Vector3{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))

	// Calculate normal based on which face was hit
	var normal rl.Vector3
	epsilon := float32(0.001)
	if absf(point.X-boxMin.X) < epsilon {
		normal = rl.Vector3{X: -1, Y: 0, Z: 0}
	} else if absf(point.X-boxMax.X) < epsilon {
		normal = rl.Vector3{X: 1, Y: 0, Z: 0}
	} else if absf(point.Y-boxMin.Y) < epsilon {
		normal = rl.Vector3{X: 0, Y: -1, Z: 0}
	} else if absf(point.Y-boxMax.Y) < epsilon {
		normal = rl.Vector3{X: 0, Y: 1, Z: 0}
	} else if absf(point.Z-boxMin.Z) < epsilon {
		normal = rl.Vector3{X: 0, Y: 0, Z: -1}
	} else {
		normal = rl.Vector3{X: 0, Y: 0, Z: 1}
	}

	return t, normal, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (float32, rl.Vector3, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(direction, direction)
	b := 2.0 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, rl.Vector3{}, false
	}

	t := (-b - float32(math.Sqrt(float64(discriminant)))) / (2 * a)
	if t < 0 {
		t = (-b + float32(math.Sqrt(float64(discriminant)))) / (2 * a)
	}
	if t < 0 || t > maxDistance {
		return 0, rl.Vector3{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))

	return t, normal, true
}

// raycastCapsule tests the cylinder body then both cap spheres and keeps
// the nearest hit
func raycastCapsule(origin, direction rl.Vector3, c Capsule, maxDistance float32) (float32, rl.Vector3, bool) {
	best := maxDistance
	var bestNormal rl.Vector3
	found := false

	// Cylinder side, axis along Y from -HalfHeight to +HalfHeight
	a := direction.X*direction.X + direction.Z*direction.Z
	if a > 1e-9 {
		b := origin.X*direction.X + origin.Z*direction.Z
		k := origin.X*origin.X + origin.Z*origin.Z - c.Radius*c.Radius
		disc := b*b - a*k
		if disc >= 0 {
			t := (-b - float32(math.Sqrt(float64(disc)))) / a
			y := origin.Y + t*direction.Y
			if t >= 0 && t <= best && y > -c.HalfHeight && y < c.HalfHeight {
				best = t
				p := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
				bestNormal = rl.Vector3Normalize(rl.Vector3{X: p.X, Z: p.Z})
				found = true
			}
		}
	}

	for _, cy := range [2]float32{-c.HalfHeight, c.HalfHeight} {
		t, n, ok := raycastSphere(origin, direction, rl.Vector3{Y: cy}, c.Radius, best)
		if ok && t <= best {
			best = t
			bestNormal = n
			found = true
		}
	}

	return best, bestNormal, found
}
