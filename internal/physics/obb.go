package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from a center, half extents and orientation
func NewOBB(center, halfSize rl.Vector3, rotation rl.Quaternion) OBB {
	return OBB{
		Center:   center,
		HalfSize: halfSize,
		Axes: [3]rl.Vector3{
			rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, rotation),
			rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, rotation),
			rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, rotation),
		},
	}
}

// toLocal expresses a world point in the OBB's axes, relative to its center
func (o OBB) toLocal(point rl.Vector3) rl.Vector3 {
	local := rl.Vector3Subtract(point, o.Center)
	return rl.Vector3{
		X: rl.Vector3DotProduct(local, o.Axes[0]),
		Y: rl.Vector3DotProduct(local, o.Axes[1]),
		Z: rl.Vector3DotProduct(local, o.Axes[2]),
	}
}

func (o OBB) toWorld(local rl.Vector3) rl.Vector3 {
	result := o.Center
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[0], local.X))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[1], local.Y))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[2], local.Z))
	return result
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	local := o.toLocal(center)

	// Clamp to box extents
	dx := local.X - clampf(local.X, -o.HalfSize.X, o.HalfSize.X)
	dy := local.Y - clampf(local.Y, -o.HalfSize.Y, o.HalfSize.Y)
	dz := local.Z - clampf(local.Z, -o.HalfSize.Z, o.HalfSize.Z)

	return dx*dx+dy*dy+dz*dz <= radius*radius
}

// ClosestPointOnOBB returns the closest point on the OBB surface to the given point
func ClosestPointOnOBB(o OBB, point rl.Vector3) rl.Vector3 {
	local := o.toLocal(point)
	return o.toWorld(rl.Vector3{
		X: clampf(local.X, -o.HalfSize.X, o.HalfSize.X),
		Y: clampf(local.Y, -o.HalfSize.Y, o.HalfSize.Y),
		Z: clampf(local.Z, -o.HalfSize.Z, o.HalfSize.Z),
	})
}

// sphereContact returns the push-out normal (from box to sphere), the surface
// point on the box and the penetration depth. ok is false without overlap.
func (o OBB) sphereContact(center rl.Vector3, radius float32) (normal, surface rl.Vector3, depth float32, ok bool) {
	local := o.toLocal(center)
	inside := absf(local.X) <= o.HalfSize.X && absf(local.Y) <= o.HalfSize.Y && absf(local.Z) <= o.HalfSize.Z

	if !inside {
		surface = ClosestPointOnOBB(o, center)
		diff := rl.Vector3Subtract(center, surface)
		dist := rl.Vector3Length(diff)
		if dist >= radius || dist < 0.0001 {
			return rl.Vector3{}, rl.Vector3{}, 0, false
		}
		return rl.Vector3Scale(diff, 1/dist), surface, radius - dist, true
	}

	// Center is inside the box: leave through the face with the least penetration
	faces := [3]struct {
		gap  float32
		axis int
	}{
		{o.HalfSize.X - absf(local.X), 0},
		{o.HalfSize.Y - absf(local.Y), 1},
		{o.HalfSize.Z - absf(local.Z), 2},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.gap < best.gap {
			best = f
		}
	}

	sign := float32(1)
	var coord float32
	switch best.axis {
	case 0:
		coord = local.X
	case 1:
		coord = local.Y
	default:
		coord = local.Z
	}
	if coord < 0 {
		sign = -1
	}

	normal = rl.Vector3Scale(o.Axes[best.axis], sign)
	surface = rl.Vector3Add(center, rl.Vector3Scale(normal, best.gap))
	return normal, surface, best.gap + radius, true
}

// corners returns the 8 world-space corners of the OBB
func (o OBB) corners() [8]rl.Vector3 {
	var out [8]rl.Vector3
	i := 0
	for _, sx := range [2]float32{-1, 1} {
		for _, sy := range [2]float32{-1, 1} {
			for _, sz := range [2]float32{-1, 1} {
				out[i] = o.toWorld(rl.Vector3{X: sx * o.HalfSize.X, Y: sy * o.HalfSize.Y, Z: sz * o.HalfSize.Z})
				i++
			}
		}
	}
	return out
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
