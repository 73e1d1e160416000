package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Shape is the geometry of a collider. The set is closed: Sphere, Cuboid
// and Capsule.
type Shape interface {
	volume() float32
	// inertiaFactor is the scalar moment of inertia per unit mass
	inertiaFactor() float32
	// boundingRadius bounds the shape around its local origin
	boundingRadius() float32
}

// Sphere is a ball centered on the body origin.
type Sphere struct {
	Radius float32
}

// Cuboid is a box described by half extents along the body axes.
type Cuboid struct {
	HalfExtents rl.Vector3
}

// Capsule is a Y-aligned capsule: a segment from -HalfHeight to +HalfHeight
// swept by Radius.
type Capsule struct {
	HalfHeight float32
	Radius     float32
}

func (s Sphere) volume() float32 {
	return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
}

func (s Sphere) inertiaFactor() float32 {
	return 0.4 * s.Radius * s.Radius
}

func (s Sphere) boundingRadius() float32 {
	return s.Radius
}

func (c Cuboid) volume() float32 {
	return 8 * c.HalfExtents.X * c.HalfExtents.Y * c.HalfExtents.Z
}

func (c Cuboid) inertiaFactor() float32 {
	// Average of the three principal moments
	h := c.HalfExtents
	return (2.0 / 9.0) * (h.X*h.X + h.Y*h.Y + h.Z*h.Z)
}

func (c Cuboid) boundingRadius() float32 {
	return rl.Vector3Length(c.HalfExtents)
}

func (c Capsule) volume() float32 {
	r := c.Radius
	return math.Pi*r*r*(2*c.HalfHeight) + 4.0/3.0*math.Pi*r*r*r
}

func (c Capsule) inertiaFactor() float32 {
	l := 2*c.HalfHeight + 2*c.Radius
	return (3*c.Radius*c.Radius + l*l) / 12
}

func (c Capsule) boundingRadius() float32 {
	return c.HalfHeight + c.Radius
}

// segment returns the world-space core segment of a capsule
func (c Capsule) segment(pose Pose) (a, b rl.Vector3) {
	up := rl.Vector3RotateByQuaternion(rl.Vector3{Y: c.HalfHeight}, pose.Rotation)
	return rl.Vector3Subtract(pose.Position, up), rl.Vector3Add(pose.Position, up)
}
