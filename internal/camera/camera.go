package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Input is one frame of orbit controls.
type Input struct {
	Rotate rl.Vector2 // drag delta in pixels
	Zoom   float32    // wheel steps, positive zooms in
}

// InputSource supplies orbit input each frame.
type InputSource interface {
	OrbitInput() Input
}

// Orbit is a camera circling Target at Distance. Yaw and Pitch are in
// degrees; yaw 0 looks down -Z.
type Orbit struct {
	Target   rl.Vector3
	Distance float32
	Yaw      float32
	Pitch    float32

	Fovy        float32 // degrees
	Near, Far   float32
	RotateSpeed float32 // degrees per pixel
	ZoomSpeed   float32 // fraction of distance per wheel step
	MinDistance float32
	MaxDistance float32

	Source InputSource
}

// New creates an orbit camera at position looking at target.
func New(position, target rl.Vector3) *Orbit {
	o := &Orbit{
		Target:      target,
		Fovy:        45,
		Near:        0.1,
		Far:         10000,
		RotateSpeed: 0.3,
		ZoomSpeed:   0.1,
		MinDistance: 0.5,
		MaxDistance: 200,
	}
	o.SetPosition(position)
	return o
}

// Default places the camera the way the sandbox opens: above and behind
// the ground, looking at a point two units up.
func Default() *Orbit {
	pos := rl.Vector3Add(
		rl.Vector3Scale(rl.Vector3Normalize(rl.Vector3{X: 0, Y: 0.5, Z: -1}), 2.5),
		rl.Vector3{X: 5, Y: 5, Z: -5},
	)
	return New(pos, rl.Vector3{X: 0, Y: 2, Z: 2})
}

// SetPosition moves the eye to position, keeping the target.
func (o *Orbit) SetPosition(position rl.Vector3) {
	offset := rl.Vector3Subtract(position, o.Target)
	o.Distance = rl.Vector3Length(offset)
	if o.Distance == 0 {
		o.Distance = 1
		offset = rl.Vector3{Z: 1}
	}
	// offset points from target back to the eye
	o.Yaw = float32(math.Atan2(float64(-offset.X), float64(offset.Z)) * 180 / math.Pi)
	o.Pitch = float32(math.Asin(float64(-offset.Y/o.Distance)) * 180 / math.Pi)
}

// Update applies one frame of input from Source.
func (o *Orbit) Update() {
	if o.Source == nil {
		return
	}
	in := o.Source.OrbitInput()

	o.Yaw -= in.Rotate.X * o.RotateSpeed
	o.Pitch -= in.Rotate.Y * o.RotateSpeed

	// Clamp pitch
	if o.Pitch > 89 {
		o.Pitch = 89
	}
	if o.Pitch < -89 {
		o.Pitch = -89
	}

	if in.Zoom != 0 {
		o.Distance *= 1 - in.Zoom*o.ZoomSpeed
		if o.Distance < o.MinDistance {
			o.Distance = o.MinDistance
		}
		if o.Distance > o.MaxDistance {
			o.Distance = o.MaxDistance
		}
	}
}

// Forward is the unit view direction.
func (o *Orbit) Forward() rl.Vector3 {
	yawRad := float64(o.Yaw) * math.Pi / 180
	pitchRad := float64(o.Pitch) * math.Pi / 180
	return rl.Vector3{
		X: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(-math.Cos(yawRad) * math.Cos(pitchRad)),
	}
}

func (o *Orbit) Position() rl.Vector3 {
	return rl.Vector3Subtract(o.Target, rl.Vector3Scale(o.Forward(), o.Distance))
}

func (o *Orbit) ViewMatrix() rl.Matrix {
	return rl.MatrixLookAt(o.Position(), o.Target, rl.Vector3{Y: 1})
}

func (o *Orbit) ProjectionMatrix(aspect float32) rl.Matrix {
	return rl.MatrixPerspective(o.Fovy*rl.Deg2rad, aspect, o.Near, o.Far)
}

func (o *Orbit) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   o.Position(),
		Target:     o.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       o.Fovy,
		Projection: rl.CameraPerspective,
	}
}
