package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DebugLines is a line-list snapshot of the world: every two vertices form
// a segment. Positions holds 3 floats per vertex, Colors 4 (RGBA in 0..1).
type DebugLines struct {
	Positions []float32
	Colors    []float32
}

// VertexCount returns the number of vertices in the snapshot.
func (d DebugLines) VertexCount() int {
	return len(d.Positions) / 3
}

// Wireframe colors
var (
	debugStaticColor   = [4]float32{0.5, 0.5, 0.5, 1}
	debugAwakeColor    = [4]float32{0.2, 1.0, 0.3, 1}
	debugSleepingColor = [4]float32{0.2, 0.4, 1.0, 1}
	debugJointColor    = [4]float32{1.0, 0.8, 0.1, 1}
)

const debugCircleSegments = 16

type lineWriter struct {
	lines DebugLines
	color [4]float32
}

func (lw *lineWriter) vertex(p rl.Vector3) {
	lw.lines.Positions = append(lw.lines.Positions, p.X, p.Y, p.Z)
	lw.lines.Colors = append(lw.lines.Colors, lw.color[:]...)
}

func (lw *lineWriter) line(a, b rl.Vector3) {
	lw.vertex(a)
	lw.vertex(b)
}

// circle draws a ring of radius r around center in the plane spanned by u and v
func (lw *lineWriter) circle(center, u, v rl.Vector3, r float32) {
	lw.arc(center, u, v, r, 0, 2*math.Pi)
}

func (lw *lineWriter) arc(center, u, v rl.Vector3, r, from, to float32) {
	step := (to - from) / debugCircleSegments
	point := func(a float32) rl.Vector3 {
		s, c := math.Sincos(float64(a))
		return rl.Vector3Add(center, rl.Vector3Add(
			rl.Vector3Scale(u, r*float32(c)),
			rl.Vector3Scale(v, r*float32(s)),
		))
	}
	prev := point(from)
	for i := 1; i <= debugCircleSegments; i++ {
		next := point(from + step*float32(i))
		lw.line(prev, next)
		prev = next
	}
}

// DebugRender snapshots the wireframe of every collider and joint.
func (w *World) DebugRender() DebugLines {
	lw := &lineWriter{}

	lw.color = debugStaticColor
	for _, c := range w.statics {
		lw.collider(c)
	}

	for _, b := range w.bodies {
		switch {
		case !b.isDynamic():
			lw.color = debugStaticColor
		case b.sleeping:
			lw.color = debugSleepingColor
		default:
			lw.color = debugAwakeColor
		}
		for _, c := range b.colliders {
			lw.collider(c)
		}
	}

	lw.color = debugJointColor
	for _, j := range w.joints {
		pa, pb, _, _ := j.anchors()
		lw.line(j.a.pos, pa)
		lw.line(pb, j.b.pos)
	}

	return lw.lines
}

func (lw *lineWriter) collider(c *collider) {
	pose := c.worldPose()
	x := rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, pose.Rotation)
	y := rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, pose.Rotation)
	z := rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, pose.Rotation)

	switch s := c.shape.(type) {
	case Cuboid:
		corners := NewOBB(pose.Position, s.HalfExtents, pose.Rotation).corners()
		// corners are ordered by (x, y, z) sign bits; edges differ in one bit
		for i := 0; i < 8; i++ {
			for _, bit := range [3]int{1, 2, 4} {
				if i&bit == 0 {
					lw.line(corners[i], corners[i|bit])
				}
			}
		}
	case Sphere:
		lw.circle(pose.Position, x, y, s.Radius)
		lw.circle(pose.Position, y, z, s.Radius)
		lw.circle(pose.Position, z, x, s.Radius)
	case Capsule:
		bottom, top := s.segment(pose)
		lw.circle(top, z, x, s.Radius)
		lw.circle(bottom, z, x, s.Radius)
		for _, side := range [4]rl.Vector3{x, rl.Vector3Negate(x), z, rl.Vector3Negate(z)} {
			off := rl.Vector3Scale(side, s.Radius)
			lw.line(rl.Vector3Add(bottom, off), rl.Vector3Add(top, off))
		}
		lw.arc(top, x, y, s.Radius, 0, math.Pi)
		lw.arc(top, z, y, s.Radius, 0, math.Pi)
		lw.arc(bottom, x, y, s.Radius, math.Pi, 2*math.Pi)
		lw.arc(bottom, z, y, s.Radius, math.Pi, 2*math.Pi)
	}
}
