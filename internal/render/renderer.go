// Package render draws a scene.Context with raylib.
package render

import (
	"math"

	"sandbox3d/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	meshSlices = 16
	meshRings  = 8

	cullNear float32 = 0.1
	cullFar  float32 = 1000.0
)

// Command is one visual queued for drawing with its world transform.
type Command struct {
	Node   *scene.Node
	Visual scene.Visual
	World  rl.Matrix
}

// Renderer draws every visible node of a scene. Static visuals outside the
// camera frustum are skipped.
type Renderer struct {
	Background rl.Color
	DrawGrid   bool
	// Overlay runs after the 3D pass, inside the same frame, for 2D UI
	Overlay func()
	// Aspect returns the viewport aspect ratio; defaults to the window's
	Aspect func() float32

	culled int
}

func NewRenderer() *Renderer {
	return &Renderer{
		Background: rl.NewColor(20, 20, 30, 255),
		DrawGrid:   true,
	}
}

// Culled reports how many visuals the last frame skipped.
func (r *Renderer) Culled() int {
	return r.culled
}

func (r *Renderer) aspect() float32 {
	if r.Aspect != nil {
		return r.Aspect()
	}
	h := rl.GetScreenHeight()
	if h == 0 {
		return 1
	}
	return float32(rl.GetScreenWidth()) / float32(h)
}

// Render draws one frame.
func (r *Renderer) Render(ctx scene.Context) {
	cmds := r.Collect(ctx, r.aspect())

	rl.BeginDrawing()
	rl.ClearBackground(r.Background)

	rl.BeginMode3D(ctx.Camera)
	if r.DrawGrid {
		rl.DrawGrid(20, 1.0)
	}
	for _, c := range cmds {
		draw(c, ctx.Sun)
	}
	drawSun(ctx.Sun)
	rl.EndMode3D()

	if r.Overlay != nil {
		r.Overlay()
	}
	rl.EndDrawing()
}

// Collect walks the scene and returns the visuals to draw this frame.
// Hidden nodes hide their whole subtree.
func (r *Renderer) Collect(ctx scene.Context, aspect float32) []Command {
	r.culled = 0
	if ctx.Scene == nil {
		return nil
	}
	frustum := CameraFrustum(ctx.Camera, aspect, cullNear, cullFar)

	var cmds []Command
	var visit func(n *scene.Node, parent rl.Matrix)
	visit = func(n *scene.Node, parent rl.Matrix) {
		if !n.Visible {
			return
		}
		world := rl.MatrixMultiply(n.LocalMatrix(), parent)
		if n.Visual != nil {
			if center, radius, ok := bounds(n.Visual, world); ok && !frustum.ContainsSphere(center, radius) {
				r.culled++
			} else {
				cmds = append(cmds, Command{Node: n, Visual: n.Visual, World: world})
			}
		}
		for _, c := range n.Children {
			visit(c, world)
		}
	}
	visit(ctx.Scene.Root, rl.MatrixIdentity())
	return cmds
}

// bounds returns a bounding sphere for cullable visuals. Skinned and line
// visuals follow other nodes and are always drawn.
func bounds(v scene.Visual, world rl.Matrix) (rl.Vector3, float32, bool) {
	s, ok := v.(*scene.StaticVisual)
	if !ok {
		return rl.Vector3{}, 0, false
	}
	center := rl.Vector3{X: world.M12, Y: world.M13, Z: world.M14}

	var local float32
	switch s.Mesh {
	case scene.MeshSphere:
		local = s.Size.X
	case scene.MeshCuboid:
		local = rl.Vector3Length(s.Size)
	case scene.MeshCapsule:
		local = s.Size.X + s.Size.Y
	}
	return center, local * maxScale(world), true
}

// maxScale is the largest axis scale of a transform
func maxScale(m rl.Matrix) float32 {
	sx := rl.Vector3Length(rl.Vector3{X: m.M0, Y: m.M1, Z: m.M2})
	sy := rl.Vector3Length(rl.Vector3{X: m.M4, Y: m.M5, Z: m.M6})
	sz := rl.Vector3Length(rl.Vector3{X: m.M8, Y: m.M9, Z: m.M10})
	return float32(math.Max(float64(sx), math.Max(float64(sy), float64(sz))))
}

func draw(c Command, sun scene.DirectionalLight) {
	switch v := c.Visual.(type) {
	case *scene.StaticVisual:
		rl.PushMatrix()
		rl.MultMatrixf(matrixFloats(c.World))
		color := shade(v.Color, rl.Vector3{Y: 1}, sun)
		switch v.Mesh {
		case scene.MeshSphere:
			rl.DrawSphereEx(rl.Vector3{}, v.Size.X, meshRings, meshSlices, color)
		case scene.MeshCuboid:
			rl.DrawCubeV(rl.Vector3{}, rl.Vector3Scale(v.Size, 2), color)
		case scene.MeshCapsule:
			rl.DrawCapsule(rl.Vector3{Y: -v.Size.Y}, rl.Vector3{Y: v.Size.Y}, v.Size.X, meshSlices, meshRings, color)
		}
		rl.PopMatrix()
	case *scene.SkinnedVisual:
		drawSkinned(v, sun)
	case *scene.LineVisual:
		if v.Lines != nil {
			v.Lines.DrawLines()
		}
	}
}

// drawSkinned draws the chain as capsules between consecutive joints
func drawSkinned(v *scene.SkinnedVisual, sun scene.DirectionalLight) {
	points := SkinPoints(v)
	for i := 0; i+1 < len(points); i++ {
		up := rl.Vector3Normalize(rl.Vector3Subtract(points[i+1], points[i]))
		rl.DrawCapsule(points[i], points[i+1], v.Radius, meshSlices, meshRings, shade(v.Color, up, sun))
	}
	if len(points) == 1 {
		rl.DrawSphereEx(points[0], v.Radius, meshRings, meshSlices, v.Color)
	}
}

// SkinPoints returns the world positions of visible skin joints.
func SkinPoints(v *scene.SkinnedVisual) []rl.Vector3 {
	points := make([]rl.Vector3, 0, len(v.Joints))
	for _, j := range v.Joints {
		if j == nil || !j.Visible {
			continue
		}
		points = append(points, j.WorldPosition())
	}
	return points
}

// shade scales a color by a half-Lambert term for a surface facing normal
func shade(c rl.Color, normal rl.Vector3, sun scene.DirectionalLight) rl.Color {
	if rl.Vector3Length(sun.Direction) == 0 {
		return c
	}
	d := rl.Vector3DotProduct(normal, rl.Vector3Negate(sun.Direction))
	lambert := 0.5 + 0.5*float32(math.Abs(float64(d)))
	ambient := float32(sun.AmbientColor.R) / 255
	k := ambient + (1-ambient)*lambert*sun.Intensity
	if k > 1 {
		k = 1
	}
	return rl.NewColor(uint8(float32(c.R)*k), uint8(float32(c.G)*k), uint8(float32(c.B)*k), c.A)
}

// drawSun marks the light direction
func drawSun(sun scene.DirectionalLight) {
	if rl.Vector3Length(sun.Direction) == 0 {
		return
	}
	pos := rl.Vector3Scale(sun.Direction, -15)
	rl.DrawSphere(pos, 0.5, rl.Yellow)
	rl.DrawLine3D(pos, rl.Vector3Zero(), rl.Yellow)
}

// matrixFloats flattens m column by column, the order rlgl expects
func matrixFloats(m rl.Matrix) []float32 {
	return []float32{
		m.M0, m.M1, m.M2, m.M3,
		m.M4, m.M5, m.M6, m.M7,
		m.M8, m.M9, m.M10, m.M11,
		m.M12, m.M13, m.M14, m.M15,
	}
}
