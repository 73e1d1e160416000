package spawn

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Camera is what ray construction needs from the view.
type Camera interface {
	Position() rl.Vector3
	ViewMatrix() rl.Matrix
	ProjectionMatrix(aspect float32) rl.Matrix
}

// ComputeRay turns a screen point in pixels into a world ray starting at
// the camera. viewport is the screen size in pixels.
func ComputeRay(screen, viewport rl.Vector2, cam Camera) rl.Ray {
	ndcX := 2*screen.X/viewport.X - 1
	ndcY := 2*(1-screen.Y/viewport.Y) - 1

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(viewport.X / viewport.Y)
	world := unproject(rl.Vector3{X: ndcX, Y: ndcY, Z: 0.5}, view, proj)

	origin := cam.Position()
	return rl.Ray{
		Position:  origin,
		Direction: rl.Vector3Normalize(rl.Vector3Subtract(world, origin)),
	}
}

// unproject maps a normalized device coordinate back to world space
func unproject(ndc rl.Vector3, view, proj rl.Matrix) rl.Vector3 {
	inv := rl.MatrixInvert(rl.MatrixMultiply(view, proj))

	x := inv.M0*ndc.X + inv.M4*ndc.Y + inv.M8*ndc.Z + inv.M12
	y := inv.M1*ndc.X + inv.M5*ndc.Y + inv.M9*ndc.Z + inv.M13
	z := inv.M2*ndc.X + inv.M6*ndc.Y + inv.M10*ndc.Z + inv.M14
	w := inv.M3*ndc.X + inv.M7*ndc.Y + inv.M11*ndc.Z + inv.M15
	if w == 0 {
		return rl.Vector3{X: x, Y: y, Z: z}
	}
	return rl.Vector3{X: x / w, Y: y / w, Z: z / w}
}
