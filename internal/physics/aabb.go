package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and half extents.
func NewAABBFromCenter(center, half rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// bounds returns a conservative world AABB of the collider
func (c *collider) bounds() AABB {
	r := c.shape.boundingRadius()
	return NewAABBFromCenter(c.worldPose().Position, rl.Vector3{X: r, Y: r, Z: r})
}

// Spatial grid cell size - objects within same or neighboring cells are checked
const CellSize = 2.0

// Cell key for spatial hashing
type CellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3, size float32) CellKey {
	return CellKey{
		X: int(math.Floor(float64(pos.X / size))),
		Y: int(math.Floor(float64(pos.Y / size))),
		Z: int(math.Floor(float64(pos.Z / size))),
	}
}

// rebuildGrid clears and repopulates the spatial hash grid with every
// dynamic collider, awake or asleep. The cell grows to fit the largest
// collider so neighbours are never more than one cell away.
func (w *World) rebuildGrid() {
	for k := range w.grid {
		delete(w.grid, k)
	}

	w.cellSize = CellSize
	for _, b := range w.bodies {
		if !b.isDynamic() {
			continue
		}
		for _, c := range b.colliders {
			if d := 2 * c.shape.boundingRadius(); d > w.cellSize {
				w.cellSize = d
			}
		}
	}

	for _, b := range w.bodies {
		if !b.isDynamic() {
			continue
		}
		for _, c := range b.colliders {
			cell := posToCell(b.pos, w.cellSize)
			w.grid[cell] = append(w.grid[cell], c)
		}
	}
}

// neighbors returns all colliders in the same cell and 26 neighboring cells
func (w *World) neighbors(pos rl.Vector3) []*collider {
	cell := posToCell(pos, w.cellSize)
	var out []*collider

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				key := CellKey{cell.X + dx, cell.Y + dy, cell.Z + dz}
				out = append(out, w.grid[key]...)
			}
		}
	}
	return out
}
