package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Visual is what a node draws. The set is closed: *StaticVisual and
// *SkinnedVisual for assets (chosen once when an asset is loaded) and
// *LineVisual for diagnostics.
type Visual interface {
	visual()
}

type MeshKind int

const (
	MeshSphere MeshKind = iota
	MeshCuboid
	MeshCapsule
)

func (k MeshKind) String() string {
	switch k {
	case MeshSphere:
		return "sphere"
	case MeshCuboid:
		return "cuboid"
	case MeshCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

// StaticVisual is rigid geometry drawn at the node's world transform. One
// value may be shared by many nodes.
type StaticVisual struct {
	Mesh MeshKind
	// Size holds the radius in X for spheres, half extents for cuboids and
	// (radius, half height) in (X, Y) for capsules
	Size  rl.Vector3
	Color rl.Color
}

// SkinnedVisual is geometry deformed by a set of joint nodes.
type SkinnedVisual struct {
	Joints []*Node
	// InverseBindMatrices may be shared between clones of one template
	InverseBindMatrices []rl.Matrix
	Radius              float32
	Color               rl.Color
}

func (*StaticVisual) visual()  {}
func (*SkinnedVisual) visual() {}

// JointMatrices returns world * inverseBind for every joint.
func (v *SkinnedVisual) JointMatrices() []rl.Matrix {
	out := make([]rl.Matrix, len(v.Joints))
	for i, j := range v.Joints {
		ibm := rl.MatrixIdentity()
		if i < len(v.InverseBindMatrices) {
			ibm = v.InverseBindMatrices[i]
		}
		out[i] = rl.MatrixMultiply(ibm, j.WorldMatrix())
	}
	return out
}

// LineDrawer draws a line list held in render storage.
type LineDrawer interface {
	DrawLines()
}

// LineVisual draws a variable-length line list, used for diagnostics.
type LineVisual struct {
	Lines LineDrawer
}

func (*LineVisual) visual() {}
