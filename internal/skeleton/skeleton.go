// Package skeleton holds joint hierarchies used by skinned visuals.
package skeleton

import (
	"sandbox3d/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Skeleton is an ordered set of joint nodes and their inverse bind
// matrices. Joint i is skinned by InverseBindMatrices[i].
type Skeleton struct {
	Joints              []*scene.Node
	InverseBindMatrices []rl.Matrix
}

// Clone builds an independent skeleton for a physics-driven copy of the
// template. Each joint becomes a fresh, parentless node carrying the
// decomposed local transform of the template joint with its scale replaced by
// a uniform scale. Joints are returned flat in template order; the
// hierarchy is dropped because physics writes world poses directly.
//
// InverseBindMatrices is shared with the template, not copied. Callers
// must treat it as read-only.
func (s *Skeleton) Clone(scale float32) *Skeleton {
	joints := make([]*scene.Node, len(s.Joints))
	for i, src := range s.Joints {
		pos, rot, _ := Decompose(src.LocalMatrix())

		n := scene.NewNode(src.Name)
		n.Position = pos
		n.Rotation = rot
		n.Scale = rl.Vector3{X: scale, Y: scale, Z: scale}
		joints[i] = n
	}

	return &Skeleton{
		Joints:              joints,
		InverseBindMatrices: s.InverseBindMatrices,
	}
}

// Decompose splits an affine matrix without shear into translation,
// rotation and scale.
func Decompose(m rl.Matrix) (translation rl.Vector3, rotation rl.Quaternion, scale rl.Vector3) {
	translation = rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}

	x := rl.Vector3{X: m.M0, Y: m.M1, Z: m.M2}
	y := rl.Vector3{X: m.M4, Y: m.M5, Z: m.M6}
	z := rl.Vector3{X: m.M8, Y: m.M9, Z: m.M10}
	scale = rl.Vector3{X: rl.Vector3Length(x), Y: rl.Vector3Length(y), Z: rl.Vector3Length(z)}

	if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
		return translation, rl.QuaternionIdentity(), scale
	}

	// Mirrored bases keep a positive rotation by flipping one axis
	if rl.Vector3DotProduct(rl.Vector3CrossProduct(x, y), z) < 0 {
		scale.X = -scale.X
	}

	x = rl.Vector3Scale(x, 1/scale.X)
	y = rl.Vector3Scale(y, 1/scale.Y)
	z = rl.Vector3Scale(z, 1/scale.Z)

	rotMat := rl.MatrixIdentity()
	rotMat.M0, rotMat.M1, rotMat.M2 = x.X, x.Y, x.Z
	rotMat.M4, rotMat.M5, rotMat.M6 = y.X, y.Y, y.Z
	rotMat.M8, rotMat.M9, rotMat.M10 = z.X, z.Y, z.Z

	rotation = rl.QuaternionNormalize(rl.QuaternionFromMatrix(rotMat))
	return translation, rotation, scale
}
