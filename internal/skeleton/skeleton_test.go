package skeleton

import (
	"math"
	"testing"

	"sandbox3d/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

// sameRotation treats q and -q as equal
func sameRotation(a, b rl.Quaternion) bool {
	dot := a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
	return approx(float32(math.Abs(float64(dot))), 1)
}

func template() *Skeleton {
	root := scene.NewNode("root")
	root.Position = rl.Vector3{Y: 1}
	root.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, 0.3)
	root.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}

	tip := scene.NewNode("tip")
	tip.Position = rl.Vector3{Y: 0.5}
	root.AddChild(tip)

	return &Skeleton{
		Joints:              []*scene.Node{root, tip},
		InverseBindMatrices: []rl.Matrix{rl.MatrixTranslate(0, -1, 0), rl.MatrixTranslate(0, -1.5, 0)},
	}
}

func TestDecomposeRoundTrip(t *testing.T) {
	n := scene.NewNode("n")
	n.Position = rl.Vector3{X: 1, Y: -2, Z: 3}
	n.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3Normalize(rl.Vector3{X: 1, Y: 1}), 1.1)
	n.Scale = rl.Vector3{X: 0.5, Y: 2, Z: 3}

	pos, rot, scale := Decompose(n.LocalMatrix())

	if !approx(pos.X, 1) || !approx(pos.Y, -2) || !approx(pos.Z, 3) {
		t.Errorf("Expected translation (1,-2,3), got %v", pos)
	}
	if !approx(scale.X, 0.5) || !approx(scale.Y, 2) || !approx(scale.Z, 3) {
		t.Errorf("Expected scale (0.5,2,3), got %v", scale)
	}
	if !sameRotation(rot, n.Rotation) {
		t.Errorf("Expected rotation %v, got %v", n.Rotation, rot)
	}
}

func TestCloneCopiesLocalTransform(t *testing.T) {
	tmpl := template()
	clone := tmpl.Clone(0.1)

	if len(clone.Joints) != 2 {
		t.Fatalf("Expected 2 joints, got %d", len(clone.Joints))
	}

	root := clone.Joints[0]
	if root == tmpl.Joints[0] {
		t.Fatal("Clone reused the template node")
	}
	if root.Name != "root" {
		t.Errorf("Expected name 'root', got %q", root.Name)
	}
	if !approx(root.Position.Y, 1) {
		t.Errorf("Expected y=1, got %v", root.Position)
	}
	if !sameRotation(root.Rotation, tmpl.Joints[0].Rotation) {
		t.Errorf("Rotation not preserved: %v", root.Rotation)
	}
	if root.Scale != (rl.Vector3{X: 0.1, Y: 0.1, Z: 0.1}) {
		t.Errorf("Expected uniform scale 0.1, got %v", root.Scale)
	}
}

func TestCloneIsFlatAndIndependent(t *testing.T) {
	tmpl := template()
	clone := tmpl.Clone(0.1)

	for i, j := range clone.Joints {
		if j.Parent != nil || len(j.Children) != 0 {
			t.Errorf("joint %d kept hierarchy", i)
		}
	}

	clone.Joints[1].Position = rl.Vector3{X: 9}
	if tmpl.Joints[1].Position.X == 9 {
		t.Error("Mutating the clone changed the template")
	}
}

func TestCloneSharesInverseBindMatrices(t *testing.T) {
	tmpl := template()
	clone := tmpl.Clone(0.1)

	if &clone.InverseBindMatrices[0] != &tmpl.InverseBindMatrices[0] {
		t.Error("Expected inverse bind matrices to be shared")
	}
}
