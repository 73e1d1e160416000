package scene

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestSceneAdd(t *testing.T) {
	s := NewScene("Test")
	n := NewNode("ball")

	s.Add(n)

	if s.NodeCount() != 1 {
		t.Errorf("Expected 1 node, got %d", s.NodeCount())
	}
	if n.Parent != s.Root {
		t.Error("Node parent not set to root")
	}
	if s.FindByName("ball") != n {
		t.Error("FindByName failed")
	}
}

func TestSceneRemove(t *testing.T) {
	s := NewScene("Test")
	a := NewNode("a")
	b := NewNode("b")
	s.Add(a)
	s.Add(b)

	s.Remove(a)

	if s.NodeCount() != 1 {
		t.Errorf("Expected 1 node after removal, got %d", s.NodeCount())
	}
	if a.Parent != nil {
		t.Error("Removed node still has a parent")
	}
	if s.FindByName("a") != nil {
		t.Error("Removed node still found")
	}
}

func TestAddChildReparents(t *testing.T) {
	p1 := NewNode("p1")
	p2 := NewNode("p2")
	c := NewNode("c")

	p1.AddChild(c)
	p2.AddChild(c)

	if p1.HasChild(c) {
		t.Error("Child still attached to old parent")
	}
	if !p2.HasChild(c) || c.Parent != p2 {
		t.Error("Child not attached to new parent")
	}
}

func TestWorldPositionComposesParents(t *testing.T) {
	parent := NewNode("parent")
	parent.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	parent.Scale = rl.Vector3{X: 2, Y: 2, Z: 2}

	child := NewNode("child")
	child.Position = rl.Vector3{X: 1}
	parent.AddChild(child)

	got := child.WorldPosition()
	want := rl.Vector3{X: 3, Y: 2, Z: 3}
	if !approx(got.X, want.X) || !approx(got.Y, want.Y) || !approx(got.Z, want.Z) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestLocalMatrixRotation(t *testing.T) {
	n := NewNode("n")
	n.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, math.Pi/2)
	n.Position = rl.Vector3{Y: 1}

	p := rl.Vector3Transform(rl.Vector3{X: 1}, n.LocalMatrix())
	// +X rotated a quarter turn about +Y lands on -Z
	if !approx(p.X, 0) || !approx(p.Y, 1) || !approx(p.Z, -1) {
		t.Errorf("Expected (0, 1, -1), got %v", p)
	}
}

func TestJointMatricesUseInverseBind(t *testing.T) {
	j := NewNode("joint")
	j.Position = rl.Vector3{Y: 2}

	v := &SkinnedVisual{
		Joints:              []*Node{j},
		InverseBindMatrices: []rl.Matrix{rl.MatrixTranslate(0, -2, 0)},
	}

	m := v.JointMatrices()
	if len(m) != 1 {
		t.Fatalf("Expected 1 matrix, got %d", len(m))
	}
	p := rl.Vector3Transform(rl.Vector3{}, m[0])
	if !approx(p.X, 0) || !approx(p.Y, 0) || !approx(p.Z, 0) {
		t.Errorf("Bind pose should map to identity, got %v", p)
	}
}

func TestEventInvokesListenersInOrder(t *testing.T) {
	var e Event
	var order []int
	e.AddListener(func() { order = append(order, 1) })
	e.AddListener(nil)
	e.AddListener(func() { order = append(order, 2) })

	e.Invoke()

	if e.ListenerCount() != 2 {
		t.Errorf("Expected 2 listeners, got %d", e.ListenerCount())
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Unexpected call order %v", order)
	}

	e.RemoveAllListeners()
	e.Invoke()
	if len(order) != 2 {
		t.Error("Listener called after RemoveAllListeners")
	}
}

func TestEventWithArg(t *testing.T) {
	var e EventWithArg[string]
	var got string
	e.AddListener(func(s string) { got = s })

	e.Invoke("paused")

	if got != "paused" {
		t.Errorf("Expected 'paused', got %q", got)
	}
}
