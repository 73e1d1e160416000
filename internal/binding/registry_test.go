package binding

import (
	"errors"
	"testing"

	"sandbox3d/internal/physics"
	"sandbox3d/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type fakeSource map[physics.BodyHandle]physics.Pose

func (f fakeSource) ForEachActiveBody(visit func(physics.BodyHandle, physics.Pose)) {
	for h, p := range f {
		visit(h, p)
	}
}

func TestSyncWritesPose(t *testing.T) {
	r := NewRegistry()
	n := scene.NewNode("ball")
	r.Bind(1, n)

	rot := rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, 0.5)
	src := fakeSource{1: {Position: rl.Vector3{X: 1, Y: 2, Z: 3}, Rotation: rot}}

	if err := r.Sync(src); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if n.Position != (rl.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Expected position (1,2,3), got %v", n.Position)
	}
	if n.Rotation != rot {
		t.Errorf("Expected rotation %v, got %v", rot, n.Rotation)
	}
}

func TestSyncLeavesInactiveNodesAlone(t *testing.T) {
	r := NewRegistry()
	moving := scene.NewNode("moving")
	resting := scene.NewNode("resting")
	resting.Position = rl.Vector3{Y: 7}
	r.Bind(1, moving)
	r.Bind(2, resting)

	if err := r.Sync(fakeSource{1: physics.NewPose(rl.Vector3{X: 4})}); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if resting.Position.Y != 7 {
		t.Errorf("Inactive node moved to %v", resting.Position)
	}
}

func TestSyncReportsMissingBindings(t *testing.T) {
	r := NewRegistry()
	bound := scene.NewNode("bound")
	r.Bind(1, bound)

	src := fakeSource{
		1: physics.NewPose(rl.Vector3{Y: 1}),
		9: physics.NewPose(rl.Vector3{Y: 2}),
	}

	err := r.Sync(src)
	if !errors.Is(err, ErrMissingBinding) {
		t.Fatalf("Expected ErrMissingBinding, got %v", err)
	}

	var missing *MissingBindingError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected *MissingBindingError, got %T", err)
	}
	if len(missing.Bodies) != 1 || missing.Bodies[0] != 9 {
		t.Errorf("Expected body 9 reported, got %v", missing.Bodies)
	}

	// The bound body is still synced
	if bound.Position.Y != 1 {
		t.Errorf("Bound node not updated, got %v", bound.Position)
	}
}

func TestBindOverwritesAndUnbind(t *testing.T) {
	r := NewRegistry()
	a := scene.NewNode("a")
	b := scene.NewNode("b")

	r.Bind(3, a)
	r.Bind(3, b)

	if r.Len() != 1 {
		t.Errorf("Expected 1 binding, got %d", r.Len())
	}
	if n, _ := r.Lookup(3); n != b {
		t.Error("Rebinding did not overwrite")
	}

	r.Unbind(3)
	if _, ok := r.Lookup(3); ok {
		t.Error("Binding still present after Unbind")
	}
}

func TestSyncWithPhysicsWorld(t *testing.T) {
	w := physics.NewWorld(physics.DefaultConfig())
	r := NewRegistry()

	h := w.CreateBody(physics.Dynamic, physics.NewPose(rl.Vector3{Y: 3}))
	if _, err := w.CreateCollider(physics.Sphere{Radius: 0.5}, h); err != nil {
		t.Fatalf("CreateCollider failed: %v", err)
	}
	n := scene.NewNode("ball")
	r.Bind(h, n)

	w.Step()
	if err := r.Sync(w); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	pose, _ := w.Body(h)
	if n.Position != pose.Position {
		t.Errorf("Node %v does not match body %v", n.Position, pose.Position)
	}
}
