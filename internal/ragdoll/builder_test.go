package ragdoll

import (
	"errors"
	"math"
	"testing"

	"sandbox3d/internal/assets"
	"sandbox3d/internal/binding"
	"sandbox3d/internal/physics"
	"sandbox3d/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// recordingPhysics captures everything the builder creates
type recordingPhysics struct {
	poses  []physics.Pose
	shapes []physics.Shape
	joints []physics.JointSpec
}

func (r *recordingPhysics) CreateBody(kind physics.BodyKind, pose physics.Pose) physics.BodyHandle {
	r.poses = append(r.poses, pose)
	return physics.BodyHandle(len(r.poses))
}

func (r *recordingPhysics) CreateCollider(shape physics.Shape, h physics.BodyHandle) (physics.ColliderHandle, error) {
	r.shapes = append(r.shapes, shape)
	return physics.ColliderHandle(len(r.shapes)), nil
}

func (r *recordingPhysics) CreateJoint(spec physics.JointSpec) (physics.JointHandle, error) {
	r.joints = append(r.joints, spec)
	return physics.JointHandle(len(r.joints)), nil
}

const fourJoints = `
name: sausage
color: Orange
joints:
  - name: j0
  - name: j1
    parent: j0
    translation: [0, -3, 0]
  - name: j2
    parent: j1
    translation: [0, -3, 0]
  - name: j3
    parent: j2
    translation: [0, -3, 0]
`

func loadTemplate(t *testing.T) *assets.Template {
	t.Helper()
	tmpl, err := assets.ParseTemplate([]byte(fourJoints))
	if err != nil {
		t.Fatalf("ParseTemplate failed: %v", err)
	}
	return tmpl
}

func TestBuildLaysOutChain(t *testing.T) {
	rec := &recordingPhysics{}
	reg := binding.NewRegistry()
	b := NewBuilder(rec, reg, scene.NewScene("test"), Config{SegmentLength: 0.3, Radius: 0.05, JointScale: 0.1})
	if err := b.SetTemplate(loadTemplate(t)); err != nil {
		t.Fatalf("SetTemplate failed: %v", err)
	}

	chain, err := b.Build(rl.Vector3{Y: 2})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	wantY := []float32{2.0, 1.7, 1.4, 1.1}
	if len(rec.poses) != len(wantY) {
		t.Fatalf("Expected %d bodies, got %d", len(wantY), len(rec.poses))
	}
	for i, y := range wantY {
		if math.Abs(float64(rec.poses[i].Position.Y-y)) > 1e-5 {
			t.Errorf("body %d: expected y=%.1f, got %f", i, y, rec.poses[i].Position.Y)
		}
	}

	if len(rec.joints) != 3 {
		t.Fatalf("Expected 3 joints, got %d", len(rec.joints))
	}
	for i, j := range rec.joints {
		if j.BodyA != chain.Bodies[i] || j.BodyB != chain.Bodies[i+1] {
			t.Errorf("joint %d links %d-%d, expected %d-%d", i, j.BodyA, j.BodyB, chain.Bodies[i], chain.Bodies[i+1])
		}
		if j.CollideConnected {
			t.Errorf("joint %d should disable contacts", i)
		}
		if j.AnchorA != (rl.Vector3{Y: -0.15}) || j.AnchorB != (rl.Vector3{Y: 0.15}) {
			t.Errorf("joint %d: unexpected anchors %v / %v", i, j.AnchorA, j.AnchorB)
		}
	}

	for i, h := range chain.Bodies {
		n, ok := reg.Lookup(h)
		if !ok {
			t.Fatalf("body %d not bound", i)
		}
		if n != chain.Skeleton.Joints[i] {
			t.Errorf("body %d bound to the wrong joint", i)
		}
	}
}

func TestBuildBeforeTemplateIsRefused(t *testing.T) {
	rec := &recordingPhysics{}
	b := NewBuilder(rec, binding.NewRegistry(), scene.NewScene("test"), DefaultConfig())

	if b.Ready() {
		t.Fatal("Builder should not be ready without a template")
	}
	if _, err := b.Build(rl.Vector3{}); !errors.Is(err, ErrTemplateNotLoaded) {
		t.Errorf("Expected ErrTemplateNotLoaded, got %v", err)
	}
	if len(rec.poses) != 0 {
		t.Error("Refused build created bodies")
	}
}

func TestSetTemplateRejectsStatic(t *testing.T) {
	b := NewBuilder(&recordingPhysics{}, binding.NewRegistry(), scene.NewScene("test"), DefaultConfig())
	static, err := assets.ParseTemplate([]byte("name: ball\nmesh: sphere\n"))
	if err != nil {
		t.Fatalf("ParseTemplate failed: %v", err)
	}
	if err := b.SetTemplate(static); !errors.Is(err, ErrNotSkinned) {
		t.Errorf("Expected ErrNotSkinned, got %v", err)
	}
}

func TestBindChainToSkeletonCountMismatch(t *testing.T) {
	b := NewBuilder(&recordingPhysics{}, binding.NewRegistry(), scene.NewScene("test"), DefaultConfig())
	err := b.BindChainToSkeleton([]physics.BodyHandle{1, 2}, []*scene.Node{scene.NewNode("j")})
	if !errors.Is(err, ErrCountMismatch) {
		t.Errorf("Expected ErrCountMismatch, got %v", err)
	}
}

func TestLinkChainSingleBody(t *testing.T) {
	rec := &recordingPhysics{}
	b := NewBuilder(rec, binding.NewRegistry(), scene.NewScene("test"), DefaultConfig())
	joints, err := b.LinkChain([]physics.BodyHandle{1}, 0.3)
	if err != nil || len(joints) != 0 || len(rec.joints) != 0 {
		t.Errorf("Expected no joints for a single body, got %v (%v)", joints, err)
	}
}

func TestChainStaysConnectedInWorld(t *testing.T) {
	w := physics.NewWorld(physics.DefaultConfig())
	reg := binding.NewRegistry()
	sc := scene.NewScene("test")
	b := NewBuilder(w, reg, sc, DefaultConfig())
	if err := b.SetTemplate(loadTemplate(t)); err != nil {
		t.Fatalf("SetTemplate failed: %v", err)
	}

	chain, err := b.Build(rl.Vector3{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := 0; i < 120; i++ {
		w.Step()
		if err := reg.Sync(w); err != nil {
			t.Fatalf("tick %d: Sync failed: %v", i, err)
		}
	}

	half := DefaultConfig().SegmentLength / 2
	for i := 0; i < len(chain.Bodies)-1; i++ {
		a, _ := w.Body(chain.Bodies[i])
		c, _ := w.Body(chain.Bodies[i+1])
		pa := a.TransformPoint(rl.Vector3{Y: -half})
		pc := c.TransformPoint(rl.Vector3{Y: half})
		if d := rl.Vector3Distance(pa, pc); d > 0.02 {
			t.Errorf("link %d drifted apart by %f", i, d)
		}
	}

	// Joint nodes follow their bodies
	for i, h := range chain.Bodies {
		pose, _ := w.Body(h)
		if chain.Skeleton.Joints[i].Position != pose.Position {
			t.Errorf("joint %d not synced", i)
		}
	}

	// Four joint nodes plus the visual node
	if sc.NodeCount() != 5 {
		t.Errorf("Expected 5 scene nodes, got %d", sc.NodeCount())
	}
}
