// Package ragdoll assembles articulated chains of capsule bodies driven by
// a cloned skinned template.
package ragdoll

import (
	"errors"
	"fmt"
	"log"

	"sandbox3d/internal/assets"
	"sandbox3d/internal/physics"
	"sandbox3d/internal/scene"
	"sandbox3d/internal/skeleton"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	// ErrTemplateNotLoaded is returned by Build before SetTemplate.
	ErrTemplateNotLoaded = errors.New("ragdoll: template not loaded")

	// ErrNotSkinned is returned when a template without a skeleton is set.
	ErrNotSkinned = errors.New("ragdoll: template has no skeleton")

	// ErrCountMismatch is returned when bodies and joints differ in number.
	ErrCountMismatch = errors.New("ragdoll: body and joint counts differ")
)

// Physics is the part of the physics world a chain needs.
type Physics interface {
	CreateBody(kind physics.BodyKind, pose physics.Pose) physics.BodyHandle
	CreateCollider(shape physics.Shape, body physics.BodyHandle) (physics.ColliderHandle, error)
	CreateJoint(spec physics.JointSpec) (physics.JointHandle, error)
}

// Binder records which node follows which body.
type Binder interface {
	Bind(h physics.BodyHandle, node *scene.Node)
}

type Config struct {
	SegmentLength float32
	Radius        float32
	// JointScale is the uniform scale given to every cloned joint
	JointScale float32
}

func DefaultConfig() Config {
	return Config{
		SegmentLength: 0.3,
		Radius:        0.08,
		JointScale:    0.1,
	}
}

// Chain is one spawned articulated structure.
type Chain struct {
	Bodies   []physics.BodyHandle
	Joints   []physics.JointHandle
	Skeleton *skeleton.Skeleton
	Node     *scene.Node // carries the skinned visual
}

// Builder spawns chains. It is inert until a skinned template is set.
type Builder struct {
	world    Physics
	registry Binder
	scene    *scene.Scene
	cfg      Config
	template *assets.Template
}

func NewBuilder(world Physics, registry Binder, sc *scene.Scene, cfg Config) *Builder {
	return &Builder{world: world, registry: registry, scene: sc, cfg: cfg}
}

// SetTemplate installs the skinned template used by Build.
func (b *Builder) SetTemplate(t *assets.Template) error {
	if t == nil || !t.Skinned() {
		return ErrNotSkinned
	}
	b.template = t
	return nil
}

func (b *Builder) Ready() bool {
	return b.template != nil
}

func (b *Builder) SetConfig(cfg Config) {
	b.cfg = cfg
}

// Build spawns a chain hanging down from origin, one body per template
// joint. All bodies, joints, nodes and bindings are created before it
// returns.
func (b *Builder) Build(origin rl.Vector3) (*Chain, error) {
	if b.template == nil {
		return nil, ErrTemplateNotLoaded
	}

	skel := b.template.Skeleton.Clone(b.cfg.JointScale)
	count := len(skel.Joints)

	bodies, err := b.CreateBodyChain(origin, count, b.cfg.SegmentLength, b.cfg.Radius)
	if err != nil {
		return nil, err
	}
	if err := b.BindChainToSkeleton(bodies, skel.Joints); err != nil {
		return nil, err
	}
	joints, err := b.LinkChain(bodies, b.cfg.SegmentLength)
	if err != nil {
		return nil, err
	}

	for _, j := range skel.Joints {
		b.scene.Add(j)
	}

	tv := b.template.Visual.(*scene.SkinnedVisual)
	node := scene.NewNode(b.template.Name)
	node.Visual = &scene.SkinnedVisual{
		Joints:              skel.Joints,
		InverseBindMatrices: skel.InverseBindMatrices,
		Radius:              tv.Radius,
		Color:               tv.Color,
	}
	b.scene.Add(node)

	log.Printf("Ragdoll: spawned %d-segment chain at (%.2f, %.2f, %.2f)", count, origin.X, origin.Y, origin.Z)
	return &Chain{Bodies: bodies, Joints: joints, Skeleton: skel, Node: node}, nil
}

// CreateBodyChain creates count dynamic capsules stacked straight down from
// origin, body i at origin.y - i*length.
func (b *Builder) CreateBodyChain(origin rl.Vector3, count int, length, radius float32) ([]physics.BodyHandle, error) {
	halfHeight := length/2 - radius
	if halfHeight < 0 {
		halfHeight = 0
	}

	bodies := make([]physics.BodyHandle, 0, count)
	for i := 0; i < count; i++ {
		pos := rl.Vector3{X: origin.X, Y: origin.Y - float32(i)*length, Z: origin.Z}
		h := b.world.CreateBody(physics.Dynamic, physics.NewPose(pos))
		if _, err := b.world.CreateCollider(physics.Capsule{HalfHeight: halfHeight, Radius: radius}, h); err != nil {
			return nil, fmt.Errorf("chain segment %d: %w", i, err)
		}
		bodies = append(bodies, h)
	}
	return bodies, nil
}

// BindChainToSkeleton binds body i to joint i.
func (b *Builder) BindChainToSkeleton(bodies []physics.BodyHandle, joints []*scene.Node) error {
	if len(bodies) != len(joints) {
		return fmt.Errorf("%w: %d bodies, %d joints", ErrCountMismatch, len(bodies), len(joints))
	}
	for i, h := range bodies {
		b.registry.Bind(h, joints[i])
	}
	return nil
}

// LinkChain joins each neighbouring pair with a spherical joint at the
// midpoint between them. Contacts between linked neighbours are disabled.
//
// The anchors assume the bodies are spaced exactly length apart along Y,
// as CreateBodyChain lays them out. Other spacings are not corrected.
func (b *Builder) LinkChain(bodies []physics.BodyHandle, length float32) ([]physics.JointHandle, error) {
	if len(bodies) < 2 {
		return nil, nil
	}

	joints := make([]physics.JointHandle, 0, len(bodies)-1)
	for i := 0; i < len(bodies)-1; i++ {
		h, err := b.world.CreateJoint(physics.JointSpec{
			BodyA:            bodies[i],
			BodyB:            bodies[i+1],
			AnchorA:          rl.Vector3{Y: -length / 2},
			AnchorB:          rl.Vector3{Y: length / 2},
			CollideConnected: false,
		})
		if err != nil {
			return nil, fmt.Errorf("link %d-%d: %w", i, i+1, err)
		}
		joints = append(joints, h)
	}
	return joints, nil
}
