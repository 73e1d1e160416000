// Package spawn turns pointer presses into new bodies in the sandbox.
package spawn

import (
	"errors"
	"fmt"
	"log"

	"sandbox3d/internal/physics"
	"sandbox3d/internal/ragdoll"
	"sandbox3d/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
)

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("spawn: unknown mode")

// Mode selects what a pointer press spawns.
type Mode int

const (
	ModeBall Mode = iota
	ModeChain
)

func (m Mode) String() string {
	switch m {
	case ModeBall:
		return "ball"
	case ModeChain:
		return "chain"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "ball", "":
		return ModeBall, nil
	case "chain":
		return ModeChain, nil
	}
	return ModeBall, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Kind is the type of a spawned entity.
type Kind int

const (
	KindBall Kind = iota
	KindChain
)

func (k Kind) String() string {
	if k == KindChain {
		return "chain"
	}
	return "ball"
}

// Entity is everything created by one spawn.
type Entity struct {
	ID     uuid.UUID
	Kind   Kind
	Bodies []physics.BodyHandle
	Joints []physics.JointHandle
	Nodes  []*scene.Node
}

// World is the part of the physics world spawning uses.
type World interface {
	CreateBody(kind physics.BodyKind, pose physics.Pose) physics.BodyHandle
	CreateCollider(shape physics.Shape, body physics.BodyHandle) (physics.ColliderHandle, error)
	CastRay(origin, direction rl.Vector3, maxDistance float32) (physics.RayHit, bool)
}

// Binder records which node follows which body.
type Binder interface {
	Bind(h physics.BodyHandle, node *scene.Node)
}

// ChainBuilder spawns articulated chains.
type ChainBuilder interface {
	Ready() bool
	Build(origin rl.Vector3) (*ragdoll.Chain, error)
}

type Config struct {
	BallRadius float32
	// SurfaceOffset lifts spawns off the hit surface along its normal
	SurfaceOffset  float32
	MaxRayDistance float32
	Mode           Mode
}

func DefaultConfig() Config {
	return Config{
		BallRadius:     0.5,
		SurfaceOffset:  0.5,
		MaxRayDistance: 100,
		Mode:           ModeBall,
	}
}

// Controller spawns balls and chains where the pointer ray hits.
type Controller struct {
	world    World
	registry Binder
	scene    *scene.Scene
	chains   ChainBuilder
	camera   Camera
	viewport rl.Vector2

	cfg        Config
	ballVisual *scene.StaticVisual
	entities   []*Entity

	// Spawned fires after every successful spawn
	Spawned scene.EventWithArg[*Entity]
}

func NewController(world World, registry Binder, sc *scene.Scene, chains ChainBuilder, cam Camera, viewport rl.Vector2, cfg Config) *Controller {
	return &Controller{
		world:    world,
		registry: registry,
		scene:    sc,
		chains:   chains,
		camera:   cam,
		viewport: viewport,
		cfg:      cfg,
		ballVisual: &scene.StaticVisual{
			Mesh:  scene.MeshSphere,
			Size:  rl.Vector3{X: cfg.BallRadius},
			Color: rl.SkyBlue,
		},
	}
}

// SetBallVisual replaces the geometry shared by balls spawned from now on.
func (c *Controller) SetBallVisual(v *scene.StaticVisual) {
	c.ballVisual = v
}

// SetConfig applies new tuning to future spawns.
func (c *Controller) SetConfig(cfg Config) {
	if cfg.BallRadius != c.cfg.BallRadius {
		v := *c.ballVisual
		v.Size.X = cfg.BallRadius
		c.ballVisual = &v
	}
	c.cfg = cfg
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) SetViewport(size rl.Vector2) {
	c.viewport = size
}

func (c *Controller) Mode() Mode {
	return c.cfg.Mode
}

func (c *Controller) SetMode(m Mode) {
	c.cfg.Mode = m
	log.Printf("Spawn: mode %s", m)
}

// Entities returns every entity spawned so far, oldest first.
func (c *Controller) Entities() []*Entity {
	return c.entities
}

// OnPointerDown casts a ray through the screen point and spawns at the hit.
// A miss, or a chain request before the template is ready, spawns nothing.
func (c *Controller) OnPointerDown(point rl.Vector2) (*Entity, error) {
	ray := ComputeRay(point, c.viewport, c.camera)
	hit, ok := c.world.CastRay(ray.Position, ray.Direction, c.cfg.MaxRayDistance)
	if !ok {
		return nil, nil
	}

	at := rl.Vector3Add(hit.Point, rl.Vector3Scale(hit.Normal, c.cfg.SurfaceOffset))

	switch c.cfg.Mode {
	case ModeChain:
		e, err := c.SpawnArticulatedChain(at)
		if errors.Is(err, ragdoll.ErrTemplateNotLoaded) {
			log.Printf("Spawn: chain template not loaded yet, ignoring press")
			return nil, nil
		}
		return e, err
	default:
		return c.SpawnBall(at)
	}
}

// SpawnBall creates a dynamic ball at point and binds a node to it.
func (c *Controller) SpawnBall(point rl.Vector3) (*Entity, error) {
	h := c.world.CreateBody(physics.Dynamic, physics.NewPose(point))
	if _, err := c.world.CreateCollider(physics.Sphere{Radius: c.cfg.BallRadius}, h); err != nil {
		return nil, fmt.Errorf("spawn ball: %w", err)
	}

	node := scene.NewNode("ball")
	node.Position = point
	node.Visual = c.ballVisual
	c.scene.Add(node)
	c.registry.Bind(h, node)

	return c.record(&Entity{
		ID:     uuid.New(),
		Kind:   KindBall,
		Bodies: []physics.BodyHandle{h},
		Nodes:  []*scene.Node{node},
	}), nil
}

// SpawnArticulatedChain builds a chain hanging from point.
func (c *Controller) SpawnArticulatedChain(point rl.Vector3) (*Entity, error) {
	if c.chains == nil || !c.chains.Ready() {
		return nil, ragdoll.ErrTemplateNotLoaded
	}

	chain, err := c.chains.Build(point)
	if err != nil {
		return nil, fmt.Errorf("spawn chain: %w", err)
	}

	nodes := append([]*scene.Node{chain.Node}, chain.Skeleton.Joints...)
	return c.record(&Entity{
		ID:     uuid.New(),
		Kind:   KindChain,
		Bodies: chain.Bodies,
		Joints: chain.Joints,
		Nodes:  nodes,
	}), nil
}

func (c *Controller) record(e *Entity) *Entity {
	c.entities = append(c.entities, e)
	c.Spawned.Invoke(e)
	return e
}
