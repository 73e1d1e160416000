package game

import (
	"context"
	"log"

	"sandbox3d/internal/assets"
	"sandbox3d/internal/binding"
	"sandbox3d/internal/camera"
	"sandbox3d/internal/config"
	"sandbox3d/internal/debugdraw"
	"sandbox3d/internal/input"
	"sandbox3d/internal/loop"
	"sandbox3d/internal/physics"
	"sandbox3d/internal/ragdoll"
	"sandbox3d/internal/render"
	"sandbox3d/internal/scene"
	"sandbox3d/internal/spawn"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Options selects how a Game is assembled.
type Options struct {
	// Headless skips every window and drawing call
	Headless bool
}

// Game owns the sandbox: physics world, scene graph, spawning and the loop
// that ties them together.
type Game struct {
	Config *config.Config

	World    *physics.World
	Scene    *scene.Scene
	Registry *binding.Registry
	Chains   *ragdoll.Builder
	Spawner  *spawn.Controller
	Debug    *debugdraw.Buffer
	Lines    *render.LineStorage
	Camera   *camera.Orbit
	Renderer *render.Renderer // nil when headless
	Input    *input.Queue
	Sched    *loop.FrameScheduler
	Loop     *loop.Loop
	Sun      scene.DirectionalLight

	toolbar *Toolbar
	ground  *scene.Node

	chainTemplate <-chan assets.TemplateResult
	ballTemplate  <-chan assets.TemplateResult
	cancel        context.CancelFunc
}

// New assembles a game from cfg. Nothing is loaded or opened yet.
func New(cfg *config.Config, opts Options) *Game {
	g := &Game{
		Config:   cfg,
		World:    physics.NewWorld(cfg.PhysicsConfig()),
		Scene:    scene.NewScene("sandbox"),
		Registry: binding.NewRegistry(),
		Lines:    render.NewLineStorage(),
		Camera:   camera.Default(),
		Input:    input.NewQueue(),
		Sched:    loop.NewFrameScheduler(),
		Sun:      scene.NewDirectionalLight(),
		toolbar:  NewToolbar(),
	}

	g.ground = groundNode(g.World.Config())
	g.Scene.Add(g.ground)

	viewport := rl.Vector2{X: float32(cfg.Window.Width), Y: float32(cfg.Window.Height)}
	g.Chains = ragdoll.NewBuilder(g.World, g.Registry, g.Scene, cfg.ChainConfig())
	g.Spawner = spawn.NewController(g.World, g.Registry, g.Scene, g.Chains, g.Camera, viewport, cfg.SpawnConfig())
	g.Spawner.Spawned.AddListener(func(e *spawn.Entity) {
		log.Printf("Spawn: %s %s (%d bodies)", e.Kind, e.ID, len(e.Bodies))
	})

	g.Debug = debugdraw.New(g.World, g.Lines, g.Scene.Root)
	g.Debug.SetEnabled(cfg.Debug.Enabled)

	deps := loop.Deps{
		World:    g.World,
		Registry: g.Registry,
		Debug:    g.Debug,
		Camera:   g.Camera,
		Spawner:  g.Spawner,
		Input:    g.Input,
		Scene:    g.Scene,
		Sun:      g.Sun,
	}
	if !opts.Headless {
		g.Renderer = render.NewRenderer()
		g.Renderer.Overlay = g.drawUI
		deps.Renderer = g.Renderer
	}
	g.Loop = loop.New(g.Sched, cfg.LoopConfig(), deps)

	return g
}

// groundNode draws the static ground slab
func groundNode(cfg physics.Config) *scene.Node {
	n := scene.NewNode("ground")
	n.Position = cfg.GroundPosition
	n.Visual = &scene.StaticVisual{
		Mesh:  scene.MeshCuboid,
		Size:  cfg.GroundHalfSize,
		Color: rl.LightGray,
	}
	return n
}

// LoadAssets starts loading the chain and ball templates in the
// background. Results are applied by PollAssets on the loop's thread.
func (g *Game) LoadAssets(ctx context.Context) {
	ctx, g.cancel = context.WithCancel(ctx)
	g.chainTemplate = assets.LoadTemplateAsync(ctx, g.Config.Chain.Template)
	if g.Config.Spawn.BallTemplate != "" {
		g.ballTemplate = assets.LoadTemplateAsync(ctx, g.Config.Spawn.BallTemplate)
	}
}

// PollAssets applies any template that finished loading. It never blocks.
func (g *Game) PollAssets() {
	select {
	case res, ok := <-g.chainTemplate:
		if ok {
			g.applyChainTemplate(res)
		}
		g.chainTemplate = nil
	default:
	}

	select {
	case res, ok := <-g.ballTemplate:
		if ok {
			g.applyBallTemplate(res)
		}
		g.ballTemplate = nil
	default:
	}
}

// WaitForAssets blocks until every pending template has been applied or
// ctx ends.
func (g *Game) WaitForAssets(ctx context.Context) error {
	if res, ok, err := receive(ctx, g.chainTemplate); err != nil {
		return err
	} else if ok {
		g.applyChainTemplate(res)
	}
	g.chainTemplate = nil

	if res, ok, err := receive(ctx, g.ballTemplate); err != nil {
		return err
	} else if ok {
		g.applyBallTemplate(res)
	}
	g.ballTemplate = nil
	return nil
}

func receive(ctx context.Context, ch <-chan assets.TemplateResult) (assets.TemplateResult, bool, error) {
	if ch == nil {
		return assets.TemplateResult{}, false, nil
	}
	select {
	case res, ok := <-ch:
		return res, ok, nil
	case <-ctx.Done():
		return assets.TemplateResult{}, false, ctx.Err()
	}
}

func (g *Game) applyChainTemplate(res assets.TemplateResult) {
	if res.Err != nil {
		log.Printf("Game: chain spawning unavailable: %v", res.Err)
		return
	}
	if err := g.Chains.SetTemplate(res.Template); err != nil {
		log.Printf("Game: chain template rejected: %v", err)
	}
}

// applyBallTemplate takes the template's look; the radius stays the
// collider's
func (g *Game) applyBallTemplate(res assets.TemplateResult) {
	if res.Err != nil {
		log.Printf("Game: keeping default ball look: %v", res.Err)
		return
	}
	v, ok := res.Template.Visual.(*scene.StaticVisual)
	if !ok {
		log.Printf("Game: ball template %q is not static, ignoring", res.Template.Name)
		return
	}
	look := *v
	look.Mesh = scene.MeshSphere
	look.Size = rl.Vector3{X: g.Spawner.Config().BallRadius}
	g.Spawner.SetBallVisual(&look)
}

// ApplyConfig applies reloaded spawn and chain tuning. The spawn mode the
// user picked is kept.
func (g *Game) ApplyConfig(cfg *config.Config) {
	s := cfg.SpawnConfig()
	s.Mode = g.Spawner.Mode()
	g.Spawner.SetConfig(s)
	g.Chains.SetConfig(cfg.ChainConfig())
	g.Config = cfg
}

// Frame applies finished loads and runs one scheduled frame.
func (g *Game) Frame() {
	g.PollAssets()
	g.Sched.RunFrame()
}

// Close stops background loads.
func (g *Game) Close() {
	if g.cancel != nil {
		g.cancel()
	}
}

func (g *Game) context() scene.Context {
	return scene.Context{Scene: g.Scene, Camera: g.Camera.GetRaylibCamera(), Sun: g.Sun}
}
