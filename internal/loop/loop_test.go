package loop

import (
	"errors"
	"reflect"
	"testing"

	"sandbox3d/internal/binding"
	"sandbox3d/internal/input"
	"sandbox3d/internal/physics"
	"sandbox3d/internal/scene"
	"sandbox3d/internal/spawn"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// recorder collects the order of collaborator calls
type recorder struct {
	calls []string
}

func (r *recorder) add(s string) { r.calls = append(r.calls, s) }

type fakeWorld struct {
	rec    *recorder
	steps  int
	active []physics.BodyHandle
}

func (w *fakeWorld) Step() {
	w.steps++
	w.rec.add("step")
}

func (w *fakeWorld) ForEachActiveBody(visit func(physics.BodyHandle, physics.Pose)) {
	for _, h := range w.active {
		visit(h, physics.NewPose(rl.Vector3{Y: float32(w.steps)}))
	}
}

type fakeSyncer struct {
	rec *recorder
	reg *binding.Registry
}

func (s *fakeSyncer) Sync(src binding.ActiveBodySource) error {
	s.rec.add("sync")
	return s.reg.Sync(src)
}

type fakeDebug struct {
	rec     *recorder
	enabled bool
}

func (d *fakeDebug) Enabled() bool { return d.enabled }
func (d *fakeDebug) Toggle() bool  { d.enabled = !d.enabled; return d.enabled }
func (d *fakeDebug) Snapshot()     { d.rec.add("snapshot") }
func (d *fakeDebug) Update()       { d.rec.add("update") }

type fakeCamera struct{ rec *recorder }

func (c *fakeCamera) Update()                      { c.rec.add("camera") }
func (c *fakeCamera) GetRaylibCamera() rl.Camera3D { return rl.Camera3D{Fovy: 45} }

type fakeRenderer struct {
	rec  *recorder
	last scene.Context
}

func (r *fakeRenderer) Render(ctx scene.Context) {
	r.rec.add("render")
	r.last = ctx
}

type fakeSpawner struct {
	points []rl.Vector2
	mode   spawn.Mode
}

func (s *fakeSpawner) OnPointerDown(p rl.Vector2) (*spawn.Entity, error) {
	s.points = append(s.points, p)
	return nil, nil
}

func (s *fakeSpawner) SetMode(m spawn.Mode) { s.mode = m }

type harness struct {
	rec      *recorder
	world    *fakeWorld
	registry *binding.Registry
	debug    *fakeDebug
	renderer *fakeRenderer
	spawner  *fakeSpawner
	queue    *input.Queue
	sched    *FrameScheduler
	loop     *Loop
}

func newHarness(cfg Config) *harness {
	rec := &recorder{}
	h := &harness{
		rec:      rec,
		world:    &fakeWorld{rec: rec},
		registry: binding.NewRegistry(),
		debug:    &fakeDebug{rec: rec},
		renderer: &fakeRenderer{rec: rec},
		spawner:  &fakeSpawner{},
		queue:    input.NewQueue(),
		sched:    NewFrameScheduler(),
	}
	h.loop = New(h.sched, cfg, Deps{
		World:    h.world,
		Registry: &fakeSyncer{rec: rec, reg: h.registry},
		Debug:    h.debug,
		Camera:   &fakeCamera{rec: rec},
		Renderer: h.renderer,
		Spawner:  h.spawner,
		Input:    h.queue,
		Scene:    scene.NewScene("test"),
	})
	return h
}

func (h *harness) frames(n int) {
	for i := 0; i < n; i++ {
		h.sched.RunFrame()
	}
}

func TestTickOrder(t *testing.T) {
	h := newHarness(Config{})
	h.debug.enabled = true
	h.loop.Start()

	h.frames(1)

	want := []string{"step", "sync", "snapshot", "update", "camera", "render"}
	if !reflect.DeepEqual(h.rec.calls, want) {
		t.Errorf("Expected %v, got %v", want, h.rec.calls)
	}
	if h.renderer.last.Camera.Fovy != 45 {
		t.Error("Camera not passed to renderer")
	}
}

func TestDebugSkippedWhenDisabled(t *testing.T) {
	h := newHarness(Config{})
	h.loop.Start()

	h.frames(1)

	want := []string{"step", "sync", "camera", "render"}
	if !reflect.DeepEqual(h.rec.calls, want) {
		t.Errorf("Expected %v, got %v", want, h.rec.calls)
	}
}

func TestPauseStopsStepping(t *testing.T) {
	h := newHarness(Config{})
	h.loop.Start()

	h.frames(10)
	h.loop.Pause()
	h.frames(5)

	if h.world.steps != 10 {
		t.Errorf("Expected 10 steps while paused, got %d", h.world.steps)
	}
	if h.loop.State() != Paused {
		t.Errorf("Expected Paused, got %v", h.loop.State())
	}

	h.loop.Resume()
	h.frames(3)
	if h.world.steps != 13 {
		t.Errorf("Expected 13 steps after resume, got %d", h.world.steps)
	}
}

func TestPauseDuringTickCompletesIt(t *testing.T) {
	h := newHarness(Config{})
	h.renderer = &fakeRenderer{rec: h.rec}
	h.loop.deps.Renderer = pauseOnRender{loop: h.loop, inner: h.renderer}
	h.loop.Start()

	h.frames(3)

	if h.world.steps != 1 {
		t.Errorf("Expected the pausing tick to be the last, got %d steps", h.world.steps)
	}
	if h.sched.Pending() != 0 {
		t.Errorf("Expected no pending frames, got %d", h.sched.Pending())
	}
}

type pauseOnRender struct {
	loop  *Loop
	inner *fakeRenderer
}

func (p pauseOnRender) Render(ctx scene.Context) {
	p.inner.Render(ctx)
	p.loop.Pause()
}

func TestResumeIsIdempotent(t *testing.T) {
	h := newHarness(Config{})
	h.loop.Start()
	h.loop.Resume()
	h.loop.Resume()

	h.frames(1)
	if h.world.steps != 1 {
		t.Errorf("Expected a single tick per frame, got %d", h.world.steps)
	}
}

func TestStateChangedEvent(t *testing.T) {
	h := newHarness(Config{})
	var states []State
	h.loop.StateChanged.AddListener(func(s State) { states = append(states, s) })
	h.loop.Start()

	if h.loop.TogglePause() != Paused || h.loop.TogglePause() != Running {
		t.Fatal("TogglePause did not alternate")
	}
	if !reflect.DeepEqual(states, []State{Paused, Running}) {
		t.Errorf("Unexpected state events %v", states)
	}
}

func TestMissingBindingStrictPausesAndSkipsRender(t *testing.T) {
	h := newHarness(Config{StrictBindings: true})
	h.world.active = []physics.BodyHandle{7}
	h.loop.Start()

	h.frames(2)

	if h.loop.State() != Paused {
		t.Errorf("Expected Paused, got %v", h.loop.State())
	}
	for _, c := range h.rec.calls {
		if c == "render" {
			t.Error("Render ran after a missing binding")
		}
	}
	if !errors.Is(h.loop.Err(), binding.ErrMissingBinding) {
		t.Errorf("Expected ErrMissingBinding, got %v", h.loop.Err())
	}
	if h.world.steps != 1 {
		t.Errorf("Expected 1 step, got %d", h.world.steps)
	}
}

func TestMissingBindingLenientKeepsRunning(t *testing.T) {
	h := newHarness(Config{})
	h.world.active = []physics.BodyHandle{7}
	h.loop.Start()

	h.frames(2)

	if h.loop.State() != Running || h.world.steps != 2 {
		t.Errorf("Expected 2 running steps, got %d in %v", h.world.steps, h.loop.State())
	}
}

func TestInputDrainedBeforeStep(t *testing.T) {
	h := newHarness(Config{})
	h.loop.Start()

	h.queue.Push(input.PointerDown{Point: rl.Vector2{X: 10, Y: 20}})
	h.queue.Push(input.SelectMode{Mode: "chain"})
	h.queue.Push(input.ToggleDebug{})
	h.frames(1)

	if len(h.spawner.points) != 1 || h.spawner.points[0].X != 10 {
		t.Errorf("Pointer press not delivered: %v", h.spawner.points)
	}
	if h.spawner.mode != spawn.ModeChain {
		t.Errorf("Expected chain mode, got %v", h.spawner.mode)
	}
	if !h.debug.enabled {
		t.Error("Debug toggle not applied")
	}
	// The toggle was applied before this tick's debug pass
	want := []string{"step", "sync", "snapshot", "update", "camera", "render"}
	if !reflect.DeepEqual(h.rec.calls, want) {
		t.Errorf("Expected %v, got %v", want, h.rec.calls)
	}
}

func TestInputHeldWhilePaused(t *testing.T) {
	h := newHarness(Config{})
	h.loop.Start()
	h.loop.Pause()

	h.queue.Push(input.PointerDown{})
	h.frames(3)

	if len(h.spawner.points) != 0 || h.queue.Len() != 1 {
		t.Error("Input handled while paused")
	}

	h.loop.Resume()
	h.frames(1)
	if len(h.spawner.points) != 1 {
		t.Error("Queued input lost across pause")
	}
}

func TestPauseResumeWithPhysicsTickCounter(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	sched := NewFrameScheduler()
	l := New(sched, Config{}, Deps{
		World:    world,
		Registry: binding.NewRegistry(),
		Scene:    scene.NewScene("test"),
	})
	l.Start()

	for i := 0; i < 10; i++ {
		sched.RunFrame()
	}
	l.Pause()
	for i := 0; i < 5; i++ {
		sched.RunFrame()
	}

	// observed right before the first post-resume tick runs
	var before uint64
	sched.Schedule(func() { before = world.TickCount() })
	l.Resume()
	sched.RunFrame()

	if before != 10 {
		t.Errorf("Expected tick counter 10 before resuming, got %d", before)
	}
	if world.TickCount() != 11 {
		t.Errorf("Expected 11 ticks after the first resumed frame, got %d", world.TickCount())
	}
}
