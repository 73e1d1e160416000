// Package loop drives the per-frame update of the sandbox.
package loop

import (
	"errors"
	"log"

	"sandbox3d/internal/binding"
	"sandbox3d/internal/input"
	"sandbox3d/internal/scene"
	"sandbox3d/internal/spawn"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type State int

const (
	Running State = iota
	Paused
)

func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// World is the simulation stepped each tick.
type World interface {
	Step()
	binding.ActiveBodySource
}

// Syncer copies simulation poses into the scene.
type Syncer interface {
	Sync(source binding.ActiveBodySource) error
}

// DebugOverlay is the collider wireframe overlay.
type DebugOverlay interface {
	Enabled() bool
	Toggle() bool
	Snapshot()
	Update()
}

// CameraController updates the view once per tick.
type CameraController interface {
	Update()
	GetRaylibCamera() rl.Camera3D
}

type Renderer interface {
	Render(ctx scene.Context)
}

// Spawner reacts to pointer presses.
type Spawner interface {
	OnPointerDown(point rl.Vector2) (*spawn.Entity, error)
	SetMode(m spawn.Mode)
}

// Deps are the collaborators a Loop orchestrates. Debug, Camera, Renderer,
// Spawner and Input may be nil.
type Deps struct {
	World    World
	Registry Syncer
	Debug    DebugOverlay
	Camera   CameraController
	Renderer Renderer
	Spawner  Spawner
	Input    *input.Queue
	Scene    *scene.Scene
	Sun      scene.DirectionalLight
}

type Config struct {
	// StrictBindings pauses the loop when an active body has no node
	StrictBindings bool
}

// Loop runs step, sync, debug update, camera update and render in that
// order once per scheduled frame.
type Loop struct {
	sched   Scheduler
	deps    Deps
	cfg     Config
	state   State
	pending FrameID
	started bool
	ticks   uint64
	lastErr error

	// StateChanged fires after every pause or resume
	StateChanged scene.EventWithArg[State]
}

func New(sched Scheduler, cfg Config, deps Deps) *Loop {
	return &Loop{sched: sched, deps: deps, cfg: cfg, state: Running}
}

// Start schedules the first tick. Calling it again has no effect.
func (l *Loop) Start() {
	if l.started {
		return
	}
	l.started = true
	if l.state == Running {
		l.pending = l.sched.Schedule(l.tick)
	}
}

func (l *Loop) State() State {
	return l.state
}

// Ticks returns the number of ticks that stepped the world.
func (l *Loop) Ticks() uint64 {
	return l.ticks
}

// Err returns the last sync error, if any.
func (l *Loop) Err() error {
	return l.lastErr
}

// Pause cancels the next scheduled tick. A tick already running completes.
func (l *Loop) Pause() {
	if l.state == Paused {
		return
	}
	l.state = Paused
	if l.started {
		l.sched.Cancel(l.pending)
	}
	log.Printf("Loop: paused at tick %d", l.ticks)
	l.StateChanged.Invoke(l.state)
}

func (l *Loop) Resume() {
	if l.state == Running {
		return
	}
	l.state = Running
	if l.started {
		l.pending = l.sched.Schedule(l.tick)
	}
	log.Printf("Loop: resumed at tick %d", l.ticks)
	l.StateChanged.Invoke(l.state)
}

// TogglePause flips between Running and Paused and returns the new state.
func (l *Loop) TogglePause() State {
	if l.state == Paused {
		l.Resume()
	} else {
		l.Pause()
	}
	return l.state
}

func (l *Loop) tick() {
	// Schedule first so a pause issued during this tick cancels the next one
	l.pending = l.sched.Schedule(l.tick)

	if l.deps.Input != nil {
		for _, e := range l.deps.Input.Drain() {
			l.handle(e)
		}
	}

	l.deps.World.Step()
	l.ticks++

	if err := l.deps.Registry.Sync(l.deps.World); err != nil {
		l.lastErr = err
		if l.cfg.StrictBindings && errors.Is(err, binding.ErrMissingBinding) {
			log.Printf("Loop: %v", err)
			l.Pause()
			return
		}
	}

	if l.deps.Debug != nil && l.deps.Debug.Enabled() {
		l.deps.Debug.Snapshot()
		l.deps.Debug.Update()
	}

	ctx := scene.Context{Scene: l.deps.Scene, Sun: l.deps.Sun}
	if l.deps.Camera != nil {
		l.deps.Camera.Update()
		ctx.Camera = l.deps.Camera.GetRaylibCamera()
	}

	if l.deps.Renderer != nil {
		l.deps.Renderer.Render(ctx)
	}
}

func (l *Loop) handle(e input.Event) {
	switch ev := e.(type) {
	case input.ToggleDebug:
		if l.deps.Debug != nil {
			l.deps.Debug.Toggle()
		}
	case input.PointerDown:
		if l.deps.Spawner == nil {
			return
		}
		if _, err := l.deps.Spawner.OnPointerDown(ev.Point); err != nil {
			log.Printf("Loop: spawn failed: %v", err)
		}
	case input.SelectMode:
		if l.deps.Spawner == nil {
			return
		}
		m, err := spawn.ParseMode(ev.Mode)
		if err != nil {
			log.Printf("Loop: %v", err)
			return
		}
		l.deps.Spawner.SetMode(m)
	}
}
