package game

import (
	"context"
	"fmt"
	"log"

	"sandbox3d/internal/camera"
	"sandbox3d/internal/config"
	"sandbox3d/internal/loop"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// mouseOrbit drives the orbit camera: right drag rotates, wheel zooms
type mouseOrbit struct{}

func (mouseOrbit) OrbitInput() camera.Input {
	var in camera.Input
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		in.Rotate = rl.GetMouseDelta()
	}
	in.Zoom = rl.GetMouseWheelMove()
	return in
}

// Run opens the window and drives the loop until it closes. When
// configPath is set the file is watched and spawn tuning reloads live.
func (g *Game) Run(ctx context.Context, configPath string) error {
	if g.Renderer == nil {
		return fmt.Errorf("game: Run needs a windowed game")
	}

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable)
	rl.InitWindow(int32(g.Config.Window.Width), int32(g.Config.Window.Height), g.Config.Window.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(g.Config.Window.TargetFPS))

	initRayguiStyle()
	g.Camera.Source = mouseOrbit{}

	g.LoadAssets(ctx)
	defer g.Close()

	var reloads <-chan *config.Config
	if configPath != "" {
		w, err := config.NewWatcher(configPath)
		if err != nil {
			log.Printf("Config: not watching %s: %v", configPath, err)
		} else {
			defer w.Close()
			reloads = w.Configs
		}
	}

	g.Loop.Start()
	for !rl.WindowShouldClose() {
		select {
		case cfg := <-reloads:
			g.ApplyConfig(cfg)
		default:
		}

		g.handleInput()
		g.PollAssets()

		if g.Loop.State() == loop.Paused {
			// keep the window and toolbar live without stepping
			g.Renderer.Render(g.context())
			continue
		}
		g.Sched.RunFrame()
	}
	return nil
}

// handleInput turns raw window input into loop input
func (g *Game) handleInput() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	g.Spawner.SetViewport(rl.Vector2{X: w, Y: h})
	g.toolbar.Layout(w)

	if rl.IsKeyPressed(rl.KeyP) || rl.IsKeyPressed(rl.KeySpace) {
		g.Dispatch(ActionTogglePause)
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.Dispatch(ActionToggleDebug)
	}
	if rl.IsKeyPressed(rl.KeyOne) {
		g.Dispatch(ActionModeBall)
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		g.Dispatch(ActionModeChain)
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		g.Press(rl.GetMousePosition())
	}
}

// drawUI runs inside the renderer's frame after the 3D pass
func (g *Game) drawUI() {
	state := g.Loop.State()
	for _, b := range g.toolbar.Buttons {
		if gui.Button(b.Bounds, Label(b.Action, state, g.Debug.Enabled(), g.Spawner.Mode())) {
			g.Dispatch(b.Action)
		}
	}

	rl.DrawRectangle(5, 5, 300, 95, colorBgPanel)
	rl.DrawText("Click to spawn, right drag to orbit, wheel to zoom", 10, 10, 10, colorTextSecondary)
	rl.DrawText("P pause, F1 debug, 1 ball, 2 chain", 10, 25, 10, colorTextMuted)
	rl.DrawFPS(10, 40)
	rl.DrawText(fmt.Sprintf("Tick %d  bodies %d  joints %d", g.Loop.Ticks(), g.World.BodyCount(), g.World.JointCount()), 10, 62, 10, colorTextSecondary)

	status := fmt.Sprintf("Mode %s", g.Spawner.Mode())
	if !g.Chains.Ready() {
		status += "  (chain template loading)"
	}
	rl.DrawText(status, 10, 77, 10, colorTextSecondary)

	if state == loop.Paused {
		msg := "PAUSED"
		if err := g.Loop.Err(); err != nil {
			msg = fmt.Sprintf("PAUSED: %v", err)
		}
		rl.DrawText(msg, 10, 110, 20, colorWarning)
	}
}
