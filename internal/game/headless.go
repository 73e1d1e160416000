package game

import (
	"context"
	"time"

	"sandbox3d/internal/input"
	"sandbox3d/internal/loop"
	"sandbox3d/internal/physics"
	"sandbox3d/internal/spawn"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Script is a headless run: Ticks frames, with a pointer press every
// SpawnEvery ticks cycling through Points.
type Script struct {
	Ticks      int
	SpawnEvery int
	Points     []rl.Vector2
	// Modes, when set, cycles the spawn mode alongside Points
	Modes []spawn.Mode
	// Interval paces frames in real time; zero runs them back to back
	Interval time.Duration
}

// Summary describes the world after a headless run.
type Summary struct {
	Ticks    uint64
	Bodies   int
	Joints   int
	Active   int
	Balls    int
	Chains   int
	Bindings int
	Err      error
}

// RunScript plays a script without a window. Templates are loaded first so
// chain presses never race the loader.
func (g *Game) RunScript(ctx context.Context, s Script) (Summary, error) {
	g.LoadAssets(ctx)
	defer g.Close()
	if err := g.WaitForAssets(ctx); err != nil {
		return Summary{}, err
	}

	// The script callback is scheduled ahead of the loop's tick, so its
	// presses are drained by the tick of the same frame
	presses, frame := 0, 0
	var script func()
	script = func() {
		g.Sched.Schedule(script)
		if s.SpawnEvery > 0 && len(s.Points) > 0 && frame%s.SpawnEvery == 0 {
			if len(s.Modes) > 0 {
				g.Input.Push(input.SelectMode{Mode: s.Modes[presses%len(s.Modes)].String()})
			}
			g.Input.Push(input.PointerDown{Point: s.Points[presses%len(s.Points)]})
			presses++
		}
		frame++
	}
	g.Sched.Schedule(script)
	g.Loop.Start()

	if s.Interval > 0 {
		err := loop.Drive(ctx, g.Sched, s.Interval, uint64(s.Ticks))
		return g.Summary(), err
	}
	for i := 0; i < s.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return g.Summary(), err
		}
		g.Frame()
	}
	return g.Summary(), nil
}

// Summary counts what the world holds right now.
func (g *Game) Summary() Summary {
	s := Summary{
		Ticks:    g.Loop.Ticks(),
		Bodies:   g.World.BodyCount(),
		Joints:   g.World.JointCount(),
		Bindings: g.Registry.Len(),
		Err:      g.Loop.Err(),
	}
	g.World.ForEachActiveBody(func(physics.BodyHandle, physics.Pose) { s.Active++ })
	for _, e := range g.Spawner.Entities() {
		switch e.Kind {
		case spawn.KindBall:
			s.Balls++
		case spawn.KindChain:
			s.Chains++
		}
	}
	return s
}

// GridPoints spreads n screen points over the middle of a viewport.
func GridPoints(n int, width, height float32) []rl.Vector2 {
	if n <= 0 {
		return nil
	}
	points := make([]rl.Vector2, 0, n)
	cols := 1
	for cols*cols < n {
		cols++
	}
	rows := (n + cols - 1) / cols
	for i := 0; i < n; i++ {
		c, r := i%cols, i/cols
		points = append(points, rl.Vector2{
			X: width * (0.3 + 0.4*(float32(c)+0.5)/float32(cols)),
			Y: height * (0.4 + 0.3*(float32(r)+0.5)/float32(rows)),
		})
	}
	return points
}
