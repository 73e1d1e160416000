package game

import (
	"sandbox3d/internal/input"
	"sandbox3d/internal/loop"
	"sandbox3d/internal/spawn"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Action is a toolbar button press.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionToggleDebug
	ActionModeBall
	ActionModeChain
)

const (
	toolbarMargin  float32 = 10
	toolbarButtonW float32 = 90
	toolbarButtonH float32 = 30
	toolbarGap     float32 = 6
)

// Button is one toolbar entry.
type Button struct {
	Action Action
	Bounds rl.Rectangle
}

// Toolbar lays out the sandbox buttons along the top-right edge.
type Toolbar struct {
	Buttons []Button
}

func NewToolbar() *Toolbar {
	t := &Toolbar{}
	for i, a := range []Action{ActionTogglePause, ActionToggleDebug, ActionModeBall, ActionModeChain} {
		t.Buttons = append(t.Buttons, Button{
			Action: a,
			Bounds: rl.Rectangle{
				X:      toolbarMargin + float32(i)*(toolbarButtonW+toolbarGap),
				Y:      toolbarMargin,
				Width:  toolbarButtonW,
				Height: toolbarButtonH,
			},
		})
	}
	return t
}

// Layout right-aligns the buttons for a screen width.
func (t *Toolbar) Layout(screenWidth float32) {
	total := float32(len(t.Buttons))*(toolbarButtonW+toolbarGap) - toolbarGap
	x := screenWidth - toolbarMargin - total
	if x < toolbarMargin {
		x = toolbarMargin
	}
	for i := range t.Buttons {
		t.Buttons[i].Bounds.X = x + float32(i)*(toolbarButtonW+toolbarGap)
	}
}

// Contains reports whether a screen point lands on a button, so pointer
// presses there do not spawn.
func (t *Toolbar) Contains(p rl.Vector2) bool {
	for _, b := range t.Buttons {
		r := b.Bounds
		if p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height {
			return true
		}
	}
	return false
}

// Label returns the caption of a button for the current state.
func Label(a Action, state loop.State, debug bool, mode spawn.Mode) string {
	switch a {
	case ActionTogglePause:
		if state == loop.Paused {
			return "Resume"
		}
		return "Pause"
	case ActionToggleDebug:
		if debug {
			return "Debug: on"
		}
		return "Debug: off"
	case ActionModeBall:
		if mode == spawn.ModeBall {
			return "[Ball]"
		}
		return "Ball"
	case ActionModeChain:
		if mode == spawn.ModeChain {
			return "[Chain]"
		}
		return "Chain"
	}
	return ""
}

// Dispatch routes an action. Pause goes straight to the loop since a
// paused loop does not drain its queue; the rest are queued for the next
// tick.
func (g *Game) Dispatch(a Action) {
	switch a {
	case ActionTogglePause:
		g.Loop.TogglePause()
	case ActionToggleDebug:
		g.Input.Push(input.ToggleDebug{})
	case ActionModeBall:
		g.Input.Push(input.SelectMode{Mode: spawn.ModeBall.String()})
	case ActionModeChain:
		g.Input.Push(input.SelectMode{Mode: spawn.ModeChain.String()})
	}
}

// Press queues a pointer press unless it lands on the toolbar.
func (g *Game) Press(p rl.Vector2) bool {
	if g.toolbar.Contains(p) {
		return false
	}
	g.Input.Push(input.PointerDown{Point: p})
	return true
}
