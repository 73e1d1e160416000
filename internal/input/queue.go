// Package input carries user events from any goroutine to the update loop.
package input

import (
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Event is one queued user action.
type Event interface {
	event()
}

// PointerDown is a press at a screen position in pixels.
type PointerDown struct {
	Point rl.Vector2
}

// ToggleDebug flips the collider overlay.
type ToggleDebug struct{}

// SelectMode switches what a pointer press spawns ("ball" or "chain").
type SelectMode struct {
	Mode string
}

func (PointerDown) event() {}
func (ToggleDebug) event() {}
func (SelectMode) event()  {}

// Queue is a mutex-guarded FIFO. Producers Push from anywhere; the loop
// drains it between ticks.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain removes and returns every queued event in arrival order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
