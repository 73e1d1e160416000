package input

import (
	"sync"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestDrainReturnsEventsInOrder(t *testing.T) {
	q := NewQueue()
	q.Push(PointerDown{Point: rl.Vector2{X: 1, Y: 2}})
	q.Push(ToggleDebug{})
	q.Push(SelectMode{Mode: "chain"})

	events := q.Drain()
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if p, ok := events[0].(PointerDown); !ok || p.Point.X != 1 {
		t.Errorf("Unexpected first event %#v", events[0])
	}
	if _, ok := events[1].(ToggleDebug); !ok {
		t.Errorf("Unexpected second event %#v", events[1])
	}
	if m, ok := events[2].(SelectMode); !ok || m.Mode != "chain" {
		t.Errorf("Unexpected third event %#v", events[2])
	}

	if q.Len() != 0 || len(q.Drain()) != 0 {
		t.Error("Queue not empty after Drain")
	}
}

func TestConcurrentPush(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push(ToggleDebug{})
			}
		}()
	}
	wg.Wait()

	if got := len(q.Drain()); got != 800 {
		t.Errorf("Expected 800 events, got %d", got)
	}
}
