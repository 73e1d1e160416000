package loop

import (
	"context"
	"time"
)

// FrameID names a scheduled callback.
type FrameID uint64

// Scheduler runs callbacks on the next frame.
type Scheduler interface {
	Schedule(fn func()) FrameID
	Cancel(id FrameID)
}

type scheduled struct {
	id FrameID
	fn func()
}

// FrameScheduler is a Scheduler advanced by explicit RunFrame calls, from
// the window loop, a ticker or a test. Callbacks scheduled while a frame
// runs wait for the following frame.
type FrameScheduler struct {
	next   FrameID
	queue  []scheduled
	frames uint64
}

func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

func (s *FrameScheduler) Schedule(fn func()) FrameID {
	s.next++
	s.queue = append(s.queue, scheduled{id: s.next, fn: fn})
	return s.next
}

func (s *FrameScheduler) Cancel(id FrameID) {
	for i, c := range s.queue {
		if c.id == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
}

// RunFrame runs every callback scheduled before the call.
func (s *FrameScheduler) RunFrame() {
	s.frames++
	batch := s.queue
	s.queue = nil
	for _, c := range batch {
		c.fn()
	}
}

// Pending returns the number of callbacks waiting for the next frame.
func (s *FrameScheduler) Pending() int {
	return len(s.queue)
}

// Frames returns how many frames have run.
func (s *FrameScheduler) Frames() uint64 {
	return s.frames
}

// Drive runs one frame per interval until ctx is done or maxFrames frames
// have run (0 means no limit).
func Drive(ctx context.Context, s *FrameScheduler, interval time.Duration, maxFrames uint64) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for maxFrames == 0 || s.Frames() < maxFrames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunFrame()
		}
	}
	return nil
}
