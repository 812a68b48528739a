package host

import (
	"context"
	"time"

	"github.com/san-kum/chatooly/internal/sim"
)

// Event is a pointer or viewport change delivered to a headless surface.
// A zero Width leaves the viewport alone.
type Event struct {
	Pointer       *sim.Pointer
	Width, Height int
}

// Headless drives a session with no display. With Frames > 0 it runs that
// many frames on a synthetic clock of 1/FPS steps and returns; otherwise it
// ticks in real time until ctx is done. Events are applied between frames
// on the loop goroutine.
type Headless struct {
	FPS     int
	Frames  int
	Start   time.Time
	Painter sim.Painter
	Events  <-chan Event
}

func (h *Headless) Name() string { return "headless" }

func (h *Headless) Run(ctx context.Context, s *sim.Session) error {
	fps := h.FPS
	if fps <= 0 {
		fps = 30
	}
	dt := time.Second / time.Duration(fps)
	events := h.Events

	if h.Frames > 0 {
		now := h.Start
		if now.IsZero() {
			now = s.LastDissolve()
		}
		for i := 0; i < h.Frames; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			events = drain(events, s, now)
			now = now.Add(dt)
			s.Tick(now, h.Painter)
		}
		return nil
	}

	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			apply(s, ev, time.Now())
		case now := <-ticker.C:
			s.Tick(now, h.Painter)
		}
	}
}

// drain applies every queued event and returns nil once events is closed.
func drain(events <-chan Event, s *sim.Session, now time.Time) <-chan Event {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			apply(s, ev, now)
		default:
			return events
		}
	}
}

func apply(s *sim.Session, ev Event, now time.Time) {
	if ev.Pointer != nil {
		s.SetPointer(*ev.Pointer)
	}
	if ev.Width > 0 && ev.Height > 0 {
		s.Resize(ev.Width, ev.Height, now)
	}
}
