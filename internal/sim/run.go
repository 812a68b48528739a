package sim

import (
	"context"
	"fmt"
	"time"
)

// Run drives s from a ticker at fps frames per second until ctx is done.
// Frames run to completion; cancellation is only observed between frames.
func Run(ctx context.Context, s *Session, fps int, painter Painter) error {
	if fps <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, fps)
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.Tick(now, painter)
		}
	}
}

// RunFrames steps n frames on a synthetic clock that starts at start and
// advances by dt per frame. It returns the clock value after the last
// frame.
func RunFrames(ctx context.Context, s *Session, n int, start time.Time, dt time.Duration, painter Painter) (time.Time, error) {
	now := start
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return now, ctx.Err()
		default:
		}
		now = now.Add(dt)
		s.Tick(now, painter)
	}
	return now, nil
}
