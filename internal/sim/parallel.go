package sim

import (
	"context"
	"time"

	"github.com/san-kum/chatooly/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// BatchResult summarizes one headless session of a batch.
type BatchResult struct {
	Seed     int64
	Frames   int
	Elapsed  time.Duration
	Metrics  map[string]float64
	Palette  int
	Dissolve int
}

// Batch runs independent headless sessions concurrently, one per seed.
type Batch struct {
	params        Params
	width, height int
	frames        int
	dt            time.Duration
}

func NewBatch(p Params, width, height, frames int, dt time.Duration) *Batch {
	return &Batch{params: p, width: width, height: height, frames: frames, dt: dt}
}

func (b *Batch) Run(ctx context.Context, seeds []int64) ([]BatchResult, error) {
	results := make([]BatchResult, len(seeds))
	g, ctx := errgroup.WithContext(ctx)

	for i, seed := range seeds {
		g.Go(func() error {
			p := b.params
			p.Seed = seed
			start := time.Unix(0, 0)

			s, err := New(p, b.width, b.height, start)
			if err != nil {
				return err
			}
			rec := NewRecorder(1, metrics.Defaults()...)
			s.AddObserver(rec)

			began := time.Now()
			if _, err := RunFrames(ctx, s, b.frames, start, b.dt, nil); err != nil {
				return err
			}
			results[i] = BatchResult{
				Seed:     seed,
				Frames:   b.frames,
				Elapsed:  time.Since(began),
				Metrics:  rec.Summary(),
				Palette:  s.PaletteIndex(),
				Dissolve: s.Dissolves(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
