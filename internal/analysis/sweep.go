package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/chatooly/internal/metrics"
	"github.com/san-kum/chatooly/internal/sim"
)

// SweepPoint is the outcome of one parameter value.
type SweepPoint struct {
	Param   float64            `json:"param"`
	Metrics map[string]float64 `json:"metrics"`
}

// SweepConfig describes a sweep of one model parameter over [Min, Max].
type SweepConfig struct {
	Base          sim.Params
	Param         string
	Min, Max      float64
	Steps         int
	Frames        int
	Width, Height int
	DT            time.Duration
}

// Sweep runs one headless session per parameter value, concurrently, and
// reports the metrics after the last frame; peaks cover every frame.
func Sweep(ctx context.Context, cfg SweepConfig) ([]SweepPoint, error) {
	steps := max(cfg.Steps, 2)
	delta := (cfg.Max - cfg.Min) / float64(steps-1)
	points := make([]SweepPoint, steps)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < steps; i++ {
		g.Go(func() error {
			v := cfg.Min + float64(i)*delta
			start := time.Unix(0, 0)
			s, err := sim.New(cfg.Base, cfg.Width, cfg.Height, start)
			if err != nil {
				return err
			}
			if err := s.Model().SetParam(cfg.Param, v); err != nil {
				return err
			}
			rec := sim.NewRecorder(1, metrics.Defaults()...)
			s.AddObserver(rec)
			if _, err := sim.RunFrames(ctx, s, cfg.Frames, start, cfg.DT, nil); err != nil {
				return err
			}
			points[i] = SweepPoint{Param: v, Metrics: rec.Summary()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
