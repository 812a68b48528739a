// Package automation runs scripted headless sessions described in YAML.
package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/chatooly/internal/config"
	"github.com/san-kum/chatooly/internal/logging"
	"github.com/san-kum/chatooly/internal/metrics"
	"github.com/san-kum/chatooly/internal/sim"
	"github.com/san-kum/chatooly/internal/storage"
)

// Scenario is a sequence of independent headless runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. Zero values fall back to the base parameters.
type Step struct {
	Preset      string             `yaml:"preset"`
	Frames      int                `yaml:"frames"`
	FPS         int                `yaml:"fps"`
	Seed        int64              `yaml:"seed"`
	Width       int                `yaml:"width"`
	Height      int                `yaml:"height"`
	Params      map[string]float64 `yaml:"params"`
	Strokes     []Stroke           `yaml:"strokes"`
	SampleEvery int                `yaml:"sample_every"`
	SaveAs      string             `yaml:"save_as"`
}

// Stroke holds the pointer down at (X, Y) pixels for frames [From, To).
type Stroke struct {
	From int     `yaml:"from"`
	To   int     `yaml:"to"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// StepResult summarizes one finished step.
type StepResult struct {
	Preset    string
	RunID     string
	Frames    int
	Dissolves int
	Metrics   map[string]float64
	Series    *sim.Series
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("automation: %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("automation: %s: no steps", path)
	}
	return &sc, nil
}

// Runner executes scenarios. Store may be nil, in which case SaveAs is
// ignored.
type Runner struct {
	Base          sim.Params
	Width, Height int
	Store         *storage.Store
	Log           *log.Logger
}

func (r *Runner) logger() *log.Logger {
	if r.Log == nil {
		return logging.Discard()
	}
	return r.Log
}

func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		r.logger().Info("running step", "scenario", sc.Name, "step", i+1, "of", len(sc.Steps), "preset", step.Preset)
		res, err := r.runStep(ctx, step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, *res)
	}
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, step Step) (*StepResult, error) {
	p := r.Base
	if step.Preset != "" {
		pr := config.GetPreset(step.Preset)
		if pr == nil {
			return nil, fmt.Errorf("unknown preset %q", step.Preset)
		}
		p.DA, p.DB, p.Feed, p.Kill = pr.DA, pr.DB, pr.Feed, pr.Kill
	}
	if step.Seed != 0 {
		p.Seed = step.Seed
	}
	width, height := orDefault(step.Width, r.Width), orDefault(step.Height, r.Height)
	fps := orDefault(step.FPS, 30)
	frames := orDefault(step.Frames, 300)

	start := time.Unix(0, 0)
	s, err := sim.New(p, width, height, start)
	if err != nil {
		return nil, err
	}
	for k, v := range step.Params {
		if err := s.Model().SetParam(k, v); err != nil {
			return nil, err
		}
	}
	rec := sim.NewRecorder(orDefault(step.SampleEvery, 1), metrics.Defaults()...)
	s.AddObserver(rec)

	dt := time.Second / time.Duration(fps)
	now := start
	for f := 0; f < frames; f++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.SetPointer(pointerAt(step.Strokes, f))
		now = now.Add(dt)
		s.Tick(now, nil)
	}

	res := &StepResult{
		Preset:    step.Preset,
		Frames:    frames,
		Dissolves: s.Dissolves(),
		Metrics:   rec.Summary(),
		Series:    rec.Series(),
	}
	if step.SaveAs != "" && r.Store != nil {
		m := s.Model()
		meta := &storage.RunMetadata{
			Preset:    step.SaveAs,
			Timestamp: time.Now(),
			Seed:      s.Seed(),
			Frames:    frames,
			FPS:       fps,
			Width:     width,
			Height:    height,
			CellSize:  p.CellSize,
			Params:    storage.ModelParams{DA: m.DA, DB: m.DB, Feed: m.Feed, Kill: m.Kill},
			Palette:   s.PaletteIndex(),
			Dissolves: s.Dissolves(),
			Metrics:   res.Metrics,
		}
		id, err := r.Store.Save(meta, res.Series)
		if err != nil {
			return nil, err
		}
		res.RunID = id
	}
	return res, nil
}

func pointerAt(strokes []Stroke, frame int) sim.Pointer {
	for _, st := range strokes {
		if frame >= st.From && frame < st.To {
			return sim.Pointer{X: st.X, Y: st.Y, Down: true}
		}
	}
	return sim.Pointer{}
}

func orDefault(v, d int) int {
	if v > 0 {
		return v
	}
	return d
}
