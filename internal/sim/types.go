package sim

import (
	"errors"
	"time"

	"github.com/san-kum/chatooly/internal/config"
	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/render"
)

// ErrInvalidConfig wraps every rejected Params field.
var ErrInvalidConfig = errors.New("sim: invalid configuration")

// Params fixes everything a session needs for its whole lifetime.
type Params struct {
	CellSize int

	DA, DB, Feed, Kill float64

	DissolveInterval time.Duration
	DissolveStrength float64

	PointerRadius    int
	CenterSeed       int
	InitialClusters  int
	ReseedClusters   int
	ResizeHysteresis int

	Workers int
	Seed    int64

	// Palette is an index into render.Pastels, or -1 for a random pick.
	Palette  int
	Color    string
	Colormap string
}

func DefaultParams() Params {
	return ParamsFromConfig(config.DefaultConfig())
}

func ParamsFromConfig(c *config.Config) Params {
	return Params{
		CellSize:         c.Sim.CellSize,
		DA:               c.Sim.DA,
		DB:               c.Sim.DB,
		Feed:             c.Sim.Feed,
		Kill:             c.Sim.Kill,
		DissolveInterval: c.Sim.DissolveInterval,
		DissolveStrength: c.Sim.DissolveStrength,
		PointerRadius:    c.Sim.PointerRadius,
		CenterSeed:       c.Sim.CenterSeed,
		InitialClusters:  c.Sim.InitialClusters,
		ReseedClusters:   c.Sim.ReseedClusters,
		ResizeHysteresis: c.Sim.ResizeHysteresis,
		Workers:          c.Sim.Workers,
		Seed:             c.Sim.Seed,
		Palette:          c.Render.Palette,
		Color:            c.Render.Color,
		Colormap:         c.Render.Colormap,
	}
}

// Painter draws the current buffers of a frame. It runs after the step and
// before the swap, so it sees the state the step read from.
type Painter interface {
	Paint(p *field.Pair, r *render.Renderer)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(p *field.Pair, r *render.Renderer)

func (f PainterFunc) Paint(p *field.Pair, r *render.Renderer) { f(p, r) }

// Observer is notified after every completed frame.
type Observer interface {
	OnFrame(frame int64, now time.Time, p *field.Pair)
}
