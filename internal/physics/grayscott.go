package physics

import (
	"fmt"

	"github.com/san-kum/chatooly/internal/compute"
	"github.com/san-kum/chatooly/internal/field"
)

const (
	DefaultDA   = 1.0
	DefaultDB   = 0.5
	DefaultFeed = 0.055
	DefaultKill = 0.062
)

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// GrayScott is the discretized Gray-Scott update with unit time step.
type GrayScott struct {
	DA, DB, Feed, Kill float64
	backend            compute.Backend
}

func NewGrayScott() *GrayScott {
	return &GrayScott{
		DA:      DefaultDA,
		DB:      DefaultDB,
		Feed:    DefaultFeed,
		Kill:    DefaultKill,
		backend: compute.NewSerialBackend(),
	}
}

// WithBackend sets the backend that partitions columns across workers.
func (g *GrayScott) WithBackend(b compute.Backend) *GrayScott {
	if b != nil {
		g.backend = b
	}
	return g
}

func (g *GrayScott) Backend() compute.Backend { return g.backend }

// Reaction is the A*B^2 conversion term.
func Reaction(a, b float64) float64 { return a * b * b }

// Step reads the current buffers of p and writes the next buffers. It does
// not swap.
func (g *GrayScott) Step(p *field.Pair) {
	a, b := p.A, p.B
	rows := p.Rows()
	g.backend.Range(p.Cols(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < rows; j++ {
				ca := a.At(i, j)
				cb := b.At(i, j)
				r := Reaction(ca, cb)

				lapA := field.Laplacian(a, i, j)
				lapB := field.Laplacian(b, i, j)

				a.SetNext(i, j, clamp01(ca+g.DA*lapA-r+g.Feed*(1-ca)))
				b.SetNext(i, j, clamp01(cb+g.DB*lapB+r-(g.Kill+g.Feed)*cb))
			}
		}
	})
}

func (g *GrayScott) GetParams() map[string]float64 {
	return map[string]float64{"dA": g.DA, "dB": g.DB, "feed": g.Feed, "kill": g.Kill}
}

func (g *GrayScott) SetParam(n string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s=%g", ErrParameterBounds, n, v)
	}
	switch n {
	case "dA":
		g.DA = v
	case "dB":
		g.DB = v
	case "feed":
		g.Feed = v
	case "kill":
		g.Kill = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, n)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
