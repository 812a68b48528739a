package metrics

import "github.com/san-kum/chatooly/internal/field"

// Coverage is the fraction of cells whose B exceeds threshold in the most
// recent observation.
type Coverage struct {
	name      string
	threshold float64
	value     float64
}

func NewCoverage(threshold float64) *Coverage {
	return &Coverage{name: "coverage", threshold: threshold}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) Observe(p *field.Pair) {
	c.value = fractionAbove(p.B, c.threshold)
}

func (c *Coverage) Value() float64 { return c.value }
func (c *Coverage) Reset()         { c.value = 0 }

// PeakCoverage tracks the largest coverage seen since Reset.
type PeakCoverage struct {
	threshold float64
	peak      float64
}

func NewPeakCoverage(threshold float64) *PeakCoverage {
	return &PeakCoverage{threshold: threshold}
}

func (c *PeakCoverage) Name() string { return "peak_coverage" }

func (c *PeakCoverage) Observe(p *field.Pair) {
	if v := fractionAbove(p.B, c.threshold); v > c.peak {
		c.peak = v
	}
}

func (c *PeakCoverage) Value() float64 { return c.peak }
func (c *PeakCoverage) Reset()         { c.peak = 0 }

func fractionAbove(f *field.Field, threshold float64) float64 {
	cells := f.Current()
	if len(cells) == 0 {
		return 0
	}
	n := 0
	for _, v := range cells {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(cells))
}
