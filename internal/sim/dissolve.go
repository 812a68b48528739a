package sim

import (
	"time"

	"github.com/san-kum/chatooly/internal/field"
)

// Dissolver decays the pattern toward the rest state once per interval.
// A non-positive interval disables it.
type Dissolver struct {
	Interval time.Duration
	Strength float64
	last     time.Time
}

func NewDissolver(interval time.Duration, strength float64, now time.Time) *Dissolver {
	return &Dissolver{Interval: interval, Strength: strength, last: now}
}

func (d *Dissolver) Last() time.Time { return d.last }

func (d *Dissolver) Reset(now time.Time) { d.last = now }

// Due reports whether strictly more than Interval has passed since the last
// dissolve.
func (d *Dissolver) Due(now time.Time) bool {
	return d.Interval > 0 && now.Sub(d.last) > d.Interval
}

// Decay moves every cell 1-Strength of the way to A = 1, B = 0 and writes
// the result to both buffers.
func (d *Dissolver) Decay(p *field.Pair) {
	t := 1 - d.Strength
	for i := 0; i < p.Cols(); i++ {
		for j := 0; j < p.Rows(); j++ {
			a := p.A.At(i, j)
			b := p.B.At(i, j)
			p.A.SetBoth(i, j, lerp(a, 1, t))
			p.B.SetBoth(i, j, lerp(b, 0, t))
		}
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
