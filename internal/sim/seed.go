package sim

import (
	"math"
	"math/rand"

	"github.com/san-kum/chatooly/internal/field"
)

// seedCenter sets B = 1 on the centered square of side 2*half. Cells that
// fall off the grid are skipped, not wrapped.
func seedCenter(p *field.Pair, half int) {
	cols, rows := p.Cols(), p.Rows()
	lo := int(math.Floor(float64(cols)/2 - float64(half)))
	bo := int(math.Floor(float64(rows)/2 - float64(half)))
	for i := lo; i < lo+2*half; i++ {
		if i < 0 || i >= cols {
			continue
		}
		for j := bo; j < bo+2*half; j++ {
			if j < 0 || j >= rows {
				continue
			}
			p.B.Set(i, j, 1)
		}
	}
}

// seedClusters stamps n wrapped squares of B = 1 at random centers.
func seedClusters(p *field.Pair, rng *rand.Rand, n, radius int) {
	for k := 0; k < n; k++ {
		rx := rng.Intn(p.Cols())
		ry := rng.Intn(p.Rows())
		p.Stamp(rx, ry, radius, 1)
	}
}
