package field

import "fmt"

// Pair holds the two chemical fields of a Gray-Scott system. Both fields
// always share a shape and change buffer roles together.
type Pair struct {
	A *Field
	B *Field
}

// NewPair allocates A and B in the undisturbed substrate state:
// A = 1 and B = 0 in both buffers.
func NewPair(cols, rows int) (*Pair, error) {
	a, err := New(cols, rows)
	if err != nil {
		return nil, err
	}
	b, err := New(cols, rows)
	if err != nil {
		return nil, err
	}
	a.Fill(1)
	return &Pair{A: a, B: b}, nil
}

func (p *Pair) Cols() int { return p.A.cols }
func (p *Pair) Rows() int { return p.A.rows }

func (p *Pair) Validate() error {
	if p.A == nil || p.B == nil {
		return fmt.Errorf("%w: missing field", ErrDimensionMismatch)
	}
	if p.A.cols != p.B.cols || p.A.rows != p.B.rows {
		return fmt.Errorf("%w: A is %dx%d, B is %dx%d",
			ErrDimensionMismatch, p.A.cols, p.A.rows, p.B.cols, p.B.rows)
	}
	return nil
}

// Swap exchanges current and next for both fields.
func (p *Pair) Swap() {
	p.A.swap()
	p.B.swap()
}

// Stamp sets B.current to v on the square of the given radius around
// (ci, cj), wrapping toroidally.
func (p *Pair) Stamp(ci, cj, radius int, v float64) {
	for i := ci - radius; i <= ci+radius; i++ {
		for j := cj - radius; j <= cj+radius; j++ {
			p.B.SetWrapped(i, j, v)
		}
	}
}

func (p *Pair) Clone() *Pair {
	return &Pair{A: p.A.Clone(), B: p.B.Clone()}
}
