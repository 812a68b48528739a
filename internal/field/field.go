package field

import "fmt"

// Field is a toroidal grid of scalars with explicit current and next buffers.
// Cells are stored column-major: index = i*rows + j.
type Field struct {
	cols, rows int
	current    []float64
	next       []float64
}

func New(cols, rows int) (*Field, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, cols, rows)
	}
	return &Field{
		cols:    cols,
		rows:    rows,
		current: make([]float64, cols*rows),
		next:    make([]float64, cols*rows),
	}, nil
}

func (f *Field) Cols() int { return f.cols }
func (f *Field) Rows() int { return f.rows }
func (f *Field) Len() int  { return len(f.current) }

func (f *Field) index(i, j int) int { return i*f.rows + j }

// Wrap maps any (i, j) onto the torus.
func (f *Field) Wrap(i, j int) (int, int) {
	i %= f.cols
	if i < 0 {
		i += f.cols
	}
	j %= f.rows
	if j < 0 {
		j += f.rows
	}
	return i, j
}

// At reads the current buffer. Coordinates must already be in range.
func (f *Field) At(i, j int) float64 { return f.current[f.index(i, j)] }

// AtWrapped reads the current buffer after toroidal wrapping.
func (f *Field) AtWrapped(i, j int) float64 {
	i, j = f.Wrap(i, j)
	return f.current[f.index(i, j)]
}

func (f *Field) Set(i, j int, v float64) { f.current[f.index(i, j)] = v }

func (f *Field) SetWrapped(i, j int, v float64) {
	i, j = f.Wrap(i, j)
	f.current[f.index(i, j)] = v
}

func (f *Field) Next(i, j int) float64 { return f.next[f.index(i, j)] }

func (f *Field) SetNext(i, j int, v float64) { f.next[f.index(i, j)] = v }

// SetBoth writes v into both buffers so a later swap cannot undo it.
func (f *Field) SetBoth(i, j int, v float64) {
	k := f.index(i, j)
	f.current[k] = v
	f.next[k] = v
}

// Fill sets every cell of both buffers to v.
func (f *Field) Fill(v float64) {
	for k := range f.current {
		f.current[k] = v
		f.next[k] = v
	}
}

// Current exposes the read buffer. Callers must not retain it across a swap.
func (f *Field) Current() []float64 { return f.current }

func (f *Field) Clone() *Field {
	c := &Field{
		cols:    f.cols,
		rows:    f.rows,
		current: make([]float64, len(f.current)),
		next:    make([]float64, len(f.next)),
	}
	copy(c.current, f.current)
	copy(c.next, f.next)
	return c
}

// Mean of the current buffer.
func (f *Field) Mean() float64 {
	if len(f.current) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range f.current {
		sum += v
	}
	return sum / float64(len(f.current))
}

func (f *Field) swap() { f.current, f.next = f.next, f.current }
