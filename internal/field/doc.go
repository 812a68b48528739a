// Package field provides the double-buffered scalar grids that back the
// reaction-diffusion simulation.
//
// A [Field] is a cols x rows grid holding two buffers, current and next.
// Steppers read only from current and write only to next, so the update
// order inside a step never matters. The two chemical fields of a
// simulation live in a [Pair], and [Pair.Swap] exchanges the buffer roles
// of both fields at once:
//
//	p, _ := field.NewPair(cols, rows)
//	p.A.Fill(1)
//	// ... write p.A.SetNext / p.B.SetNext for every cell ...
//	p.Swap()
//
// All neighbor lookups go through [Field.Wrap], which applies toroidal
// boundary conditions, so the grid has no edges.
//
// # Thread Safety
//
// Fields are NOT safe for concurrent mutation. Concurrent readers of
// current are fine while each writer owns a disjoint range of next.
package field
