package field

// Stencil is a 3x3 convolution kernel indexed [di+1][dj+1].
type Stencil [3][3]float64

// LaplacianStencil is the weighted nine-point Laplacian used by the
// simulation: center -1, orthogonal neighbors 0.2, diagonals 0.05.
var LaplacianStencil = Stencil{
	{0.05, 0.2, 0.05},
	{0.2, -1, 0.2},
	{0.05, 0.2, 0.05},
}

// Sum of all weights.
func (s Stencil) Sum() float64 {
	total := 0.0
	for _, row := range s {
		for _, w := range row {
			total += w
		}
	}
	return total
}

// Apply convolves the current buffer at (i, j) with wrapped neighbors.
func (s Stencil) Apply(f *Field, i, j int) float64 {
	il, ir := i-1, i+1
	if il < 0 {
		il = f.cols - 1
	}
	if ir >= f.cols {
		ir = 0
	}
	jd, ju := j-1, j+1
	if jd < 0 {
		jd = f.rows - 1
	}
	if ju >= f.rows {
		ju = 0
	}
	c := f.current
	r := f.rows
	return s[0][0]*c[il*r+jd] + s[0][1]*c[il*r+j] + s[0][2]*c[il*r+ju] +
		s[1][0]*c[i*r+jd] + s[1][1]*c[i*r+j] + s[1][2]*c[i*r+ju] +
		s[2][0]*c[ir*r+jd] + s[2][1]*c[ir*r+j] + s[2][2]*c[ir*r+ju]
}

// Laplacian applies LaplacianStencil at (i, j).
func Laplacian(f *Field, i, j int) float64 {
	return LaplacianStencil.Apply(f, i, j)
}
