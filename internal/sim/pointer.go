package sim

import "math"

// Pointer is the host's pointer state in viewport pixels.
type Pointer struct {
	X, Y float64
	Down bool
}

// inside uses open bounds: the pointer must be strictly within the viewport.
func (p Pointer) inside(width, height int) bool {
	return p.X > 0 && p.X < float64(width) && p.Y > 0 && p.Y < float64(height)
}

func (p Pointer) cell(cellSize int) (int, int) {
	return int(math.Floor(p.X / float64(cellSize))), int(math.Floor(p.Y / float64(cellSize)))
}
