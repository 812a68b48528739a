package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/san-kum/chatooly/internal/field"
)

// Renderer maps chemical A onto colors. A = 1 (undisturbed) is white and
// A = 0 (fully reacted) is the session color.
type Renderer struct {
	CellSize int
	Color    RGB
	table    *[256]RGB
	mapName  string
}

func New(cellSize int, c RGB) *Renderer {
	if cellSize < 1 {
		cellSize = 1
	}
	return &Renderer{CellSize: cellSize, Color: c}
}

// WithColormap switches shading to a named gradient indexed by 1-A.
// An empty name restores the palette blend.
func (r *Renderer) WithColormap(name string) (*Renderer, error) {
	if name == "" {
		r.table, r.mapName = nil, ""
		return r, nil
	}
	t, err := lut(name)
	if err != nil {
		return nil, err
	}
	r.table, r.mapName = t, name
	return r, nil
}

func (r *Renderer) Colormap() string { return r.mapName }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Shade returns the color for a cell whose A value is v.
func (r *Renderer) Shade(v float64) color.RGBA {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	t := 1 - v
	if r.table != nil {
		c := r.table[int(math.Round(t*255))]
		return color.RGBA{c.R, c.G, c.B, 255}
	}
	return color.RGBA{
		R: uint8(math.Round(lerp(255, float64(r.Color.R), t))),
		G: uint8(math.Round(lerp(255, float64(r.Color.G), t))),
		B: uint8(math.Round(lerp(255, float64(r.Color.B), t))),
		A: 255,
	}
}

// Bounds is the pixel size of a rendered field.
func (r *Renderer) Bounds(f *field.Field) image.Rectangle {
	return image.Rect(0, 0, f.Cols()*r.CellSize, f.Rows()*r.CellSize)
}

// Paint draws every cell of f as an unstroked CellSize square into dst.
func (r *Renderer) Paint(dst draw.Image, f *field.Field) {
	s := r.CellSize
	for i := 0; i < f.Cols(); i++ {
		for j := 0; j < f.Rows(); j++ {
			rect := image.Rect(i*s, j*s, (i+1)*s, (j+1)*s)
			draw.Draw(dst, rect, &image.Uniform{C: r.Shade(f.At(i, j))}, image.Point{}, draw.Src)
		}
	}
}

func (r *Renderer) Image(f *field.Field) *image.RGBA {
	img := image.NewRGBA(r.Bounds(f))
	r.Paint(img, f)
	return img
}

// PixelBytes renders f at one pixel per cell into buf (RGBA order) and
// returns it, growing buf when needed.
func (r *Renderer) PixelBytes(f *field.Field, buf []byte) []byte {
	n := f.Cols() * f.Rows() * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	cols := f.Cols()
	for i := 0; i < cols; i++ {
		for j := 0; j < f.Rows(); j++ {
			c := r.Shade(f.At(i, j))
			k := (j*cols + i) * 4
			buf[k], buf[k+1], buf[k+2], buf[k+3] = c.R, c.G, c.B, c.A
		}
	}
	return buf
}
