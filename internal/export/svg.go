// Package export writes rendered fields to PNG, GIF and SVG files.
package export

import (
	"bufio"
	"fmt"
	"image/color"
	"io"

	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/render"
)

// FieldSVG writes f over a background of the rest color, with one rect
// per horizontal run of equal-colored cells.
func FieldSVG(w io.Writer, f *field.Field, r *render.Renderer) error {
	bw := bufio.NewWriter(w)
	s := r.CellSize
	width, height := f.Cols()*s, f.Rows()*s
	rest := r.Shade(1)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(rest))

	for j := 0; j < f.Rows(); j++ {
		for i := 0; i < f.Cols(); {
			c := r.Shade(f.At(i, j))
			n := 1
			for i+n < f.Cols() && r.Shade(f.At(i+n, j)) == c {
				n++
			}
			if c != rest {
				fmt.Fprintf(bw, "<rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n",
					i*s, j*s, n*s, s, hex(c))
			}
			i += n
		}
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func hex(c color.RGBA) string { return render.RGB{R: c.R, G: c.G, B: c.B}.Hex() }

// MaskSVG draws a dot for every cell of f above threshold.
func MaskSVG(w io.Writer, f *field.Field, threshold, scale float64, fill string) error {
	bw := bufio.NewWriter(w)
	width, height := float64(f.Cols())*scale, float64(f.Rows())*scale
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, fill)

	radius := scale * 0.4
	for i := 0; i < f.Cols(); i++ {
		for j := 0; j < f.Rows(); j++ {
			if f.At(i, j) <= threshold {
				continue
			}
			cx := float64(i)*scale + scale/2
			cy := float64(j)*scale + scale/2
			fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius)
		}
	}
	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}
