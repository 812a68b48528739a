package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/render"
)

const halfBlock = "▀"

// Cells renders f as half blocks, one column per grid column and one line
// per two grid rows: the upper row is the foreground, the lower the
// background. Runs of identical cells share one style.
func Cells(f *field.Field, r *render.Renderer) string {
	var b strings.Builder
	for j := 0; j < f.Rows(); j += 2 {
		var run strings.Builder
		var runTop, runBot color.RGBA
		n := 0
		flush := func() {
			if n == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(runTop))).
				Background(lipgloss.Color(hex(runBot)))
			run.WriteString(style.Render(strings.Repeat(halfBlock, n)))
			n = 0
		}
		for i := 0; i < f.Cols(); i++ {
			top := r.Shade(f.At(i, j))
			bot := top
			if j+1 < f.Rows() {
				bot = r.Shade(f.At(i, j+1))
			}
			if n > 0 && (top != runTop || bot != runBot) {
				flush()
			}
			runTop, runBot = top, bot
			n++
		}
		flush()
		b.WriteString(run.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func hex(c color.RGBA) string { return render.RGB{R: c.R, G: c.G, B: c.B}.Hex() }
