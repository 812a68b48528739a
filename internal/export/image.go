package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"

	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/render"
)

func PNG(w io.Writer, f *field.Field, r *render.Renderer) error {
	return png.Encode(w, r.Image(f))
}

// GIFRecorder buffers frames of one session for an animated GIF. Frames
// are quantized to the 256 shades the renderer can produce.
type GIFRecorder struct {
	Delay   int
	palette color.Palette
	frames  []*image.Paletted
}

// NewGIFRecorder records at delay hundredths of a second per frame.
func NewGIFRecorder(r *render.Renderer, delay int) *GIFRecorder {
	pal := make(color.Palette, 256)
	for k := range pal {
		pal[k] = r.Shade(1 - float64(k)/255)
	}
	if delay < 1 {
		delay = 1
	}
	return &GIFRecorder{Delay: delay, palette: pal}
}

func (g *GIFRecorder) Add(f *field.Field, r *render.Renderer) {
	src := r.Image(f)
	dst := image.NewPaletted(src.Bounds(), g.palette)
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	g.frames = append(g.frames, dst)
}

func (g *GIFRecorder) Len() int { return len(g.frames) }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return fmt.Errorf("export: no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, fr := range g.frames {
		anim.Image = append(anim.Image, fr)
		anim.Delay = append(anim.Delay, g.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save writes the animation to path.
func (g *GIFRecorder) Save(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Encode(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
