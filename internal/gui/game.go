// Package gui is the desktop window host: an ebiten game that drives one
// reaction-diffusion session per window.
package gui

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/render"
	"github.com/san-kum/chatooly/internal/sim"
)

// Game implements ebiten.Game. The window's layout size is the session
// viewport in pixels; each grid cell is drawn CellSize pixels wide.
type Game struct {
	ctx     context.Context
	session *sim.Session
	log     *log.Logger

	texture *ebiten.Image
	pixels  []byte

	paused  bool
	showHUD bool
	pendW   int
	pendH   int
	touches []ebiten.TouchID
}

func NewGame(ctx context.Context, s *sim.Session, logger *log.Logger) *Game {
	return &Game{ctx: ctx, session: s, log: logger, showHUD: true}
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	now := time.Now()

	if g.pendW > 0 {
		w, h := g.session.Viewport()
		if g.pendW != w || g.pendH != h {
			if g.session.Resize(g.pendW, g.pendH, now) {
				cols, rows := g.session.Grid()
				g.log.Debug("window resized", "width", g.pendW, "height", g.pendH, "cols", cols, "rows", rows)
			}
		}
		g.pendW, g.pendH = 0, 0
	}

	g.handleKeys(now)
	g.session.SetPointer(g.pointer())
	if g.paused {
		return nil
	}
	g.session.Tick(now, sim.PainterFunc(g.paint))
	return nil
}

func (g *Game) handleKeys(now time.Time) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.session.Reset(now); err != nil {
			g.log.Error("reset failed", "err", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.session.Dissolve(now)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.session.NextPalette()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.showHUD = !g.showHUD
	}
}

// pointer reads the left mouse button, or the first touch, in layout
// pixels.
func (g *Game) pointer() sim.Pointer {
	g.touches = ebiten.AppendTouchIDs(g.touches[:0])
	if len(g.touches) > 0 {
		x, y := ebiten.TouchPosition(g.touches[0])
		return sim.Pointer{X: float64(x), Y: float64(y), Down: true}
	}
	x, y := ebiten.CursorPosition()
	return sim.Pointer{X: float64(x), Y: float64(y), Down: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)}
}

// paint uploads A at one texel per cell; Draw scales it up.
func (g *Game) paint(p *field.Pair, r *render.Renderer) {
	cols, rows := p.Cols(), p.Rows()
	if g.texture == nil || g.texture.Bounds() != image.Rect(0, 0, cols, rows) {
		if g.texture != nil {
			g.texture.Deallocate()
		}
		g.texture = ebiten.NewImage(cols, rows)
	}
	g.pixels = r.PixelBytes(p.A, g.pixels)
	g.texture.WritePixels(g.pixels)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.session.Renderer().Shade(1))
	if g.texture == nil {
		return
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	cs := float64(g.session.Renderer().CellSize)
	op.GeoM.Scale(cs, cs)
	screen.DrawImage(g.texture, op)

	if g.showHUD {
		cols, rows := g.session.Grid()
		state := "running"
		if g.paused {
			state = "paused"
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"%s  frame %d  grid %dx%d  tps %.0f  dissolves %d\nSPACE pause  R reseed  D dissolve  P palette  H hud  Q quit",
			state, g.session.Frame(), cols, rows, ebiten.ActualTPS(), g.session.Dissolves()))
	}
}

// Layout uses the outside size as the viewport. The resize is applied on
// the next Update so the session only changes inside the frame loop.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.pendW, g.pendH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
