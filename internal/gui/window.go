package gui

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/san-kum/chatooly/internal/logging"
	"github.com/san-kum/chatooly/internal/sim"
)

// Window is the "window" host surface.
type Window struct {
	Title string
	FPS   int
	Log   *log.Logger
}

func (w *Window) Name() string { return "window" }

// Run opens a resizable window sized to the session viewport and blocks
// until it is closed or ctx is done.
func (w *Window) Run(ctx context.Context, s *sim.Session) error {
	logger := w.Log
	if logger == nil {
		logger = logging.Discard()
	}
	title := w.Title
	if title == "" {
		title = "chatooly"
	}
	if w.FPS > 0 {
		ebiten.SetTPS(w.FPS)
	}
	width, height := s.Viewport()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("opening window", "width", width, "height", height)
	return ebiten.RunGame(NewGame(ctx, s, logger))
}
