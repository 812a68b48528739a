package viz

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/chatooly/internal/sim"
)

// Terminal is the "terminal" host surface: a full-screen bubbletea program
// with mouse cell motion.
type Terminal struct {
	Options Options
}

func (t *Terminal) Name() string { return "terminal" }

func (t *Terminal) Run(ctx context.Context, s *sim.Session) error {
	p := tea.NewProgram(NewModel(s, t.Options),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
