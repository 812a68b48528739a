package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/chatooly/internal/compute"
	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/physics"
	"github.com/san-kum/chatooly/internal/render"
)

// Session owns one reaction-diffusion simulation: its fields, palette
// choice, dissolve timer and pointer state. A session is driven by exactly
// one frame loop; it is not safe for concurrent use.
type Session struct {
	params        Params
	width, height int
	pair          *field.Pair
	model         *physics.GrayScott
	renderer      *render.Renderer
	paletteIndex  int
	seed          int64
	rng           *rand.Rand
	dissolver     *Dissolver
	pointer       Pointer
	frame         int64
	dissolves     int
	observers     []Observer
}

// New builds a session for a width x height pixel viewport and runs the
// initializer. now starts the dissolve timer.
func New(p Params, width, height int, now time.Time) (*Session, error) {
	if err := p.validate(width, height); err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	color, idx, err := pickColor(p, rng)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New(p.CellSize, color).WithColormap(p.Colormap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	model := physics.NewGrayScott().WithBackend(compute.Select(p.Workers))
	model.DA, model.DB, model.Feed, model.Kill = p.DA, p.DB, p.Feed, p.Kill

	s := &Session{
		params:       p,
		width:        width,
		height:       height,
		model:        model,
		renderer:     renderer,
		paletteIndex: idx,
		seed:         seed,
		rng:          rng,
		dissolver:    NewDissolver(p.DissolveInterval, p.DissolveStrength, now),
	}
	if err := s.Reset(now); err != nil {
		return nil, err
	}
	return s, nil
}

func (p Params) validate(width, height int) error {
	switch {
	case p.CellSize <= 0:
		return fmt.Errorf("%w: cell size %d", ErrInvalidConfig, p.CellSize)
	case width < p.CellSize || height < p.CellSize:
		return fmt.Errorf("%w: viewport %dx%d smaller than one cell", ErrInvalidConfig, width, height)
	case p.DissolveStrength < 0 || p.DissolveStrength > 1:
		return fmt.Errorf("%w: dissolve strength %g", ErrInvalidConfig, p.DissolveStrength)
	case p.Palette >= len(render.Pastels):
		return fmt.Errorf("%w: palette index %d", ErrInvalidConfig, p.Palette)
	case p.PointerRadius < 0 || p.CenterSeed < 0 || p.ResizeHysteresis < 0:
		return fmt.Errorf("%w: negative radius or hysteresis", ErrInvalidConfig)
	}
	return nil
}

func pickColor(p Params, rng *rand.Rand) (render.RGB, int, error) {
	if p.Color != "" {
		c, err := render.ParseHex(p.Color)
		if err != nil {
			return render.RGB{}, -1, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return c, -1, nil
	}
	if p.Palette >= 0 {
		return render.Pastels[p.Palette], p.Palette, nil
	}
	c, idx := render.PickPastel(rng)
	return c, idx, nil
}

// Reset allocates the grid for the current viewport, seeds it and restarts
// the dissolve timer.
func (s *Session) Reset(now time.Time) error {
	cols, rows := s.width/s.params.CellSize, s.height/s.params.CellSize
	pair, err := field.NewPair(cols, rows)
	if err != nil {
		return err
	}
	seedCenter(pair, s.params.CenterSeed)
	seedClusters(pair, s.rng, s.params.InitialClusters, 2)
	s.pair = pair
	s.dissolver.Reset(now)
	return nil
}

// Resize records the new viewport and reinitializes only when the grid
// changes by more than the hysteresis band in either dimension.
func (s *Session) Resize(width, height int, now time.Time) bool {
	if width < s.params.CellSize || height < s.params.CellSize {
		return false
	}
	s.width, s.height = width, height
	newCols, newRows := width/s.params.CellSize, height/s.params.CellSize
	h := s.params.ResizeHysteresis
	if absInt(newCols-s.pair.Cols()) <= h && absInt(newRows-s.pair.Rows()) <= h {
		return false
	}
	// Reset cannot fail here: both dimensions are at least one cell.
	_ = s.Reset(now)
	return true
}

func (s *Session) SetPointer(p Pointer) { s.pointer = p }

// Tick runs one frame: dissolve check, pointer injection, step, paint, swap.
func (s *Session) Tick(now time.Time, painter Painter) {
	if s.dissolver.Due(now) {
		s.dissolve(now)
	}
	s.inject()
	s.model.Step(s.pair)
	if painter != nil {
		painter.Paint(s.pair, s.renderer)
	}
	s.pair.Swap()
	s.frame++
	for _, o := range s.observers {
		o.OnFrame(s.frame, now, s.pair)
	}
}

// Dissolve forces a decay-and-reseed and restarts the timer.
func (s *Session) Dissolve(now time.Time) { s.dissolve(now) }

func (s *Session) dissolve(now time.Time) {
	s.dissolver.Decay(s.pair)
	seedClusters(s.pair, s.rng, s.params.ReseedClusters, 1)
	s.dissolver.Reset(now)
	s.dissolves++
}

func (s *Session) inject() {
	if !s.pointer.Down || !s.pointer.inside(s.width, s.height) {
		return
	}
	mx, my := s.pointer.cell(s.params.CellSize)
	s.pair.Stamp(mx, my, s.params.PointerRadius, 1)
}

// NextPalette cycles to the following pastel.
func (s *Session) NextPalette() {
	s.paletteIndex = (s.paletteIndex + 1) % len(render.Pastels)
	s.renderer.Color = render.Pastels[s.paletteIndex]
}

func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Session) Pair() *field.Pair          { return s.pair }
func (s *Session) Model() *physics.GrayScott  { return s.model }
func (s *Session) Renderer() *render.Renderer { return s.renderer }
func (s *Session) Params() Params             { return s.params }
func (s *Session) Frame() int64               { return s.frame }
func (s *Session) Dissolves() int             { return s.dissolves }
func (s *Session) PaletteIndex() int          { return s.paletteIndex }
func (s *Session) Seed() int64                { return s.seed }
func (s *Session) Viewport() (int, int)       { return s.width, s.height }
func (s *Session) LastDissolve() time.Time    { return s.dissolver.Last() }
func (s *Session) Grid() (cols, rows int)     { return s.pair.Cols(), s.pair.Rows() }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
