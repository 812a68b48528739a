package viz

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/chatooly/internal/export"
	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/metrics"
	"github.com/san-kum/chatooly/internal/render"
	"github.com/san-kum/chatooly/internal/sim"
)

const (
	sidebarWidth    = 34
	historyCapacity = 240
	maskThreshold   = 0.25
	gifPath         = "chatooly.gif"
	pngPath         = "chatooly.png"
)

type TickMsg time.Time

type viewMode int

const (
	modeCells viewMode = iota
	modeMask
)

// Options tune the terminal view.
type Options struct {
	FPS   int
	Theme string
	Mask  bool
}

// Model is the bubbletea model of a live session. The session runs one
// frame per TickMsg; mouse and resize messages are forwarded to it.
type Model struct {
	session   *sim.Session
	fps       int
	theme     Theme
	styles    styles
	mode      viewMode
	running   bool
	showHelp  bool
	termW     int
	termH     int
	screen    string
	coverage  metrics.Metric
	history   []float64
	now       time.Time
	lastTick  time.Time
	fpsEst    float64
	recording *export.GIFRecorder
	status    string
}

func NewModel(s *sim.Session, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	theme := GetTheme(opts.Theme)
	m := Model{
		session:  s,
		fps:      opts.FPS,
		theme:    theme,
		styles:   newStyles(theme),
		running:  true,
		coverage: metrics.NewCoverage(maskThreshold),
		history:  make([]float64, 0, historyCapacity),
		now:      s.LastDissolve(),
	}
	if opts.Mask {
		m.mode = modeMask
	}
	m.screen = m.paint(s.Pair(), s.Renderer())
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
		m.fit()
	case tea.MouseMsg:
		m.session.SetPointer(m.pointer(msg))
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
				m.fpsEst = 0.9*m.fpsEst + 0.1/dt
			}
		}
		m.lastTick = now
		if m.running {
			m.step(now)
		}
		return m, m.tick()
	}
	return m, nil
}

// step runs one session frame, painting the terminal view at the point of
// the frame where the renderer runs.
func (m *Model) step(now time.Time) {
	m.now = now
	m.session.Tick(now, sim.PainterFunc(func(p *field.Pair, r *render.Renderer) {
		m.screen = m.paint(p, r)
		if m.recording != nil && m.session.Frame()%2 == 0 {
			m.recording.Add(p.A, r)
		}
	}))
	m.coverage.Observe(m.session.Pair())
	if len(m.history) == historyCapacity {
		m.history = append(m.history[:0], m.history[1:]...)
	}
	m.history = append(m.history, m.coverage.Value())
}

func (m Model) paint(p *field.Pair, r *render.Renderer) string {
	if m.mode == modeMask {
		cols, rows := p.Cols(), p.Rows()
		c := NewCanvas((cols+1)/2, (rows+3)/4)
		c.Mask(p.B, maskThreshold)
		return lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color.Hex())).Render(c.String())
	}
	return Cells(p.A, r)
}

// density is how many grid cells one terminal character covers.
func (m Model) density() (dx, dy int) {
	if m.mode == modeMask {
		return 2, 4
	}
	return 1, 2
}

// fit resizes the session to the terminal area left of the sidebar.
func (m *Model) fit() {
	if m.termW == 0 {
		return
	}
	w := max(m.termW-sidebarWidth, 8)
	h := max(m.termH-1, 4)
	dx, dy := m.density()
	cell := m.session.Params().CellSize
	m.session.Resize(w*dx*cell, h*dy*cell, m.now)
}

// pointer converts a terminal mouse event to viewport pixels at the
// center of the grid cell under the cursor.
func (m Model) pointer(msg tea.MouseMsg) sim.Pointer {
	dx, dy := m.density()
	cell := float64(m.session.Params().CellSize)
	p := sim.Pointer{
		X: (float64(msg.X*dx) + 0.5) * cell,
		Y: (float64(msg.Y*dy) + 0.5) * cell,
	}
	switch msg.Action {
	case tea.MouseActionPress, tea.MouseActionMotion:
		p.Down = msg.Button == tea.MouseButtonLeft
	}
	return p
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording != nil {
			m.saveGIF()
		}
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "r":
		if err := m.session.Reset(m.now); err != nil {
			m.status = err.Error()
		}
		m.history = m.history[:0]
	case "d":
		m.session.Dissolve(m.now)
	case "p":
		m.session.NextPalette()
	case "c":
		m.cycleColormap()
	case "m":
		if m.mode == modeCells {
			m.mode = modeMask
		} else {
			m.mode = modeCells
		}
		m.fit()
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "g":
		if m.recording != nil {
			m.saveGIF()
		} else {
			m.recording = export.NewGIFRecorder(m.session.Renderer(), gifDelay(m.fps))
			m.status = "recording"
		}
	case "s":
		m.savePNG()
	case "?":
		m.showHelp = !m.showHelp
	}
	m.screen = m.paint(m.session.Pair(), m.session.Renderer())
	return m, nil
}

func (m *Model) cycleColormap() {
	names := append([]string{""}, render.ColormapNames()...)
	cur := m.session.Renderer().Colormap()
	next := names[0]
	for i, n := range names {
		if n == cur {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if _, err := m.session.Renderer().WithColormap(next); err != nil {
		m.status = err.Error()
	}
}

// gifDelay is the per-frame delay, in hundredths of a second, for a
// recording that keeps every other frame at fps.
func gifDelay(fps int) int {
	if fps <= 0 {
		fps = 30
	}
	return max(200/fps, 1)
}

func (m *Model) saveGIF() {
	n := m.recording.Len()
	if err := m.recording.Save(gifPath); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %s (%d frames)", gifPath, n)
	}
	m.recording = nil
}

func (m *Model) savePNG() {
	f, err := os.Create(pngPath)
	if err != nil {
		m.status = err.Error()
		return
	}
	defer f.Close()
	if err := export.PNG(f, m.session.Pair().A, m.session.Renderer()); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "saved " + pngPath
}

func (m Model) View() string {
	if m.showHelp {
		return m.help()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.screen, m.sidebar())
}

func (m Model) sidebar() string {
	st := m.styles
	s := m.session
	var b strings.Builder

	b.WriteString(st.header.Render(GradientText("CHATOOLY", string(m.theme.Primary), string(m.theme.Secondary))) + "\n")
	switch {
	case m.recording != nil:
		b.WriteString(st.paused.Render("● REC") + "\n\n")
	case m.running:
		b.WriteString(st.running.Render(AnimatedSpinner(s.Frame())+" RUNNING") + "\n\n")
	default:
		b.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	cols, rows := s.Grid()
	row := func(label, value string) {
		b.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", s.Frame()))
	row("FPS", fmt.Sprintf("%.0f", m.fpsEst))
	row("Grid", fmt.Sprintf("%dx%d", cols, rows))
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Renderer().Color.Hex())).Render("██")
	row("Palette", swatch+" "+s.Renderer().Color.Hex())
	if cm := s.Renderer().Colormap(); cm != "" {
		row("Colormap", cm)
	}
	row("Feed/Kill", fmt.Sprintf("%.4f/%.4f", s.Model().Feed, s.Model().Kill))
	row("Dissolves", fmt.Sprintf("%d", s.Dissolves()))

	if iv := s.Params().DissolveInterval; iv > 0 {
		frac := float64(m.now.Sub(s.LastDissolve())) / float64(iv)
		b.WriteString(st.label.Render("Next") + st.ProgressBar(frac, sidebarWidth-16) + "\n")
	}

	cov := 0.0
	if n := len(m.history); n > 0 {
		cov = m.history[n-1]
	}
	row("Coverage", fmt.Sprintf("%.1f%%", cov*100))
	b.WriteString(st.Sparkline(m.history, sidebarWidth-4) + "\n")
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(sidebarWidth-12), asciigraph.Precision(2))
		b.WriteString(st.graph.Render(chart) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + st.value.Render(m.status) + "\n")
	}
	b.WriteString("\n" + st.hint.Render("SP:Pause R:Reset D:Dissolve\nP:Palette C:Colormap M:Mask\nT:Theme G:GIF S:PNG ?:Help Q:Quit"))
	return st.panel.Render(b.String())
}

func (m Model) help() string {
	return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reseed the field         ║
║  D        - Dissolve now             ║
║  P        - Next pastel              ║
║  C        - Cycle colormap           ║
║  M        - Toggle braille mask      ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  S        - Save PNG snapshot        ║
║  Mouse    - Drag to inject B         ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
`
}
