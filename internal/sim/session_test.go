package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/render"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testParams() Params {
	p := DefaultParams()
	p.Seed = 42
	return p
}

func newSession(t *testing.T, p Params, w, h int) *Session {
	t.Helper()
	s, err := New(p, w, h, t0)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func countB(p *field.Pair, v float64) int {
	n := 0
	for _, x := range p.B.Current() {
		if x == v {
			n++
		}
	}
	return n
}

func TestNew_Initializer(t *testing.T) {
	p := testParams()
	p.InitialClusters = 0
	s := newSession(t, p, 405, 300)

	cols, rows := s.Grid()
	if cols != 40 || rows != 30 {
		t.Fatalf("grid = %dx%d, want 40x30", cols, rows)
	}
	if n := countB(s.Pair(), 1); n != 100 {
		t.Errorf("center seed covers %d cells, want 100", n)
	}
	for i := 15; i < 25; i++ {
		for j := 10; j < 20; j++ {
			if s.Pair().B.At(i, j) != 1 {
				t.Fatalf("center cell (%d,%d) not seeded", i, j)
			}
		}
	}
	if s.Pair().A.At(0, 0) != 1 || s.Pair().A.Next(0, 0) != 1 {
		t.Error("A should start saturated in both buffers")
	}
}

func TestNew_RandomClusters(t *testing.T) {
	p := testParams()
	p.CenterSeed = 0
	s := newSession(t, p, 500, 500)

	n := countB(s.Pair(), 1)
	if n == 0 || n > 75 {
		t.Errorf("three 5x5 clusters should seed 1..75 cells, got %d", n)
	}
}

func TestNew_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		w, h   int
	}{
		{"zero cell size", func(p *Params) { p.CellSize = 0 }, 100, 100},
		{"viewport too small", func(p *Params) {}, 5, 100},
		{"bad strength", func(p *Params) { p.DissolveStrength = 2 }, 100, 100},
		{"bad palette", func(p *Params) { p.Palette = 99 }, 100, 100},
		{"bad color", func(p *Params) { p.Color = "pink" }, 100, 100},
		{"bad colormap", func(p *Params) { p.Colormap = "jet" }, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			if _, err := New(p, tt.w, tt.h, t0); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNew_SameSeedSameState(t *testing.T) {
	a := newSession(t, testParams(), 300, 200)
	b := newSession(t, testParams(), 300, 200)

	for i := 0; i < 20; i++ {
		now := t0.Add(time.Duration(i) * time.Second)
		a.Tick(now, nil)
		b.Tick(now, nil)
	}
	for k, v := range a.Pair().B.Current() {
		if b.Pair().B.Current()[k] != v {
			t.Fatal("sessions with the same seed diverged")
		}
	}
	if a.PaletteIndex() != b.PaletteIndex() {
		t.Error("palette choice should follow the seed")
	}
}

func TestNew_ResolvedSeedReproduces(t *testing.T) {
	p := testParams()
	p.Seed = 0
	a := newSession(t, p, 300, 200)
	if a.Seed() == 0 {
		t.Fatal("a time-based session should report the seed it drew")
	}

	p.Seed = a.Seed()
	b := newSession(t, p, 300, 200)
	if a.PaletteIndex() != b.PaletteIndex() {
		t.Error("replaying the seed should pick the same palette")
	}
	for k, v := range a.Pair().B.Current() {
		if b.Pair().B.Current()[k] != v {
			t.Fatal("replaying the seed should reproduce the initial clusters")
		}
	}
}

func TestTick_ClampsToUnitRange(t *testing.T) {
	s := newSession(t, testParams(), 320, 240)
	s.SetPointer(Pointer{X: 100, Y: 100, Down: true})

	now := t0
	for i := 0; i < 300; i++ {
		now = now.Add(100 * time.Millisecond)
		s.Tick(now, nil)
	}
	for _, f := range []*field.Field{s.Pair().A, s.Pair().B} {
		for _, v := range f.Current() {
			if v < 0 || v > 1 {
				t.Fatalf("value %g escaped [0,1]", v)
			}
		}
	}
	if s.Dissolves() != 1 {
		t.Errorf("30s of frames should dissolve once past 15s, got %d", s.Dissolves())
	}
}

func TestResize_Hysteresis(t *testing.T) {
	tests := []struct {
		name     string
		dCols    int
		dRows    int
		reinit   bool
		wantCols int
	}{
		{"delta 4 cols", 4, 0, false, 40},
		{"delta 5 cols", 5, 0, false, 40},
		{"delta 6 cols", 6, 0, true, 46},
		{"shrink 6 cols", -6, 0, true, 34},
		{"delta 6 rows", 0, 6, true, 40},
		{"delta 4 both", 4, -4, false, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, testParams(), 400, 300)
			s.Tick(t0.Add(time.Second), nil)
			before := s.Pair()

			later := t0.Add(5 * time.Second)
			got := s.Resize(400+tt.dCols*10, 300+tt.dRows*10, later)
			if got != tt.reinit {
				t.Fatalf("Resize reinit = %v, want %v", got, tt.reinit)
			}
			cols, _ := s.Grid()
			if cols != tt.wantCols {
				t.Errorf("cols = %d, want %d", cols, tt.wantCols)
			}
			if !tt.reinit && s.Pair() != before {
				t.Error("fields reallocated inside the hysteresis band")
			}
			if tt.reinit && !s.LastDissolve().Equal(later) {
				t.Error("reinit should reset the dissolve timer")
			}
		})
	}
}

func TestDissolver_DecayMovesFivePercent(t *testing.T) {
	p, _ := field.NewPair(3, 3)
	p.A.Set(1, 1, 0.2)
	p.B.Set(1, 1, 0.8)
	p.A.Set(0, 0, 0.6)
	p.B.Set(0, 0, 0.4)

	d := NewDissolver(15*time.Second, 0.95, t0)
	d.Decay(p)

	tests := []struct {
		i, j         int
		wantA, wantB float64
	}{
		{1, 1, 0.2 + 0.05*0.8, 0.8 * 0.95},
		{0, 0, 0.6 + 0.05*0.4, 0.4 * 0.95},
		{2, 2, 1, 0},
	}
	for _, tt := range tests {
		a, b := p.A.At(tt.i, tt.j), p.B.At(tt.i, tt.j)
		if math.Abs(a-tt.wantA) > 1e-12 || math.Abs(b-tt.wantB) > 1e-12 {
			t.Errorf("(%d,%d) = (%g,%g), want (%g,%g)", tt.i, tt.j, a, b, tt.wantA, tt.wantB)
		}
		if p.A.Next(tt.i, tt.j) != a || p.B.Next(tt.i, tt.j) != b {
			t.Errorf("(%d,%d) next buffer not updated", tt.i, tt.j)
		}
	}
}

func TestDissolver_Due(t *testing.T) {
	d := NewDissolver(15*time.Second, 0.95, t0)

	if d.Due(t0.Add(15 * time.Second)) {
		t.Error("exactly one interval is not yet due")
	}
	if !d.Due(t0.Add(15*time.Second + time.Millisecond)) {
		t.Error("past the interval should be due")
	}
	if NewDissolver(0, 0.95, t0).Due(t0.Add(time.Hour)) {
		t.Error("zero interval disables dissolving")
	}
}

func TestTick_DissolveOncePerTimestamp(t *testing.T) {
	p := testParams()
	p.ReseedClusters = 0
	s := newSession(t, p, 200, 200)

	at := t0.Add(16 * time.Second)
	s.Tick(at, nil)
	if s.Dissolves() != 1 {
		t.Fatalf("expected one dissolve, got %d", s.Dissolves())
	}
	s.Tick(at, nil)
	s.Tick(at, nil)
	if s.Dissolves() != 1 {
		t.Errorf("repeated ticks at the same time dissolved %d times", s.Dissolves())
	}
	s.Tick(at.Add(15*time.Second+time.Millisecond), nil)
	if s.Dissolves() != 2 {
		t.Errorf("next interval should dissolve again, got %d", s.Dissolves())
	}
}

func TestDissolve_Reseeds(t *testing.T) {
	p := testParams()
	p.CenterSeed, p.InitialClusters, p.ReseedClusters = 0, 0, 2
	s := newSession(t, p, 300, 300)

	s.Dissolve(t0.Add(time.Second))
	n := countB(s.Pair(), 1)
	if n == 0 || n > 18 {
		t.Errorf("two 3x3 clusters should seed 1..18 cells, got %d", n)
	}
}

func TestInject(t *testing.T) {
	p := testParams()
	p.CenterSeed, p.InitialClusters = 0, 0

	t.Run("inside", func(t *testing.T) {
		s := newSession(t, p, 200, 200)
		s.SetPointer(Pointer{X: 55, Y: 55, Down: true})
		s.inject()
		if n := countB(s.Pair(), 1); n != 121 {
			t.Errorf("radius 5 square should cover 121 cells, got %d", n)
		}
		if s.Pair().B.At(0, 0) != 1 || s.Pair().B.At(10, 10) != 1 || s.Pair().B.At(11, 11) != 0 {
			t.Error("square bounds wrong")
		}
	})

	t.Run("wraps at edge", func(t *testing.T) {
		s := newSession(t, p, 200, 200)
		s.SetPointer(Pointer{X: 1, Y: 1, Down: true})
		s.inject()
		if s.Pair().B.At(19, 19) != 1 || s.Pair().B.At(15, 0) != 1 {
			t.Error("injection should wrap to the far edges")
		}
	})

	t.Run("not pressed or outside", func(t *testing.T) {
		for _, ptr := range []Pointer{
			{X: 50, Y: 50, Down: false},
			{X: 0, Y: 50, Down: true},
			{X: 50, Y: 200, Down: true},
			{X: -5, Y: 50, Down: true},
		} {
			s := newSession(t, p, 200, 200)
			s.SetPointer(ptr)
			s.inject()
			if n := countB(s.Pair(), 1); n != 0 {
				t.Errorf("pointer %+v injected %d cells", ptr, n)
			}
		}
	})
}

func TestTick_PaintsBeforeSwap(t *testing.T) {
	p := testParams()
	p.InitialClusters = 0
	s := newSession(t, p, 200, 200)

	want := s.Pair().A.At(10, 10)
	var painted float64
	s.Tick(t0.Add(time.Millisecond), PainterFunc(func(pair *field.Pair, r *render.Renderer) {
		painted = pair.A.At(10, 10)
	}))

	if painted != want {
		t.Errorf("painter saw A=%g, want pre-step value %g", painted, want)
	}
	if s.Pair().A.At(10, 10) == want {
		t.Error("after the swap the stepped state should be current")
	}
	if s.Frame() != 1 {
		t.Errorf("frame = %d, want 1", s.Frame())
	}
}

func TestNextPalette(t *testing.T) {
	p := testParams()
	p.Palette = 11
	s := newSession(t, p, 100, 100)
	s.NextPalette()
	if s.PaletteIndex() != 0 || s.Renderer().Color != render.Pastels[0] {
		t.Error("palette should wrap to the first pastel")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newSession(t, testParams(), 100, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := Run(ctx, s, 100, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if s.Frame() == 0 {
		t.Error("expected some frames before cancellation")
	}
	if err := Run(context.Background(), s, 0, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero fps, got %v", err)
	}
}

func TestRunFrames(t *testing.T) {
	s := newSession(t, testParams(), 100, 100)
	end, err := RunFrames(context.Background(), s, 10, t0, 100*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("run frames: %v", err)
	}
	if s.Frame() != 10 || !end.Equal(t0.Add(time.Second)) {
		t.Errorf("frame=%d end=%v", s.Frame(), end)
	}
}
