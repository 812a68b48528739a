package sim

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/chatooly/internal/metrics"
)

func TestBatch_Run(t *testing.T) {
	b := NewBatch(testParams(), 160, 120, 20, 100*time.Millisecond)
	results, err := b.Run(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != int64(i+1) || r.Frames != 20 {
			t.Errorf("result %d: %+v", i, r)
		}
		if _, ok := r.Metrics["coverage"]; !ok {
			t.Errorf("result %d missing coverage", i)
		}
	}
}

func TestBatch_InvalidParams(t *testing.T) {
	p := testParams()
	p.CellSize = 0
	if _, err := NewBatch(p, 100, 100, 5, time.Millisecond).Run(context.Background(), []int64{1}); err == nil {
		t.Error("expected error from invalid params")
	}
}

func TestRecorder_SamplesEveryN(t *testing.T) {
	s := newSession(t, testParams(), 100, 100)
	rec := NewRecorder(5, metrics.NewCoverage(0.25), metrics.NewMeanB())
	s.AddObserver(rec)

	if _, err := RunFrames(context.Background(), s, 20, t0, time.Second, nil); err != nil {
		t.Fatal(err)
	}
	series := rec.Series()
	if series.Len() != 4 {
		t.Fatalf("expected 4 samples, got %d", series.Len())
	}
	if len(series.Values["coverage"]) != 4 || len(series.Values["mean_b"]) != 4 {
		t.Error("every metric should have one value per sample")
	}
	if series.Times[0] != 4 {
		t.Errorf("first sample at frame 5 should be 4s after frame 1, got %g", series.Times[0])
	}
}

func TestBatch_PeakCoversEveryFrame(t *testing.T) {
	p := testParams()
	p.DissolveInterval = 4500 * time.Millisecond
	p.DissolveStrength = 0.95
	// The dissolve lands on the last of five one-second frames.
	results, err := NewBatch(p, 200, 200, 5, time.Second).Run(context.Background(), []int64{3})
	if err != nil {
		t.Fatal(err)
	}
	m := results[0].Metrics
	if results[0].Dissolve != 1 {
		t.Fatalf("dissolves = %d, want 1", results[0].Dissolve)
	}
	if m["peak_coverage"] <= m["coverage"] {
		t.Errorf("peak %.4f should exceed post-dissolve coverage %.4f", m["peak_coverage"], m["coverage"])
	}
}
