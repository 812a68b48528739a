package sim

import (
	"time"

	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/metrics"
)

// Series is a sampled metric history.
type Series struct {
	Frames  []int64              `json:"frames"`
	Times   []float64            `json:"times"`
	Values  map[string][]float64 `json:"values"`
	Metrics []string             `json:"metrics"`
}

func (s *Series) Len() int { return len(s.Frames) }

// Recorder samples metrics every Every frames. Times are seconds since the
// first observed frame.
type Recorder struct {
	Every   int
	metrics []metrics.Metric
	series  Series
	start   time.Time
}

func NewRecorder(every int, ms ...metrics.Metric) *Recorder {
	if every < 1 {
		every = 1
	}
	names := make([]string, len(ms))
	values := make(map[string][]float64, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
		values[m.Name()] = nil
	}
	return &Recorder{
		Every:   every,
		metrics: ms,
		series:  Series{Values: values, Metrics: names},
	}
}

func (r *Recorder) OnFrame(frame int64, now time.Time, p *field.Pair) {
	if r.start.IsZero() {
		r.start = now
	}
	if frame%int64(r.Every) != 0 {
		return
	}
	r.series.Frames = append(r.series.Frames, frame)
	r.series.Times = append(r.series.Times, now.Sub(r.start).Seconds())
	for _, m := range r.metrics {
		m.Observe(p)
		r.series.Values[m.Name()] = append(r.series.Values[m.Name()], m.Value())
	}
}

func (r *Recorder) Series() *Series { return &r.series }

// Summary returns the latest value of every metric.
func (r *Recorder) Summary() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
