package metrics

import "github.com/san-kum/chatooly/internal/field"

type Metric interface {
	Name() string
	Observe(p *field.Pair)
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every run.
func Defaults() []Metric {
	return []Metric{NewCoverage(0.25), NewMeanA(), NewMeanB(), NewPeakCoverage(0.25)}
}
