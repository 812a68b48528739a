package metrics

import "github.com/san-kum/chatooly/internal/field"

type mean struct {
	name  string
	pick  func(*field.Pair) *field.Field
	value float64
}

func NewMeanA() Metric {
	return &mean{name: "mean_a", pick: func(p *field.Pair) *field.Field { return p.A }}
}

func NewMeanB() Metric {
	return &mean{name: "mean_b", pick: func(p *field.Pair) *field.Field { return p.B }}
}

func (m *mean) Name() string          { return m.name }
func (m *mean) Observe(p *field.Pair) { m.value = m.pick(p).Mean() }
func (m *mean) Value() float64        { return m.value }
func (m *mean) Reset()                { m.value = 0 }
