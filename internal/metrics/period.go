package metrics

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

// PeriodError is the relative gap between the last measured period and the
// reference period. It reads NaN until a period has been measured.
type PeriodError struct {
	name      string
	reference float64
	measured  float64
}

func NewPeriodError() *PeriodError {
	return &PeriodError{name: "period_error"}
}

func (p *PeriodError) Name() string { return p.name }

func (p *PeriodError) Observe(s dynamo.Sample, d dynamo.Derived) {
	p.reference = d.Period
	if d.MeasuredPeriod > 0 {
		p.measured = d.MeasuredPeriod
	}
}

func (p *PeriodError) Value() float64 {
	if p.measured == 0 || p.reference == 0 {
		return math.NaN()
	}
	return math.Abs(p.measured-p.reference) / p.reference
}

func (p *PeriodError) Reset() {
	p.reference = 0
	p.measured = 0
}
