package metrics

import (
	"math"

	"github.com/san-kum/physlab/internal/dynamo"
)

// Stability is the share of samples whose state stays finite and within
// bound on every component. A run with no samples counts as stable.
type Stability struct {
	bound       float64
	total, good int
}

func NewStability(bound float64) *Stability {
	return &Stability{bound: bound}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) bounded(x dynamo.State) bool {
	for _, v := range x {
		// NaN fails the comparison and lands here too
		if !(math.Abs(v) <= s.bound) {
			return false
		}
	}
	return true
}

func (s *Stability) Observe(sample dynamo.Sample, _ dynamo.Derived) {
	s.total++
	if s.bounded(sample.State) {
		s.good++
	}
}

func (s *Stability) Value() float64 {
	if s.total == 0 {
		return 1
	}
	return float64(s.good) / float64(s.total)
}

func (s *Stability) Reset() { s.total, s.good = 0, 0 }
