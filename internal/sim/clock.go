package sim

import "time"

// Clock converts wall-clock frame deltas into a whole number of fixed ticks.
// Leftover time is carried to the next frame; backlog beyond MaxBacklog is dropped.
type Clock struct {
	Step       float64
	MaxBacklog float64
	acc        float64
}

func NewClock(step float64) *Clock {
	if step <= 0 {
		step = DefaultDt
	}
	return &Clock{Step: step, MaxBacklog: 0.25}
}

// Advance adds elapsed wall time and returns how many ticks are due.
func (c *Clock) Advance(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	c.acc += elapsed.Seconds()
	if c.MaxBacklog > 0 && c.acc > c.MaxBacklog {
		c.acc = c.MaxBacklog
	}
	n := int(c.acc / c.Step)
	c.acc -= float64(n) * c.Step
	return n
}

// Alpha is the fraction of a tick currently accumulated, for interpolation.
func (c *Clock) Alpha() float64 {
	return c.acc / c.Step
}

func (c *Clock) Reset() {
	c.acc = 0
}
