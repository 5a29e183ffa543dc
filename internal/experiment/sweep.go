package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/sim"
)

// SweepPoint is the outcome of one launch angle.
type SweepPoint struct {
	AngleDeg   float64
	Range      float64
	MaxHeight  float64
	FlightTime float64
	// Theory is the drag-free prediction for the same launch.
	Theory physics.Prediction
	Landed bool
}

// Angles returns from, from+step, ... up to and including to.
func Angles(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// AngleSweep flies one projectile per angle in parallel, all other
// parameters taken from cfg, and reports where each one landed.
func AngleSweep(ctx context.Context, reg *Registry, cfg *config.Config, angles []float64) ([]SweepPoint, error) {
	if len(angles) == 0 {
		return nil, fmt.Errorf("no angles to sweep")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engines := make([]dynamo.Engine, len(angles))
	duration := cfg.Duration
	for i, a := range angles {
		c := cfg.Clone()
		c.Projectile.LaunchAngleDeg = a
		e, _, err := reg.GetEngine("projectile", c)
		if err != nil {
			return nil, err
		}
		engines[i] = e
		if p, ok := e.(*physics.Projectile); ok {
			// leave room for the flight even when the config duration is short
			duration = math.Max(duration, 1.5*p.Config().Predict().FlightTime+1)
		}
	}

	results, err := sim.Sweep(ctx, engines, sim.Config{
		Dt:       cfg.Dt,
		Duration: duration,
		StopOn:   dynamo.EventImpact,
	})
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(angles))
	for i, e := range engines {
		p, ok := e.(*physics.Projectile)
		if !ok {
			return nil, fmt.Errorf("%w: sweep needs a projectile, got %s", dynamo.ErrUnknownEngine, e.Name())
		}
		sum := p.Summary()
		points[i] = SweepPoint{
			AngleDeg:   p.Config().LaunchAngleDeg,
			Range:      sum.Range,
			MaxHeight:  sum.MaxHeight,
			FlightTime: sum.FlightTime,
			Theory:     p.Config().Predict(),
			Landed:     results[i].Count(dynamo.EventImpact) > 0,
		}
	}
	return points, nil
}

// Best returns the point with the longest range.
func Best(points []SweepPoint) (SweepPoint, bool) {
	if len(points) == 0 {
		return SweepPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.Range > best.Range {
			best = p
		}
	}
	return best, true
}
