// Package readout turns engine state into display lines. It owns the
// presentation policies the engines stay out of, such as velocity throttling.
package readout

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/units"
)

// VelocityHysteresis is the change in m/s below which a reported velocity is held.
const VelocityHysteresis = 0.1

// Throttle holds a reported vector until some component moves by more than
// Threshold, which keeps fast-changing digits from flickering.
type Throttle struct {
	Threshold float64
	reported  mgl64.Vec2
	primed    bool
}

func NewThrottle(threshold float64) *Throttle {
	return &Throttle{Threshold: threshold}
}

// Update returns the value to display for v.
func (t *Throttle) Update(v mgl64.Vec2) mgl64.Vec2 {
	if !t.primed ||
		math.Abs(v.X()-t.reported.X()) > t.Threshold ||
		math.Abs(v.Y()-t.reported.Y()) > t.Threshold {
		t.reported = v
		t.primed = true
	}
	return t.reported
}

func (t *Throttle) Reset() {
	t.reported = mgl64.Vec2{}
	t.primed = false
}

// Line is one labelled value.
type Line struct {
	Label string
	Value string
}

func (l Line) String() string {
	return fmt.Sprintf("%-12s %s", l.Label, l.Value)
}

func quantity(v float64, unit string) string {
	return fmt.Sprintf("%.2f %s", v, unit)
}

func energyLines(d dynamo.Derived) []Line {
	return []Line{
		{"PE", quantity(d.PotentialEnergy, "J")},
		{"KE", quantity(d.KineticEnergy, "J")},
		{"Total", quantity(d.TotalEnergy, "J")},
	}
}

// Projectile lists the flight readouts. The velocity goes through th when non-nil.
func Projectile(p *physics.Projectile, th *Throttle) []Line {
	s := p.State()
	sum := p.Summary()
	v := s.Velocity
	if th != nil {
		v = th.Update(v)
	}

	lines := []Line{
		{"Time", quantity(s.Time, "s")},
		{"Position", fmt.Sprintf("(%.2f, %.2f) m", s.Position.X(), s.Position.Y())},
		{"Velocity", fmt.Sprintf("(%.1f, %.1f) m/s", v.X(), v.Y())},
		{"Speed", quantity(units.Magnitude(v), "m/s")},
		{"Max height", quantity(sum.MaxHeight, "m")},
	}
	if s.Grounded {
		lines = append(lines,
			Line{"Range", quantity(sum.Range, "m")},
			Line{"Flight time", quantity(sum.FlightTime, "s")},
		)
	}
	if cfg := p.Config(); !cfg.Advanced {
		pred := cfg.Predict()
		lines = append(lines,
			Line{"Theory R", quantity(pred.Range, "m")},
			Line{"Theory H", quantity(pred.MaxHeight, "m")},
			Line{"Theory T", quantity(pred.FlightTime, "s")},
		)
	}
	return append(lines, energyLines(p.Derived())...)
}

func Ball(b *physics.Ball, th *Throttle) []Line {
	s := b.State()
	v := s.Velocity
	if th != nil {
		v = th.Update(v)
	}
	status := "bouncing"
	if s.Resting {
		status = "resting"
	}

	lines := []Line{
		{"Time", quantity(s.Time, "s")},
		{"Height", quantity(s.Position.Y()-s.Radius, "m")},
		{"Velocity", fmt.Sprintf("(%.1f, %.1f) m/s", v.X(), v.Y())},
		{"Speed", quantity(units.Magnitude(v), "m/s")},
		{"State", status},
	}
	return append(lines, energyLines(b.Derived())...)
}

func Pendulum(p *physics.Pendulum) []Line {
	s := p.State()
	d := p.Derived()
	measured := "-"
	if d.MeasuredPeriod > 0 {
		measured = quantity(d.MeasuredPeriod, "s")
	}

	lines := []Line{
		{"Time", quantity(s.Time, "s")},
		{"Angle", fmt.Sprintf("%.1f°", units.RadToDeg(units.WrapAngle(s.Angle)))},
		{"Ang. vel.", quantity(s.AngularVelocity, "rad/s")},
		{"Period", quantity(d.Period, "s")},
		{"Measured", measured},
	}
	return append(lines, energyLines(d)...)
}

// For dispatches on the concrete engine type. Unknown engines get the
// energy lines only.
func For(e dynamo.Engine, th *Throttle) []Line {
	switch eng := e.(type) {
	case *physics.Projectile:
		return Projectile(eng, th)
	case *physics.Ball:
		return Ball(eng, th)
	case *physics.Pendulum:
		return Pendulum(eng)
	default:
		return energyLines(e.Derived())
	}
}
