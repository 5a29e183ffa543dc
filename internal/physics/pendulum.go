package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/integrators"
	"github.com/san-kum/physlab/internal/units"
)

var (
	LengthRange       = Range{0.1, 3}
	DampingRange      = Range{0, 0.5}
	PendulumMassRange = Range{0.1, 5}
	InitialAngleRange = Range{5, 90}
)

type PendulumConfig struct {
	Length          float64 `yaml:"length"`
	Gravity         float64 `yaml:"gravity"`
	Damping         float64 `yaml:"damping"`
	Mass            float64 `yaml:"mass"`
	InitialAngleDeg float64 `yaml:"initial_angle_deg"`
	Integrator      string  `yaml:"integrator"`
}

func DefaultPendulumConfig() PendulumConfig {
	return PendulumConfig{
		Length:          1,
		Gravity:         9.8,
		Damping:         0.05,
		Mass:            1,
		InitialAngleDeg: 45,
		Integrator:      integrators.Default,
	}
}

// Clamped bounds the numeric fields. An unknown integrator name falls back
// to the default scheme and is reported under "integrator" with NaN values.
func (c PendulumConfig) Clamped() (PendulumConfig, []dynamo.Adjustment) {
	var adj []dynamo.Adjustment
	clampInto(&adj, "length", &c.Length, LengthRange)
	clampInto(&adj, "gravity", &c.Gravity, GravityRange)
	clampInto(&adj, "damping", &c.Damping, DampingRange)
	clampInto(&adj, "mass", &c.Mass, PendulumMassRange)
	clampInto(&adj, "angle", &c.InitialAngleDeg, InitialAngleRange)
	if c.Integrator == "" {
		c.Integrator = integrators.Default
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		c.Integrator = integrators.Default
		adj = append(adj, dynamo.Adjustment{Param: "integrator", Requested: math.NaN(), Applied: math.NaN()})
	}
	return c, adj
}

// Period is the small-angle reference period 2π·sqrt(L/g).
func (c PendulumConfig) Period() float64 {
	return 2 * math.Pi * math.Sqrt(c.Length/c.Gravity)
}

type PendulumState struct {
	Time            float64
	Angle           float64
	AngularVelocity float64
}

// pendulumDynamics is the ODE on [θ, ω].
type pendulumDynamics struct {
	cfg PendulumConfig
}

func (d *pendulumDynamics) StateDim() int {
	return 2
}

func (d *pendulumDynamics) Derive(x dynamo.State, t float64) dynamo.State {
	theta, omega := x[0], x[1]
	alpha := -(d.cfg.Gravity/d.cfg.Length)*math.Sin(theta) - (d.cfg.Damping/d.cfg.Mass)*omega
	return dynamo.State{omega, alpha}
}

func (d *pendulumDynamics) Energy(x dynamo.State) float64 {
	v := d.cfg.Length * x[1]
	ke := 0.5 * d.cfg.Mass * v * v
	pe := d.cfg.Mass * d.cfg.Gravity * d.cfg.Length * (1 - math.Cos(x[0]))
	return ke + pe
}

type Pendulum struct {
	cfg   PendulumConfig
	dyn   *pendulumDynamics
	integ dynamo.Integrator
	state PendulumState

	// time of the last downward zero crossing of ω, NaN until one is seen
	lastCrossing float64
	measured     float64

	observers dynamo.Observers
}

func NewPendulum(cfg PendulumConfig) *Pendulum {
	p := &Pendulum{}
	p.Configure(cfg)
	return p
}

func (p *Pendulum) Configure(cfg PendulumConfig) []dynamo.Adjustment {
	cfg, adj := cfg.Clamped()
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		integ = integrators.NewSemiImplicitEuler()
	}
	p.cfg = cfg
	p.dyn = &pendulumDynamics{cfg: cfg}
	p.integ = integ
	p.Reset()
	return adj
}

func (p *Pendulum) Config() PendulumConfig {
	return p.cfg
}

func (p *Pendulum) Reset() PendulumState {
	p.state = PendulumState{Angle: units.DegToRad(p.cfg.InitialAngleDeg)}
	p.lastCrossing = math.NaN()
	p.measured = 0
	return p.state
}

func (p *Pendulum) Step(dt float64) PendulumState {
	dt = units.ClampStep(dt, MaxStep)
	if dt == 0 {
		return p.state
	}

	prev := p.state
	x := p.integ.Step(p.dyn, p.Vector(), prev.Time, dt)
	if !x.IsValid() {
		return p.state
	}
	p.state = PendulumState{
		Time:            prev.Time + dt,
		Angle:           x[0],
		AngularVelocity: x[1],
	}
	p.trackPeriod(prev, dt)

	p.observers.Notify(p.Sample())
	return p.state
}

// trackPeriod records the interval between successive crossings of ω from
// positive to non-positive, each located by linear interpolation.
func (p *Pendulum) trackPeriod(prev PendulumState, dt float64) {
	w0, w1 := prev.AngularVelocity, p.state.AngularVelocity
	if !(w0 > 0 && w1 <= 0) {
		return
	}
	crossing := prev.Time + dt*w0/(w0-w1)
	if !math.IsNaN(p.lastCrossing) {
		p.measured = crossing - p.lastCrossing
	}
	p.lastCrossing = crossing
}

func (p *Pendulum) State() PendulumState {
	return p.state
}

// Bob returns the bob position in pixels for a screen with y growing
// downwards, given the pivot in pixels and a pixels-per-meter scale.
func (p *Pendulum) Bob(pivot mgl64.Vec2, scale float64) mgl64.Vec2 {
	l := p.cfg.Length * scale
	return mgl64.Vec2{
		pivot.X() + math.Sin(p.state.Angle)*l,
		pivot.Y() + math.Cos(p.state.Angle)*l,
	}
}

// Position is the bob relative to the pivot in meters, physical frame.
func (p *Pendulum) Position() mgl64.Vec2 {
	l := p.cfg.Length
	return mgl64.Vec2{math.Sin(p.state.Angle) * l, -math.Cos(p.state.Angle) * l}
}

// PhasePoint is (θ, ω).
func (p *Pendulum) PhasePoint() mgl64.Vec2 {
	return mgl64.Vec2{p.state.Angle, p.state.AngularVelocity}
}

func (p *Pendulum) Derived() dynamo.Derived {
	m, g, l := p.cfg.Mass, p.cfg.Gravity, p.cfg.Length
	h := l * (1 - math.Cos(p.state.Angle))
	v := l * p.state.AngularVelocity
	pe := m * g * h
	ke := 0.5 * m * v * v
	return dynamo.Derived{
		PotentialEnergy: pe,
		KineticEnergy:   ke,
		TotalEnergy:     pe + ke,
		Period:          p.cfg.Period(),
		MeasuredPeriod:  p.measured,
	}
}

func (p *Pendulum) Name() string {
	return "pendulum"
}

func (p *Pendulum) Restart() {
	p.Reset()
}

func (p *Pendulum) Advance(dt float64) {
	p.Step(dt)
}

func (p *Pendulum) Time() float64 {
	return p.state.Time
}

func (p *Pendulum) Vector() dynamo.State {
	return dynamo.State{p.state.Angle, p.state.AngularVelocity}
}

func (p *Pendulum) Labels() []string {
	return []string{"theta", "omega"}
}

func (p *Pendulum) Sample() dynamo.Sample {
	return dynamo.Sample{Time: p.state.Time, Position: p.Position(), State: p.Vector()}
}

func (p *Pendulum) Observe(o dynamo.Observer) {
	p.observers = append(p.observers, o)
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"length":  p.cfg.Length,
		"gravity": p.cfg.Gravity,
		"damping": p.cfg.Damping,
		"mass":    p.cfg.Mass,
		"angle":   p.cfg.InitialAngleDeg,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	cfg := p.cfg
	switch name {
	case "length":
		cfg.Length = value
	case "gravity":
		cfg.Gravity = value
	case "damping":
		cfg.Damping = value
	case "mass":
		cfg.Mass = value
	case "angle":
		cfg.InitialAngleDeg = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	p.Configure(cfg)
	return nil
}
