package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/integrators"
	"github.com/san-kum/physlab/internal/units"
)

// AirDensity is sea-level air density in kg/m³.
const AirDensity = 1.225

var (
	LaunchAngleRange      = Range{5, 85}
	LaunchSpeedRange      = Range{10, 100}
	GravityRange          = Range{1, 20}
	ProjectileMassRange   = Range{10, 200}
	DragCoefficientRange  = Range{0, 1}
	CrossSectionAreaRange = Range{10, 150}
	WindSpeedRange        = Range{-20, 20}
)

type ProjectileConfig struct {
	LaunchAngleDeg float64 `yaml:"launch_angle_deg"`
	LaunchSpeed    float64 `yaml:"launch_speed"`
	Gravity        float64 `yaml:"gravity"`
	// Advanced enables quadratic drag and crosswind.
	Advanced        bool    `yaml:"advanced"`
	Mass            float64 `yaml:"mass"`
	DragCoefficient float64 `yaml:"drag_coefficient"`
	// CrossSectionArea is in cm².
	CrossSectionArea float64 `yaml:"cross_section_area"`
	WindSpeed        float64 `yaml:"wind_speed"`
}

func DefaultProjectileConfig() ProjectileConfig {
	return ProjectileConfig{
		LaunchAngleDeg:   45,
		LaunchSpeed:      60,
		Gravity:          9.8,
		Mass:             50,
		DragCoefficient:  0.47,
		CrossSectionArea: 50,
		WindSpeed:        0,
	}
}

// Clamped returns c with every field inside its documented range.
func (c ProjectileConfig) Clamped() (ProjectileConfig, []dynamo.Adjustment) {
	var adj []dynamo.Adjustment
	clampInto(&adj, "angle", &c.LaunchAngleDeg, LaunchAngleRange)
	clampInto(&adj, "speed", &c.LaunchSpeed, LaunchSpeedRange)
	clampInto(&adj, "gravity", &c.Gravity, GravityRange)
	clampInto(&adj, "mass", &c.Mass, ProjectileMassRange)
	clampInto(&adj, "cd", &c.DragCoefficient, DragCoefficientRange)
	clampInto(&adj, "area", &c.CrossSectionArea, CrossSectionAreaRange)
	clampInto(&adj, "wind", &c.WindSpeed, WindSpeedRange)
	return c, adj
}

type ProjectileState struct {
	Time     float64
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	Grounded bool
}

// ProjectileSummary holds the flight readouts. Range and FlightTime are
// final only once the projectile is grounded.
type ProjectileSummary struct {
	Range          float64
	MaxHeight      float64
	FlightTime     float64
	ImpactVelocity mgl64.Vec2
}

// Prediction is the closed-form drag-free result for a launch from ground level.
type Prediction struct {
	Range      float64
	MaxHeight  float64
	FlightTime float64
}

func (c ProjectileConfig) Predict() Prediction {
	theta := units.DegToRad(c.LaunchAngleDeg)
	v := c.LaunchSpeed
	g := c.Gravity
	sin := math.Sin(theta)
	return Prediction{
		Range:      v * v * math.Sin(2*theta) / g,
		MaxHeight:  v * v * sin * sin / (2 * g),
		FlightTime: 2 * v * sin / g,
	}
}

// projectileDynamics is the ODE on [x, y, vx, vy].
type projectileDynamics struct {
	cfg ProjectileConfig
}

func (d *projectileDynamics) StateDim() int {
	return 4
}

func (d *projectileDynamics) Derive(x dynamo.State, t float64) dynamo.State {
	vx, vy := x[2], x[3]
	ax, ay := 0.0, -d.cfg.Gravity

	if d.cfg.Advanced {
		rel := mgl64.Vec2{vx - d.cfg.WindSpeed, vy}
		speed := rel.Len()
		if speed > 0 {
			area := d.cfg.CrossSectionArea * 1e-4
			force := 0.5 * AirDensity * d.cfg.DragCoefficient * area * speed * speed
			drag := units.Direction(rel).Mul(-force / d.cfg.Mass)
			ax += drag.X()
			ay += drag.Y()
		}
	}

	return dynamo.State{vx, vy, ax, ay}
}

func (d *projectileDynamics) Energy(x dynamo.State) float64 {
	v := mgl64.Vec2{x[2], x[3]}
	return d.cfg.Mass*d.cfg.Gravity*x[1] + 0.5*d.cfg.Mass*v.Dot(v)
}

// Projectile is a point mass launched from the origin. It stops on the
// first ground contact and stays there until reset.
type Projectile struct {
	cfg       ProjectileConfig
	dyn       *projectileDynamics
	integ     dynamo.Integrator
	state     ProjectileState
	summary   ProjectileSummary
	observers dynamo.Observers
}

func NewProjectile(cfg ProjectileConfig) *Projectile {
	p := &Projectile{integ: integrators.NewSemiImplicitEuler()}
	p.Configure(cfg)
	return p
}

// Configure clamps cfg, stores it and resets the engine.
func (p *Projectile) Configure(cfg ProjectileConfig) []dynamo.Adjustment {
	cfg, adj := cfg.Clamped()
	p.cfg = cfg
	p.dyn = &projectileDynamics{cfg: cfg}
	p.Reset()
	return adj
}

func (p *Projectile) Config() ProjectileConfig {
	return p.cfg
}

func (p *Projectile) Reset() ProjectileState {
	theta := units.DegToRad(p.cfg.LaunchAngleDeg)
	p.state = ProjectileState{
		Velocity: mgl64.Vec2{
			p.cfg.LaunchSpeed * math.Cos(theta),
			p.cfg.LaunchSpeed * math.Sin(theta),
		},
	}
	p.summary = ProjectileSummary{}
	return p.state
}

func (p *Projectile) Step(dt float64) ProjectileState {
	dt = units.ClampStep(dt, MaxStep)
	if p.state.Grounded || dt == 0 {
		return p.state
	}

	prev := p.state
	x := p.integ.Step(p.dyn, p.Vector(), prev.Time, dt)
	if !x.IsValid() {
		return p.state
	}

	p.state.Position = mgl64.Vec2{x[0], x[1]}
	p.state.Velocity = mgl64.Vec2{x[2], x[3]}
	p.state.Time = prev.Time + dt

	if p.state.Position.Y() < 0 {
		p.land(prev, dt)
	}
	if y := p.state.Position.Y(); y > p.summary.MaxHeight {
		p.summary.MaxHeight = y
	}
	p.summary.Range = p.state.Position.X()
	p.summary.FlightTime = p.state.Time

	s := p.Sample()
	p.observers.Notify(s)
	if p.state.Grounded {
		p.observers.Emit(dynamo.EventImpact, s)
	}
	return p.state
}

// land places the projectile on y=0 by interpolating between the previous
// sample (y >= 0) and the current one (y < 0).
func (p *Projectile) land(prev ProjectileState, dt float64) {
	y0, y1 := prev.Position.Y(), p.state.Position.Y()
	frac := y0 / (y0 - y1)

	pos := prev.Position.Add(p.state.Position.Sub(prev.Position).Mul(frac))
	p.summary.ImpactVelocity = prev.Velocity.Add(p.state.Velocity.Sub(prev.Velocity).Mul(frac))

	p.state.Position = mgl64.Vec2{pos.X(), 0}
	p.state.Velocity = mgl64.Vec2{}
	p.state.Time = prev.Time + frac*dt
	p.state.Grounded = true
}

func (p *Projectile) State() ProjectileState {
	return p.state
}

func (p *Projectile) Summary() ProjectileSummary {
	return p.summary
}

func (p *Projectile) Derived() dynamo.Derived {
	m, g := p.cfg.Mass, p.cfg.Gravity
	v := p.state.Velocity
	pe := m * g * math.Max(p.state.Position.Y(), 0)
	ke := 0.5 * m * v.Dot(v)
	return dynamo.Derived{
		PotentialEnergy: pe,
		KineticEnergy:   ke,
		TotalEnergy:     pe + ke,
	}
}

func (p *Projectile) Name() string {
	return "projectile"
}

func (p *Projectile) Restart() {
	p.Reset()
}

func (p *Projectile) Advance(dt float64) {
	p.Step(dt)
}

func (p *Projectile) Time() float64 {
	return p.state.Time
}

func (p *Projectile) Vector() dynamo.State {
	s := p.state
	return dynamo.State{s.Position.X(), s.Position.Y(), s.Velocity.X(), s.Velocity.Y()}
}

func (p *Projectile) Labels() []string {
	return []string{"x", "y", "vx", "vy"}
}

func (p *Projectile) Sample() dynamo.Sample {
	return dynamo.Sample{Time: p.state.Time, Position: p.state.Position, State: p.Vector()}
}

func (p *Projectile) Observe(o dynamo.Observer) {
	p.observers = append(p.observers, o)
}

func (p *Projectile) GetParams() map[string]float64 {
	return map[string]float64{
		"angle":    p.cfg.LaunchAngleDeg,
		"speed":    p.cfg.LaunchSpeed,
		"gravity":  p.cfg.Gravity,
		"advanced": boolParam(p.cfg.Advanced),
		"mass":     p.cfg.Mass,
		"cd":       p.cfg.DragCoefficient,
		"area":     p.cfg.CrossSectionArea,
		"wind":     p.cfg.WindSpeed,
	}
}

func (p *Projectile) SetParam(name string, value float64) error {
	cfg := p.cfg
	switch name {
	case "angle":
		cfg.LaunchAngleDeg = value
	case "speed":
		cfg.LaunchSpeed = value
	case "gravity":
		cfg.Gravity = value
	case "advanced":
		cfg.Advanced = value != 0
	case "mass":
		cfg.Mass = value
	case "cd":
		cfg.DragCoefficient = value
	case "area":
		cfg.CrossSectionArea = value
	case "wind":
		cfg.WindSpeed = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	p.Configure(cfg)
	return nil
}
