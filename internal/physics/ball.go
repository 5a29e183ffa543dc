package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/units"
)

var (
	ElasticityRange    = Range{0, 1}
	FrictionRange      = Range{0.8, 1}
	AirResistanceRange = Range{0, 0.01}
	BallRadiusRange    = Range{5, 50}
	BallMassRange      = Range{0.1, 10}
	InitialSpeedRange  = Range{0, 10}

	ArenaSizeRange      = Range{200, 4000}
	PixelsPerMeterRange = Range{10, 500}
	FrameRateRange      = Range{24, 240}
)

const (
	// dropOffset is the distance in pixels from the arena top to the drop point.
	dropOffset = 50
	// restThreshold is the rebound speed in pixels per frame below which the ball settles.
	restThreshold = 0.2
	// maxContacts bounds the collisions resolved inside one step.
	maxContacts = 16
)

// BallConfig keeps the pixel-space arena of the renderer. The engine
// integrates in meters and converts through PixelsPerMeter.
type BallConfig struct {
	Gravity    float64 `yaml:"gravity"`
	Elasticity float64 `yaml:"elasticity"`
	// Friction multiplies vx on every floor contact.
	Friction float64 `yaml:"friction"`
	// AirResistance is the per-pixel quadratic drag coefficient.
	AirResistance float64 `yaml:"air_resistance"`
	// BallRadius is in pixels.
	BallRadius     float64 `yaml:"ball_radius"`
	Mass           float64 `yaml:"mass"`
	InitialSpeed   float64 `yaml:"initial_speed"`
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	PixelsPerMeter float64 `yaml:"pixels_per_meter"`
	FrameRate      float64 `yaml:"frame_rate"`
}

func DefaultBallConfig() BallConfig {
	return BallConfig{
		Gravity:        9.8,
		Elasticity:     0.7,
		Friction:       0.98,
		AirResistance:  0.001,
		BallRadius:     20,
		Mass:           1,
		InitialSpeed:   2,
		Width:          800,
		Height:         380,
		PixelsPerMeter: 50,
		FrameRate:      60,
	}
}

func (c BallConfig) Clamped() (BallConfig, []dynamo.Adjustment) {
	var adj []dynamo.Adjustment
	clampInto(&adj, "gravity", &c.Gravity, GravityRange)
	clampInto(&adj, "elasticity", &c.Elasticity, ElasticityRange)
	clampInto(&adj, "friction", &c.Friction, FrictionRange)
	clampInto(&adj, "air_resistance", &c.AirResistance, AirResistanceRange)
	clampInto(&adj, "radius", &c.BallRadius, BallRadiusRange)
	clampInto(&adj, "mass", &c.Mass, BallMassRange)
	clampInto(&adj, "initial_speed", &c.InitialSpeed, InitialSpeedRange)
	clampInto(&adj, "width", &c.Width, ArenaSizeRange)
	clampInto(&adj, "height", &c.Height, ArenaSizeRange)
	clampInto(&adj, "pixels_per_meter", &c.PixelsPerMeter, PixelsPerMeterRange)
	clampInto(&adj, "frame_rate", &c.FrameRate, FrameRateRange)
	return c, adj
}

type BallState struct {
	Time     float64
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	// Radius is in meters.
	Radius  float64
	Resting bool
}

// BallPixels is the ball state in renderer units: y grows downwards and
// velocities are in pixels per frame.
type BallPixels struct {
	X, Y, DX, DY, Radius float64
}

type wall int

const (
	noWall wall = iota
	leftWall
	rightWall
	floorWall
	ceilingWall
)

// Ball bounces inside a rectangular arena. Flight between contacts is
// integrated exactly for constant gravity and every contact is resolved at
// its time of impact, so no penetration is ever corrected after the fact.
type Ball struct {
	cfg   BallConfig
	scale units.Scale
	// arena in meters
	width, height float64
	dragK         float64
	restSpeed     float64

	state     BallState
	observers dynamo.Observers
}

func NewBall(cfg BallConfig) *Ball {
	b := &Ball{}
	b.Configure(cfg)
	return b
}

func (b *Ball) Configure(cfg BallConfig) []dynamo.Adjustment {
	cfg, adj := cfg.Clamped()
	b.cfg = cfg
	b.scale = units.Scale(cfg.PixelsPerMeter)
	b.width = b.scale.ToMeters(cfg.Width)
	b.height = b.scale.ToMeters(cfg.Height)
	b.dragK = cfg.AirResistance * cfg.PixelsPerMeter
	b.restSpeed = b.scale.ToMeters(restThreshold * cfg.FrameRate)
	b.Reset()
	return adj
}

func (b *Ball) Config() BallConfig {
	return b.cfg
}

func (b *Ball) Reset() BallState {
	b.state = BallState{
		Position: mgl64.Vec2{
			b.width / 2,
			b.scale.ToMeters(b.cfg.Height - dropOffset),
		},
		Velocity: mgl64.Vec2{b.cfg.InitialSpeed, 0},
		Radius:   b.scale.ToMeters(b.cfg.BallRadius),
	}
	return b.state
}

func (b *Ball) Step(dt float64) BallState {
	dt = units.ClampStep(dt, MaxStep)
	if dt == 0 {
		return b.state
	}

	var events []dynamo.Event
	remaining := dt
	for i := 0; i < maxContacts && remaining > 0; i++ {
		if b.state.Resting {
			b.slide(remaining)
			remaining = 0
			break
		}
		t, w := b.nextContact(remaining)
		if w == noWall {
			b.fly(remaining)
			remaining = 0
			break
		}
		b.fly(t)
		remaining -= t
		events = append(events, b.collide(w)...)
	}
	if remaining > 0 {
		b.fly(remaining)
		b.confine()
	}
	b.applyDrag(dt)
	b.state.Time += dt

	s := b.Sample()
	b.observers.Notify(s)
	for _, ev := range events {
		b.observers.Emit(ev, s)
	}
	return b.state
}

// applyDrag damps the velocity left after this tick's gravity and contacts.
func (b *Ball) applyDrag(dt float64) {
	v := b.state.Velocity
	speed := v.Len()
	if speed == 0 || b.dragK == 0 {
		return
	}
	f := b.dragK * speed * dt
	if f > 1 {
		f = 1
	}
	b.state.Velocity = v.Sub(v.Mul(f))
}

// fly advances the ball ballistically for t seconds.
func (b *Ball) fly(t float64) {
	g := b.cfg.Gravity
	p, v := b.state.Position, b.state.Velocity
	vy := v.Y() - g*t
	b.state.Position = mgl64.Vec2{
		p.X() + v.X()*t,
		p.Y() + 0.5*(v.Y()+vy)*t,
	}
	b.state.Velocity = mgl64.Vec2{v.X(), vy}
}

// slide moves a resting ball along the floor. Friction acts once per
// frame-rate tick, scaled to the elapsed time.
func (b *Ball) slide(t float64) {
	vx := b.state.Velocity.X() * math.Pow(b.cfg.Friction, t*b.cfg.FrameRate)
	vx = units.SnapZero(vx, 1e-9)
	x := b.state.Position.X() + vx*t
	r := b.state.Radius
	switch {
	case x < r:
		x = r
		vx = -vx * b.cfg.Elasticity
	case x > b.width-r:
		x = b.width - r
		vx = -vx * b.cfg.Elasticity
	}
	b.state.Position = mgl64.Vec2{x, r}
	b.state.Velocity = mgl64.Vec2{vx, 0}
}

// nextContact returns the earliest boundary hit within limit seconds.
func (b *Ball) nextContact(limit float64) (float64, wall) {
	g := b.cfg.Gravity
	r := b.state.Radius
	p, v := b.state.Position, b.state.Velocity
	best, hit := limit, noWall

	consider := func(t float64, w wall) {
		if t >= 0 && t <= best {
			best, hit = t, w
		}
	}

	switch {
	case v.X() > 0:
		consider(math.Max((b.width-r-p.X())/v.X(), 0), rightWall)
	case v.X() < 0:
		consider(math.Max((r-p.X())/v.X(), 0), leftWall)
	}

	// floor: y + vy·t - ½g·t² = r
	d := math.Max(p.Y()-r, 0)
	consider((v.Y()+math.Sqrt(v.Y()*v.Y()+2*g*d))/g, floorWall)

	// ceiling: y + vy·t - ½g·t² = H - r, only reachable while rising
	if v.Y() > 0 {
		c := math.Max(b.height-r-p.Y(), 0)
		if disc := v.Y()*v.Y() - 2*g*c; disc >= 0 {
			consider((v.Y()-math.Sqrt(disc))/g, ceilingWall)
		}
	}

	return best, hit
}

func (b *Ball) collide(w wall) []dynamo.Event {
	e := b.cfg.Elasticity
	r := b.state.Radius
	p, v := b.state.Position, b.state.Velocity

	switch w {
	case leftWall:
		p[0] = r
		v[0] = -v.X() * e
	case rightWall:
		p[0] = b.width - r
		v[0] = -v.X() * e
	case ceilingWall:
		p[1] = b.height - r
		v[1] = -v.Y() * e
	case floorWall:
		p[1] = r
		v[0] *= b.cfg.Friction
		v[1] = -v.Y() * e
		if math.Abs(v.Y()) < b.restSpeed {
			v[1] = 0
			b.state.Position, b.state.Velocity = p, v
			b.state.Resting = true
			return []dynamo.Event{dynamo.EventBounce, dynamo.EventRest}
		}
	}

	b.state.Position, b.state.Velocity = p, v
	return []dynamo.Event{dynamo.EventBounce}
}

// confine is the fallback when maxContacts is exhausted in one step.
func (b *Ball) confine() {
	r := b.state.Radius
	p := b.state.Position
	b.state.Position = mgl64.Vec2{
		units.Clamp(p.X(), r, b.width-r),
		units.Clamp(p.Y(), r, b.height-r),
	}
}

func (b *Ball) State() BallState {
	return b.state
}

// Pixels converts the state to the renderer's pixel space.
func (b *Ball) Pixels() BallPixels {
	s := b.state
	perFrame := float64(b.scale) / b.cfg.FrameRate
	return BallPixels{
		X:      b.scale.ToPixels(s.Position.X()),
		Y:      b.cfg.Height - b.scale.ToPixels(s.Position.Y()),
		DX:     s.Velocity.X() * perFrame,
		DY:     -s.Velocity.Y() * perFrame,
		Radius: b.cfg.BallRadius,
	}
}

// Arena returns the arena width and height in meters.
func (b *Ball) Arena() (float64, float64) {
	return b.width, b.height
}

func (b *Ball) Derived() dynamo.Derived {
	m := b.cfg.Mass
	h := math.Max(b.state.Position.Y()-b.state.Radius, 0)
	v := b.state.Velocity
	pe := m * b.cfg.Gravity * h
	ke := 0.5 * m * v.Dot(v)
	return dynamo.Derived{
		PotentialEnergy: pe,
		KineticEnergy:   ke,
		TotalEnergy:     pe + ke,
	}
}

func (b *Ball) Name() string {
	return "ball"
}

func (b *Ball) Restart() {
	b.Reset()
}

func (b *Ball) Advance(dt float64) {
	b.Step(dt)
}

func (b *Ball) Time() float64 {
	return b.state.Time
}

func (b *Ball) Vector() dynamo.State {
	s := b.state
	return dynamo.State{s.Position.X(), s.Position.Y(), s.Velocity.X(), s.Velocity.Y()}
}

func (b *Ball) Labels() []string {
	return []string{"x", "y", "vx", "vy"}
}

func (b *Ball) Sample() dynamo.Sample {
	return dynamo.Sample{Time: b.state.Time, Position: b.state.Position, State: b.Vector()}
}

func (b *Ball) Observe(o dynamo.Observer) {
	b.observers = append(b.observers, o)
}

func (b *Ball) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":        b.cfg.Gravity,
		"elasticity":     b.cfg.Elasticity,
		"friction":       b.cfg.Friction,
		"air_resistance": b.cfg.AirResistance,
		"radius":         b.cfg.BallRadius,
		"mass":           b.cfg.Mass,
		"initial_speed":  b.cfg.InitialSpeed,
	}
}

func (b *Ball) SetParam(name string, value float64) error {
	cfg := b.cfg
	switch name {
	case "gravity":
		cfg.Gravity = value
	case "elasticity":
		cfg.Elasticity = value
	case "friction":
		cfg.Friction = value
	case "air_resistance":
		cfg.AirResistance = value
	case "radius":
		cfg.BallRadius = value
	case "mass":
		cfg.Mass = value
	case "initial_speed":
		cfg.InitialSpeed = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	b.Configure(cfg)
	return nil
}
