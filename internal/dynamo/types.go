package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a first-order ODE. Second-order systems lay the state out as
// [positions..., velocities...] so that Derive returns [velocities..., accelerations...].
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// Derived holds read-only quantities computed from the current state.
// They are never fed back into integration.
type Derived struct {
	PotentialEnergy float64
	KineticEnergy   float64
	TotalEnergy     float64
	// Period is the theoretical reference period; zero when the engine has none.
	Period float64
	// MeasuredPeriod is zero until the engine has observed a full oscillation.
	MeasuredPeriod float64
}

type Event int

const (
	// EventImpact fires once when a projectile reaches the ground.
	EventImpact Event = iota + 1
	// EventBounce fires on every ball contact with a wall, the floor or the ceiling.
	EventBounce
	// EventRest fires once when the ball settles on the floor.
	EventRest
)

func (e Event) String() string {
	switch e {
	case EventImpact:
		return "impact"
	case EventBounce:
		return "bounce"
	case EventRest:
		return "rest"
	default:
		return "unknown"
	}
}

// Sample is the per-step snapshot handed to observers.
type Sample struct {
	Time float64
	// Position is the drawable point in meters, physical frame (y up).
	Position mgl64.Vec2
	State    State
}

type Observer interface {
	OnStep(s Sample)
}

// EventObserver is implemented by observers that also want one-shot events.
type EventObserver interface {
	Observer
	OnEvent(ev Event, s Sample)
}

// Observers fans a sample out to every registered observer.
type Observers []Observer

func (o Observers) Notify(s Sample) {
	for _, obs := range o {
		obs.OnStep(s)
	}
}

func (o Observers) Emit(ev Event, s Sample) {
	for _, obs := range o {
		if eo, ok := obs.(EventObserver); ok {
			eo.OnEvent(ev, s)
		}
	}
}

// Engine is the capability shared by the three simulations. Each engine also
// has typed Reset/Step methods returning its own state struct.
type Engine interface {
	Name() string
	Restart()
	Advance(dt float64)
	Derived() Derived
	Time() float64
	Vector() State
	Labels() []string
	Sample() Sample
	Observe(o Observer)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(s Sample, d Derived)
	Value() float64
	Reset()
}
