package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/physlab/internal/dynamo"
)

// constantFall is a point mass under constant acceleration g (negative = down).
type constantFall struct{ g float64 }

func (c *constantFall) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], c.g}
}

func (c *constantFall) StateDim() int { return 2 }

func TestSemiImplicitEulerOrdering(t *testing.T) {
	integ := NewSemiImplicitEuler()
	dyn := &constantFall{g: -10}

	x := integ.Step(dyn, dynamo.State{0, 0}, 0, 0.1)

	// velocity first, then position with the new velocity
	if math.Abs(x[1]-(-1.0)) > 1e-12 {
		t.Errorf("velocity = %v, want -1", x[1])
	}
	if math.Abs(x[0]-(-0.1)) > 1e-12 {
		t.Errorf("position = %v, want -0.1", x[0])
	}
}

func TestExplicitEulerOrdering(t *testing.T) {
	integ := NewEuler()
	dyn := &constantFall{g: -10}

	x := integ.Step(dyn, dynamo.State{0, 0}, 0, 0.1)

	if x[0] != 0 {
		t.Errorf("explicit Euler should move with the old velocity, got position %v", x[0])
	}
	if math.Abs(x[1]-(-1.0)) > 1e-12 {
		t.Errorf("velocity = %v, want -1", x[1])
	}
}

func TestSemiImplicitEulerBoundedEnergy(t *testing.T) {
	integ := NewSemiImplicitEuler()
	dyn := &simpleDynamics{}
	x := dynamo.State{1.0, 0.0}

	energy := func(s dynamo.State) float64 { return 0.5 * (s[0]*s[0] + s[1]*s[1]) }
	e0 := energy(x)

	for i := 0; i < 10000; i++ {
		x = integ.Step(dyn, x, 0, 0.01)
		if drift := math.Abs(energy(x)-e0) / e0; drift > 0.01 {
			t.Fatalf("step %d: energy drift %.4f exceeds 1%%", i, drift)
		}
	}
}

func TestVerletExactForConstantAcceleration(t *testing.T) {
	integ := NewVerlet()
	dyn := &constantFall{g: -9.8}
	x := dynamo.State{0, 5}
	dt := 0.05

	for i := 0; i < 20; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	tEnd := 20 * dt
	want := 5*tEnd - 0.5*9.8*tEnd*tEnd
	if math.Abs(x[0]-want) > 1e-9 {
		t.Errorf("position = %v, want %v", x[0], want)
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		integ, err := ByName(name)
		if err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
		if integ == nil {
			t.Errorf("ByName(%q) returned nil", name)
		}
	}

	integ, err := ByName("")
	if err != nil {
		t.Fatalf("empty name: %v", err)
	}
	if _, ok := integ.(*SemiImplicitEuler); !ok {
		t.Errorf("empty name should select the symplectic integrator, got %T", integ)
	}

	if _, err := ByName("rk45"); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}
