package integrators

import "github.com/san-kum/physlab/internal/dynamo"

// split views a [positions..., velocities...] state as its two halves.
func split(x dynamo.State) (pos, vel dynamo.State) {
	h := len(x) / 2
	return x[:h], x[h:]
}

// Verlet is velocity Verlet. The closing force evaluation uses a predicted
// end-of-step velocity, so velocity-dependent terms such as damping stay
// second order; for position-only forces it is the textbook scheme.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	pos, vel := split(x)
	_, acc := split(dyn.Derive(x, t))

	next := make(dynamo.State, len(x))
	npos, nvel := split(next)
	for i := range pos {
		npos[i] = pos[i] + (vel[i]+acc[i]*dt/2)*dt
		nvel[i] = vel[i] + acc[i]*dt
	}

	_, end := split(dyn.Derive(next, t+dt))
	for i := range vel {
		nvel[i] = vel[i] + (acc[i]+end[i])*dt/2
	}
	return next
}

// Leapfrog is kick-drift-kick. The closing kick reads the half-step
// velocity, so with velocity-dependent forces it drops to first order in
// those terms; position-only forces keep it second order and symplectic.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next := x.Clone()
	pos, vel := split(next)

	_, acc := split(dyn.Derive(x, t))
	for i := range vel {
		vel[i] += acc[i] * dt / 2
	}
	for i := range pos {
		pos[i] += vel[i] * dt
	}

	_, acc = split(dyn.Derive(next, t+dt))
	for i := range vel {
		vel[i] += acc[i] * dt / 2
	}
	return next
}
