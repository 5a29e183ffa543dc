package integrators

import "github.com/san-kum/physlab/internal/dynamo"

// RK4 is the classic four-stage Runge-Kutta scheme. Stage derivatives are
// held across the step, so a System must return a fresh slice from Derive.
type RK4 struct {
	probe dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

// at returns x + h·k in the reused probe buffer.
func (r *RK4) at(x, k dynamo.State, h float64) dynamo.State {
	if len(r.probe) != len(x) {
		r.probe = make(dynamo.State, len(x))
	}
	for i, xi := range x {
		r.probe[i] = xi + h*k[i]
	}
	return r.probe
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	mid := t + dt/2

	k1 := dyn.Derive(x, t)
	k2 := dyn.Derive(r.at(x, k1, dt/2), mid)
	k3 := dyn.Derive(r.at(x, k2, dt/2), mid)
	k4 := dyn.Derive(r.at(x, k3, dt), t+dt)

	next := make(dynamo.State, len(x))
	for i, xi := range x {
		next[i] = xi + dt*(k1[i]+2*(k2[i]+k3[i])+k4[i])/6
	}
	return next
}
