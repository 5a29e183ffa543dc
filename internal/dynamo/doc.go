// Package dynamo defines the contracts shared by the simulation engines.
//
// The package holds the small set of types every engine and collaborator
// agrees on:
//
//   - [State]: flat vector view of an engine's state
//   - [System]: first-order ODE (dX/dt = f(X, t)) used by the integrators
//   - [Integrator]: numerical stepping scheme
//   - [Engine]: tick-driven simulation with reset, step and derived readouts
//   - [Observer]: injectable per-step hook (trails, phase plots, recorders)
//
// # Example
//
//	p := physics.NewPendulum(physics.DefaultPendulumConfig())
//	p.Observe(trail.NewRecorder(100))
//	for i := 0; i < 600; i++ {
//		p.Step(1.0 / 60)
//	}
//	fmt.Println(p.Derived().TotalEnergy)
//
// # Thread Safety
//
// Engines are NOT thread-safe. Each engine is owned by exactly one driver
// loop; run independent engines in separate goroutines instead of sharing one.
package dynamo
