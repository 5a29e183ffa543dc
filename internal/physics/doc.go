// Package physics implements the three demonstration engines:
//
//   - [Projectile]: point mass under gravity with optional quadratic drag and crosswind
//   - [Ball]: bouncing ball with restitution, rolling friction and quadratic drag
//   - [Pendulum]: nonlinear damped simple pendulum
//
// Every engine follows the same shape: Configure clamps a config into its
// documented ranges and resets; Reset rebuilds the state deterministically;
// Step(dt) advances one frame; Derived computes energy readouts. Engines
// implement [dynamo.Engine] and [dynamo.Configurable] so collaborators can
// drive and tune them without knowing the concrete type.
//
// All engines work in SI units in the physical frame (y up). Pixel
// conversion is left to the caller, see [Ball.Pixels] and [Pendulum.Bob].
//
// # Energy
//
// Derived energies are informational and never fed back into integration:
//
//	b := physics.NewBall(physics.DefaultBallConfig())
//	b.Step(1.0 / 60)
//	fmt.Printf("%.2f J\n", b.Derived().TotalEnergy)
package physics
