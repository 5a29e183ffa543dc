package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for engine configuration and batch runs.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownParam indicates a SetParam call with a name the engine does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnknownEngine indicates a lookup for an engine that is not registered.
	ErrUnknownEngine = errors.New("dynamo: unknown engine")

	// ErrUnknownIntegrator indicates a lookup for an integrator that is not registered.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
)

// Adjustment records a configuration value that was clamped into its valid range.
// It is the only form of configuration rejection a collaborator can observe.
type Adjustment struct {
	Param     string
	Requested float64
	Applied   float64
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s: %g clamped to %g", a.Param, a.Requested, a.Applied)
}

// SimError wraps a failure of a batch run with its position in the run.
type SimError struct {
	Time    float64
	Step    int
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
