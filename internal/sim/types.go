package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
)

// DefaultDt is the fixed tick every driver feeds the engines.
const DefaultDt = 1.0 / 60

type Config struct {
	Dt       float64
	Duration float64
	// StopOn ends the run after the step that fires this event. Zero disables it.
	StopOn dynamo.Event
}

func DefaultConfig() Config {
	return Config{
		Dt:       DefaultDt,
		Duration: 10,
	}
}

// EventRecord is an engine event with the time it fired.
type EventRecord struct {
	Time  float64
	Event dynamo.Event
}

type Result struct {
	Engine    string
	Labels    []string
	Times     []float64
	States    []dynamo.State
	Positions []mgl64.Vec2
	Energies  []dynamo.Derived
	Events    []EventRecord
	Metrics   map[string]float64

	StepsTaken int
	// EnergyDrift is |E_final - E_0| / |E_0|, zero when E_0 is zero.
	EnergyDrift float64
}

// Final returns the last recorded state, or nil for an empty result.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Count reports how many times ev fired during the run.
func (r *Result) Count(ev dynamo.Event) int {
	n := 0
	for _, e := range r.Events {
		if e.Event == ev {
			n++
		}
	}
	return n
}
