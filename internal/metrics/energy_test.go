package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
)

func energy(te float64) dynamo.Derived {
	return dynamo.Derived{TotalEnergy: te}
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()
	m.Observe(dynamo.Sample{}, energy(2))
	m.Observe(dynamo.Sample{}, energy(4))

	if got := m.Value(); got != 3 {
		t.Errorf("expected mean energy 3, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	for _, e := range []float64{10, 10.5, 9.8, 10.1} {
		m.Observe(dynamo.Sample{}, energy(e))
	}

	if got := m.Value(); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("expected drift 0.05, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestEnergyGain(t *testing.T) {
	m := NewEnergyGain()
	for _, e := range []float64{10, 9, 9.9, 5} {
		m.Observe(dynamo.Sample{}, energy(e))
	}

	if got := m.Value(); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("expected gain 0.1, got %f", got)
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	m.Observe(dynamo.Sample{State: dynamo.State{1, 2}}, dynamo.Derived{})
	m.Observe(dynamo.Sample{State: dynamo.State{1, 20}}, dynamo.Derived{})
	m.Observe(dynamo.Sample{State: dynamo.State{math.NaN(), 0}}, dynamo.Derived{})
	m.Observe(dynamo.Sample{State: dynamo.State{0, 0}}, dynamo.Derived{})

	if got := m.Value(); got != 0.5 {
		t.Errorf("expected stability 0.5, got %f", got)
	}
}

func TestPathLength(t *testing.T) {
	m := NewPathLength()
	for _, p := range []mgl64.Vec2{{0, 0}, {3, 4}, {3, 0}} {
		m.Observe(dynamo.Sample{Position: p}, dynamo.Derived{})
	}

	if got := m.Value(); got != 9 {
		t.Errorf("expected path length 9, got %f", got)
	}
}

func TestPeriodError(t *testing.T) {
	m := NewPeriodError()
	m.Observe(dynamo.Sample{}, dynamo.Derived{Period: 2})
	if !math.IsNaN(m.Value()) {
		t.Errorf("expected NaN before a measurement, got %f", m.Value())
	}

	m.Observe(dynamo.Sample{}, dynamo.Derived{Period: 2, MeasuredPeriod: 2.1})
	m.Observe(dynamo.Sample{}, dynamo.Derived{Period: 2})
	if got := m.Value(); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("expected period error 0.05, got %f", got)
	}
}
