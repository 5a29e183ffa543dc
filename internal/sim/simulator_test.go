package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/physics"
)

func TestSimulatorRun(t *testing.T) {
	sim := New(physics.NewPendulum(physics.DefaultPendulumConfig()))

	cfg := Config{Dt: 0.1 / 6, Duration: 1.0}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 61 {
		t.Errorf("expected 61 states, got %d", len(result.States))
	}
	if len(result.Times) != 61 || len(result.Energies) != 61 {
		t.Errorf("expected 61 times and energies, got %d/%d", len(result.Times), len(result.Energies))
	}
	if result.StepsTaken != 60 {
		t.Errorf("expected 60 steps, got %d", result.StepsTaken)
	}
	if math.Abs(result.Times[60]-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", result.Times[60])
	}
	if result.Engine != "pendulum" || len(result.Labels) != 2 {
		t.Errorf("unexpected engine metadata %q %v", result.Engine, result.Labels)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(physics.NewBall(physics.DefaultBallConfig()))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"nan dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s dynamo.Sample, d dynamo.Derived) {
	t.count++
	t.sum += d.TotalEnergy
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(physics.NewPendulum(physics.DefaultPendulumConfig()))

	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Dt: DefaultDt, Duration: 0.5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 31 {
		t.Errorf("expected 31 observations, got %d", metric.count)
	}
}

func TestSimulatorStopOnImpact(t *testing.T) {
	p := physics.NewProjectile(physics.DefaultProjectileConfig())
	sim := New(p)

	cfg := Config{Dt: DefaultDt, Duration: 60, StopOn: dynamo.EventImpact}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Count(dynamo.EventImpact) != 1 {
		t.Errorf("expected one impact, got %v", result.Events)
	}
	if got := result.Final()[1]; got != 0 {
		t.Errorf("expected final y 0, got %f", got)
	}
	flight := p.Config().Predict().FlightTime
	if result.StepsTaken > int(flight/DefaultDt)+2 {
		t.Errorf("run did not stop at impact: %d steps", result.StepsTaken)
	}

	// a second run starts clean
	again, _ := sim.Run(context.Background(), cfg)
	if again.Count(dynamo.EventImpact) != 1 {
		t.Errorf("expected one impact on rerun, got %v", again.Events)
	}
}

func TestSimulatorBallEvents(t *testing.T) {
	sim := New(physics.NewBall(physics.DefaultBallConfig()))
	result, err := sim.Run(context.Background(), Config{Dt: DefaultDt, Duration: 20})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Count(dynamo.EventBounce) == 0 || result.Count(dynamo.EventRest) != 1 {
		t.Errorf("unexpected events: %d bounces, %d rests",
			result.Count(dynamo.EventBounce), result.Count(dynamo.EventRest))
	}
}

func TestSimulatorCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(physics.NewPendulum(physics.DefaultPendulumConfig()))
	result, err := sim.Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.States) != 1 {
		t.Errorf("expected only the initial state, got %d", len(result.States))
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(physics.NewProjectile(physics.DefaultProjectileConfig()))

	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: DefaultDt, Duration: 100},
		func(s dynamo.Sample, d dynamo.Derived) bool {
			calls++
			return true
		})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if calls == 0 || calls > 600 {
		t.Errorf("expected the run to end at impact, got %d callbacks", calls)
	}

	calls = 0
	sim.Engine().Restart()
	_ = sim.RunWithCallback(context.Background(), Config{Dt: DefaultDt, Duration: 100},
		func(dynamo.Sample, dynamo.Derived) bool {
			calls++
			return calls < 5
		})
	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("DefaultConfig has invalid Dt")
	}
	if cfg.Duration <= 0 {
		t.Error("DefaultConfig has invalid Duration")
	}
}
