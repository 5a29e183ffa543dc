package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	c := a.Clone()
	c[0] = 99
	if a[0] != 1 {
		t.Errorf("Clone shares storage")
	}
}

type recorder struct {
	steps  int
	events []Event
}

func (r *recorder) OnStep(Sample) { r.steps++ }

func (r *recorder) OnEvent(ev Event, _ Sample) { r.events = append(r.events, ev) }

type stepCounter struct{ steps int }

func (c *stepCounter) OnStep(Sample) { c.steps++ }

func TestObservers(t *testing.T) {
	rec := &recorder{}
	plain := &stepCounter{}
	obs := Observers{rec, plain}

	obs.Notify(Sample{})
	obs.Notify(Sample{})
	obs.Emit(EventBounce, Sample{})

	if rec.steps != 2 || plain.steps != 2 {
		t.Errorf("steps = %d/%d, want 2/2", rec.steps, plain.steps)
	}
	if len(rec.events) != 1 || rec.events[0] != EventBounce {
		t.Errorf("events = %v", rec.events)
	}
}

func TestEventString(t *testing.T) {
	tests := map[Event]string{
		EventImpact: "impact",
		EventBounce: "bounce",
		EventRest:   "rest",
		Event(0):    "unknown",
	}
	for ev, want := range tests {
		if got := ev.String(); got != want {
			t.Errorf("Event(%d).String() = %q, want %q", ev, got, want)
		}
	}
}

func TestSimError(t *testing.T) {
	err := error(&SimError{Time: 1.5, Step: 90, Wrapped: ErrInvalidState})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("SimError does not unwrap to ErrInvalidState")
	}
	if got := err.Error(); got != "step 90 (t=1.5000): dynamo: invalid state (NaN or Inf detected)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAdjustmentString(t *testing.T) {
	a := Adjustment{Param: "gravity", Requested: -5, Applied: 1}
	if got := a.String(); got != "gravity: -5 clamped to 1" {
		t.Errorf("String() = %q", got)
	}
}
