package sim

import (
	"time"

	"github.com/san-kum/physlab/internal/dynamo"
)

type RunState int

const (
	Idle RunState = iota
	Running
	Paused
	// Finished is entered when the engine reports a terminal event.
	Finished
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Runner owns the interactive lifecycle of one engine: start, pause,
// resume and reset, with ticks paced by a Clock.
type Runner struct {
	engine dynamo.Engine
	clock  *Clock
	state  RunState
	// Speed multiplies the wall time fed to the clock.
	Speed float64
	// FinishOn moves the runner to Finished when the engine fires it.
	FinishOn dynamo.Event
}

func NewRunner(engine dynamo.Engine, step float64) *Runner {
	r := &Runner{
		engine:   engine,
		clock:    NewClock(step),
		Speed:    1,
		FinishOn: dynamo.EventImpact,
	}
	engine.Observe(r)
	return r
}

func (r *Runner) Engine() dynamo.Engine { return r.engine }
func (r *Runner) State() RunState       { return r.state }

func (r *Runner) Start() {
	if r.state == Finished {
		r.Reset()
	}
	r.state = Running
}

func (r *Runner) Pause() {
	if r.state == Running {
		r.state = Paused
	}
}

func (r *Runner) Resume() {
	if r.state == Paused {
		r.state = Running
	}
}

// Toggle is the single start/pause control.
func (r *Runner) Toggle() {
	switch r.state {
	case Running:
		r.Pause()
	case Paused:
		r.Resume()
	default:
		r.Start()
	}
}

func (r *Runner) Reset() {
	r.engine.Restart()
	r.clock.Reset()
	r.state = Idle
}

// Tick feeds one frame of wall time and returns the number of engine steps taken.
func (r *Runner) Tick(elapsed time.Duration) int {
	if r.state != Running {
		return 0
	}
	scaled := time.Duration(float64(elapsed) * r.Speed)
	n := r.clock.Advance(scaled)
	for i := 0; i < n && r.state == Running; i++ {
		r.engine.Advance(r.clock.Step)
	}
	return n
}

// StepOnce advances a single tick regardless of the run state.
func (r *Runner) StepOnce() {
	if r.state == Finished {
		return
	}
	r.engine.Advance(r.clock.Step)
}

func (r *Runner) OnStep(dynamo.Sample) {}

func (r *Runner) OnEvent(ev dynamo.Event, _ dynamo.Sample) {
	if r.FinishOn != 0 && ev == r.FinishOn {
		r.state = Finished
	}
}
