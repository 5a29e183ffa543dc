package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physlab/internal/dynamo"
)

// Simulator drives one engine headlessly at a fixed step and records every sample.
type Simulator struct {
	engine    dynamo.Engine
	metrics   []dynamo.Metric
	collector *eventCollector
}

func New(engine dynamo.Engine) *Simulator {
	c := &eventCollector{}
	engine.Observe(c)
	return &Simulator{
		engine:    engine,
		metrics:   make([]dynamo.Metric, 0),
		collector: c,
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.engine.Observe(o) }

func (s *Simulator) Engine() dynamo.Engine { return s.engine }

// Run resets the engine and steps it for cfg.Duration. On cancellation the
// partial result is returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Engine:    s.engine.Name(),
		Labels:    s.engine.Labels(),
		Times:     make([]float64, 0, steps+1),
		States:    make([]dynamo.State, 0, steps+1),
		Positions: make([]mgl64.Vec2, 0, steps+1),
		Energies:  make([]dynamo.Derived, 0, steps+1),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.engine.Restart()
	s.collector.start()
	defer s.collector.stop()

	record := func() dynamo.Derived {
		sample := s.engine.Sample()
		d := s.engine.Derived()
		result.Times = append(result.Times, sample.Time)
		result.States = append(result.States, sample.State.Clone())
		result.Positions = append(result.Positions, sample.Position)
		result.Energies = append(result.Energies, d)
		for _, m := range s.metrics {
			m.Observe(sample, d)
		}
		return d
	}

	initial := record()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, initial)
			return result, ctx.Err()
		default:
		}

		s.engine.Advance(cfg.Dt)
		if x := s.engine.Vector(); !x.IsValid() {
			s.finish(result, initial)
			return result, &dynamo.SimError{Time: s.engine.Time(), Step: i, Wrapped: dynamo.ErrInvalidState}
		}
		record()
		result.StepsTaken++

		if cfg.StopOn != 0 && s.collector.seen(cfg.StopOn) {
			break
		}
	}

	s.finish(result, initial)
	return result, nil
}

func (s *Simulator) finish(result *Result, initial dynamo.Derived) {
	result.Events = append(result.Events, s.collector.events...)
	if n := len(result.Energies); n > 0 && initial.TotalEnergy != 0 {
		final := result.Energies[n-1].TotalEnergy
		result.EnergyDrift = math.Abs(final-initial.TotalEnergy) / math.Abs(initial.TotalEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback steps the engine until the callback returns false, the
// duration elapses or ctx is cancelled. The engine is not reset first.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(dynamo.Sample, dynamo.Derived) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	start := s.engine.Time()
	for i := 0; s.engine.Time()-start < cfg.Duration; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.engine.Sample(), s.engine.Derived()) {
			return nil
		}

		before := s.engine.Time()
		s.engine.Advance(cfg.Dt)
		if !s.engine.Vector().IsValid() {
			return &dynamo.SimError{Time: s.engine.Time(), Step: i, Wrapped: dynamo.ErrInvalidState}
		}
		if s.engine.Time() == before {
			// engine has stopped (a grounded projectile)
			return nil
		}
	}

	return nil
}

// eventCollector records engine events while a run is active.
type eventCollector struct {
	active bool
	events []EventRecord
}

func (c *eventCollector) start() {
	c.active = true
	c.events = c.events[:0]
}

func (c *eventCollector) stop() {
	c.active = false
}

func (c *eventCollector) seen(ev dynamo.Event) bool {
	for _, e := range c.events {
		if e.Event == ev {
			return true
		}
	}
	return false
}

func (c *eventCollector) OnStep(dynamo.Sample) {}

func (c *eventCollector) OnEvent(ev dynamo.Event, s dynamo.Sample) {
	if c.active {
		c.events = append(c.events, EventRecord{Time: s.Time, Event: ev})
	}
}
