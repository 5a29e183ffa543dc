package experiment

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/sim"
)

// Experiment is one headless run: an engine built from a config, optional
// parameter overrides, and the default metrics for that engine.
type Experiment struct {
	cfg         *config.Config
	overrides   map[string]float64
	engine      dynamo.Engine
	simulator   *sim.Simulator
	adjustments []dynamo.Adjustment
}

func New(cfg *config.Config, overrides map[string]float64) *Experiment {
	return &Experiment{
		cfg:       cfg,
		overrides: overrides,
	}
}

// Setup builds the engine and applies overrides in name order.
func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	engine, adj, err := reg.GetEngine(e.cfg.Engine, e.cfg)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(e.overrides))
	for name := range e.overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		tunable, ok := engine.(dynamo.Configurable)
		if !ok {
			return fmt.Errorf("engine %s does not accept parameters", e.cfg.Engine)
		}
		for _, name := range names {
			if err := tunable.SetParam(name, e.overrides[name]); err != nil {
				return fmt.Errorf("override %s: %w", name, err)
			}
		}
	}

	e.engine = engine
	e.adjustments = adj
	e.simulator = sim.New(engine)
	for _, m := range reg.DefaultMetrics(e.cfg.Engine) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Dt:       e.cfg.Dt,
		Duration: e.cfg.Duration,
	}
	if e.cfg.Engine == "projectile" {
		simCfg.StopOn = dynamo.EventImpact
	}

	return e.simulator.Run(ctx, simCfg)
}

// Params returns the effective engine parameters after clamping.
func (e *Experiment) Params() map[string]float64 {
	if c, ok := e.engine.(dynamo.Configurable); ok {
		return c.GetParams()
	}
	return nil
}

// Adjustments lists config fields clamped while building the engine.
func (e *Experiment) Adjustments() []dynamo.Adjustment {
	return e.adjustments
}

func (e *Experiment) Engine() dynamo.Engine {
	return e.engine
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
