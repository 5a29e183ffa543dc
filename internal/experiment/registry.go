package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/metrics"
	"github.com/san-kum/physlab/internal/physics"
)

// EngineFactory builds an engine from a full config and reports the fields
// the engine had to clamp.
type EngineFactory func(cfg *config.Config) (dynamo.Engine, []dynamo.Adjustment)

type Registry struct {
	engines map[string]EngineFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		engines: make(map[string]EngineFactory),
	}

	r.engines["projectile"] = func(c *config.Config) (dynamo.Engine, []dynamo.Adjustment) {
		p := physics.NewProjectile(physics.DefaultProjectileConfig())
		return p, p.Configure(c.Projectile)
	}
	r.engines["ball"] = func(c *config.Config) (dynamo.Engine, []dynamo.Adjustment) {
		b := physics.NewBall(physics.DefaultBallConfig())
		return b, b.Configure(c.Ball)
	}
	r.engines["pendulum"] = func(c *config.Config) (dynamo.Engine, []dynamo.Adjustment) {
		p := physics.NewPendulum(physics.DefaultPendulumConfig())
		return p, p.Configure(c.Pendulum)
	}

	return r
}

// Register adds or replaces an engine factory.
func (r *Registry) Register(name string, fn EngineFactory) {
	r.engines[name] = fn
}

func (r *Registry) GetEngine(name string, cfg *config.Config) (dynamo.Engine, []dynamo.Adjustment, error) {
	fn, ok := r.engines[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownEngine, name)
	}
	e, adj := fn(cfg)
	return e, adj, nil
}

func (r *Registry) ListEngines() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(engine string) []dynamo.Metric {
	ms := []dynamo.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewEnergyGain(),
		metrics.NewStability(1e4),
		metrics.NewPathLength(),
	}
	if engine == "pendulum" {
		ms = append(ms, metrics.NewPeriodError())
	}
	return ms
}
