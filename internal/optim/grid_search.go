// Package optim searches engine parameter grids for the run that best
// scores on a named metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/physlab/internal/experiment"
)

// Axis is one parameter and the values tried for it.
type Axis struct {
	Name   string
	Values []float64
}

// ParseAxis reads "name=from:to:step" or "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || raw == "" {
		return Axis{}, fmt.Errorf("invalid grid %q, want name=from:to:step or name=v1,v2", s)
	}

	if parts := strings.Split(raw, ":"); len(parts) == 3 {
		var nums [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return Axis{}, fmt.Errorf("grid %s: %w", name, err)
			}
			nums[i] = v
		}
		from, to, step := nums[0], nums[1], nums[2]
		if step <= 0 || to < from {
			return Axis{}, fmt.Errorf("grid %s: need from <= to and step > 0", name)
		}
		var values []float64
		n := int(math.Floor((to-from)/step+1e-9)) + 1
		for i := 0; i < n; i++ {
			values = append(values, from+float64(i)*step)
		}
		return Axis{Name: name, Values: values}, nil
	}

	var values []float64
	for _, p := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("grid %s: %w", name, err)
		}
		values = append(values, v)
	}
	return Axis{Name: name, Values: values}, nil
}

type GridSearch struct {
	axes     []Axis
	maximize bool
}

func NewGridSearch(axes []Axis, maximize bool) *GridSearch {
	return &GridSearch{axes: axes, maximize: maximize}
}

// Best is the winning parameter set. Evaluated counts the runs that
// completed and reported the metric.
type Best struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
}

// Search runs one experiment per grid point. Points whose experiment fails
// to build or run are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (Best, error) {
	best := Best{Value: math.Inf(1)}
	if g.maximize {
		best.Value = math.Inf(-1)
	}

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, &best); err != nil {
		return Best{}, err
	}
	if best.Params == nil {
		return Best{}, fmt.Errorf("no run reported metric %q", metricName)
	}
	return best, nil
}

func (g *GridSearch) better(v, than float64) bool {
	if g.maximize {
		return v > than
	}
	return v < than
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.axes) {
		exp, err := buildExperiment(current)
		if err != nil {
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok || math.IsNaN(val) {
			return nil
		}
		best.Evaluated++
		if best.Params == nil || g.better(val, best.Value) {
			best.Value = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[axis.Name] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, best); err != nil {
			return err
		}
	}
	return nil
}
