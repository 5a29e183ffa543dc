package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/optim"
)

var (
	grids    []string
	metric   string
	maximize bool
)

func optimizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [engine]",
		Short: "grid search engine parameters against a run metric",
		Example: `  physlab optimize pendulum --grid damping=0:0.5:0.05 --metric energy_drift
  physlab optimize projectile --grid angle=20:70:1 --metric path_length --maximize`,
		Args: cobra.ExactArgs(1),
		RunE: runOptimize,
	}
	addSimFlags(cmd)
	cmd.Flags().StringArrayVar(&grids, "grid", nil, "parameter grid name=from:to:step or name=v1,v2 (repeatable)")
	cmd.Flags().StringVar(&metric, "metric", "energy_drift", "metric to optimize")
	cmd.Flags().BoolVar(&maximize, "maximize", false, "maximize the metric instead of minimizing it")
	return cmd
}

func runOptimize(cmd *cobra.Command, args []string) error {
	engine := args[0]
	if len(grids) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}

	axes := make([]optim.Axis, 0, len(grids))
	points := 1
	for _, g := range grids {
		axis, err := optim.ParseAxis(g)
		if err != nil {
			return err
		}
		axes = append(axes, axis)
		points *= len(axis.Values)
	}

	cfg, overrides, err := buildConfig(cmd, engine)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	reg := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		merged := make(map[string]float64, len(overrides)+len(params))
		for k, v := range overrides {
			merged[k] = v
		}
		for k, v := range params {
			merged[k] = v
		}
		exp := experiment.New(cfg.Clone(), merged)
		if err := exp.Setup(reg); err != nil {
			slog.Debug("grid point skipped", "params", params, "err", err)
			return nil, err
		}
		return exp, nil
	}

	slog.Info("grid search", "engine", engine, "metric", metric, "points", points, "maximize", maximize)
	best, err := optim.NewGridSearch(axes, maximize).Search(ctx, build, metric)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated %d/%d points\n", best.Evaluated, points)
	fmt.Printf("best %s: %.6g\n", metric, best.Value)
	names := make([]string, 0, len(best.Params))
	for name := range best.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s = %.4g\n", name, best.Params[name])
	}
	return nil
}
