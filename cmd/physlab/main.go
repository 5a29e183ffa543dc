package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/export"
	"github.com/san-kum/physlab/internal/integrators"
	"github.com/san-kum/physlab/internal/physics"
	"github.com/san-kum/physlab/internal/storage"
	"github.com/san-kum/physlab/internal/trail"
	"github.com/san-kum/physlab/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	sets       []string
	// live view
	frameRate int
	theme     string
	// sweep
	angleFrom float64
	angleTo   float64
	angleStep float64
	sweepPNG  string
)

// main registers the commands and flags and executes the root command.
// With no subcommand it opens the interactive engine picker. It exits with
// status 1 when a command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "physlab",
		Short:         "2d physics lab: projectile, bouncing ball and pendulum",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := buildConfig(cmd, config.DefaultEngine)
			if err != nil {
				return err
			}
			return viz.RunInteractive(experiment.NewRegistry(), cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [engine]",
		Short: "run a headless simulation and save it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [engine]",
		Short: "run an engine in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 0, "frame rate (default from config)")
	liveCmd.Flags().StringVar(&theme, "theme", "", "colour theme: "+strings.Join(viz.ThemeNames(), ", "))

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "projectile range versus launch angle",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&angleFrom, "from", 5, "first launch angle (deg)")
	sweepCmd.Flags().Float64Var(&angleTo, "to", 85, "last launch angle (deg)")
	sweepCmd.Flags().Float64Var(&angleStep, "step", 5, "angle step (deg)")
	sweepCmd.Flags().StringVar(&sweepPNG, "png", "", "also write a range chart to this PNG file")

	presetsCmd := &cobra.Command{
		Use:   "presets [engine] [preset]",
		Short: "list presets for an engine, or print one as yaml",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  showPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, presetsCmd, optimizeCommand(), scenarioCommand())
	rootCmd.AddCommand(runCommands()...)
	addSimFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().StringVar(&integrator, "integrator", "", "pendulum integrator: "+strings.Join(integrators.Names(), ", "))
	cmd.Flags().StringArrayVar(&sets, "set", nil, "engine parameter override key=value (repeatable)")
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// buildConfig layers defaults < preset < config file < flags and parses
// the --set overrides.
func buildConfig(cmd *cobra.Command, engine string) (*config.Config, map[string]float64, error) {
	cfg := config.DefaultConfig()
	cfg.Engine = engine

	if preset != "" {
		p := config.GetPreset(engine, preset)
		if p == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(engine))
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.LoadInto(cfg, configFile); err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		if engine == "" {
			engine = cfg.Engine
		}
		cfg.Engine = engine
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Pendulum.Integrator = integrator
	}

	overrides, err := parseSets(sets)
	if err != nil {
		return nil, nil, err
	}
	return cfg, overrides, nil
}

// parseSets turns key=value pairs into parameter overrides. Booleans are
// accepted for switches like "advanced".
func parseSets(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", pair)
		}
		raw = strings.TrimSpace(raw)
		if b, err := strconv.ParseBool(raw); err == nil && !isNumber(raw) {
			out[key] = 0
			if b {
				out[key] = 1
			}
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func logAdjustments(adj []dynamo.Adjustment) {
	for _, a := range adj {
		slog.Warn("parameter adjusted", "adjustment", a.String())
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	engine := args[0]
	cfg, overrides, err := buildConfig(cmd, engine)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, overrides)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}
	logAdjustments(exp.Adjustments())
	params := exp.Params()
	for name, want := range overrides {
		if got, ok := params[name]; ok && got != want {
			logAdjustments([]dynamo.Adjustment{{Param: name, Requested: want, Applied: got}})
		}
	}

	speeds := trail.NewRecorder(trail.ProjectileLength)
	exp.GetSimulator().AddObserver(speeds)

	slog.Info("running simulation", "engine", engine, "dt", cfg.Dt, "duration", cfg.Duration)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(runInfo(cfg, preset, exp), result)
	if err != nil {
		return err
	}
	slog.Debug("run saved", "id", runID, "elapsed", elapsed)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if p, ok := exp.Engine().(*physics.Projectile); ok {
		sum := p.Summary()
		fmt.Printf("range: %.2f m  max height: %.2f m  flight time: %.2f s\n", sum.Range, sum.MaxHeight, sum.FlightTime)
	}
	if engine != "pendulum" {
		fmt.Printf("peak speed: %.2f m/s\n", speeds.MaxSpeed())
	}
	if len(result.Events) > 0 {
		fmt.Printf("events: %d impact, %d bounce, %d rest\n",
			result.Count(dynamo.EventImpact), result.Count(dynamo.EventBounce), result.Count(dynamo.EventRest))
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

// runInfo describes a finished experiment for storage. The pendulum
// records the integrator it actually used after fallback.
func runInfo(cfg *config.Config, presetName string, exp *experiment.Experiment) storage.RunInfo {
	info := storage.RunInfo{
		Engine:   cfg.Engine,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Preset:   presetName,
		Params:   exp.Params(),
	}
	if p, ok := exp.Engine().(*physics.Pendulum); ok {
		info.Integrator = p.Config().Integrator
	}
	return info
}

func runLive(cmd *cobra.Command, args []string) error {
	engine := ""
	if len(args) > 0 {
		engine = args[0]
	}
	cfg, overrides, err := buildConfig(cmd, engine)
	if err != nil {
		return err
	}
	if frameRate > 0 {
		cfg.Display.FPS = frameRate
	}
	if theme != "" {
		cfg.Display.Theme = theme
	}

	if engine == "" && configFile != "" {
		engine = cfg.Engine
	}
	reg := experiment.NewRegistry()
	if engine == "" {
		return viz.RunInteractive(reg, cfg)
	}

	exp := experiment.New(cfg, overrides)
	if err := exp.Setup(reg); err != nil {
		return err
	}
	logAdjustments(exp.Adjustments())
	return viz.Run(exp.Engine(), viz.OptionsFromConfig(cfg))
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, overrides, err := buildConfig(cmd, "projectile")
	if err != nil {
		return err
	}
	for name, v := range overrides {
		if err := applyProjectileParam(&cfg.Projectile, name, v); err != nil {
			return err
		}
	}

	angles := experiment.Angles(angleFrom, angleTo, angleStep)
	slog.Info("sweeping launch angle", "from", angleFrom, "to", angleTo, "runs", len(angles))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	points, err := experiment.AngleSweep(ctx, experiment.NewRegistry(), cfg, angles)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tRANGE\tMAX HEIGHT\tFLIGHT\tTHEORY RANGE")
	xs := make([]float64, len(points))
	ranges := make([]float64, len(points))
	for i, p := range points {
		xs[i], ranges[i] = p.AngleDeg, p.Range
		fmt.Fprintf(w, "%.1f\t%.2f m\t%.2f m\t%.2f s\t%.2f m\n", p.AngleDeg, p.Range, p.MaxHeight, p.FlightTime, p.Theory.Range)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(ranges) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ranges,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("range (m) vs launch angle")))
	}
	if best, ok := experiment.Best(points); ok {
		fmt.Printf("\nlongest range: %.2f m at %.1f°\n", best.Range, best.AngleDeg)
	}

	if sweepPNG != "" {
		f, err := os.Create(sweepPNG)
		if err != nil {
			return err
		}
		defer f.Close()
		chart := export.Chart{
			Title:  "Range vs launch angle",
			XLabel: "angle (deg)",
			YLabel: "range (m)",
			Series: []export.Series{{X: xs, Y: ranges}},
		}
		if err := export.WritePNG(f, chart); err != nil {
			return err
		}
		slog.Info("chart written", "path", sweepPNG)
	}
	return nil
}

// applyProjectileParam maps a --set key onto the config, so every engine
// of a sweep starts from the same values.
func applyProjectileParam(c *physics.ProjectileConfig, name string, v float64) error {
	p := physics.NewProjectile(*c)
	if err := p.SetParam(name, v); err != nil {
		return err
	}
	*c = p.Config()
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	engine := args[0]
	presets := config.ListPresets(engine)
	if len(presets) == 0 {
		return fmt.Errorf("no presets for engine: %s", engine)
	}

	if len(args) == 1 {
		fmt.Printf("presets for %s:\n", engine)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
		return nil
	}

	cfg := config.GetPreset(engine, args[1])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[1], presets)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
