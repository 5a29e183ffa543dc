package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/physlab/internal/analysis"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/export"
	"github.com/san-kum/physlab/internal/storage"
)

var (
	xAxis   int
	yAxis   int
	outPath string
	pngKind string
)

// runCommands are the commands that read saved runs from the data directory.
func runCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot state variables and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", -1, "state index for x-axis (default per engine)")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", -1, "state index for y-axis (default per engine)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis and period estimate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render a trajectory or energy chart as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>_<kind>.png)")
	exportPNGCmd.Flags().StringVar(&pngKind, "kind", "trajectory", "chart kind: trajectory or energy")

	return []*cobra.Command{listCmd, plotCmd, phaseCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, exportPNGCmd}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tENGINE\tTIME\tDURATION\tDT\tSTEPS\tPRESET")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Engine,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Preset,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	rec, err := storage.New(dataDir).LoadRun(args[0])
	if err != nil {
		return err
	}
	if len(rec.States) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", rec.Meta.ID)
	fmt.Printf("engine: %s\n", rec.Meta.Engine)
	fmt.Printf("samples: %d\n\n", len(rec.States))

	for i, label := range rec.Meta.Labels {
		graph := asciigraph.Plot(analysis.Column(rec.States, i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(label+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Println(asciigraph.Plot(totalEnergy(rec),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy (J)"),
	))
	return nil
}

// phaseAxes picks the default phase plane: (θ, ω) for the pendulum,
// (y, vy) otherwise.
func phaseAxes(engine string) (int, int) {
	if engine == "pendulum" {
		return 0, 1
	}
	return 1, 3
}

func phasePlot(cmd *cobra.Command, args []string) error {
	rec, err := storage.New(dataDir).LoadRun(args[0])
	if err != nil {
		return err
	}

	x, y := phaseAxes(rec.Meta.Engine)
	if xAxis >= 0 {
		x = xAxis
	}
	if yAxis >= 0 {
		y = yAxis
	}

	portrait := analysis.PhasePortraitFromStates(rec.States, x, y)
	if portrait == nil {
		return fmt.Errorf("state dimension too small for axes %d, %d", x, y)
	}

	fmt.Printf("phase space plot: %s\n", rec.Meta.ID)
	fmt.Printf("engine: %s\n", rec.Meta.Engine)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", axisLabel(rec.Meta.Labels, x), axisLabel(rec.Meta.Labels, y))
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 20))
	return nil
}

func axisLabel(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("x%d", i)
}

// analysisColumn is the signal whose period is estimated: θ for the
// pendulum, height for the others.
func analysisColumn(engine string) int {
	if engine == "pendulum" {
		return 0
	}
	return 1
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	rec, err := storage.New(dataDir).LoadRun(args[0])
	if err != nil {
		return err
	}
	return writeAnalysis(os.Stdout, rec)
}

func writeAnalysis(w io.Writer, rec *storage.Recording) error {
	col := analysisColumn(rec.Meta.Engine)
	values := analysis.Column(rec.States, col)
	if len(values) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}
	dt := rec.Meta.Dt
	label := axisLabel(rec.Meta.Labels, col)

	fmt.Fprintf(w, "frequency analysis: %s\n", rec.Meta.ID)
	fmt.Fprintf(w, "engine: %s, signal: %s\n\n", rec.Meta.Engine, label)

	freqs, power := analysis.Spectrum(values, dt)
	if len(power) > 8 {
		// the interesting part sits in the low bins
		plotData := power[:len(power)/4]
		fmt.Fprintln(w, asciigraph.Plot(plotData,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum of %s (0-%.2f Hz)", label, freqs[len(plotData)-1])),
		))
		fmt.Fprintln(w)
	}

	if period := analysis.DominantPeriod(values, dt); period > 0 {
		fmt.Fprintf(w, "dominant frequency: %.3f hz\n", 1/period)
		fmt.Fprintf(w, "spectral period: %.3f s\n", period)
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	times := rec.Times[:len(values)]
	if period := analysis.MeanPeriod(analysis.Crossings(times, values, mean)); period > 0 {
		fmt.Fprintf(w, "crossing period: %.3f s\n", period)
	}

	if rec.Meta.Engine == "pendulum" {
		if pe, ok := rec.Meta.Metrics["period_error"]; ok {
			fmt.Fprintf(w, "measured vs small-angle period error: %.2f%%\n", pe*100)
		}
	}
	if len(rec.Events) > 0 {
		fmt.Fprintln(w, "\nevents:")
		counts := make(map[string]int)
		for _, ev := range rec.Events {
			counts[ev.Event.String()]++
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %d\n", name, counts[name])
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	rec, err := storage.New(dataDir).LoadRun(args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.WriteJSON(os.Stdout, rec)
	}
	return storage.ExportJSON(outPath, rec)
}

// eventMarkers returns the positions at which bounce or impact events fired.
func eventMarkers(rec *storage.Recording) []mgl64.Vec2 {
	var out []mgl64.Vec2
	for _, ev := range rec.Events {
		if ev.Event != dynamo.EventBounce && ev.Event != dynamo.EventImpact {
			continue
		}
		i := sort.SearchFloat64s(rec.Times, ev.Time)
		if i >= len(rec.Positions) {
			i = len(rec.Positions) - 1
		}
		if i >= 0 {
			out = append(out, rec.Positions[i])
		}
	}
	return out
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	rec, err := storage.New(dataDir).LoadRun(runID)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := export.SVGOptions{
		Ground:  rec.Meta.Engine != "pendulum",
		Markers: eventMarkers(rec),
	}
	if err := export.WriteSVG(f, rec.Positions, opts); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", path)
	return nil
}

func exportPNG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	rec, err := storage.New(dataDir).LoadRun(runID)
	if err != nil {
		return err
	}

	var chart export.Chart
	title := fmt.Sprintf("%s (%s)", rec.Meta.Engine, runID)
	switch pngKind {
	case "trajectory":
		chart = export.TrajectoryChart(title, rec.Positions)
	case "energy":
		pe := make([]float64, len(rec.Energies))
		ke := make([]float64, len(rec.Energies))
		for i, d := range rec.Energies {
			pe[i], ke[i] = d.PotentialEnergy, d.KineticEnergy
		}
		chart = export.EnergyChart(title, rec.Times, pe, ke, totalEnergy(rec))
	default:
		return fmt.Errorf("unknown chart kind %q (trajectory, energy)", pngKind)
	}

	path := outPath
	if path == "" {
		path = fmt.Sprintf("%s_%s.png", runID, pngKind)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.WritePNG(f, chart); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", path)
	return nil
}

func totalEnergy(rec *storage.Recording) []float64 {
	out := make([]float64, len(rec.Energies))
	for i, d := range rec.Energies {
		out[i] = d.TotalEnergy
	}
	return out
}
