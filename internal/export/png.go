package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Series is one named line of a chart.
type Series struct {
	Name string
	X, Y []float64
}

// Chart describes a line chart rendered to PNG.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
	// Width and Height are in inches; DPI defaults to 150.
	Width, Height float64
	DPI           int
}

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)

	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)

	p.X.Tick.Marker = limitedTicker(8, "%.1f")
	p.Y.Tick.Marker = limitedTicker(8, "%.1f")
}

// WritePNG renders the chart to w.
func WritePNG(w io.Writer, c Chart) error {
	if len(c.Series) == 0 {
		return fmt.Errorf("chart has no series")
	}
	if c.Width <= 0 {
		c.Width = 8
	}
	if c.Height <= 0 {
		c.Height = 5
	}
	if c.DPI <= 0 {
		c.DPI = 150
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	stylePlot(p)

	for i, s := range c.Series {
		if len(s.X) != len(s.Y) || len(s.X) == 0 {
			return fmt.Errorf("series %q: invalid data", s.Name)
		}
		pts := make(plotter.XYs, len(s.X))
		for j := range s.X {
			pts[j].X = s.X[j]
			pts[j].Y = s.Y[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutilColor(i)
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(c.Width)*vg.Inch, vg.Length(c.Height)*vg.Inch),
		vgimg.UseDPI(c.DPI),
	)
	p.Draw(draw.New(canvas))

	bw := bufio.NewWriter(w)
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// TrajectoryChart plots y against x of a physical-frame path.
func TrajectoryChart(title string, points []mgl64.Vec2) Chart {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X(), p.Y()
	}
	return Chart{
		Title:  title,
		XLabel: "x (m)",
		YLabel: "y (m)",
		Series: []Series{{X: xs, Y: ys}},
	}
}

// EnergyChart plots potential, kinetic and total energy over time.
func EnergyChart(title string, times, pe, ke, te []float64) Chart {
	return Chart{
		Title:  title,
		XLabel: "time (s)",
		YLabel: "energy (J)",
		Series: []Series{
			{Name: "PE", X: times, Y: pe},
			{Name: "KE", X: times, Y: ke},
			{Name: "Total", X: times, Y: te},
		},
	}
}
