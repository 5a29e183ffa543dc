package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/physlab/internal/dynamo"
)

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []struct{ X, Y float64 }
}

// PhasePortraitFromStates picks components xIdx and yIdx from every state.
// It returns nil when an index is out of range.
func PhasePortraitFromStates(states []dynamo.State, xIdx, yIdx int) *PhasePortrait2D {
	if len(states) == 0 || xIdx < 0 || yIdx < 0 || xIdx >= len(states[0]) || yIdx >= len(states[0]) {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]struct{ X, Y float64 }, 0, len(states)),
	}

	for _, x := range states {
		if xIdx >= len(x) || yIdx >= len(x) {
			continue
		}
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: x[xIdx],
			Y: x[yIdx],
		})
	}

	return portrait
}

// GeneratePhasePortrait resets the engine and records its phase trajectory.
func GeneratePhasePortrait(engine dynamo.Engine, xIdx, yIdx int, dt, duration float64) *PhasePortrait2D {
	engine.Restart()
	states := []dynamo.State{engine.Vector()}
	for engine.Time() < duration {
		before := engine.Time()
		engine.Advance(dt)
		if engine.Time() == before {
			break
		}
		states = append(states, engine.Vector())
	}
	return PhasePortraitFromStates(states, xIdx, yIdx)
}

// span is a padded axis range.
type span struct{ lo, hi float64 }

func (sp span) width() float64 { return sp.hi - sp.lo }

// cell maps v onto 0..n-1.
func (sp span) cell(v float64, n int) int {
	return int((v - sp.lo) / sp.width() * float64(n-1))
}

// padded widens [lo, hi] by 10% on each side; a degenerate range gets unit width.
func padded(lo, hi float64) span {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return span{lo - r/10, hi + r/10}
}

// PhasePortraitToASCII plots the portrait on a width×height character grid
// with y growing upwards, drawing the axes where they fall inside the view.
// Each row ends in a newline.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	first := portrait.Points[0]
	minX, maxX, minY, maxY := first.X, first.X, first.Y, first.Y
	for _, p := range portrait.Points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	xs, ys := padded(minX, maxX), padded(minY, maxY)

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	put := func(row, col int, ch rune, over bool) {
		if row < 0 || row >= height || col < 0 || col >= width {
			return
		}
		if over || grid[row][col] == ' ' {
			grid[row][col] = ch
		}
	}
	rowOf := func(y float64) int { return height - 1 - ys.cell(y, height) }

	for _, p := range portrait.Points {
		put(rowOf(p.Y), xs.cell(p.X, width), '•', true)
	}
	if xs.lo <= 0 && xs.hi >= 0 {
		col := xs.cell(0, width)
		for r := 0; r < height; r++ {
			put(r, col, '│', false)
		}
	}
	if ys.lo <= 0 && ys.hi >= 0 {
		row := rowOf(0)
		for c := 0; c < width; c++ {
			put(row, c, '─', false)
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
