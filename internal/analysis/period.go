package analysis

// Crossings returns the interpolated times at which values rises through
// threshold. times and values must have equal length.
func Crossings(times, values []float64, threshold float64) []float64 {
	n := len(values)
	if len(times) < n {
		n = len(times)
	}

	var out []float64
	for i := 1; i < n; i++ {
		prev, curr := values[i-1], values[i]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// MeanPeriod is the average spacing of crossing times, 0 with fewer than two.
func MeanPeriod(crossings []float64) float64 {
	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}

// Column extracts component idx from each state.
func Column[S ~[]float64](states []S, idx int) []float64 {
	out := make([]float64, 0, len(states))
	for _, s := range states {
		if idx < len(s) {
			out = append(out, s[idx])
		}
	}
	return out
}
