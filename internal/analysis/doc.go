// Package analysis post-processes recorded runs.
//
//   - [PhasePortraitFromStates]: 2D phase space trajectory of two state components
//   - [PhasePortraitToASCII]: terminal rendering of a portrait
//   - [Crossings] and [MeanPeriod]: oscillation period from interpolated crossings
//   - [Spectrum] and [DominantPeriod]: Hann-windowed FFT power spectrum
//
// # Period estimation
//
// Two independent estimates are available for an oscillating signal:
//
//	ts := analysis.Crossings(times, omega, 0)
//	p1 := analysis.MeanPeriod(ts)
//	p2 := analysis.DominantPeriod(omega, dt)
package analysis
