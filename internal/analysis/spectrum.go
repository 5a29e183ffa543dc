package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the one-sided magnitude spectrum of a uniformly sampled
// signal. The mean is removed and a Hann window applied before the transform.
// freqs are in Hz for a sample spacing of dt seconds.
func Spectrum(values []float64, dt float64) (freqs, power []float64) {
	n := len(values)
	if n < 4 || dt <= 0 {
		return nil, nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range values {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * window
	}

	spectrum := fft.FFTReal(windowed)

	half := n / 2
	freqs = make([]float64, half)
	power = make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) / (float64(n) * dt)
		power[k] = cmplx.Abs(spectrum[k])
	}
	return freqs, power
}

// DominantPeriod is 1/f of the strongest non-DC bin, refined by parabolic
// interpolation over its neighbours. It returns 0 for a flat signal.
func DominantPeriod(values []float64, dt float64) float64 {
	freqs, power := Spectrum(values, dt)
	if len(power) < 3 {
		return 0
	}

	peak := 1
	for k := 2; k < len(power); k++ {
		if power[k] > power[peak] {
			peak = k
		}
	}
	if power[peak] == 0 {
		return 0
	}

	offset := 0.0
	if peak+1 < len(power) {
		a, b, c := power[peak-1], power[peak], power[peak+1]
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
	}

	df := freqs[1] - freqs[0]
	f := freqs[peak] + offset*df
	if f <= 0 {
		return 0
	}
	return 1 / f
}
