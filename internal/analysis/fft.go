package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series too short")

// PowerSpectrum returns |X_k|^2 / n for k = 0..n/2 of the mean-removed
// series. Any length is accepted.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n == 0 {
		return nil
	}

	mean := Mean(series)
	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for k := range ps {
		a := cmplx.Abs(spectrum[k])
		ps[k] = a * a / float64(n)
	}
	return ps
}

// Frequencies returns the frequency in Hz of each PowerSpectrum bin for a
// series of n samples taken every dt seconds.
func Frequencies(n int, dt float64) []float64 {
	if n == 0 || dt <= 0 {
		return nil
	}
	freqs := make([]float64, n/2+1)
	for k := range freqs {
		freqs[k] = float64(k) / (float64(n) * dt)
	}
	return freqs
}

// DominantFrequency returns the frequency of the strongest non-DC bin.
// A flat series has no dominant frequency and yields 0.
func DominantFrequency(series []float64, dt float64) (float64, error) {
	if len(series) < 4 {
		return 0, ErrShortSeries
	}
	if dt <= 0 {
		return 0, errors.New("analysis: sample interval must be positive")
	}

	ps := PowerSpectrum(series)
	best, bestPower := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPower {
			best, bestPower = k, ps[k]
		}
	}
	if best == 0 {
		return 0, nil
	}
	return float64(best) / (float64(len(series)) * dt), nil
}

// Summary holds descriptive statistics of one series.
type Summary struct {
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
	Final float64
}

// Summarize computes a Summary. An empty series yields the zero value.
func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	s := Summary{
		Mean:  Mean(series),
		Min:   series[0],
		Max:   series[0],
		Final: series[len(series)-1],
	}
	var sq float64
	for _, v := range series {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		d := v - s.Mean
		sq += d * d
	}
	s.Std = math.Sqrt(sq / float64(len(series)))
	return s
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}
