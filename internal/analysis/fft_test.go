package analysis

import (
	"errors"
	"math"
	"testing"
)

func sine(n int, dt, freq, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}
	return out
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		n    int
		dt   float64
		bin  int
	}{
		{"power of two", 256, 0.01, 10},
		{"odd length", 300, 0.016, 7},
		{"low bin", 128, 0.05, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := float64(tt.bin) / (float64(tt.n) * tt.dt)
			got, err := DominantFrequency(sine(tt.n, tt.dt, want, 0.4), tt.dt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("expected %f Hz, got %f Hz", want, got)
			}
		})
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	flat := make([]float64, 64)
	for i := range flat {
		flat[i] = 0.25
	}
	f, err := DominantFrequency(flat, 0.01)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != 0 {
		t.Errorf("flat series should have no dominant frequency, got %f", f)
	}
}

func TestDominantFrequencyErrors(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2}, 0.01); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries, got %v", err)
	}
	if _, err := DominantFrequency(sine(16, 0.1, 1, 0), 0); err == nil {
		t.Error("expected error for zero dt")
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum(sine(64, 0.01, 1/(64*0.01)*4, 10))
	if len(ps) != 33 {
		t.Fatalf("expected 33 bins, got %d", len(ps))
	}
	if ps[0] > 1e-9 {
		t.Errorf("DC bin should be empty after mean removal, got %g", ps[0])
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty series")
	}
}

func TestFrequencies(t *testing.T) {
	freqs := Frequencies(100, 0.01)
	if len(freqs) != 51 {
		t.Fatalf("expected 51 bins, got %d", len(freqs))
	}
	if freqs[0] != 0 || math.Abs(freqs[50]-50) > 1e-9 {
		t.Errorf("unexpected range %f..%f", freqs[0], freqs[50])
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 3, 5, 3})
	if s.Mean != 3 || s.Min != 1 || s.Max != 5 || s.Final != 3 {
		t.Errorf("unexpected summary %+v", s)
	}
	if math.Abs(s.Std-math.Sqrt(2)) > 1e-12 {
		t.Errorf("expected std sqrt(2), got %f", s.Std)
	}
	if (Summarize(nil) != Summary{}) {
		t.Error("empty series should give zero summary")
	}
}
