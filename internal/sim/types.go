package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrInvalidState  = errors.New("sim: invalid state (NaN or Inf detected)")
	ErrInvalidConfig = errors.New("sim: invalid run config")
)

// Config controls one headless run.
type Config struct {
	Dt    float32
	Steps int
	// SampleEvery records metrics every n frames; the last frame is
	// always sampled.
	SampleEvery   int
	ValidateState bool
}

// DefaultConfig returns 600 steps of 16ms, sampling every frame.
func DefaultConfig() Config {
	return Config{
		Dt:            0.016,
		Steps:         600,
		SampleEvery:   1,
		ValidateState: true,
	}
}

func (c Config) validate() error {
	if c.Dt <= 0 || math.IsNaN(float64(c.Dt)) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	return nil
}

// Observer sees every sampled frame after metrics have been updated.
type Observer interface {
	OnFrame(frame int, t float64, pos, vel []mgl32.Vec2)
}

// Result collects the sampled series and final metrics of a run.
type Result struct {
	Times      []float64
	Series     map[string][]float64
	Metrics    map[string]float64
	StepsTaken int
	// Frame is the render buffer after the last step, as packed bytes.
	Frame []byte
}

// SimError reports where a run failed.
type SimError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}

// readbacker is implemented by resident backends whose Positions and
// Velocities copy from the device and can fail.
type readbacker interface {
	ReadbackErr() error
}

func validPositions(pos []mgl32.Vec2) bool {
	for _, p := range pos {
		for _, v := range p {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return false
			}
		}
	}
	return true
}
