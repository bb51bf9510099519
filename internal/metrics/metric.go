package metrics

import "github.com/go-gl/mathgl/mgl32"

// Metric reduces one tick of particle state to a scalar. Value reports
// the most recent observation.
type Metric interface {
	Name() string
	Observe(pos, vel []mgl32.Vec2, t float64)
	Value() float64
	Reset()
}

// Default returns the metrics recorded by every headless run.
func Default(center mgl32.Vec2) []Metric {
	return []Metric{
		NewMeanDistance(center),
		NewKineticEnergy(),
		NewEscaped(),
		NewMaxSpeed(),
	}
}
