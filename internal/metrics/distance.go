package metrics

import "github.com/go-gl/mathgl/mgl32"

// MeanDistance is the average distance of particles from the attraction
// center. It oscillates as the cloud collapses and rebounds.
type MeanDistance struct {
	center mgl32.Vec2
	value  float64
}

// NewMeanDistance measures distance from center.
func NewMeanDistance(center mgl32.Vec2) *MeanDistance {
	return &MeanDistance{center: center}
}

func (m *MeanDistance) Name() string { return "mean_distance" }

func (m *MeanDistance) Observe(pos, vel []mgl32.Vec2, t float64) {
	if len(pos) == 0 {
		m.value = 0
		return
	}
	sum := 0.0
	for _, p := range pos {
		sum += float64(m.center.Sub(p).Len())
	}
	m.value = sum / float64(len(pos))
}

func (m *MeanDistance) Value() float64 { return m.value }
func (m *MeanDistance) Reset()         { m.value = 0 }

// Escaped is the fraction of particles outside the unit square. Nothing
// clamps particles, so large dt shows up here first.
type Escaped struct {
	value float64
}

// NewEscaped returns an empty Escaped metric.
func NewEscaped() *Escaped {
	return &Escaped{}
}

func (e *Escaped) Name() string { return "escaped" }

func (e *Escaped) Observe(pos, vel []mgl32.Vec2, t float64) {
	if len(pos) == 0 {
		e.value = 0
		return
	}
	out := 0
	for _, p := range pos {
		if p[0] < 0 || p[0] >= 1 || p[1] < 0 || p[1] >= 1 {
			out++
		}
	}
	e.value = float64(out) / float64(len(pos))
}

func (e *Escaped) Value() float64 { return e.value }
func (e *Escaped) Reset()         { e.value = 0 }
