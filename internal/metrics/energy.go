package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// KineticEnergy is the mean of ½|v|² over all particles (unit mass).
type KineticEnergy struct {
	value float64
}

// NewKineticEnergy returns an empty KineticEnergy metric.
func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{}
}

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(pos, vel []mgl32.Vec2, t float64) {
	if len(vel) == 0 {
		k.value = 0
		return
	}
	sum := 0.0
	for _, v := range vel {
		sum += 0.5 * float64(v.Dot(v))
	}
	k.value = sum / float64(len(vel))
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Reset()         { k.value = 0 }

// MaxSpeed tracks the fastest particle of the last observation.
type MaxSpeed struct {
	value float64
}

// NewMaxSpeed returns an empty MaxSpeed metric.
func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{}
}

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(pos, vel []mgl32.Vec2, t float64) {
	best := 0.0
	for _, v := range vel {
		best = math.Max(best, float64(v.Len()))
	}
	m.value = best
}

func (m *MaxSpeed) Value() float64 { return m.value }
func (m *MaxSpeed) Reset()         { m.value = 0 }
