package particles

import "github.com/go-gl/mathgl/mgl32"

const (
	DefaultStrength = 0.5
	DefaultEpsilon  = 1e-3
)

// DefaultCenter is the middle of the unit square particles are spawned in.
var DefaultCenter = mgl32.Vec2{0.5, 0.5}

// Field is a central attraction with an inverse-linear falloff:
//
//	a = strength * normalize(center - p) / (|center - p| + epsilon)
//
// Epsilon keeps the magnitude finite at the center.
type Field struct {
	Center   mgl32.Vec2
	Strength float32
	Epsilon  float32
}

// DefaultField returns the standard attraction toward (0.5, 0.5).
func DefaultField() Field {
	return Field{
		Center:   DefaultCenter,
		Strength: DefaultStrength,
		Epsilon:  DefaultEpsilon,
	}
}

// Accel returns the acceleration at p. It is zero at the exact center.
func (f Field) Accel(p mgl32.Vec2) mgl32.Vec2 {
	dir := f.Center.Sub(p)
	l := dir.Len()
	if l == 0 {
		return mgl32.Vec2{}
	}
	return dir.Mul(f.Strength / (l * (l + f.Epsilon)))
}
