package integrators

import "github.com/go-gl/mathgl/mgl32"

// SymplecticEuler updates velocity first and then moves the particle with
// the new velocity.
type SymplecticEuler struct{}

// NewSymplecticEuler returns the default scheme.
func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return "symplectic" }
func (s *SymplecticEuler) Prepare(int)  {}

func (s *SymplecticEuler) Advance(pos, vel []mgl32.Vec2, lo, hi int, dt float32, f Field) {
	for i := lo; i < hi; i++ {
		a := f.Accel(pos[i])
		vel[i] = vel[i].Add(a.Mul(dt))
		pos[i] = pos[i].Add(vel[i].Mul(dt))
	}
}

// Euler is the explicit forward scheme: position moves with the old
// velocity. It gains energy on closed orbits and is kept for comparison.
type Euler struct{}

// NewEuler returns the explicit scheme.
func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }
func (e *Euler) Prepare(int)  {}

func (e *Euler) Advance(pos, vel []mgl32.Vec2, lo, hi int, dt float32, f Field) {
	for i := lo; i < hi; i++ {
		a := f.Accel(pos[i])
		pos[i] = pos[i].Add(vel[i].Mul(dt))
		vel[i] = vel[i].Add(a.Mul(dt))
	}
}
