package particles

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/charvak/internal/integrators"
)

const DefaultCount = 4096

var ErrInvalidCount = errors.New("particles: count must be positive")

// Set owns the particle state. Positions and velocities are parallel
// slices of the same fixed length.
type Set struct {
	pos    []mgl32.Vec2
	vel    []mgl32.Vec2
	field  Field
	scheme integrators.Scheme
}

// New allocates n particles, all at the origin and at rest. A nil scheme
// selects symplectic Euler.
func New(n int, field Field, scheme integrators.Scheme) (*Set, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCount, n)
	}
	if scheme == nil {
		scheme = integrators.NewSymplecticEuler()
	}
	s := &Set{
		pos:    make([]mgl32.Vec2, n),
		vel:    make([]mgl32.Vec2, n),
		field:  field,
		scheme: scheme,
	}
	scheme.Prepare(n)
	return s, nil
}

// Initialize scatters particles uniformly over [0,1)² and stops them.
func (s *Set) Initialize(rng *rand.Rand) {
	for i := range s.pos {
		s.pos[i] = mgl32.Vec2{rng.Float32(), rng.Float32()}
		s.vel[i] = mgl32.Vec2{}
	}
	s.scheme.Prepare(len(s.pos))
}

// Step advances every particle by dt.
func (s *Set) Step(dt float32) {
	s.StepRange(0, len(s.pos), dt)
}

// StepRange advances particles [lo, hi). Disjoint ranges are independent.
func (s *Set) StepRange(lo, hi int, dt float32) {
	s.scheme.Advance(s.pos, s.vel, lo, hi, dt, s.field)
}

func (s *Set) Len() int                   { return len(s.pos) }
func (s *Set) Field() Field               { return s.field }
func (s *Set) Scheme() integrators.Scheme { return s.scheme }

// Positions returns a copy of the current positions.
func (s *Set) Positions() []mgl32.Vec2 {
	out := make([]mgl32.Vec2, len(s.pos))
	copy(out, s.pos)
	return out
}

// CopyPositions copies positions into dst and returns the count copied.
func (s *Set) CopyPositions(dst []mgl32.Vec2) int {
	return copy(dst, s.pos)
}

// Velocities returns a copy of the current velocities.
func (s *Set) Velocities() []mgl32.Vec2 {
	out := make([]mgl32.Vec2, len(s.vel))
	copy(out, s.vel)
	return out
}

// Load replaces the state, e.g. to restore a stored frame. Both slices
// must have exactly Len() elements.
func (s *Set) Load(pos, vel []mgl32.Vec2) error {
	if len(pos) != len(s.pos) || len(vel) != len(s.vel) {
		return fmt.Errorf("particles: load %d/%d values into set of %d", len(pos), len(vel), len(s.pos))
	}
	copy(s.pos, pos)
	copy(s.vel, vel)
	s.scheme.Prepare(len(s.pos))
	return nil
}
