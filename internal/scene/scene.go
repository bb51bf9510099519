// Package scene couples one compute backend to one renderer. Each tick
// steps the particles, then makes the render buffer match them.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/charvak/internal/compute"
	"github.com/san-kum/charvak/internal/particles"
	"github.com/san-kum/charvak/internal/render"
)

// Scene drives one backend and one renderer and keeps the clock.
type Scene struct {
	backend  compute.Backend
	renderer *render.Renderer
	scratch  []mgl32.Vec2
	frame    int
	time     float64
}

// positionCopier lets host backends fill a reused slice instead of
// allocating a snapshot every frame.
type positionCopier interface {
	Len() int
	CopyPositions(dst []mgl32.Vec2) int
}

// velocityResetter is implemented by resident backends that keep
// velocities on the device.
type velocityResetter interface {
	ResetVelocities()
}

// New couples backend and renderer. Call Sync before the first Draw.
func New(backend compute.Backend, renderer *render.Renderer) *Scene {
	return &Scene{
		backend:  backend,
		renderer: renderer,
		scratch:  make([]mgl32.Vec2, renderer.Count()),
	}
}

// Sync uploads the backend's current positions without stepping. Use it
// once after construction so the first frame shows the initial state.
func (s *Scene) Sync() error {
	return s.upload()
}

// Update advances the simulation by dt and brings the render buffer up
// to date. It returns only after both are complete.
func (s *Scene) Update(dt float32) error {
	if err := s.backend.Step(dt); err != nil {
		return fmt.Errorf("scene: step frame %d: %w", s.frame, err)
	}
	if !s.backend.Resident() {
		if err := s.upload(); err != nil {
			return fmt.Errorf("scene: upload frame %d: %w", s.frame, err)
		}
	}
	s.frame++
	s.time += float64(dt)
	return nil
}

func (s *Scene) upload() error {
	if s.backend.Resident() {
		return nil
	}
	if c, ok := s.backend.(positionCopier); ok {
		if c.Len() != len(s.scratch) {
			return fmt.Errorf("%w: backend holds %d particles, buffer %d", render.ErrSizeMismatch, c.Len(), len(s.scratch))
		}
		c.CopyPositions(s.scratch)
		return s.renderer.UpdateData(s.scratch)
	}
	return s.renderer.UpdateData(s.backend.Positions())
}

// Draw renders the current buffer.
func (s *Scene) Draw() {
	s.renderer.Render()
}

func (s *Scene) Frame() int                 { return s.frame }
func (s *Scene) Time() float64              { return s.time }
func (s *Scene) Backend() compute.Backend   { return s.backend }
func (s *Scene) Renderer() *render.Renderer { return s.renderer }

// ResetClock zeroes the frame counter and time, e.g. after re-seeding.
func (s *Scene) ResetClock() {
	s.frame = 0
	s.time = 0
}

// Reset shows set's current state and restarts the clock. The caller
// re-seeds set first; for host backends set is the backend's own state,
// for resident backends the positions are uploaded and the device-side
// velocities zeroed.
func (s *Scene) Reset(set *particles.Set) error {
	if err := s.renderer.UpdateData(set.Positions()); err != nil {
		return fmt.Errorf("scene: reset: %w", err)
	}
	if r, ok := s.backend.(velocityResetter); ok {
		r.ResetVelocities()
	}
	s.ResetClock()
	return nil
}
