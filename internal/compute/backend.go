package compute

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrUnknownBackend = errors.New("compute: unknown backend")

// Backend advances the particle state one tick at a time.
//
// A resident backend keeps positions in the render buffer and never
// needs an upload; Positions and Velocities then read back from the GPU
// and should only be used for diagnostics.
type Backend interface {
	Name() string
	Available() bool
	Resident() bool
	Step(dt float32) error
	Positions() []mgl32.Vec2
	Velocities() []mgl32.Vec2
	Cleanup()
}

// Factory builds a backend by name. The "cpu" backend is always
// registered; others (the GL kernel) register when a context exists.
type Factory func() (Backend, error)

// Registry maps backend names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Get builds the named backend.
func (r *Registry) Get(name string) (Backend, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	b, err := f()
	if err != nil {
		return nil, fmt.Errorf("compute: %s backend: %w", name, err)
	}
	return b, nil
}

// AutoSelect returns the first available backend in order of preference,
// cleaning up the ones it rejects.
func (r *Registry) AutoSelect(preference ...string) (Backend, error) {
	var lastErr error
	for _, name := range preference {
		b, err := r.Get(name)
		if err != nil {
			lastErr = err
			continue
		}
		if b.Available() {
			return b, nil
		}
		b.Cleanup()
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: none of %v available", ErrUnknownBackend, preference)
	}
	return nil, lastErr
}
