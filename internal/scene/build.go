package scene

import (
	"math/rand"

	"github.com/san-kum/charvak/internal/compute"
	"github.com/san-kum/charvak/internal/config"
	"github.com/san-kum/charvak/internal/integrators"
	"github.com/san-kum/charvak/internal/particles"
	"github.com/san-kum/charvak/internal/render"
)

// NewSet builds the particle set described by cfg and seeds it.
func NewSet(cfg *config.Config) (*particles.Set, error) {
	scheme, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	set, err := particles.New(cfg.Particles, cfg.ParticleField(), scheme)
	if err != nil {
		return nil, err
	}
	Reseed(set, cfg.Seed)
	return set, nil
}

// Reseed re-initializes set from seed.
func Reseed(set *particles.Set, seed int64) {
	set.Initialize(rand.New(rand.NewSource(seed)))
}

// HostBackends registers the backends that need no graphics context.
func HostBackends(set *particles.Set, workers int) *compute.Registry {
	reg := compute.NewRegistry()
	reg.Register("cpu", func() (compute.Backend, error) {
		return compute.NewCPUBackend(set, workers), nil
	})
	return reg
}

// NewHost wires cfg into a scene that renders into host memory, for
// headless runs and the terminal view. The returned scene is synced.
func NewHost(cfg *config.Config) (*Scene, *particles.Set, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	set, err := NewSet(cfg)
	if err != nil {
		return nil, nil, err
	}
	backend, err := HostBackends(set, cfg.Workers).Get(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	r, err := render.New(render.NewHostDevice(), cfg.Particles, cfg.Style())
	if err != nil {
		backend.Cleanup()
		return nil, nil, err
	}
	sc := New(backend, r)
	if err := sc.Sync(); err != nil {
		r.Release()
		backend.Cleanup()
		return nil, nil, err
	}
	return sc, set, nil
}
