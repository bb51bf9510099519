package compute

import (
	"math/rand"
	"testing"

	"github.com/san-kum/charvak/internal/integrators"
	"github.com/san-kum/charvak/internal/particles"
)

func newSet(t *testing.T, n int, seed int64) *particles.Set {
	t.Helper()
	s, err := particles.New(n, particles.DefaultField(), integrators.NewSymplecticEuler())
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	s.Initialize(rand.New(rand.NewSource(seed)))
	return s
}

func TestCPUBackendMatchesSerial(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		workers int
	}{
		{"small serial path", 100, 8},
		{"single worker", 4096, 1},
		{"even split", 4096, 4},
		{"uneven split", 4099, 7},
		{"more workers than chunks", 1030, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := newSet(t, tt.n, 21)
			set := newSet(t, tt.n, 21)
			b := NewCPUBackend(set, tt.workers)

			for i := 0; i < 20; i++ {
				ref.Step(0.016)
				if err := b.Step(0.016); err != nil {
					t.Fatalf("step %d: %v", i, err)
				}
			}

			want := ref.Positions()
			got := b.Positions()
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("particle %d: got %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestCPUBackendProperties(t *testing.T) {
	b := NewCPUBackend(newSet(t, 16, 1), 0)

	if b.Name() != "cpu" {
		t.Errorf("expected name cpu, got %s", b.Name())
	}
	if !b.Available() {
		t.Error("cpu backend should always be available")
	}
	if b.Resident() {
		t.Error("cpu backend is not GPU resident")
	}
	if b.Workers() <= 0 {
		t.Errorf("expected positive worker count, got %d", b.Workers())
	}
	if len(b.Positions()) != 16 || len(b.Velocities()) != 16 {
		t.Error("snapshots should have one entry per particle")
	}
}
