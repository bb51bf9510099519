package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrUnknownScheme = errors.New("integrators: unknown scheme")

// Field returns the acceleration felt by a particle at p.
type Field interface {
	Accel(p mgl32.Vec2) mgl32.Vec2
}

// Scheme advances index range [lo, hi) of parallel position/velocity
// slices by dt. Implementations must only touch indices inside the range
// so that disjoint ranges can be advanced concurrently.
type Scheme interface {
	Name() string
	Prepare(n int)
	Advance(pos, vel []mgl32.Vec2, lo, hi int, dt float32, f Field)
}

var registry = map[string]func() Scheme{
	"symplectic": func() Scheme { return NewSymplecticEuler() },
	"euler":      func() Scheme { return NewEuler() },
	"verlet":     func() Scheme { return NewVerlet() },
}

// ByName returns a new scheme instance for name.
func ByName(name string) (Scheme, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownScheme, name, Names())
	}
	return ctor(), nil
}

// Names lists the registered schemes, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
