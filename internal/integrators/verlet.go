package integrators

import "github.com/go-gl/mathgl/mgl32"

// Verlet is velocity Verlet with the acceleration of the previous step
// cached per particle.
type Verlet struct {
	acc    []mgl32.Vec2
	primed []bool
}

// NewVerlet returns a scheme with an empty cache; Prepare sizes it.
func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

// Prepare sizes the cache for n particles and forgets cached
// accelerations. It must be called before the first Advance and whenever
// the particle state is reset.
func (v *Verlet) Prepare(n int) {
	if len(v.acc) != n {
		v.acc = make([]mgl32.Vec2, n)
		v.primed = make([]bool, n)
		return
	}
	for i := range v.primed {
		v.primed[i] = false
	}
}

func (v *Verlet) Advance(pos, vel []mgl32.Vec2, lo, hi int, dt float32, f Field) {
	half := 0.5 * dt
	for i := lo; i < hi; i++ {
		if !v.primed[i] {
			v.acc[i] = f.Accel(pos[i])
			v.primed[i] = true
		}
		a := v.acc[i]
		pos[i] = pos[i].Add(vel[i].Mul(dt)).Add(a.Mul(half * dt))
		next := f.Accel(pos[i])
		vel[i] = vel[i].Add(a.Add(next).Mul(half))
		v.acc[i] = next
	}
}
