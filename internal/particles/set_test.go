package particles_test

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/charvak/internal/integrators"
	"github.com/san-kum/charvak/internal/particles"
)

func newSet(n int, seed int64) *particles.Set {
	s, err := particles.New(n, particles.DefaultField(), integrators.NewSymplecticEuler())
	Expect(err).NotTo(HaveOccurred())
	s.Initialize(rand.New(rand.NewSource(seed)))
	return s
}

func distTo(c, p mgl32.Vec2) float32 {
	return c.Sub(p).Len()
}

var _ = Describe("Set", func() {
	center := particles.DefaultCenter

	Describe("New", func() {
		It("rejects non-positive counts", func() {
			_, err := particles.New(0, particles.DefaultField(), nil)
			Expect(err).To(MatchError(particles.ErrInvalidCount))

			_, err = particles.New(-5, particles.DefaultField(), nil)
			Expect(err).To(MatchError(particles.ErrInvalidCount))
		})

		It("defaults to the symplectic scheme", func() {
			s, err := particles.New(8, particles.DefaultField(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Scheme().Name()).To(Equal("symplectic"))
			Expect(s.Len()).To(Equal(8))
		})
	})

	Describe("Initialize", func() {
		It("places every particle in the unit square at rest", func() {
			s := newSet(particles.DefaultCount, 1)
			pos := s.Positions()
			vel := s.Velocities()

			Expect(pos).To(HaveLen(particles.DefaultCount))
			Expect(vel).To(HaveLen(particles.DefaultCount))
			for i := range pos {
				Expect(pos[i][0]).To(BeNumerically(">=", 0))
				Expect(pos[i][0]).To(BeNumerically("<", 1))
				Expect(pos[i][1]).To(BeNumerically(">=", 0))
				Expect(pos[i][1]).To(BeNumerically("<", 1))
				Expect(vel[i]).To(Equal(mgl32.Vec2{}))
			}
		})

		It("is reproducible for a seed", func() {
			a := newSet(64, 7).Positions()
			b := newSet(64, 7).Positions()
			Expect(a).To(Equal(b))
		})

		It("zeroes velocities of a set that already moved", func() {
			s := newSet(32, 3)
			s.Step(0.016)
			s.Initialize(rand.New(rand.NewSource(3)))
			for _, v := range s.Velocities() {
				Expect(v).To(Equal(mgl32.Vec2{}))
			}
		})
	})

	Describe("Step", func() {
		It("moves every particle on the first step", func() {
			s := newSet(particles.DefaultCount, 42)
			before := s.Positions()

			s.Step(0.016)

			after := s.Positions()
			for i := range before {
				if before[i] == center {
					continue
				}
				Expect(after[i]).NotTo(Equal(before[i]), "particle %d did not move", i)
			}
		})

		It("pulls particles monotonically toward the center for small dt", func() {
			s := newSet(particles.DefaultCount, 9)
			prev := s.Positions()

			// Particles starting very close to the center can overshoot
			// within a few steps; that is the known instability boundary.
			far := make([]int, 0, len(prev))
			for i, p := range prev {
				if distTo(center, p) > 0.05 {
					far = append(far, i)
				}
			}
			Expect(far).NotTo(BeEmpty())

			for step := 0; step < 5; step++ {
				s.Step(0.001)
				cur := s.Positions()
				for _, i := range far {
					Expect(distTo(center, cur[i])).To(BeNumerically("<", distTo(center, prev[i])))
				}
				prev = cur
			}
		})

		It("leaves a particle exactly at the center at rest", func() {
			s, err := particles.New(1, particles.DefaultField(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Load([]mgl32.Vec2{center}, []mgl32.Vec2{{}})).To(Succeed())

			s.Step(0.016)

			Expect(s.Positions()[0]).To(Equal(center))
			Expect(s.Velocities()[0]).To(Equal(mgl32.Vec2{}))
		})

		It("does not clamp particles to the unit square", func() {
			s, err := particles.New(1, particles.DefaultField(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Load([]mgl32.Vec2{{0.9, 0.5}}, []mgl32.Vec2{{5, 0}})).To(Succeed())

			s.Step(0.1)

			Expect(s.Positions()[0][0]).To(BeNumerically(">", 1))
		})

		It("matches the closed-form update for one particle", func() {
			s, err := particles.New(1, particles.DefaultField(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Load([]mgl32.Vec2{{0.5, 0.0}}, []mgl32.Vec2{{}})).To(Succeed())

			s.Step(0.01)

			// dir = (0, 0.5), dist = 0.501, force = 0.5 / 0.501 along +y
			force := float32(0.5 / 0.501)
			vy := force * 0.01
			Expect(s.Velocities()[0][1]).To(BeNumerically("~", vy, 1e-6))
			Expect(s.Positions()[0][1]).To(BeNumerically("~", vy*0.01, 1e-7))
			Expect(s.Positions()[0][0]).To(BeNumerically("~", 0.5, 1e-7))
		})
	})

	Describe("StepRange", func() {
		It("splits into chunks without changing the result", func() {
			whole := newSet(1000, 11)
			chunked := newSet(1000, 11)

			for step := 0; step < 10; step++ {
				whole.Step(0.016)
				chunked.StepRange(0, 300, 0.016)
				chunked.StepRange(300, 1000, 0.016)
			}

			Expect(chunked.Positions()).To(Equal(whole.Positions()))
			Expect(chunked.Velocities()).To(Equal(whole.Velocities()))
		})
	})

	Describe("snapshots", func() {
		It("returns copies that do not alias internal state", func() {
			s := newSet(16, 5)
			pos := s.Positions()
			pos[0] = mgl32.Vec2{99, 99}

			Expect(s.Positions()[0]).NotTo(Equal(mgl32.Vec2{99, 99}))
		})

		It("copies into a caller buffer", func() {
			s := newSet(16, 5)
			dst := make([]mgl32.Vec2, 16)
			Expect(s.CopyPositions(dst)).To(Equal(16))
			Expect(dst).To(Equal(s.Positions()))
		})
	})

	Describe("Load", func() {
		It("rejects mismatched lengths", func() {
			s := newSet(4, 1)
			err := s.Load(make([]mgl32.Vec2, 3), make([]mgl32.Vec2, 4))
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Field", func() {
	It("points at the center", func() {
		f := particles.DefaultField()
		a := f.Accel(mgl32.Vec2{0, 0.5})
		Expect(a[0]).To(BeNumerically(">", 0))
		Expect(a[1]).To(BeNumerically("~", 0, 1e-7))
	})

	It("stays finite next to the center", func() {
		f := particles.DefaultField()
		a := f.Accel(mgl32.Vec2{0.5 + 1e-6, 0.5})
		Expect(a.Len()).To(BeNumerically("<", f.Strength/f.Epsilon*1.01))
	})
})
