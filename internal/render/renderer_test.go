package render_test

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/charvak/internal/render"
)

type failingDevice struct {
	render.HostDevice
}

func (f *failingDevice) Compile(string, string) error {
	return errors.New("0:3(5): error: syntax error")
}

func positions(n int) []mgl32.Vec2 {
	out := make([]mgl32.Vec2, n)
	for i := range out {
		out[i] = mgl32.Vec2{float32(i) * 0.25, 1 - float32(i)*0.125}
	}
	return out
}

var _ = Describe("Pack", func() {
	It("lays out little-endian float32 pairs", func() {
		data := render.Pack([]mgl32.Vec2{{1.5, -2}}, nil)

		Expect(data).To(HaveLen(8))
		Expect(math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))).To(Equal(float32(1.5)))
		Expect(math.Float32frombits(binary.LittleEndian.Uint32(data[4:8]))).To(Equal(float32(-2)))
		Expect(data[0:4]).To(Equal([]byte{0x00, 0x00, 0xc0, 0x3f}))
	})

	It("reuses a large enough destination", func() {
		dst := make([]byte, 64)
		out := render.Pack(positions(2), dst)
		Expect(out).To(HaveLen(16))
		Expect(&out[0]).To(BeIdenticalTo(&dst[0]))
	})

	It("round trips through Unpack", func() {
		in := positions(10)
		out, err := render.Unpack(render.Pack(in, nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(in))
	})

	It("rejects truncated buffers", func() {
		_, err := render.Unpack(make([]byte, 12))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Style", func() {
	It("bakes the clip-space transform and point size into the vertex stage", func() {
		src := render.DefaultStyle().VertexSource()
		Expect(src).To(ContainSubstring("in_pos * 2.0 - 1.0"))
		Expect(src).To(ContainSubstring("gl_PointSize = 3.00"))
	})

	It("emits a constant color without uniforms", func() {
		src := render.DefaultStyle().FragmentSource()
		Expect(src).To(ContainSubstring("vec4(1.0000, 0.6000, 0.1000, 1.0000)"))
		Expect(src).NotTo(ContainSubstring("uniform"))
	})
})

var _ = Describe("Renderer", func() {
	var (
		dev *render.HostDevice
		r   *render.Renderer
	)

	BeforeEach(func() {
		dev = render.NewHostDevice()
		var err error
		r, err = render.New(dev, 4, render.DefaultStyle())
		Expect(err).NotTo(HaveOccurred())
	})

	It("allocates a buffer for every particle", func() {
		data, err := r.Snapshot()
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(HaveLen(4 * render.BytesPerParticle))
		Expect(r.Count()).To(Equal(4))
	})

	It("reads back exactly what was uploaded", func() {
		in := positions(4)
		Expect(r.UpdateData(in)).To(Succeed())

		data, err := r.Snapshot()
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(render.Pack(in, nil)))
	})

	It("fully replaces the previous frame", func() {
		Expect(r.UpdateData(positions(4))).To(Succeed())
		next := []mgl32.Vec2{{9, 9}, {8, 8}, {7, 7}, {6, 6}}
		Expect(r.UpdateData(next)).To(Succeed())

		data, err := r.Snapshot()
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(render.Pack(next, nil)))
	})

	DescribeTable("rejects uploads of the wrong length",
		func(n int) {
			Expect(r.UpdateData(positions(4))).To(Succeed())
			before, _ := r.Snapshot()

			err := r.UpdateData(positions(n))
			Expect(err).To(MatchError(render.ErrSizeMismatch))

			after, _ := r.Snapshot()
			Expect(after).To(Equal(before))
		},
		Entry("empty", 0),
		Entry("short", 3),
		Entry("long", 5),
	)

	It("draws every particle in one call", func() {
		r.Render()
		Expect(dev.Draws).To(Equal(1))
		Expect(dev.Drawn).To(Equal(4))
	})

	It("refuses an empty particle set", func() {
		_, err := render.New(render.NewHostDevice(), 0, render.DefaultStyle())
		Expect(err).To(MatchError(render.ErrInvalidCount))
	})

	It("surfaces shader compile failures", func() {
		_, err := render.New(&failingDevice{}, 4, render.DefaultStyle())
		Expect(err).To(MatchError(ContainSubstring("syntax error")))
	})
})
