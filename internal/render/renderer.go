package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrSizeMismatch = errors.New("render: position count does not match buffer")
	ErrInvalidCount = errors.New("render: particle count must be positive")
)

// Renderer draws a fixed number of particles as points. The buffer is
// allocated once and fully overwritten on every upload.
type Renderer struct {
	dev     Device
	count   int
	style   Style
	scratch []byte
}

// New compiles the point program for style and allocates a buffer for
// count particles.
func New(dev Device, count int, style Style) (*Renderer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCount, count)
	}
	if err := dev.Compile(style.VertexSource(), style.FragmentSource()); err != nil {
		return nil, err
	}
	if err := dev.Allocate(count * BytesPerParticle); err != nil {
		return nil, err
	}
	return &Renderer{
		dev:     dev,
		count:   count,
		style:   style,
		scratch: make([]byte, count*BytesPerParticle),
	}, nil
}

func (r *Renderer) Count() int     { return r.count }
func (r *Renderer) Style() Style   { return r.style }
func (r *Renderer) Device() Device { return r.dev }

// UpdateData replaces the whole buffer. A slice of the wrong length is
// rejected before anything is written.
func (r *Renderer) UpdateData(positions []mgl32.Vec2) error {
	if len(positions) != r.count {
		return fmt.Errorf("%w: got %d positions, buffer holds %d", ErrSizeMismatch, len(positions), r.count)
	}
	r.scratch = Pack(positions, r.scratch)
	return r.dev.Write(r.scratch)
}

// Render draws whatever the buffer currently holds.
func (r *Renderer) Render() {
	r.dev.DrawPoints(r.count)
}

// Snapshot reads the buffer back as raw bytes.
func (r *Renderer) Snapshot() ([]byte, error) {
	return r.dev.Read()
}

// Release frees the device resources.
func (r *Renderer) Release() {
	r.dev.Release()
}
