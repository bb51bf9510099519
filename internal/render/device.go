package render

import (
	"errors"
	"fmt"
)

// Device is the GPU surface the renderer drives: one shader program, one
// vertex buffer of 2D float positions bound to attribute 0.
type Device interface {
	Compile(vertexSrc, fragmentSrc string) error
	Allocate(size int) error
	Write(data []byte) error
	Read() ([]byte, error)
	DrawPoints(count int)
	Release()
}

// HostDevice keeps the "GPU" buffer in host memory. Headless runs and
// tests use it in place of a GL context.
type HostDevice struct {
	buf      []byte
	compiled bool
	Draws    int
	Drawn    int
}

// NewHostDevice returns a device with no buffer allocated.
func NewHostDevice() *HostDevice {
	return &HostDevice{}
}

func (h *HostDevice) Compile(vertexSrc, fragmentSrc string) error {
	if vertexSrc == "" || fragmentSrc == "" {
		return errors.New("render: empty shader source")
	}
	h.compiled = true
	return nil
}

func (h *HostDevice) Allocate(size int) error {
	if size <= 0 {
		return fmt.Errorf("render: cannot allocate %d bytes", size)
	}
	h.buf = make([]byte, size)
	return nil
}

func (h *HostDevice) Write(data []byte) error {
	if len(data) != len(h.buf) {
		return fmt.Errorf("%w: write %d bytes into %d", ErrSizeMismatch, len(data), len(h.buf))
	}
	copy(h.buf, data)
	return nil
}

func (h *HostDevice) Read() ([]byte, error) {
	out := make([]byte, len(h.buf))
	copy(out, h.buf)
	return out, nil
}

func (h *HostDevice) DrawPoints(count int) {
	h.Draws++
	h.Drawn = count
}

func (h *HostDevice) Release() {
	h.buf = nil
	h.compiled = false
}
