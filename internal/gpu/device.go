package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/san-kum/charvak/internal/render"
)

// Device implements render.Device on the current GL context. The vertex
// buffer doubles as a shader storage buffer for the compute kernel.
type Device struct {
	program uint32
	vao     uint32
	vbo     uint32
	size    int
}

// NewDevice returns an empty device. Compile and Allocate need a
// current GL context.
func NewDevice() *Device {
	return &Device{}
}

// Compile builds and links the point program.
func (d *Device) Compile(vertexSrc, fragmentSrc string) error {
	program, err := newRenderProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return err
	}
	d.program = program
	return nil
}

// Allocate creates the vertex buffer and its attribute layout. It can
// only be called once per device.
func (d *Device) Allocate(size int) error {
	if size <= 0 {
		return fmt.Errorf("gpu: cannot allocate %d bytes", size)
	}
	if d.vbo != 0 {
		return fmt.Errorf("gpu: vertex buffer already allocated")
	}
	d.size = size

	gl.Enable(gl.PROGRAM_POINT_SIZE)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// Write replaces the whole vertex buffer.
func (d *Device) Write(data []byte) error {
	if len(data) != d.size {
		return fmt.Errorf("%w: write %d bytes into %d", render.ErrSizeMismatch, len(data), d.size)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// Read copies the vertex buffer back to host memory.
func (d *Device) Read() ([]byte, error) {
	out := make([]byte, d.size)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.GetBufferSubData(gl.ARRAY_BUFFER, 0, d.size, gl.Ptr(out))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("gpu: read back vertex buffer: gl error 0x%x", code)
	}
	return out, nil
}

// DrawPoints issues one draw call for count points.
func (d *Device) DrawPoints(count int) {
	gl.UseProgram(d.program)
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.POINTS, 0, int32(count))
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Buffer is the GL name of the vertex buffer.
func (d *Device) Buffer() uint32 { return d.vbo }

// Release deletes the program and buffers. It is safe to call twice.
func (d *Device) Release() {
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
		d.vbo = 0
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
		d.program = 0
	}
}
