package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/charvak/internal/particles"
	"github.com/san-kum/charvak/internal/render"
)

const workGroupSize = 256

const attractSource = `#version 430 core
layout(local_size_x = 256) in;

layout(std430, binding = 0) buffer Positions { vec2 pos[]; };
layout(std430, binding = 1) buffer Velocities { vec2 vel[]; };

uniform float dt;
uniform vec2 center;
uniform float strength;
uniform float epsilon;
uniform uint count;

void main() {
    uint i = gl_GlobalInvocationID.x;
    if (i >= count) {
        return;
    }
    vec2 dir = center - pos[i];
    float len = length(dir);
    vec2 force = vec2(0.0);
    if (len > 0.0) {
        force = strength * (dir / len) / (len + epsilon);
    }
    vel[i] += force * dt;
    pos[i] += vel[i] * dt;
}
`

// Kernel advances particles with a compute shader directly inside the
// renderer's vertex buffer. Only the symplectic update is implemented.
type Kernel struct {
	dev     *Device
	program uint32
	velBuf  uint32
	count   int
	field   particles.Field
	readErr error

	locDt       int32
	locCenter   int32
	locStrength int32
	locEpsilon  int32
	locCount    int32
}

// NewKernel compiles the compute program and allocates a zeroed velocity
// buffer. Positions must already be uploaded through the renderer.
func NewKernel(dev *Device, count int, field particles.Field) (*Kernel, error) {
	if dev.Buffer() == 0 {
		return nil, fmt.Errorf("gpu: kernel needs an allocated vertex buffer")
	}
	if !SupportsCompute() {
		return nil, fmt.Errorf("gpu: compute shaders need OpenGL 4.3")
	}
	program, err := newComputeProgram(attractSource)
	if err != nil {
		return nil, err
	}

	k := &Kernel{
		dev:         dev,
		program:     program,
		count:       count,
		field:       field,
		locDt:       uniform(program, "dt"),
		locCenter:   uniform(program, "center"),
		locStrength: uniform(program, "strength"),
		locEpsilon:  uniform(program, "epsilon"),
		locCount:    uniform(program, "count"),
	}

	gl.GenBuffers(1, &k.velBuf)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, k.velBuf)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, count*render.BytesPerParticle, nil, gl.DYNAMIC_COPY)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
	k.ResetVelocities()

	return k, nil
}

func (k *Kernel) Name() string    { return "gl" }
func (k *Kernel) Available() bool { return k.program != 0 }
func (k *Kernel) Resident() bool  { return true }

// Step dispatches the compute shader and waits on a memory barrier so
// the next draw sees the new positions.
func (k *Kernel) Step(dt float32) error {
	gl.UseProgram(k.program)
	gl.Uniform1f(k.locDt, dt)
	gl.Uniform2f(k.locCenter, k.field.Center[0], k.field.Center[1])
	gl.Uniform1f(k.locStrength, k.field.Strength)
	gl.Uniform1f(k.locEpsilon, k.field.Epsilon)
	gl.Uniform1ui(k.locCount, uint32(k.count))

	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, k.dev.Buffer())
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, k.velBuf)

	groups := (k.count + workGroupSize - 1) / workGroupSize
	gl.DispatchCompute(uint32(groups), 1, 1)
	// The draw call reads the same buffer as a vertex attribute.
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT | gl.VERTEX_ATTRIB_ARRAY_BARRIER_BIT | gl.BUFFER_UPDATE_BARRIER_BIT)
	gl.UseProgram(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gpu: dispatch attract kernel: gl error 0x%x", code)
	}
	return nil
}

// Positions reads the vertex buffer back. On failure it returns nil and
// the error is held for ReadbackErr.
func (k *Kernel) Positions() []mgl32.Vec2 {
	data, err := k.dev.Read()
	if err != nil {
		k.readErr = errors.Join(k.readErr, err)
		return nil
	}
	return k.unpack(data, "positions")
}

func (k *Kernel) Velocities() []mgl32.Vec2 {
	data := make([]byte, k.count*render.BytesPerParticle)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, k.velBuf)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		k.readErr = errors.Join(k.readErr, fmt.Errorf("gpu: read back velocity buffer: gl error 0x%x", code))
		return nil
	}
	return k.unpack(data, "velocities")
}

func (k *Kernel) unpack(data []byte, what string) []mgl32.Vec2 {
	out, err := render.Unpack(data)
	if err != nil {
		k.readErr = errors.Join(k.readErr, fmt.Errorf("gpu: unpack %s: %w", what, err))
		return nil
	}
	return out
}

// ReadbackErr returns and clears the errors from Positions and Velocities
// since the last call.
func (k *Kernel) ReadbackErr() error {
	err := k.readErr
	k.readErr = nil
	return err
}

// ResetVelocities zeroes the device-side velocity buffer.
func (k *Kernel) ResetVelocities() {
	zero := make([]byte, k.count*render.BytesPerParticle)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, k.velBuf)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, len(zero), gl.Ptr(zero))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)
}

// Cleanup frees the velocity buffer and program. The vertex buffer
// belongs to the device.
func (k *Kernel) Cleanup() {
	if k.velBuf != 0 {
		gl.DeleteBuffers(1, &k.velBuf)
		k.velBuf = 0
	}
	if k.program != 0 {
		gl.DeleteProgram(k.program)
		k.program = 0
	}
}
