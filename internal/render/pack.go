package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BytesPerParticle is the size of one vec2 of float32 in the vertex buffer.
const BytesPerParticle = 8

// Pack writes positions as consecutive little-endian float32 x,y pairs,
// the exact layout of the vertex buffer. dst is reused when large enough.
func Pack(positions []mgl32.Vec2, dst []byte) []byte {
	size := len(positions) * BytesPerParticle
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]
	for i, p := range positions {
		off := i * BytesPerParticle
		binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(dst[off+4:], math.Float32bits(p[1]))
	}
	return dst
}

// Unpack decodes a buffer written by Pack.
func Unpack(data []byte) ([]mgl32.Vec2, error) {
	if len(data)%BytesPerParticle != 0 {
		return nil, fmt.Errorf("render: buffer of %d bytes is not a whole number of positions", len(data))
	}
	out := make([]mgl32.Vec2, len(data)/BytesPerParticle)
	for i := range out {
		off := i * BytesPerParticle
		out[i] = mgl32.Vec2{
			math.Float32frombits(binary.LittleEndian.Uint32(data[off:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:])),
		}
	}
	return out, nil
}
