// Package gpu is the OpenGL side of the pipeline.
//
// [Device] implements render.Device with one vertex array, one vertex
// buffer and the point program. [Kernel] implements the compute backend
// that integrates particles in place inside that same buffer, so the
// draw call consumes the kernel's output without a host round trip.
//
// Everything here must run on the thread that owns the GL context and
// after [Init] has loaded function pointers. Compute requires a 4.3
// context; build raylib with the opengl43 tag for that.
package gpu
