// Package compute provides the backends that advance the particle state.
//
// Two backends exist:
//
//   - cpu: integrates on the host, splitting large sets across workers.
//     Positions are uploaded to the render buffer every frame.
//   - gl: a compute shader (package gpu) updates positions in place inside
//     the render buffer, so nothing crosses the bus per frame.
//
// Backends are built through a [Registry]:
//
//	reg := compute.NewRegistry()
//	reg.Register("cpu", func() (compute.Backend, error) {
//	    return compute.NewCPUBackend(set, 0), nil
//	})
//	backend, err := reg.AutoSelect("gl", "cpu")
//
// Step always returns only after the whole set has been advanced.
package compute
