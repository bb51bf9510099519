package compute

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/charvak/internal/particles"
)

// serialThreshold is the particle count below which goroutine fan-out
// costs more than it saves.
const serialThreshold = 1024

// CPUBackend steps a particle set on the host, splitting large sets
// into disjoint chunks across workers.
type CPUBackend struct {
	set     *particles.Set
	workers int
}

// NewCPUBackend wraps set. workers <= 0 means one per CPU.
func NewCPUBackend(set *particles.Set, workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{set: set, workers: workers}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Resident() bool  { return false }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

// Step advances every particle by dt and returns once all chunks are done.
func (c *CPUBackend) Step(dt float32) error {
	n := c.set.Len()
	if n < serialThreshold || c.workers == 1 {
		c.set.Step(dt)
		return nil
	}

	var wg sync.WaitGroup
	chunkSize := (n + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			c.set.StepRange(lo, hi, dt)
		}(start, end)
	}

	wg.Wait()
	return nil
}

func (c *CPUBackend) Positions() []mgl32.Vec2  { return c.set.Positions() }
func (c *CPUBackend) Velocities() []mgl32.Vec2 { return c.set.Velocities() }

func (c *CPUBackend) Len() int { return c.set.Len() }

func (c *CPUBackend) CopyPositions(dst []mgl32.Vec2) int {
	return c.set.CopyPositions(dst)
}
