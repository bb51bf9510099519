package sim

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/san-kum/charvak/internal/metrics"
	"github.com/san-kum/charvak/internal/scene"
)

// Builder constructs an independent pipeline for one seed. Ensemble
// members share nothing, so builders must not return GL-backed scenes.
type Builder func(seed int64) (*scene.Scene, []metrics.Metric, error)

// Ensemble runs the same configuration over consecutive seeds.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
	log       *log.Logger
}

// NewEnsemble prepares numRuns runs seeded seedStart, seedStart+1, ...
func NewEnsemble(build Builder, numRuns int, seedStart int64, logger *log.Logger) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart, log: logger}
}

// Run executes all runs concurrently and waits for them. Any failure
// discards the results and returns the first error by run index.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sc, ms, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}

			var logger *log.Logger
			if e.log != nil {
				logger = e.log.With("member", idx)
			}
			runner := New(sc, logger)
			for _, m := range ms {
				runner.AddMetric(m)
			}
			results[idx], errs[idx] = runner.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
