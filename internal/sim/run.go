package sim

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/san-kum/charvak/internal/config"
	"github.com/san-kum/charvak/internal/metrics"
	"github.com/san-kum/charvak/internal/scene"
)

// RunConfig builds a host scene from cfg, attaches the default metrics
// and runs cfg.Steps ticks. The scene's backend and renderer are released
// before it returns.
func RunConfig(ctx context.Context, cfg *config.Config, sampleEvery int, logger *log.Logger) (*Result, error) {
	sc, _, err := scene.NewHost(cfg)
	if err != nil {
		return nil, err
	}
	return runOwned(ctx, sc, cfg, sampleEvery, logger)
}

// runOwned runs sc and then releases everything it holds.
func runOwned(ctx context.Context, sc *scene.Scene, cfg *config.Config, sampleEvery int, logger *log.Logger) (*Result, error) {
	defer sc.Backend().Cleanup()
	defer sc.Renderer().Release()

	r := New(sc, logger)
	for _, m := range metrics.Default(cfg.ParticleField().Center) {
		r.AddMetric(m)
	}
	return r.Run(ctx, Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		SampleEvery:   sampleEvery,
		ValidateState: true,
	})
}
