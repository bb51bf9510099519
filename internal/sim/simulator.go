package sim

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/charvak/internal/metrics"
	"github.com/san-kum/charvak/internal/scene"
)

// Runner drives a scene for a fixed number of frames without a window,
// recording metric series along the way.
type Runner struct {
	scene     *scene.Scene
	metrics   []metrics.Metric
	observers []Observer
	log       *log.Logger
}

// New returns a runner for sc. A nil logger uses the default logger.
func New(sc *scene.Scene, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		scene:     sc,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
		log:       logger,
	}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }
func (r *Runner) Scene() *scene.Scene        { return r.scene }
func (r *Runner) Metrics() []metrics.Metric  { return r.metrics }

// Run steps, uploads and draws cfg.Steps frames. On cancellation the
// partial result is returned together with the context error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every == 0 {
		every = 1
	}

	samples := cfg.Steps/every + 2
	result := &Result{
		Times:   make([]float64, 0, samples),
		Series:  make(map[string][]float64, len(r.metrics)),
		Metrics: make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, samples)
	}

	if err := r.scene.Sync(); err != nil {
		return nil, err
	}

	backend := r.scene.Backend()
	r.log.Debug("run started", "backend", backend.Name(), "particles", r.scene.Renderer().Count(), "steps", cfg.Steps, "dt", cfg.Dt)

	if err := r.sample(result, cfg); err != nil {
		return result, err
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			r.log.Warn("run canceled", "frame", r.scene.Frame())
			return result, ctx.Err()
		default:
		}

		if err := r.scene.Update(cfg.Dt); err != nil {
			return result, &SimError{Frame: r.scene.Frame(), Time: r.scene.Time(), Wrapped: err}
		}
		r.scene.Draw()
		result.StepsTaken++

		if (i+1)%every == 0 || i == cfg.Steps-1 {
			if err := r.sample(result, cfg); err != nil {
				return result, err
			}
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	frame, err := r.scene.Renderer().Snapshot()
	if err != nil {
		return result, fmt.Errorf("sim: read back final frame: %w", err)
	}
	result.Frame = frame

	r.log.Debug("run finished", "frames", result.StepsTaken, "samples", len(result.Times))
	return result, nil
}

func (r *Runner) sample(result *Result, cfg Config) error {
	if len(r.metrics) == 0 && len(r.observers) == 0 && !cfg.ValidateState {
		result.Times = append(result.Times, r.scene.Time())
		return nil
	}

	backend := r.scene.Backend()
	pos := backend.Positions()
	vel := backend.Velocities()
	t := r.scene.Time()

	if rb, ok := backend.(readbacker); ok {
		if err := rb.ReadbackErr(); err != nil {
			return &SimError{Frame: r.scene.Frame(), Time: t, Wrapped: err}
		}
	}
	if cfg.ValidateState && !validPositions(pos) {
		return &SimError{Frame: r.scene.Frame(), Time: t, Wrapped: ErrInvalidState}
	}

	for _, m := range r.metrics {
		m.Observe(pos, vel, t)
		result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
	}
	for _, o := range r.observers {
		o.OnFrame(r.scene.Frame(), t, pos, vel)
	}
	result.Times = append(result.Times, t)
	return nil
}
