package gui

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/charvak/internal/compute"
	"github.com/san-kum/charvak/internal/config"
	"github.com/san-kum/charvak/internal/gpu"
	"github.com/san-kum/charvak/internal/metrics"
	"github.com/san-kum/charvak/internal/particles"
	"github.com/san-kum/charvak/internal/render"
	"github.com/san-kum/charvak/internal/scene"
)

func init() {
	// GL calls must come from the thread that created the context.
	runtime.LockOSThread()
}

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColAccent  = rl.NewColor(255, 153, 26, 255)
)

// App owns the window-side pipeline: GL device, renderer, backend and
// the scene that couples them.
type App struct {
	cfg      *config.Config
	log      *log.Logger
	set      *particles.Set
	renderer *render.Renderer
	scene    *scene.Scene
	distance *metrics.MeanDistance
	version  string
	running  bool
}

// Run opens the window and drives the simulation until it is closed.
// The window is closed on every return path.
func Run(cfg *config.Config, logger *log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if logger == nil {
		logger = log.Default()
	}

	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Window.FPS))

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.loop()
}

func newApp(cfg *config.Config, logger *log.Logger) (*App, error) {
	version, err := gpu.Init()
	if err != nil {
		return nil, err
	}
	logger.Info("opengl ready", "version", version)

	set, err := scene.NewSet(cfg)
	if err != nil {
		return nil, err
	}

	dev := gpu.NewDevice()
	r, err := render.New(dev, cfg.Particles, cfg.Style())
	if err != nil {
		return nil, err
	}

	backend, err := selectBackend(cfg, set, dev, r, logger)
	if err != nil {
		r.Release()
		return nil, err
	}
	logger.Info("backend selected", "backend", backend.Name(), "particles", cfg.Particles, "resident", backend.Resident())

	sc := scene.New(backend, r)
	if err := sc.Sync(); err != nil {
		backend.Cleanup()
		r.Release()
		return nil, err
	}

	return &App{
		cfg:      cfg,
		log:      logger,
		set:      set,
		renderer: r,
		scene:    sc,
		distance: metrics.NewMeanDistance(set.Field().Center),
		version:  version,
		running:  true,
	}, nil
}

func selectBackend(cfg *config.Config, set *particles.Set, dev *gpu.Device, r *render.Renderer, logger *log.Logger) (compute.Backend, error) {
	reg := scene.HostBackends(set, cfg.Workers)
	reg.Register("gl", func() (compute.Backend, error) {
		if set.Scheme().Name() != config.DefaultIntegrator {
			logger.Warn("gl backend only runs the symplectic scheme", "requested", set.Scheme().Name())
		}
		// The kernel starts from whatever the vertex buffer holds.
		if err := r.UpdateData(set.Positions()); err != nil {
			return nil, err
		}
		return gpu.NewKernel(dev, cfg.Particles, set.Field())
	})

	if cfg.Backend == "auto" {
		return reg.AutoSelect("gl", "cpu")
	}
	return reg.Get(cfg.Backend)
}

func (a *App) loop() error {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		if rl.IsKeyPressed(rl.KeySpace) {
			a.running = !a.running
		}
		if rl.IsKeyPressed(rl.KeyR) {
			if err := a.reset(); err != nil {
				return err
			}
		}

		if a.running {
			dt := frameDt(a.cfg, rl.GetFrameTime())
			if err := a.scene.Update(dt); err != nil {
				a.log.Error("update failed", "frame", a.scene.Frame(), "err", err)
				return err
			}
		}

		a.draw()
	}
	a.log.Info("window closed", "frames", a.scene.Frame(), "time", fmt.Sprintf("%.2fs", a.scene.Time()))
	return nil
}

func (a *App) reset() error {
	scene.Reseed(a.set, a.cfg.Seed)
	if err := a.scene.Reset(a.set); err != nil {
		return err
	}
	a.distance.Reset()
	a.log.Debug("reset", "seed", a.cfg.Seed)
	return nil
}

func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	// Flush raylib's pending batch before issuing raw GL draws.
	rl.DrawRenderBatchActive()
	a.scene.Draw()

	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawHUD() {
	backend := a.scene.Backend()
	if !backend.Resident() && a.scene.Frame()%hudSampleEvery == 0 {
		a.distance.Observe(backend.Positions(), nil, a.scene.Time())
	}

	stats := hudStats{
		Title:     a.cfg.Window.Title,
		Backend:   backend.Name(),
		Particles: a.renderer.Count(),
		Frame:     a.scene.Frame(),
		Time:      a.scene.Time(),
		FPS:       int(rl.GetFPS()),
		Running:   a.running,
		Distance:  a.distance.Value(),
		Resident:  backend.Resident(),
	}

	rl.DrawText(stats.Title, 16, 14, 20, ColAccent)
	for i, line := range hudLines(stats) {
		rl.DrawText(line, 16, int32(44+18*i), 14, ColText)
	}
	rl.DrawText(helpLine, 16, int32(a.cfg.Window.Height-28), 14, ColTextDim)
}

func (a *App) cleanup() {
	a.scene.Backend().Cleanup()
	a.renderer.Release()
}
