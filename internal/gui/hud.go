package gui

import (
	"fmt"

	"github.com/san-kum/charvak/internal/config"
)

const (
	maxFrameDt     = 0.05
	hudSampleEvery = 15
	helpLine       = "[SPACE] PAUSE  [R] RESET  [Q/ESC] QUIT"
)

type hudStats struct {
	Title     string
	Backend   string
	Particles int
	Frame     int
	Time      float64
	FPS       int
	Running   bool
	Distance  float64
	Resident  bool
}

// frameDt picks the step for one frame: the configured dt, or the
// measured frame time clamped to maxFrameDt in realtime mode.
func frameDt(cfg *config.Config, frameTime float32) float32 {
	if !cfg.Window.Realtime {
		return cfg.Dt
	}
	if frameTime <= 0 {
		return 0
	}
	return min(frameTime, maxFrameDt)
}

func hudLines(s hudStats) []string {
	status := "RUNNING"
	if !s.Running {
		status = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("%s  %d FPS", status, s.FPS),
		fmt.Sprintf("%d particles on %s", s.Particles, s.Backend),
		fmt.Sprintf("frame %d  t=%.2fs", s.Frame, s.Time),
	}
	if !s.Resident {
		lines = append(lines, fmt.Sprintf("mean distance %.4f", s.Distance))
	}
	return lines
}
