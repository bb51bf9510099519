package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/charvak/internal/config"
)

const ladder = `name: ladder
description: strength sweep
runs:
  - save_as: weak
    params: {strength: 0.1, steps: 50}
  - preset: tight
    integrator: verlet
    seed: 7
  - params: {dt: 0.008}
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, ladder))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Name != "ladder" || len(s.Runs) != 3 {
		t.Fatalf("unexpected scenario %+v", s)
	}

	cfg, err := s.Config(0)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Field.Strength != 0.1 || cfg.Steps != 50 {
		t.Errorf("params not applied: strength %f steps %d", cfg.Field.Strength, cfg.Steps)
	}

	cfg, err = s.Config(1)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Field.Strength != 2.0 || cfg.Integrator != "verlet" || cfg.Seed != 7 {
		t.Errorf("preset run not resolved: %+v", cfg)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); !errors.Is(err, ErrEmptyScenario) {
		t.Errorf("expected ErrEmptyScenario, got %v", err)
	}
	if _, err := LoadScenario(writeScenario(t, "runs: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestScenarioRun(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, ladder))
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	var dts []float32
	err = s.Run(context.Background(), func(ctx context.Context, name string, cfg *config.Config) error {
		names = append(names, name)
		dts = append(dts, cfg.Dt)
		return nil
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []string{"weak", "ladder_02", "ladder_03"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("run %d: expected name %s, got %s", i, want[i], names[i])
		}
	}
	if dts[2] != 0.008 {
		t.Errorf("expected dt 0.008 for the last run, got %f", dts[2])
	}
}

func TestScenarioRejectsBadRunBeforeExecuting(t *testing.T) {
	s := &Scenario{Runs: []ScenarioRun{
		{},
		{Params: map[string]float64{"gravity": 1}},
	}}

	calls := 0
	err := s.Run(context.Background(), func(ctx context.Context, name string, cfg *config.Config) error {
		calls++
		return nil
	})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if calls != 0 {
		t.Errorf("no run should execute when one is invalid, got %d", calls)
	}
}

func TestScenarioStopsOnFailure(t *testing.T) {
	s := &Scenario{Runs: []ScenarioRun{{}, {}, {}}}
	boom := errors.New("boom")

	calls := 0
	err := s.Run(context.Background(), func(ctx context.Context, name string, cfg *config.Config) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped failure, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected to stop after 2 runs, got %d", calls)
	}
}
