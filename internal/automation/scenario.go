// Package automation runs scripted batches of headless simulations
// described in YAML.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/charvak/internal/config"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no runs")

// Scenario is a named list of runs. Each run starts from a preset (or
// the defaults) and overrides numeric parameters by name.
//
//	name: strength-ladder
//	runs:
//	  - save_as: weak
//	    params: {strength: 0.1}
//	  - preset: tight
//	    integrator: verlet
//	    steps: 1200
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun describes one headless run. Unset fields fall back to
// the preset, then to the defaults.
type ScenarioRun struct {
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Seed       *int64             `yaml:"seed"`
	Steps      int                `yaml:"steps"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// LoadScenario reads a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// Config resolves run i into a validated configuration.
func (s *Scenario) Config(i int) (*config.Config, error) {
	run := s.Runs[i]

	cfg := config.DefaultConfig()
	if run.Preset != "" {
		cfg = config.GetPreset(run.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("run %d: unknown preset %q", i+1, run.Preset)
		}
	}
	if run.Integrator != "" {
		cfg.Integrator = run.Integrator
	}
	if run.Seed != nil {
		cfg.Seed = *run.Seed
	}
	if run.Steps > 0 {
		cfg.Steps = run.Steps
	}

	names := make([]string, 0, len(run.Params))
	for name := range run.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cfg.Set(name, run.Params[name]); err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("run %d: %w", i+1, err)
	}
	return cfg, nil
}

// RunFunc executes one resolved run. name is the run's save_as value, or
// a generated one.
type RunFunc func(ctx context.Context, name string, cfg *config.Config) error

// Run resolves every run before executing any, then executes them in
// order and stops at the first failure.
func (s *Scenario) Run(ctx context.Context, run RunFunc) error {
	configs := make([]*config.Config, len(s.Runs))
	for i := range s.Runs {
		cfg, err := s.Config(i)
		if err != nil {
			return err
		}
		configs[i] = cfg
	}

	for i, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := s.Runs[i].SaveAs
		if name == "" {
			name = fmt.Sprintf("%s_%02d", s.label(), i+1)
		}
		if err := run(ctx, name, cfg); err != nil {
			return fmt.Errorf("run %d (%s): %w", i+1, name, err)
		}
	}
	return nil
}

func (s *Scenario) label() string {
	if s.Name != "" {
		return s.Name
	}
	return "scenario"
}
