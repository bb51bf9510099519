package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/charvak/internal/particles"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Particles != 4096 {
		t.Errorf("expected 4096 particles, got %d", cfg.Particles)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 800 {
		t.Errorf("expected 800x800 window, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Title != "Charvak Physics Simulation" {
		t.Errorf("unexpected title %q", cfg.Window.Title)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestParticleField(t *testing.T) {
	f := DefaultConfig().ParticleField()
	if f != particles.DefaultField() {
		t.Errorf("expected default field, got %+v", f)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charvak.yaml")

	cfg := DefaultConfig()
	cfg.Particles = 128
	cfg.Field.Center = [2]float32{0.25, 0.75}
	cfg.Render.Color = [4]float32{0.1, 0.2, 0.3, 1}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("particles: 10\nfield:\n  strength: 2.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Particles != 10 {
		t.Errorf("expected 10 particles, got %d", cfg.Particles)
	}
	if cfg.Field.Strength != 2.5 {
		t.Errorf("expected strength 2.5, got %f", cfg.Field.Strength)
	}
	if cfg.Field.Epsilon != particles.DefaultEpsilon {
		t.Errorf("unset keys should keep defaults, epsilon = %g", cfg.Field.Epsilon)
	}
	if cfg.Window.Title != DefaultTitle {
		t.Errorf("unset keys should keep defaults, title = %q", cfg.Window.Title)
	}
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("particles: 2048\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("tight")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Particles != 2048 {
		t.Errorf("file should override preset, got %d particles", cfg.Particles)
	}
	if cfg.Field.Strength != 2.0 {
		t.Errorf("preset values should survive, got strength %f", cfg.Field.Strength)
	}
	if base.Particles != 4096 {
		t.Error("base config was modified")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("particles: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero particles", func(c *Config) { c.Particles = 0 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"zero epsilon", func(c *Config) { c.Field.Epsilon = 0 }},
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"zero point size", func(c *Config) { c.Render.PointSize = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tight")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Field.Strength != 2.0 {
		t.Errorf("expected strength 2.0, got %f", cfg.Field.Strength)
	}
	if cfg.Particles != 4096 {
		t.Errorf("presets should start from defaults, got %d particles", cfg.Particles)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestPresetsIndependent(t *testing.T) {
	a := GetPreset("default")
	a.Particles = 1
	if GetPreset("default").Particles == 1 {
		t.Error("presets share state between calls")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}
