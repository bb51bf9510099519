package config

import (
	"errors"
	"testing"
)

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name  string
		value float64
		check func() bool
	}{
		{"strength", 1.5, func() bool { return cfg.Field.Strength == 1.5 }},
		{"epsilon", 0.01, func() bool { return cfg.Field.Epsilon == 0.01 }},
		{"cx", 0.25, func() bool { return cfg.Field.Center[0] == 0.25 }},
		{"cy", 0.75, func() bool { return cfg.Field.Center[1] == 0.75 }},
		{"dt", 0.008, func() bool { return cfg.Dt == 0.008 }},
		{"particles", 1024, func() bool { return cfg.Particles == 1024 }},
		{"steps", 90, func() bool { return cfg.Steps == 90 }},
		{"point_size", 2, func() bool { return cfg.Render.PointSize == 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cfg.Set(tt.name, tt.value); err != nil {
				t.Fatalf("set failed: %v", err)
			}
			if !tt.check() {
				t.Errorf("%s not applied", tt.name)
			}
		})
	}

	if len(ParamNames()) != len(tests) {
		t.Errorf("expected %d parameters, got %v", len(tests), ParamNames())
	}
}

func TestSetUnknown(t *testing.T) {
	if err := DefaultConfig().Set("gravity", 9.8); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
