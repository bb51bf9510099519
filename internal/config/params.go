package config

import (
	"fmt"
	"sort"
)

var setters = map[string]func(*Config, float64){
	"strength":   func(c *Config, v float64) { c.Field.Strength = float32(v) },
	"epsilon":    func(c *Config, v float64) { c.Field.Epsilon = float32(v) },
	"cx":         func(c *Config, v float64) { c.Field.Center[0] = float32(v) },
	"cy":         func(c *Config, v float64) { c.Field.Center[1] = float32(v) },
	"dt":         func(c *Config, v float64) { c.Dt = float32(v) },
	"particles":  func(c *Config, v float64) { c.Particles = int(v) },
	"steps":      func(c *Config, v float64) { c.Steps = int(v) },
	"point_size": func(c *Config, v float64) { c.Render.PointSize = float32(v) },
}

// Set assigns a numeric parameter by name, for sweeps and scenario files.
func (c *Config) Set(name string, v float64) error {
	set, ok := setters[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q (available: %v)", ErrInvalidConfig, name, ParamNames())
	}
	set(c, v)
	return nil
}

// ParamNames lists the names accepted by Set, sorted.
func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
