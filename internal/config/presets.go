package config

import "sort"

// Presets are partial overrides applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"tight": func(c *Config) {
		c.Field.Strength = 2.0
	},
	"gentle": func(c *Config) {
		c.Field.Strength = 0.1
		c.Dt = 0.008
	},
	"offcenter": func(c *Config) {
		c.Field.Center = [2]float32{0.25, 0.75}
	},
	"swarm": func(c *Config) {
		c.Particles = 65536
		c.Render.PointSize = 1.0
		c.Backend = "gl"
	},
	"unstable": func(c *Config) {
		c.Dt = 0.1
		c.Integrator = "euler"
	},
	"verlet": func(c *Config) {
		c.Integrator = "verlet"
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns the preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
