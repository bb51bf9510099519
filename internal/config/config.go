package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/charvak/internal/particles"
	"github.com/san-kum/charvak/internal/render"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt         = 0.016
	DefaultSteps      = 600
	DefaultWidth      = 800
	DefaultHeight     = 800
	DefaultTitle      = "Charvak Physics Simulation"
	DefaultFPS        = 60
	DefaultIntegrator = "symplectic"
	DefaultBackend    = "cpu"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full run configuration as read from YAML.
type Config struct {
	Particles  int          `yaml:"particles"`
	Seed       int64        `yaml:"seed"`
	Dt         float32      `yaml:"dt"`
	Steps      int          `yaml:"steps"`
	Integrator string       `yaml:"integrator"`
	Backend    string       `yaml:"backend"`
	Workers    int          `yaml:"workers"`
	Field      FieldConfig  `yaml:"field"`
	Window     WindowConfig `yaml:"window"`
	Render     RenderConfig `yaml:"render"`
}

// FieldConfig describes the central attraction.
type FieldConfig struct {
	Center   [2]float32 `yaml:"center,flow"`
	Strength float32    `yaml:"strength"`
	Epsilon  float32    `yaml:"epsilon"`
}

// WindowConfig controls the raylib window and its frame pacing.
type WindowConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	FPS      int    `yaml:"fps"`
	Realtime bool   `yaml:"realtime"`
}

// RenderConfig sets point size and RGBA color.
type RenderConfig struct {
	PointSize float32    `yaml:"point_size"`
	Color     [4]float32 `yaml:"color,flow"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	style := render.DefaultStyle()
	return &Config{
		Particles:  particles.DefaultCount,
		Seed:       1,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Integrator: DefaultIntegrator,
		Backend:    DefaultBackend,
		Field: FieldConfig{
			Center:   [2]float32(particles.DefaultCenter),
			Strength: particles.DefaultStrength,
			Epsilon:  particles.DefaultEpsilon,
		},
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			FPS:    DefaultFPS,
		},
		Render: RenderConfig{
			PointSize: style.PointSize,
			Color:     style.Color,
		},
	}
}

// Load reads a YAML file on top of the defaults, so a file only needs
// the keys it changes.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file on top of a copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid field, wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Particles <= 0:
		return fmt.Errorf("%w: particles must be positive, got %d", ErrInvalidConfig, c.Particles)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, c.Steps)
	case c.Field.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidConfig, c.Field.Epsilon)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Render.PointSize <= 0:
		return fmt.Errorf("%w: point size must be positive, got %f", ErrInvalidConfig, c.Render.PointSize)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// ParticleField converts the field section into a particles.Field.
func (c *Config) ParticleField() particles.Field {
	return particles.Field{
		Center:   mgl32.Vec2(c.Field.Center),
		Strength: c.Field.Strength,
		Epsilon:  c.Field.Epsilon,
	}
}

// Style converts the render section into a render.Style.
func (c *Config) Style() render.Style {
	return render.Style{
		PointSize: c.Render.PointSize,
		Color:     c.Render.Color,
	}
}

// Clone returns a shallow copy; all fields are values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
