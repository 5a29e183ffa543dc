package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physlab/internal/physics"
)

const (
	DefaultEngine   = "projectile"
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultTheme    = "neon"
	DefaultFPS      = 60
)

type Config struct {
	Engine     string                   `yaml:"engine"`
	Dt         float64                  `yaml:"dt"`
	Duration   float64                  `yaml:"duration"`
	Projectile physics.ProjectileConfig `yaml:"projectile"`
	Ball       physics.BallConfig       `yaml:"ball"`
	Pendulum   physics.PendulumConfig   `yaml:"pendulum"`
	Display    DisplayConfig            `yaml:"display"`
}

type DisplayConfig struct {
	Theme string `yaml:"theme"`
	FPS   int    `yaml:"fps"`
	// TrailLength overrides the per-engine trail capacity when positive.
	TrailLength int  `yaml:"trail_length"`
	PhaseLength int  `yaml:"phase_length"`
	ShowEnergy  bool `yaml:"show_energy"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine:     DefaultEngine,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Projectile: physics.DefaultProjectileConfig(),
		Ball:       physics.DefaultBallConfig(),
		Pendulum:   physics.DefaultPendulumConfig(),
		Display: DisplayConfig{
			Theme:      DefaultTheme,
			FPS:        DefaultFPS,
			ShowEnergy: true,
		},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a YAML file over cfg, e.g. on top of a preset.
func LoadInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run parameters. Engine parameters are clamped by the
// engines themselves and never fail validation.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("display fps must be positive, got %d", c.Display.FPS)
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
