package config

import "sort"

// Presets maps engine name to named adjustments applied over DefaultConfig.
var Presets = map[string]map[string]func(*Config){
	"projectile": {
		"classic": func(c *Config) {
			c.Projectile.LaunchAngleDeg = 45
			c.Projectile.LaunchSpeed = 60
		},
		"drag": func(c *Config) {
			c.Projectile.Advanced = true
			c.Projectile.Mass = 10
			c.Projectile.CrossSectionArea = 120
		},
		"headwind": func(c *Config) {
			c.Projectile.Advanced = true
			c.Projectile.WindSpeed = -15
		},
		"moon": func(c *Config) {
			c.Projectile.Gravity = 1.62
			c.Projectile.LaunchSpeed = 20
			c.Duration = 30
		},
	},
	"ball": {
		"default": func(c *Config) {},
		"elastic": func(c *Config) {
			c.Ball.Elasticity = 1
			c.Ball.Friction = 1
			c.Ball.AirResistance = 0
		},
		"heavy-drag": func(c *Config) {
			c.Ball.AirResistance = 0.01
			c.Ball.InitialSpeed = 8
		},
		"dead": func(c *Config) {
			c.Ball.Elasticity = 0.2
			c.Ball.Friction = 0.8
		},
	},
	"pendulum": {
		"small": func(c *Config) {
			c.Pendulum.InitialAngleDeg = 10
			c.Pendulum.Damping = 0
			c.Duration = 20
		},
		"large": func(c *Config) {
			c.Pendulum.InitialAngleDeg = 90
			c.Pendulum.Damping = 0
			c.Duration = 20
		},
		"damped": func(c *Config) {
			c.Pendulum.Damping = 0.3
			c.Duration = 30
		},
		"long": func(c *Config) {
			c.Pendulum.Length = 3
			c.Pendulum.Integrator = "rk4"
		},
	},
}

// GetPreset returns a fresh config for the engine with the preset applied,
// or nil when either name is unknown.
func GetPreset(engine, preset string) *Config {
	enginePresets, ok := Presets[engine]
	if !ok {
		return nil
	}
	apply, ok := enginePresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Engine = engine
	apply(cfg)
	return cfg
}

func ListPresets(engine string) []string {
	enginePresets, ok := Presets[engine]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(enginePresets))
	for name := range enginePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
