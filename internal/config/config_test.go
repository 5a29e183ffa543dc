package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine != "projectile" {
		t.Errorf("expected engine projectile, got %s", cfg.Engine)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.Pendulum.Integrator != "symplectic" {
		t.Errorf("expected symplectic integrator, got %s", cfg.Pendulum.Integrator)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"zero fps", func(c *Config) { c.Display.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pendulum", "small")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Engine != "pendulum" || cfg.Pendulum.InitialAngleDeg != 10 {
		t.Errorf("unexpected preset %+v", cfg.Pendulum)
	}

	// presets must not leak into later configs
	cfg.Pendulum.Length = 2
	if again := GetPreset("pendulum", "small"); again.Pendulum.Length != 1 {
		t.Errorf("preset shared state: length %f", again.Pendulum.Length)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("pendulum", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "small")
	if cfg != nil {
		t.Error("expected nil for nonexistent engine")
	}
}

func TestListPresets(t *testing.T) {
	for _, engine := range []string{"projectile", "ball", "pendulum"} {
		presets := ListPresets(engine)
		if len(presets) < 3 {
			t.Errorf("expected presets for %s, got %v", engine, presets)
		}
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent engine")
	}
}

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	doc := "engine: ball\nball:\n  elasticity: 0.9\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Engine != "ball" || cfg.Ball.Elasticity != 0.9 {
		t.Errorf("file values not applied: %s %f", cfg.Engine, cfg.Ball.Elasticity)
	}
	if cfg.Ball.Friction != 0.98 || cfg.Dt != DefaultDt {
		t.Errorf("defaults lost: friction %f dt %f", cfg.Ball.Friction, cfg.Dt)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("projectile", "headwind")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n%+v\n%+v", loaded, cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("engine: [unclosed"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadIntoPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("projectile:\n  launch_speed: 80\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := GetPreset("projectile", "moon")
	gravity := cfg.Projectile.Gravity
	if err := LoadInto(cfg, path); err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}
	if cfg.Projectile.LaunchSpeed != 80 {
		t.Errorf("file value not applied: %f", cfg.Projectile.LaunchSpeed)
	}
	if cfg.Projectile.Gravity != gravity {
		t.Errorf("preset value lost: %f", cfg.Projectile.Gravity)
	}
}
