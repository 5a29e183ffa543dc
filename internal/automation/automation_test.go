package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/experiment"
	"github.com/san-kum/physlab/internal/sim"
)

const scenarioYAML = `name: tour
description: one of each
steps:
  - engine: projectile
    preset: moon
    save: true
  - engine: ball
    duration: 3
  - engine: pendulum
    integrator: rk4
    duration: 2
    params:
      length: 2
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.Name != "tour" || len(s.Steps) != 3 {
		t.Fatalf("got %+v", s)
	}
	if s.Steps[2].Params["length"] != 2 {
		t.Errorf("params = %v", s.Steps[2].Params)
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := ScenarioStep{Engine: "projectile", Preset: "moon", Dt: 0.01}.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.Projectile.Gravity != 1.62 || cfg.Dt != 0.01 || cfg.Engine != "projectile" {
		t.Errorf("config = %+v", cfg)
	}

	if _, err := (ScenarioStep{Engine: "ball", Preset: "nope"}).Config(); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	var saved []string
	save := func(step ScenarioStep, exp *experiment.Experiment, result *sim.Result) (string, error) {
		saved = append(saved, step.Engine)
		return "run-" + step.Engine, nil
	}

	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), save)
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if len(saved) != 1 || saved[0] != "projectile" || results[0].RunID != "run-projectile" {
		t.Errorf("saved = %v, first id %q", saved, results[0].RunID)
	}
	if results[0].Result.Count(dynamo.EventImpact) != 1 {
		t.Error("projectile step should end on impact")
	}
	if got := results[2].Experiment.Params()["length"]; got != 2 {
		t.Errorf("pendulum length = %v, want 2", got)
	}
}

func TestRunScenarioStopsOnFailure(t *testing.T) {
	s := &Scenario{Name: "bad", Steps: []ScenarioStep{
		{Engine: "ball", Duration: 1},
		{Engine: "rocket"},
		{Engine: "pendulum"},
	}}

	results, err := RunScenario(context.Background(), s, experiment.NewRegistry(), nil)
	if err == nil {
		t.Fatal("expected error for unknown engine")
	}
	if len(results) != 1 {
		t.Errorf("got %d results before failure, want 1", len(results))
	}
}
