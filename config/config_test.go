package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/gridsim/components"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Derived.Rows != 100 || cfg.Derived.Columns != 133 {
		t.Errorf("expected derived grid 100x133, got %dx%d", cfg.Derived.Rows, cfg.Derived.Columns)
	}
	if cfg.Mode != ModeEcosystem {
		t.Errorf("expected default mode %q, got %q", ModeEcosystem, cfg.Mode)
	}
	if got := cfg.Params(components.KindFastPredator).SightRadius; got <= 0 {
		t.Errorf("expected positive fast predator sight radius, got %d", got)
	}
	if got := cfg.Params(components.KindHerbivore).ReproductionCooldown; got <= 0 {
		t.Errorf("expected positive herbivore cooldown, got %d", got)
	}
	if len(cfg.Seed) == 0 {
		t.Error("expected default seed placements")
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
grid:
  rows: 10
  columns: 12
simulation:
  plants_per_tick: 3
seed:
  - {species: Herbivore, x: 11, y: 9}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Derived.Rows != 10 || cfg.Derived.Columns != 12 {
		t.Errorf("expected 10x12 grid, got %dx%d", cfg.Derived.Rows, cfg.Derived.Columns)
	}
	if cfg.Simulation.PlantsPerTick != 3 {
		t.Errorf("expected plants_per_tick 3, got %d", cfg.Simulation.PlantsPerTick)
	}
	if cfg.Simulation.OvergrowthThreshold != 0.5 {
		t.Errorf("expected default overgrowth threshold kept, got %g", cfg.Simulation.OvergrowthThreshold)
	}
	if len(cfg.Seed) != 1 {
		t.Errorf("expected seed list replaced, got %d entries", len(cfg.Seed))
	}
}

func TestValidateConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantKey string
	}{
		{
			name: "missing sight radius",
			yaml: `
species:
  Herbivore:
    lifespan_steps: 10
    reproduction_cooldown: 2
`,
			wantKey: "species.Herbivore.sight_radius",
		},
		{
			name: "missing cooldown",
			yaml: `
species:
  Herbivore:
    lifespan_steps: 10
    sight_radius: 3
`,
			wantKey: "species.Herbivore.reproduction_cooldown",
		},
		{
			name: "zero radius",
			yaml: `
species:
  Predator:
    lifespan_steps: 10
    sight_radius: 0
`,
			wantKey: "species.Predator.sight_radius",
		},
		{
			name: "negative cooldown",
			yaml: `
species:
  Herbivore:
    lifespan_steps: 10
    sight_radius: 3
    reproduction_cooldown: -1
`,
			wantKey: "species.Herbivore.reproduction_cooldown",
		},
		{
			name: "missing lifespan",
			yaml: `
species:
  Plant: {}
`,
			wantKey: "species.Plant.lifespan_steps",
		},
		{
			name: "unknown species",
			yaml: `
species:
  Tree:
    lifespan_steps: 1
`,
			wantKey: "species.Tree",
		},
		{
			name: "seed out of bounds",
			yaml: `
grid: {rows: 5, columns: 5}
seed:
  - {species: Plant, x: 5, y: 0}
`,
			wantKey: "seed[0]",
		},
		{
			name: "duplicate seed",
			yaml: `
grid: {rows: 5, columns: 5}
seed:
  - {species: Plant, x: 1, y: 1}
  - {species: Herbivore, x: 1, y: 1}
`,
			wantKey: "seed[1]",
		},
		{
			name: "unknown seed species",
			yaml: `
grid: {rows: 5, columns: 5}
seed:
  - {species: Dragon, x: 1, y: 1}
`,
			wantKey: "seed[0].species",
		},
		{
			name:    "bad mode",
			yaml:    `mode: hexagons`,
			wantKey: "mode",
		},
		{
			name:    "bad threshold",
			yaml:    `simulation: {overgrowth_threshold: 1.5}`,
			wantKey: "simulation.overgrowth_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected configuration error, got nil")
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigurationError, got %T: %v", err, err)
			}
			if cfgErr.Key != tt.wantKey {
				t.Errorf("expected key %q, got %q (%v)", tt.wantKey, cfgErr.Key, err)
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("expected message to name %q, got %q", tt.wantKey, err.Error())
			}
		})
	}
}

func TestLifeModeSkipsSpeciesChecks(t *testing.T) {
	cfg, err := Parse([]byte(`
mode: life
species:
  Herbivore:
    lifespan_steps: 10
`))
	if err != nil {
		t.Fatalf("expected life mode to ignore species table, got %v", err)
	}
	if cfg.Mode != ModeLife {
		t.Errorf("expected life mode, got %q", cfg.Mode)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := MustLoad("")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Params(components.KindHerbivore) != cfg.Params(components.KindHerbivore) {
		t.Errorf("herbivore params changed: %+v vs %+v",
			loaded.Params(components.KindHerbivore), cfg.Params(components.KindHerbivore))
	}
	if len(loaded.Seed) != len(cfg.Seed) {
		t.Errorf("expected %d seeds, got %d", len(cfg.Seed), len(loaded.Seed))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestCloneAndRefresh(t *testing.T) {
	cfg := MustLoad("")
	cp := cfg.Clone()

	*cp.Species["Herbivore"].LifespanSteps = 99
	cp.Seed = cp.Seed[:1]
	if err := cp.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if got := cp.Params(components.KindHerbivore).Lifespan; got != 99 {
		t.Errorf("expected refreshed lifespan 99, got %d", got)
	}
	if got := cfg.Params(components.KindHerbivore).Lifespan; got != 30 {
		t.Errorf("expected original lifespan 30, got %d", got)
	}
	if got := *cfg.Species["Herbivore"].LifespanSteps; got != 30 {
		t.Errorf("expected original species table untouched, got %d", got)
	}
	if len(cfg.Seed) == 1 {
		t.Error("expected original seed list untouched")
	}

	delete(cp.Species, "Plant")
	var cfgErr *ConfigurationError
	if err := cp.Refresh(); !errors.As(err, &cfgErr) {
		t.Errorf("expected configuration error after removing Plant, got %v", err)
	}
}
