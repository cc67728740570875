// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gridsim/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Simulation modes.
const (
	ModeEcosystem = "ecosystem"
	ModeLife      = "life"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig             `yaml:"screen"`
	Grid       GridConfig               `yaml:"grid"`
	Mode       string                   `yaml:"mode"`
	Simulation SimulationConfig         `yaml:"simulation"`
	Species    map[string]SpeciesConfig `yaml:"species"`
	Seed       []SeedConfig             `yaml:"seed"`
	Life       LifeConfig               `yaml:"life"`
	Telemetry  TelemetryConfig          `yaml:"telemetry"`
	Bookmarks  BookmarksConfig          `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	CellSize  int `yaml:"cell_size"` // pixels per grid cell at zoom 1
}

// GridConfig holds grid dimensions.
// Zero values derive the size from the screen and cell size.
type GridConfig struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
}

// SimulationConfig holds tick scheduler parameters.
type SimulationConfig struct {
	PlantsPerTick       int     `yaml:"plants_per_tick"`      // plants injected after each ecosystem tick
	OvergrowthThreshold float64 `yaml:"overgrowth_threshold"` // plant fraction of the grid that raises an alert
	StepsPerUpdate      int     `yaml:"steps_per_update"`
}

// SpeciesConfig is one entry of the per-species parameter table.
// Pointer fields distinguish a missing key from an explicit zero.
type SpeciesConfig struct {
	LifespanSteps        *int `yaml:"lifespan_steps,omitempty"`
	SightRadius          *int `yaml:"sight_radius,omitempty"`
	ReproductionCooldown *int `yaml:"reproduction_cooldown,omitempty"`
}

// SeedConfig places one organism at startup. X is the column, Y the row.
type SeedConfig struct {
	Species string `yaml:"species"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
}

// LifeConfig holds Game-of-Life mode settings.
type LifeConfig struct {
	PatternDir        string `yaml:"pattern_dir"`
	Pattern           string `yaml:"pattern"`             // initial pattern file, empty = random fill
	RandomFillPercent int    `yaml:"random_fill_percent"` // live probability for random fill
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // generations per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PredatorRecovery PredatorRecoveryConfig `yaml:"predator_recovery"`
	PreyCrash        PreyCrashConfig        `yaml:"prey_crash"`
	StableEcosystem  StableEcosystemConfig  `yaml:"stable_ecosystem"`
}

// PredatorRecoveryConfig holds predator recovery detection parameters.
type PredatorRecoveryConfig struct {
	MinPopulation      int `yaml:"min_population"`
	RecoveryMultiplier int `yaml:"recovery_multiplier"`
	MinFinal           int `yaml:"min_final"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinPrey       int     `yaml:"min_prey"`
	MinPred       int     `yaml:"min_pred"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// SpeciesParams are the validated parameters for one kind.
type SpeciesParams struct {
	Lifespan             int
	SightRadius          int
	ReproductionCooldown int
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Rows    int
	Columns int
	Params  [components.NumKinds]SpeciesParams // indexed by components.Kind
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse merges YAML data over the embedded defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Unmarshal into same struct - only overwrites fields present in data.
	// Species entries are replaced whole, so a user entry must be complete.
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Refresh recomputes derived values and validates the result. Call it after
// editing a loaded config.
func (c *Config) Refresh() error {
	c.computeDerived()
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeParams()
	return nil
}

// Clone returns a deep copy whose species table and seed list can be edited
// independently of c.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Species = make(map[string]SpeciesConfig, len(c.Species))
	for name, sc := range c.Species {
		cp.Species[name] = SpeciesConfig{
			LifespanSteps:        clonePtr(sc.LifespanSteps),
			SightRadius:          clonePtr(sc.SightRadius),
			ReproductionCooldown: clonePtr(sc.ReproductionCooldown),
		}
	}
	cp.Seed = slices.Clone(c.Seed)
	return &cp
}

func clonePtr(p *int) *int {
	if p == nil {
		return nil
	}
	return IntPtr(*p)
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	cellSize := c.Screen.CellSize
	if cellSize <= 0 {
		cellSize = 1
	}

	c.Derived.Rows = c.Grid.Rows
	if c.Derived.Rows == 0 {
		c.Derived.Rows = c.Screen.Height / cellSize
	}
	c.Derived.Columns = c.Grid.Columns
	if c.Derived.Columns == 0 {
		c.Derived.Columns = c.Screen.Width / cellSize
	}
}

// computeParams flattens the validated species table into Derived.Params.
func (c *Config) computeParams() {
	c.Derived.Params = [components.NumKinds]SpeciesParams{}
	for name, sc := range c.Species {
		kind, ok := components.ParseKind(name)
		if !ok {
			continue
		}
		var p SpeciesParams
		if sc.LifespanSteps != nil {
			p.Lifespan = *sc.LifespanSteps
		}
		if sc.SightRadius != nil {
			p.SightRadius = *sc.SightRadius
		}
		if sc.ReproductionCooldown != nil {
			p.ReproductionCooldown = *sc.ReproductionCooldown
		}
		c.Derived.Params[kind] = p
	}
}

// Params returns the validated parameters for a kind.
func (c *Config) Params(kind components.Kind) SpeciesParams {
	return c.Derived.Params[kind]
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// IntPtr returns a pointer to v. Handy for building species tables in code.
func IntPtr(v int) *int {
	return &v
}
