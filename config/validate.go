package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pthm-cable/gridsim/components"
)

// ConfigurationError reports a missing or invalid configuration value.
// It is fatal at startup.
type ConfigurationError struct {
	Key    string // dotted path of the offending key, e.g. "species.Herbivore.sight_radius"
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

func missing(key string) error {
	return &ConfigurationError{Key: key, Reason: "missing required key"}
}

func invalid(key string, format string, args ...any) error {
	return &ConfigurationError{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the loaded configuration. Species and seed checks only
// apply in ecosystem mode.
func (c *Config) Validate() error {
	if c.Mode != ModeEcosystem && c.Mode != ModeLife {
		return invalid("mode", "unknown mode %q (want %q or %q)", c.Mode, ModeEcosystem, ModeLife)
	}
	if c.Derived.Rows <= 0 {
		return invalid("grid.rows", "must be > 0, got %d", c.Derived.Rows)
	}
	if c.Derived.Columns <= 0 {
		return invalid("grid.columns", "must be > 0, got %d", c.Derived.Columns)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return invalid("telemetry.stats_window", "must be > 0, got %d", c.Telemetry.StatsWindow)
	}

	if c.Mode == ModeLife {
		if c.Life.RandomFillPercent < 0 || c.Life.RandomFillPercent > 100 {
			return invalid("life.random_fill_percent", "must be in [0,100], got %d", c.Life.RandomFillPercent)
		}
		return nil
	}

	if c.Simulation.PlantsPerTick < 0 {
		return invalid("simulation.plants_per_tick", "must be >= 0, got %d", c.Simulation.PlantsPerTick)
	}
	if t := c.Simulation.OvergrowthThreshold; t <= 0 || t > 1 {
		return invalid("simulation.overgrowth_threshold", "must be in (0,1], got %g", t)
	}

	if err := c.validateSpecies(); err != nil {
		return err
	}
	return c.validateSeed()
}

func (c *Config) validateSpecies() error {
	for _, name := range slices.Sorted(maps.Keys(c.Species)) {
		if _, ok := components.ParseKind(name); !ok {
			return invalid("species."+name, "unknown species")
		}
	}

	for _, kind := range components.Species() {
		prefix := "species." + kind.String()
		sc, ok := c.Species[kind.String()]
		if !ok {
			return missing(prefix)
		}

		if sc.LifespanSteps == nil {
			return missing(prefix + ".lifespan_steps")
		}
		if *sc.LifespanSteps <= 0 {
			return invalid(prefix+".lifespan_steps", "must be > 0, got %d", *sc.LifespanSteps)
		}

		traits := components.Traits(kind)
		if traits.Mobile {
			if sc.SightRadius == nil {
				return missing(prefix + ".sight_radius")
			}
			if *sc.SightRadius <= 0 {
				return invalid(prefix+".sight_radius", "must be > 0, got %d", *sc.SightRadius)
			}
		}
		if traits.Reproduces {
			if sc.ReproductionCooldown == nil {
				return missing(prefix + ".reproduction_cooldown")
			}
			if *sc.ReproductionCooldown <= 0 {
				return invalid(prefix+".reproduction_cooldown", "must be > 0, got %d", *sc.ReproductionCooldown)
			}
		}
	}
	return nil
}

func (c *Config) validateSeed() error {
	taken := make(map[[2]int]int, len(c.Seed))
	for i, s := range c.Seed {
		key := fmt.Sprintf("seed[%d]", i)
		if _, ok := components.ParseKind(s.Species); !ok {
			return invalid(key+".species", "unknown species %q", s.Species)
		}
		if s.X < 0 || s.X >= c.Derived.Columns || s.Y < 0 || s.Y >= c.Derived.Rows {
			return invalid(key, "position (x=%d, y=%d) outside %dx%d grid", s.X, s.Y, c.Derived.Columns, c.Derived.Rows)
		}
		pos := [2]int{s.Y, s.X}
		if prev, dup := taken[pos]; dup {
			return invalid(key, "position (x=%d, y=%d) already used by seed[%d]", s.X, s.Y, prev)
		}
		taken[pos] = i
	}
	return nil
}
