// Package main provides CMA-ES optimization for grid ecosystem parameters.
package main

import (
	"math"

	"github.com/pthm-cable/gridsim/config"
)

// ParamSpec defines a single optimizable parameter. All parameters are
// integers in the config; the optimizer searches a continuous space and
// values are rounded when applied.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(cfg *config.Config) int
	set func(cfg *config.Config, v int)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// speciesField selects one integer field of a species entry.
type speciesField int

const (
	fieldLifespan speciesField = iota
	fieldSight
	fieldCooldown
)

func (f speciesField) key() string {
	switch f {
	case fieldSight:
		return "sight_radius"
	case fieldCooldown:
		return "reproduction_cooldown"
	}
	return "lifespan_steps"
}

func speciesParam(name, species string, field speciesField, lo, hi, def float64) ParamSpec {
	return ParamSpec{
		Name:    name,
		Path:    "species." + species + "." + field.key(),
		Min:     lo,
		Max:     hi,
		Default: def,
		get: func(cfg *config.Config) int {
			sc := cfg.Species[species]
			var p *int
			switch field {
			case fieldLifespan:
				p = sc.LifespanSteps
			case fieldSight:
				p = sc.SightRadius
			case fieldCooldown:
				p = sc.ReproductionCooldown
			}
			if p == nil {
				return int(def)
			}
			return *p
		},
		set: func(cfg *config.Config, v int) {
			sc := cfg.Species[species]
			switch field {
			case fieldLifespan:
				sc.LifespanSteps = config.IntPtr(v)
			case fieldSight:
				sc.SightRadius = config.IntPtr(v)
			case fieldCooldown:
				sc.ReproductionCooldown = config.IntPtr(v)
			}
			cfg.Species[species] = sc
		},
	}
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Plants
			speciesParam("plant_lifespan", "Plant", fieldLifespan, 10, 150, 60),
			{
				Name: "plants_per_tick", Path: "simulation.plants_per_tick", Min: 0, Max: 10, Default: 1,
				get: func(cfg *config.Config) int { return cfg.Simulation.PlantsPerTick },
				set: func(cfg *config.Config, v int) { cfg.Simulation.PlantsPerTick = v },
			},
			// Herbivores
			speciesParam("herbivore_lifespan", "Herbivore", fieldLifespan, 5, 100, 30),
			speciesParam("herbivore_sight", "Herbivore", fieldSight, 1, 15, 5),
			speciesParam("herbivore_cooldown", "Herbivore", fieldCooldown, 1, 25, 5),
			// Predators
			speciesParam("predator_lifespan", "Predator", fieldLifespan, 5, 120, 40),
			speciesParam("predator_sight", "Predator", fieldSight, 1, 15, 6),
			speciesParam("fast_predator_lifespan", "FastPredator", fieldLifespan, 5, 120, 30),
			speciesParam("fast_predator_sight", "FastPredator", fieldSight, 1, 15, 8),
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Round clamps values and rounds them to the integers the config holds.
func (pv *ParamVector) Round(v []float64) []int {
	clamped := pv.Clamp(v)
	out := make([]int, len(clamped))
	for i, val := range clamped {
		out[i] = int(math.Round(val))
	}
	return out
}

// ApplyToConfig applies parameter values to a Config. The config must own
// its species table (see config.Clone).
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Round(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig extracts current parameter values from a Config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = float64(spec.get(cfg))
	}
	return out
}
