package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/game"
	"github.com/pthm-cable/gridsim/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalGens int                     // generations with herbivores and predators alive
	windowStats  []telemetry.WindowStats // collected via StatsCallback each window
	err          error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative coexistence length scaled by up to 20% for quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	type seedResult struct {
		fitness float64
		quality float64
	}
	results := make([]seedResult, len(fe.seeds))

	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			if r.err != nil {
				slog.Error("evaluation run failed", "seed", s, "error", r.err)
			}
			q := computeQuality(r.windowStats)
			results[idx] = seedResult{fitness: computeFitness(r.survivalGens, q), quality: q}
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	quality := make([]float64, len(results))
	for i, r := range results {
		fitness[i] = r.fitness
		quality[i] = r.quality
	}

	fe.mu.Lock()
	fe.lastQuality = stat.Mean(quality, nil)
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// runSimulation executes a single headless run until herbivores or
// predators die out, or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	g, err := game.NewGame(game.Options{
		Config:    cfg,
		Mode:      config.ModeEcosystem,
		Seed:      seed,
		Headless:  true,
		Autostart: true,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer g.Close()

	for g.Generation() < fe.maxTicks {
		if !coexisting(g) {
			break
		}
		if err := g.Step(); err != nil {
			result.err = err
			break
		}
	}
	result.survivalGens = g.Generation()
	return result
}

// coexisting reports whether both herbivores and predators are alive.
func coexisting(g *game.Game) bool {
	p := g.Population()
	return p.Of(components.KindHerbivore) > 0 && p.Predators() > 0
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survival × (1.0 + 0.2 × quality))
func computeFitness(survivalGens int, quality float64) float64 {
	return -(float64(survivalGens) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.30

	qualityWarmupWindows = 2 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows where either side is below this
	targetPreyPerPred    = 4.0
)

// computeQuality computes ecosystem quality in [0, 1] from window stats:
// prey/predator ratio near the target, stable counts and steady hunting.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratios, hunts, prey, pred []float64
	for _, w := range windows[qualityWarmupWindows:] {
		predators := w.Predators + w.FastPredators
		if w.Herbivores < qualityMinPop || predators < qualityMinPop {
			continue
		}
		prey = append(prey, float64(w.Herbivores))
		pred = append(pred, float64(predators))

		logErr := math.Log(float64(w.Herbivores) / float64(predators) / targetPreyPerPred)
		ratios = append(ratios, math.Exp(-logErr*logErr))

		// Predations per predator per window, saturating
		perPred := float64(w.Predations) / float64(predators)
		hunts = append(hunts, 1-math.Exp(-perPred))
	}
	if len(ratios) == 0 {
		return 0
	}

	stability := 0.0
	if len(prey) >= 2 {
		cvPrey, cvPred := cv(prey), cv(pred)
		stability = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	quality := qualityWeightRatio*stat.Mean(ratios, nil) +
		qualityWeightStability*stability +
		qualityWeightHunting*stat.Mean(hunts, nil)

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 || floats.Sum(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
