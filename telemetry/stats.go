package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridsim/components"
)

// WindowStats holds aggregated statistics for a window of generations.
type WindowStats struct {
	WindowStartGen int `csv:"-"`
	WindowEndGen   int `csv:"window_end"`

	// Population counts at window end
	Plants        int `csv:"plants"`
	Herbivores    int `csv:"herbivores"`
	Predators     int `csv:"predators"`
	FastPredators int `csv:"fast_predators"`
	LiveCells     int `csv:"live_cells"` // life mode only

	// Events during window
	HerbivoreBirths int `csv:"herbivore_births"`
	PlantsSprouted  int `csv:"plants_sprouted"`
	Grazes          int `csv:"grazes"`
	Predations      int `csv:"predations"`
	Trampled        int `csv:"trampled"`
	DeathsByAge     int `csv:"deaths_age"`
	DeathsEaten     int `csv:"deaths_eaten"`

	// Age at death distribution over the window
	AgeAtDeathMean float64 `csv:"age_at_death_mean"`
	AgeAtDeathP10  float64 `csv:"age_at_death_p10"`
	AgeAtDeathP50  float64 `csv:"age_at_death_p50"`
	AgeAtDeathP90  float64 `csv:"age_at_death_p90"`

	// Living animals at window end
	HerbivoreMeanAge      float64 `csv:"herbivore_mean_age"`
	HerbivoreMeanMeals    float64 `csv:"herbivore_mean_meals"`
	PredatorMeanMeals     float64 `csv:"predator_mean_meals"`
	FastPredatorMeanMeals float64 `csv:"fast_predator_mean_meals"`

	// Running totals since the start of the run
	TotalReproductions int `csv:"total_reproductions"`
	TotalConsumption   int `csv:"total_consumption"`
}

// AddLifetimes copies the per-kind means of the living organisms into s.
func (s *WindowStats) AddLifetimes(agg [components.NumKinds]KindLifetimes) {
	s.HerbivoreMeanAge = agg[components.KindHerbivore].MeanAge
	s.HerbivoreMeanMeals = agg[components.KindHerbivore].MeanMeals
	s.PredatorMeanMeals = agg[components.KindPredator].MeanMeals
	s.FastPredatorMeanMeals = agg[components.KindFastPredator].MeanMeals
}

// Total returns the living organisms at window end.
func (s WindowStats) Total() int {
	return s.Plants + s.Herbivores + s.Predators + s.FastPredators
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeAgeStats calculates mean and percentiles from ages at death.
func ComputeAgeStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartGen),
		slog.Int("window_end", s.WindowEndGen),
		slog.Int("plants", s.Plants),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("predators", s.Predators),
		slog.Int("fast_predators", s.FastPredators),
		slog.Int("live_cells", s.LiveCells),
		slog.Int("herbivore_births", s.HerbivoreBirths),
		slog.Int("plants_sprouted", s.PlantsSprouted),
		slog.Int("grazes", s.Grazes),
		slog.Int("predations", s.Predations),
		slog.Int("trampled", s.Trampled),
		slog.Int("deaths_age", s.DeathsByAge),
		slog.Int("deaths_eaten", s.DeathsEaten),
		slog.Float64("age_at_death_mean", s.AgeAtDeathMean),
		slog.Float64("age_at_death_p50", s.AgeAtDeathP50),
		slog.Float64("herbivore_mean_age", s.HerbivoreMeanAge),
		slog.Float64("herbivore_mean_meals", s.HerbivoreMeanMeals),
		slog.Float64("predator_mean_meals", s.PredatorMeanMeals),
		slog.Float64("fast_predator_mean_meals", s.FastPredatorMeanMeals),
		slog.Int("total_reproductions", s.TotalReproductions),
		slog.Int("total_consumption", s.TotalConsumption),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndGen,
		"plants", s.Plants,
		"herbivores", s.Herbivores,
		"predators", s.Predators,
		"fast_predators", s.FastPredators,
		"live_cells", s.LiveCells,
		"herbivore_births", s.HerbivoreBirths,
		"plants_sprouted", s.PlantsSprouted,
		"grazes", s.Grazes,
		"predations", s.Predations,
		"trampled", s.Trampled,
		"deaths_age", s.DeathsByAge,
		"deaths_eaten", s.DeathsEaten,
		"age_at_death_mean", s.AgeAtDeathMean,
		"age_at_death_p10", s.AgeAtDeathP10,
		"age_at_death_p50", s.AgeAtDeathP50,
		"age_at_death_p90", s.AgeAtDeathP90,
		"herbivore_mean_age", s.HerbivoreMeanAge,
		"herbivore_mean_meals", s.HerbivoreMeanMeals,
		"predator_mean_meals", s.PredatorMeanMeals,
		"fast_predator_mean_meals", s.FastPredatorMeanMeals,
		"total_reproductions", s.TotalReproductions,
		"total_consumption", s.TotalConsumption,
	)
}
