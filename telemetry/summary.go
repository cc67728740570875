package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridsim/components"
)

// SpeciesSummary describes one species' population over a run.
type SpeciesSummary struct {
	Species     string  `csv:"species"`
	Generations int     `csv:"generations"`
	Mean        float64 `csv:"mean"`
	StdDev      float64 `csv:"std_dev"`
	CV          float64 `csv:"cv"` // coefficient of variation, 0 when the mean is 0
	Min         float64 `csv:"min"`
	Max         float64 `csv:"max"`
	Final       int     `csv:"final"`
	ExtinctAt   int     `csv:"extinct_at"` // first generation at zero after being present, -1 if never
}

// Summarize computes per-species statistics over the series.
func Summarize(s *PopulationSeries) []SpeciesSummary {
	var out []SpeciesSummary
	for _, k := range components.Species() {
		values := s.Values(k)
		sum := SpeciesSummary{
			Species:     k.String(),
			Generations: len(values),
			ExtinctAt:   -1,
		}
		if len(values) > 0 {
			sum.Mean, sum.StdDev = stat.MeanStdDev(values, nil)
			if len(values) < 2 {
				sum.StdDev = 0
			}
			if sum.Mean > 0 {
				sum.CV = sum.StdDev / sum.Mean
			}
			sum.Min = floats.Min(values)
			sum.Max = floats.Max(values)
			sum.Final = int(values[len(values)-1])
			sum.ExtinctAt = extinctAt(s.Generations(), values)
		}
		out = append(out, sum)
	}
	return out
}

func extinctAt(gens []int, values []float64) int {
	seen := false
	for i, v := range values {
		if v > 0 {
			seen = true
		} else if seen {
			return gens[i]
		}
	}
	return -1
}

// LogSummary logs one record per species.
func LogSummary(summaries []SpeciesSummary) {
	for _, s := range summaries {
		slog.Info("summary",
			"species", s.Species,
			"generations", s.Generations,
			"mean", s.Mean,
			"std_dev", s.StdDev,
			"cv", s.CV,
			"min", s.Min,
			"max", s.Max,
			"final", s.Final,
			"extinct_at", s.ExtinctAt,
		)
	}
}
