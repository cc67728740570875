package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/gridsim/config"
)

// formatDuration formats a duration as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// options are the command line settings.
type options struct {
	configPath string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

// search tracks progress across objective evaluations. The optimizer
// calls the objective sequentially, so no locking is needed.
type search struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	log       *csv.Writer
	out       io.Writer
	maxEvals  int

	evals       int
	bestFitness float64
	best        []float64
	start       time.Time
}

func newSearch(params *ParamVector, evaluator *FitnessEvaluator, log io.Writer, out io.Writer, maxEvals int) *search {
	s := &search{
		params:      params,
		evaluator:   evaluator,
		log:         csv.NewWriter(log),
		out:         out,
		maxEvals:    maxEvals,
		bestFitness: math.Inf(1),
		start:       time.Now(),
	}
	header := []string{"eval", "fitness", "quality", "coexisted"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	s.log.Write(header)
	return s
}

// objective is the function CMA-ES minimizes; x is in normalized space.
func (s *search) objective(x []float64) float64 {
	raw := s.params.Denormalize(x)
	fitness := s.evaluator.Evaluate(raw)
	quality := s.evaluator.LastQuality()
	survival := -fitness / (1.0 + 0.2*quality)
	s.evals++

	if fitness < s.bestFitness {
		s.bestFitness = fitness
		s.best = s.params.Clamp(raw)
	}

	row := []string{
		strconv.Itoa(s.evals),
		strconv.FormatFloat(fitness, 'f', 3, 64),
		strconv.FormatFloat(quality, 'f', 4, 64),
		strconv.FormatFloat(survival, 'f', 1, 64),
	}
	for _, v := range s.params.Round(raw) {
		row = append(row, strconv.Itoa(v))
	}
	s.log.Write(row)
	s.log.Flush()

	elapsed := time.Since(s.start)
	remaining := time.Duration(max(s.maxEvals-s.evals, 0)) * (elapsed / time.Duration(s.evals))
	fmt.Fprintf(s.out, "Eval %d/%d: coexisted=%.0f gens quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
		s.evals, s.maxEvals, survival, quality, -s.bestFitness,
		formatDuration(elapsed), formatDuration(remaining))

	return fitness
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 5000, "Maximum generations per run (cap)")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	// Simulation alerts are noise here; keep errors only
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	if err := run(opts); err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			slog.Error("invalid configuration", "key", cfgErr.Key, "reason", cfgErr.Reason)
		} else {
			slog.Error("optimize failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.outputDir == "" {
		return errors.New("--output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	baseCfg.Mode = config.ModeEcosystem

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.maxTicks, seeds, baseCfg)

	logFile, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	s := newSearch(params, evaluator, logFile, os.Stdout, opts.maxEvals)

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	// Start from the base config's values
	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	fmt.Printf("Starting CMA-ES with %d parameters, population=%d, max_evals=%d\n", params.Dim(), popSize, opts.maxEvals)
	fmt.Printf("Seeds per evaluation: %d, generations per run: %d\n", opts.seeds, opts.maxTicks)

	result, err := optimize.Minimize(optimize.Problem{Func: s.objective}, initX, settings, method)
	if err != nil {
		slog.Error("optimization ended", "error", err)
	}

	best := s.best
	if best == nil && result != nil && len(result.X) == params.Dim() {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return errors.New("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", s.evals, formatDuration(time.Since(s.start)))
	fmt.Printf("Best fitness: %.0f\n\nBest parameters:\n", s.bestFitness)
	for i, v := range params.Round(best) {
		fmt.Printf("  %s (%s): %d\n", params.Specs[i].Name, params.Specs[i].Path, v)
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, best)
	if err := bestCfg.Refresh(); err != nil {
		return fmt.Errorf("best parameters failed validation: %w", err)
	}

	out := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", out)
	return nil
}
