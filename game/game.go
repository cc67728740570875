// Package game runs the simulation: it owns the grid, drives the tick
// scheduler and publishes telemetry. It has no rendering dependencies;
// the graphical and terminal front ends drive a *Game from outside.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/systems"
	"github.com/pthm-cable/gridsim/telemetry"
)

// Sentinel errors returned by state transitions and editing operations.
var (
	ErrStopped   = errors.New("simulation stopped")
	ErrRunning   = errors.New("simulation running: pause before editing")
	ErrWrongMode = errors.New("operation not available in this mode")
	ErrOccupied  = errors.New("cell occupied")
)

// State is the scheduler state.
type State uint8

const (
	Paused State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Options configures a new game.
type Options struct {
	Config *config.Config // nil loads the embedded defaults

	Seed    int64  // RNG seed
	Mode    string // overrides Config.Mode when set
	Pattern string // overrides Config.Life.Pattern when set

	Headless       bool // no front end attached
	Autostart      bool // start Running instead of Paused
	LogStats       bool // log window stats and bookmarks
	OutputDir      string
	StepsPerUpdate int // ticks per Update; 0 uses the config value

	// StatsCallback is called with every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64
	mode string

	state          State
	generation     int
	stepsPerUpdate int

	// Ecosystem mode: live grid and working buffer
	live  *systems.Grid
	work  *systems.Grid
	mover *systems.Mover
	log   *tickLog
	// nextID is the last organism ID handed out
	nextID uint32

	// Life mode: current board and its double buffer
	board     systems.LifeBoard
	nextBoard systems.LifeBoard
	patterns  []string
	patternIx int
	pattern   string

	// Alert state
	lastCounts      components.Population
	extinctionFired bool
	overgrown       bool

	// Telemetry
	bus              *telemetry.Bus
	collector        *telemetry.Collector
	series           *telemetry.PopulationSeries
	alerts           *telemetry.AlertLogger
	lifetimes        *telemetry.LifetimeTracker
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	registry         *systems.SystemRegistry
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
}

// NewGame creates a game from opts. A configuration that fails validation
// returns a *config.ConfigurationError and no game.
func NewGame(opts Options) (*Game, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	steps := opts.StepsPerUpdate
	if steps <= 0 {
		steps = cfg.Simulation.StepsPerUpdate
	}
	if steps <= 0 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		seed:           opts.Seed,
		mode:           cfg.Mode,
		stepsPerUpdate: min(steps, MaxStepsPerUpdate),
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		registry:       systems.NewSystemRegistry(),
	}

	if err := g.initTelemetry(opts.OutputDir); err != nil {
		return nil, err
	}

	switch g.mode {
	case config.ModeLife:
		g.initLife(opts.Pattern)
	default:
		if err := g.initEcosystem(); err != nil {
			g.Close()
			return nil, err
		}
	}

	if opts.Autostart {
		g.state = Running
	}

	slog.Info("simulation created",
		"mode", g.mode,
		"rows", cfg.Derived.Rows,
		"columns", cfg.Derived.Columns,
		"seed", opts.Seed,
		"headless", opts.Headless,
	)
	return g, nil
}

// resolveConfig applies option overrides to a copy of the config and
// validates the result.
func resolveConfig(opts Options) (*config.Config, error) {
	if opts.Config == nil {
		cfg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		opts.Config = cfg
	}

	cfg := opts.Config.Clone()
	if opts.Mode != "" {
		cfg.Mode = opts.Mode
	}
	if opts.Pattern != "" {
		cfg.Life.Pattern = opts.Pattern
	}
	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initTelemetry creates the bus and subscribes every observer.
func (g *Game) initTelemetry(outputDir string) error {
	tc := g.cfg.Telemetry

	g.bus = telemetry.NewBus()
	g.collector = telemetry.NewCollector(tc.StatsWindow)
	g.series = telemetry.NewPopulationSeries()
	g.lifetimes = telemetry.NewLifetimeTracker()
	g.perfCollector = telemetry.NewPerfCollector(tc.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(tc.BookmarkHistorySize, g.cfg.Bookmarks)

	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.alerts, err = telemetry.NewAlertLogger(nil, om.Path(telemetry.AlertLogFile), g.cfg.Simulation.OvergrowthThreshold)
	if err != nil {
		om.Close()
		return err
	}

	g.bus.SubscribeAll(g.collector, g.collector.Events()...)
	g.bus.Subscribe(telemetry.EventPopulation, g.series)
	g.bus.SubscribeAll(g.alerts, g.alerts.Events()...)
	g.bus.SubscribeAll(g.lifetimes, g.lifetimes.Events()...)
	return nil
}

// Update advances the simulation by StepsPerUpdate ticks while Running.
func (g *Game) Update() {
	if g.state != Running {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.tick()
	}
}

// Step runs exactly one tick in any state except Stopped.
func (g *Game) Step() error {
	if g.state == Stopped {
		return ErrStopped
	}
	g.tick()
	return nil
}

// Start moves to Running.
func (g *Game) Start() error {
	if g.state == Stopped {
		return ErrStopped
	}
	g.state = Running
	return nil
}

// Pause moves to Paused.
func (g *Game) Pause() error {
	if g.state == Stopped {
		return ErrStopped
	}
	g.state = Paused
	return nil
}

// Toggle switches between Running and Paused.
func (g *Game) Toggle() error {
	if g.state == Running {
		return g.Pause()
	}
	return g.Start()
}

// Stop ends the run. Further transitions return ErrStopped.
func (g *Game) Stop() {
	g.state = Stopped
}

// Close stops the run, writes the remaining output and the run summary,
// and closes all files. It is safe to call more than once.
func (g *Game) Close() error {
	if g.outputManager == nil && g.alerts == nil {
		g.state = Stopped
		return nil
	}
	g.state = Stopped
	g.writePending()

	if g.mode == config.ModeEcosystem && g.series.Len() > 0 {
		summaries := telemetry.Summarize(g.series)
		if g.logStats {
			telemetry.LogSummary(summaries)
		}
		if err := g.outputManager.WriteSummary(summaries); err != nil {
			slog.Error("failed to write summary", "error", err)
		}
	}

	var firstErr error
	if err := g.alerts.Close(); err != nil {
		firstErr = err
	}
	if err := g.outputManager.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	g.alerts = nil
	g.outputManager = nil
	return firstErr
}

// Generation returns the number of completed ticks.
func (g *Game) Generation() int { return g.generation }

// State returns the scheduler state.
func (g *Game) State() State { return g.state }

// Mode returns config.ModeEcosystem or config.ModeLife.
func (g *Game) Mode() string { return g.mode }

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 { return g.seed }

// Config returns the validated configuration in use.
func (g *Game) Config() *config.Config { return g.cfg }

// Rows returns the current grid height.
func (g *Game) Rows() int {
	if g.mode == config.ModeLife {
		return g.board.Rows
	}
	return g.live.Rows()
}

// Cols returns the current grid width.
func (g *Game) Cols() int {
	if g.mode == config.ModeLife {
		return g.board.Cols
	}
	return g.live.Cols()
}

// Population returns the current count per kind. It is all zero in life mode.
func (g *Game) Population() components.Population {
	if g.mode == config.ModeLife {
		return components.Population{}
	}
	return g.live.Counts()
}

// LiveCells returns the number of live cells on the Life board.
func (g *Game) LiveCells() int {
	return g.board.LiveCount()
}

// Snapshot returns a read-only copy of the ecosystem grid.
func (g *Game) Snapshot() systems.Snapshot {
	if g.live == nil {
		return systems.Snapshot{}
	}
	return g.live.Snapshot()
}

// LifeSnapshot returns a copy of the Life board.
func (g *Game) LifeSnapshot() systems.LifeBoard {
	return g.board.Clone()
}

// Cell returns the occupant at (r, c) in the ecosystem grid.
func (g *Game) Cell(r, c int) (components.Occupant, error) {
	if g.live == nil {
		return components.Empty, ErrWrongMode
	}
	return g.live.Get(r, c)
}

// StepsPerUpdate returns the ticks run per Update.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// MaxStepsPerUpdate caps the ticks run per Update.
const MaxStepsPerUpdate = 10

// SetStepsPerUpdate sets the ticks per Update, clamped to [1,MaxStepsPerUpdate].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = min(max(n, 1), MaxStepsPerUpdate)
}

// Bus returns the event bus so callers can attach their own observers.
func (g *Game) Bus() *telemetry.Bus { return g.bus }

// Collector returns the window stats collector.
func (g *Game) Collector() *telemetry.Collector { return g.collector }

// Series returns the per-generation population series.
func (g *Game) Series() *telemetry.PopulationSeries { return g.series }

// Lifetimes returns the organism lifetime tracker.
func (g *Game) Lifetimes() *telemetry.LifetimeTracker { return g.lifetimes }

// PerfStats returns tick timing over the perf window.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perfCollector.Stats() }

// RecordFrame records a rendered frame for FPS tracking.
func (g *Game) RecordFrame() { g.perfCollector.RecordFrame() }

// Registry returns the tick phase registry.
func (g *Game) Registry() *systems.SystemRegistry { return g.registry }

// AlertCount returns the number of alerts raised so far.
func (g *Game) AlertCount() int {
	if g.alerts == nil {
		return 0
	}
	return g.alerts.Count()
}
