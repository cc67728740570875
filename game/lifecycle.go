package game

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/patterns"
	"github.com/pthm-cable/gridsim/systems"
	"github.com/pthm-cable/gridsim/telemetry"
)

// initEcosystem builds both grids and places the configured seed list.
func (g *Game) initEcosystem() error {
	rows, cols := g.cfg.Derived.Rows, g.cfg.Derived.Columns
	g.live = systems.NewGrid(rows, cols)
	g.work = systems.NewGrid(rows, cols)
	g.log = &tickLog{}
	g.mover = &systems.Mover{
		Grid: g.work,
		RNG:  g.rng,
		Newborn: func(kind components.Kind) *components.Organism {
			return g.newOrganism(kind, g.generation+1)
		},
		Recorder: g.log,
	}

	for _, s := range g.cfg.Seed {
		kind, _ := components.ParseKind(s.Species) // validated
		org := g.newOrganism(kind, 0)
		if err := g.live.Set(s.Y, s.X, components.Occupy(org)); err != nil {
			return err
		}
		g.bus.Publish(telemetry.EventOrganismBorn, 0, telemetry.NewBornEvent(org, 0, telemetry.CauseSeed))
	}

	g.lastCounts = g.live.Counts()
	g.bus.Publish(telemetry.EventPopulation, 0, telemetry.NewPopulationEvent(g.lastCounts, rows*cols))
	return nil
}

// newOrganism creates an organism of kind with the configured parameters
// and a fresh ID. The cooldown starts at zero.
func (g *Game) newOrganism(kind components.Kind, born int) *components.Organism {
	p := g.cfg.Params(kind)
	g.nextID++
	return &components.Organism{
		ID:                   g.nextID,
		Kind:                 kind,
		Born:                 born,
		Lifespan:             p.Lifespan,
		CurrentLifespan:      p.Lifespan,
		SightRadius:          p.SightRadius,
		ReproductionCooldown: p.ReproductionCooldown,
	}
}

// initLife builds the Life board from the configured pattern or a random fill.
// A pattern that fails to load leaves the board empty.
func (g *Game) initLife(pattern string) {
	g.board = systems.NewLifeBoard(g.cfg.Derived.Rows, g.cfg.Derived.Columns)
	g.nextBoard = systems.NewLifeBoard(g.cfg.Derived.Rows, g.cfg.Derived.Columns)

	if dir := g.cfg.Life.PatternDir; dir != "" {
		paths, err := patterns.List(dir)
		if err != nil {
			slog.Warn("pattern directory unavailable", "dir", dir, "error", err)
		}
		g.patterns = paths
	}

	if pattern == "" {
		pattern = g.cfg.Life.Pattern
	}
	if pattern == "" {
		systems.RandomFill(&g.board, g.rng, g.cfg.Life.RandomFillPercent)
	} else if err := g.loadPattern(g.resolvePattern(pattern)); err != nil {
		slog.Error("failed to load pattern, starting empty", "pattern", pattern, "error", err)
	}

	g.publishLifePopulation()
}

// resolvePattern turns a bare pattern name into a path in the pattern
// directory. Paths with a directory component are used as given.
func (g *Game) resolvePattern(name string) string {
	if filepath.Ext(name) == "" {
		name += patterns.Ext
	}
	if filepath.Base(name) == name && g.cfg.Life.PatternDir != "" {
		return filepath.Join(g.cfg.Life.PatternDir, name)
	}
	return name
}

// loadPattern parses path and centers it on the board. On error the board
// is left unchanged.
func (g *Game) loadPattern(path string) error {
	p, err := patterns.Load(path)
	if err != nil {
		return err
	}
	g.board = patterns.Place(g.board, p)
	g.pattern = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	slog.Info("pattern loaded", "name", p.Name, "rows", p.Rows, "cols", p.Cols, "live", p.LiveCount())
	return nil
}

// PatternName returns the name of the last loaded pattern, if any.
func (g *Game) PatternName() string { return g.pattern }

// Patterns returns the pattern files found in the pattern directory.
func (g *Game) Patterns() []string { return g.patterns }

// tickLog implements systems.Recorder. It buffers behavior outcomes as
// events so they are published after the tick, in the order they happened.
type tickLog struct {
	generation int
	events     []telemetry.Event
}

func (l *tickLog) reset(generation int) {
	l.generation = generation
	l.events = l.events[:0]
}

func (l *tickLog) add(e telemetry.Event) {
	l.events = append(l.events, e)
}

func (l *tickLog) died(org *components.Organism, cause string) {
	l.add(telemetry.NewDiedEvent(org, org.Row, org.Col, org.AgeAt(l.generation), cause))
}

func (l *tickLog) Ate(eater, food *components.Organism) {
	l.add(telemetry.NewAteEvent(eater, food))
	l.died(food, telemetry.CauseEaten)
}

func (l *tickLog) Trampled(_, plant *components.Organism) {
	l.died(plant, telemetry.CauseTrampled)
}

func (l *tickLog) Reproduced(parent, child *components.Organism) {
	l.add(telemetry.NewReproducedEvent(parent, child))
	l.add(telemetry.NewBornEvent(child, parent.ID, telemetry.CauseBirth))
}
