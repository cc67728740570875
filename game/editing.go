package game

import (
	"fmt"

	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/systems"
	"github.com/pthm-cable/gridsim/telemetry"
)

// editable returns nil when board edits are allowed, which is any time
// the simulation is not running.
func (g *Game) editable() error {
	switch g.state {
	case Running:
		return ErrRunning
	case Stopped:
		return ErrStopped
	}
	return nil
}

// ToggleCell flips a Life cell. In ecosystem mode it removes the occupant
// of (r, c), or plants a new Plant there when the cell is empty.
func (g *Game) ToggleCell(r, c int) error {
	if err := g.editable(); err != nil {
		return err
	}
	if g.mode == config.ModeLife {
		return g.board.Toggle(r, c)
	}

	occ, err := g.live.Get(r, c)
	if err != nil {
		return err
	}
	if occ.IsEmpty() {
		return g.PlaceOrganism(components.KindPlant, r, c)
	}
	g.remove(occ.Org)
	g.afterEdit()
	return nil
}

// ClearBoard empties the grid.
func (g *Game) ClearBoard() error {
	if err := g.editable(); err != nil {
		return err
	}
	if g.mode == config.ModeLife {
		g.board.Clear()
		return nil
	}

	var orgs []*components.Organism
	g.live.Each(func(_ systems.Cell, occ components.Occupant) {
		orgs = append(orgs, occ.Org)
	})
	for _, org := range orgs {
		g.remove(org)
	}
	g.afterEdit()
	return nil
}

// RandomizeBoard refills the Life board at random with the configured
// fill percentage.
func (g *Game) RandomizeBoard() error {
	if err := g.editable(); err != nil {
		return err
	}
	if g.mode != config.ModeLife {
		return ErrWrongMode
	}
	systems.RandomFill(&g.board, g.rng, g.cfg.Life.RandomFillPercent)
	return nil
}

// LoadPattern loads a pattern file and centers it on the Life board,
// growing the board when the pattern does not fit. A pattern that fails
// to load or parse leaves the board as it was.
func (g *Game) LoadPattern(path string) error {
	if err := g.editable(); err != nil {
		return err
	}
	if g.mode != config.ModeLife {
		return ErrWrongMode
	}
	return g.loadPattern(path)
}

// NextPattern loads the next pattern from the pattern directory and
// returns its path.
func (g *Game) NextPattern() (string, error) {
	if err := g.editable(); err != nil {
		return "", err
	}
	if g.mode != config.ModeLife {
		return "", ErrWrongMode
	}
	if len(g.patterns) == 0 {
		return "", fmt.Errorf("no patterns in %q", g.cfg.Life.PatternDir)
	}
	path := g.patterns[g.patternIx%len(g.patterns)]
	g.patternIx++
	return path, g.LoadPattern(path)
}

// PlaceOrganism puts a new organism of kind at (r, c) in the ecosystem grid.
func (g *Game) PlaceOrganism(kind components.Kind, r, c int) error {
	if err := g.editable(); err != nil {
		return err
	}
	if g.mode != config.ModeEcosystem {
		return ErrWrongMode
	}
	if kind == components.KindEmpty || int(kind) >= components.NumKinds {
		return fmt.Errorf("cannot place kind %d", kind)
	}
	occ, err := g.live.Get(r, c)
	if err != nil {
		return err
	}
	if !occ.IsEmpty() {
		return fmt.Errorf("placing %s at (%d,%d): %w", kind, r, c, ErrOccupied)
	}

	org := g.newOrganism(kind, g.generation)
	g.live.Set(r, c, components.Occupy(org))
	g.bus.Publish(telemetry.EventOrganismBorn, g.generation, telemetry.NewBornEvent(org, 0, telemetry.CausePlaced))
	g.afterEdit()
	return nil
}

// remove takes an organism off the live grid.
func (g *Game) remove(org *components.Organism) {
	g.live.Clear(org.Row, org.Col)
	org.Kill()
	g.bus.Publish(telemetry.EventOrganismDied, g.generation,
		telemetry.NewDiedEvent(org, org.Row, org.Col, org.AgeAt(g.generation), telemetry.CauseRemoved))
}

// afterEdit rebases the alert checks on the edited grid. Edits never raise
// alerts themselves.
func (g *Game) afterEdit() {
	g.lastCounts = g.live.Counts()
}
