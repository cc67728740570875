package game

import (
	"github.com/pthm-cable/gridsim/components"
	"github.com/pthm-cable/gridsim/config"
	"github.com/pthm-cable/gridsim/systems"
	"github.com/pthm-cable/gridsim/telemetry"
)

// tick runs one generation of the active mode and flushes telemetry.
func (g *Game) tick() {
	g.perfCollector.StartTick(g.Rows() * g.Cols())
	if g.mode == config.ModeLife {
		g.lifeTick()
	} else {
		g.ecosystemTick()
	}
	g.perfCollector.EndTick()

	g.flushTelemetry()
}

// ecosystemTick advances the ecosystem one generation.
//
// The scan reads occupants from the live grid in row-major order and
// applies every change to the working buffer, so an organism is processed
// at most once per tick and a child born this tick does not act until the
// next one.
func (g *Game) ecosystemTick() {
	g.log.reset(g.generation + 1)

	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.work.CopyFrom(g.live)

	g.perfCollector.StartPhase(telemetry.PhaseScan)
	g.live.Each(func(_ systems.Cell, occ components.Occupant) {
		org := occ.Org
		if org == nil || !org.Alive() {
			return
		}
		org.CurrentLifespan--
		if org.CurrentLifespan <= 0 {
			org.CurrentLifespan = 0
			g.work.Clear(org.Row, org.Col)
			g.log.died(org, telemetry.CauseAge)
			return
		}
		g.mover.Act(org)
	})

	g.perfCollector.StartPhase(telemetry.PhasePlants)
	g.injectPlants()

	g.perfCollector.StartPhase(telemetry.PhaseSwap)
	g.live, g.work = g.work, g.live
	g.mover.Grid = g.work

	g.perfCollector.StartPhase(telemetry.PhasePublish)
	g.generation++
	g.publishEcosystem()
}

// injectPlants sprouts up to plants_per_tick plants in random empty cells.
func (g *Game) injectPlants() {
	for i := 0; i < g.cfg.Simulation.PlantsPerTick; i++ {
		cell, ok := g.work.RandomEmptyCell(g.rng)
		if !ok {
			return
		}
		plant := g.newOrganism(components.KindPlant, g.generation+1)
		g.work.Set(cell.Row, cell.Col, components.Occupy(plant))
		g.log.add(telemetry.NewBornEvent(plant, 0, telemetry.CauseSprout))
	}
}

// publishEcosystem publishes the tick's behavior events, the population
// snapshot and any extinction or overgrowth alert.
func (g *Game) publishEcosystem() {
	for _, e := range g.log.events {
		g.bus.Publish(e.Type, g.generation, e)
	}

	counts := g.live.Counts()
	cells := g.live.Rows() * g.live.Cols()
	pop := telemetry.NewPopulationEvent(counts, cells)
	g.bus.Publish(telemetry.EventPopulation, g.generation, pop)

	prev := g.lastCounts.Of(components.KindHerbivore)
	if !g.extinctionFired && prev > 0 && counts.Of(components.KindHerbivore) == 0 {
		g.extinctionFired = true
		g.bus.Publish(telemetry.EventHerbivoreExtinction, g.generation, telemetry.NewExtinctionEvent(counts))
	}

	if pop.Fraction > g.cfg.Simulation.OvergrowthThreshold {
		if !g.overgrown {
			g.overgrown = true
			g.bus.Publish(telemetry.EventPlantOvergrowth, g.generation, telemetry.NewOvergrowthEvent(counts, pop.Fraction))
		}
	} else {
		g.overgrown = false
	}

	g.lastCounts = counts
}

// lifeTick applies the Life rule through the double buffer.
func (g *Game) lifeTick() {
	g.perfCollector.StartPhase(telemetry.PhaseLife)
	systems.StepInto(&g.nextBoard, g.board)

	g.perfCollector.StartPhase(telemetry.PhaseSwap)
	g.board, g.nextBoard = g.nextBoard, g.board

	g.perfCollector.StartPhase(telemetry.PhasePublish)
	g.generation++
	g.publishLifePopulation()
}

func (g *Game) publishLifePopulation() {
	cells := g.board.Rows * g.board.Cols
	g.bus.Publish(telemetry.EventPopulation, g.generation, telemetry.NewLifePopulationEvent(g.board.LiveCount(), cells))
}
