package telemetry

import "github.com/pthm-cable/gridsim/components"

// Collector accumulates events within generation windows and produces
// WindowStats. It is subscribed to the bus as an observer.
type Collector struct {
	windowGens int

	// Current window tracking
	windowStart int
	lastCounts  components.Population
	lastLive    int

	// Event counters for current window
	herbivoreBirths int
	plantsSprouted  int
	grazes          int
	predations      int
	trampled        int
	deathsByAge     int
	deathsEaten     int
	agesAtDeath     []float64

	// Running counters, never reset
	reproductions int
	consumption   int
}

// NewCollector creates a collector flushing every windowGens generations.
func NewCollector(windowGens int) *Collector {
	if windowGens < 1 {
		windowGens = 1
	}
	return &Collector{windowGens: windowGens}
}

// Events returns the kinds the collector should be subscribed to.
func (c *Collector) Events() []EventType {
	return []EventType{
		EventPopulation,
		EventHerbivoreReproduced,
		EventPredatorAteHerbivore,
		EventHerbivoreGrazed,
		EventOrganismBorn,
		EventOrganismDied,
	}
}

// Update implements Observer.
func (c *Collector) Update(_ int, e Event) {
	switch e.Type {
	case EventPopulation:
		c.lastCounts = e.Counts
		c.lastLive = e.Live
	case EventHerbivoreReproduced:
		c.herbivoreBirths++
		c.reproductions++
	case EventPredatorAteHerbivore:
		c.predations++
		c.consumption++
	case EventHerbivoreGrazed:
		c.grazes++
	case EventOrganismBorn:
		if e.Cause == CauseSprout {
			c.plantsSprouted++
		}
	case EventOrganismDied:
		c.recordDeath(e)
	}
}

func (c *Collector) recordDeath(e Event) {
	switch e.Cause {
	case CauseAge:
		c.deathsByAge++
	case CauseEaten:
		c.deathsEaten++
	case CauseTrampled:
		c.trampled++
	case CauseRemoved:
		// Edits are not deaths.
		return
	}
	c.agesAtDeath = append(c.agesAtDeath, float64(e.Age))
}

// Reproductions returns the herbivore reproductions since the run began.
func (c *Collector) Reproductions() int {
	return c.reproductions
}

// Consumption returns the herbivores eaten by predators since the run began.
func (c *Collector) Consumption() int {
	return c.consumption
}

// ShouldFlush returns true if enough generations have passed to flush the window.
func (c *Collector) ShouldFlush(generation int) bool {
	return generation-c.windowStart >= c.windowGens
}

// Flush produces a WindowStats and resets counters for the next window.
// Population counts come from the last population event received.
func (c *Collector) Flush(generation int) WindowStats {
	mean, p10, p50, p90 := ComputeAgeStats(c.agesAtDeath)

	stats := WindowStats{
		WindowStartGen: c.windowStart,
		WindowEndGen:   generation,

		Plants:        c.lastCounts.Of(components.KindPlant),
		Herbivores:    c.lastCounts.Of(components.KindHerbivore),
		Predators:     c.lastCounts.Of(components.KindPredator),
		FastPredators: c.lastCounts.Of(components.KindFastPredator),
		LiveCells:     c.lastLive,

		HerbivoreBirths: c.herbivoreBirths,
		PlantsSprouted:  c.plantsSprouted,
		Grazes:          c.grazes,
		Predations:      c.predations,
		Trampled:        c.trampled,
		DeathsByAge:     c.deathsByAge,
		DeathsEaten:     c.deathsEaten,

		AgeAtDeathMean: mean,
		AgeAtDeathP10:  p10,
		AgeAtDeathP50:  p50,
		AgeAtDeathP90:  p90,

		TotalReproductions: c.reproductions,
		TotalConsumption:   c.consumption,
	}

	// Reset for next window
	c.windowStart = generation
	c.herbivoreBirths = 0
	c.plantsSprouted = 0
	c.grazes = 0
	c.predations = 0
	c.trampled = 0
	c.deathsByAge = 0
	c.deathsEaten = 0
	c.agesAtDeath = c.agesAtDeath[:0]

	return stats
}

// WindowGenerations returns the number of generations per window.
func (c *Collector) WindowGenerations() int {
	return c.windowGens
}
