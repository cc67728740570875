// Package telemetry provides the simulation event bus and the observers that
// turn events into population statistics, alerts, bookmarks and CSV output.
package telemetry

import "github.com/pthm-cable/gridsim/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventPopulation EventType = iota
	EventHerbivoreReproduced
	EventPredatorAteHerbivore
	EventHerbivoreExtinction
	EventPlantOvergrowth
	EventHerbivoreGrazed
	EventOrganismBorn
	EventOrganismDied

	numEventTypes
)

var eventNames = [numEventTypes]string{
	EventPopulation:           "population",
	EventHerbivoreReproduced:  "herbivore_reproduced",
	EventPredatorAteHerbivore: "predator_ate_herbivore",
	EventHerbivoreExtinction:  "herbivore_extinction",
	EventPlantOvergrowth:      "plant_overgrowth",
	EventHerbivoreGrazed:      "herbivore_grazed",
	EventOrganismBorn:         "organism_born",
	EventOrganismDied:         "organism_died",
}

func (t EventType) String() string {
	if t >= numEventTypes {
		return "unknown"
	}
	return eventNames[t]
}

// Death and birth causes carried in Event.Cause.
const (
	CauseSeed     = "seed"
	CauseBirth    = "birth"
	CauseSprout   = "sprout"
	CausePlaced   = "placed"
	CauseAge      = "age"
	CauseEaten    = "eaten"
	CauseTrampled = "trampled"
	CauseRemoved  = "removed"
)

// Event represents a single telemetry event.
type Event struct {
	Type       EventType
	OrganismID uint32
	Kind       components.Kind

	// Optional fields depending on event type
	TargetID   uint32                // eaten organism, or the child for reproduction
	TargetKind components.Kind       // kind of TargetID
	Row, Col   int                   // where it happened
	Counts     components.Population // population snapshot
	Fraction   float64               // plant share of the grid, or live share in life mode
	Live       int                   // live cells in life mode
	Age        int                   // generations lived, for deaths
	Cause      string                // birth or death cause
}

// NewPopulationEvent creates a population snapshot event.
func NewPopulationEvent(counts components.Population, cells int) Event {
	e := Event{Type: EventPopulation, Counts: counts}
	if cells > 0 {
		e.Fraction = float64(counts.Of(components.KindPlant)) / float64(cells)
	}
	return e
}

// NewLifePopulationEvent creates a population snapshot of a Life board.
func NewLifePopulationEvent(live, cells int) Event {
	e := Event{Type: EventPopulation, Live: live}
	if cells > 0 {
		e.Fraction = float64(live) / float64(cells)
	}
	return e
}

// NewReproducedEvent creates a reproduction event located at the child.
func NewReproducedEvent(parent, child *components.Organism) Event {
	return Event{
		Type:       EventHerbivoreReproduced,
		OrganismID: parent.ID,
		Kind:       parent.Kind,
		TargetID:   child.ID,
		TargetKind: child.Kind,
		Row:        child.Row,
		Col:        child.Col,
	}
}

// NewAteEvent creates a predation or grazing event depending on the eater.
func NewAteEvent(eater, food *components.Organism) Event {
	t := EventHerbivoreGrazed
	if eater.Kind.IsPredator() {
		t = EventPredatorAteHerbivore
	}
	return Event{
		Type:       t,
		OrganismID: eater.ID,
		Kind:       eater.Kind,
		TargetID:   food.ID,
		TargetKind: food.Kind,
		Row:        eater.Row,
		Col:        eater.Col,
	}
}

// NewBornEvent creates a birth event. cause is one of the Cause constants.
func NewBornEvent(org *components.Organism, parentID uint32, cause string) Event {
	return Event{
		Type:       EventOrganismBorn,
		OrganismID: org.ID,
		Kind:       org.Kind,
		TargetID:   parentID, // parent ID stored in TargetID
		Row:        org.Row,
		Col:        org.Col,
		Cause:      cause,
	}
}

// NewDiedEvent creates a death event.
func NewDiedEvent(org *components.Organism, row, col, age int, cause string) Event {
	return Event{
		Type:       EventOrganismDied,
		OrganismID: org.ID,
		Kind:       org.Kind,
		Row:        row,
		Col:        col,
		Age:        age,
		Cause:      cause,
	}
}

// NewExtinctionEvent creates a herbivore extinction alert event.
func NewExtinctionEvent(counts components.Population) Event {
	return Event{Type: EventHerbivoreExtinction, Kind: components.KindHerbivore, Counts: counts}
}

// NewOvergrowthEvent creates a plant overgrowth alert event.
func NewOvergrowthEvent(counts components.Population, fraction float64) Event {
	return Event{Type: EventPlantOvergrowth, Kind: components.KindPlant, Counts: counts, Fraction: fraction}
}
