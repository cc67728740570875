package telemetry

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridsim/components"
)

// LifetimeStats tracks per-organism statistics over its lifetime.
// It is stored as an ECS component, one entity per living organism.
type LifetimeStats struct {
	OrganismID uint32
	Kind       components.Kind
	Born       int
	Cause      string // how it appeared: seed, birth, sprout, placed

	Meals    int // plants grazed or herbivores eaten
	Children int
}

// LifetimeRecord is the CSV row written when an organism dies.
type LifetimeRecord struct {
	OrganismID uint32 `csv:"id"`
	Kind       string `csv:"kind"`
	Origin     string `csv:"origin"`
	Born       int    `csv:"born"`
	Died       int    `csv:"died"`
	Age        int    `csv:"age"`
	Meals      int    `csv:"meals"`
	Children   int    `csv:"children"`
	Cause      string `csv:"cause"`
}

// KindLifetimes aggregates living organisms of one kind.
type KindLifetimes struct {
	Living      int
	MeanAge     float64
	MeanMeals   float64
	MaxChildren int
}

// LifetimeTracker keeps per-organism lifetime statistics in an ECS world.
// It observes births, meals, reproduction and deaths from the bus.
type LifetimeTracker struct {
	world  *ecs.World
	mapper *ecs.Map1[LifetimeStats]
	filter *ecs.Filter1[LifetimeStats]
	byID   map[uint32]ecs.Entity

	finished []LifetimeRecord
}

// NewLifetimeTracker creates a new lifetime tracker with its own world.
func NewLifetimeTracker() *LifetimeTracker {
	world := ecs.NewWorld()
	return &LifetimeTracker{
		world:  world,
		mapper: ecs.NewMap1[LifetimeStats](world),
		filter: ecs.NewFilter1[LifetimeStats](world),
		byID:   make(map[uint32]ecs.Entity),
	}
}

// Events returns the kinds the tracker should be subscribed to.
func (lt *LifetimeTracker) Events() []EventType {
	return []EventType{
		EventOrganismBorn,
		EventOrganismDied,
		EventHerbivoreGrazed,
		EventPredatorAteHerbivore,
		EventHerbivoreReproduced,
	}
}

// Update implements Observer.
func (lt *LifetimeTracker) Update(generation int, e Event) {
	switch e.Type {
	case EventOrganismBorn:
		lt.Register(e.OrganismID, e.Kind, generation, e.Cause)
	case EventHerbivoreGrazed, EventPredatorAteHerbivore:
		if s := lt.Get(e.OrganismID); s != nil {
			s.Meals++
		}
	case EventHerbivoreReproduced:
		if s := lt.Get(e.OrganismID); s != nil {
			s.Children++
		}
	case EventOrganismDied:
		lt.Remove(e.OrganismID, generation, e.Cause)
	}
}

// Register starts tracking an organism.
func (lt *LifetimeTracker) Register(id uint32, kind components.Kind, born int, cause string) {
	if _, ok := lt.byID[id]; ok {
		return
	}
	stats := LifetimeStats{OrganismID: id, Kind: kind, Born: born, Cause: cause}
	lt.byID[id] = lt.mapper.NewEntity(&stats)
}

// Get returns the lifetime stats for an organism, or nil if not tracked.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	e, ok := lt.byID[id]
	if !ok {
		return nil
	}
	return lt.mapper.Get(e)
}

// Remove stops tracking an organism and queues its lifetime record.
func (lt *LifetimeTracker) Remove(id uint32, died int, cause string) (LifetimeRecord, bool) {
	e, ok := lt.byID[id]
	if !ok {
		return LifetimeRecord{}, false
	}
	s := lt.mapper.Get(e)
	rec := LifetimeRecord{
		OrganismID: s.OrganismID,
		Kind:       s.Kind.String(),
		Origin:     s.Cause,
		Born:       s.Born,
		Died:       died,
		Age:        died - s.Born,
		Meals:      s.Meals,
		Children:   s.Children,
		Cause:      cause,
	}
	lt.world.RemoveEntity(e)
	delete(lt.byID, id)
	lt.finished = append(lt.finished, rec)
	return rec, true
}

// DrainRecords returns the lifetime records of organisms that died since
// the last drain.
func (lt *LifetimeTracker) DrainRecords() []LifetimeRecord {
	recs := lt.finished
	lt.finished = nil
	return recs
}

// Aggregate summarizes living organisms per kind at the given generation.
func (lt *LifetimeTracker) Aggregate(generation int) [components.NumKinds]KindLifetimes {
	var out [components.NumKinds]KindLifetimes
	var ageSum, mealSum [components.NumKinds]int

	query := lt.filter.Query()
	for query.Next() {
		s := query.Get()
		k := s.Kind
		out[k].Living++
		ageSum[k] += generation - s.Born
		mealSum[k] += s.Meals
		if s.Children > out[k].MaxChildren {
			out[k].MaxChildren = s.Children
		}
	}

	for k := range out {
		if n := out[k].Living; n > 0 {
			out[k].MeanAge = float64(ageSum[k]) / float64(n)
			out[k].MeanMeals = float64(mealSum[k]) / float64(n)
		}
	}
	return out
}
