package telemetry

import (
	"testing"

	"github.com/pthm-cable/gridsim/components"
)

func TestLifetimeTracker_RecordsLifetime(t *testing.T) {
	lt := NewLifetimeTracker()
	bus := NewBus()
	bus.SubscribeAll(lt, lt.Events()...)

	bus.Publish(EventOrganismBorn, 0, Event{OrganismID: 1, Kind: components.KindHerbivore, Cause: CauseSeed})
	bus.Publish(EventOrganismBorn, 0, Event{OrganismID: 2, Kind: components.KindPredator, Cause: CauseSeed})
	bus.Publish(EventHerbivoreGrazed, 3, Event{OrganismID: 1})
	bus.Publish(EventHerbivoreGrazed, 4, Event{OrganismID: 1})
	bus.Publish(EventHerbivoreReproduced, 5, Event{OrganismID: 1, TargetID: 3})
	bus.Publish(EventPredatorAteHerbivore, 9, Event{OrganismID: 2, TargetID: 1})
	bus.Publish(EventOrganismDied, 9, Event{OrganismID: 1, Cause: CauseEaten})

	if lt.Get(1) != nil || lt.Get(2) == nil {
		t.Fatal("expected only the predator to remain tracked")
	}
	recs := lt.DrainRecords()
	if len(recs) != 1 {
		t.Fatalf("expected 1 lifetime record, got %d", len(recs))
	}
	r := recs[0]
	if r.OrganismID != 1 || r.Kind != "Herbivore" || r.Origin != CauseSeed {
		t.Errorf("unexpected identity %+v", r)
	}
	if r.Born != 0 || r.Died != 9 || r.Age != 9 {
		t.Errorf("expected born 0 died 9 age 9, got %+v", r)
	}
	if r.Meals != 2 || r.Children != 1 || r.Cause != CauseEaten {
		t.Errorf("expected 2 meals, 1 child, eaten; got %+v", r)
	}
	if len(lt.DrainRecords()) != 0 {
		t.Error("expected records drained")
	}

	pred := lt.Get(2)
	if pred == nil || pred.Meals != 1 {
		t.Errorf("expected predator with 1 meal, got %+v", pred)
	}
}

func TestLifetimeTracker_Aggregate(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(1, components.KindPlant, 0, CauseSeed)
	lt.Register(2, components.KindPlant, 4, CauseSprout)
	lt.Register(3, components.KindHerbivore, 2, CauseSeed)
	lt.Register(3, components.KindHerbivore, 9, CauseSeed) // duplicate ignored
	lt.Get(3).Children = 2

	agg := lt.Aggregate(10)
	plants := agg[components.KindPlant]
	if plants.Living != 2 || plants.MeanAge != 8 {
		t.Errorf("expected 2 plants with mean age 8, got %+v", plants)
	}
	herb := agg[components.KindHerbivore]
	if herb.Living != 1 || herb.MeanAge != 8 || herb.MaxChildren != 2 {
		t.Errorf("expected 1 herbivore aged 8 with 2 children, got %+v", herb)
	}
}

func TestLifetimeTracker_RemoveUnknown(t *testing.T) {
	lt := NewLifetimeTracker()
	if _, ok := lt.Remove(42, 1, CauseAge); ok {
		t.Error("expected unknown organism to be ignored")
	}
	if recs := lt.DrainRecords(); len(recs) != 0 {
		t.Errorf("expected no records for unknown organism, got %d", len(recs))
	}
}

func TestLifetimeTracker_AggregateMeals(t *testing.T) {
	lt := NewLifetimeTracker()
	bus := NewBus()
	bus.SubscribeAll(lt, lt.Events()...)

	bus.Publish(EventOrganismBorn, 0, Event{OrganismID: 1, Kind: components.KindHerbivore, Cause: CauseSeed})
	bus.Publish(EventOrganismBorn, 2, Event{OrganismID: 2, Kind: components.KindHerbivore, Cause: CauseBirth})
	bus.Publish(EventOrganismBorn, 0, Event{OrganismID: 3, Kind: components.KindPredator, Cause: CauseSeed})
	bus.Publish(EventHerbivoreGrazed, 3, Event{OrganismID: 1})
	bus.Publish(EventHerbivoreGrazed, 4, Event{OrganismID: 1})
	bus.Publish(EventHerbivoreGrazed, 4, Event{OrganismID: 2})
	bus.Publish(EventPredatorAteHerbivore, 5, Event{OrganismID: 3, TargetID: 2})
	bus.Publish(EventOrganismDied, 5, Event{OrganismID: 2, Cause: CauseEaten})

	var s WindowStats
	s.AddLifetimes(lt.Aggregate(6))
	if s.HerbivoreMeanAge != 6 || s.HerbivoreMeanMeals != 2 {
		t.Errorf("expected surviving herbivore aged 6 with 2 meals, got age %v meals %v",
			s.HerbivoreMeanAge, s.HerbivoreMeanMeals)
	}
	if s.PredatorMeanMeals != 1 {
		t.Errorf("expected predator mean meals 1, got %v", s.PredatorMeanMeals)
	}
	if s.FastPredatorMeanMeals != 0 {
		t.Errorf("expected no fast predator meals, got %v", s.FastPredatorMeanMeals)
	}
}
