package telemetry

import (
	"testing"

	"github.com/pthm-cable/gridsim/components"
)

func populationOf(plants, herbivores, predators, fast int) components.Population {
	var p components.Population
	p[components.KindPlant] = plants
	p[components.KindHerbivore] = herbivores
	p[components.KindPredator] = predators
	p[components.KindFastPredator] = fast
	return p
}

func TestCollector_FlushWindow(t *testing.T) {
	c := NewCollector(10)
	bus := NewBus()
	bus.SubscribeAll(c, c.Events()...)

	bus.Publish(EventHerbivoreReproduced, 1, Event{})
	bus.Publish(EventHerbivoreReproduced, 2, Event{})
	bus.Publish(EventPredatorAteHerbivore, 2, Event{})
	bus.Publish(EventHerbivoreGrazed, 3, Event{})
	bus.Publish(EventOrganismBorn, 3, Event{Cause: CauseSprout})
	bus.Publish(EventOrganismBorn, 3, Event{Cause: CauseBirth})
	bus.Publish(EventOrganismDied, 4, Event{Cause: CauseAge, Age: 10})
	bus.Publish(EventOrganismDied, 4, Event{Cause: CauseEaten, Age: 4})
	bus.Publish(EventOrganismDied, 4, Event{Cause: CauseTrampled, Age: 1})
	bus.Publish(EventPopulation, 10, Event{Counts: populationOf(30, 12, 3, 1)})

	if c.ShouldFlush(9) {
		t.Error("expected no flush before the window ends")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("expected flush at generation 10")
	}

	s := c.Flush(10)
	if s.WindowStartGen != 0 || s.WindowEndGen != 10 {
		t.Errorf("expected window 0-10, got %d-%d", s.WindowStartGen, s.WindowEndGen)
	}
	if s.Plants != 30 || s.Herbivores != 12 || s.Predators != 3 || s.FastPredators != 1 {
		t.Errorf("expected counts from last population event, got %+v", s)
	}
	if s.HerbivoreBirths != 2 || s.Predations != 1 || s.Grazes != 1 || s.PlantsSprouted != 1 {
		t.Errorf("unexpected event counts %+v", s)
	}
	if s.DeathsByAge != 1 || s.DeathsEaten != 1 || s.Trampled != 1 {
		t.Errorf("unexpected death counts %+v", s)
	}
	if s.AgeAtDeathMean != 5 {
		t.Errorf("expected mean age at death 5, got %v", s.AgeAtDeathMean)
	}
	if s.Total() != 46 {
		t.Errorf("expected total 46, got %d", s.Total())
	}
}

func TestCollector_RunningCountersSurviveFlush(t *testing.T) {
	c := NewCollector(5)
	c.Update(1, Event{Type: EventHerbivoreReproduced})
	c.Update(1, Event{Type: EventPredatorAteHerbivore})
	c.Flush(5)
	c.Update(6, Event{Type: EventHerbivoreReproduced})

	second := c.Flush(10)
	if second.HerbivoreBirths != 1 {
		t.Errorf("expected window counter reset to 1, got %d", second.HerbivoreBirths)
	}
	if second.TotalReproductions != 2 || c.Reproductions() != 2 {
		t.Errorf("expected 2 total reproductions, got %d", second.TotalReproductions)
	}
	if second.TotalConsumption != 1 || c.Consumption() != 1 {
		t.Errorf("expected 1 total consumption, got %d", second.TotalConsumption)
	}
	if second.WindowStartGen != 5 {
		t.Errorf("expected second window to start at 5, got %d", second.WindowStartGen)
	}
}
