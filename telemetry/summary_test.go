package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/gridsim/components"
)

func TestSummarize(t *testing.T) {
	s := NewPopulationSeries()
	herbivores := []int{2, 4, 6, 0, 0}
	for i, h := range herbivores {
		s.Update(i+1, NewPopulationEvent(populationOf(10, h, 1, 0), 100))
	}

	byName := make(map[string]SpeciesSummary)
	for _, sum := range Summarize(s) {
		byName[sum.Species] = sum
	}

	h := byName["Herbivore"]
	if h.Generations != 5 || h.Final != 0 {
		t.Errorf("expected 5 generations ending at 0, got %+v", h)
	}
	if math.Abs(h.Mean-2.4) > 1e-9 {
		t.Errorf("expected mean 2.4, got %v", h.Mean)
	}
	if h.Min != 0 || h.Max != 6 {
		t.Errorf("expected range 0-6, got %v-%v", h.Min, h.Max)
	}
	if h.ExtinctAt != 4 {
		t.Errorf("expected extinction at generation 4, got %d", h.ExtinctAt)
	}

	p := byName["Plant"]
	if p.StdDev != 0 || p.CV != 0 || p.ExtinctAt != -1 {
		t.Errorf("expected constant plants with no extinction, got %+v", p)
	}

	f := byName["FastPredator"]
	if f.ExtinctAt != -1 || f.Mean != 0 {
		t.Errorf("expected absent fast predators never to go extinct, got %+v", f)
	}
}

func TestSummarize_Empty(t *testing.T) {
	sums := Summarize(NewPopulationSeries())
	if len(sums) != len(components.Species()) {
		t.Fatalf("expected one summary per species, got %d", len(sums))
	}
	for _, s := range sums {
		if s.Generations != 0 || s.ExtinctAt != -1 {
			t.Errorf("expected empty summary, got %+v", s)
		}
	}
}

func TestPopulationSeries_DrainRows(t *testing.T) {
	s := NewPopulationSeries()
	s.Update(1, NewPopulationEvent(populationOf(1, 2, 3, 4), 10))
	s.Update(2, Event{Type: EventPlantOvergrowth})

	rows := s.DrainRows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Generation != 1 || rows[0].Total != 10 || rows[0].FastPredators != 4 {
		t.Errorf("unexpected row %+v", rows[0])
	}
	if len(s.DrainRows()) != 0 {
		t.Error("expected rows drained")
	}
}
