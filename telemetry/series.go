package telemetry

import "github.com/pthm-cable/gridsim/components"

// PopulationRow is one generation of the population series.
type PopulationRow struct {
	Generation    int `csv:"generation"`
	Plants        int `csv:"plants"`
	Herbivores    int `csv:"herbivores"`
	Predators     int `csv:"predators"`
	FastPredators int `csv:"fast_predators"`
	Total         int `csv:"total"`
}

// NewPopulationRow flattens counts for generation.
func NewPopulationRow(generation int, counts components.Population) PopulationRow {
	return PopulationRow{
		Generation:    generation,
		Plants:        counts.Of(components.KindPlant),
		Herbivores:    counts.Of(components.KindHerbivore),
		Predators:     counts.Of(components.KindPredator),
		FastPredators: counts.Of(components.KindFastPredator),
		Total:         counts.Total(),
	}
}

// PopulationSeries records the population of every species per generation,
// keyed by generation. It observes EventPopulation.
type PopulationSeries struct {
	generations []int
	bySpecies   [components.NumKinds][]float64
	pending     []PopulationRow
}

// NewPopulationSeries creates an empty series.
func NewPopulationSeries() *PopulationSeries {
	return &PopulationSeries{}
}

// Update implements Observer.
func (s *PopulationSeries) Update(generation int, e Event) {
	if e.Type != EventPopulation {
		return
	}
	s.generations = append(s.generations, generation)
	for _, k := range components.Species() {
		s.bySpecies[k] = append(s.bySpecies[k], float64(e.Counts.Of(k)))
	}
	s.pending = append(s.pending, NewPopulationRow(generation, e.Counts))
}

// Len returns the number of recorded generations.
func (s *PopulationSeries) Len() int {
	return len(s.generations)
}

// Generations returns the recorded generation numbers.
func (s *PopulationSeries) Generations() []int {
	return s.generations
}

// Values returns the per-generation counts of kind.
func (s *PopulationSeries) Values(kind components.Kind) []float64 {
	if int(kind) >= components.NumKinds {
		return nil
	}
	return s.bySpecies[kind]
}

// Last returns the most recent counts of kind, or 0 if nothing was recorded.
func (s *PopulationSeries) Last(kind components.Kind) int {
	v := s.Values(kind)
	if len(v) == 0 {
		return 0
	}
	return int(v[len(v)-1])
}

// DrainRows returns the rows recorded since the last drain.
func (s *PopulationSeries) DrainRows() []PopulationRow {
	rows := s.pending
	s.pending = nil
	return rows
}
