package systems

import "github.com/pthm-cable/gridsim/components"

// Recorder receives the notable outcomes of entity behavior so the
// scheduler can publish them after the tick.
type Recorder interface {
	// Ate is called when eater consumed food of its target kind.
	Ate(eater, food *components.Organism)
	// Trampled is called when a predator stepped onto a plant.
	Trampled(predator, plant *components.Organism)
	// Reproduced is called after child was placed next to parent.
	Reproduced(parent, child *components.Organism)
}

// Mover runs mobile entity behavior against a working grid.
type Mover struct {
	Grid     *Grid
	RNG      RNG
	Newborn  func(kind components.Kind) *components.Organism
	Recorder Recorder
}

// Act runs speed sub-steps for a mobile organism. Static kinds are ignored.
func (m *Mover) Act(org *components.Organism) {
	traits := components.Traits(org.Kind)
	if !traits.Mobile {
		return
	}
	for step := 0; step < traits.Speed; step++ {
		if !org.Alive() {
			return
		}
		m.subStep(org, traits)
	}
}

// subStep picks a destination and resolves what happens there.
// Finding neither a target nor an empty neighbor is a no-op.
func (m *Mover) subStep(org *components.Organism, traits components.KindTraits) {
	if org.SightRadius <= 0 {
		return
	}
	dest, ok := m.destination(org, traits)
	if !ok {
		return
	}
	m.resolve(org, traits, dest)
}

// destination is one Chebyshev step toward the nearest target, or a random
// empty neighbor when no target is in sight.
func (m *Mover) destination(org *components.Organism, traits components.KindTraits) (Cell, bool) {
	target, found := m.Grid.FindNearestInRadius(org.Row, org.Col, org.SightRadius, func(occ components.Occupant) bool {
		return occ.Kind == traits.Target
	})
	if found {
		return Cell{
			Row: org.Row + sign(target.Row-org.Row),
			Col: org.Col + sign(target.Col-org.Col),
		}, true
	}

	empties := m.Grid.EmptyNeighbors(org.Row, org.Col)
	if len(empties) == 0 {
		return Cell{}, false
	}
	return empties[m.RNG.Intn(len(empties))], true
}

func (m *Mover) resolve(org *components.Organism, traits components.KindTraits, dest Cell) {
	occ := m.Grid.at(dest)
	switch {
	case occ.IsEmpty():
		m.moveTo(org, dest)

	case occ.Kind == traits.Target:
		occ.Org.Kill()
		org.ResetLifespan()
		m.moveTo(org, dest)
		if m.Recorder != nil {
			m.Recorder.Ate(org, occ.Org)
		}

	case occ.Kind == org.Kind && traits.Reproduces:
		m.Reproduce(org)

	case org.Kind.IsPredator() && occ.Kind == components.KindPlant:
		// Plants do not feed predators.
		occ.Org.Kill()
		m.moveTo(org, dest)
		if m.Recorder != nil {
			m.Recorder.Trampled(org, occ.Org)
		}

	default:
		// Blocked; stay put for this sub-step.
	}
}

// moveTo places org at dest and empties the cell it left.
func (m *Mover) moveTo(org *components.Organism, dest Cell) {
	from := Cell{Row: org.Row, Col: org.Col}
	m.Grid.put(dest, components.Occupy(org))
	m.Grid.put(from, components.Empty)
}
