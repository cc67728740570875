package systems

import "github.com/pthm-cable/gridsim/components"

// Reproduce runs one reproduction attempt for parent.
//
// While the cooldown is positive the attempt only decrements it. Otherwise
// a child is spawned in a random empty neighbor and the parent's cooldown
// restarts. Without an empty neighbor nothing happens and the cooldown stays
// at zero. The child starts with the newborn defaults, including a zero
// cooldown.
func (m *Mover) Reproduce(parent *components.Organism) *components.Organism {
	if parent.CurrentCooldown > 0 {
		parent.CurrentCooldown--
		return nil
	}

	empties := m.Grid.EmptyNeighbors(parent.Row, parent.Col)
	if len(empties) == 0 {
		return nil
	}
	spot := empties[m.RNG.Intn(len(empties))]

	child := m.Newborn(parent.Kind)
	m.Grid.put(spot, components.Occupy(child))
	parent.CurrentCooldown = parent.ReproductionCooldown

	if m.Recorder != nil {
		m.Recorder.Reproduced(parent, child)
	}
	return child
}
