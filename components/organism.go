package components

// Organism holds the mutable state of one entity.
type Organism struct {
	ID   uint32
	Kind Kind
	Born int // generation the organism appeared in

	// Position, kept in sync with the cell that owns the organism
	Row, Col int

	Lifespan        int // steps of life when full
	CurrentLifespan int // countdown, dead at zero

	SightRadius int // mobile kinds only

	ReproductionCooldown int // herbivores only
	CurrentCooldown      int
}

// Alive reports whether the organism still has lifespan left.
func (o *Organism) Alive() bool {
	return o.CurrentLifespan > 0
}

// ResetLifespan refills the countdown after eating.
func (o *Organism) ResetLifespan() {
	o.CurrentLifespan = o.Lifespan
}

// AgeAt returns the generations lived by the given generation.
func (o *Organism) AgeAt(generation int) int {
	return generation - o.Born
}

// Kill marks the organism dead, e.g. when it has been eaten.
func (o *Organism) Kill() {
	o.CurrentLifespan = 0
}

// Occupant is the tagged content of one grid cell. Org is nil for empty cells.
type Occupant struct {
	Kind Kind
	Org  *Organism
}

// Empty is the occupant of an empty cell.
var Empty = Occupant{}

// Occupy wraps an organism as a cell occupant.
func Occupy(o *Organism) Occupant {
	return Occupant{Kind: o.Kind, Org: o}
}

// IsEmpty reports whether the cell holds nothing.
func (o Occupant) IsEmpty() bool {
	return o.Kind == KindEmpty
}
