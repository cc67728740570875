// Package components defines the occupant types held by grid cells.
package components

// Kind tags the occupant of a grid cell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindPlant
	KindHerbivore
	KindPredator
	KindFastPredator

	NumKinds = int(KindFastPredator) + 1
)

// KindTraits is the per-kind behavior table.
type KindTraits struct {
	Name       string
	Mobile     bool
	Target     Kind // kind this kind eats, KindEmpty if none
	Speed      int  // movement sub-steps per tick
	Reproduces bool // breeds when stepping onto its own kind
	Glyph      rune // terminal glyph
}

var kindTraits = [NumKinds]KindTraits{
	KindEmpty:        {Name: "Empty", Glyph: ' '},
	KindPlant:        {Name: "Plant", Glyph: '*'},
	KindHerbivore:    {Name: "Herbivore", Mobile: true, Target: KindPlant, Speed: 1, Reproduces: true, Glyph: 'h'},
	KindPredator:     {Name: "Predator", Mobile: true, Target: KindHerbivore, Speed: 1, Glyph: 'P'},
	KindFastPredator: {Name: "FastPredator", Mobile: true, Target: KindHerbivore, Speed: 2, Glyph: 'F'},
}

// Traits returns the behavior table entry for k.
func Traits(k Kind) KindTraits {
	if int(k) >= NumKinds {
		return kindTraits[KindEmpty]
	}
	return kindTraits[k]
}

func (k Kind) String() string {
	return Traits(k).Name
}

// Species returns every non-empty kind in declaration order.
func Species() []Kind {
	return []Kind{KindPlant, KindHerbivore, KindPredator, KindFastPredator}
}

// ParseKind maps a species name ("Plant", "Herbivore", "Predator",
// "FastPredator") to its Kind.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Species() {
		if kindTraits[k].Name == name {
			return k, true
		}
	}
	return KindEmpty, false
}

// IsPredator reports whether k hunts herbivores.
func (k Kind) IsPredator() bool {
	return k == KindPredator || k == KindFastPredator
}
