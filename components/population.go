package components

// Population holds a count per kind, indexed by Kind.
type Population [NumKinds]int

// Of returns the count for k.
func (p Population) Of(k Kind) int {
	return p[k]
}

// Total returns the number of living occupants.
func (p Population) Total() int {
	n := 0
	for _, k := range Species() {
		n += p[k]
	}
	return n
}

// Predators returns predators of both speeds.
func (p Population) Predators() int {
	return p[KindPredator] + p[KindFastPredator]
}
