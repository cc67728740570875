package systems

// RNG supplies uniform random choices. *math/rand.Rand satisfies it.
type RNG interface {
	// Intn returns a uniform value in [0,n). n must be > 0.
	Intn(n int) int
}
