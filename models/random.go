package models

// Random is the random source injected into walks and scatters.
// *math/rand/v2.Rand satisfies it.
type Random interface {
	IntN(n int) int
	Float64() float64
}
