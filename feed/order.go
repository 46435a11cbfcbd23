package feed

import "math/rand/v2"

// Shuffle returns a uniformly random permutation of in using Fisher-Yates.
// in is left untouched. intN must return a uniform integer in [0, n);
// nil uses math/rand/v2.
func Shuffle[T any](in []T, intN func(n int) int) []T {
	if intN == nil {
		intN = rand.IntN
	}
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
