package quiz

import "hash/fnv"

// RNG yields values in [0, 1). Implementations must be deterministic for a
// given seed so a session can be rebuilt exactly from (payload, seed).
type RNG interface {
	Next() float64
}

// lcg is a 64-bit linear-congruential generator (Knuth MMIX constants).
// It is not cryptographic; it only has to be seed-deterministic and spread
// permutations evenly.
type lcg struct {
	state uint64
}

func (g *lcg) Next() float64 {
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return float64(g.state>>11) / (1 << 53)
}

// newRNG seeds an RNG from an arbitrary string via FNV-1a.
func newRNG(seed string) RNG {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return &lcg{state: h.Sum64()}
}

// shuffle applies a Fisher-Yates permutation of n elements driven by rng.
func shuffle(n int, rng RNG, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(rng.Next() * float64(i+1))
		if j > i {
			j = i
		}
		swap(i, j)
	}
}
