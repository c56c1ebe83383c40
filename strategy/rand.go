package strategy

import "math/rand"

// strategyRng is the package-level random source shared by Random (and
// Neural's random pick when inference fails). When nil, the functions below delegate to the
// global math/rand default. Use Seed for deterministic tests.
var strategyRng *rand.Rand

// Seed sets a deterministic random source for reproducible strategy output.
func Seed(seed int64) {
	strategyRng = rand.New(rand.NewSource(seed))
}

// ResetSeed reverts to the default (non-deterministic) global random source.
func ResetSeed() {
	strategyRng = nil
}

func randFloat64() float64 {
	if strategyRng != nil {
		return strategyRng.Float64()
	}
	return rand.Float64()
}

func randIntn(n int) int {
	if strategyRng != nil {
		return strategyRng.Intn(n)
	}
	return rand.Intn(n)
}

func randPerm(n int) []int {
	if strategyRng != nil {
		return strategyRng.Perm(n)
	}
	return rand.Perm(n)
}

func randShuffle(n int, swap func(i, j int)) {
	if strategyRng != nil {
		strategyRng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}
