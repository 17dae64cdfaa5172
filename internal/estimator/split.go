package estimator

import (
	"math"
	"math/rand"
)

// split partitions row indices 0..n-1 into train and test sets using a
// seeded permutation. Test size is ceil(frac*n), kept within [1, n-1].
func split(n int, frac float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	testSize := int(math.Ceil(frac*float64(n) - 1e-9))
	if testSize < 1 {
		testSize = 1
	}
	if testSize > n-1 {
		testSize = n - 1
	}

	return perm[testSize:], perm[:testSize]
}
