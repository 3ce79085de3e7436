package shuffle

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

type Algorithm string

const (
	// MT19937 reproduces random.Random(seed).shuffle from CPython.
	MT19937 Algorithm = "mt19937"
	// PCG is Fisher-Yates over math/rand/v2's PCG source seeded with (seed, 0).
	PCG Algorithm = "pcg"
)

var ErrUnknownAlgorithm = errors.New("unknown shuffle algorithm")

type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

func Algorithms() []Algorithm {
	return []Algorithm{MT19937, PCG}
}

// New returns a generator owned by the caller; nothing is shared between calls.
func New(algorithm Algorithm, seed int64) (Shuffler, error) {
	switch algorithm {
	case MT19937:
		return NewMT19937(seed), nil
	case PCG:
		return rand.New(rand.NewPCG(uint64(seed), 0)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

func Permutation(s Shuffler, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	s.Shuffle(n, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})
	return perm
}
