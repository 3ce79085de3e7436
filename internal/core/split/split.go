package split

import (
	"errors"
	"fmt"
	"math"

	"tico-dataset/internal/core/shuffle"
)

const ratioTolerance = 1e-9

var (
	ErrNoRecords    = errors.New("no records found in input")
	ErrInvalidRatio = errors.New("invalid split ratio")
)

type Options struct {
	TrainRatio float64
	ValidRatio float64
	Seed       int64
	Algorithm  shuffle.Algorithm
}

func DefaultOptions() Options {
	return Options{
		TrainRatio: 0.8,
		ValidRatio: 0.1,
		Seed:       42,
		Algorithm:  shuffle.MT19937,
	}
}

// Partitions holds disjoint train/valid/test slices that together contain
// every input element once. Eval is a prefix of Train, not a held-out set.
type Partitions[T any] struct {
	Train []T
	Valid []T
	Test  []T
	Eval  []T
}

func (o Options) Validate() error {
	for _, r := range []struct {
		name  string
		value float64
	}{{"train", o.TrainRatio}, {"valid", o.ValidRatio}} {
		if math.IsNaN(r.value) || r.value < 0 || r.value > 1 {
			return fmt.Errorf("%w: %s ratio %v must be in [0, 1]", ErrInvalidRatio, r.name, r.value)
		}
	}
	if sum := o.TrainRatio + o.ValidRatio; sum > 1+ratioTolerance {
		return fmt.Errorf("%w: train ratio %v + valid ratio %v exceeds 1", ErrInvalidRatio, o.TrainRatio, o.ValidRatio)
	}
	return nil
}

// Split shuffles the positions of items with a generator seeded from
// opts.Seed and cuts the permutation into train, valid and test. Test takes
// whatever the floored train and valid sizes leave behind.
func Split[T any](items []T, opts Options) (Partitions[T], error) {
	if len(items) == 0 {
		return Partitions[T]{}, ErrNoRecords
	}
	if err := opts.Validate(); err != nil {
		return Partitions[T]{}, err
	}

	rng, err := shuffle.New(opts.Algorithm, opts.Seed)
	if err != nil {
		return Partitions[T]{}, err
	}

	n := len(items)
	perm := shuffle.Permutation(rng, n)

	trainN := int(float64(n) * opts.TrainRatio)
	validN := int(float64(n) * opts.ValidRatio)
	// guards against float drift when the ratios sum to exactly 1
	validN = min(validN, n-trainN)

	parts := Partitions[T]{
		Train: pick(items, perm[:trainN]),
		Valid: pick(items, perm[trainN:trainN+validN]),
		Test:  pick(items, perm[trainN+validN:]),
	}
	parts.Eval = EvalSubset(parts.Train)

	return parts, nil
}

func EvalSize(trainLen int) int {
	if trainLen == 0 {
		return 0
	}
	return max(1, trainLen/10)
}

// EvalSubset returns the leading EvalSize(len(train)) elements of train.
// The result has no spare capacity, so appending to it never touches train.
func EvalSubset[T any](train []T) []T {
	n := EvalSize(len(train))
	return train[:n:n]
}

func pick[T any](items []T, idx []int) []T {
	out := make([]T, 0, len(idx))
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}
