package split_test

import (
	"fmt"
	"math"
	"testing"

	"tico-dataset/internal/core/shuffle"
	"tico-dataset/internal/core/split"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("record-%d", i)
	}
	return out
}

func TestSplit_TenRecordsDefaultOptions(t *testing.T) {
	data := make([]int, 10)
	for i := range data {
		data[i] = i
	}

	parts, err := split.Split(data, split.DefaultOptions())
	require.NoError(t, err)

	// same partitions the Python tooling produces for seed 42
	assert.Equal(t, []int{7, 3, 2, 8, 5, 6, 9, 4}, parts.Train)
	assert.Equal(t, []int{0}, parts.Valid)
	assert.Equal(t, []int{1}, parts.Test)
	assert.Equal(t, []int{7}, parts.Eval)
}

func TestSplit_NoLossNoDuplication(t *testing.T) {
	ratios := []struct{ train, valid float64 }{
		{0.8, 0.1}, {0.5, 0.5}, {1, 0}, {0, 0}, {0, 1}, {0.33, 0.33}, {0.7, 0.3},
	}

	for _, alg := range shuffle.Algorithms() {
		for _, n := range []int{1, 2, 3, 7, 10, 99, 1000} {
			for _, r := range ratios {
				name := fmt.Sprintf("%s/n=%d/train=%v/valid=%v", alg, n, r.train, r.valid)
				t.Run(name, func(t *testing.T) {
					data := items(n)
					parts, err := split.Split(data, split.Options{
						TrainRatio: r.train,
						ValidRatio: r.valid,
						Seed:       7,
						Algorithm:  alg,
					})
					require.NoError(t, err)

					assert.Len(t, parts.Train, int(float64(n)*r.train))
					assert.Equal(t, n, len(parts.Train)+len(parts.Valid)+len(parts.Test))

					var all []string
					all = append(all, parts.Train...)
					all = append(all, parts.Valid...)
					all = append(all, parts.Test...)
					assert.ElementsMatch(t, data, all)

					seen := make(map[string]struct{}, n)
					for _, v := range all {
						_, dup := seen[v]
						require.False(t, dup, "record %s in more than one partition", v)
						seen[v] = struct{}{}
					}
				})
			}
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	data := items(250)
	opts := split.DefaultOptions()

	first, err := split.Split(data, opts)
	require.NoError(t, err)
	second, err := split.Split(data, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSplit_DifferentSeedsDiffer(t *testing.T) {
	data := items(100)
	opts := split.DefaultOptions()

	a, err := split.Split(data, opts)
	require.NoError(t, err)

	opts.Seed = 43
	b, err := split.Split(data, opts)
	require.NoError(t, err)

	assert.NotEqual(t, a.Train, b.Train)
}

func TestSplit_EvalIsPrefixOfTrain(t *testing.T) {
	for _, n := range []int{1, 5, 10, 11, 19, 20, 101} {
		parts, err := split.Split(items(n), split.DefaultOptions())
		require.NoError(t, err)

		want := split.EvalSize(len(parts.Train))
		require.Len(t, parts.Eval, want)
		assert.Equal(t, parts.Train[:want], parts.Eval)
	}
}

func TestSplit_EmptyTrainGivesEmptyEval(t *testing.T) {
	parts, err := split.Split(items(3), split.Options{TrainRatio: 0.2, ValidRatio: 0.5, Seed: 1, Algorithm: shuffle.MT19937})
	require.NoError(t, err)

	assert.Empty(t, parts.Train)
	assert.Empty(t, parts.Eval)
	assert.Len(t, parts.Valid, 1)
	assert.Len(t, parts.Test, 2)
}

func TestSplit_EvalDoesNotAliasTrain(t *testing.T) {
	parts, err := split.Split(items(30), split.DefaultOptions())
	require.NoError(t, err)

	trainCopy := append([]string(nil), parts.Train...)
	_ = append(parts.Eval, "extra")
	assert.Equal(t, trainCopy, parts.Train)
}

func TestSplit_NoRecords(t *testing.T) {
	_, err := split.Split([]string{}, split.DefaultOptions())
	assert.ErrorIs(t, err, split.ErrNoRecords)
}

func TestSplit_InvalidRatios(t *testing.T) {
	tests := []struct {
		name         string
		train, valid float64
	}{
		{"sum above one", 0.8, 0.3},
		{"negative train", -0.1, 0.1},
		{"valid above one", 0, 1.5},
		{"nan", math.NaN(), 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := split.DefaultOptions()
			opts.TrainRatio = tt.train
			opts.ValidRatio = tt.valid

			_, err := split.Split(items(10), opts)
			assert.ErrorIs(t, err, split.ErrInvalidRatio)
		})
	}
}

func TestSplit_UnknownAlgorithm(t *testing.T) {
	opts := split.DefaultOptions()
	opts.Algorithm = "bogus"

	_, err := split.Split(items(10), opts)
	assert.ErrorIs(t, err, shuffle.ErrUnknownAlgorithm)
}

func TestEvalSize(t *testing.T) {
	assert.Equal(t, 0, split.EvalSize(0))
	assert.Equal(t, 1, split.EvalSize(1))
	assert.Equal(t, 1, split.EvalSize(19))
	assert.Equal(t, 2, split.EvalSize(20))
	assert.Equal(t, 10, split.EvalSize(100))
}
