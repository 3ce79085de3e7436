package shuffle_test

import (
	"math"
	"testing"

	"tico-dataset/internal/core/shuffle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Expected values were produced with CPython's random.Random(seed).
func TestMT19937_MatchesCPythonShuffle(t *testing.T) {
	tests := []struct {
		seed int64
		n    int
		want []int
	}{
		{seed: 42, n: 10, want: []int{7, 3, 2, 8, 5, 6, 9, 4, 0, 1}},
		{seed: 0, n: 10, want: []int{7, 8, 1, 5, 3, 4, 2, 0, 9, 6}},
		{seed: 1, n: 5, want: []int{2, 3, 4, 0, 1}},
		{seed: -42, n: 10, want: []int{7, 3, 2, 8, 5, 6, 9, 4, 0, 1}},
		{seed: 1<<40 + 3, n: 8, want: []int{5, 1, 7, 2, 6, 4, 0, 3}},
		{seed: 7, n: 20, want: []int{17, 15, 11, 18, 7, 6, 19, 3, 14, 0, 9, 5, 16, 8, 13, 2, 1, 12, 4, 10}},
		{seed: math.MaxInt64, n: 10, want: []int{4, 1, 9, 8, 6, 0, 3, 7, 2, 5}},
		{seed: math.MinInt64, n: 10, want: []int{5, 7, 9, 2, 0, 4, 1, 3, 6, 8}},
		{seed: 123456789012, n: 10, want: []int{2, 8, 5, 7, 9, 3, 1, 4, 0, 6}},
	}

	for _, tt := range tests {
		got := shuffle.Permutation(shuffle.NewMT19937(tt.seed), tt.n)
		assert.Equal(t, tt.want, got, "seed=%d n=%d", tt.seed, tt.n)
	}
}

func TestNew_MT19937ReturnsTwister(t *testing.T) {
	s, err := shuffle.New(shuffle.MT19937, 42)
	require.NoError(t, err)
	require.IsType(t, &shuffle.Twister{}, s)

	want := shuffle.Permutation(shuffle.NewMT19937(42), 10)
	assert.Equal(t, want, shuffle.Permutation(s, 10))
}

func TestMT19937_MatchesCPythonGetrandbits(t *testing.T) {
	mt := shuffle.NewMT19937(42)
	assert.Equal(t, uint64(2746317213), mt.Bits(32))
	assert.Equal(t, uint64(478163327), mt.Bits(32))
	assert.Equal(t, uint64(107420369), mt.Bits(32))

	mt = shuffle.NewMT19937(1<<40 + 3)
	assert.Equal(t, uint32(943978446), mt.Uint32())
	assert.Equal(t, uint32(261273136), mt.Uint32())
	assert.Equal(t, uint32(2359950418), mt.Uint32())
}

func TestPermutation_SmallInputs(t *testing.T) {
	for _, alg := range shuffle.Algorithms() {
		s, err := shuffle.New(alg, 42)
		require.NoError(t, err)
		assert.Empty(t, shuffle.Permutation(s, 0))

		s, err = shuffle.New(alg, 42)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, shuffle.Permutation(s, 1))
	}
}

func TestNew_Deterministic(t *testing.T) {
	for _, alg := range shuffle.Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			a, err := shuffle.New(alg, 1234)
			require.NoError(t, err)
			b, err := shuffle.New(alg, 1234)
			require.NoError(t, err)

			permA := shuffle.Permutation(a, 500)
			permB := shuffle.Permutation(b, 500)
			assert.Equal(t, permA, permB)
			assert.ElementsMatch(t, identity(500), permA)

			c, err := shuffle.New(alg, 1235)
			require.NoError(t, err)
			assert.NotEqual(t, permA, shuffle.Permutation(c, 500))
		})
	}
}

func TestNew_UnknownAlgorithm(t *testing.T) {
	_, err := shuffle.New("random", 1)
	assert.ErrorIs(t, err, shuffle.ErrUnknownAlgorithm)
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
