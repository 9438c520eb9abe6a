package matching_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/isolines/matching"
)

// TestMatch_Validation verifies the sentinel errors shared by both policies.
func TestMatch_Validation(t *testing.T) {
	for _, p := range []matching.Policy{matching.Optimal, matching.Greedy} {
		t.Run(p.String(), func(t *testing.T) {
			_, err := matching.Match(p, []float64{2, 1}, []float64{1}, 1)
			assert.ErrorIs(t, err, matching.ErrUnsorted)

			_, err = matching.Match(p, []float64{1}, []float64{1}, -1)
			assert.ErrorIs(t, err, matching.ErrBadMaxJoin)

			_, err = matching.Match(p, []float64{1}, []float64{1}, math.NaN())
			assert.ErrorIs(t, err, matching.ErrBadMaxJoin)
		})
	}
	_, err := matching.Match(matching.Policy(9), nil, nil, 1)
	assert.ErrorIs(t, err, matching.ErrUnknownPolicy)
}

// TestOptimal_PrefersMorePairsOverCheapestPair shows the case greedy gets
// wrong: the single cheapest pair blocks a two-pair alignment.
func TestOptimal_PrefersMorePairsOverCheapestPair(t *testing.T) {
	a := []float64{0, 10}
	b := []float64{9, 19}

	greedy, err := matching.MatchGreedy(a, b, 10)
	require.NoError(t, err)
	assert.Equal(t, []matching.Pair{{A: 1, B: 0, Cost: 1}}, greedy)

	opt, err := matching.MatchOptimal(a, b, 10)
	require.NoError(t, err)
	assert.Equal(t, []matching.Pair{{A: 0, B: 0, Cost: 9}, {A: 1, B: 1, Cost: 9}}, opt)
}

// TestOptimal_MinimisesCostAmongEqualCounts checks the secondary criterion.
func TestOptimal_MinimisesCostAmongEqualCounts(t *testing.T) {
	a := []float64{10}
	b := []float64{0, 9, 30}

	opt, err := matching.MatchOptimal(a, b, 20)
	require.NoError(t, err)
	require.Len(t, opt, 1)
	assert.Equal(t, 1, opt[0].B)
}

// TestOptimal_RespectsMaxJoin verifies that far elements stay unmatched.
func TestOptimal_RespectsMaxJoin(t *testing.T) {
	opt, err := matching.MatchOptimal([]float64{0, 50}, []float64{1, 100}, 5)
	require.NoError(t, err)
	assert.Equal(t, []matching.Pair{{A: 0, B: 0, Cost: 1}}, opt)
}

// TestMatch_TiesAreDeterministic pins the tie-breaking rules of both policies.
func TestMatch_TiesAreDeterministic(t *testing.T) {
	a := []float64{5}
	b := []float64{0, 10}
	for _, p := range []matching.Policy{matching.Optimal, matching.Greedy} {
		got, err := matching.Match(p, a, b, 5)
		require.NoError(t, err)
		assert.Equal(t, []matching.Pair{{A: 0, B: 0, Cost: 5}}, got, p.String())
	}
}

// TestOptimal_Empty returns no pairs for empty inputs.
func TestOptimal_Empty(t *testing.T) {
	got, err := matching.MatchOptimal(nil, []float64{1}, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestOptimal_PairsNeverCross checks the order-preserving property on a
// denser input.
func TestOptimal_PairsNeverCross(t *testing.T) {
	a := []float64{1, 4, 6, 9, 12}
	b := []float64{2, 5, 5.5, 10, 11, 13}
	got, err := matching.MatchOptimal(a, b, 3)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for k := 1; k < len(got); k++ {
		assert.Greater(t, got[k].A, got[k-1].A)
		assert.Greater(t, got[k].B, got[k-1].B)
	}
	assert.Len(t, got, 5)
}

func TestParsePolicy(t *testing.T) {
	p, err := matching.ParsePolicy("greedy")
	require.NoError(t, err)
	assert.Equal(t, matching.Greedy, p)

	p, err = matching.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, matching.Optimal, p)

	_, err = matching.ParsePolicy("hungarian")
	assert.ErrorIs(t, err, matching.ErrUnknownPolicy)
}
