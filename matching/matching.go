package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrBadMaxJoin indicates a negative or non-finite join distance.
	ErrBadMaxJoin = errors.New("matching: maxJoin must be finite and non-negative")

	// ErrUnsorted indicates an input sequence that is not ascending.
	ErrUnsorted = errors.New("matching: sequences must be ascending")

	// ErrUnknownPolicy indicates a Policy value outside the defined set.
	ErrUnknownPolicy = errors.New("matching: unknown policy")
)

// Policy selects the pairing strategy.
type Policy int

const (
	// Optimal uses the order-preserving dynamic program.
	Optimal Policy = iota
	// Greedy takes closest pairs first.
	Greedy
)

// String returns the policy name as used in configuration files.
func (p Policy) String() string {
	switch p {
	case Optimal:
		return "optimal"
	case Greedy:
		return "greedy"
	}

	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy maps a configuration name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "optimal", "":
		return Optimal, nil
	case "greedy":
		return Greedy, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// Pair links a[A] to b[B] at distance Cost.
type Pair struct {
	A, B int
	Cost float64
}

// Match dispatches to the selected policy.
func Match(p Policy, a, b []float64, maxJoin float64) ([]Pair, error) {
	switch p {
	case Optimal:
		return MatchOptimal(a, b, maxJoin)
	case Greedy:
		return MatchGreedy(a, b, maxJoin)
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
}

func validate(a, b []float64, maxJoin float64) error {
	if math.IsNaN(maxJoin) || math.IsInf(maxJoin, 0) || maxJoin < 0 {
		return fmt.Errorf("%w: %g", ErrBadMaxJoin, maxJoin)
	}
	if !sort.Float64sAreSorted(a) || !sort.Float64sAreSorted(b) {
		return ErrUnsorted
	}

	return nil
}

// MatchGreedy pairs by ascending distance; ties go to the lower index in a,
// then in b. Pairs are returned ordered by A.
func MatchGreedy(a, b []float64, maxJoin float64) ([]Pair, error) {
	if err := validate(a, b, maxJoin); err != nil {
		return nil, err
	}
	cands := make([]Pair, 0, len(a)*len(b))
	for i := range a {
		for j := range b {
			if d := math.Abs(a[i] - b[j]); d <= maxJoin {
				cands = append(cands, Pair{A: i, B: j, Cost: d})
			}
		}
	}
	sort.SliceStable(cands, func(x, y int) bool {
		if cands[x].Cost != cands[y].Cost {
			return cands[x].Cost < cands[y].Cost
		}
		if cands[x].A != cands[y].A {
			return cands[x].A < cands[y].A
		}
		return cands[x].B < cands[y].B
	})

	usedA := make([]bool, len(a))
	usedB := make([]bool, len(b))
	out := make([]Pair, 0, min(len(a), len(b)))
	for _, c := range cands {
		if usedA[c.A] || usedB[c.B] {
			continue
		}
		usedA[c.A], usedB[c.B] = true, true
		out = append(out, c)
	}
	sort.Slice(out, func(x, y int) bool { return out[x].A < out[y].A })

	return out, nil
}

// move records which option produced a table cell.
type move uint8

const (
	moveNone move = iota
	movePair
	moveSkipA
	moveSkipB
)

type cell struct {
	pairs int
	cost  float64
	mv    move
}

// costSlack absorbs float noise when two alignments have equal cost.
const costSlack = 1e-12

func better(x, y cell) bool {
	if x.pairs != y.pairs {
		return x.pairs > y.pairs
	}

	return x.cost < y.cost-costSlack
}

// MatchOptimal computes the order-preserving alignment of a and b with the
// most pairs within maxJoin and, among those, the least total distance.
// On ties a pair is preferred over skipping a, and skipping a over skipping b.
func MatchOptimal(a, b []float64, maxJoin float64) ([]Pair, error) {
	if err := validate(a, b, maxJoin); err != nil {
		return nil, err
	}
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return nil, nil
	}

	// 1) Suffix table, zero-initialised border.
	dp := make([][]cell, n+1)
	for i := range dp {
		dp[i] = make([]cell, m+1)
	}

	// 2) Fill from the bottom-right corner.
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			best := cell{pairs: -1}
			if d := math.Abs(a[i] - b[j]); d <= maxJoin {
				nx := dp[i+1][j+1]
				best = cell{pairs: nx.pairs + 1, cost: nx.cost + d, mv: movePair}
			}
			if sa := dp[i+1][j]; best.pairs < 0 || better(sa, best) {
				best = cell{pairs: sa.pairs, cost: sa.cost, mv: moveSkipA}
			}
			if sb := dp[i][j+1]; better(sb, best) {
				best = cell{pairs: sb.pairs, cost: sb.cost, mv: moveSkipB}
			}
			dp[i][j] = best
		}
	}

	// 3) Backtrace.
	out := make([]Pair, 0, dp[0][0].pairs)
	i, j := 0, 0
	for i < n && j < m {
		switch dp[i][j].mv {
		case movePair:
			out = append(out, Pair{A: i, B: j, Cost: math.Abs(a[i] - b[j])})
			i++
			j++
		case moveSkipA:
			i++
		default:
			j++
		}
	}

	return out, nil
}
