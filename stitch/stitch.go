// Package stitch implements the column-crossing stitcher: the primary
// strategy for turning a level of a ScalarField into polyline runs.
//
// The field is swept column by column. Every column contributes its sorted
// crossing ages for the level; a set of "active" partial runs, each
// remembering the age it last reached, is paired against those crossings
// with a matching policy:
//
//   - matched crossings extend their run by one point,
//   - unmatched active runs end (or wait one column when bridging),
//   - unmatched crossings start new runs.
//
// Bridging lets a run that found no partner in column c try again in column
// c+1 with a wider join distance, which recovers runs broken by a single
// missing or degenerate column. Ambiguity is settled by minimum traversed
// age distance, not by a geometric proof; visually contiguous stitching wins
// over provable correctness.
package stitch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/field"
	"github.com/katalvlaran/isolines/matching"
)

// ErrNilField indicates Stitch was called without a field.
var ErrNilField = errors.New("stitch: field is nil")

// Options configures a sweep.
type Options struct {
	// Policy selects greedy or optimal pairing.
	Policy matching.Policy

	// MaxJoinAgeSteps bounds the join distance: maxJoinAge = steps·AgeStep.
	MaxJoinAgeSteps float64

	// Bridge enables one-column bridges.
	Bridge bool

	// BridgeFactor multiplies maxJoinAge for bridge joins.
	BridgeFactor float64

	// Epsilon is the crossing inclusion slack.
	Epsilon float64
}

// DefaultOptions returns optimal pairing with bridging and the default
// tolerances.
func DefaultOptions() Options {
	t := contour.DefaultTolerances()

	return Options{
		Policy:          matching.Optimal,
		MaxJoinAgeSteps: t.MaxJoinAgeSteps,
		Bridge:          true,
		BridgeFactor:    t.BridgeFactor,
		Epsilon:         t.Epsilon,
	}
}

// partial is a run still being built during the sweep.
type partial struct {
	pts     contour.Run
	lastAge float64
}

func (p *partial) extend(year, age float64) {
	p.pts = append(p.pts, contour.Point{Year: year, Age: age})
	p.lastAge = age
}

// sweep holds the mutable state of one Stitch call.
type sweep struct {
	f       *field.ScalarField
	level   float64
	opts    Options
	maxJoin float64
	active  []*partial
	pending []*partial
	done    []contour.Run
}

// Stitch sweeps f left to right and returns the runs of one level in the
// order they ended. Partial runs that never grew past one point are
// dropped.
//
// Complexity: O(cols · (rows + k²)) where k is the number of crossings per
// column.
func Stitch(f *field.ScalarField, level float64, opts Options) ([]contour.Run, error) {
	if f == nil {
		return nil, ErrNilField
	}
	s := &sweep{
		f:       f,
		level:   level,
		opts:    opts,
		maxJoin: opts.MaxJoinAgeSteps * f.AgeStep(),
	}
	for c := 0; c < f.Cols(); c++ {
		if err := s.column(c); err != nil {
			return nil, fmt.Errorf("stitch: level %g column %d: %w", level, c, err)
		}
	}
	s.flushAll(s.active)
	s.flushAll(s.pending)

	return s.done, nil
}

// column advances the sweep by one column.
func (s *sweep) column(c int) error {
	xs := s.f.CrossingAgesForCol(c, s.level, s.opts.Epsilon)
	year := s.f.Year(c)
	used := make([]bool, len(xs))

	// 1) Pair active runs against the column.
	sortByLastAge(s.active)
	pairs, err := matching.Match(s.opts.Policy, lastAges(s.active), xs, s.maxJoin)
	if err != nil {
		return err
	}
	matched := make([]bool, len(s.active))
	next := make([]*partial, 0, len(xs))
	for _, p := range pairs {
		s.active[p.A].extend(year, xs[p.B])
		matched[p.A] = true
		used[p.B] = true
	}
	for i, a := range s.active {
		if matched[i] {
			next = append(next, a)
		}
	}

	// 2) Runs that skipped the previous column get one more chance.
	if len(s.pending) > 0 {
		restIdx := make([]int, 0, len(xs))
		for j := range xs {
			if !used[j] {
				restIdx = append(restIdx, j)
			}
		}
		rest := make([]float64, len(restIdx))
		for k, j := range restIdx {
			rest[k] = xs[j]
		}
		sortByLastAge(s.pending)
		bridged, err := matching.Match(s.opts.Policy, lastAges(s.pending), rest, s.maxJoin*s.opts.BridgeFactor)
		if err != nil {
			return err
		}
		revived := make([]bool, len(s.pending))
		for _, p := range bridged {
			j := restIdx[p.B]
			s.pending[p.A].extend(year, xs[j])
			revived[p.A] = true
			used[j] = true
		}
		for i, p := range s.pending {
			if revived[i] {
				next = append(next, p)
			} else {
				s.flush(p)
			}
		}
		s.pending = nil
	}

	// 3) Active runs without a partner end here, or wait when bridging.
	for i, a := range s.active {
		if matched[i] {
			continue
		}
		if s.opts.Bridge {
			s.pending = append(s.pending, a)
		} else {
			s.flush(a)
		}
	}

	// 4) Leftover crossings open new runs.
	for j, x := range xs {
		if used[j] {
			continue
		}
		p := &partial{}
		p.extend(year, x)
		next = append(next, p)
	}
	s.active = next

	return nil
}

func (s *sweep) flush(p *partial) {
	if len(p.pts) >= 2 {
		s.done = append(s.done, p.pts)
	}
}

func (s *sweep) flushAll(ps []*partial) {
	sortByLastAge(ps)
	for _, p := range ps {
		s.flush(p)
	}
}

func sortByLastAge(ps []*partial) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].lastAge < ps[j].lastAge })
}

func lastAges(ps []*partial) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.lastAge
	}

	return out
}
