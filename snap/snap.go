// Package snap moves run endpoints that stop short of, or overshoot, the
// field frame onto the exact crossing on that edge.
//
// For every endpoint of an open run, each side of the frame whose distance
// is at most one grid step (the spacing of the outermost row or column on
// that side) is a candidate. Candidates are ranked by distance divided by
// that step and tried in order; the first side that yields a crossing near
// the endpoint wins:
//
//   - top/bottom: the age is fixed at AgeMin/AgeMax and the nearest year
//     crossing of the edge row is taken,
//   - left/right: the year is fixed at YearMin/YearMax and the nearest age
//     crossing of the edge column is taken.
//
// Closed runs are left alone.
package snap

import (
	"errors"
	"math"
	"sort"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/field"
)

// ErrNilField indicates Snap was called without a field.
var ErrNilField = errors.New("snap: field is nil")

// Options configures Snap.
type Options struct {
	// Epsilon is the crossing inclusion slack and the "did it move" test.
	Epsilon float64

	// DedupEpsilon collapses a snapped endpoint into its neighbour.
	DedupEpsilon float64

	// WindowSteps bounds how far along the edge a crossing may be from the
	// endpoint, in grid steps of the edge's axis.
	WindowSteps float64
}

// DefaultOptions returns the default tolerances and a one-step window.
func DefaultOptions() Options {
	t := contour.DefaultTolerances()

	return Options{Epsilon: t.Epsilon, DedupEpsilon: t.DedupEpsilon, WindowSteps: 1}
}

type candidate struct {
	side field.Side
	norm float64
}

// Snap returns copies of runs with boundary endpoints moved onto the frame,
// and the number of endpoints that moved.
func Snap(f *field.ScalarField, level float64, runs []contour.Run, opts Options) ([]contour.Run, int, error) {
	if f == nil {
		return nil, 0, ErrNilField
	}
	s := snapper{f: f, level: level, opts: opts, b: f.Bounds()}
	out := make([]contour.Run, len(runs))
	moved := 0
	for i, r := range runs {
		out[i] = r
		if len(r) < 2 || r.IsClosed(opts.Epsilon) {
			continue
		}
		next := r.Clone()
		n := 0
		if p, ok := s.endpoint(next.First()); ok {
			next[0] = p
			n++
		}
		if p, ok := s.endpoint(next.Last()); ok {
			next[len(next)-1] = p
			n++
		}
		if n == 0 {
			continue
		}
		if next = contour.Dedup(next, opts.DedupEpsilon); len(next) < 2 {
			continue
		}
		out[i] = next
		moved += n
	}

	return out, moved, nil
}

type snapper struct {
	f     *field.ScalarField
	level float64
	opts  Options
	b     field.Bounds
}

// endpoint returns the snapped position of p; ok is false when p stays.
func (s snapper) endpoint(p contour.Point) (contour.Point, bool) {
	for _, c := range s.candidates(p) {
		q, found := s.onSide(p, c.side)
		if !found {
			continue
		}
		if q.Near(p, s.opts.Epsilon) {
			return p, false
		}
		return q, true
	}

	return p, false
}

func (s snapper) candidates(p contour.Point) []candidate {
	dist := [...]float64{
		field.Top:    p.Age - s.b.AgeMin,
		field.Bottom: s.b.AgeMax - p.Age,
		field.Left:   p.Year - s.b.YearMin,
		field.Right:  s.b.YearMax - p.Year,
	}
	var cs []candidate
	for _, side := range []field.Side{field.Top, field.Bottom, field.Left, field.Right} {
		step := s.f.EdgeStep(side)
		d := math.Abs(dist[side])
		if d <= step+s.opts.Epsilon {
			cs = append(cs, candidate{side: side, norm: d / step})
		}
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].norm < cs[j].norm })

	return cs
}

func (s snapper) onSide(p contour.Point, side field.Side) (contour.Point, bool) {
	eps := s.opts.Epsilon
	switch side {
	case field.Top, field.Bottom:
		age := s.b.AgeMin
		if side == field.Bottom {
			age = s.b.AgeMax
		}
		y, ok := s.f.NearestYearCrossing(age, s.level, p.Year, eps)
		if !ok || math.Abs(y-p.Year) > s.opts.WindowSteps*s.f.YearStep()+eps {
			return p, false
		}
		return contour.Point{Year: y, Age: age}, true
	default:
		year := s.b.YearMin
		if side == field.Right {
			year = s.b.YearMax
		}
		a, ok := s.f.NearestAgeCrossing(year, s.level, p.Age, eps)
		if !ok || math.Abs(a-p.Age) > s.opts.WindowSteps*s.f.AgeStep()+eps {
			return p, false
		}
		return contour.Point{Year: year, Age: a}, true
	}
}
