package merge

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/field"
)

// ErrBadUnits indicates a non-positive grid unit.
var ErrBadUnits = errors.New("merge: grid units must be positive")

// Options configures Merge.
type Options struct {
	// Bounds is the field frame used by the boundary rules.
	Bounds field.Bounds

	// YearUnit and AgeUnit are the grid cell size used to measure distance
	// and tangents.
	YearUnit, AgeUnit float64

	JoinToleranceInCells float64
	BoundaryJoinFactor   float64
	TangentDotMin        float64

	// RidgeCheck enables the slope-sign rule for the level being merged.
	RidgeCheck bool

	// Epsilon is the boundary and coincidence tolerance.
	Epsilon float64
}

// NewOptions derives Options from a field and a tolerance set.
func NewOptions(f *field.ScalarField, t contour.Tolerances) Options {
	return Options{
		Bounds:               f.Bounds(),
		YearUnit:             f.YearStep(),
		AgeUnit:              f.AgeStep(),
		JoinToleranceInCells: t.JoinToleranceInCells,
		BoundaryJoinFactor:   t.BoundaryJoinFactor,
		TangentDotMin:        t.TangentDotMin,
		Epsilon:              t.Epsilon,
	}
}

// Config names one of the four endpoint pairings of runs a and b.
type Config int

const (
	// EndStart joins the end of a to the start of b.
	EndStart Config = iota
	// EndEnd joins the end of a to the end of b.
	EndEnd
	// StartStart joins the start of a to the start of b.
	StartStart
	// StartEnd joins the start of a to the end of b.
	StartEnd
)

var configs = [...]Config{EndStart, EndEnd, StartStart, StartEnd}

// String returns a short configuration name.
func (c Config) String() string {
	switch c {
	case EndStart:
		return "end-start"
	case EndEnd:
		return "end-end"
	case StartStart:
		return "start-start"
	case StartEnd:
		return "start-end"
	}

	return fmt.Sprintf("config(%d)", int(c))
}

// endpoint is one end of a run with its outward tangent in grid units.
type endpoint struct {
	p   contour.Point
	out r2.Point
}

func (o Options) toGrid(p contour.Point) r2.Point {
	return r2.Point{X: p.Year / o.YearUnit, Y: p.Age / o.AgeUnit}
}

// ends returns the start or end of r with its outward tangent.
func (o Options) ends(r contour.Run, atEnd bool) endpoint {
	if atEnd {
		n := len(r)
		return endpoint{p: r[n-1], out: o.toGrid(r[n-1]).Sub(o.toGrid(r[n-2])).Normalize()}
	}

	return endpoint{p: r[0], out: o.toGrid(r[0]).Sub(o.toGrid(r[1])).Normalize()}
}

// CanJoin reports whether runs a and b may be joined in configuration c.
func CanJoin(a, b contour.Run, c Config, o Options) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	ea := o.ends(a, c == EndStart || c == EndEnd)
	eb := o.ends(b, c == EndEnd || c == StartEnd)

	// 1) Distance, tighter on the frame.
	tol := o.JoinToleranceInCells
	onA := o.Bounds.OnBoundary(ea.p, o.Epsilon)
	onB := o.Bounds.OnBoundary(eb.p, o.Epsilon)
	if onA || onB {
		tol *= o.BoundaryJoinFactor
	}
	if o.toGrid(ea.p).Sub(o.toGrid(eb.p)).Norm() > tol {
		return false
	}

	// 2) Tangents must oppose; a degenerate tangent never qualifies.
	if ea.out.Norm() == 0 || eb.out.Norm() == 0 {
		return false
	}
	if ea.out.Dot(eb.out) > -o.TangentDotMin {
		return false
	}

	// 3) Not both on the top edge, not both on the bottom edge.
	for _, s := range []field.Side{field.Top, field.Bottom} {
		if o.Bounds.OnSide(ea.p, s, o.Epsilon) && o.Bounds.OnSide(eb.p, s, o.Epsilon) {
			return false
		}
	}

	// 4) Slope signs agree across the join.
	if o.RidgeCheck {
		sa, sb := slopeSign(ea.out), slopeSign(eb.out)
		if sa != 0 && sb != 0 && sa != sb {
			return false
		}
	}

	return true
}

// slopeSign is the sign of dAge/dYear along t; it does not depend on the
// direction of travel.
func slopeSign(t r2.Point) int {
	switch s := t.X * t.Y; {
	case s > 0:
		return 1
	case s < 0:
		return -1
	}

	return 0
}

// Join concatenates a and b in configuration c, reversing as needed. A
// shared point at the join is kept once.
func Join(a, b contour.Run, c Config, eps float64) contour.Run {
	var head, tail contour.Run
	switch c {
	case EndStart:
		head, tail = a, b
	case EndEnd:
		head, tail = a, b.Reverse()
	case StartStart:
		head, tail = a.Reverse(), b
	default:
		head, tail = b, a
	}
	out := make(contour.Run, 0, len(head)+len(tail))
	out = append(out, head...)
	if head.Last().Near(tail.First(), eps) {
		tail = tail[1:]
	}

	return append(out, tail...)
}

// Merge repeatedly joins the first qualifying pair of open runs and returns
// the resulting runs together with the number of joins made. The input
// slice is not modified.
func Merge(runs []contour.Run, o Options) ([]contour.Run, int, error) {
	if !(o.YearUnit > 0) || !(o.AgeUnit > 0) || math.IsInf(o.YearUnit, 0) || math.IsInf(o.AgeUnit, 0) {
		return nil, 0, fmt.Errorf("%w: year %g age %g", ErrBadUnits, o.YearUnit, o.AgeUnit)
	}
	out := append([]contour.Run(nil), runs...)
	merged := 0
	for {
		i, j, c, ok := findJoin(out, o)
		if !ok {
			return out, merged, nil
		}
		out[i] = Join(out[i], out[j], c, o.Epsilon)
		out = append(out[:j], out[j+1:]...)
		merged++
	}
}

func findJoin(runs []contour.Run, o Options) (int, int, Config, bool) {
	for i := 0; i < len(runs); i++ {
		if runs[i].IsClosed(o.Epsilon) {
			continue
		}
		for j := i + 1; j < len(runs); j++ {
			if runs[j].IsClosed(o.Epsilon) {
				continue
			}
			for _, c := range configs {
				if CanJoin(runs[i], runs[j], c, o) {
					return i, j, c, true
				}
			}
		}
	}

	return 0, 0, 0, false
}
