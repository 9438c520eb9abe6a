// Package field defines the ScalarField grid the contour pipeline works on,
// the crossing interpolation along its rows and columns, contour level
// selection and a loader for tidy year/age/value tables.
package field

import (
	"fmt"

	"github.com/katalvlaran/isolines/contour"
)

// Sentinel errors for field construction and queries. Each one also matches
// contour.ErrInvalidInput under errors.Is.
var (
	// ErrEmptyAxis indicates an axis with fewer than two samples.
	ErrEmptyAxis = fmt.Errorf("%w: field: axis must have at least two samples", contour.ErrInvalidInput)

	// ErrUnsortedAxis indicates an axis that is not strictly ascending or
	// holds a non-finite sample.
	ErrUnsortedAxis = fmt.Errorf("%w: field: axis must be finite and strictly ascending", contour.ErrInvalidInput)

	// ErrShapeMismatch indicates len(values) != rows*cols.
	ErrShapeMismatch = fmt.Errorf("%w: field: values length does not match rows*cols", contour.ErrInvalidInput)

	// ErrDegenerateField indicates a field whose finite maximum is not positive.
	ErrDegenerateField = fmt.Errorf("%w: field: maximum value must be finite and positive", contour.ErrInvalidInput)

	// ErrBadStep indicates a non-positive or non-finite level step.
	ErrBadStep = fmt.Errorf("%w: field: level step must be finite and positive", contour.ErrInvalidInput)

	// ErrMissingColumn indicates a CSV header without a required column.
	ErrMissingColumn = fmt.Errorf("%w: field: missing required column", contour.ErrInvalidInput)
)

// Side names one of the four edges of the field rectangle.
// Top is the youngest age (age minimum), Bottom the oldest.
type Side int

const (
	// Top is the edge at the minimum age.
	Top Side = iota
	// Bottom is the edge at the maximum age.
	Bottom
	// Left is the edge at the minimum year.
	Left
	// Right is the edge at the maximum year.
	Right
)

// String returns the lower-case side name.
func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// ScalarField is a rows×cols grid of values indexed by two ascending axes.
// Rows follow Ages, columns follow Years; Values is row-major so that
// Values[r*cols+c] is the value at (Years[c], Ages[r]). NaN marks a missing
// cell. A ScalarField is immutable once built.
type ScalarField struct {
	ages   []float64
	years  []float64
	values []float64
}

// Bounds is the data-space rectangle covered by a field.
type Bounds struct {
	YearMin, YearMax float64
	AgeMin, AgeMax   float64
}

// Contains reports whether p lies inside b, allowing eps of slack.
func (b Bounds) Contains(p contour.Point, eps float64) bool {
	return p.Year >= b.YearMin-eps && p.Year <= b.YearMax+eps &&
		p.Age >= b.AgeMin-eps && p.Age <= b.AgeMax+eps
}

// OnSide reports whether p lies on side s within eps.
func (b Bounds) OnSide(p contour.Point, s Side, eps float64) bool {
	switch s {
	case Top:
		return abs(p.Age-b.AgeMin) <= eps
	case Bottom:
		return abs(p.Age-b.AgeMax) <= eps
	case Left:
		return abs(p.Year-b.YearMin) <= eps
	case Right:
		return abs(p.Year-b.YearMax) <= eps
	}

	return false
}

// OnBoundary reports whether p lies on any side within eps.
func (b Bounds) OnBoundary(p contour.Point, eps float64) bool {
	return b.OnSide(p, Top, eps) || b.OnSide(p, Bottom, eps) ||
		b.OnSide(p, Left, eps) || b.OnSide(p, Right, eps)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}
