package field

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// NewScalarField validates the axes and deep-copies all inputs.
//
// Steps:
//  1. Both axes need at least two samples (ErrEmptyAxis).
//  2. Both axes must be finite and strictly ascending (ErrUnsortedAxis).
//  3. len(values) must equal len(ages)*len(years) (ErrShapeMismatch).
//
// Values may contain NaN for missing cells.
// Complexity: O(rows·cols) time and memory.
func NewScalarField(ages, years, values []float64) (*ScalarField, error) {
	if len(ages) < 2 || len(years) < 2 {
		return nil, fmt.Errorf("%w (ages=%d, years=%d)", ErrEmptyAxis, len(ages), len(years))
	}
	if err := checkAxis("ages", ages); err != nil {
		return nil, err
	}
	if err := checkAxis("years", years); err != nil {
		return nil, err
	}
	if len(values) != len(ages)*len(years) {
		return nil, fmt.Errorf("%w: got %d, want %d×%d", ErrShapeMismatch, len(values), len(ages), len(years))
	}

	f := &ScalarField{
		ages:   append([]float64(nil), ages...),
		years:  append([]float64(nil), years...),
		values: append([]float64(nil), values...),
	}

	return f, nil
}

func checkAxis(name string, axis []float64) error {
	for i, v := range axis {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s[%d]=%g", ErrUnsortedAxis, name, i, v)
		}
		if i > 0 && v <= axis[i-1] {
			return fmt.Errorf("%w: %s[%d]=%g after %g", ErrUnsortedAxis, name, i, v, axis[i-1])
		}
	}

	return nil
}

// Rows returns the number of age samples.
func (f *ScalarField) Rows() int { return len(f.ages) }

// Cols returns the number of year samples.
func (f *ScalarField) Cols() int { return len(f.years) }

// Age returns the age of row r.
func (f *ScalarField) Age(r int) float64 { return f.ages[r] }

// Year returns the year of column c.
func (f *ScalarField) Year(c int) float64 { return f.years[c] }

// Ages returns a copy of the row axis.
func (f *ScalarField) Ages() []float64 { return append([]float64(nil), f.ages...) }

// Years returns a copy of the column axis.
func (f *ScalarField) Years() []float64 { return append([]float64(nil), f.years...) }

// At returns the value at row r, column c.
func (f *ScalarField) At(r, c int) float64 { return f.values[r*len(f.years)+c] }

// InBounds reports whether (r, c) addresses a sample.
func (f *ScalarField) InBounds(r, c int) bool {
	return r >= 0 && r < len(f.ages) && c >= 0 && c < len(f.years)
}

// Bounds returns the data-space rectangle spanned by the axes.
func (f *ScalarField) Bounds() Bounds {
	return Bounds{
		YearMin: f.years[0],
		YearMax: f.years[len(f.years)-1],
		AgeMin:  f.ages[0],
		AgeMax:  f.ages[len(f.ages)-1],
	}
}

// Max returns the largest finite value, or NaN when no value is finite.
func (f *ScalarField) Max() float64 {
	finite := f.finiteValues()
	if len(finite) == 0 {
		return math.NaN()
	}

	return floats.Max(finite)
}

// Min returns the smallest finite value, or NaN when no value is finite.
func (f *ScalarField) Min() float64 {
	finite := f.finiteValues()
	if len(finite) == 0 {
		return math.NaN()
	}

	return floats.Min(finite)
}

func (f *ScalarField) finiteValues() []float64 {
	out := make([]float64, 0, len(f.values))
	for _, v := range f.values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}

	return out
}

// AgeStep returns the median spacing of the age axis. It is the unit the
// stitcher and merger measure age distances in, so a few wide terminal bins
// (e.g. an open-ended "to 100" row) do not inflate it.
func (f *ScalarField) AgeStep() float64 { return medianStep(f.ages) }

// YearStep returns the median spacing of the year axis.
func (f *ScalarField) YearStep() float64 { return medianStep(f.years) }

// EdgeStep returns the spacing of the grid row or column adjacent to side s.
func (f *ScalarField) EdgeStep(s Side) float64 {
	switch s {
	case Top:
		return f.ages[1] - f.ages[0]
	case Bottom:
		return f.ages[len(f.ages)-1] - f.ages[len(f.ages)-2]
	case Left:
		return f.years[1] - f.years[0]
	default:
		return f.years[len(f.years)-1] - f.years[len(f.years)-2]
	}
}

func medianStep(axis []float64) float64 {
	diffs := make([]float64, len(axis)-1)
	for i := 1; i < len(axis); i++ {
		diffs[i-1] = axis[i] - axis[i-1]
	}
	sort.Float64s(diffs)
	n := len(diffs)
	if n%2 == 1 {
		return diffs[n/2]
	}

	return (diffs[n/2-1] + diffs[n/2]) / 2
}

// bracket returns the index i such that axis[i] <= x <= axis[i+1] and the
// fractional position of x inside that interval. ok is false when x lies
// outside the axis by more than eps.
func bracket(axis []float64, x, eps float64) (i int, u float64, ok bool) {
	n := len(axis)
	if x < axis[0]-eps || x > axis[n-1]+eps {
		return 0, 0, false
	}
	if x <= axis[0] {
		return 0, 0, true
	}
	if x >= axis[n-1] {
		return n - 2, 1, true
	}
	i = sort.SearchFloat64s(axis, x) // first index with axis[i] >= x
	if axis[i] == x {
		if i == n-1 {
			return n - 2, 1, true
		}
		return i, 0, true
	}
	i--

	return i, (x - axis[i]) / (axis[i+1] - axis[i]), true
}

// FractionalRow converts an age to a fractional row index.
// ok is false when age lies outside the axis by more than eps.
func (f *ScalarField) FractionalRow(age, eps float64) (float64, bool) {
	i, u, ok := bracket(f.ages, age, eps)
	return float64(i) + u, ok
}

// FractionalCol converts a year to a fractional column index.
func (f *ScalarField) FractionalCol(year, eps float64) (float64, bool) {
	i, u, ok := bracket(f.years, year, eps)
	return float64(i) + u, ok
}

// AgeAtRow converts a fractional row index back to an age.
func (f *ScalarField) AgeAtRow(row float64) float64 { return axisAt(f.ages, row) }

// YearAtCol converts a fractional column index back to a year.
func (f *ScalarField) YearAtCol(col float64) float64 { return axisAt(f.years, col) }

func axisAt(axis []float64, pos float64) float64 {
	n := len(axis)
	if pos <= 0 {
		return axis[0]
	}
	if pos >= float64(n-1) {
		return axis[n-1]
	}
	i := int(math.Floor(pos))
	u := pos - float64(i)
	if u == 0 {
		return axis[i]
	}

	return axis[i] + u*(axis[i+1]-axis[i])
}
