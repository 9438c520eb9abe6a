package field

import (
	"math"
	"sort"
)

// Interpolate locates level between two samples v0 and v1.
//
// It returns the interpolation parameter t ∈ [0, 1] such that
// v0 + t·(v1-v0) == level. ok is false when either sample is not finite,
// when the samples are equal, or when t falls outside [-eps, 1+eps].
// Values of t within the eps slack are clamped onto [0, 1].
func Interpolate(v0, v1, level, eps float64) (t float64, ok bool) {
	if !finite(v0) || !finite(v1) || v0 == v1 {
		return 0, false
	}
	t = (level - v0) / (v1 - v0)
	if t < -eps || t > 1+eps {
		return 0, false
	}

	return math.Min(1, math.Max(0, t)), true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// CrossingAgesForCol returns the ages at which column c crosses level,
// sorted ascending with duplicates (within eps) removed.
//
// Every adjacent row pair (r, r+1) with finite, distinct values bracketing
// level contributes age[r] + t·(age[r+1]-age[r]).
// Complexity: O(rows).
func (f *ScalarField) CrossingAgesForCol(c int, level, eps float64) []float64 {
	if c < 0 || c >= f.Cols() {
		return nil
	}
	out := make([]float64, 0, 4)
	for r := 0; r+1 < f.Rows(); r++ {
		t, ok := Interpolate(f.At(r, c), f.At(r+1, c), level, eps)
		if !ok {
			continue
		}
		out = append(out, f.ages[r]+t*(f.ages[r+1]-f.ages[r]))
	}

	return sortUnique(out, eps)
}

// CrossingYearsForRow returns the years at which row r crosses level,
// sorted ascending with duplicates removed. It is the fixed-age counterpart
// of CrossingAgesForCol, used on the top and bottom edges.
func (f *ScalarField) CrossingYearsForRow(r int, level, eps float64) []float64 {
	if r < 0 || r >= f.Rows() {
		return nil
	}
	out := make([]float64, 0, 4)
	for c := 0; c+1 < f.Cols(); c++ {
		t, ok := Interpolate(f.At(r, c), f.At(r, c+1), level, eps)
		if !ok {
			continue
		}
		out = append(out, f.years[c]+t*(f.years[c+1]-f.years[c]))
	}

	return sortUnique(out, eps)
}

// columnProfile returns the age profile of the field at an arbitrary year,
// linearly interpolated between the two bracketing columns. A sample is NaN
// when either contributing value is missing.
func (f *ScalarField) columnProfile(year, eps float64) ([]float64, bool) {
	c, u, ok := bracket(f.years, year, eps)
	if !ok {
		return nil, false
	}
	prof := make([]float64, f.Rows())
	for r := range prof {
		switch u {
		case 0:
			prof[r] = f.At(r, c)
		case 1:
			prof[r] = f.At(r, c+1)
		default:
			prof[r] = f.At(r, c) + u*(f.At(r, c+1)-f.At(r, c))
		}
	}

	return prof, true
}

// rowProfile is the fixed-age counterpart of columnProfile.
func (f *ScalarField) rowProfile(age, eps float64) ([]float64, bool) {
	r, u, ok := bracket(f.ages, age, eps)
	if !ok {
		return nil, false
	}
	prof := make([]float64, f.Cols())
	for c := range prof {
		switch u {
		case 0:
			prof[c] = f.At(r, c)
		case 1:
			prof[c] = f.At(r+1, c)
		default:
			prof[c] = f.At(r, c) + u*(f.At(r+1, c)-f.At(r, c))
		}
	}

	return prof, true
}

func profileCrossings(axis, prof []float64, level, eps float64) []float64 {
	out := make([]float64, 0, 4)
	for i := 0; i+1 < len(prof); i++ {
		t, ok := Interpolate(prof[i], prof[i+1], level, eps)
		if !ok {
			continue
		}
		out = append(out, axis[i]+t*(axis[i+1]-axis[i]))
	}

	return sortUnique(out, eps)
}

// AgeCrossingsAtYear returns every age at which the column profile at year
// crosses level. year need not fall on a grid column.
func (f *ScalarField) AgeCrossingsAtYear(year, level, eps float64) []float64 {
	prof, ok := f.columnProfile(year, eps)
	if !ok {
		return nil
	}

	return profileCrossings(f.ages, prof, level, eps)
}

// YearCrossingsAtAge returns every year at which the row profile at age
// crosses level.
func (f *ScalarField) YearCrossingsAtAge(age, level, eps float64) []float64 {
	prof, ok := f.rowProfile(age, eps)
	if !ok {
		return nil
	}

	return profileCrossings(f.years, prof, level, eps)
}

// FractionalAgeAtYear returns the youngest age at which the field, sampled
// at year, equals level. For survivorship tables, which decrease with age,
// this is the unique crossing.
func (f *ScalarField) FractionalAgeAtYear(year, level, eps float64) (float64, bool) {
	xs := f.AgeCrossingsAtYear(year, level, eps)
	if len(xs) == 0 {
		return 0, false
	}

	return xs[0], true
}

// FractionalYearAtAge returns the earliest year at which the field, sampled
// at age, equals level.
func (f *ScalarField) FractionalYearAtAge(age, level, eps float64) (float64, bool) {
	xs := f.YearCrossingsAtAge(age, level, eps)
	if len(xs) == 0 {
		return 0, false
	}

	return xs[0], true
}

// NearestAgeCrossing returns the crossing age at year closest to nearAge.
func (f *ScalarField) NearestAgeCrossing(year, level, nearAge, eps float64) (float64, bool) {
	return nearest(f.AgeCrossingsAtYear(year, level, eps), nearAge)
}

// NearestYearCrossing returns the crossing year at age closest to nearYear.
func (f *ScalarField) NearestYearCrossing(age, level, nearYear, eps float64) (float64, bool) {
	return nearest(f.YearCrossingsAtAge(age, level, eps), nearYear)
}

func nearest(xs []float64, target float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	best := xs[0]
	for _, x := range xs[1:] {
		if math.Abs(x-target) < math.Abs(best-target) {
			best = x
		}
	}

	return best, true
}

func sortUnique(xs []float64, eps float64) []float64 {
	if len(xs) < 2 {
		return xs
	}
	sort.Float64s(xs)
	out := xs[:1]
	for _, x := range xs[1:] {
		if x-out[len(out)-1] <= eps {
			continue
		}
		out = append(out, x)
	}

	return out
}
