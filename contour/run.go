package contour

import (
	"github.com/ctessum/geom"
)

// First returns the first point of r. r must not be empty.
func (r Run) First() Point { return r[0] }

// Last returns the last point of r. r must not be empty.
func (r Run) Last() Point { return r[len(r)-1] }

// Clone returns a copy of r with its own backing array.
func (r Run) Clone() Run {
	if r == nil {
		return nil
	}
	out := make(Run, len(r))
	copy(out, r)

	return out
}

// Reverse returns a reversed copy of r.
func (r Run) Reverse() Run {
	out := make(Run, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}

	return out
}

// IsClosed reports whether r has at least three points and its first and
// last points coincide within eps.
func (r Run) IsClosed(eps float64) bool {
	if len(r) < 3 {
		return false
	}

	return r.First().Near(r.Last(), eps)
}

// lineString views r as a geom.LineString with X=year, Y=age.
func (r Run) lineString() geom.LineString {
	ls := make(geom.LineString, len(r))
	for i, p := range r {
		ls[i] = geom.Point{X: p.Year, Y: p.Age}
	}

	return ls
}

// Area returns the enclosed area of a closed run using the shoelace formula,
// in year·age units. Open runs have zero area. The result is never negative.
func (r Run) Area(eps float64) float64 {
	if !r.IsClosed(eps) {
		return 0
	}

	return geom.Polygon{[]geom.Point(r.lineString())}.Area()
}

// Length returns the polyline length in year·age units.
func (r Run) Length() float64 {
	return r.lineString().Length()
}

// Bounds returns the minimum and maximum corners of r.
// For an empty run both corners are the zero point.
func (r Run) Bounds() (lo, hi Point) {
	if len(r) == 0 {
		return Point{}, Point{}
	}
	b := r.lineString().Bounds()

	return Point{Year: b.Min.X, Age: b.Min.Y}, Point{Year: b.Max.X, Age: b.Max.Y}
}

// BBoxArea returns the area of r's bounding box after dividing the year
// extent by yearUnit and the age extent by ageUnit. Passing the grid steps
// yields an area in grid cells.
func (r Run) BBoxArea(yearUnit, ageUnit float64) float64 {
	if len(r) == 0 || yearUnit <= 0 || ageUnit <= 0 {
		return 0
	}
	lo, hi := r.Bounds()

	return (hi.Year - lo.Year) / yearUnit * (hi.Age - lo.Age) / ageUnit
}
