package contour

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Point is a location in data space: a calendar year and an age.
// The JSON field names are a compatibility contract with the renderer.
type Point struct {
	Year float64 `json:"year"`
	Age  float64 `json:"age"`
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Year) && !math.IsInf(p.Year, 0) &&
		!math.IsNaN(p.Age) && !math.IsInf(p.Age, 0)
}

// Near reports whether p and q differ by at most eps on both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.Year-q.Year) <= eps && math.Abs(p.Age-q.Age) <= eps
}

// String renders the point as "(year, age)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.Year, p.Age)
}

// Run is an ordered polyline of data-space points.
// A normalized run always holds at least two points.
type Run []Point

// LevelResult is the persisted unit: one contour level and the disjoint runs
// drawn at that level. Runs is never empty in a pipeline result; a level with
// a single polyline is simply a list of one.
type LevelResult struct {
	Level float64
	Runs  []Run
}

// levelPoints is the single-run wire shape.
type levelPoints struct {
	Level  float64 `json:"level"`
	Points Run     `json:"points"`
}

// levelRuns is the multi-run wire shape.
type levelRuns struct {
	Level float64 `json:"level"`
	Runs  []Run   `json:"runs"`
}

// MarshalJSON writes {"level","points"} for single-run levels and
// {"level","runs"} otherwise.
func (lr LevelResult) MarshalJSON() ([]byte, error) {
	if len(lr.Runs) == 1 {
		return json.Marshal(levelPoints{Level: lr.Level, Points: lr.Runs[0]})
	}
	runs := lr.Runs
	if runs == nil {
		runs = []Run{}
	}

	return json.Marshal(levelRuns{Level: lr.Level, Runs: runs})
}

// UnmarshalJSON accepts both wire shapes.
func (lr *LevelResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Level  *float64         `json:"level"`
		Points *json.RawMessage `json:"points"`
		Runs   *json.RawMessage `json:"runs"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw.Level == nil {
		return fmt.Errorf("%w: contour record without level", ErrInvalidInput)
	}
	if (raw.Points == nil) == (raw.Runs == nil) {
		return fmt.Errorf("%w: level %g must carry exactly one of points or runs", ErrInvalidInput, *raw.Level)
	}
	lr.Level = *raw.Level
	lr.Runs = nil
	if raw.Points != nil {
		var pts Run
		if err := json.Unmarshal(*raw.Points, &pts); err != nil {
			return err
		}
		lr.Runs = []Run{pts}

		return nil
	}

	return json.Unmarshal(*raw.Runs, &lr.Runs)
}

// PointCount returns the number of points across all runs.
func (lr LevelResult) PointCount() int {
	n := 0
	for _, r := range lr.Runs {
		n += len(r)
	}

	return n
}
