// Package override holds the declarative repair table for known-bad levels
// and applies its graph-surgery edits.
//
// Automatic stitching has no proof of global correctness, and a few levels
// of real datasets come out wrong. Instead of special-casing them in code,
// repairs are data: a versioned YAML table keyed by (dataset, level) that
// lists edge edits, anchor points for shortest-path anchoring and whether the
// merger's ridge check applies.
//
//	version: 1
//	entries:
//	  - dataset: usa
//	    level: 20000000
//	    ridge_check: true
//	    edits:
//	      - op: remove
//	        from: {run: 0, point: 12}
//	        to:   {run: 0, point: 13}
//	      - op: add
//	        from: {year: 1950, age: 40}
//	        to:   {year: 1955, age: 41.5}
//	    anchors:
//	      - start: {year: 1900, age: 0}
//	        end:   {year: 2020, age: 85}
//	        via:   {year: 1960, age: 50}
package override

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/isolines/contour"
)

// CurrentVersion is the table format this package reads.
const CurrentVersion = 1

var (
	// ErrBadTable indicates a malformed or inconsistent override table.
	ErrBadTable = fmt.Errorf("%w: override: bad table", contour.ErrInvalidInput)

	// ErrBadRef indicates a reference that is malformed or names no node.
	ErrBadRef = fmt.Errorf("%w: override: unresolved reference", contour.ErrInvalidInput)

	// ErrBadEdit indicates an edit that cannot be applied.
	ErrBadEdit = fmt.Errorf("%w: override: bad edit", contour.ErrInvalidInput)

	errMissingVersion = errors.New("missing version")
)

// Op is an edit operation.
type Op string

const (
	// OpAdd connects two nodes.
	OpAdd Op = "add"
	// OpRemove disconnects two adjacent nodes.
	OpRemove Op = "remove"
)

// Ref names a graph node either by position in the pre-edit runs
// (Run, Point) or by coordinate (Year, Age).
type Ref struct {
	Run   *int     `yaml:"run,omitempty"`
	Point *int     `yaml:"point,omitempty"`
	Year  *float64 `yaml:"year,omitempty"`
	Age   *float64 `yaml:"age,omitempty"`
}

// IndexRef builds a (run, point) reference.
func IndexRef(run, point int) Ref { return Ref{Run: &run, Point: &point} }

// PointRef builds a coordinate reference.
func PointRef(year, age float64) Ref { return Ref{Year: &year, Age: &age} }

func (r Ref) byIndex() bool { return r.Run != nil && r.Point != nil && r.Year == nil && r.Age == nil }
func (r Ref) byCoord() bool { return r.Run == nil && r.Point == nil && r.Year != nil && r.Age != nil }

// String renders the reference for error messages.
func (r Ref) String() string {
	switch {
	case r.byIndex():
		return fmt.Sprintf("run %d point %d", *r.Run, *r.Point)
	case r.byCoord():
		return contour.Point{Year: *r.Year, Age: *r.Age}.String()
	}

	return "invalid ref"
}

// Edit is one graph-surgery step.
type Edit struct {
	Op   Op  `yaml:"op"`
	From Ref `yaml:"from"`
	To   Ref `yaml:"to"`
}

// Anchor pins an anchored run to a start and end point and, optionally, a
// point it must pass through.
type Anchor struct {
	Start contour.Point  `yaml:"start"`
	End   contour.Point  `yaml:"end"`
	Via   *contour.Point `yaml:"via,omitempty"`
}

// Entry is the repair recipe of one (dataset, level).
type Entry struct {
	Dataset    string   `yaml:"dataset"`
	Level      float64  `yaml:"level"`
	RidgeCheck bool     `yaml:"ridge_check"`
	Edits      []Edit   `yaml:"edits"`
	Anchors    []Anchor `yaml:"anchors"`
}

// Table is the full override table.
type Table struct {
	Version int     `yaml:"version"`
	Entries []Entry `yaml:"entries"`
}

// Load decodes and validates a table. Unknown keys are rejected.
func Load(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var t Table
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{Version: CurrentVersion}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return &t, nil
}

// LoadFile reads a table from path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("override: read %s: %w", path, err)
	}
	t, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// Validate checks versions, keys and every edit and anchor.
func (t *Table) Validate() error {
	if t.Version == 0 {
		return fmt.Errorf("%w: %v", ErrBadTable, errMissingVersion)
	}
	if t.Version != CurrentVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrBadTable, t.Version, CurrentVersion)
	}
	type key struct {
		ds    string
		level float64
	}
	seen := make(map[key]bool, len(t.Entries))
	for i, e := range t.Entries {
		if e.Dataset == "" || !(e.Level > 0) || math.IsInf(e.Level, 0) {
			return fmt.Errorf("%w: entry %d needs a dataset and a positive level", ErrBadTable, i)
		}
		k := key{e.Dataset, e.Level}
		if seen[k] {
			return fmt.Errorf("%w: duplicate entry %s/%g", ErrBadTable, e.Dataset, e.Level)
		}
		seen[k] = true
		for j, ed := range e.Edits {
			if ed.Op != OpAdd && ed.Op != OpRemove {
				return fmt.Errorf("%w: %s/%g edit %d: op %q", ErrBadEdit, e.Dataset, e.Level, j, ed.Op)
			}
			for _, r := range []Ref{ed.From, ed.To} {
				if !r.byIndex() && !r.byCoord() {
					return fmt.Errorf("%w: %s/%g edit %d needs {run, point} or {year, age}", ErrBadRef, e.Dataset, e.Level, j)
				}
			}
		}
		for j, a := range e.Anchors {
			ok := a.Start.IsFinite() && a.End.IsFinite() && (a.Via == nil || a.Via.IsFinite())
			if !ok {
				return fmt.Errorf("%w: %s/%g anchor %d is not finite", ErrBadTable, e.Dataset, e.Level, j)
			}
		}
	}

	return nil
}

// Lookup returns the entry for dataset and level. Levels match within a
// relative tolerance of 1e-9.
func (t *Table) Lookup(dataset string, level float64) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	for _, e := range t.Entries {
		if e.Dataset == dataset && math.Abs(e.Level-level) <= 1e-9*math.Max(1, math.Abs(level)) {
			return e, true
		}
	}

	return Entry{}, false
}
