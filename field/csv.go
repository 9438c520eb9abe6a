package field

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Column aliases accepted in a tidy table header (case-insensitive).
var (
	yearColumns  = []string{"year"}
	ageColumns   = []string{"age"}
	valueColumns = []string{"survivors", "value", "population"}
)

// LoadCSV reads a tidy year,age,value table and builds the ScalarField.
//
// The header must name a year, an age and a value column (survivors, value
// or population), in any order and case. Rows whose three fields do not all
// parse as finite numbers are skipped. Grid cells absent from the table are
// NaN. A repeated (year, age) pair keeps its last value.
func LoadCSV(r io.Reader) (*ScalarField, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty table", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("field: read header: %w", err)
	}
	yi, ai, vi, err := headerIndexes(header)
	if err != nil {
		return nil, err
	}

	type cell struct{ year, age, value float64 }
	var cells []cell
	yearSet := map[float64]struct{}{}
	ageSet := map[float64]struct{}{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("field: read row: %w", err)
		}
		y, okY := parseField(rec, yi)
		a, okA := parseField(rec, ai)
		v, okV := parseField(rec, vi)
		if !okY || !okA || !okV {
			continue
		}
		cells = append(cells, cell{y, a, v})
		yearSet[y] = struct{}{}
		ageSet[a] = struct{}{}
	}

	years := sortedKeys(yearSet)
	ages := sortedKeys(ageSet)
	values := make([]float64, len(years)*len(ages))
	for i := range values {
		values[i] = math.NaN()
	}
	yIdx := indexOf(years)
	aIdx := indexOf(ages)
	for _, c := range cells {
		values[aIdx[c.age]*len(years)+yIdx[c.year]] = c.value
	}

	return NewScalarField(ages, years, values)
}

// LoadCSVFile opens path and delegates to LoadCSV.
func LoadCSVFile(path string) (*ScalarField, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("field: open %s: %w", path, err)
	}
	defer fh.Close()

	f, err := LoadCSV(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

func headerIndexes(header []string) (yi, ai, vi int, err error) {
	find := func(names []string) int {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
			for _, n := range names {
				if h == n {
					return i
				}
			}
		}
		return -1
	}
	yi, ai, vi = find(yearColumns), find(ageColumns), find(valueColumns)
	switch {
	case yi < 0:
		return 0, 0, 0, fmt.Errorf("%w: year", ErrMissingColumn)
	case ai < 0:
		return 0, 0, 0, fmt.Errorf("%w: age", ErrMissingColumn)
	case vi < 0:
		return 0, 0, 0, fmt.Errorf("%w: survivors", ErrMissingColumn)
	}

	return yi, ai, vi, nil
}

func parseField(rec []string, i int) (float64, bool) {
	if i >= len(rec) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
	if err != nil || !finite(v) {
		return 0, false
	}

	return v, true
}

func sortedKeys(set map[float64]struct{}) []float64 {
	out := make([]float64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Float64s(out)

	return out
}

func indexOf(axis []float64) map[float64]int {
	m := make(map[float64]int, len(axis))
	for i, v := range axis {
		m[v] = i
	}

	return m
}
