package override_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/override"
)

const table = `
version: 1
entries:
  - dataset: usa
    level: 20000000
    ridge_check: true
    edits:
      - op: remove
        from: {run: 0, point: 1}
        to: {run: 0, point: 2}
      - op: add
        from: {year: 1950, age: 40}
        to: {year: 1955, age: 41.5}
    anchors:
      - start: {year: 1900, age: 0}
        end: {year: 2020, age: 85}
        via: {year: 1960, age: 50}
  - dataset: sweden
    level: 50000
`

func pt(year, age float64) contour.Point { return contour.Point{Year: year, Age: age} }

func TestLoad_AndLookup(t *testing.T) {
	tb, err := override.Load(strings.NewReader(table))
	require.NoError(t, err)
	require.Len(t, tb.Entries, 2)

	e, ok := tb.Lookup("usa", 2e7)
	require.True(t, ok)
	assert.True(t, e.RidgeCheck)
	require.Len(t, e.Edits, 2)
	assert.Equal(t, override.OpRemove, e.Edits[0].Op)
	assert.Equal(t, override.IndexRef(0, 1), e.Edits[0].From)
	assert.Equal(t, override.PointRef(1955, 41.5), e.Edits[1].To)
	require.Len(t, e.Anchors, 1)
	require.NotNil(t, e.Anchors[0].Via)
	assert.Equal(t, pt(1960, 50), *e.Anchors[0].Via)

	_, ok = tb.Lookup("usa", 1e7)
	assert.False(t, ok)
	_, ok = tb.Lookup("sweden", 50000*(1+1e-12))
	assert.True(t, ok, "levels match within a relative tolerance")

	var nilTable *override.Table
	_, ok = nilTable.Lookup("usa", 2e7)
	assert.False(t, ok)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"NoVersion":  "entries: []\n",
		"NewVersion": "version: 2\n",
		"UnknownKey": "version: 1\nentries:\n  - dataset: a\n    level: 1\n    colour: red\n",
		"BadOp":      "version: 1\nentries:\n  - dataset: a\n    level: 1\n    edits:\n      - op: swap\n        from: {run: 0, point: 0}\n        to: {run: 0, point: 1}\n",
		"MixedRef":   "version: 1\nentries:\n  - dataset: a\n    level: 1\n    edits:\n      - op: add\n        from: {run: 0, year: 1}\n        to: {run: 0, point: 1}\n",
		"Duplicate":  "version: 1\nentries:\n  - {dataset: a, level: 1}\n  - {dataset: a, level: 1}\n",
		"ZeroLevel":  "version: 1\nentries:\n  - {dataset: a, level: 0}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := override.Load(strings.NewReader(src))
			assert.ErrorIs(t, err, contour.ErrInvalidInput)
		})
	}
}

func TestLoad_EmptyDocument(t *testing.T) {
	tb, err := override.Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tb.Entries)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(table), 0o644))
	tb, err := override.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, tb.Entries, 2)

	_, err = override.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply_RemoveSplitsRun(t *testing.T) {
	runs := []contour.Run{{pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 0)}}
	out, err := override.Apply(runs, []override.Edit{
		{Op: override.OpRemove, From: override.IndexRef(0, 1), To: override.IndexRef(0, 2)},
	}, 1e-6)
	require.NoError(t, err)
	assert.Equal(t, []contour.Run{
		{pt(0, 0), pt(1, 0)},
		{pt(2, 0), pt(3, 0)},
	}, out)
}

func TestApply_AddJoinsRuns(t *testing.T) {
	runs := []contour.Run{
		{pt(0, 0), pt(1, 0)},
		{pt(2, 0), pt(3, 0)},
	}
	out, err := override.Apply(runs, []override.Edit{
		{Op: override.OpAdd, From: override.PointRef(1, 0), To: override.PointRef(2, 0)},
	}, 1e-6)
	require.NoError(t, err)
	assert.Equal(t, []contour.Run{{pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 0)}}, out)
}

func TestApply_RewiresWrongJoin(t *testing.T) {
	// Run 0 turned up into (3,1) where it should have continued into run 1.
	runs := []contour.Run{
		{pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 1)},
		{pt(3, 0), pt(4, 0)},
	}
	out, err := override.Apply(runs, []override.Edit{
		{Op: override.OpRemove, From: override.IndexRef(0, 2), To: override.IndexRef(0, 3)},
		{Op: override.OpAdd, From: override.IndexRef(0, 2), To: override.IndexRef(1, 0)},
	}, 1e-6)
	require.NoError(t, err)
	assert.Equal(t, []contour.Run{{pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 0), pt(4, 0)}}, out)
}

func TestApply_UnresolvedRefs(t *testing.T) {
	runs := []contour.Run{{pt(0, 0), pt(1, 0)}}
	cases := []override.Edit{
		{Op: override.OpAdd, From: override.IndexRef(3, 0), To: override.IndexRef(0, 1)},
		{Op: override.OpAdd, From: override.PointRef(5, 5), To: override.IndexRef(0, 1)},
		{Op: override.OpRemove, From: override.IndexRef(0, 0), To: override.PointRef(0, 0)},
		{Op: "swap", From: override.IndexRef(0, 0), To: override.IndexRef(0, 1)},
	}
	for _, ed := range cases {
		_, err := override.Apply(runs, []override.Edit{ed}, 1e-6)
		assert.ErrorIs(t, err, contour.ErrInvalidInput, "%v", ed)
	}

	out, err := override.Apply(runs, nil, 1e-6)
	require.NoError(t, err)
	assert.Equal(t, runs, out)
}
