package snap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/field"
	"github.com/katalvlaran/isolines/snap"
)

func pyramid(t *testing.T) *field.ScalarField {
	t.Helper()
	f, err := field.NewScalarField(
		[]float64{0, 50, 100},
		[]float64{1900, 1905, 1910, 1915, 1920},
		[]float64{
			100, 110, 120, 130, 140,
			60, 65, 70, 75, 80,
			0, 0, 0, 0, 0,
		})
	require.NoError(t, err)

	return f
}

func TestSnap_RightEdge(t *testing.T) {
	f := pyramid(t)
	runs := []contour.Run{{{Year: 1910, Age: 64}, {Year: 1917, Age: 67}}}

	out, n, err := snap.Snap(f, 50, runs, snap.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	last := out[0].Last()
	assert.Equal(t, 1920.0, last.Year)
	assert.InDelta(t, 50+50*30.0/80, last.Age, 1e-9)
	assert.Equal(t, 1917.0, runs[0].Last().Year, "input is not mutated")
}

func TestSnap_TopEdge(t *testing.T) {
	f, err := field.NewScalarField(
		[]float64{0, 10, 20},
		[]float64{0, 1, 2, 3},
		[]float64{
			0, 40, 80, 120,
			0, 20, 40, 60,
			0, 0, 0, 0,
		})
	require.NoError(t, err)
	runs := []contour.Run{{{Year: 1.4, Age: 3}, {Year: 3, Age: 20}}}

	out, n, err := snap.Snap(f, 60, runs, snap.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 1.5, out[0].First().Year, 1e-12)
	assert.Equal(t, 0.0, out[0].First().Age)
	// The bottom row never reaches 60, so the corner endpoint goes right.
	assert.Equal(t, contour.Point{Year: 3, Age: 10}, out[0].Last())
}

func TestSnap_FallsBackToNextSide(t *testing.T) {
	f := pyramid(t)
	// Closest to the top edge, which level 50 never crosses.
	runs := []contour.Run{{{Year: 1910, Age: 30}, {Year: 1919, Age: 2}}}

	opts := snap.DefaultOptions()
	opts.WindowSteps = 2
	out, n, err := snap.Snap(f, 50, runs, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1920.0, out[0].Last().Year)
}

func TestSnap_LeavesInteriorAndClosedRuns(t *testing.T) {
	f := pyramid(t)
	interior := contour.Run{{Year: 1908, Age: 60}, {Year: 1912, Age: 62}}
	ring := contour.Run{{Year: 1901, Age: 10}, {Year: 1902, Age: 10}, {Year: 1902, Age: 11}, {Year: 1901, Age: 10}}

	out, n, err := snap.Snap(f, 50, []contour.Run{interior, ring}, snap.DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, interior, out[0])
	assert.Equal(t, ring, out[1])
}

func TestSnap_AlreadyOnEdge(t *testing.T) {
	f := pyramid(t)
	age := 50 + 50*10.0/60
	runs := []contour.Run{{{Year: 1900, Age: age}, {Year: 1910, Age: 64}}}
	_, n, err := snap.Snap(f, 50, runs, snap.DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSnap_NilField(t *testing.T) {
	_, _, err := snap.Snap(nil, 1, nil, snap.DefaultOptions())
	assert.ErrorIs(t, err, snap.ErrNilField)
}
