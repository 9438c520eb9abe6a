package march_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/field"
	"github.com/katalvlaran/isolines/march"
)

func mustField(t *testing.T, ages, years, values []float64) *field.ScalarField {
	t.Helper()
	f, err := field.NewScalarField(ages, years, values)
	require.NoError(t, err)

	return f
}

func TestRings_InteriorPeak(t *testing.T) {
	f := mustField(t, []float64{0, 10, 20}, []float64{0, 1, 2}, []float64{
		0, 0, 0,
		0, 100, 0,
		0, 0, 0,
	})
	rings, err := march.Rings(f, 50)
	require.NoError(t, err)
	require.Len(t, rings, 1)
	assert.Len(t, rings[0], 4)
	assert.False(t, rings[0].TouchesBoundary())

	runs, closed, err := march.Extract(f, 50, march.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []bool{true}, closed)
	assert.True(t, runs[0].IsClosed(1e-9))
	// Diamond with diagonals 10 (age) and 1 (year).
	assert.InDelta(t, 5.0, runs[0].Area(1e-9), 1e-9)
}

func TestRings_SaddleUsesCellMean(t *testing.T) {
	f := mustField(t, []float64{0, 1}, []float64{0, 1}, []float64{
		100, 0,
		0, 100,
	})

	rings, err := march.Rings(f, 40)
	require.NoError(t, err)
	assert.Len(t, rings, 1, "mean 50 is above 40: the diagonal is connected")

	rings, err = march.Rings(f, 60)
	require.NoError(t, err)
	assert.Len(t, rings, 2, "mean 50 is below 60: two separate peaks")
}

func TestRings_NaNCountsAsBelow(t *testing.T) {
	nan := math.NaN()
	f := mustField(t, []float64{0, 1, 2}, []float64{0, 1, 2}, []float64{
		100, 100, 100,
		100, nan, 100,
		100, 100, 100,
	})
	rings, err := march.Rings(f, 50)
	require.NoError(t, err)
	assert.Len(t, rings, 2, "outer border ring plus a ring around the hole")
}

func TestRings_NothingAboveLevel(t *testing.T) {
	f := mustField(t, []float64{0, 1}, []float64{0, 1}, []float64{1, 2, 3, 4})
	rings, err := march.Rings(f, 10)
	require.NoError(t, err)
	assert.Empty(t, rings)
}

func TestExtract_SplitsBoundaryRing(t *testing.T) {
	f := mustField(t,
		[]float64{0, 50, 100},
		[]float64{1900, 1905, 1910, 1915, 1920},
		[]float64{
			100, 110, 120, 130, 140,
			60, 65, 70, 75, 80,
			0, 0, 0, 0, 0,
		})
	runs, closed, err := march.Extract(f, 50, march.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, runs, 1, "frame-hugging arcs are discarded")
	assert.Equal(t, []bool{false}, closed)

	run := runs[0].Clone()
	sort.Slice(run, func(i, j int) bool { return run[i].Year < run[j].Year })
	require.Len(t, run, 5)
	assert.Equal(t, 1900.0, run[0].Year)
	assert.Equal(t, 1920.0, run[4].Year)
	for c, p := range run {
		v := 60 + 5*float64(c)
		assert.InDelta(t, 50+50*(v-50)/v, p.Age, 1e-9)
	}
}

func TestExtract_RatioOption(t *testing.T) {
	f := mustField(t, []float64{0, 1}, []float64{0, 1}, []float64{1, 2, 3, 4})

	_, _, err := march.Extract(f, 2, march.Options{MaxBoundaryRatio: 1.5})
	assert.ErrorIs(t, err, march.ErrBadRatio)
	assert.ErrorIs(t, err, contour.ErrInvalidInput)

	// On a 2×2 grid every vertex is a boundary vertex.
	runs, _, err := march.Extract(f, 2.5, march.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, runs)

	runs, _, err = march.Extract(f, 2.5, march.Options{MaxBoundaryRatio: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, runs)
}

func TestRings_NilField(t *testing.T) {
	_, err := march.Rings(nil, 1)
	assert.ErrorIs(t, err, march.ErrNilField)
}

func TestExtract_ThreeVertexArcs(t *testing.T) {
	ratio := march.Options{MaxBoundaryRatio: 0.7}
	cases := []struct {
		name   string
		ages   []float64
		years  []float64
		values []float64
		level  float64
	}{
		{
			name:  "CornerClip",
			ages:  []float64{0, 10, 20},
			years: []float64{0, 1, 2},
			values: []float64{
				100, 100, 0,
				0, 0, 0,
				0, 0, 0,
			},
			level: 50,
		},
		{
			name:  "ThreeColumnSpan",
			ages:  []float64{0, 10, 20},
			years: []float64{0, 1, 2},
			values: []float64{
				100, 100, 100,
				60, 60, 60,
				0, 0, 0,
			},
			level: 80,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := mustField(t, tc.ages, tc.years, tc.values)

			// Two of three vertices sit on the frame: over the default half.
			runs, _, err := march.Extract(f, tc.level, march.DefaultOptions())
			require.NoError(t, err)
			assert.Empty(t, runs)

			runs, closed, err := march.Extract(f, tc.level, ratio)
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.Equal(t, []bool{false}, closed)
			assert.Len(t, runs[0], 3)
		})
	}
}

func TestExtract_FourColumnSpanIsKept(t *testing.T) {
	f := mustField(t, []float64{0, 10, 20}, []float64{0, 1, 2, 3}, []float64{
		100, 100, 100, 100,
		60, 60, 60, 60,
		0, 0, 0, 0,
	})
	runs, _, err := march.Extract(f, 80, march.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, runs, 1, "two boundary vertices out of four is exactly half")
	require.Len(t, runs[0], 4)
	for _, p := range runs[0] {
		assert.InDelta(t, 5.0, p.Age, 1e-9)
	}
}
