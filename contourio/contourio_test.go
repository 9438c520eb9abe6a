package contourio_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/contourio"
)

func pt(year, age float64) contour.Point { return contour.Point{Year: year, Age: age} }

func sample() []contour.LevelResult {
	return []contour.LevelResult{
		{Level: 50, Runs: []contour.Run{{pt(1900, 58.5), pt(1905, 60)}}},
		{Level: 100, Runs: []contour.Run{
			{pt(1900, 0), pt(1910, 20)},
			{pt(1912, 30), pt(1914, 31), pt(1913, 33), pt(1912, 30)},
		}},
	}
}

func TestMarshal_Layout(t *testing.T) {
	data, err := contourio.Marshal(sample()[:1])
	require.NoError(t, err)
	want := `[
  {
    "level": 50,
    "points": [
      {
        "year": 1900,
        "age": 58.5
      },
      {
        "year": 1905,
        "age": 60
      }
    ]
  }
]
`
	assert.Equal(t, want, string(data))

	data, err = contourio.Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestMarshal_Deterministic(t *testing.T) {
	a, err := contourio.Marshal(sample())
	require.NoError(t, err)
	b, err := contourio.Marshal(sample())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), `"runs"`)
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]struct {
		in   []contour.LevelResult
		want string
	}{
		"NaNAge": {
			in:   []contour.LevelResult{{Level: 1, Runs: []contour.Run{{pt(1, 1), pt(2, math.NaN())}}}},
			want: "level 1 run 0 point 1",
		},
		"InfYear": {
			in: []contour.LevelResult{{Level: 2, Runs: []contour.Run{
				{pt(1, 1), pt(2, 2)},
				{pt(math.Inf(1), 1), pt(2, 2)},
			}}},
			want: "level 2 run 1 point 0",
		},
		"InfLevel": {
			in:   []contour.LevelResult{{Level: math.Inf(1), Runs: []contour.Run{{pt(1, 1), pt(2, 2)}}}},
			want: "record 0",
		},
		"ShortRun": {
			in:   []contour.LevelResult{{Level: 3, Runs: []contour.Run{{pt(1, 1)}}}},
			want: "level 3 run 0: 1 points",
		},
		"NoRuns": {
			in:   []contour.LevelResult{{Level: 4}},
			want: "level 4: no runs",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := contourio.Validate(tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, contourio.ErrInvalidContourPoint)
			assert.ErrorIs(t, err, contour.ErrInvariantViolation)
			assert.Contains(t, err.Error(), tc.want)

			var buf bytes.Buffer
			assert.Error(t, contourio.Encode(&buf, tc.in))
			assert.Zero(t, buf.Len(), "nothing is written on failure")
		})
	}
}

func TestScanNulls(t *testing.T) {
	assert.NoError(t, contourio.ScanNulls([]byte(`[{"level":1,"points":[{"year":1,"age":2}]}]`)))
	assert.ErrorIs(t, contourio.ScanNulls([]byte(`{"year": 1, "age": null}`)), contourio.ErrNullCoordinate)
	assert.ErrorIs(t, contourio.ScanNulls([]byte(`{"year":null}`)), contour.ErrInvariantViolation)
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, contourio.Encode(&buf, sample()))
	got, err := contourio.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	_, err = contourio.Decode(strings.NewReader(`[{"level":1,"points":[{"year":1,"age":null},{"year":2,"age":2}]}]`))
	assert.ErrorIs(t, err, contourio.ErrNullCoordinate)

	_, err = contourio.Decode(strings.NewReader(`[{"level":1,"points":[{"year":1,"age":1}]}]`))
	assert.ErrorIs(t, err, contourio.ErrInvalidContourPoint)

	_, err = contourio.Decode(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "contours.json")
	require.NoError(t, contourio.WriteFile(path, sample()))

	got, err := contourio.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	// A failed write leaves the previous artifact alone.
	bad := []contour.LevelResult{{Level: 1, Runs: []contour.Run{{pt(1, math.NaN()), pt(2, 2)}}}}
	require.Error(t, contourio.WriteFile(path, bad))
	got, err = contourio.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contours.db")

	require.NoError(t, contourio.SaveSQLite(ctx, path, "usa", sample()))
	require.NoError(t, contourio.SaveSQLite(ctx, path, "sweden", sample()[:1]))
	// Saving again replaces the dataset's rows.
	require.NoError(t, contourio.SaveSQLite(ctx, path, "usa", sample()))

	got, err := contourio.LoadSQLite(ctx, path, "usa")
	require.NoError(t, err)
	assert.Equal(t, sample(), got)

	got, err = contourio.LoadSQLite(ctx, path, "sweden")
	require.NoError(t, err)
	assert.Equal(t, sample()[:1], got)

	got, err = contourio.LoadSQLite(ctx, path, "norway")
	require.NoError(t, err)
	assert.Empty(t, got)
}
