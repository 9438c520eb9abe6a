package segment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/segment"
)

func pt(year, age float64) contour.Point { return contour.Point{Year: year, Age: age} }

func TestFromRuns_SharesNodesByCoordinate(t *testing.T) {
	runs := []contour.Run{
		{pt(0, 0), pt(1, 0)},
		{pt(1+1e-9, 0), pt(2, 0)},
	}
	g := segment.FromRuns(runs, segment.WithEpsilon(1e-6))
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())

	id, ok := g.FindNode(pt(1, 0))
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, 2, g.Degree(id))
	assert.Equal(t, []int{0, 2}, g.Neighbors(id))

	_, ok = g.FindNode(pt(1.1, 0))
	assert.False(t, ok)
}

func TestGraph_EdgeErrors(t *testing.T) {
	g := segment.NewGraph()
	a := g.AddNode(pt(0, 0))
	b := g.AddNode(pt(1, 0))

	_, err := g.AddEdge(a, a, segment.NoRun)
	assert.ErrorIs(t, err, segment.ErrLoopNotAllowed)
	_, err = g.AddEdge(a, 9, segment.NoRun)
	assert.ErrorIs(t, err, segment.ErrNodeNotFound)
	assert.ErrorIs(t, g.RemoveEdge(a, b), segment.ErrEdgeNotFound)

	id, err := g.AddEdge(a, b, segment.NoRun)
	require.NoError(t, err)
	again, err := g.AddEdge(b, a, 3)
	require.NoError(t, err)
	assert.Equal(t, id, again, "graph is simple")
	assert.Equal(t, 1, g.EdgeCount())

	_, err = segment.NewGraph().Nearest(pt(0, 0))
	assert.ErrorIs(t, err, segment.ErrEmptyGraph)
}

func TestPaths_BranchNode(t *testing.T) {
	runs := []contour.Run{
		{pt(0, 0), pt(1, 0), pt(2, 0)},
		{pt(1, 0), pt(1, 1)},
	}
	g := segment.FromRuns(runs)
	paths := g.Paths()
	require.Len(t, paths, 3)

	assert.Equal(t, contour.Run{pt(0, 0), pt(1, 0)}, g.Run(paths[0]))
	assert.Equal(t, contour.Run{pt(1, 0), pt(2, 0)}, g.Run(paths[1]), "oriented like run 0")
	assert.Equal(t, contour.Run{pt(1, 0), pt(1, 1)}, g.Run(paths[2]))
	assert.Equal(t, []int{0, 0, 1}, []int{paths[0].Slot, paths[1].Slot, paths[2].Slot})
}

func TestPaths_RemoveSplitsRun(t *testing.T) {
	g := segment.FromRuns([]contour.Run{{pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 0)}})
	u, _ := g.FindNode(pt(1, 0))
	v, _ := g.FindNode(pt(2, 0))
	require.NoError(t, g.RemoveEdge(u, v))

	paths := g.Paths()
	require.Len(t, paths, 2)
	assert.Equal(t, contour.Run{pt(0, 0), pt(1, 0)}, g.Run(paths[0]))
	assert.Equal(t, contour.Run{pt(2, 0), pt(3, 0)}, g.Run(paths[1]))
}

func TestPaths_Cycle(t *testing.T) {
	ring := contour.Run{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1), pt(0, 0)}
	g := segment.FromRuns([]contour.Run{ring})
	assert.Equal(t, 4, g.NodeCount())

	paths := g.Paths()
	require.Len(t, paths, 1)
	assert.True(t, paths[0].Closed)
	assert.Equal(t, ring, g.Run(paths[0]))
}

func TestPaths_HandAddedEdgesSortLast(t *testing.T) {
	g := segment.FromRuns([]contour.Run{{pt(0, 0), pt(1, 0)}})
	a := g.AddNode(pt(5, 5))
	b := g.AddNode(pt(6, 5))
	_, err := g.AddEdge(a, b, segment.NoRun)
	require.NoError(t, err)

	paths := g.Paths()
	require.Len(t, paths, 2)
	assert.Equal(t, 0, paths[0].Slot)
	assert.Equal(t, segment.NoRun, paths[1].Slot)
}

func TestSnap_SplitsNearestEdge(t *testing.T) {
	g := segment.FromRuns([]contour.Run{{pt(0, 0), pt(2, 0)}, {pt(10, 10), pt(11, 10)}})

	proj, err := g.Nearest(pt(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, proj.Edge)
	assert.InDelta(t, 0.5, proj.T, 1e-12)
	assert.InDelta(t, 1.0, proj.Dist, 1e-12)

	w, err := g.Snap(pt(1, 1))
	require.NoError(t, err)
	assert.Equal(t, pt(1, 0), g.Node(w).P)
	assert.Equal(t, 2, g.Degree(w))
	assert.Equal(t, 3, g.EdgeCount())

	e, ok := g.EdgeBetween(w, 1)
	require.True(t, ok)
	assert.Equal(t, 0, e.Run, "split halves keep their run")
	assert.Equal(t, w, e.From, "and their direction")

	// Snapping onto an existing node does not split.
	again, err := g.Snap(pt(-1, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, again)
	assert.Equal(t, 3, g.EdgeCount())
}

func TestLength_UsesUnits(t *testing.T) {
	g := segment.FromRuns([]contour.Run{{pt(0, 0), pt(5, 10)}}, segment.WithUnits(5, 10))
	e, ok := g.Edge(0)
	require.True(t, ok)
	assert.InDelta(t, 1.4142135623730951, g.Length(e), 1e-12)
}

func TestOptions_Panic(t *testing.T) {
	assert.Panics(t, func() { segment.WithEpsilon(0) })
	assert.Panics(t, func() { segment.WithUnits(1, -1) })
}
