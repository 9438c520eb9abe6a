// Package anchor replaces heuristic stitching by shortest paths for levels
// where the heuristics are known to fail.
//
// Resolve builds one weighted segment graph over every raw fragment of the
// level, snaps each anchor coordinate onto its nearest point of the graph
// (splitting the nearest edge when that point lies inside it) and walks
// Dijkstra shortest paths start→end, or start→via→end when a via point is
// given. Edge weights are Euclidean lengths in grid units.
//
// When any anchor yields no path the result is marked Ambiguous; callers
// then fall back to TrimIslands and report the condition rather than fail.
package anchor

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/dijkstra"
	"github.com/katalvlaran/isolines/override"
	"github.com/katalvlaran/isolines/segment"
)

// Options configures Resolve and TrimIslands.
type Options struct {
	// Epsilon is the node-matching tolerance.
	Epsilon float64

	// YearUnit and AgeUnit are the grid cell size.
	YearUnit, AgeUnit float64
}

// Result is the outcome of anchoring one level.
type Result struct {
	// Runs holds one run per anchor that produced a path, in anchor order.
	Runs []contour.Run

	// Expected is the number of anchors, Found the number of paths.
	Expected, Found int

	// Ambiguous is set when Found < Expected.
	Ambiguous bool

	// Failures describes each anchor that produced no path.
	Failures []string
}

// Resolve computes the anchored runs of a level from its raw fragments.
func Resolve(raw []contour.Run, anchors []override.Anchor, opts Options) (Result, error) {
	res := Result{Expected: len(anchors)}
	if len(anchors) == 0 {
		return res, nil
	}
	g := segment.FromRuns(raw, segment.WithEpsilon(opts.Epsilon), segment.WithUnits(opts.YearUnit, opts.AgeUnit))
	if g.EdgeCount() == 0 {
		res.Ambiguous = true
		res.Failures = append(res.Failures, "no segments to anchor on")
		return res, nil
	}

	// 1) Snap every anchor point first; later snaps see earlier splits.
	type stops struct{ ids []int }
	all := make([]stops, len(anchors))
	for i, a := range anchors {
		pts := []contour.Point{a.Start}
		if a.Via != nil {
			pts = append(pts, *a.Via)
		}
		pts = append(pts, a.End)
		for _, p := range pts {
			id, err := g.Snap(p)
			if err != nil {
				return Result{}, fmt.Errorf("anchor %d: snap %s: %w", i, p, err)
			}
			all[i].ids = append(all[i].ids, id)
		}
	}

	// 2) Chain shortest paths through the stops of each anchor.
	for i, s := range all {
		nodes, err := chain(g, s.ids)
		if errors.Is(err, dijkstra.ErrNoPath) {
			res.Failures = append(res.Failures, fmt.Sprintf("anchor %d: %v", i, err))
			continue
		}
		if err != nil {
			return Result{}, fmt.Errorf("anchor %d: %w", i, err)
		}
		res.Runs = append(res.Runs, g.Run(segment.Path{Nodes: nodes}))
		res.Found++
	}
	res.Ambiguous = res.Found < res.Expected

	return res, nil
}

func chain(g *segment.Graph, stops []int) ([]int, error) {
	nodes := []int{stops[0]}
	for k := 1; k < len(stops); k++ {
		leg, _, err := dijkstra.ShortestPath(g, stops[k-1], stops[k])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, leg[1:]...)
	}

	return nodes, nil
}

// TrimIslands drops closed runs whose area, in grid cells, is below
// maxCells. It returns the kept runs and the number dropped.
func TrimIslands(runs []contour.Run, maxCells float64, opts Options) ([]contour.Run, int) {
	cell := opts.YearUnit * opts.AgeUnit
	out := make([]contour.Run, 0, len(runs))
	dropped := 0
	for _, r := range runs {
		if r.IsClosed(opts.Epsilon) && r.Area(opts.Epsilon)/cell < maxCells {
			dropped++
			continue
		}
		out = append(out, r)
	}

	return out, dropped
}
