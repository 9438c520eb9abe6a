package override

import (
	"fmt"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/segment"
)

// Apply performs edits on the segment graph of runs and returns the runs
// rebuilt from the edited graph, ordered by the run they mostly came from.
// Index references resolve against runs as given; coordinate references
// must match an existing node within eps. Without edits runs is returned
// as is.
func Apply(runs []contour.Run, edits []Edit, eps float64) ([]contour.Run, error) {
	if len(edits) == 0 {
		return runs, nil
	}
	g := segment.FromRuns(runs, segment.WithEpsilon(eps))

	// 1) Resolve every reference before touching the graph.
	type pair struct{ u, v int }
	resolved := make([]pair, len(edits))
	for i, ed := range edits {
		u, err := resolve(g, runs, ed.From)
		if err != nil {
			return nil, fmt.Errorf("edit %d from: %w", i, err)
		}
		v, err := resolve(g, runs, ed.To)
		if err != nil {
			return nil, fmt.Errorf("edit %d to: %w", i, err)
		}
		resolved[i] = pair{u, v}
	}

	// 2) Apply in order.
	for i, ed := range edits {
		p := resolved[i]
		switch ed.Op {
		case OpAdd:
			if _, err := g.AddEdge(p.u, p.v, segment.NoRun); err != nil {
				return nil, fmt.Errorf("%w: edit %d add %s-%s: %v", ErrBadEdit, i, ed.From, ed.To, err)
			}
		case OpRemove:
			if err := g.RemoveEdge(p.u, p.v); err != nil {
				return nil, fmt.Errorf("%w: edit %d remove %s-%s: %v", ErrBadEdit, i, ed.From, ed.To, err)
			}
		default:
			return nil, fmt.Errorf("%w: edit %d: op %q", ErrBadEdit, i, ed.Op)
		}
	}

	// 3) Re-extract maximal simple paths into run slots.
	paths := g.Paths()
	out := make([]contour.Run, 0, len(paths))
	for _, p := range paths {
		out = append(out, g.Run(p))
	}

	return out, nil
}

func resolve(g *segment.Graph, runs []contour.Run, r Ref) (int, error) {
	var p contour.Point
	switch {
	case r.byIndex():
		ri, pi := *r.Run, *r.Point
		if ri < 0 || ri >= len(runs) || pi < 0 || pi >= len(runs[ri]) {
			return 0, fmt.Errorf("%w: %s out of range", ErrBadRef, r)
		}
		p = runs[ri][pi]
	case r.byCoord():
		p = contour.Point{Year: *r.Year, Age: *r.Age}
	default:
		return 0, fmt.Errorf("%w: %s", ErrBadRef, r)
	}
	id, ok := g.FindNode(p)
	if !ok {
		return 0, fmt.Errorf("%w: no node at %s", ErrBadRef, r)
	}

	return id, nil
}
