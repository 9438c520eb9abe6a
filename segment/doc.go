// Package segment holds the undirected segment graph shared by the manual
// override layer and shortest-path anchoring.
//
// Every run of a level is broken into its segments. Segment endpoints become
// nodes, identified by coordinate: two points closer than the graph epsilon
// on both axes are the same node. Each edge remembers the run it came from
// and whether From→To follows that run's direction, so paths rebuilt after
// surgery can be oriented and placed back into the right run slot.
//
// The graph is simple: no loops and no parallel edges. Node IDs are dense
// integers assigned in insertion order, and every iteration the package
// exposes is sorted, so results are deterministic.
//
// Typical use:
//
//	g := segment.FromRuns(runs, segment.WithEpsilon(1e-6))
//	u, _ := g.FindNode(p)
//	v, _ := g.FindNode(q)
//	_ = g.RemoveEdge(u, v)
//	paths := g.Paths()
//
// Paths are extracted in three passes: open paths from degree-1 nodes, then
// paths starting at branch nodes (degree ≥ 3), then the remaining cycles.
package segment
