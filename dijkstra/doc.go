// Package dijkstra computes shortest paths on a segment.Graph, where every
// edge weighs its Euclidean length in grid units. It is the engine behind
// endpoint anchoring: an anchored run is the shortest walk over the raw
// contour segments between two hand-picked points.
//
// Overview:
//
//   - Dijkstra settles nodes in order of increasing distance from a single
//     source using a min-heap with lazy decrease-key.
//   - Functional options add path reconstruction, a distance cap and an
//     impassable-edge threshold.
//   - ShortestPath wraps Dijkstra for the common source→target query.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E); the heap may hold one entry per relaxation.
//
// Error handling (sentinel errors):
//
//   - ErrNoSource:        no Source option was given.
//   - ErrNilGraph:        the graph pointer is nil.
//   - ErrNodeNotFound:    the source or target is not a node of the graph.
//   - ErrNoPath:          ShortestPath found the target unreachable.
//   - ErrBadMaxDistance:  (panic) WithMaxDistance got a negative value.
//   - ErrBadInfThreshold: (panic) WithInfEdgeThreshold got a non-positive value.
//
// Edge lengths are never negative, so no pre-scan for negative weights is
// needed.
package dijkstra
