package segment

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/katalvlaran/isolines/contour"
)

// Sentinel errors for graph operations.
var (
	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("segment: node not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("segment: edge not found")

	// ErrLoopNotAllowed indicates an edge from a node to itself.
	ErrLoopNotAllowed = errors.New("segment: self-loop not allowed")

	// ErrEmptyGraph indicates a query that needs at least one edge.
	ErrEmptyGraph = errors.New("segment: graph has no edges")
)

// NoRun marks an edge that did not come from an input run.
const NoRun = -1

// Node is a graph vertex at a data-space position.
type Node struct {
	ID int
	P  contour.Point
}

// Edge is an undirected segment between two nodes.
type Edge struct {
	ID       int
	From, To int

	// Run is the index of the run the segment came from, or NoRun.
	Run int
}

// Option configures a Graph before use.
type Option func(g *Graph)

// WithEpsilon sets the node-matching tolerance. It panics on a non-positive
// value.
func WithEpsilon(eps float64) Option {
	if !(eps > 0) {
		panic(fmt.Sprintf("segment: epsilon must be positive, got %g", eps))
	}

	return func(g *Graph) { g.eps = eps }
}

// WithUnits sets the cell size used for edge lengths, so that one year step
// and one age step weigh the same. It panics on non-positive units.
func WithUnits(year, age float64) Option {
	if !(year > 0) || !(age > 0) {
		panic(fmt.Sprintf("segment: units must be positive, got %g,%g", year, age))
	}

	return func(g *Graph) { g.yearUnit, g.ageUnit = year, age }
}

type bucket struct{ y, a int64 }

// Graph is an undirected simple graph of polyline segments.
type Graph struct {
	eps               float64
	yearUnit, ageUnit float64

	nodes    []Node
	buckets  map[bucket][]int
	adj      []map[int]int // node → neighbour → edge ID
	edges    map[int]*Edge
	nextEdge int
}

// NewGraph returns an empty graph. Defaults: epsilon 1e-6, unit cells.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		eps:      1e-6,
		yearUnit: 1,
		ageUnit:  1,
		buckets:  make(map[bucket][]int),
		edges:    make(map[int]*Edge),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// FromRuns builds the graph of every segment of runs. Edge.Run is the index
// of the run in the slice.
func FromRuns(runs []contour.Run, opts ...Option) *Graph {
	g := NewGraph(opts...)
	for i, r := range runs {
		g.AddRun(r, i)
	}

	return g
}

// AddRun adds the segments of r, tagged with run index idx. Zero-length
// segments and segments already present are skipped.
func (g *Graph) AddRun(r contour.Run, idx int) {
	if len(r) == 0 {
		return
	}
	prev := g.AddNode(r[0])
	for _, p := range r[1:] {
		cur := g.AddNode(p)
		if cur != prev && !g.HasEdge(prev, cur) {
			g.addEdge(prev, cur, idx)
		}
		prev = cur
	}
}

func (g *Graph) key(p contour.Point) bucket {
	return bucket{y: int64(math.Floor(p.Year / g.eps)), a: int64(math.Floor(p.Age / g.eps))}
}

// FindNode returns the lowest-ID node within epsilon of p on both axes.
func (g *Graph) FindNode(p contour.Point) (int, bool) {
	k := g.key(p)
	best := -1
	for dy := int64(-1); dy <= 1; dy++ {
		for da := int64(-1); da <= 1; da++ {
			for _, id := range g.buckets[bucket{k.y + dy, k.a + da}] {
				if g.nodes[id].P.Near(p, g.eps) && (best < 0 || id < best) {
					best = id
				}
			}
		}
	}

	return best, best >= 0
}

// AddNode returns the node at p, creating it when none matches.
func (g *Graph) AddNode(p contour.Point) int {
	if id, ok := g.FindNode(p); ok {
		return id
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{ID: id, P: p})
	g.adj = append(g.adj, make(map[int]int))
	k := g.key(p)
	g.buckets[k] = append(g.buckets[k], id)

	return id
}

// Node returns node id. It panics if id is out of range.
func (g *Graph) Node(id int) Node { return g.nodes[id] }

// NodeCount returns the number of nodes, including isolated ones.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether id names a node.
func (g *Graph) HasNode(id int) bool { return id >= 0 && id < len(g.nodes) }

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	if !g.HasNode(u) || !g.HasNode(v) {
		return false
	}
	_, ok := g.adj[u][v]

	return ok
}

// AddEdge connects u and v and returns the edge ID. An existing edge is
// returned unchanged.
func (g *Graph) AddEdge(u, v, run int) (int, error) {
	if !g.HasNode(u) || !g.HasNode(v) {
		return 0, fmt.Errorf("%w: %d-%d", ErrNodeNotFound, u, v)
	}
	if u == v {
		return 0, fmt.Errorf("%w: %d", ErrLoopNotAllowed, u)
	}
	if id, ok := g.adj[u][v]; ok {
		return id, nil
	}

	return g.addEdge(u, v, run), nil
}

func (g *Graph) addEdge(u, v, run int) int {
	id := g.nextEdge
	g.nextEdge++
	g.edges[id] = &Edge{ID: id, From: u, To: v, Run: run}
	g.adj[u][v] = id
	g.adj[v][u] = id

	return id
}

// RemoveEdge deletes the edge between u and v.
func (g *Graph) RemoveEdge(u, v int) error {
	if !g.HasEdge(u, v) {
		return fmt.Errorf("%w: %d-%d", ErrEdgeNotFound, u, v)
	}
	id := g.adj[u][v]
	delete(g.adj[u], v)
	delete(g.adj[v], u)
	delete(g.edges, id)

	return nil
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id int) (Edge, bool) {
	e, ok := g.edges[id]
	if !ok {
		return Edge{}, false
	}

	return *e, true
}

// EdgeBetween returns the edge joining u and v.
func (g *Graph) EdgeBetween(u, v int) (Edge, bool) {
	if !g.HasEdge(u, v) {
		return Edge{}, false
	}

	return g.Edge(g.adj[u][v])
}

// Edges returns all edges ordered by ID.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Degree returns the number of edges at u.
func (g *Graph) Degree(u int) int {
	if !g.HasNode(u) {
		return 0
	}

	return len(g.adj[u])
}

// Neighbors returns the neighbours of u in ascending ID order.
func (g *Graph) Neighbors(u int) []int {
	if !g.HasNode(u) {
		return nil
	}
	out := make([]int, 0, len(g.adj[u]))
	for v := range g.adj[u] {
		out = append(out, v)
	}
	sort.Ints(out)

	return out
}

func (g *Graph) grid(p contour.Point) r2.Point {
	return r2.Point{X: p.Year / g.yearUnit, Y: p.Age / g.ageUnit}
}

// Length returns the length of edge e in grid units.
func (g *Graph) Length(e Edge) float64 {
	return g.grid(g.nodes[e.To].P).Sub(g.grid(g.nodes[e.From].P)).Norm()
}

// Projection is the closest point of the graph to a query point.
type Projection struct {
	Edge int
	// T is the position along From→To, in [0,1].
	T     float64
	Point contour.Point
	// Dist is the distance to the query point in grid units.
	Dist float64
}

// Nearest projects p onto every edge and returns the closest hit; ties go
// to the lower edge ID.
func (g *Graph) Nearest(p contour.Point) (Projection, error) {
	if len(g.edges) == 0 {
		return Projection{}, ErrEmptyGraph
	}
	q := g.grid(p)
	best := Projection{Dist: math.Inf(1)}
	for _, e := range g.Edges() {
		a := g.grid(g.nodes[e.From].P)
		b := g.grid(g.nodes[e.To].P)
		ab := b.Sub(a)
		t := 0.0
		if l2 := ab.Dot(ab); l2 > 0 {
			t = math.Max(0, math.Min(1, q.Sub(a).Dot(ab)/l2))
		}
		hit := a.Add(ab.Mul(t))
		if d := q.Sub(hit).Norm(); d < best.Dist {
			best = Projection{
				Edge:  e.ID,
				T:     t,
				Point: contour.Point{Year: hit.X * g.yearUnit, Age: hit.Y * g.ageUnit},
				Dist:  d,
			}
		}
	}

	return best, nil
}

// Split inserts a node at p on edge id, replacing the edge by two edges that
// keep its run tag and direction. When p matches an endpoint no split
// happens and that endpoint is returned.
func (g *Graph) Split(id int, p contour.Point) (int, error) {
	e, ok := g.edges[id]
	if !ok {
		return 0, fmt.Errorf("%w: id %d", ErrEdgeNotFound, id)
	}
	if g.nodes[e.From].P.Near(p, g.eps) {
		return e.From, nil
	}
	if g.nodes[e.To].P.Near(p, g.eps) {
		return e.To, nil
	}
	from, to, run := e.From, e.To, e.Run
	w := g.AddNode(p)
	if w == from || w == to {
		return w, nil
	}
	if err := g.RemoveEdge(from, to); err != nil {
		return 0, err
	}
	if _, err := g.AddEdge(from, w, run); err != nil {
		return 0, err
	}
	if _, err := g.AddEdge(w, to, run); err != nil {
		return 0, err
	}

	return w, nil
}

// Snap returns the node closest to p, splitting the nearest edge when the
// closest point lies inside it.
func (g *Graph) Snap(p contour.Point) (int, error) {
	proj, err := g.Nearest(p)
	if err != nil {
		return 0, err
	}

	return g.Split(proj.Edge, proj.Point)
}
