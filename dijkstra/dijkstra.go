package dijkstra

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/isolines/segment"
)

// Dijkstra computes shortest distances from Options.Source to every node of
// g, weighting each edge by its Euclidean length in grid units.
//
// Returns:
//
//   - dist: node ID → minimum distance (Unreachable if not reached).
//   - prev: predecessor map if ReturnPath is set, nil otherwise.
//     prev[v] == u means the shortest path to v goes through u; the source
//     and unreachable nodes map to -1.
//
// Preconditions, checked in order:
//  1. a source is set (ErrNoSource),
//  2. g is non-nil (ErrNilGraph),
//  3. g contains the source (ErrNodeNotFound).
//
// Equal distances are settled in ascending node order, so the chosen
// predecessors are deterministic.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func Dijkstra(g *segment.Graph, opts ...Option) ([]float64, []int, error) {
	// 1) Build Options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate.
	if cfg.Source < 0 {
		return nil, nil, ErrNoSource
	}
	if g == nil {
		return nil, nil, ErrNilGraph
	}
	if !g.HasNode(cfg.Source) {
		return nil, nil, fmt.Errorf("%w: source %d", ErrNodeNotFound, cfg.Source)
	}

	// 3) Run.
	r := newRunner(g, cfg)
	r.init()
	r.process()

	if !cfg.ReturnPath {
		return r.dist, nil, nil
	}

	return r.dist, r.prev, nil
}

// ShortestPath returns the node sequence of a shortest path from source to
// target and its length.
func ShortestPath(g *segment.Graph, source, target int) ([]int, float64, error) {
	if g == nil {
		return nil, 0, ErrNilGraph
	}
	if !g.HasNode(target) {
		return nil, 0, fmt.Errorf("%w: target %d", ErrNodeNotFound, target)
	}
	dist, prev, err := Dijkstra(g, Source(source), WithReturnPath())
	if err != nil {
		return nil, 0, err
	}
	if dist[target] == Unreachable {
		return nil, 0, fmt.Errorf("%w: %d→%d", ErrNoPath, source, target)
	}

	var rev []int
	for v := target; v >= 0; v = prev[v] {
		rev = append(rev, v)
	}
	path := make([]int, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}

	return path, dist[target], nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       *segment.Graph
	options Options
	dist    []float64
	prev    []int
	visited []bool
	pq      nodePQ
}

func newRunner(g *segment.Graph, cfg Options) *runner {
	n := g.NodeCount()

	return &runner{
		g:       g,
		options: cfg,
		dist:    make([]float64, n),
		prev:    make([]int, n),
		visited: make([]bool, n),
		pq:      make(nodePQ, 0, n),
	}
}

// init sets every distance to Unreachable and pushes the source at 0.
func (r *runner) init() {
	for v := range r.dist {
		r.dist[v] = Unreachable
		r.prev[v] = -1
	}
	r.dist[r.options.Source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: r.options.Source, dist: 0})
}

// process pops the closest unsettled node until the heap is empty or the
// next distance exceeds MaxDistance.
func (r *runner) process() {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id

		// Stale entry from a lazy decrease-key.
		if r.visited[u] {
			continue
		}
		if item.dist > r.options.MaxDistance {
			break
		}
		r.visited[u] = true
		r.relax(u)
	}
}

// relax tries to improve every neighbour of the settled node u.
func (r *runner) relax(u int) {
	for _, v := range r.g.Neighbors(u) {
		e, _ := r.g.EdgeBetween(u, v)
		w := r.g.Length(e)
		if w >= r.options.InfEdgeThreshold {
			continue
		}
		nd := r.dist[u] + w
		if nd > r.options.MaxDistance || nd >= r.dist[v] {
			continue
		}
		r.dist[v] = nd
		r.prev[v] = u
		heap.Push(&r.pq, &nodeItem{id: v, dist: nd})
	}
}

// nodeItem is a heap entry: a node and a tentative distance.
type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by distance, then node ID.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
