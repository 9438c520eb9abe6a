package march

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/isolines/contour"
	"github.com/katalvlaran/isolines/field"
)

var (
	// ErrNilField indicates Rings or Extract was called without a field.
	ErrNilField = errors.New("march: field is nil")

	// ErrBadRatio indicates a MaxBoundaryRatio outside [0,1].
	ErrBadRatio = fmt.Errorf("%w: march: boundary ratio must lie in [0,1]", contour.ErrInvalidInput)

	// ErrOpenChain is returned if ring traversal meets a crossing edge that
	// is not shared by exactly two cells. It cannot happen on a padded grid
	// and signals a bug.
	ErrOpenChain = fmt.Errorf("%w: march: crossing edge without two neighbours", contour.ErrInvariantViolation)
)

// Options configures Extract.
type Options struct {
	// MaxBoundaryRatio is the largest share of boundary vertices an arc may
	// have and still be kept.
	MaxBoundaryRatio float64
}

// DefaultOptions keeps arcs with at most half of their vertices on the
// boundary.
func DefaultOptions() Options { return Options{MaxBoundaryRatio: 0.5} }

// Vertex is a ring vertex in index space. Row and Col are fractional
// positions on the age and year axes.
type Vertex struct {
	Row, Col float64
	// Boundary is set when the vertex lies on the first or last row or
	// column of the field.
	Boundary bool
}

// Ring is a closed sequence of vertices; the closing vertex is implicit.
type Ring []Vertex

// TouchesBoundary reports whether any vertex is a boundary vertex.
func (r Ring) TouchesBoundary() bool {
	for _, v := range r {
		if v.Boundary {
			return true
		}
	}

	return false
}

// sample addresses a grid sample; indices may fall one step outside the
// field, on the implicit border.
type sample struct{ r, c int }

func (s sample) less(o sample) bool {
	if s.r != o.r {
		return s.r < o.r
	}

	return s.c < o.c
}

// edge joins two 4-adjacent samples, stored with p < q.
type edge struct{ p, q sample }

func newEdge(a, b sample) edge {
	if b.less(a) {
		a, b = b, a
	}

	return edge{p: a, q: b}
}

func (e edge) less(o edge) bool {
	if e.p != o.p {
		return e.p.less(o.p)
	}

	return e.q.less(o.q)
}

type grid struct {
	f          *field.ScalarField
	level      float64
	rows, cols int
}

func (g *grid) value(s sample) (float64, bool) {
	if s.r < 0 || s.r >= g.rows || s.c < 0 || s.c >= g.cols {
		return 0, false
	}
	v := g.f.At(s.r, s.c)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

func (g *grid) inside(s sample) bool {
	v, ok := g.value(s)

	return ok && v >= g.level
}

// centerInside evaluates the cell mean; cells with a missing corner count as
// outside.
func (g *grid) centerInside(corners ...sample) bool {
	sum := 0.0
	for _, s := range corners {
		v, ok := g.value(s)
		if !ok {
			return false
		}
		sum += v
	}

	return sum/float64(len(corners)) >= g.level
}

// crossing places the contour vertex on e. When the outside sample is
// missing the vertex sits on the inside sample.
func (g *grid) crossing(e edge) Vertex {
	in, out := e.p, e.q
	if !g.inside(in) {
		in, out = out, in
	}
	vin, _ := g.value(in)
	row, col := float64(in.r), float64(in.c)
	if vout, ok := g.value(out); ok && vin != vout {
		t := (vin - g.level) / (vin - vout)
		row += t * float64(out.r-in.r)
		col += t * float64(out.c-in.c)
	}

	return Vertex{
		Row:      row,
		Col:      col,
		Boundary: row == 0 || col == 0 || row == float64(g.rows-1) || col == float64(g.cols-1),
	}
}

// Rings returns the contour rings of level on f's index grid. Rings are
// ordered by their smallest crossing edge, which makes the output
// deterministic.
func Rings(f *field.ScalarField, level float64) ([]Ring, error) {
	if f == nil {
		return nil, ErrNilField
	}
	g := &grid{f: f, level: level, rows: f.Rows(), cols: f.Cols()}

	// 1) Sweep every cell of the padded grid and link its crossing edges.
	adj := make(map[edge][]edge)
	link := func(a, b edge) {
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	for r := -1; r < g.rows; r++ {
		for c := -1; c < g.cols; c++ {
			a, b := sample{r, c}, sample{r, c + 1}
			cc, d := sample{r + 1, c + 1}, sample{r + 1, c}
			ia, ib, ic, id := g.inside(a), g.inside(b), g.inside(cc), g.inside(d)
			top, right := newEdge(a, b), newEdge(b, cc)
			bottom, left := newEdge(d, cc), newEdge(a, d)

			xs := make([]edge, 0, 4)
			if ia != ib {
				xs = append(xs, top)
			}
			if ib != ic {
				xs = append(xs, right)
			}
			if id != ic {
				xs = append(xs, bottom)
			}
			if ia != id {
				xs = append(xs, left)
			}
			switch len(xs) {
			case 2:
				link(xs[0], xs[1])
			case 4:
				// Saddle: when a shares the center's side, the a-c diagonal is
				// connected and the contour wraps around b and d.
				if ia == g.centerInside(a, b, cc, d) {
					link(top, right)
					link(bottom, left)
				} else {
					link(top, left)
					link(right, bottom)
				}
			}
		}
	}

	// 2) Walk the degree-2 edge graph from the smallest unvisited edge.
	keys := make([]edge, 0, len(adj))
	for k := range adj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	visited := make(map[edge]bool, len(keys))
	var rings []Ring
	for _, start := range keys {
		if visited[start] {
			continue
		}
		var ring Ring
		prev, cur, first := edge{}, start, true
		for {
			nb := adj[cur]
			if len(nb) != 2 {
				return nil, fmt.Errorf("%w: level %g", ErrOpenChain, level)
			}
			visited[cur] = true
			ring = append(ring, g.crossing(cur))
			next := nb[0]
			if !first && next == prev {
				next = nb[1]
			}
			prev, cur, first = cur, next, false
			if cur == start {
				break
			}
		}
		rings = append(rings, ring)
	}

	return rings, nil
}

// Extract returns the data-space fragments of level together with a flag
// per fragment telling whether it is a closed ring. Closed rings are
// returned with the first point repeated at the end.
func Extract(f *field.ScalarField, level float64, opts Options) ([]contour.Run, []bool, error) {
	if opts.MaxBoundaryRatio < 0 || opts.MaxBoundaryRatio > 1 || math.IsNaN(opts.MaxBoundaryRatio) {
		return nil, nil, fmt.Errorf("%w: %g", ErrBadRatio, opts.MaxBoundaryRatio)
	}
	rings, err := Rings(f, level)
	if err != nil {
		return nil, nil, err
	}

	var (
		runs   []contour.Run
		closed []bool
	)
	for _, ring := range rings {
		if !ring.TouchesBoundary() {
			run := toData(f, ring)
			runs = append(runs, append(run, run[0]))
			closed = append(closed, true)
			continue
		}
		for _, arc := range splitAtBoundary(ring) {
			if boundaryRatio(arc) > opts.MaxBoundaryRatio {
				continue
			}
			runs = append(runs, toData(f, arc))
			closed = append(closed, false)
		}
	}

	return runs, closed, nil
}

// splitAtBoundary cuts a boundary-touching ring into arcs that start and end
// on boundary vertices.
func splitAtBoundary(ring Ring) []Ring {
	i0 := 0
	for i, v := range ring {
		if v.Boundary {
			i0 = i
			break
		}
	}
	seq := make(Ring, 0, len(ring)+1)
	seq = append(seq, ring[i0:]...)
	seq = append(seq, ring[:i0]...)
	seq = append(seq, ring[i0])

	var arcs []Ring
	cur := Ring{seq[0]}
	for _, v := range seq[1:] {
		cur = append(cur, v)
		if v.Boundary {
			arcs = append(arcs, cur)
			cur = Ring{v}
		}
	}

	return arcs
}

func boundaryRatio(arc Ring) float64 {
	n := 0
	for _, v := range arc {
		if v.Boundary {
			n++
		}
	}

	return float64(n) / float64(len(arc))
}

func toData(f *field.ScalarField, ring Ring) contour.Run {
	out := make(contour.Run, len(ring))
	for i, v := range ring {
		out[i] = contour.Point{Year: f.YearAtCol(v.Col), Age: f.AgeAtRow(v.Row)}
	}

	return out
}
