package segment

import (
	"sort"

	"github.com/katalvlaran/isolines/contour"
)

// Path is a maximal simple path extracted from the graph.
type Path struct {
	// Nodes lists the node IDs in order; a closed path repeats its first
	// node at the end.
	Nodes []int

	// Slot is the smallest run index among the path's edges, or NoRun when
	// every edge was added by hand.
	Slot int

	Closed bool
}

// Run converts p to a polyline.
func (g *Graph) Run(p Path) contour.Run {
	out := make(contour.Run, len(p.Nodes))
	for i, id := range p.Nodes {
		out[i] = g.nodes[id].P
	}

	return out
}

// Paths decomposes the graph into maximal simple paths:
//
//  1. open paths walked from every degree-1 node,
//  2. paths walked from every branch node (degree ≥ 3),
//  3. the remaining cycles, each started at its lowest node.
//
// Each path is oriented to agree with the majority of its edges' original
// run directions and the result is ordered by Slot, then by extraction
// order. Hand-added edges (NoRun) sort last.
func (g *Graph) Paths() []Path {
	used := make(map[int]bool, len(g.edges))
	var out []Path

	var ends, branches []int
	for id := range g.nodes {
		switch d := g.Degree(id); {
		case d == 1:
			ends = append(ends, id)
		case d >= 3:
			branches = append(branches, id)
		}
	}
	for _, starts := range [][]int{ends, branches} {
		for _, s := range starts {
			for _, v := range g.Neighbors(s) {
				if used[g.adj[s][v]] {
					continue
				}
				out = append(out, g.walk(s, v, used))
			}
		}
	}

	// Only degree-2 cycles remain.
	for id := range g.nodes {
		for _, v := range g.Neighbors(id) {
			if used[g.adj[id][v]] {
				continue
			}
			out = append(out, g.walk(id, v, used))
		}
	}

	for i := range out {
		g.orient(&out[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return slotKey(out[i].Slot) < slotKey(out[j].Slot) })

	return out
}

func slotKey(s int) int {
	if s == NoRun {
		return int(^uint(0) >> 1)
	}

	return s
}

// walk follows unused edges from s through next until it reaches a node
// whose degree is not 2, or comes back to s.
func (g *Graph) walk(s, next int, used map[int]bool) Path {
	nodes := []int{s}
	prev, cur := s, next
	for {
		used[g.adj[prev][cur]] = true
		nodes = append(nodes, cur)
		if cur == s || g.Degree(cur) != 2 {
			break
		}
		nb := -1
		for _, v := range g.Neighbors(cur) {
			if !used[g.adj[cur][v]] {
				nb = v
				break
			}
		}
		if nb < 0 {
			break
		}
		prev, cur = cur, nb
	}

	return Path{Nodes: nodes, Closed: len(nodes) > 2 && nodes[0] == nodes[len(nodes)-1]}
}

// orient reverses p when most of its run edges point the other way, and
// computes its slot.
func (g *Graph) orient(p *Path) {
	agree, disagree := 0, 0
	p.Slot = NoRun
	for i := 1; i < len(p.Nodes); i++ {
		u, v := p.Nodes[i-1], p.Nodes[i]
		e := g.edges[g.adj[u][v]]
		if e.Run == NoRun {
			continue
		}
		if p.Slot == NoRun || e.Run < p.Slot {
			p.Slot = e.Run
		}
		if e.From == u {
			agree++
		} else {
			disagree++
		}
	}
	if disagree > agree {
		for i, j := 0, len(p.Nodes)-1; i < j; i, j = i+1, j-1 {
			p.Nodes[i], p.Nodes[j] = p.Nodes[j], p.Nodes[i]
		}
	}
}
