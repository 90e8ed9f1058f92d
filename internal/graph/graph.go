// Package graph provides an immutable dependency graph keyed by opaque task ids.
//
// Arcs are stored in both directions so that prerequisites and dependents of a
// node are available in O(1). Node order is the byte-wise order of the ids, and
// every traversal visits neighbors in that order, so results are reproducible
// for a given input.
package graph

import (
	"slices"
)

// Edge is a dependency between two nodes: Task depends on DependsOn.
type Edge struct {
	Task      string `json:"task"`
	DependsOn string `json:"dependsOn"`
}

// Graph is a snapshot of a dependency graph.
//
// It is safe for concurrent read access.
type Graph struct {
	index      map[string]int
	ids        []string // canonical order (sorted)
	prereqs    [][]int  // by canonical index: nodes this node depends on, sorted
	dependents [][]int  // by canonical index: nodes depending on this node, sorted
	edges      int
}

// New builds a graph from the given nodes and edges.
//
// Duplicate nodes and duplicate edges are collapsed. Edges whose endpoints are
// not both in nodes are ignored. Self-loops are kept so that traversals can
// report them as cycles.
func New(nodes []string, edges []Edge) *Graph {
	ids := slices.Clone(nodes)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	g := &Graph{
		index:      index,
		ids:        ids,
		prereqs:    make([][]int, len(ids)),
		dependents: make([][]int, len(ids)),
	}

	seen := make(map[[2]int]struct{}, len(edges))
	for _, e := range edges {
		from, okFrom := index[e.Task]
		to, okTo := index[e.DependsOn]
		if !okFrom || !okTo {
			continue
		}
		key := [2]int{from, to}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		g.prereqs[from] = append(g.prereqs[from], to)
		g.dependents[to] = append(g.dependents[to], from)
		g.edges++
	}
	for i := range ids {
		slices.Sort(g.prereqs[i])
		slices.Sort(g.dependents[i])
	}

	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.ids) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns the node ids in canonical order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.ids)
}

// Prerequisites returns the ids the node depends on, in canonical order.
func (g *Graph) Prerequisites(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.names(g.prereqs[i])
}

// Dependents returns the ids that depend on the node, in canonical order.
func (g *Graph) Dependents(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.names(g.dependents[i])
}

// Edges returns every edge ordered by (Task, DependsOn).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for from, tos := range g.prereqs {
		for _, to := range tos {
			out = append(out, Edge{Task: g.ids[from], DependsOn: g.ids[to]})
		}
	}
	return out
}

func (g *Graph) names(idx []int) []string {
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = g.ids[n]
	}
	return out
}
