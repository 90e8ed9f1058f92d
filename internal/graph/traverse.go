package graph

import "slices"

// Reachable reports whether to can be reached from from by following edges in
// the depends-on direction (from a node to the nodes it depends on).
// Every node is visited at most once, so the search terminates even when the
// graph already contains a cycle.
func (g *Graph) Reachable(from, to string) bool {
	start, ok := g.index[from]
	if !ok {
		return false
	}
	target, ok := g.index[to]
	if !ok {
		return false
	}
	if start == target {
		return true
	}

	visited := make([]bool, len(g.ids))
	visited[start] = true
	stack := []int{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.prereqs[n] {
			if next == target {
				return true
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			stack = append(stack, next)
		}
	}
	return false
}

// WouldCycle reports whether adding the edge (task depends on dependsOn) would
// close a cycle in the graph. A self-dependency is always a cycle. The check is
// made against the graph as it is, without the proposed edge.
func (g *Graph) WouldCycle(task, dependsOn string) bool {
	if task == dependsOn {
		return true
	}
	return g.Reachable(dependsOn, task)
}

// Order is a topological ordering of the graph.
type Order struct {
	// Sorted lists nodes so that every prerequisite precedes its dependents.
	Sorted []string
	// Unresolved lists nodes that never became ready because they are on or
	// behind a cycle. It is empty for a DAG.
	Unresolved []string
}

// TopologicalOrder returns a deterministic Kahn ordering of the graph.
func (g *Graph) TopologicalOrder() Order {
	order := Order{Sorted: make([]string, 0, len(g.ids))}
	resolved := g.kahn(func(cur int) {
		order.Sorted = append(order.Sorted, g.ids[cur])
	})
	for i, id := range g.ids {
		if resolved[i] < 0 {
			order.Unresolved = append(order.Unresolved, id)
		}
	}
	return order
}

// Path is the longest chain of dependent nodes in the graph.
type Path struct {
	// Nodes lists the chain from the first prerequisite to the last dependent.
	Nodes []string
	// Length is the number of edges in the chain.
	Length int
	// Unresolved lists nodes excluded because they are on or behind a cycle.
	Unresolved []string
}

// LongestPath computes the longest chain by edge count using Kahn's algorithm
// with distance propagation.
//
// Ready nodes are processed in canonical order and a node's distance only
// changes on a strictly longer chain, so the first chain found wins among
// equals. Among nodes sharing the maximum distance the lowest id is chosen.
// A graph with nodes but no edges yields the lowest id as a single-node path.
func (g *Graph) LongestPath() Path {
	dist := make([]int, len(g.ids))
	pred := make([]int, len(g.ids))
	for i := range pred {
		pred[i] = -1
	}

	resolved := g.kahn(func(cur int) {
		for _, next := range g.dependents[cur] {
			if dist[cur]+1 > dist[next] {
				dist[next] = dist[cur] + 1
				pred[next] = cur
			}
		}
	})

	var path Path
	best := -1
	for i, id := range g.ids {
		if resolved[i] < 0 {
			path.Unresolved = append(path.Unresolved, id)
			continue
		}
		if best < 0 || dist[i] > dist[best] {
			best = i
		}
	}
	if best < 0 {
		return path
	}

	for n := best; n >= 0; n = pred[n] {
		path.Nodes = append(path.Nodes, g.ids[n])
	}
	slices.Reverse(path.Nodes)
	path.Length = dist[best]
	return path
}

// kahn runs Kahn's algorithm in the prerequisite-to-dependent direction,
// calling visit for each node as it is dequeued. It returns, by canonical
// index, the position at which each node was dequeued, or -1 for nodes that
// never reached in-degree zero.
func (g *Graph) kahn(visit func(int)) []int {
	indeg := make([]int, len(g.ids))
	pos := make([]int, len(g.ids))
	queue := make([]int, 0, len(g.ids))
	for i := range g.ids {
		indeg[i] = len(g.prereqs[i])
		pos[i] = -1
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		pos[cur] = head
		visit(cur)
		for _, next := range g.dependents[cur] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return pos
}
