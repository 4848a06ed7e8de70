package toposort

import "sort"

// IntGraph represents a directed graph over dense integer IDs.
type IntGraph struct {
	// nodes is an adjacency list where nodes[u] contains v for every edge u -> v.
	nodes [][]int
	// inDegree stores the number of incoming edges for each node.
	inDegree []int
}

// NewIntGraph creates a new IntGraph.
func NewIntGraph() *IntGraph {
	return &IntGraph{
		nodes:    make([][]int, 0),
		inDegree: make([]int, 0),
	}
}

// EnsureCapacity ensures the graph can hold at least n nodes.
func (g *IntGraph) EnsureCapacity(n int) {
	if n <= len(g.nodes) {
		return
	}

	newNodes := make([][]int, n)
	copy(newNodes, g.nodes)
	g.nodes = newNodes

	newInDegree := make([]int, n)
	copy(newInDegree, g.inDegree)
	g.inDegree = newInDegree
}

// AddEdge adds a directed edge from u to v.
// Returns true if the edge was added, false if it already existed.
func (g *IntGraph) AddEdge(u, v int) bool {
	g.EnsureCapacity(max(u, v) + 1)

	for _, neighbor := range g.nodes[u] {
		if neighbor == v {
			return false
		}
	}

	g.nodes[u] = append(g.nodes[u], v)
	g.inDegree[v]++

	return true
}

// InDegree returns the number of incoming edges of id.
func (g *IntGraph) InDegree(id int) int {
	if id >= len(g.inDegree) {
		return 0
	}

	return g.inDegree[id]
}

// TopoSort performs a topological sort using Kahn's algorithm.
// Among ready nodes the smallest ID is always emitted first, so the output is deterministic.
// The boolean is false when a cycle prevented some nodes from being emitted.
func (g *IntGraph) TopoSort() ([]int, bool) {
	n := len(g.nodes)
	if n == 0 {
		return []int{}, true
	}

	inDegree := make([]int, n)
	copy(inDegree, g.inDegree)

	queue := make([]int, 0, n)

	for i := range n {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	result := make([]int, 0, n)

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		result = append(result, u)

		for _, v := range g.nodes[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				insertSorted(&queue, v)
			}
		}
	}

	return result, len(result) == n
}

// FindCycle returns a cycle in the graph containing the start node, closed by repeating start.
// Returns an empty slice if no cycle passes through start.
func (g *IntGraph) FindCycle(start int) []int {
	if start >= len(g.nodes) {
		return []int{}
	}

	parent := map[int]int{start: -1}
	queue := []int{start}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range g.nodes[u] {
			if v == start {
				cycle := []int{start}
				for curr := u; curr != start && curr != -1; curr = parent[curr] {
					cycle = append(cycle, curr)
				}

				cycle = append(cycle, start)

				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}

				return cycle
			}

			if _, visited := parent[v]; !visited {
				parent[v] = u
				queue = append(queue, v)
			}
		}
	}

	return []int{}
}

// insertSorted inserts v into the sorted slice s.
func insertSorted(s *[]int, v int) {
	i := sort.SearchInts(*s, v)
	*s = append(*s, 0)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = v
}
