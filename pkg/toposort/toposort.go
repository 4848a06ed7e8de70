// Package toposort orders named nodes of a directed acyclic graph.
package toposort

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned by Sorted when the graph is not acyclic.
var ErrCycle = errors.New("graph contains a cycle")

// Graph represents a directed graph of named nodes.
// Nodes are ranked by the order in which they were first added.
type Graph struct {
	symbols  *SymbolTable
	intGraph *IntGraph
}

// NewGraph initializes a new Graph.
func NewGraph() *Graph {
	return &Graph{
		symbols:  NewSymbolTable(),
		intGraph: NewIntGraph(),
	}
}

// AddNode inserts a new node into the graph.
// Returns false if the node already exists.
func (g *Graph) AddNode(name string) bool {
	if _, exists := g.symbols.Lookup(name); exists {
		return false
	}

	id := g.symbols.Intern(name)
	g.intGraph.EnsureCapacity(id + 1)

	return true
}

// AddEdge inserts the link from "from" node to "to" node, adding missing nodes.
// Returns the in-degree of "to" after the insertion.
func (g *Graph) AddEdge(from, to string) int {
	u := g.symbols.Intern(from)
	v := g.symbols.Intern(to)

	g.intGraph.AddEdge(u, v)

	return g.intGraph.InDegree(v)
}

// Toposort sorts the nodes in the graph in topological order.
// Ties are broken by insertion order. The boolean is false if a cycle was detected,
// in which case the returned slice holds only the nodes that could be ordered.
func (g *Graph) Toposort() ([]string, bool) {
	ids, ok := g.intGraph.TopoSort()

	return g.resolveAll(ids), ok
}

// Sorted is Toposort with the cycle reported as an error naming one offending cycle.
func (g *Graph) Sorted() ([]string, error) {
	order, ok := g.Toposort()
	if ok {
		return order, nil
	}

	emitted := make(map[string]bool, len(order))
	for _, name := range order {
		emitted[name] = true
	}

	for id := range g.symbols.Len() {
		name := g.symbols.Resolve(id)
		if emitted[name] {
			continue
		}

		if cycle := g.FindCycle(name); len(cycle) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " -> "))
		}
	}

	return nil, ErrCycle
}

// FindCycle returns the cycle in the graph which contains the "seed" node,
// closed by repeating the seed. Returns an empty slice if there is none.
func (g *Graph) FindCycle(seed string) []string {
	id, exists := g.symbols.Lookup(seed)
	if !exists {
		return []string{}
	}

	return g.resolveAll(g.intGraph.FindCycle(id))
}

func (g *Graph) resolveAll(ids []int) []string {
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = g.symbols.Resolve(id)
	}

	return result
}
