// Package dag provides directed graph operations for rule ordering constraints.
// It supports cycle detection and an insertion-ordered, two-phase Kahn traversal.
package dag

import (
	"errors"
	"fmt"
)

// ErrSelfLoop is returned when a node is made to depend on itself.
var ErrSelfLoop = errors.New("self-loop")

// Graph represents a directed graph whose edges point from a node to the nodes
// that must come after it.
type Graph struct {
	nodes   map[string]bool
	order   []string            // insertion order, used to break ties
	edges   map[string][]string // parent -> children (dependents)
	parents map[string][]string // child -> parents (dependencies)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]bool),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if g.nodes[id] {
		return
	}
	g.nodes[id] = true
	g.order = append(g.order, id)
	g.edges[id] = []string{}
	g.parents[id] = []string{}
}

// AddEdge adds a directed edge from parent to child (child runs after parent).
func (g *Graph) AddEdge(parentID, childID string) error {
	// Ensure both nodes exist
	if !g.nodes[parentID] {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if !g.nodes[childID] {
		return fmt.Errorf("child node %q does not exist", childID)
	}

	if parentID == childID {
		return fmt.Errorf("%w: %s", ErrSelfLoop, parentID)
	}

	// Add edge (avoid duplicates)
	if !contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}

	return nil
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
// The path starts and ends with the same id.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string) // Track the path for error reporting

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.edges[id] {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				// Found cycle, reconstruct path
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.order {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// Drain orders the graph with Kahn's algorithm in two phases.
//
// Phase one releases only nodes for which deferred returns false, and only those
// nodes are enqueued as their dependencies drain. Phase two seeds every remaining
// node whose dependencies are satisfied and drains without the filter. Queues are
// FIFO and seeded in insertion order, so equal inputs give equal orders.
//
// Nodes that cannot be released because they sit on or behind a cycle are returned
// as unresolved, in insertion order. A nil deferred runs a single plain phase.
func (g *Graph) Drain(deferred func(id string) bool) (ordered, unresolved []string) {
	if deferred == nil {
		deferred = func(string) bool { return false }
	}

	indegree := make(map[string]int, len(g.nodes))
	for _, id := range g.order {
		indegree[id] = len(g.parents[id])
	}
	emitted := make(map[string]bool, len(g.nodes))
	ordered = make([]string, 0, len(g.nodes))

	relax := func(queue []string, eligible func(id string) bool) {
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			emitted[id] = true
			ordered = append(ordered, id)
			for _, child := range g.edges[id] {
				indegree[child]--
				if indegree[child] == 0 && eligible(child) {
					queue = append(queue, child)
				}
			}
		}
	}

	// Phase 1: eager nodes only.
	var queue []string
	for _, id := range g.order {
		if indegree[id] == 0 && !deferred(id) {
			queue = append(queue, id)
		}
	}
	relax(queue, func(id string) bool { return !deferred(id) })

	// Phase 2: everything still waiting.
	queue = nil
	for _, id := range g.order {
		if !emitted[id] && indegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	relax(queue, func(string) bool { return true })

	for _, id := range g.order {
		if !emitted[id] {
			unresolved = append(unresolved, id)
		}
	}
	return ordered, unresolved
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
