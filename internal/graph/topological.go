package graph

import (
	"errors"
	"sort"
)

var ErrCycleDetected = errors.New("cycle detected in graph")

// TopologicalSort orders nodes so every node follows its dependencies.
// Ties break lexicographically so the order is deterministic.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodeCount := len(g.nodes)
	dependents := make(map[string][]string, nodeCount)
	inDegree := make(map[string]int, nodeCount)

	ids := make([]string, 0, nodeCount)
	for id := range g.nodes {
		ids = append(ids, id)
		inDegree[id] = 0
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, dep := range g.edges[id] {
			if _, exists := g.nodes[dep]; exists {
				dependents[dep] = append(dependents[dep], id)
				inDegree[id]++
			}
		}
	}

	var queue []string
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var sorted []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		next := dependents[node]
		sort.Strings(next)
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, ErrCycleDetected
	}

	return sorted, nil
}

func (g *Graph) ReverseTopologicalSort() ([]string, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	n := len(sorted)
	reversed := make([]string, n)
	for i, v := range sorted {
		reversed[n-1-i] = v
	}

	return reversed, nil
}

func (g *Graph) StartupOrder() ([]string, error) {
	return g.TopologicalSort()
}

func (g *Graph) ShutdownOrder() ([]string, error) {
	return g.ReverseTopologicalSort()
}
