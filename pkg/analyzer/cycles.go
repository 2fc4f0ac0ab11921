package analyzer

import (
	"slices"
	"strings"
)

// DetectCycles returns the directed cycles found by depth-first traversal.
// Traversal restarts from every unvisited node, in input order, so cycles that
// no entry point reaches are still found. Each cycle lists the nodes from the
// revisited node's position on the DFS path through the node that closed it.
// Rotations of an already reported cycle are dropped.
func (a *Analyzer) DetectCycles() [][]string {
	visited := make(map[string]bool, a.graph.Len())
	recursionStack := make(map[string]bool)
	path := make([]string, 0)
	cycles := make([][]string, 0)
	reported := make(map[string]bool)

	var dfs func(id string)
	dfs = func(id string) {
		visited[id] = true
		recursionStack[id] = true
		path = append(path, id)

		for _, next := range a.graph.Successors(id) {
			if recursionStack[next] {
				start := slices.Index(path, next)
				cycle := slices.Clone(path[start:])

				key := canonicalCycleKey(cycle)
				if !reported[key] {
					reported[key] = true
					cycles = append(cycles, cycle)
				}

				continue
			}

			if !visited[next] {
				dfs(next)
			}
		}

		path = path[:len(path)-1]
		recursionStack[id] = false
	}

	for _, id := range a.graph.NodeIDs() {
		if !visited[id] {
			dfs(id)
		}
	}

	return cycles
}

// canonicalCycleKey rotates the cycle to start at its smallest node id so that
// rotations of the same cycle share a key.
func canonicalCycleKey(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}

	smallest := 0

	for i, id := range cycle {
		if id < cycle[smallest] {
			smallest = i
		}
	}

	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[smallest:]...)
	rotated = append(rotated, cycle[:smallest]...)

	return strings.Join(rotated, "\x00")
}
