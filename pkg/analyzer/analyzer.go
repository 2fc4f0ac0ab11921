// Package analyzer computes structural properties of a workflow graph: entry and
// exit points, isolated nodes, cycles, reachability, depth and simple paths.
//
// All computations are synchronous and read-only over one graph snapshot.
// Path enumeration is worst-case exponential in the number of branch nodes;
// callers bound it with Options.MaxPaths.
package analyzer

import (
	"slices"

	"github.com/dukex/operion-analyzer/pkg/graph"
	"github.com/dukex/operion-analyzer/pkg/models"
)

// Options tunes the analyzer.
type Options struct {
	// MaxPaths caps ConnectionPaths; 0 means unlimited.
	MaxPaths int
}

// GraphAnalysis is the read-only view rule checkers consume instead of
// re-deriving traversal on their own.
type GraphAnalysis interface {
	EntryPoints() []string
	ExitPoints() []string
	IsolatedNodes() []string
	Cycles() [][]string
	UnreachableNodes() []string
	MaxDepth() int
	Paths() []models.ConnectionPath
	PathsTruncated() bool
	IsReachable(nodeID string) bool
}

// Analyzer runs the graph algorithms over one Graph.
type Analyzer struct {
	graph   *graph.Graph
	options Options
}

func New(g *graph.Graph, options Options) *Analyzer {
	return &Analyzer{graph: g, options: options}
}

// EntryPoints returns the nodes without incoming edges, in input order.
func (a *Analyzer) EntryPoints() []string {
	entries := make([]string, 0)

	for _, id := range a.graph.NodeIDs() {
		if len(a.graph.Incoming(id)) == 0 {
			entries = append(entries, id)
		}
	}

	return entries
}

// ExitPoints returns the nodes without outgoing edges, in input order.
func (a *Analyzer) ExitPoints() []string {
	exits := make([]string, 0)

	for _, id := range a.graph.NodeIDs() {
		if len(a.graph.Outgoing(id)) == 0 {
			exits = append(exits, id)
		}
	}

	return exits
}

// IsolatedNodes returns the nodes that are both entry and exit points.
func (a *Analyzer) IsolatedNodes() []string {
	isolated := make([]string, 0)

	for _, id := range a.graph.NodeIDs() {
		if len(a.graph.Incoming(id)) == 0 && len(a.graph.Outgoing(id)) == 0 {
			isolated = append(isolated, id)
		}
	}

	return isolated
}

// UnreachableNodes returns, in input order, the nodes outside the forward
// closure of entries.
func (a *Analyzer) UnreachableNodes(entries []string) []string {
	reachable := a.reachable(entries)
	unreachable := make([]string, 0)

	for _, id := range a.graph.NodeIDs() {
		if !reachable[id] {
			unreachable = append(unreachable, id)
		}
	}

	return unreachable
}

func (a *Analyzer) reachable(entries []string) map[string]bool {
	reachable := make(map[string]bool, a.graph.Len())
	queue := make([]string, 0, len(entries))

	for _, id := range entries {
		if a.graph.HasNode(id) && !reachable[id] {
			reachable[id] = true
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range a.graph.Successors(current) {
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}

	return reachable
}

// MaxDepth returns the longest edge count from any of entries along a simple
// path. A node is revisited only when reached with a strictly greater depth,
// and never while it is on the current branch.
func (a *Analyzer) MaxDepth(entries []string) int {
	best := make(map[string]int, a.graph.Len())
	onPath := make(map[string]bool)
	maxDepth := 0

	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		if recorded, seen := best[id]; seen && depth <= recorded {
			return
		}

		best[id] = depth
		maxDepth = max(maxDepth, depth)
		onPath[id] = true

		for _, next := range a.graph.Successors(id) {
			if !onPath[next] {
				visit(next, depth+1)
			}
		}

		onPath[id] = false
	}

	for _, id := range entries {
		if a.graph.HasNode(id) {
			visit(id, 0)
		}
	}

	return maxDepth
}

// ConnectionPaths enumerates simple paths from each entry point. A path ends
// at a node without outgoing edges, or is marked truncated when every
// successor is already on the path. The second result reports whether
// enumeration stopped at Options.MaxPaths.
func (a *Analyzer) ConnectionPaths(entries []string) ([]models.ConnectionPath, bool) {
	paths := make([]models.ConnectionPath, 0)
	limit := a.options.MaxPaths
	limited := false
	onPath := make(map[string]bool)
	current := make([]string, 0)

	var walk func(id string)
	walk = func(id string) {
		if limited {
			return
		}

		current = append(current, id)
		onPath[id] = true

		successors := a.graph.Successors(id)
		descended := false

		for _, next := range successors {
			if onPath[next] {
				continue
			}

			descended = true

			walk(next)
		}

		if !descended && !limited {
			if limit > 0 && len(paths) >= limit {
				limited = true
			} else {
				paths = append(paths, models.ConnectionPath{
					Path:      slices.Clone(current),
					Valid:     true,
					Errors:    []string{},
					Truncated: len(successors) > 0,
				})
			}
		}

		onPath[id] = false
		current = current[:len(current)-1]
	}

	for _, id := range entries {
		if a.graph.HasNode(id) {
			walk(id)
		}
	}

	return paths, limited
}

// Result runs every computation from the workflow's own entry points.
func (a *Analyzer) Result() *Result {
	entries := a.EntryPoints()
	unreachable := a.UnreachableNodes(entries)
	paths, truncated := a.ConnectionPaths(entries)

	reachable := make(map[string]bool, a.graph.Len())
	for _, id := range a.graph.NodeIDs() {
		reachable[id] = true
	}

	for _, id := range unreachable {
		reachable[id] = false
	}

	return &Result{
		entryPoints:      entries,
		exitPoints:       a.ExitPoints(),
		isolatedNodes:    a.IsolatedNodes(),
		cycles:           a.DetectCycles(),
		unreachableNodes: unreachable,
		maxDepth:         a.MaxDepth(entries),
		paths:            paths,
		pathsTruncated:   truncated,
		reachable:        reachable,
	}
}

// Result is an immutable snapshot of one analysis.
type Result struct {
	entryPoints      []string
	exitPoints       []string
	isolatedNodes    []string
	cycles           [][]string
	unreachableNodes []string
	maxDepth         int
	paths            []models.ConnectionPath
	pathsTruncated   bool
	reachable        map[string]bool
}

var _ GraphAnalysis = (*Result)(nil)

func (r *Result) EntryPoints() []string          { return r.entryPoints }
func (r *Result) ExitPoints() []string           { return r.exitPoints }
func (r *Result) IsolatedNodes() []string        { return r.isolatedNodes }
func (r *Result) Cycles() [][]string             { return r.cycles }
func (r *Result) UnreachableNodes() []string     { return r.unreachableNodes }
func (r *Result) MaxDepth() int                  { return r.maxDepth }
func (r *Result) Paths() []models.ConnectionPath { return r.paths }
func (r *Result) PathsTruncated() bool           { return r.pathsTruncated }
func (r *Result) IsReachable(nodeID string) bool { return r.reachable[nodeID] }
