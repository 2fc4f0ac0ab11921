// Package graph provides the in-memory adjacency view of a workflow.
package graph

import (
	"fmt"

	"github.com/dukex/operion-analyzer/pkg/models"
)

// Graph is a read-only adjacency view of one workflow snapshot.
// Connections with a missing endpoint are kept aside and excluded from traversal.
type Graph struct {
	nodes    []*models.Node
	byID     map[string]*models.Node
	edges    []models.Connection
	outgoing map[string][]models.Connection
	incoming map[string][]models.Connection
	dangling []models.Connection
	findings []models.Finding
}

// New builds the graph in O(V+E). It never fails on bad references.
func New(workflow *models.Workflow) *Graph {
	g := &Graph{
		nodes:    make([]*models.Node, 0),
		byID:     make(map[string]*models.Node),
		edges:    make([]models.Connection, 0),
		outgoing: make(map[string][]models.Connection),
		incoming: make(map[string][]models.Connection),
		dangling: make([]models.Connection, 0),
		findings: make([]models.Finding, 0),
	}

	if workflow == nil {
		return g
	}

	byName := make(map[string]string)
	order := make([]string, 0, len(workflow.Nodes))

	for _, node := range workflow.Nodes {
		if node == nil {
			continue
		}

		if _, exists := g.byID[node.ID]; exists {
			g.findings = append(g.findings, models.Finding{
				Severity: models.SeverityError,
				Kind:     models.KindStructural,
				Message:  fmt.Sprintf("duplicate node id %q; only the first occurrence is analyzed", node.ID),
				NodeID:   node.ID,
			})

			continue
		}

		g.byID[node.ID] = node
		g.nodes = append(g.nodes, node)
		order = append(order, node.ID)

		if node.Name != "" {
			if _, taken := byName[node.Name]; !taken {
				byName[node.Name] = node.ID
			}
		}
	}

	resolve := func(ref string) string {
		if _, ok := g.byID[ref]; ok {
			return ref
		}

		if id, ok := byName[ref]; ok {
			return id
		}

		return ref
	}

	for _, connection := range workflow.Connections.Flatten(order, resolve) {
		g.addEdge(connection)
	}

	return g
}

func (g *Graph) addEdge(connection models.Connection) {
	_, sourceOK := g.byID[connection.SourceNodeID]
	_, targetOK := g.byID[connection.TargetNodeID]

	if !sourceOK || !targetOK {
		g.dangling = append(g.dangling, connection)

		missing := connection.TargetNodeID
		if !sourceOK {
			missing = connection.SourceNodeID
		}

		g.findings = append(g.findings, models.Finding{
			Severity:     models.SeverityError,
			Kind:         models.KindStructural,
			Message:      fmt.Sprintf("connection %s references missing node %q", connection.ID(), missing),
			NodeID:       missing,
			ConnectionID: connection.ID(),
		})

		return
	}

	g.edges = append(g.edges, connection)
	g.outgoing[connection.SourceNodeID] = append(g.outgoing[connection.SourceNodeID], connection)
	g.incoming[connection.TargetNodeID] = append(g.incoming[connection.TargetNodeID], connection)
}

// Nodes returns the nodes in input order (duplicates removed).
func (g *Graph) Nodes() []*models.Node {
	return g.nodes
}

// NodeIDs returns the node ids in input order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		ids = append(ids, node.ID)
	}

	return ids
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*models.Node, bool) {
	node, ok := g.byID[id]

	return node, ok
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.byID[id]

	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Edges returns every valid edge in deterministic order.
func (g *Graph) Edges() []models.Connection {
	return g.edges
}

// Outgoing returns the valid edges leaving id.
func (g *Graph) Outgoing(id string) []models.Connection {
	return g.outgoing[id]
}

// Incoming returns the valid edges entering id.
func (g *Graph) Incoming(id string) []models.Connection {
	return g.incoming[id]
}

// Successors returns the distinct targets of id, in edge order.
func (g *Graph) Successors(id string) []string {
	edges := g.outgoing[id]
	targets := make([]string, 0, len(edges))
	seen := make(map[string]bool, len(edges))

	for _, edge := range edges {
		if !seen[edge.TargetNodeID] {
			seen[edge.TargetNodeID] = true
			targets = append(targets, edge.TargetNodeID)
		}
	}

	return targets
}

// EdgeBetween returns the first edge from source to target.
func (g *Graph) EdgeBetween(source, target string) (models.Connection, bool) {
	for _, edge := range g.outgoing[source] {
		if edge.TargetNodeID == target {
			return edge, true
		}
	}

	return models.Connection{}, false
}

// Dangling returns connections excluded because an endpoint is missing.
func (g *Graph) Dangling() []models.Connection {
	return g.dangling
}

// Findings returns the structural findings collected while building the graph.
func (g *Graph) Findings() []models.Finding {
	return g.findings
}
