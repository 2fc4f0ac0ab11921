// Package compat decides whether data leaving one port is acceptable input for another.
package compat

import (
	"fmt"

	"github.com/dukex/operion-analyzer/pkg/graph"
	"github.com/dukex/operion-analyzer/pkg/models"
)

// conversions lists, per source type, the target types it converts to.
// The table is directional: number -> string holds, string -> number does not.
var conversions = map[models.DataType][]models.DataType{
	models.DataTypeString:    {models.DataTypeJSON},
	models.DataTypeNumber:    {models.DataTypeString, models.DataTypeJSON},
	models.DataTypeBoolean:   {models.DataTypeString, models.DataTypeNumber, models.DataTypeJSON},
	models.DataTypeJSON:      {models.DataTypeString, models.DataTypeArray, models.DataTypeObject},
	models.DataTypeArray:     {models.DataTypeJSON},
	models.DataTypeObject:    {models.DataTypeJSON},
	models.DataTypeBinary:    {},
	models.DataTypeNull:      {},
	models.DataTypeUndefined: {},
}

// Compatible reports whether src data is acceptable where dst is declared.
// `any` on either side is always compatible.
func Compatible(src, dst models.DataType) bool {
	if src == models.DataTypeAny || dst == models.DataTypeAny || src == dst {
		return true
	}

	for _, target := range conversions[src] {
		if target == dst {
			return true
		}
	}

	return false
}

// SpecSource resolves node types to data specs.
type SpecSource interface {
	SpecFor(nodeType string) models.NodeDataSpec
}

// Checker applies Compatible to concrete edges.
type Checker struct {
	specs SpecSource
}

func NewChecker(specs SpecSource) *Checker {
	return &Checker{specs: specs}
}

// SpecFor returns the data spec of a node.
func (c *Checker) SpecFor(node *models.Node) models.NodeDataSpec {
	return c.specs.SpecFor(node.Type)
}

// CheckEdge checks the declared types on both sides of a connection. It returns
// nil when compatible, a MISSING_TYPE_SPEC warning when either port has no
// declared type, or a TYPE_MISMATCH error.
func (c *Checker) CheckEdge(source *models.Node, outputPort string, target *models.Node, inputPort string) *models.Finding {
	connectionID := models.Connection{
		SourceNodeID: source.ID,
		OutputPort:   outputPort,
		TargetNodeID: target.ID,
		InputPort:    inputPort,
	}.ID()

	return c.check(source, outputPort, target, inputPort, connectionID)
}

// CheckConnection is CheckEdge for a resolved connection.
func (c *Checker) CheckConnection(source, target *models.Node, connection models.Connection) *models.Finding {
	return c.check(source, connection.OutputPort, target, connection.InputPort, connection.ID())
}

func (c *Checker) check(source *models.Node, outputPort string, target *models.Node, inputPort, connectionID string) *models.Finding {
	output, ok := c.SpecFor(source).Output(outputPort)
	if !ok || output.Type == "" {
		return missingSpec(source, outputPort, models.PortDirectionOutput, connectionID)
	}

	input, ok := c.SpecFor(target).Input(inputPort)
	if !ok || input.Type == "" {
		return missingSpec(target, inputPort, models.PortDirectionInput, connectionID)
	}

	if Compatible(output.Type, input.Type) {
		return nil
	}

	return &models.Finding{
		Severity: models.SeverityError,
		Kind:     models.KindTypeMismatch,
		Message: fmt.Sprintf("node %q emits %s on output %q but node %q expects %s on input %q",
			source.ID, output.Type, outputPort, target.ID, input.Type, inputPort),
		NodeID:       target.ID,
		ConnectionID: connectionID,
	}
}

func missingSpec(node *models.Node, port string, direction models.PortDirection, connectionID string) *models.Finding {
	return &models.Finding{
		Severity:     models.SeverityWarning,
		Kind:         models.KindMissingTypeSpec,
		Message:      fmt.Sprintf("node type %q declares no data type for %s port %q", node.Type, direction, port),
		NodeID:       node.ID,
		ConnectionID: connectionID,
	}
}

// EdgeResults holds the check result of every valid edge, keyed by connection ID.
type EdgeResults map[string]*models.Finding

// CheckGraph checks every valid edge of g once and returns the findings in
// edge order together with the per-edge results.
func (c *Checker) CheckGraph(g *graph.Graph) ([]models.Finding, EdgeResults) {
	findings := make([]models.Finding, 0)
	results := make(EdgeResults, len(g.Edges()))

	for _, edge := range g.Edges() {
		source, _ := g.Node(edge.SourceNodeID)
		target, _ := g.Node(edge.TargetNodeID)

		finding := c.CheckConnection(source, target, edge)
		results[edge.ID()] = finding

		if finding != nil {
			findings = append(findings, *finding)
		}
	}

	return findings, results
}
