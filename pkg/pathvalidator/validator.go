// Package pathvalidator checks every hop of the enumerated connection paths for
// type compatibility and transformation template syntax.
package pathvalidator

import (
	"fmt"
	"slices"

	"github.com/dukex/operion-analyzer/pkg/compat"
	"github.com/dukex/operion-analyzer/pkg/graph"
	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/dukex/operion-analyzer/pkg/template"
)

// Result holds the validated paths and the template findings raised while
// walking them. Each edge contributes at most one template finding no matter
// how many paths traverse it.
type Result struct {
	Paths    []models.ConnectionPath
	Valid    int
	Invalid  int
	Findings []models.Finding
}

// Validator walks paths over one graph.
type Validator struct {
	graph   *graph.Graph
	checker *compat.Checker

	edges     compat.EdgeResults
	templates map[string]*models.Finding
}

func New(g *graph.Graph, checker *compat.Checker) *Validator {
	return &Validator{
		graph:     g,
		checker:   checker,
		edges:     make(compat.EdgeResults),
		templates: make(map[string]*models.Finding),
	}
}

// WithEdgeResults seeds the validator with edge checks already computed by
// compat.Checker.CheckGraph so hops are not checked twice.
func (v *Validator) WithEdgeResults(results compat.EdgeResults) *Validator {
	for id, finding := range results {
		v.edges[id] = finding
	}

	return v
}

// Validate returns a copy of paths with Valid and Errors filled in. A path is
// valid when none of its hops produced an error finding.
func (v *Validator) Validate(paths []models.ConnectionPath) *Result {
	result := &Result{
		Paths:    make([]models.ConnectionPath, 0, len(paths)),
		Findings: make([]models.Finding, 0),
	}

	reported := make(map[string]bool)

	for _, path := range paths {
		validated := models.ConnectionPath{
			Path:      slices.Clone(path.Path),
			Errors:    make([]string, 0),
			Truncated: path.Truncated,
		}

		for i := 1; i < len(path.Path); i++ {
			edge, ok := v.graph.EdgeBetween(path.Path[i-1], path.Path[i])
			if !ok {
				validated.Errors = append(validated.Errors,
					fmt.Sprintf("no connection from %q to %q", path.Path[i-1], path.Path[i]))

				continue
			}

			if finding := v.checkEdge(edge); finding != nil && finding.IsError() {
				validated.Errors = append(validated.Errors, finding.Message)
			}

			if finding := v.checkTemplate(edge); finding != nil {
				validated.Errors = append(validated.Errors, finding.Message)

				if !reported[edge.ID()] {
					reported[edge.ID()] = true
					result.Findings = append(result.Findings, *finding)
				}
			}
		}

		validated.Valid = len(validated.Errors) == 0
		if validated.Valid {
			result.Valid++
		} else {
			result.Invalid++
		}

		result.Paths = append(result.Paths, validated)
	}

	return result
}

func (v *Validator) checkEdge(edge models.Connection) *models.Finding {
	id := edge.ID()

	if finding, ok := v.edges[id]; ok {
		return finding
	}

	source, _ := v.graph.Node(edge.SourceNodeID)
	target, _ := v.graph.Node(edge.TargetNodeID)

	finding := v.checker.CheckConnection(source, target, edge)
	v.edges[id] = finding

	return finding
}

// checkTemplate checks the transformation declared on the edge's output port.
// A template set on the node overrides the one declared by its spec. Plain
// literals reference no data and are not scanned.
func (v *Validator) checkTemplate(edge models.Connection) *models.Finding {
	id := edge.ID()

	if finding, ok := v.templates[id]; ok {
		return finding
	}

	source, _ := v.graph.Node(edge.SourceNodeID)

	var finding *models.Finding

	if transform := v.transformFor(source, edge.OutputPort); template.NeedsTemplating(transform) {
		if err := template.Check(transform); err != nil {
			finding = &models.Finding{
				Severity:     models.SeverityError,
				Kind:         models.KindInvalidTemplate,
				Message:      fmt.Sprintf("node %q output %q transformation: %v", source.ID, edge.OutputPort, err),
				NodeID:       source.ID,
				ConnectionID: id,
			}
		}
	}

	v.templates[id] = finding

	return finding
}

func (v *Validator) transformFor(node *models.Node, port string) string {
	if transform, ok := node.Transforms[port]; ok {
		return transform
	}

	output, _ := v.checker.SpecFor(node).Output(port)

	return output.Transform
}
