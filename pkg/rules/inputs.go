package rules

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dukex/operion-analyzer/pkg/models"
)

// RequiredInputsRule checks that every required input port is fed. A port fed
// only by outputs that may emit nothing gets a warning instead of an error.
// Entry points and unreachable nodes are skipped; other findings cover them.
type RequiredInputsRule struct{}

func (RequiredInputsRule) Name() string { return "required-inputs" }

func (RequiredInputsRule) Check(in Input) []models.Finding {
	findings := make([]models.Finding, 0)

	for _, node := range in.Graph.Nodes() {
		if !in.Analysis.IsReachable(node.ID) || len(in.Graph.Incoming(node.ID)) == 0 {
			continue
		}

		spec := in.Specs.SpecFor(node.Type)

		for _, port := range slices.Sorted(maps.Keys(spec.Inputs)) {
			if !spec.Inputs[port].Required {
				continue
			}

			feeding, guaranteed := 0, 0

			for _, edge := range in.Graph.Incoming(node.ID) {
				if edge.InputPort != port {
					continue
				}

				feeding++

				source, _ := in.Graph.Node(edge.SourceNodeID)
				if output, ok := in.Specs.SpecFor(source.Type).Output(edge.OutputPort); ok && output.Guaranteed {
					guaranteed++
				}
			}

			switch {
			case feeding == 0:
				findings = append(findings, models.Finding{
					Severity: models.SeverityError,
					Kind:     models.KindMissingRequiredInput,
					Message:  fmt.Sprintf("required input %q of node %q is not connected", port, node.ID),
					NodeID:   node.ID,
				})
			case guaranteed == 0:
				findings = append(findings, models.Finding{
					Severity: models.SeverityWarning,
					Kind:     models.KindMissingRequiredInput,
					Message:  fmt.Sprintf("required input %q of node %q is only fed by outputs that may be empty", port, node.ID),
					NodeID:   node.ID,
				})
			}
		}
	}

	return findings
}
