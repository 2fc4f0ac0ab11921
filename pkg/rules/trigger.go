package rules

import (
	"strings"

	"github.com/dukex/operion-analyzer/pkg/models"
)

// TriggerRule warns when no entry point is a trigger node.
type TriggerRule struct{}

func (TriggerRule) Name() string { return "trigger" }

func (TriggerRule) Check(in Input) []models.Finding {
	if in.Graph.Len() == 0 {
		return nil
	}

	for _, id := range in.Analysis.EntryPoints() {
		node, _ := in.Graph.Node(id)
		if isTrigger(in.Specs, node.Type) {
			return nil
		}
	}

	return []models.Finding{{
		Severity: models.SeverityWarning,
		Kind:     models.KindNoTrigger,
		Message:  "no entry point is a trigger node; the workflow cannot start on its own",
	}}
}

// isTrigger trusts the registered spec and falls back to the naming
// convention of trigger node types for unregistered ones.
func isTrigger(specs Specs, nodeType string) bool {
	if spec, ok := specs.Lookup(nodeType); ok {
		return spec.Trigger
	}

	return strings.HasSuffix(strings.ToLower(nodeType), "trigger")
}
