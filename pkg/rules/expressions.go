package rules

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/dukex/operion-analyzer/pkg/template"
)

// ExpressionSyntaxRule checks the placeholder shape of expression parameters.
// Expressions are never evaluated.
type ExpressionSyntaxRule struct{}

func (ExpressionSyntaxRule) Name() string { return "expression-syntax" }

func (ExpressionSyntaxRule) Check(in Input) []models.Finding {
	findings := make([]models.Finding, 0)

	for _, node := range in.Graph.Nodes() {
		walkStrings("", node.Parameters, func(path, value string) {
			if !template.IsExpression(value) {
				return
			}

			if err := template.CheckExpression(value); err != nil {
				findings = append(findings, models.Finding{
					Severity: models.SeverityWarning,
					Kind:     models.KindExpressionSyntax,
					Message:  fmt.Sprintf("parameter %q of node %q: %v", path, node.ID, err),
					NodeID:   node.ID,
				})
			}
		})
	}

	return findings
}

// walkStrings calls fn for every string leaf of value, in key order.
func walkStrings(path string, value any, fn func(path, value string)) {
	switch v := value.(type) {
	case string:
		fn(path, v)
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(v)) {
			walkStrings(join(path, key), v[key], fn)
		}
	case []any:
		for i, item := range v {
			walkStrings(path+"["+strconv.Itoa(i)+"]", item, fn)
		}
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}
