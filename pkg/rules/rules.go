// Package rules holds checkers that build on the graph analysis result. Rules
// read traversal facts from analyzer.GraphAnalysis and never walk the graph
// themselves.
package rules

import (
	"log/slog"

	"github.com/dukex/operion-analyzer/pkg/analyzer"
	"github.com/dukex/operion-analyzer/pkg/graph"
	"github.com/dukex/operion-analyzer/pkg/models"
)

// Specs resolves node types to their data specs.
type Specs interface {
	SpecFor(nodeType string) models.NodeDataSpec
	Lookup(nodeType string) (models.NodeDataSpec, bool)
}

// Input is everything a rule may inspect.
type Input struct {
	Workflow *models.Workflow
	Graph    *graph.Graph
	Specs    Specs
	Analysis analyzer.GraphAnalysis
}

// Rule is one workflow check.
type Rule interface {
	Name() string
	Check(in Input) []models.Finding
}

// Defaults returns the built-in rules in the order they run.
func Defaults() []Rule {
	return []Rule{
		TriggerRule{},
		RequiredInputsRule{},
		ParameterSchemaRule{},
		ExpressionSyntaxRule{},
		CronExpressionRule{},
	}
}

// Run applies rules in order and concatenates their findings.
func Run(logger *slog.Logger, rules []Rule, in Input) []models.Finding {
	findings := make([]models.Finding, 0)

	for _, rule := range rules {
		found := rule.Check(in)
		logger.Debug("Rule checked", "rule", rule.Name(), "findings", len(found))

		findings = append(findings, found...)
	}

	return findings
}
