package report

import (
	"fmt"
	"strings"

	"github.com/dukex/operion-analyzer/pkg/models"
)

// Stats are the counts recommendations are derived from that the report
// itself does not carry.
type Stats struct {
	Nodes        int
	Dangling     int
	ValidPaths   int
	InvalidPaths int
	DepthWarning int
}

// Recommendations returns fixed-text advice for the thresholds the report
// crosses, in a stable order.
func Recommendations(report *models.AnalysisReport, stats Stats) []string {
	recommendations := make([]string, 0)

	add := func(format string, args ...any) {
		recommendations = append(recommendations, fmt.Sprintf(format, args...))
	}

	if stats.Nodes == 0 {
		add("workflow has no nodes")

		return recommendations
	}

	if len(report.EntryPoints) == 0 {
		add("workflow has no entry points: add a trigger node without incoming connections")
	}

	if n := len(report.UnreachableNodes); n > 0 {
		add("%d %s unreachable from any entry point: %s", n, plural(n, "node is", "nodes are"), strings.Join(report.UnreachableNodes, ", "))
	}

	if n := len(report.FindingsOfKind(models.KindIsolated)); n > 0 {
		add("%d isolated %s: connect or remove %s", n, plural(n, "node", "nodes"), strings.Join(report.IsolatedNodes, ", "))
	}

	if n := len(report.Cycles); n > 0 {
		add("%d %s detected: make sure every loop has an exit condition", n, plural(n, "cycle", "cycles"))
	}

	if stats.Dangling > 0 {
		add("%d %s reference missing nodes", stats.Dangling, plural(stats.Dangling, "connection", "connections"))
	}

	if n := len(report.FindingsOfKind(models.KindTypeMismatch)); n > 0 {
		add("%d %s connect incompatible data types: add a conversion step", n, plural(n, "connection", "connections"))
	}

	if n := len(report.FindingsOfKind(models.KindMissingTypeSpec)); n > 0 {
		add("%d %s could not be type checked: declare data specs for the node types involved", n, plural(n, "port", "ports"))
	}

	if n := len(report.FindingsOfKind(models.KindInvalidTemplate)); n > 0 {
		add("%d transformation %s malformed", n, plural(n, "template is", "templates are"))
	}

	if stats.InvalidPaths > 0 {
		add("%d of %d execution paths are invalid", stats.InvalidPaths, stats.InvalidPaths+stats.ValidPaths)
	}

	if report.MaxDepth > stats.DepthWarning {
		add("workflow depth %d exceeds %d: consider splitting it into sub-workflows", report.MaxDepth, stats.DepthWarning)
	}

	if len(report.FindingsOfKind(models.KindPathLimit)) > 0 {
		add("path enumeration hit its limit after %d paths: simplify branching or raise the limit", len(report.ConnectionPaths))
	}

	return recommendations
}

func plural(n int, singular, many string) string {
	if n == 1 {
		return singular
	}

	return many
}
