// Package report merges the outputs of the analysis stages into one
// models.AnalysisReport.
package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dukex/operion-analyzer/pkg/analyzer"
	"github.com/dukex/operion-analyzer/pkg/graph"
	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/dukex/operion-analyzer/pkg/pathvalidator"
)

// DefaultDepthWarning is the depth above which a recommendation is added.
const DefaultDepthWarning = 25

type Options struct {
	DepthWarning int
}

// Input carries the stage outputs of one analysis.
type Input struct {
	Graph        *graph.Graph
	Analysis     analyzer.GraphAnalysis
	EdgeFindings []models.Finding
	Paths        *pathvalidator.Result
	RuleFindings []models.Finding
	Options      Options
}

// Aggregate builds the report. Findings keep stage order (structure, graph
// shape, edges, templates, path limit, rules) and duplicates are dropped.
// Aggregate never returns nil slices.
func Aggregate(in Input) *models.AnalysisReport {
	if in.Options.DepthWarning <= 0 {
		in.Options.DepthWarning = DefaultDepthWarning
	}

	findings := newFindingSet()
	findings.add(in.Graph.Findings()...)
	findings.add(graphFindings(in.Graph, in.Analysis)...)
	findings.add(in.EdgeFindings...)

	paths := in.Analysis.Paths()
	validPaths, invalidPaths := len(paths), 0

	if in.Paths != nil {
		paths = in.Paths.Paths
		validPaths, invalidPaths = in.Paths.Valid, in.Paths.Invalid
		findings.add(in.Paths.Findings...)
	}

	if in.Analysis.PathsTruncated() {
		findings.add(models.Finding{
			Severity: models.SeverityInfo,
			Kind:     models.KindPathLimit,
			Message:  fmt.Sprintf("path enumeration stopped after %d paths", len(paths)),
		})
	}

	findings.add(in.RuleFindings...)

	report := &models.AnalysisReport{
		EntryPoints:      nonNil(in.Analysis.EntryPoints()),
		ExitPoints:       nonNil(in.Analysis.ExitPoints()),
		IsolatedNodes:    nonNil(in.Analysis.IsolatedNodes()),
		Cycles:           nonNil(in.Analysis.Cycles()),
		UnreachableNodes: nonNil(in.Analysis.UnreachableNodes()),
		MaxDepth:         in.Analysis.MaxDepth(),
		ConnectionPaths:  nonNil(paths),
		Findings:         findings.items,
		Valid:            !models.HasErrors(findings.items),
	}

	report.Recommendations = Recommendations(report, Stats{
		Nodes:        in.Graph.Len(),
		Dangling:     len(in.Graph.Dangling()),
		ValidPaths:   validPaths,
		InvalidPaths: invalidPaths,
		DepthWarning: in.Options.DepthWarning,
	})

	return report
}

func graphFindings(g *graph.Graph, analysis analyzer.GraphAnalysis) []models.Finding {
	findings := make([]models.Finding, 0)

	for _, cycle := range analysis.Cycles() {
		findings = append(findings, models.Finding{
			Severity: models.SeverityWarning,
			Kind:     models.KindCycle,
			Message:  "cycle detected: " + strings.Join(append(slices.Clone(cycle), cycle[0]), " -> "),
			NodeID:   cycle[0],
		})
	}

	if g.Len() > 1 {
		for _, id := range analysis.IsolatedNodes() {
			findings = append(findings, models.Finding{
				Severity: models.SeverityWarning,
				Kind:     models.KindIsolated,
				Message:  fmt.Sprintf("node %q has no connections", id),
				NodeID:   id,
			})
		}
	}

	for _, id := range analysis.UnreachableNodes() {
		findings = append(findings, models.Finding{
			Severity: models.SeverityWarning,
			Kind:     models.KindUnreachable,
			Message:  fmt.Sprintf("node %q is not reachable from any entry point", id),
			NodeID:   id,
		})
	}

	if g.Len() > 0 && len(analysis.EntryPoints()) == 0 {
		findings = append(findings, models.Finding{
			Severity: models.SeverityWarning,
			Kind:     models.KindNoEntryPoint,
			Message:  "workflow has no entry points",
		})
	}

	return findings
}

type findingSet struct {
	items []models.Finding
	seen  map[models.Finding]bool
}

func newFindingSet() *findingSet {
	return &findingSet{
		items: make([]models.Finding, 0),
		seen:  make(map[models.Finding]bool),
	}
}

func (s *findingSet) add(findings ...models.Finding) {
	for _, finding := range findings {
		if s.seen[finding] {
			continue
		}

		s.seen[finding] = true
		s.items = append(s.items, finding)
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}
