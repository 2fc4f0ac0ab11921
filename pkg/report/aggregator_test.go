package report

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dukex/operion-analyzer/internal/testworkflows"
	"github.com/dukex/operion-analyzer/pkg/analyzer"
	"github.com/dukex/operion-analyzer/pkg/compat"
	"github.com/dukex/operion-analyzer/pkg/graph"
	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/dukex/operion-analyzer/pkg/pathvalidator"
	"github.com/dukex/operion-analyzer/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(workflow *models.Workflow, options analyzer.Options, rules ...models.Finding) *models.AnalysisReport {
	reg := registry.NewRegistry(nil)
	reg.Register(models.NodeDataSpec{
		NodeType: "test.file",
		Outputs:  map[string]models.OutputPortSpec{"main": {Type: models.DataTypeBinary, Guaranteed: true}},
	})
	reg.Register(models.NodeDataSpec{
		NodeType: "test.sum",
		Inputs:   map[string]models.InputPortSpec{"main": {Type: models.DataTypeNumber, Required: true}},
	})

	g := graph.New(workflow)
	result := analyzer.New(g, options).Result()
	checker := compat.NewChecker(reg)
	edgeFindings, edgeResults := checker.CheckGraph(g)
	paths := pathvalidator.New(g, checker).WithEdgeResults(edgeResults).Validate(result.Paths())

	return Aggregate(Input{
		Graph:        g,
		Analysis:     result,
		EdgeFindings: edgeFindings,
		Paths:        paths,
		RuleFindings: rules,
	})
}

func TestAggregate_LinearChain(t *testing.T) {
	report := build(testworkflows.New().Chain("A", "B", "C", "D").Build(), analyzer.Options{})

	assert.Equal(t, []string{"A"}, report.EntryPoints)
	assert.Equal(t, []string{"D"}, report.ExitPoints)
	assert.Equal(t, 3, report.MaxDepth)
	require.Len(t, report.ConnectionPaths, 1)
	assert.Equal(t, []string{"A", "B", "C", "D"}, report.ConnectionPaths[0].Path)
	assert.True(t, report.ConnectionPaths[0].Valid)
	assert.Empty(t, report.Findings)
	assert.Empty(t, report.Recommendations)
	assert.True(t, report.Valid)
}

func TestAggregate_PureCycle(t *testing.T) {
	report := build(testworkflows.New().Chain("A", "B", "C").Connect("C", "A").Build(), analyzer.Options{})

	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors())
	assert.Len(t, report.FindingsOfKind(models.KindCycle), 1)
	assert.Len(t, report.FindingsOfKind(models.KindUnreachable), 3)
	require.Len(t, report.FindingsOfKind(models.KindNoEntryPoint), 1)
	assert.Equal(t, models.SeverityWarning, report.FindingsOfKind(models.KindNoEntryPoint)[0].Severity)
	assert.Equal(t, "cycle detected: A -> B -> C -> A", report.FindingsOfKind(models.KindCycle)[0].Message)

	assert.Contains(t, report.Recommendations, "workflow has no entry points: add a trigger node without incoming connections")
	assert.Contains(t, report.Recommendations, "3 nodes are unreachable from any entry point: A, B, C")
	assert.Contains(t, report.Recommendations, "1 cycle detected: make sure every loop has an exit condition")
}

func TestAggregate_BranchAndMerge(t *testing.T) {
	report := build(testworkflows.BranchAndMerge(), analyzer.Options{})

	assert.Equal(t, []string{"trigger"}, report.EntryPoints)
	assert.Equal(t, []string{"http2", "errorHandler"}, report.ExitPoints)
	assert.Empty(t, report.IsolatedNodes)
	assert.Empty(t, report.Cycles)
	assert.Equal(t, 3, report.MaxDepth)
	assert.Len(t, report.ConnectionPaths, 2)
	assert.True(t, report.Valid)
}

func TestAggregate_TypeMismatchReportedOnce(t *testing.T) {
	workflow := testworkflows.New().
		Nodes("start").
		Node("file", "test.file").
		Node("sum", "test.sum").
		Connect("start", "file").
		Connect("file", "sum").
		Build()

	report := build(workflow, analyzer.Options{})

	mismatches := report.FindingsOfKind(models.KindTypeMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "file:main[0]->sum:main[0]", mismatches[0].ConnectionID)
	assert.Len(t, report.Errors(), 1)
	assert.False(t, report.Valid)
	assert.False(t, report.ConnectionPaths[0].Valid)
	assert.Contains(t, report.Recommendations, "1 connection connect incompatible data types: add a conversion step")
	assert.Contains(t, report.Recommendations, "1 of 1 execution paths are invalid")
}

func TestAggregate_DanglingConnection(t *testing.T) {
	report := build(testworkflows.New().Chain("A", "B").Connect("B", "ghost").Build(), analyzer.Options{})

	require.Len(t, report.FindingsOfKind(models.KindStructural), 1)
	assert.False(t, report.Valid)
	assert.Equal(t, []string{"B"}, report.ExitPoints)
	assert.Contains(t, report.Recommendations, "1 connection reference missing nodes")
}

func TestAggregate_Isolated(t *testing.T) {
	single := build(testworkflows.New().Nodes("only").Build(), analyzer.Options{})

	assert.Equal(t, []string{"only"}, single.IsolatedNodes)
	assert.Empty(t, single.FindingsOfKind(models.KindIsolated))
	assert.True(t, single.Valid)

	several := build(testworkflows.New().Chain("A", "B").Nodes("lonely").Build(), analyzer.Options{})

	isolated := several.FindingsOfKind(models.KindIsolated)
	require.Len(t, isolated, 1)
	assert.Equal(t, "lonely", isolated[0].NodeID)
	assert.Equal(t, models.SeverityWarning, isolated[0].Severity)
	assert.True(t, several.Valid)
	assert.Contains(t, several.Recommendations, "1 isolated node: connect or remove lonely")
}

func TestAggregate_PathLimit(t *testing.T) {
	workflow := testworkflows.New().Nodes("root", "a", "b", "c").
		Connect("root", "a").
		Connect("root", "b").
		Connect("root", "c").
		Build()

	report := build(workflow, analyzer.Options{MaxPaths: 2})

	assert.Len(t, report.ConnectionPaths, 2)
	limits := report.FindingsOfKind(models.KindPathLimit)
	require.Len(t, limits, 1)
	assert.Equal(t, models.SeverityInfo, limits[0].Severity)
	assert.True(t, report.Valid)
	assert.Contains(t, report.Recommendations,
		"path enumeration hit its limit after 2 paths: simplify branching or raise the limit")
}

func TestAggregate_DeduplicatesRuleFindings(t *testing.T) {
	rule := models.Finding{Severity: models.SeverityWarning, Kind: models.KindNoTrigger, Message: "no trigger"}

	report := build(testworkflows.New().Chain("A", "B").Build(), analyzer.Options{}, rule, rule)

	assert.Len(t, report.FindingsOfKind(models.KindNoTrigger), 1)
	assert.True(t, report.Valid)
}

func TestAggregate_EmptyWorkflowHasNoNullSlices(t *testing.T) {
	report := build(testworkflows.New().Build(), analyzer.Options{})

	data, err := json.Marshal(report)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"entryPoints": [],
		"exitPoints": [],
		"isolatedNodes": [],
		"cycles": [],
		"unreachableNodes": [],
		"maxDepth": 0,
		"connectionPaths": [],
		"findings": [],
		"recommendations": ["workflow has no nodes"],
		"valid": true
	}`, string(data))
}

func TestAggregate_DepthWarning(t *testing.T) {
	ids := make([]string, 0, 30)
	for i := range 30 {
		ids = append(ids, fmt.Sprintf("n%02d", i))
	}

	report := build(testworkflows.New().Chain(ids...).Build(), analyzer.Options{})

	assert.Equal(t, 29, report.MaxDepth)
	assert.Contains(t, report.Recommendations, "workflow depth 29 exceeds 25: consider splitting it into sub-workflows")
}

func TestAggregate_Idempotent(t *testing.T) {
	workflow := testworkflows.New().
		Chain("t", "a", "b").
		Connect("b", "a").
		Nodes("lonely").
		Node("file", "test.file").
		Node("sum", "test.sum").
		Connect("t", "file").
		Connect("file", "sum").
		Connect("sum", "ghost").
		Build()

	first, err := json.Marshal(build(workflow, analyzer.Options{}))
	require.NoError(t, err)

	second, err := json.Marshal(build(workflow, analyzer.Options{}))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
