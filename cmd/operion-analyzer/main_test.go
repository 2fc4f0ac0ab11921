package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/dukex/operion-analyzer/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validWorkflow = `{
	"nodes": [
		{"id": "t", "type": "n8n-nodes-base.manualTrigger"},
		{"id": "s", "type": "n8n-nodes-base.set"}
	],
	"connections": {"t": {"main": [[{"node": "s", "type": "main", "index": 0}]]}}
}`

const mismatchWorkflow = `{
	"nodes": [
		{"id": "t", "type": "n8n-nodes-base.manualTrigger"},
		{"id": "file", "type": "n8n-nodes-base.readBinaryFile"},
		{"id": "sheet", "type": "n8n-nodes-base.set"}
	],
	"connections": {
		"t": {"main": [[{"node": "file", "type": "main", "index": 0}]]},
		"file": {"main": [[{"node": "sheet", "type": "main", "index": 0}]]}
	}
}`

func writeWorkflow(t *testing.T, name, document string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))

	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("EVENT_BUS_TYPE", "")
	t.Setenv("CACHE_URL", "")
	t.Setenv("NODE_SPECS_PATH", "")

	var out bytes.Buffer

	root := NewRootCommand()
	root.Writer = &out
	root.Reader = strings.NewReader(stdin)

	err := root.Run(t.Context(), append([]string{serviceName, "--log-level", "error"}, args...))

	return out.String(), err
}

func TestAnalyzeCommand_Text(t *testing.T) {
	file := writeWorkflow(t, "valid.json", validWorkflow)

	out, err := run(t, "", "analyze", file)

	require.NoError(t, err)
	assert.Contains(t, out, file+": valid (0 errors, 0 warnings)")
	assert.Contains(t, out, "entry points: t")
	assert.Contains(t, out, "exit points:  s")
	assert.Contains(t, out, "paths:        1 (0 invalid)")
}

func TestAnalyzeCommand_InvalidWorkflow(t *testing.T) {
	valid := writeWorkflow(t, "valid.json", validWorkflow)
	invalid := writeWorkflow(t, "mismatch.json", mismatchWorkflow)

	out, err := run(t, "", "analyze", valid, invalid)

	require.ErrorIs(t, err, ErrInvalidWorkflows)
	assert.Contains(t, out, valid+": valid")
	assert.Contains(t, out, invalid+": invalid (1 errors")
	assert.Contains(t, out, "[error] TYPE_MISMATCH node=sheet connection=file:main[0]->sheet:main[0]")
	assert.Contains(t, out, "recommendations:")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	file := writeWorkflow(t, "mismatch.json", mismatchWorkflow)

	out, err := run(t, "", "analyze", "--format", "json", "--no-rules", file)
	require.ErrorIs(t, err, ErrInvalidWorkflows)

	var result struct {
		File   string                 `json:"file"`
		Report *models.AnalysisReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, file, result.File)
	require.NotNil(t, result.Report)
	assert.Len(t, result.Report.FindingsOfKind(models.KindTypeMismatch), 1)
	assert.Empty(t, result.Report.FindingsOfKind(models.KindNoTrigger))
}

func TestAnalyzeCommand_Stdin(t *testing.T) {
	out, err := run(t, validWorkflow, "analyze", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "-: valid")
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected error
		output   string
	}{
		{name: "no files", args: []string{"analyze"}, expected: ErrNoWorkflowFiles},
		{name: "unknown format", args: []string{"analyze", "--format", "yaml", "x.json"}, expected: ErrUnknownFormat},
		{
			name:     "missing file",
			args:     []string{"analyze", filepath.Join(os.TempDir(), "operion-analyzer-missing.json")},
			expected: ErrInvalidWorkflows,
			output:   "error: failed to read workflow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)

			require.ErrorIs(t, err, tt.expected)

			if tt.output != "" {
				assert.Contains(t, out, tt.output)
			}
		})
	}
}

func TestAnalyzeCommand_MalformedDocument(t *testing.T) {
	file := writeWorkflow(t, "broken.json", `{"nodes": 1}`)

	out, err := run(t, "", "analyze", file)

	require.ErrorIs(t, err, ErrInvalidWorkflows)
	assert.Contains(t, out, file+": error: ")
	assert.Contains(t, out, "malformed workflow document")
}

func TestNodeTypesCommand(t *testing.T) {
	out, err := run(t, "", "node-types")

	require.NoError(t, err)
	assert.Contains(t, out, "n8n-nodes-base.set in(main:json!) out(main:json)")
	assert.Contains(t, out, "n8n-nodes-base.manualTrigger [trigger] in() out(main:json)")

	out, err = run(t, "", "node-types", "--format", "json")
	require.NoError(t, err)

	var specs []models.NodeDataSpec
	require.NoError(t, json.Unmarshal([]byte(out), &specs))
	assert.NotEmpty(t, specs)
}

func TestNodeTypesCommand_CustomSpecs(t *testing.T) {
	path := writeWorkflow(t, "specs.json", `{
		"specs": [{"node_type": "community.custom", "inputs": {"main": {"type": "binary", "required": true}}}]
	}`)

	out, err := run(t, "", "--specs", path, "node-types")

	require.NoError(t, err)
	assert.Contains(t, out, "community.custom in(main:binary!) out()")
	assert.Contains(t, out, registry.NodeTypeHTTPRequest)
}

func TestDescribeSpec(t *testing.T) {
	spec := models.NodeDataSpec{
		NodeType: "community.merge",
		Inputs: map[string]models.InputPortSpec{
			"b": {Type: models.DataTypeJSON},
			"a": {Type: models.DataTypeJSON, Required: true},
		},
		Outputs: map[string]models.OutputPortSpec{
			"main": {Type: models.DataTypeArray},
		},
	}

	assert.Equal(t, "community.merge in(a:json!,b:json) out(main:array)", describeSpec(spec))
}
