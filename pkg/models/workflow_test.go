package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorkflow_FlatConnections(t *testing.T) {
	data := []byte(`{
		"nodes": [
			{"id": "A", "type": "n8n-nodes-base.manualTrigger", "typeVersion": 1, "parameters": {}},
			{"id": "B", "type": "n8n-nodes-base.set", "parameters": {"value": 1}}
		],
		"connections": {
			"A": {"main": [{"node": "B", "type": "main", "index": 0}]}
		}
	}`)

	workflow, err := ParseWorkflow(data)
	require.NoError(t, err)
	require.Len(t, workflow.Nodes, 2)
	assert.Equal(t, float64(1), workflow.Nodes[0].TypeVersion)

	edges := workflow.Connections.Flatten([]string{"A", "B"}, nil)
	require.Len(t, edges, 1)
	assert.Equal(t, Connection{
		SourceNodeID: "A",
		OutputPort:   "main",
		TargetNodeID: "B",
		InputPort:    "main",
	}, edges[0])
}

func TestParseWorkflow_NestedConnections(t *testing.T) {
	data := []byte(`{
		"nodes": [
			{"id": "If", "type": "n8n-nodes-base.if"},
			{"id": "Yes", "type": "n8n-nodes-base.noOp"},
			{"id": "No", "type": "n8n-nodes-base.noOp"}
		],
		"connections": {
			"If": {"main": [[{"node": "Yes", "type": "main", "index": 0}], [{"node": "No", "type": "main", "index": 0}]]}
		}
	}`)

	workflow, err := ParseWorkflow(data)
	require.NoError(t, err)

	edges := workflow.Connections.Flatten([]string{"If", "Yes", "No"}, nil)
	require.Len(t, edges, 2)
	assert.Equal(t, "Yes", edges[0].TargetNodeID)
	assert.Equal(t, 0, edges[0].OutputIndex)
	assert.Equal(t, "No", edges[1].TargetNodeID)
	assert.Equal(t, 1, edges[1].OutputIndex)
}

func TestParseWorkflow_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `nodes`},
		{name: "array document", data: `[{"id": "A"}]`},
		{name: "missing nodes", data: `{"connections": {}}`},
		{name: "null nodes", data: `{"nodes": null}`},
		{name: "nodes object", data: `{"nodes": {"id": "A"}}`},
		{name: "bad connections", data: `{"nodes": [], "connections": {"A": {"main": "B"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWorkflow([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedWorkflow)
		})
	}
}

func TestParseWorkflow_InvalidNodes(t *testing.T) {
	_, err := ParseWorkflow([]byte(`{"nodes": [{"id": "A"}]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWorkflow)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	assert.Equal(t, "Type", validationErrors[0].Field())
}

func TestParseWorkflow_EmptyNodes(t *testing.T) {
	workflow, err := ParseWorkflow([]byte(`{"nodes": []}`))
	require.NoError(t, err)
	assert.Empty(t, workflow.Nodes)
}

func TestConnections_FlattenOrder(t *testing.T) {
	connections := Connections{
		"zeta": {"main": {{Node: "A"}}},
		"B":    {"out2": {{Node: "C"}}, "out1": {{Node: "A", Type: "left", Index: 2}}},
		"A":    {"main": {{Node: "B"}}},
	}

	edges := connections.Flatten([]string{"A", "B", "C"}, nil)
	require.Len(t, edges, 4)

	ids := make([]string, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.ID())
	}

	assert.Equal(t, []string{
		"A:main[0]->B:main[0]",
		"B:out1[0]->A:left[2]",
		"B:out2[0]->C:main[0]",
		"zeta:main[0]->A:main[0]",
	}, ids)
}

func TestNodeDataSpec_Ports(t *testing.T) {
	spec := NodeDataSpec{
		NodeType: "typed",
		Inputs:   map[string]InputPortSpec{"main": {Type: DataTypeNumber, Required: true}},
		Outputs:  map[string]OutputPortSpec{"main": {Type: DataTypeJSON, Guaranteed: true}},
	}

	input, ok := spec.Input("main")
	require.True(t, ok)
	assert.Equal(t, DataTypeNumber, input.Type)

	_, ok = spec.Input("other")
	assert.False(t, ok)

	permissive := NodeDataSpec{NodeType: "unknown", Permissive: true}
	output, ok := permissive.Output("anything")
	require.True(t, ok)
	assert.Equal(t, DataTypeAny, output.Type)
	assert.True(t, output.Guaranteed)
}

func TestDataType_Valid(t *testing.T) {
	assert.True(t, DataTypeBinary.Valid())
	assert.False(t, DataType("blob").Valid())
}
