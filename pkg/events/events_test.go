package events

import (
	"encoding/json"
	"testing"

	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnalysisCompleted(t *testing.T) {
	report := &models.AnalysisReport{
		Cycles:          [][]string{{"a", "b"}},
		ConnectionPaths: []models.ConnectionPath{{Path: []string{"t", "a"}}},
		Findings: []models.Finding{
			{Severity: models.SeverityError, Kind: models.KindTypeMismatch},
			{Severity: models.SeverityWarning, Kind: models.KindCycle},
			{Severity: models.SeverityWarning, Kind: models.KindUnreachable},
			{Severity: models.SeverityInfo, Kind: models.KindPathLimit},
		},
		Valid: false,
	}

	event := NewAnalysisCompleted("wf-1", "abc", 3, report)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, AnalysisCompletedEvent, event.Type)
	assert.Equal(t, AnalysisCompletedEvent, event.GetType())
	assert.Equal(t, "wf-1", event.WorkflowID)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, 1, event.Errors)
	assert.Equal(t, 2, event.Warnings)
	assert.Equal(t, 1, event.Paths)
	assert.Equal(t, 1, event.Cycles)
	assert.Equal(t, 3, event.Nodes)
	assert.False(t, event.Valid)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "analysis.completed", decoded["type"])
	assert.Equal(t, "abc", decoded["fingerprint"])
	assert.Equal(t, "wf-1", decoded["workflow_id"])
}

func TestAnalysisFailed_GetType(t *testing.T) {
	event := AnalysisFailed{BaseEvent: NewBaseEvent(AnalysisFailedEvent, ""), Error: "boom"}

	assert.Equal(t, AnalysisFailedEvent, event.GetType())
	assert.NotEqual(t, NewBaseEvent(AnalysisFailedEvent, "").ID, event.ID)
}
