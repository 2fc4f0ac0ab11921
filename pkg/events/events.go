// Package events defines the notifications emitted after workflow analyses.
package events

import (
	"time"

	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every analysis event.
const Topic = "operion.analysis"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	AnalysisCompletedEvent EventType = "analysis.completed"
	AnalysisFailedEvent    EventType = "analysis.failed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

// AnalysisCompleted is published after a workflow was analyzed.
type AnalysisCompleted struct {
	BaseEvent

	Fingerprint string        `json:"fingerprint"`
	Valid       bool          `json:"valid"`
	Cached      bool          `json:"cached"`
	Nodes       int           `json:"nodes"`
	Errors      int           `json:"errors"`
	Warnings    int           `json:"warnings"`
	Paths       int           `json:"paths"`
	Cycles      int           `json:"cycles"`
	Duration    time.Duration `json:"duration"`
}

func (a AnalysisCompleted) GetType() EventType {
	return AnalysisCompletedEvent
}

// NewAnalysisCompleted summarizes report into an event.
func NewAnalysisCompleted(workflowID, fingerprint string, nodes int, report *models.AnalysisReport) AnalysisCompleted {
	return AnalysisCompleted{
		BaseEvent:   NewBaseEvent(AnalysisCompletedEvent, workflowID),
		Fingerprint: fingerprint,
		Valid:       report.Valid,
		Nodes:       nodes,
		Errors:      len(report.Errors()),
		Warnings:    len(report.Warnings()),
		Paths:       len(report.ConnectionPaths),
		Cycles:      len(report.Cycles),
	}
}

// AnalysisFailed is published when a workflow document could not be analyzed.
type AnalysisFailed struct {
	BaseEvent

	Error string `json:"error"`
}

func (a AnalysisFailed) GetType() EventType {
	return AnalysisFailedEvent
}
