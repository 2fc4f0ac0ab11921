package web

import (
	"time"

	"github.com/dukex/operion-analyzer/pkg/models"
)

// AnalyzeQuery holds the query parameters accepted by POST /analyze.
type AnalyzeQuery struct {
	MaxPaths *int `query:"max_paths" validate:"omitempty,min=0"`
}

// NodeTypesResponse lists the registered node data specs.
type NodeTypesResponse struct {
	NodeTypes  []models.NodeDataSpec `json:"node_types"`
	TotalCount int                   `json:"total_count"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Checkers  map[string]string `json:"checkers"`
	Timestamp time.Time         `json:"timestamp"`
}
