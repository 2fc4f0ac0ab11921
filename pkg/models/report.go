package models

// ConnectionPath is a simple path from an entry point to a sink.
type ConnectionPath struct {
	Path      []string `json:"path"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors"`
	Truncated bool     `json:"truncated,omitempty"` // Stopped at a node already on the path
}

// AnalysisReport is the aggregate result of analyzing one workflow.
type AnalysisReport struct {
	EntryPoints      []string         `json:"entryPoints"`
	ExitPoints       []string         `json:"exitPoints"`
	IsolatedNodes    []string         `json:"isolatedNodes"`
	Cycles           [][]string       `json:"cycles"`
	UnreachableNodes []string         `json:"unreachableNodes"`
	MaxDepth         int              `json:"maxDepth"`
	ConnectionPaths  []ConnectionPath `json:"connectionPaths"`
	Findings         []Finding        `json:"findings"`
	Recommendations  []string         `json:"recommendations"`
	Valid            bool             `json:"valid"`
}

// Errors returns the error-severity findings.
func (r *AnalysisReport) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity findings.
func (r *AnalysisReport) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

// FindingsOfKind returns findings of the given kind.
func (r *AnalysisReport) FindingsOfKind(kind FindingKind) []Finding {
	result := make([]Finding, 0)

	for _, finding := range r.Findings {
		if finding.Kind == kind {
			result = append(result, finding)
		}
	}

	return result
}

func (r *AnalysisReport) filter(severity Severity) []Finding {
	result := make([]Finding, 0)

	for _, finding := range r.Findings {
		if finding.Severity == severity {
			result = append(result, finding)
		}
	}

	return result
}
