package models

// Severity is the severity level of a finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// FindingKind classifies a workflow defect.
type FindingKind string

const (
	KindStructural      FindingKind = "STRUCTURAL"        // Connection references a missing node
	KindCycle           FindingKind = "CYCLE"             // Directed cycle between nodes
	KindUnreachable     FindingKind = "UNREACHABLE"       // Node outside every entry point's closure
	KindIsolated        FindingKind = "ISOLATED"          // Node without any connection
	KindTypeMismatch    FindingKind = "TYPE_MISMATCH"     // Incompatible port data types
	KindMissingTypeSpec FindingKind = "MISSING_TYPE_SPEC" // Port without declared data type
	KindNoEntryPoint    FindingKind = "NO_ENTRY_POINT"
	KindInvalidTemplate FindingKind = "INVALID_TEMPLATE"
	KindPathLimit       FindingKind = "PATH_LIMIT"

	// Rule checker kinds.
	KindMissingRequiredInput  FindingKind = "MISSING_REQUIRED_INPUT"
	KindNoTrigger             FindingKind = "NO_TRIGGER"
	KindInvalidParameters     FindingKind = "INVALID_PARAMETERS"
	KindExpressionSyntax      FindingKind = "EXPRESSION_SYNTAX"
	KindInvalidCronExpression FindingKind = "INVALID_CRON_EXPRESSION"
)

// Finding is a single workflow defect surfaced by the analysis.
type Finding struct {
	Severity     Severity    `json:"severity"`
	Kind         FindingKind `json:"kind"`
	Message      string      `json:"message"`
	NodeID       string      `json:"nodeId,omitempty"`
	ConnectionID string      `json:"connectionId,omitempty"`
}

// IsError reports whether the finding has error severity.
func (f Finding) IsError() bool {
	return f.Severity == SeverityError
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, finding := range findings {
		if finding.IsError() {
			return true
		}
	}

	return false
}
