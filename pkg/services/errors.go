// Package services provides the workflow analysis service and its error types.
package services

import (
	"errors"
	"fmt"

	"github.com/dukex/operion-analyzer/pkg/models"
)

// Validation Errors (400 Bad Request).
var (
	ErrWorkflowNil       = errors.New("workflow cannot be nil")
	ErrMalformedWorkflow = models.ErrMalformedWorkflow
	ErrInvalidWorkflow   = models.ErrInvalidWorkflow
	ErrInvalidMaxPaths   = errors.New("max paths must not be negative")
)

// Error codes carried by AnalysisError.
const (
	CodeWorkflowNil       = "WORKFLOW_NIL"
	CodeMalformedWorkflow = "MALFORMED_WORKFLOW"
	CodeInvalidWorkflow   = "INVALID_WORKFLOW"
	CodeInvalidOptions    = "INVALID_OPTIONS"
	CodeFingerprint       = "FINGERPRINT_FAILED"
)

// AnalysisError wraps service-level errors with additional context.
type AnalysisError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *AnalysisError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func (e *AnalysisError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrMalformedWorkflow) ||
		errors.Is(err, ErrInvalidWorkflow) ||
		errors.Is(err, ErrInvalidMaxPaths)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *AnalysisError {
	return &AnalysisError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func parseError(op string, err error) *AnalysisError {
	code := CodeMalformedWorkflow
	if errors.Is(err, ErrInvalidWorkflow) {
		code = CodeInvalidWorkflow
	}

	return NewValidationError(op, code, err.Error(), err)
}
