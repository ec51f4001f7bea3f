package domain

import (
	"fmt"
	"strings"
	"time"
)

// Error codes for the failure taxonomy. MalformedValue is recovered
// locally during request decoding (the field is treated as absent) and
// never reaches a caller; the rest surface through the API layer.
const (
	ErrInvalidInput     = "INVALID_INPUT"
	ErrModelUnavailable = "MODEL_UNAVAILABLE"
	ErrMalformedValue   = "MALFORMED_VALUE"
	ErrRateLimit        = "RATE_LIMIT_EXCEEDED"
	ErrAuthentication   = "AUTHENTICATION_ERROR"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
)

// AssessmentError is the standardized error shape returned to callers.
type AssessmentError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *AssessmentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAssessmentError creates a new AssessmentError with timestamp
func NewAssessmentError(code, message, details, requestID string) *AssessmentError {
	return &AssessmentError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// ValidationError reports the required measurement fields missing from a
// request. Validation runs before any rule computation begins.
type ValidationError struct {
	MissingFields []string `json:"missing_fields"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.MissingFields, ", "))
}

// NewValidationError creates a ValidationError for a set of missing fields
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{MissingFields: fields}
}

// ModelUnavailableError indicates no classifier is loaded. This is a
// service-level failure, not a data error.
type ModelUnavailableError struct {
	Reason string
}

// Error implements the error interface
func (e *ModelUnavailableError) Error() string {
	if e.Reason == "" {
		return "model not loaded"
	}
	return fmt.Sprintf("model not loaded: %s", e.Reason)
}
