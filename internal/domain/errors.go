package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MCPError represents a standardized error response
type MCPError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Fields    []string  `json:"fields,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *MCPError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrCodeCalculatorNotFound = "CALCULATOR_NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeRateLimit          = "RATE_LIMITED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewMCPError creates a new MCPError with timestamp
func NewMCPError(code, message, details, requestID string) *MCPError {
	return &MCPError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// FieldError describes why a single input failed field validation.
// Kind is one of ErrMissingRequiredField, ErrOutOfRange, ErrInvalidOption or ErrInvalidNumber.
type FieldError struct {
	CalculatorID string    `json:"calculator_id"`
	FieldID      string    `json:"field"`
	Kind         error     `json:"-"`
	Value        float64   `json:"value,omitempty"`
	Min          float64   `json:"min,omitempty"`
	Max          float64   `json:"max,omitempty"`
	Allowed      []float64 `json:"allowed,omitempty"`
}

// Error implements the error interface
func (e *FieldError) Error() string {
	switch e.Kind {
	case ErrMissingRequiredField:
		return fmt.Sprintf("%s: missing required field %q", e.CalculatorID, e.FieldID)
	case ErrOutOfRange:
		return fmt.Sprintf("%s: field %q value %g outside [%g, %g]", e.CalculatorID, e.FieldID, e.Value, e.Min, e.Max)
	case ErrInvalidOption:
		return fmt.Sprintf("%s: field %q value %g is not one of %v", e.CalculatorID, e.FieldID, e.Value, e.Allowed)
	case ErrInvalidNumber:
		return fmt.Sprintf("%s: field %q value is not a finite number", e.CalculatorID, e.FieldID)
	default:
		return fmt.Sprintf("%s: field %q invalid", e.CalculatorID, e.FieldID)
	}
}

// Unwrap exposes the kind for errors.Is.
func (e *FieldError) Unwrap() error {
	return e.Kind
}

// ValidationErrors collects every field failure of one evaluation.
type ValidationErrors []*FieldError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes each field error for errors.Is and errors.As.
func (ve ValidationErrors) Unwrap() []error {
	errs := make([]error, len(ve))
	for i, e := range ve {
		errs[i] = e
	}
	return errs
}

// FieldIDs returns the ids of the failing fields.
func (ve ValidationErrors) FieldIDs() []string {
	ids := make([]string, len(ve))
	for i, e := range ve {
		ids[i] = e.FieldID
	}
	return ids
}

// NotFoundError reports an unknown calculator id.
type NotFoundError struct {
	ID string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("calculator %q not found", e.ID)
}

// Unwrap returns ErrCalculatorNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrCalculatorNotFound
}

// CoverageKind classifies a range table defect.
type CoverageKind string

const (
	CoverageEmpty    CoverageKind = "empty"
	CoverageInverted CoverageKind = "inverted"
	CoverageOrder    CoverageKind = "order"
	CoverageOverlap  CoverageKind = "overlap"
	CoverageGap      CoverageKind = "gap"
)

// CoverageError reports a range table that does not cover its score domain exactly once.
type CoverageError struct {
	CalculatorID string
	Kind         CoverageKind
	From         float64
	To           float64
}

// Error implements the error interface
func (e *CoverageError) Error() string {
	id := e.CalculatorID
	if id == "" {
		id = "ranges"
	}
	return fmt.Sprintf("%s: %s between %g and %g", id, e.Kind, e.From, e.To)
}

// Unwrap returns ErrRangeCoverageGap.
func (e *CoverageError) Unwrap() error {
	return ErrRangeCoverageGap
}

// IsValidationError reports whether err stems from field validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrInvalidOption) ||
		errors.Is(err, ErrInvalidNumber)
}
