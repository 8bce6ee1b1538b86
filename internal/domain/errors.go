package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches DomainErrors by code so sentinel values work with errors.Is
// even when a cause has been attached.
func (e *DomainError) Is(target error) bool {
	other, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeIndexUnavailable    = "INDEX_UNAVAILABLE"
	ErrCodeIndexBuild          = "INDEX_BUILD_FAILED"
	ErrCodeCompletion          = "COMPLETION_FAILED"
	ErrCodePipelineUnavailable = "PIPELINE_UNAVAILABLE"
	ErrCodePipelineTimeout     = "PIPELINE_TIMEOUT"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuery = NewDomainError(ErrCodeValidation, "query cannot be empty")
)

// Index errors
var (
	// ErrIndexUnavailable means the vector collection is missing or empty.
	// Callers treat this as "needs (re)build", not as a fatal condition.
	ErrIndexUnavailable = NewDomainError(ErrCodeIndexUnavailable, "vector index is missing or empty")
	ErrIndexBuildFailed = NewDomainError(ErrCodeIndexBuild, "vector index build failed")
	ErrNoCorpus         = NewDomainError(ErrCodeIndexUnavailable, "no scraped corpus available")
)

// Pipeline errors
var (
	ErrCompletionFailed    = NewDomainError(ErrCodeCompletion, "language model completion failed")
	ErrPipelineUnavailable = NewDomainError(ErrCodePipelineUnavailable, "index still unavailable after rebuild")
	ErrPipelineTimeout     = NewDomainError(ErrCodePipelineTimeout, "request deadline exceeded")
)
