// Package loanerrors provides sentinel and custom error types for the advisor.
package loanerrors

import "fmt"

// ErrValidation represents a validation error.
// Use when client input fails validation.
var ErrValidation = &ValidationError{}

// ValidationError is a sentinel error for validation failures.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new ValidationError with a custom message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return "validation failed for field: " + e.Field
	}
	return "validation error"
}

// Is implements the error interface for error comparison.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ErrNotFound represents a "not found" error.
var ErrNotFound = &NotFoundError{}

// NotFoundError is a sentinel error for resources that are not found.
type NotFoundError struct {
	Resource string
}

// NewNotFoundError creates a new NotFoundError for resource.
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	if e.Resource != "" {
		return e.Resource + " not found"
	}
	return "resource not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// ErrGeneration is the sentinel for failed text generation: the call failed,
// timed out, or returned output that could not be parsed. The user may retry.
var ErrGeneration = &GenerationError{}

// GenerationError wraps the cause of a failed generation.
type GenerationError struct {
	Reason string
	Err    error
}

// NewGenerationError creates a GenerationError.
func NewGenerationError(reason string, err error) *GenerationError {
	return &GenerationError{Reason: reason, Err: err}
}

func (e *GenerationError) Error() string {
	msg := "generation failed"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool {
	_, ok := target.(*GenerationError)
	return ok
}

// ErrUpstream is the sentinel for failures of a remote dependency (network
// error or non-2xx status).
var ErrUpstream = &UpstreamError{}

// UpstreamError describes a failed call to a remote service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Err        error
}

// NewUpstreamError creates an UpstreamError. statusCode is 0 for network errors.
func NewUpstreamError(service string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{Service: service, StatusCode: statusCode, Err: err}
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
	}
	return e.Service + " unavailable"
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool {
	_, ok := target.(*UpstreamError)
	return ok
}

// ErrStaleResult is returned when a newer request for the same session was
// issued while this one was in flight. The result has been discarded.
var ErrStaleResult = &StaleResultError{}

// StaleResultError carries the superseded and the current sequence numbers.
type StaleResultError struct {
	Sequence uint64
	Latest   uint64
}

func (e *StaleResultError) Error() string {
	if e.Latest == 0 {
		return "result superseded by a newer request"
	}
	return fmt.Sprintf("result %d superseded by request %d", e.Sequence, e.Latest)
}

func (e *StaleResultError) Is(target error) bool {
	_, ok := target.(*StaleResultError)
	return ok
}
