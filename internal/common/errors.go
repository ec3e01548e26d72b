package common

import (
	"errors"
	"fmt"
	"strings"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// NewAppError builds an AppError with an optional cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// StructuralError means the document as a whole is unparseable: extraction
// produced no text, or no pairing anchor was found. Fatal, nothing cached.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "structural error: " + e.Reason
}

// FieldError is a per-segment failure: the segment was recognized as a
// pairing but its mandatory fields could not be extracted. Raw carries the
// segment text for diagnostics.
type FieldError struct {
	Segment int
	Missing []string
	Raw     string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("segment %d: missing mandatory fields: %s", e.Segment, strings.Join(e.Missing, ", "))
}

// AssemblyError means too many segments failed for the result to be
// trustworthy. Fatal, nothing cached.
type AssemblyError struct {
	Failed int
	Total  int
	Causes []*FieldError
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly error: %d of %d segments failed", e.Failed, e.Total)
}

// CacheWriteError wraps a failed cache store write. Recoverable: the caller
// already holds the parse result in memory.
type CacheWriteError struct {
	Digest string
	Err    error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache write for %s: %v", e.Digest, e.Err)
}

func (e *CacheWriteError) Unwrap() error {
	return e.Err
}
