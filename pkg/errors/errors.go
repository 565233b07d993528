// Package errors provides structured error types for bicolour.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the TUI and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Taxonomy
//
// Three codes carry the editor's contract:
//   - PRECONDITION_VIOLATION: an operation received an entity that does not
//     satisfy a documented precondition (a vertex missing from the graph, a
//     self-loop, Edge.Other with a non-endpoint). The operation is aborted and
//     the prior snapshot is left untouched. Callers must not hide these.
//   - MALFORMED_INPUT: a serialized document could not be turned into a valid
//     colouring. Recovered at the boundary; the session is not changed.
//   - IO_FAILURE: a text I/O collaborator failed. Reported, never retried.
//
// # Usage
//
//	err := errors.New(errors.ErrCodePreconditionViolation, "vertex %q is not in the graph", id)
//	if errors.Is(err, errors.ErrCodePreconditionViolation) {
//	    // programming error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIOFailure, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Contract errors
	ErrCodePreconditionViolation Code = "PRECONDITION_VIOLATION"
	ErrCodeMalformedInput        Code = "MALFORMED_INPUT"
	ErrCodeIOFailure             Code = "IO_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidColour Code = "INVALID_COLOUR"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Precondition is shorthand for New(ErrCodePreconditionViolation, ...).
func Precondition(format string, args ...any) *Error {
	return New(ErrCodePreconditionViolation, format, args...)
}

// Malformed wraps cause as MALFORMED_INPUT.
func Malformed(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeMalformedInput, cause, format, args...)
}

// IOFailure wraps cause as IO_FAILURE.
func IOFailure(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeIOFailure, cause, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
