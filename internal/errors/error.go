package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the subsystem an error belongs to.
type Category string

const (
	CategoryRouter  Category = "router"
	CategoryConfig  Category = "config"
	CategoryContent Category = "content"
	CategoryServer  Category = "server"
	CategoryCLI     Category = "cli"
)

// Error is a structured error with a code, an explanation and a fix hint.
type Error struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the subsystem that raised the error.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithDetail sets the occurrence-specific explanation.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *Error) WithDetailf(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error. An error that already is
// (or wraps) an *Error is returned unchanged.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if stderrors.As(err, &pe) {
		return pe
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var pe *Error
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
