package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryRender    Category = "render"
	CategoryHydration Category = "hydration"
	CategoryDev       Category = "dev"
	CategoryCLI       Category = "cli"
)

// NanoError is a structured error with a code, a hint and a wrapped cause.
type NanoError struct {
	// Code is a unique error identifier (e.g., "N001").
	Code string

	// Category is the error type.
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
func (e *NanoError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NanoError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *NanoError) WithSuggestion(s string) *NanoError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *NanoError) WithDetail(d string) *NanoError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with a format string.
func (e *NanoError) WithDetailf(format string, args ...any) *NanoError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *NanoError) Wrap(err error) *NanoError {
	e.Wrapped = err
	return e
}

// New creates a NanoError from a registered error code.
func New(code string) *NanoError {
	template, ok := registry[code]
	if !ok {
		return &NanoError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &NanoError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new NanoError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *NanoError {
	return &NanoError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns err as a NanoError, wrapping it in the template for
// code unless it already is one.
func FromError(err error, code string) *NanoError {
	if err == nil {
		return nil
	}
	var ne *NanoError
	if errors.As(err, &ne) {
		return ne
	}
	return New(code).Wrap(err)
}

// Is reports whether err is a NanoError with the given code.
func Is(err error, code string) bool {
	var ne *NanoError
	return errors.As(err, &ne) && ne.Code == code
}
