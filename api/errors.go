// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values and the structured error type shared by all packages.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrNotFound        = errors.New("resource not found")
	ErrClosed          = errors.New("resource is closed")
	ErrTypeMismatch    = errors.New("type mismatch")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeAlreadyExists
	ErrCodeNotFound
	ErrCodeClosed
	ErrCodeTypeMismatch
	ErrCodeInternal
)

// String returns the lower-case name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeAlreadyExists:
		return "already_exists"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeClosed:
		return "closed"
	case ErrCodeTypeMismatch:
		return "type_mismatch"
	default:
		return "internal"
	}
}

// Error represents a structured error with code and context.
// It unwraps to the sentinel matching its code so callers can use errors.Is.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap returns the sentinel error for e.Code.
func (e *Error) Unwrap() error {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	case ErrCodeAlreadyExists:
		return ErrAlreadyExists
	case ErrCodeNotFound:
		return ErrNotFound
	case ErrCodeClosed:
		return ErrClosed
	case ErrCodeTypeMismatch:
		return ErrTypeMismatch
	default:
		return nil
	}
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Errorf creates a structured error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf extracts the ErrorCode from err, or ErrCodeInternal if err is not an *Error.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
