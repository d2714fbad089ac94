package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a domain error so callers can branch on the kind of
// failure without string matching.
type ErrorCode string

const (
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeInvalid  ErrorCode = "INVALID"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Common domain errors. Operations return these sentinels directly so
// callers can test with errors.Is.
var (
	ErrTaskNotFound = NewError(ErrCodeNotFound, "task not found")
	ErrEmptyTitle   = NewError(ErrCodeInvalid, "task title must not be empty")
)

// IsDomainError reports whether err carries the given classification.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// IsNotFound reports whether err refers to a missing entity.
func IsNotFound(err error) bool {
	return IsDomainError(err, ErrCodeNotFound)
}

// IsValidation reports whether err was caused by rejected input.
func IsValidation(err error) bool {
	return IsDomainError(err, ErrCodeInvalid)
}
