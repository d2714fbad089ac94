package domain

import (
	"errors"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	e := NewError(ErrCodeInvalid, "bad input")
	if got := e.Error(); got != "bad input" {
		t.Errorf("Error() = %q, want %q", got, "bad input")
	}

	wrapped := &Error{Code: ErrCodeInvalid, Message: "bad input", Err: errors.New("boom")}
	if got := wrapped.Error(); got != "bad input: boom" {
		t.Errorf("Error() = %q, want %q", got, "bad input: boom")
	}
}

func TestErrorNilReceiver(t *testing.T) {
	var e *Error
	if got := e.Error(); got != "" {
		t.Errorf("nil Error() = %q, want empty", got)
	}
	if e.Unwrap() != nil {
		t.Error("nil Unwrap() should return nil")
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	e := &Error{Code: ErrCodeNotFound, Message: "gone", Err: inner}
	if !errors.Is(e, inner) {
		t.Error("errors.Is should see through the domain error")
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		notFound   bool
		validation bool
	}{
		{"not found sentinel", ErrTaskNotFound, true, false},
		{"empty title sentinel", ErrEmptyTitle, false, true},
		{"plain error", errors.New("plain"), false, false},
		{"nil", nil, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNotFound(tc.err); got != tc.notFound {
				t.Errorf("IsNotFound = %v, want %v", got, tc.notFound)
			}
			if got := IsValidation(tc.err); got != tc.validation {
				t.Errorf("IsValidation = %v, want %v", got, tc.validation)
			}
		})
	}
}
