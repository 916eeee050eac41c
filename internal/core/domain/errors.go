package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUnrecognizedShape = errors.New("unrecognized shape")
	ErrDeclined          = errors.New("request declined by server")
	ErrValidation        = errors.New("validation failed")
	ErrNoSession         = errors.New("no active session")

	// Returned by the sandbox API's account repository.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("email already registered")
	ErrForbidden          = errors.New("access forbidden")
)

// TransportError reports a network failure (StatusCode == 0) or a non-2xx
// response from the remote API.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap exposes ErrNotFound for 404 and ErrUnauthorized for 401/403 so that
// callers can branch with errors.Is without inspecting status codes.
func (e *TransportError) Unwrap() []error {
	var errs []error
	switch e.StatusCode {
	case http.StatusNotFound:
		errs = append(errs, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		errs = append(errs, ErrUnauthorized)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Ambiguous reports whether the remote effect of a write that failed with
// this error is unknown: the request may or may not have been applied.
func (e *TransportError) Ambiguous() bool {
	return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError
}

// NormalizationError is returned when an envelope cannot be reshaped into
// the canonical form. Declined is set when the server answered
// {"success": false} and Reason then carries its message.
type NormalizationError struct {
	Reason   string
	Declined bool
}

func (e *NormalizationError) Error() string {
	if e.Declined {
		return "server declined request: " + e.Reason
	}
	return "normalize envelope: " + e.Reason
}

func (e *NormalizationError) Unwrap() error {
	if e.Declined {
		return ErrDeclined
	}
	return ErrUnrecognizedShape
}

// NotFoundError means the envelope was valid but the identity is absent.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// FetchError wraps an upstream failure with the accessor operation that
// observed it. The original error stays reachable through Unwrap.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// FieldViolation is a single client-side form constraint failure.
type FieldViolation struct {
	Field   string
	Rule    string
	Message string
}

// ValidationError collects every violated constraint of a form.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Field returns the violation recorded for field, if any.
func (e *ValidationError) Field(field string) (FieldViolation, bool) {
	for _, v := range e.Violations {
		if v.Field == field {
			return v, true
		}
	}
	return FieldViolation{}, false
}
