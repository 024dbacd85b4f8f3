package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error types
var (
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrSerialization   = errors.New("serialization error")
	ErrTransport       = errors.New("transport error")
	ErrCancelled       = errors.New("request cancelled")
	ErrAuthentication  = errors.New("authentication error")
	ErrConfiguration   = errors.New("configuration error")
	ErrValidation      = errors.New("validation error")
)

// WrapError wraps an error with a standard error type
func WrapError(err error, errType error, message string) error {
	return fmt.Errorf("%w: %s: %w", errType, message, err)
}

// TransportError is returned when a dispatched request fails before a
// response is received.
type TransportError struct {
	Method string
	URL    string
	Cause  error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString(ErrTransport.Error())
	if e.Method != "" {
		b.WriteString(": ")
		b.WriteString(e.Method)
	}
	if e.URL != "" {
		b.WriteString(" ")
		b.WriteString(e.URL)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Cause }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// CancelledError is returned when an in-flight request was aborted before it
// settled. Reason is whatever the caller passed to abort, or the cause of a
// cancelled parent context.
type CancelledError struct {
	Reason error
}

func (e *CancelledError) Error() string {
	if e.Reason == nil || e.Reason == ErrCancelled {
		return ErrCancelled.Error()
	}
	return ErrCancelled.Error() + ": " + e.Reason.Error()
}

func (e *CancelledError) Unwrap() []error {
	if e.Reason == nil {
		return []error{ErrCancelled}
	}
	return []error{ErrCancelled, e.Reason}
}

// IsCancelled reports whether err came from an aborted request.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// Is provides a convenience wrapper around errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As provides a convenience wrapper around errors.As
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap provides a convenience wrapper around errors.Unwrap
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
