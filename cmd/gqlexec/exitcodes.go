package main

import (
	"fmt"

	"github.com/saturnines/nexus-gql/pkg/errors"
)

// Exit codes for gqlexec
const (
	ExitSuccess = 0

	// ExitRequestError covers auth failures and anything unclassified
	ExitRequestError = 1

	// ExitDocumentError indicates the query could not be parsed or serialized
	ExitDocumentError = 2

	// ExitConfigError indicates a bad profile, endpoint or flag
	ExitConfigError = 3

	// ExitNetworkError indicates a transport failure
	ExitNetworkError = 4

	// ExitCancelled indicates the request was aborted by an interrupt
	ExitCancelled = 130
)

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeFor maps an error to the exit code the user sees.
func exitCodeFor(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &ee):
		return ee.code
	case errors.IsCancelled(err):
		return ExitCancelled
	case errors.Is(err, errors.ErrSerialization):
		return ExitDocumentError
	case errors.Is(err, errors.ErrInvalidEndpoint),
		errors.Is(err, errors.ErrConfiguration),
		errors.Is(err, errors.ErrValidation):
		return ExitConfigError
	case errors.Is(err, errors.ErrTransport):
		return ExitNetworkError
	default:
		return ExitRequestError
	}
}

func usageError(format string, args ...any) error {
	return withExitCode(ExitConfigError, fmt.Errorf(format, args...))
}
