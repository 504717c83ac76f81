package agent

import (
	"context"
	"errors"
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrNotFound
	ErrBadParameter
	ErrNotImplemented
	ErrConflict
	ErrInternalServerError
	ErrUnavailable
	ErrUnknownTool
	ErrInvalidToolCall
	ErrTimeout
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Errors
type Err int

// retryable marks an error as one where the next model endpoint should be tried
type retryable struct {
	err error
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrNotFound:
		return "not found"
	case ErrBadParameter:
		return "bad parameter"
	case ErrNotImplemented:
		return "not implemented"
	case ErrConflict:
		return "conflict"
	case ErrInternalServerError:
		return "internal server error"
	case ErrUnavailable:
		return "unavailable"
	case ErrUnknownTool:
		return "unknown tool"
	case ErrInvalidToolCall:
		return "invalid tool call"
	case ErrTimeout:
		return "timeout"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

////////////////////////////////////////////////////////////////////////////////
// RETRYABLE ERRORS

// Retryable wraps err so that IsRetryable reports true. A nil error
// returns nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryable{err}
}

// IsRetryable returns true if the error was marked with Retryable and
// the failure is not a cancellation by the caller.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var r *retryable
	return errors.As(err, &r)
}

func (r *retryable) Error() string {
	return r.err.Error()
}

func (r *retryable) Unwrap() error {
	return r.err
}
