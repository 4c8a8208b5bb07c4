package domain

import "errors"

var (
	// ErrInvalidEvent is returned when an event payload is malformed or
	// names an unknown event; such deliveries are dropped, not requeued
	ErrInvalidEvent = errors.New("invalid job event")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
