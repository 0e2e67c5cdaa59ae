// internal/util/errors.go
package util

import (
	"context"
	"errors"
	"fmt"
)

// Common application-specific errors.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input provided")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSameWalletTransfer   = errors.New("cannot transfer to the same wallet")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrTimeout              = errors.New("remote call timed out")
	ErrSubmissionInFlight   = errors.New("another submission is still in flight")
	ErrWalletImmutable      = errors.New("wallet cannot be changed while editing")
	ErrUnsupportedCurrency  = errors.New("unsupported currency")
)

// MissingFieldError names the field that was left empty. It matches ErrMissingRequiredField.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequiredField }

// MissingField returns a MissingFieldError for the given field.
func MissingField(field string) error {
	return &MissingFieldError{Field: field}
}

// RemoteRejectedError is returned when the backing store refuses a write or a read fails.
// The cause stays reachable through errors.Is / errors.As.
type RemoteRejectedError struct {
	Op    string
	Cause error
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("%s: remote rejected: %v", e.Op, e.Cause)
}

func (e *RemoteRejectedError) Unwrap() error { return e.Cause }

// RemoteRejected classifies err coming back from the store. Deadline errors become ErrTimeout,
// taxonomy errors that the store already produced pass through untouched.
func RemoteRejected(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrTimeout):
		return err
	}
	var rr *RemoteRejectedError
	if errors.As(err, &rr) {
		return err
	}
	return &RemoteRejectedError{Op: op, Cause: err}
}

// IsError reports whether err matches target anywhere in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// IsRemoteRejected reports whether err was produced by the backing store.
func IsRemoteRejected(err error) bool {
	var rr *RemoteRejectedError
	return errors.As(err, &rr)
}
