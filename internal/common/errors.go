// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Pipeline errors.
	ErrUnsupportedSource = errors.New("unsupported source")
	ErrNoTransactions    = errors.New("no transactions found")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrNotFound          = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MalformedStatementError indicates a statement file whose structure does
// not match what its parser expects. It fails that file only; an import run
// continues with the remaining files.
type MalformedStatementError struct {
	Source string
	Path   string
	Reason string
	Line   int
}

func (e *MalformedStatementError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed %s statement %s: line %d: %s", e.Source, e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed %s statement %s: %s", e.Source, e.Path, e.Reason)
}

// NewMalformedStatementError creates a MalformedStatementError without a
// line position.
func NewMalformedStatementError(source, path, reason string) error {
	return &MalformedStatementError{Source: source, Path: path, Reason: reason}
}

// NormalizationError indicates a parsed record that could not be converted
// into a canonical transaction. Like malformed statements, it fails the
// file, not the run.
type NormalizationError struct {
	Source string
	Field  string
	Reason string
	Line   int
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize %s record at line %d: %s: %s", e.Source, e.Line, e.Field, e.Reason)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsFileError reports whether err is recoverable at the file level. The
// engine records these in the run summary and moves on to the next file.
func IsFileError(err error) bool {
	var malformed *MalformedStatementError
	var norm *NormalizationError
	return errors.Is(err, ErrUnsupportedSource) ||
		errors.As(err, &malformed) ||
		errors.As(err, &norm)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	// Check for specific retryable errors
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	// Check for retryable error type
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
