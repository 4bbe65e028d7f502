package errors

import (
	stderrors "errors"
	"fmt"
)

// Common error values shared across the app layer.
var (
	// Job errors
	ErrJobNotFound       = New("job not found")
	ErrJobTerminal       = New("job already in a terminal status")
	ErrUnknownKind       = New("unknown job kind")
	ErrUnsupportedEngine = New("unsupported engine configuration")

	// Ledger errors
	ErrAnonymousActor      = New("operation requires an authenticated account")
	ErrInsufficientCredits = New("insufficient credits")
	ErrAccountNotFound     = New("account not found")
	// ErrTransactionNotRecorded means the debit itself succeeded but the
	// ledger row write did not.
	ErrTransactionNotRecorded = New("ledger transaction not recorded")

	// Asset errors
	ErrSourceMissing = New("source asset not found")
)

// Error is a message plus an optional wrapped cause.
type Error struct {
	message string
	cause   error
}

// New creates a new error.
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{message: message, cause: err}
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{message: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors by message so wrapped copies compare equal to the
// package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}
