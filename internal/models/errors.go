package models

import (
	"errors"
	"fmt"
)

// ErrFieldSetMismatch is returned when expected rows and table columns disagree on field names.
// It is a caller error, not a data mismatch, and is never retried.
var ErrFieldSetMismatch = errors.New("field set mismatch between expectation and table columns")

// DataFormatError reports a dataset that is missing, unreadable or structurally invalid
type DataFormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data format error in %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("data format error in %s: %s", e.Path, e.Reason)
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// InteractionError reports a UI action that could not complete after bounded retries
type InteractionError struct {
	Label    string
	Attempts int
	Err      error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("interaction %q failed after %d attempt(s): %v", e.Label, e.Attempts, e.Err)
}

func (e *InteractionError) Unwrap() error {
	return e.Err
}

// VerificationError reports UI or table state that does not match the expectation.
// Err is the last underlying failure, if any; Reason already describes it.
type VerificationError struct {
	Label    string
	Reason   string
	Expected string
	Actual   string
	Err      error
}

func (e *VerificationError) Error() string {
	msg := fmt.Sprintf("verification %q failed: %s", e.Label, e.Reason)
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(" (expected %s, got %s)", e.Expected, e.Actual)
	}
	return msg
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// ParseError reports a pagination caption that does not match the expected template
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse caption %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot parse caption %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsDataFormatError reports whether err wraps a DataFormatError
func IsDataFormatError(err error) bool {
	var target *DataFormatError
	return errors.As(err, &target)
}

// IsInteractionError reports whether err wraps an InteractionError
func IsInteractionError(err error) bool {
	var target *InteractionError
	return errors.As(err, &target)
}

// IsVerificationError reports whether err wraps a VerificationError
func IsVerificationError(err error) bool {
	var target *VerificationError
	return errors.As(err, &target)
}

// IsParseError reports whether err wraps a ParseError
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}
