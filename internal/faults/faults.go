// Package faults holds the error taxonomy shared by the artifact tree,
// the directive composer, and the browser drivers.
package faults

import (
	"errors"
	"fmt"
)

// Definition errors.
var (
	// ErrMissingRequiredField is returned when a name, log text, or other
	// required constructor argument is empty.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrMissingEntity is returned when a nil artifact is added to a parent.
	ErrMissingEntity = fmt.Errorf("%w: entity", ErrMissingRequiredField)

	// ErrInvalidType is returned when a runtime-typed definition names an
	// unknown artifact or control kind.
	ErrInvalidType = errors.New("invalid artifact type")

	// ErrInvalidParent is returned when an artifact is given a parent it
	// cannot attach to.
	ErrInvalidParent = errors.New("invalid parent")
)

// Navigation errors.
var (
	// ErrNotFound is returned when a name or alias lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrPresenceCheckFailed is returned when an artifact reports itself
	// absent before a guarded operation.
	ErrPresenceCheckFailed = errors.New("presence check failed")

	// ErrNotConfigured is returned when a check, filter, or directive is
	// invoked but was never registered.
	ErrNotConfigured = errors.New("not configured")

	// ErrDirectiveNotConfigured is returned when a directive slot is empty.
	ErrDirectiveNotConfigured = fmt.Errorf("directive %w", ErrNotConfigured)

	// ErrVerificationMismatch is returned by verify when the found value
	// differs from the expected one.
	ErrVerificationMismatch = errors.New("verification mismatch")
)

// Scope errors.
var (
	ErrBrowserUndefined = errors.New("browser requested, but it is undefined")
	ErrInvalidBrowser   = errors.New("invalid browser handle")
	ErrLogSinkUndefined = errors.New("log routine is undefined")
	ErrScopeUndefined   = errors.New("no execution scope in context")
)

// MismatchError describes a failed verify directive.
type MismatchError struct {
	Control  string
	Expected any
	Found    any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected %s to be \"%v\", but found \"%v\" instead", e.Control, e.Expected, e.Found)
}

// Unwrap lets errors.Is match ErrVerificationMismatch.
func (e *MismatchError) Unwrap() error {
	return ErrVerificationMismatch
}
