package parfait

import "parfait/internal/faults"

// Errors returned by the artifact tree. Match them with errors.Is.
var (
	ErrMissingRequiredField   = faults.ErrMissingRequiredField
	ErrMissingEntity          = faults.ErrMissingEntity
	ErrInvalidType            = faults.ErrInvalidType
	ErrInvalidParent          = faults.ErrInvalidParent
	ErrNotFound               = faults.ErrNotFound
	ErrPresenceCheckFailed    = faults.ErrPresenceCheckFailed
	ErrNotConfigured          = faults.ErrNotConfigured
	ErrDirectiveNotConfigured = faults.ErrDirectiveNotConfigured
	ErrVerificationMismatch   = faults.ErrVerificationMismatch
	ErrBrowserUndefined       = faults.ErrBrowserUndefined
	ErrInvalidBrowser         = faults.ErrInvalidBrowser
	ErrLogSinkUndefined       = faults.ErrLogSinkUndefined
	ErrScopeUndefined         = faults.ErrScopeUndefined
)

// MismatchError is returned by a derived verify directive. It unwraps to
// ErrVerificationMismatch.
type MismatchError = faults.MismatchError
