package parfait

import (
	"context"
	"fmt"
)

// CheckFunc reports whether an artifact is present in the current view.
type CheckFunc func(ctx context.Context) (bool, error)

// Presenceable is the presence capability shared by applications, pages,
// regions, and controls.
type Presenceable interface {
	AddCheck(fn CheckFunc)
	AddPresent(fn CheckFunc)
	Check(ctx context.Context) (bool, error)
	Present(ctx context.Context) (bool, error)
	IsPresentDefined() bool
	VerifyPresence(ctx context.Context, operation string) error
}

var (
	_ Presenceable = (*Application)(nil)
	_ Presenceable = (*Page)(nil)
	_ Presenceable = (*Region)(nil)
	_ Presenceable = (*Control)(nil)
)

// artifact carries the check and present slots of one artifact. It is
// embedded by value so sibling artifacts never share slots.
type artifact struct {
	kind    string
	name    string
	check   CheckFunc
	present CheckFunc
}

// AddCheck installs the presence check. If no present directive is defined
// yet, present is derived from the check.
func (a *artifact) AddCheck(fn CheckFunc) {
	a.check = fn
	if a.present == nil && fn != nil {
		a.present = a.Check
	}
}

// AddPresent installs the present directive directly, replacing any derived
// one.
func (a *artifact) AddPresent(fn CheckFunc) {
	if fn != nil {
		a.present = fn
	}
}

// Check runs the presence check.
func (a *artifact) Check(ctx context.Context) (bool, error) {
	if a.check == nil {
		return false, fmt.Errorf("%w: check for %s %q", ErrNotConfigured, a.kind, a.name)
	}
	return a.check(ctx)
}

// Present runs the present directive.
func (a *artifact) Present(ctx context.Context) (bool, error) {
	if a.present == nil {
		return false, fmt.Errorf("%w: present for %s %q", ErrNotConfigured, a.kind, a.name)
	}
	return a.present(ctx)
}

// IsPresentDefined reports whether a present directive is installed.
func (a *artifact) IsPresentDefined() bool {
	return a.present != nil
}

// VerifyPresence fails with ErrPresenceCheckFailed when the artifact has a
// present directive and it reports false. Artifacts without one always pass.
func (a *artifact) VerifyPresence(ctx context.Context, operation string) error {
	if a.present == nil {
		return nil
	}
	ok, err := a.present(ctx)
	if err != nil {
		return fmt.Errorf("cannot %s: presence check for %s %q: %w", operation, a.kind, a.name, err)
	}
	if !ok {
		return fmt.Errorf("%w: cannot %s because %s %q is not present", ErrPresenceCheckFailed, operation, a.kind, a.name)
	}
	return nil
}
