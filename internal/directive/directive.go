// Package directive implements the composition rules that derive a control's
// retrieve, update, verify, confirm, and navigate directives from the
// primitives a page author supplies.
//
// Slots is a plain value: every With* method returns an updated copy, so the
// rules can be exercised without building a control. Derived directives call
// back through a Target at invocation time, which means an override added
// after the primitive is still the one a derived directive reaches.
package directive

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"parfait/internal/faults"
)

// Getter reads a value from the current view.
type Getter func(ctx context.Context) (any, error)

// Setter writes a value into the current view.
type Setter func(ctx context.Context, value any) error

// Action performs a value-less interaction, such as a click.
type Action func(ctx context.Context) error

// Verifier fails when the current value differs from expected.
type Verifier func(ctx context.Context, expected any) error

// Confirmer reports whether the current value equals expected.
type Confirmer func(ctx context.Context, expected any) (bool, error)

// Target is the control a set of derived directives is bound to.
type Target interface {
	LogText() string
	Get(ctx context.Context) (any, error)
	Set(ctx context.Context, value any) error
	Retrieve(ctx context.Context) (any, error)
	Goto(ctx context.Context) error
	Equal(expected, found any) bool
	Log(ctx context.Context, directive, message string) error
}

// Slots holds the eight directive implementations of one control.
type Slots struct {
	Get  Getter
	Set  Setter
	Goto Action

	Retrieve Getter
	Update   Setter
	Verify   Verifier
	Confirm  Confirmer
	Navigate Action

	explicit Role
}

// Explicit reports whether r was installed by an override rather than derived.
func (s Slots) Explicit(r Role) bool {
	return s.explicit&r != 0
}

// Has reports whether the slot for r is populated.
func (s Slots) Has(r Role) bool {
	switch r {
	case RoleGet:
		return s.Get != nil
	case RoleSet:
		return s.Set != nil
	case RoleGoto:
		return s.Goto != nil
	case RoleRetrieve:
		return s.Retrieve != nil
	case RoleUpdate:
		return s.Update != nil
	case RoleVerify:
		return s.Verify != nil
	case RoleConfirm:
		return s.Confirm != nil
	case RoleNavigate:
		return s.Navigate != nil
	}
	return false
}

// WithGet installs the get primitive and derives retrieve, confirm, and
// verify. When set is already present, update is derived as well.
func (s Slots) WithGet(fn Getter, t Target) Slots {
	if fn == nil {
		return s
	}
	s.Get = fn
	if !s.Explicit(RoleRetrieve) {
		s.Retrieve = genericRetrieve(t)
	}
	if !s.Explicit(RoleConfirm) {
		s.Confirm = genericConfirm(t)
	}
	if !s.Explicit(RoleVerify) {
		s.Verify = genericVerify(t)
	}
	if s.Set != nil && !s.Explicit(RoleUpdate) {
		s.Update = genericUpdate(t)
	}
	return s
}

// WithSet installs the set primitive. When get is already present, update
// is derived.
func (s Slots) WithSet(fn Setter, t Target) Slots {
	if fn == nil {
		return s
	}
	s.Set = fn
	if s.Get != nil && !s.Explicit(RoleUpdate) {
		s.Update = genericUpdate(t)
	}
	return s
}

// WithGoto installs the goto primitive and derives navigate.
func (s Slots) WithGoto(fn Action, t Target) Slots {
	if fn == nil {
		return s
	}
	s.Goto = fn
	if !s.Explicit(RoleNavigate) {
		s.Navigate = genericNavigate(t)
	}
	return s
}

// WithRetrieve overrides retrieve.
func (s Slots) WithRetrieve(fn Getter) Slots {
	if fn == nil {
		return s
	}
	s.Retrieve = fn
	s.explicit |= RoleRetrieve
	return s
}

// WithUpdate overrides update.
func (s Slots) WithUpdate(fn Setter) Slots {
	if fn == nil {
		return s
	}
	s.Update = fn
	s.explicit |= RoleUpdate
	return s
}

// WithVerify overrides verify.
func (s Slots) WithVerify(fn Verifier) Slots {
	if fn == nil {
		return s
	}
	s.Verify = fn
	s.explicit |= RoleVerify
	return s
}

// WithConfirm overrides confirm.
func (s Slots) WithConfirm(fn Confirmer) Slots {
	if fn == nil {
		return s
	}
	s.Confirm = fn
	s.explicit |= RoleConfirm
	return s
}

// WithNavigate overrides navigate.
func (s Slots) WithNavigate(fn Action) Slots {
	if fn == nil {
		return s
	}
	s.Navigate = fn
	s.explicit |= RoleNavigate
	return s
}

func genericRetrieve(t Target) Getter {
	return func(ctx context.Context) (any, error) {
		return t.Get(ctx)
	}
}

func genericConfirm(t Target) Confirmer {
	return func(ctx context.Context, expected any) (bool, error) {
		found, err := t.Retrieve(ctx)
		if err != nil {
			return false, err
		}
		return t.Equal(expected, found), nil
	}
}

func genericVerify(t Target) Verifier {
	return func(ctx context.Context, expected any) error {
		found, err := t.Retrieve(ctx)
		if err != nil {
			return err
		}
		if !t.Equal(expected, found) {
			return &faults.MismatchError{Control: t.LogText(), Expected: expected, Found: found}
		}
		return t.Log(ctx, "verify", fmt.Sprintf("Verified %s to be \"%v\"", t.LogText(), expected))
	}
}

func genericUpdate(t Target) Setter {
	return func(ctx context.Context, value any) error {
		found, err := t.Retrieve(ctx)
		if err != nil {
			return err
		}
		if t.Equal(value, found) {
			return t.Log(ctx, "update", fmt.Sprintf("%s is already set to \"%v\"", capitalize(t.LogText()), value))
		}
		if err := t.Log(ctx, "update", fmt.Sprintf("Entering %s: \"%v\" (was \"%v\")", t.LogText(), value, found)); err != nil {
			return err
		}
		return t.Set(ctx, value)
	}
}

func genericNavigate(t Target) Action {
	return func(ctx context.Context) error {
		if err := t.Log(ctx, "navigate", "Navigating to "+t.LogText()); err != nil {
			return err
		}
		return t.Goto(ctx)
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])
	return b.String()
}
