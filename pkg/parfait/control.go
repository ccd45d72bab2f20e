package parfait

import (
	"context"
	"fmt"
	"reflect"

	"parfait/internal/directive"

	"github.com/google/go-cmp/cmp"
)

// Directive function types. Primitives (Getter, Setter, Action for goto)
// talk to the browser through View(ctx); derived directives are built from
// them unless overridden.
type (
	Getter    = directive.Getter
	Setter    = directive.Setter
	Action    = directive.Action
	Verifier  = directive.Verifier
	Confirmer = directive.Confirmer
)

// Control is one interactive element: a text field, a checkbox, a link.
type Control struct {
	artifact

	logText string
	aliases []string
	equal   func(expected, found any) bool
	slots   directive.Slots
}

// NewControl defines a control. logText names the control in log messages,
// for example "user ID". With WithParent the control is added to the parent
// immediately.
func NewControl(name, logText string, opts ...Option) (*Control, error) {
	o, err := buildOptions("control", name, opts)
	if err != nil {
		return nil, err
	}
	if logText == "" {
		return nil, fmt.Errorf("%w: log text for control %q", ErrMissingRequiredField, name)
	}
	c := &Control{
		artifact: artifact{kind: "control", name: name},
		logText:  logText,
		aliases:  o.aliases,
		equal:    o.equal,
	}
	if c.equal == nil {
		c.equal = defaultEqual
	}
	if o.parent != nil {
		if err := o.parent.AddControl(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Name returns the control name.
func (c *Control) Name() string { return c.name }

// Aliases returns the control aliases.
func (c *Control) Aliases() []string { return c.aliases }

// LogText returns the phrase used for the control in log messages.
func (c *Control) LogText() string { return c.logText }

// AddToPage registers the control with p.
func (c *Control) AddToPage(p *Page) error {
	if p == nil {
		return fmt.Errorf("%w: page for control %q", ErrMissingEntity, c.name)
	}
	return p.AddControl(c)
}

// AddToRegion registers the control with r.
func (c *Control) AddToRegion(r *Region) error {
	if r == nil {
		return fmt.Errorf("%w: region for control %q", ErrMissingEntity, c.name)
	}
	return r.AddControl(c)
}

// AddGet installs the get primitive. Retrieve, verify, and confirm are
// derived from it, and update too once set is installed.
func (c *Control) AddGet(fn Getter) { c.slots = c.slots.WithGet(fn, target{c}) }

// AddSet installs the set primitive. Update is derived once get is installed.
func (c *Control) AddSet(fn Setter) { c.slots = c.slots.WithSet(fn, target{c}) }

// AddGoto installs the goto primitive. Navigate is derived from it.
func (c *Control) AddGoto(fn Action) { c.slots = c.slots.WithGoto(fn, target{c}) }

// AddRetrieve overrides the derived retrieve directive.
func (c *Control) AddRetrieve(fn Getter) { c.slots = c.slots.WithRetrieve(fn) }

// AddUpdate overrides the derived update directive.
func (c *Control) AddUpdate(fn Setter) { c.slots = c.slots.WithUpdate(fn) }

// AddVerify overrides the derived verify directive.
func (c *Control) AddVerify(fn Verifier) { c.slots = c.slots.WithVerify(fn) }

// AddConfirm overrides the derived confirm directive.
func (c *Control) AddConfirm(fn Confirmer) { c.slots = c.slots.WithConfirm(fn) }

// AddNavigate overrides the derived navigate directive.
func (c *Control) AddNavigate(fn Action) { c.slots = c.slots.WithNavigate(fn) }

func (c *Control) guard(ctx context.Context, role directive.Role) error {
	if err := c.VerifyPresence(ctx, "call "+role.String()+" directive"); err != nil {
		return err
	}
	return c.configured(role)
}

// Get reads the raw value from the browser.
func (c *Control) Get(ctx context.Context) (any, error) {
	if err := c.guard(ctx, directive.RoleGet); err != nil {
		return nil, err
	}
	return c.slots.Get(ctx)
}

// Set writes value into the browser without logging or comparing.
func (c *Control) Set(ctx context.Context, value any) error {
	if err := c.guard(ctx, directive.RoleSet); err != nil {
		return err
	}
	return c.slots.Set(ctx, value)
}

// Goto performs the control's raw interaction, such as a click.
func (c *Control) Goto(ctx context.Context) error {
	if err := c.guard(ctx, directive.RoleGoto); err != nil {
		return err
	}
	return c.slots.Goto(ctx)
}

// Retrieve returns the control's current value.
func (c *Control) Retrieve(ctx context.Context) (any, error) {
	if err := c.guard(ctx, directive.RoleRetrieve); err != nil {
		return nil, err
	}
	return c.slots.Retrieve(ctx)
}

// Update sets value unless the control already holds it, logging either way.
func (c *Control) Update(ctx context.Context, value any) error {
	if err := c.guard(ctx, directive.RoleUpdate); err != nil {
		return err
	}
	return c.slots.Update(ctx, value)
}

// Verify fails with a *MismatchError when the control does not hold
// expected.
func (c *Control) Verify(ctx context.Context, expected any) error {
	if err := c.guard(ctx, directive.RoleVerify); err != nil {
		return err
	}
	return c.slots.Verify(ctx, expected)
}

// Confirm reports whether the control holds expected. A mismatch is not an
// error.
func (c *Control) Confirm(ctx context.Context, expected any) (bool, error) {
	if err := c.guard(ctx, directive.RoleConfirm); err != nil {
		return false, err
	}
	return c.slots.Confirm(ctx, expected)
}

// Navigate logs and performs the control's interaction.
func (c *Control) Navigate(ctx context.Context) error {
	if err := c.guard(ctx, directive.RoleNavigate); err != nil {
		return err
	}
	return c.slots.Navigate(ctx)
}

// defaultEqual compares with go-cmp, looking into unexported fields so
// opaque values compare instead of panicking.
func defaultEqual(expected, found any) bool {
	return cmp.Equal(expected, found, cmp.Exporter(func(reflect.Type) bool { return true }))
}

// configured fails when the slot for role is empty.
func (c *Control) configured(role directive.Role) error {
	if !c.slots.Has(role) {
		return fmt.Errorf("%w: %s for control %q", ErrDirectiveNotConfigured, role, c.name)
	}
	return nil
}

// target binds derived directives to a control. The public directive has
// already verified presence, so calls read the current slots directly; later
// overrides still apply.
type target struct{ c *Control }

func (t target) LogText() string { return t.c.logText }

func (t target) Get(ctx context.Context) (any, error) {
	if err := t.c.configured(directive.RoleGet); err != nil {
		return nil, err
	}
	return t.c.slots.Get(ctx)
}

func (t target) Set(ctx context.Context, v any) error {
	if err := t.c.configured(directive.RoleSet); err != nil {
		return err
	}
	return t.c.slots.Set(ctx, v)
}

func (t target) Retrieve(ctx context.Context) (any, error) {
	if err := t.c.configured(directive.RoleRetrieve); err != nil {
		return nil, err
	}
	return t.c.slots.Retrieve(ctx)
}

func (t target) Goto(ctx context.Context) error {
	if err := t.c.configured(directive.RoleGoto); err != nil {
		return err
	}
	return t.c.slots.Goto(ctx)
}

func (t target) Equal(expected, found any) bool { return t.c.equal(expected, found) }

func (t target) Log(ctx context.Context, name, message string) error {
	return Log(ctx, message, map[string]any{
		"category":  "directive",
		"control":   t.c.name,
		"directive": name,
	})
}
