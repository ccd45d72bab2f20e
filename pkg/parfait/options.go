package parfait

import "fmt"

// ParentRef is an artifact that can own regions and controls. Only *Page
// and *Region implement it.
type ParentRef interface {
	AddControl(controls ...*Control) error
	AddRegion(regions ...*Region) error
	parentRef()
}

func (*Page) parentRef()   {}
func (*Region) parentRef() {}

// Option configures a page, region, or control at construction.
type Option func(*options)

type options struct {
	aliases []string
	parent  ParentRef
	equal   func(expected, found any) bool
}

// WithAliases registers extra lookup keys for the artifact.
func WithAliases(aliases ...string) Option {
	return func(o *options) { o.aliases = append(o.aliases, aliases...) }
}

// WithParent attaches the region or control to parent as soon as it is
// constructed. It is equivalent to calling parent.AddRegion or
// parent.AddControl afterwards.
func WithParent(parent ParentRef) Option {
	return func(o *options) { o.parent = parent }
}

// WithEqual replaces the equality used by a control's derived verify,
// confirm, and update directives.
func WithEqual(fn func(expected, found any) bool) Option {
	return func(o *options) { o.equal = fn }
}

func buildOptions(kind, name string, opts []Option) (options, error) {
	var o options
	if name == "" {
		return o, fmt.Errorf("%w: %s name", ErrMissingRequiredField, kind)
	}
	for _, opt := range opts {
		opt(&o)
	}
	for _, alias := range o.aliases {
		if alias == "" {
			return o, fmt.Errorf("%w: empty alias for %s %q", ErrMissingRequiredField, kind, name)
		}
	}
	return o, nil
}
