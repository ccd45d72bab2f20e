package parfait

import (
	"context"
	"fmt"
)

// FilterFunc narrows the current view. It reads View(ctx), which already
// reflects every enclosing region, and passes the subset it selects to
// Narrow. arg is the caller's selector value, such as a user name or row
// number.
type FilterFunc func(ctx context.Context, arg any) error

// Region is a scoped part of a page, such as one row of a table. Its
// children see only the view its filter selects.
type Region struct {
	artifact

	aliases  []string
	controls registry[*Control]
	regions  registry[*Region]
	filter   FilterFunc
}

// NewRegion defines a region. With WithParent the region is added to the
// parent immediately.
func NewRegion(name string, opts ...Option) (*Region, error) {
	o, err := buildOptions("region", name, opts)
	if err != nil {
		return nil, err
	}
	r := &Region{
		artifact: artifact{kind: "region", name: name},
		aliases:  o.aliases,
		controls: newRegistry[*Control]("control"),
		regions:  newRegistry[*Region]("region"),
	}
	if o.parent != nil {
		if err := o.parent.AddRegion(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name returns the region name.
func (r *Region) Name() string { return r.name }

// Aliases returns the region aliases.
func (r *Region) Aliases() []string { return r.aliases }

// AddFilter installs the function that narrows the view when the region is
// entered.
func (r *Region) AddFilter(fn FilterFunc) {
	r.filter = fn
}

// AddToPage registers the region with p.
func (r *Region) AddToPage(p *Page) error {
	if p == nil {
		return fmt.Errorf("%w: page for region %q", ErrMissingEntity, r.name)
	}
	return p.AddRegion(r)
}

// AddToRegion registers the region as a child of parent.
func (r *Region) AddToRegion(parent *Region) error {
	if parent == nil {
		return fmt.Errorf("%w: parent region for region %q", ErrMissingEntity, r.name)
	}
	return parent.AddRegion(r)
}

// AddControl registers controls in the region.
func (r *Region) AddControl(controls ...*Control) error {
	if r == nil {
		return fmt.Errorf("%w: nil region", ErrInvalidParent)
	}
	for _, c := range controls {
		if c == nil {
			return fmt.Errorf("%w: control for region %q", ErrMissingEntity, r.name)
		}
		r.controls.add(c)
	}
	return nil
}

// AddRegion registers child regions.
func (r *Region) AddRegion(regions ...*Region) error {
	if r == nil {
		return fmt.Errorf("%w: nil region", ErrInvalidParent)
	}
	for _, child := range regions {
		if child == nil {
			return fmt.Errorf("%w: child region for region %q", ErrMissingEntity, r.name)
		}
		r.regions.add(child)
	}
	return nil
}

// Control looks up a control by name or alias after verifying the region is
// present in the narrowed view.
func (r *Region) Control(ctx context.Context, name string) (*Control, error) {
	if err := r.VerifyPresence(ctx, "look up control "+name); err != nil {
		return nil, err
	}
	return r.controls.get(name)
}

// Region looks up a child region and applies its filter to the view this
// region already narrowed.
func (r *Region) Region(ctx context.Context, name string, arg any) (*Region, error) {
	if err := r.VerifyPresence(ctx, "look up region "+name); err != nil {
		return nil, err
	}
	child, err := r.regions.get(name)
	if err != nil {
		return nil, err
	}
	if err := child.applyFilter(ctx, arg); err != nil {
		return nil, err
	}
	return child, nil
}

func (r *Region) applyFilter(ctx context.Context, arg any) error {
	if r.filter == nil {
		return fmt.Errorf("%w: filter for region %q", ErrNotConfigured, r.name)
	}
	if _, err := mustScope(ctx); err != nil {
		return err
	}
	if err := r.filter(ctx, arg); err != nil {
		return fmt.Errorf("filter region %q with %v: %w", r.name, arg, err)
	}
	return nil
}

// Controls returns the registered controls in registration order.
func (r *Region) Controls() []*Control { return r.controls.all() }

// Regions returns the registered child regions in registration order.
func (r *Region) Regions() []*Region { return r.regions.all() }
