package parfait

import (
	"context"
	"fmt"
)

// PageNavigator moves the browser from a page to the destination named to.
type PageNavigator func(ctx context.Context, to string) error

// Page groups the controls and regions of one screen.
type Page struct {
	artifact

	aliases  []string
	controls registry[*Control]
	regions  registry[*Region]
	navigate PageNavigator
}

// NewPage defines a page. Pages attach to an application through
// Application.AddPage or AddToApplication, so WithParent is rejected.
func NewPage(name string, opts ...Option) (*Page, error) {
	o, err := buildOptions("page", name, opts)
	if err != nil {
		return nil, err
	}
	if o.parent != nil {
		return nil, fmt.Errorf("%w: page %q must be added to an application", ErrInvalidParent, name)
	}
	return &Page{
		artifact: artifact{kind: "page", name: name},
		aliases:  o.aliases,
		controls: newRegistry[*Control]("control"),
		regions:  newRegistry[*Region]("region"),
	}, nil
}

// Name returns the page name.
func (p *Page) Name() string { return p.name }

// Aliases returns the page aliases.
func (p *Page) Aliases() []string { return p.aliases }

// AddToApplication registers the page with app.
func (p *Page) AddToApplication(app *Application) error {
	if app == nil {
		return fmt.Errorf("%w: application for page %q", ErrMissingEntity, p.name)
	}
	return app.AddPage(p)
}

// AddControl registers controls on the page.
func (p *Page) AddControl(controls ...*Control) error {
	if p == nil {
		return fmt.Errorf("%w: nil page", ErrInvalidParent)
	}
	for _, c := range controls {
		if c == nil {
			return fmt.Errorf("%w: control for page %q", ErrMissingEntity, p.name)
		}
		p.controls.add(c)
	}
	return nil
}

// AddRegion registers regions on the page.
func (p *Page) AddRegion(regions ...*Region) error {
	if p == nil {
		return fmt.Errorf("%w: nil page", ErrInvalidParent)
	}
	for _, r := range regions {
		if r == nil {
			return fmt.Errorf("%w: region for page %q", ErrMissingEntity, p.name)
		}
		p.regions.add(r)
	}
	return nil
}

// Control looks up a control by name or alias. The view is reset to the
// browser before the page's presence is verified, so narrowing left by an
// earlier region traversal never hides the page.
func (p *Page) Control(ctx context.Context, name string) (*Control, error) {
	c, err := p.controls.get(name)
	if err != nil {
		return nil, err
	}
	p.enter(ctx)
	if err := p.VerifyPresence(ctx, "look up control "+name); err != nil {
		return nil, err
	}
	return c, nil
}

// Region looks up a region by name or alias, resets the view, verifies the
// page is present, then applies the region's filter with arg. This is where
// scope narrowing starts.
func (p *Page) Region(ctx context.Context, name string, arg any) (*Region, error) {
	r, err := p.regions.get(name)
	if err != nil {
		return nil, err
	}
	p.enter(ctx)
	if err := p.VerifyPresence(ctx, "look up region "+name); err != nil {
		return nil, err
	}
	if err := r.applyFilter(ctx, arg); err != nil {
		return nil, err
	}
	return r, nil
}

// enter resets the view to the root browser when one is bound, so a lookup
// that starts at the page ignores narrowing left by earlier traversals.
func (p *Page) enter(ctx context.Context) {
	if s, ok := ScopeFrom(ctx); ok && s.browser != nil {
		s.reset()
	}
}

// AddNavigation installs the page-level navigation used by Navigate.
func (p *Page) AddNavigation(fn PageNavigator) {
	p.navigate = fn
}

// Navigate leaves the page for the destination named to. Without a page
// navigation function, the control named to is navigated instead.
func (p *Page) Navigate(ctx context.Context, to string) error {
	if to == "" {
		return fmt.Errorf("%w: navigation destination", ErrMissingRequiredField)
	}
	if p.navigate != nil {
		if err := p.VerifyPresence(ctx, "navigate to "+to); err != nil {
			return err
		}
		return p.navigate(ctx, to)
	}
	c, err := p.Control(ctx, to)
	if err != nil {
		return err
	}
	return c.Navigate(ctx)
}

// Controls returns the registered controls in registration order.
func (p *Page) Controls() []*Control { return p.controls.all() }

// Regions returns the registered regions in registration order.
func (p *Page) Regions() []*Region { return p.regions.all() }
