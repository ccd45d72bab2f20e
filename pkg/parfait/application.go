package parfait

import (
	"context"
	"fmt"
)

// DefaultNavigateFallback is the page the Navigate facade uses when no page
// is named.
const DefaultNavigateFallback = "All Pages"

// Application is the root of an artifact tree.
type Application struct {
	artifact

	pages            registry[*Page]
	validBrowser     func(any) bool
	navigateFallback string
}

// ApplicationOption configures NewApplication.
type ApplicationOption func(*applicationConfig)

type applicationConfig struct {
	directory        *Directory
	validBrowser     func(any) bool
	navigateFallback string
	bindCtx          context.Context
	browser          any
}

// WithDirectory registers the application in d under its name.
func WithDirectory(d *Directory) ApplicationOption {
	return func(c *applicationConfig) { c.directory = d }
}

// WithBrowserCheck installs the predicate a browser handle must satisfy.
// Without one, every non-nil handle is accepted.
func WithBrowserCheck(valid func(any) bool) ApplicationOption {
	return func(c *applicationConfig) { c.validBrowser = valid }
}

// WithBrowser binds handle to the scope in ctx during construction, as
// SetBrowser would.
func WithBrowser(ctx context.Context, handle any) ApplicationOption {
	return func(c *applicationConfig) {
		c.bindCtx = ctx
		c.browser = handle
	}
}

// WithNavigateFallback names the page the Navigate facade uses when the
// request has no page. An empty name makes the page mandatory.
func WithNavigateFallback(page string) ApplicationOption {
	return func(c *applicationConfig) { c.navigateFallback = page }
}

// NewApplication defines an application.
func NewApplication(name string, opts ...ApplicationOption) (*Application, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: application name", ErrMissingRequiredField)
	}
	cfg := applicationConfig{navigateFallback: DefaultNavigateFallback}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Application{
		artifact:         artifact{kind: "application", name: name},
		pages:            newRegistry[*Page]("page"),
		validBrowser:     cfg.validBrowser,
		navigateFallback: cfg.navigateFallback,
	}
	if cfg.bindCtx != nil {
		if err := a.SetBrowser(cfg.bindCtx, cfg.browser); err != nil {
			return nil, err
		}
	}
	if cfg.directory != nil {
		cfg.directory.Register(a)
	}
	return a, nil
}

// Name returns the application name.
func (a *Application) Name() string { return a.name }

// SetBrowser binds handle as the root browser of the execution unit in ctx.
// A nil handle unbinds it.
func (a *Application) SetBrowser(ctx context.Context, handle any) error {
	if handle != nil && a.validBrowser != nil && !a.validBrowser(handle) {
		return fmt.Errorf("%w: %T for application %q", ErrInvalidBrowser, handle, a.name)
	}
	s, err := mustScope(ctx)
	if err != nil {
		return err
	}
	s.bind(handle)
	return nil
}

// Browser returns the root browser of the execution unit in ctx.
func (a *Application) Browser(ctx context.Context) (any, error) {
	s, ok := ScopeFrom(ctx)
	if !ok || s.browser == nil {
		return nil, ErrBrowserUndefined
	}
	return s.browser, nil
}

// AddPage registers pages under their names and aliases.
func (a *Application) AddPage(pages ...*Page) error {
	for _, p := range pages {
		if p == nil {
			return fmt.Errorf("%w: page for application %q", ErrMissingEntity, a.name)
		}
		a.pages.add(p)
	}
	return nil
}

// Page looks up a page by name or alias. The application's presence is
// verified first, and the current view is reset to the root browser so that
// narrowing left by an earlier region traversal does not leak.
func (a *Application) Page(ctx context.Context, name string) (*Page, error) {
	if err := a.VerifyPresence(ctx, "navigate to page"); err != nil {
		return nil, err
	}
	s, err := mustScope(ctx)
	if err != nil {
		return nil, err
	}
	p, err := a.pages.get(name)
	if err != nil {
		return nil, err
	}
	s.reset()
	return p, nil
}

// Pages returns the registered pages in registration order.
func (a *Application) Pages() []*Page {
	return a.pages.all()
}
