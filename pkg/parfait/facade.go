package parfait

import (
	"context"
	"fmt"
	"sort"
)

// Request addresses controls on a page by label. Each label names a control
// and carries the value for it.
type Request struct {
	OnPage string
	Labels map[string]any
}

// NavigateRequest addresses a navigation from OnPage to the destination To.
type NavigateRequest struct {
	OnPage string
	To     string
}

func (r Request) sortedLabels() []string {
	labels := make([]string, 0, len(r.Labels))
	for label := range r.Labels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func (a *Application) resolve(ctx context.Context, op, page string) (*Page, error) {
	if page == "" {
		return nil, fmt.Errorf("%w: %s requires a page", ErrMissingRequiredField, op)
	}
	return a.Page(ctx, page)
}

// eachControl resolves the request's page and calls fn for every labelled
// control, in label order. Labels that name no control on the page are
// skipped; the request fails only when none of them matched.
func (a *Application) eachControl(ctx context.Context, op string, req Request, fn func(*Control, any) error) error {
	p, err := a.resolve(ctx, op, req.OnPage)
	if err != nil {
		return err
	}
	if len(req.Labels) == 0 {
		return fmt.Errorf("%w: %s on page %q requires a control label", ErrMissingRequiredField, op, req.OnPage)
	}
	matched := 0
	for _, label := range req.sortedLabels() {
		if _, err := p.controls.get(label); err != nil {
			continue
		}
		c, err := p.Control(ctx, label)
		if err != nil {
			return err
		}
		matched++
		if err := fn(c, req.Labels[label]); err != nil {
			return err
		}
	}
	if matched == 0 {
		return fmt.Errorf("%w: no control on page %q matches labels %v", ErrNotFound, req.OnPage, req.sortedLabels())
	}
	return nil
}

// Set writes each labelled value with the control's set directive.
func (a *Application) Set(ctx context.Context, req Request) error {
	return a.eachControl(ctx, "set", req, func(c *Control, v any) error {
		return c.Set(ctx, v)
	})
}

// Update writes each labelled value with the control's update directive.
func (a *Application) Update(ctx context.Context, req Request) error {
	return a.eachControl(ctx, "update", req, func(c *Control, v any) error {
		return c.Update(ctx, v)
	})
}

// Retrieve returns the value of the single labelled control. The label's
// value is ignored.
func (a *Application) Retrieve(ctx context.Context, req Request) (any, error) {
	if len(req.Labels) > 1 {
		return nil, fmt.Errorf("%w: retrieve takes exactly one control label, got %d", ErrInvalidType, len(req.Labels))
	}
	var out any
	err := a.eachControl(ctx, "retrieve", req, func(c *Control, _ any) error {
		v, err := c.Retrieve(ctx)
		out = v
		return err
	})
	return out, err
}

// Verify checks each labelled value with the control's verify directive.
// Without labels it verifies that the browser is on the page.
func (a *Application) Verify(ctx context.Context, req Request) error {
	if len(req.Labels) == 0 {
		p, err := a.resolve(ctx, "verify", req.OnPage)
		if err != nil {
			return err
		}
		ok, err := p.Present(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: expected browser to be on page %q", ErrPresenceCheckFailed, p.Name())
		}
		return Log(ctx, fmt.Sprintf("Verified that browser is on page \"%s\"", p.Name()), map[string]any{
			"category": "presence",
			"page":     p.Name(),
		})
	}
	return a.eachControl(ctx, "verify", req, func(c *Control, v any) error {
		return c.Verify(ctx, v)
	})
}

// Confirm reports whether every labelled control holds its value. Without
// labels it reports whether the browser is on the page.
func (a *Application) Confirm(ctx context.Context, req Request) (bool, error) {
	if len(req.Labels) == 0 {
		p, err := a.resolve(ctx, "confirm", req.OnPage)
		if err != nil {
			return false, err
		}
		return p.Present(ctx)
	}
	all := true
	err := a.eachControl(ctx, "confirm", req, func(c *Control, v any) error {
		ok, err := c.Confirm(ctx, v)
		all = all && ok
		return err
	})
	if err != nil {
		return false, err
	}
	return all, nil
}

// Navigate leaves req.OnPage for req.To. Without a page, the application's
// navigate fallback page is used.
func (a *Application) Navigate(ctx context.Context, req NavigateRequest) error {
	if req.To == "" {
		return fmt.Errorf("%w: navigate requires a destination", ErrMissingRequiredField)
	}
	page := req.OnPage
	if page == "" {
		page = a.navigateFallback
	}
	p, err := a.resolve(ctx, "navigate", page)
	if err != nil {
		return err
	}
	return p.Navigate(ctx, req.To)
}
