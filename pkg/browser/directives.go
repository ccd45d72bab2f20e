package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"parfait/pkg/parfait"
)

// Builders that wire a control's primitives to a selector. Each resolves
// the selector against the scope's current view, so a control inside a
// region only sees the region's subtree.

func current(ctx context.Context) (View, error) {
	return parfait.ViewAs[View](ctx)
}

func element(ctx context.Context, selector string) (View, error) {
	v, err := current(ctx)
	if err != nil {
		return nil, err
	}
	return v.Element(ctx, selector)
}

// TextField wires get and set to the value of the input matched by
// selector. Values are written with fmt.Sprint.
func TextField(c *parfait.Control, selector string) {
	c.AddGet(func(ctx context.Context) (any, error) {
		el, err := element(ctx, selector)
		if err != nil {
			return nil, err
		}
		return el.Value(ctx)
	})
	c.AddSet(func(ctx context.Context, value any) error {
		el, err := element(ctx, selector)
		if err != nil {
			return err
		}
		return el.Input(ctx, fmt.Sprint(value))
	})
}

// Checkbox wires get and set to the checked state of the element matched by
// selector. Set accepts a bool or a string strconv.ParseBool understands.
func Checkbox(c *parfait.Control, selector string) {
	c.AddGet(func(ctx context.Context) (any, error) {
		el, err := element(ctx, selector)
		if err != nil {
			return nil, err
		}
		return el.Checked(ctx)
	})
	c.AddSet(func(ctx context.Context, value any) error {
		want, err := toBool(value)
		if err != nil {
			return err
		}
		el, err := element(ctx, selector)
		if err != nil {
			return err
		}
		return el.SetChecked(ctx, want)
	})
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w: checkbox value %q", parfait.ErrInvalidType, v)
		}
		return b, nil
	}
	return false, fmt.Errorf("%w: checkbox value of type %T", parfait.ErrInvalidType, value)
}

// ReadOnly wires get to the text of the element matched by selector.
func ReadOnly(c *parfait.Control, selector string) {
	c.AddGet(func(ctx context.Context) (any, error) {
		el, err := element(ctx, selector)
		if err != nil {
			return nil, err
		}
		return el.Text(ctx)
	})
}

// Clickable wires goto to a click on the element matched by selector.
func Clickable(c *parfait.Control, selector string) {
	c.AddGoto(func(ctx context.Context) error {
		el, err := element(ctx, selector)
		if err != nil {
			return err
		}
		return el.Click(ctx)
	})
}

// Marker returns a presence check that passes when selector matches a
// visible element in the current view.
func Marker(selector string) parfait.CheckFunc {
	return func(ctx context.Context) (bool, error) {
		v, err := current(ctx)
		if err != nil {
			return false, err
		}
		els, err := v.Elements(ctx, selector)
		if err != nil {
			return false, err
		}
		for _, el := range els {
			ok, err := el.Visible(ctx)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}

// Within returns a region filter that narrows the view to one element
// matched by selector. An int argument picks the element by zero-based
// index; any other argument picks the first element whose text contains
// fmt.Sprint(arg).
func Within(selector string) parfait.FilterFunc {
	return func(ctx context.Context, arg any) error {
		v, err := current(ctx)
		if err != nil {
			return err
		}
		els, err := v.Elements(ctx, selector)
		if err != nil {
			return err
		}
		if i, ok := arg.(int); ok {
			if i < 0 || i >= len(els) {
				return fmt.Errorf("%w: %q index %d of %d", parfait.ErrNotFound, selector, i, len(els))
			}
			return parfait.Narrow(ctx, els[i])
		}
		want := fmt.Sprint(arg)
		for _, el := range els {
			text, err := el.Text(ctx)
			if err != nil {
				return err
			}
			if strings.Contains(text, want) {
				return parfait.Narrow(ctx, el)
			}
		}
		return fmt.Errorf("%w: %q containing %q", parfait.ErrNotFound, selector, want)
	}
}
