// Package browser connects the parfait artifact tree to real pages. It
// defines View, the handle a scope carries, and two drivers for it: a live
// Chrome driver built on go-rod and an offline driver over parsed HTML.
package browser

import (
	"context"
	"errors"
)

// View is a document or an element subtree. A parfait scope holds the root
// View of a page, and region filters narrow it to element Views.
//
// Selector lookups only match elements below the view itself.
type View interface {
	// Element returns the first element matching selector.
	Element(ctx context.Context, selector string) (View, error)
	// Elements returns every element matching selector, in document order.
	Elements(ctx context.Context, selector string) ([]View, error)
	// Has reports whether any element matches selector.
	Has(ctx context.Context, selector string) (bool, error)

	Text(ctx context.Context) (string, error)
	Value(ctx context.Context) (string, error)
	Checked(ctx context.Context) (bool, error)
	Visible(ctx context.Context) (bool, error)

	// Input replaces the element's value with text.
	Input(ctx context.Context, text string) error
	SetChecked(ctx context.Context, checked bool) error
	Click(ctx context.Context) error
}

var (
	// ErrNotElement is returned when an element operation is applied to a
	// document root.
	ErrNotElement = errors.New("view is not an element")

	// ErrInvalidSelector is returned when a selector cannot be parsed.
	ErrInvalidSelector = errors.New("invalid selector")
)

// IsView reports whether handle can serve as a parfait browser. Pass it to
// parfait.WithBrowserCheck.
func IsView(handle any) bool {
	_, ok := handle.(View)
	return ok
}
