package parfait

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// appendFilter narrows a string view by appending the filter argument.
func appendFilter(ctx context.Context, arg any) error {
	v, err := ViewAs[string](ctx)
	if err != nil {
		return err
	}
	return Narrow(ctx, v+" "+arg.(string))
}

// viewControl reports the view it is read against.
func viewControl(t *testing.T, name string, parent ParentRef) *Control {
	t.Helper()
	c, err := NewControl(name, name, WithParent(parent))
	require.NoError(t, err)
	c.AddGet(func(ctx context.Context) (any, error) { return View(ctx), nil })
	return c
}

func nestedTree(t *testing.T) (*Application, *Page) {
	t.Helper()
	app, err := NewApplication("App")
	require.NoError(t, err)
	page, err := NewPage("Farm")
	require.NoError(t, err)
	require.NoError(t, app.AddPage(page))

	outer, err := NewRegion("Outer", WithParent(page))
	require.NoError(t, err)
	outer.AddFilter(appendFilter)
	inner, err := NewRegion("Inner", WithParent(outer), WithAliases("In"))
	require.NoError(t, err)
	inner.AddFilter(appendFilter)

	viewControl(t, "C", inner)
	viewControl(t, "PageLevel", page)
	return app, page
}

func TestRegion_NestedNarrowing(t *testing.T) {
	app, _ := nestedTree(t)

	cases := []struct {
		seed, x, y string
		want       string
	}{
		{"seed", "X", "Y", "seed X Y"},
		{"fox", "trot", "zero", "fox trot zero"},
		{"", "a b", "c", " a b c"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			ctx, _ := startScope(t, tc.seed)
			page, err := app.Page(ctx, "Farm")
			require.NoError(t, err)
			outer, err := page.Region(ctx, "Outer", tc.x)
			require.NoError(t, err)
			inner, err := outer.Region(ctx, "In", tc.y)
			require.NoError(t, err)
			c, err := inner.Control(ctx, "C")
			require.NoError(t, err)

			got, err := c.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRegion_PageLookupDiscardsNarrowing(t *testing.T) {
	_, page := nestedTree(t)
	ctx, _ := startScope(t, "seed")

	_, err := page.Region(ctx, "Outer", "X")
	require.NoError(t, err)
	assert.Equal(t, "seed X", View(ctx))

	c, err := page.Control(ctx, "PageLevel")
	require.NoError(t, err)
	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "seed", got)

	_, err = page.Region(ctx, "Outer", "again")
	require.NoError(t, err)
	assert.Equal(t, "seed again", View(ctx))
}

func TestRegion_Errors(t *testing.T) {
	_, page := nestedTree(t)
	ctx, _ := startScope(t, "seed")

	_, err := page.Region(ctx, "Missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	bare, err := NewRegion("Bare", WithParent(page))
	require.NoError(t, err)
	_, err = page.Region(ctx, "Bare", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	boom := errors.New("no such row")
	bare.AddFilter(func(context.Context, any) error { return boom })
	_, err = page.Region(ctx, "Bare", 7)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `filter region "Bare" with 7`)

	outer, err := page.Region(ctx, "Outer", "X")
	require.NoError(t, err)
	_, err = outer.Control(ctx, "Missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegion_FilterNeedsScope(t *testing.T) {
	r, err := NewRegion("Row")
	require.NoError(t, err)
	r.AddFilter(appendFilter)
	assert.ErrorIs(t, r.applyFilter(context.Background(), "x"), ErrScopeUndefined)
}

func TestRegion_PresenceGuardsLookups(t *testing.T) {
	_, page := nestedTree(t)
	ctx, _ := startScope(t, "seed")

	outer, err := page.Region(ctx, "Outer", "X")
	require.NoError(t, err)
	outer.AddCheck(func(ctx context.Context) (bool, error) {
		return View(ctx) == "seed present", nil
	})

	_, err = outer.Control(ctx, "anything")
	assert.ErrorIs(t, err, ErrPresenceCheckFailed)
	_, err = outer.Region(ctx, "Inner", "Y")
	assert.ErrorIs(t, err, ErrPresenceCheckFailed)

	outer, err = page.Region(ctx, "Outer", "present")
	require.NoError(t, err)
	_, err = outer.Region(ctx, "Inner", "Y")
	assert.NoError(t, err)
}

func TestPage_PresenceGuardsLookups(t *testing.T) {
	cases := []struct {
		name   string
		lookup func(ctx context.Context, page *Page) error
	}{
		{"control", func(ctx context.Context, page *Page) error {
			_, err := page.Control(ctx, "PageLevel")
			return err
		}},
		{"region", func(ctx context.Context, page *Page) error {
			_, err := page.Region(ctx, "Counted", "X")
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, page := nestedTree(t)
			counted, err := NewRegion("Counted", WithParent(page))
			require.NoError(t, err)
			filtered := 0
			counted.AddFilter(func(ctx context.Context, arg any) error {
				filtered++
				return appendFilter(ctx, arg)
			})
			page.AddCheck(always(false))

			ctx, _ := startScope(t, "seed")
			err = tc.lookup(ctx, page)
			assert.ErrorIs(t, err, ErrPresenceCheckFailed)
			assert.Zero(t, filtered)
			assert.Equal(t, "seed", View(ctx))
		})
	}
}

func TestPage_PresenceCheckedAgainstRootView(t *testing.T) {
	_, page := nestedTree(t)
	page.AddCheck(func(ctx context.Context) (bool, error) {
		return View(ctx) == "seed", nil
	})
	ctx, _ := startScope(t, "seed")

	_, err := page.Region(ctx, "Outer", "row0")
	require.NoError(t, err)
	assert.Equal(t, "seed row0", View(ctx))

	_, err = page.Region(ctx, "Outer", "row1")
	require.NoError(t, err)
	assert.Equal(t, "seed row1", View(ctx))

	c, err := page.Control(ctx, "PageLevel")
	require.NoError(t, err)
	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "seed", got)
}

func TestPage_LookupMissLeavesView(t *testing.T) {
	_, page := nestedTree(t)
	ctx, _ := startScope(t, "seed")

	_, err := page.Region(ctx, "Outer", "X")
	require.NoError(t, err)
	_, err = page.Control(ctx, "Missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "seed X", View(ctx))
}

func TestRegion_Attachment(t *testing.T) {
	page, err := NewPage("Home")
	require.NoError(t, err)
	parent, err := NewRegion("Table")
	require.NoError(t, err)
	row, err := NewRegion("Row", WithAliases("Line"))
	require.NoError(t, err)

	assert.ErrorIs(t, row.AddToPage(nil), ErrMissingEntity)
	assert.ErrorIs(t, row.AddToRegion(nil), ErrMissingEntity)
	require.NoError(t, parent.AddToPage(page))
	require.NoError(t, row.AddToRegion(parent))

	assert.Equal(t, []*Region{parent}, page.Regions())
	assert.Equal(t, []*Region{row}, parent.Regions())
	assert.Equal(t, []string{"Line"}, row.Aliases())

	assert.ErrorIs(t, parent.AddRegion(nil), ErrMissingEntity)
	assert.ErrorIs(t, parent.AddControl(nil), ErrMissingEntity)

	var nilRegion *Region
	_, err = NewControl("Name", "name", WithParent(nilRegion))
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = NewPage("Nested", WithParent(page))
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestPage_Navigate(t *testing.T) {
	ctx, rec := startScope(t, newForm(nil))
	page, err := NewPage("Home")
	require.NoError(t, err)

	var clicked []string
	link, err := NewControl("Account", "account link", WithParent(page))
	require.NoError(t, err)
	link.AddGoto(func(context.Context) error {
		clicked = append(clicked, "Account")
		return nil
	})

	require.NoError(t, page.Navigate(ctx, "Account"))
	assert.Equal(t, []string{"Account"}, clicked)
	assert.Equal(t, []string{"Navigating to account link"}, rec.lines())

	assert.ErrorIs(t, page.Navigate(ctx, ""), ErrMissingRequiredField)
	assert.ErrorIs(t, page.Navigate(ctx, "Nowhere"), ErrNotFound)

	var routed string
	page.AddNavigation(func(_ context.Context, to string) error {
		routed = to
		return nil
	})
	require.NoError(t, page.Navigate(ctx, "Nowhere"))
	assert.Equal(t, "Nowhere", routed)

	page.AddCheck(always(false))
	assert.ErrorIs(t, page.Navigate(ctx, "Account"), ErrPresenceCheckFailed)
}
