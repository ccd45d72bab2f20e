package browser

import (
	"context"
	"testing"

	"parfait/pkg/parfait"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usersTree struct {
	app      *parfait.Application
	page     *parfait.Page
	remember *parfait.Control
}

func buildUsersTree(t *testing.T) usersTree {
	t.Helper()
	app, err := parfait.NewApplication("Users", parfait.WithBrowserCheck(IsView))
	require.NoError(t, err)
	page, err := parfait.NewPage("List")
	require.NoError(t, err)
	require.NoError(t, app.AddPage(page))
	page.AddCheck(Marker("h1#title"))

	user, err := parfait.NewControl("User", "user name", parfait.WithParent(page))
	require.NoError(t, err)
	TextField(user, "#user")

	remember, err := parfait.NewControl("Remember", "remember me", parfait.WithParent(page))
	require.NoError(t, err)
	Checkbox(remember, "#remember")

	next, err := parfait.NewControl("Next", "next link", parfait.WithParent(page))
	require.NoError(t, err)
	Clickable(next, "a#next")

	row, err := parfait.NewRegion("Row", parfait.WithParent(page))
	require.NoError(t, err)
	row.AddFilter(Within("tr.row"))

	name, err := parfait.NewControl("Name", "name", parfait.WithParent(row))
	require.NoError(t, err)
	ReadOnly(name, ".name")

	age, err := parfait.NewControl("Age", "age", parfait.WithParent(row))
	require.NoError(t, err)
	TextField(age, "input.age")

	return usersTree{app: app, page: page, remember: remember}
}

func startDocument(t *testing.T, tree usersTree) (context.Context, *Document, *[]string) {
	t.Helper()
	var lines []string
	ctx := parfait.Start(context.Background(), parfait.WithLogSink(func(msg string, _ map[string]any) {
		lines = append(lines, msg)
	}))
	doc := parseUsers(t)
	require.NoError(t, tree.app.SetBrowser(ctx, doc.Root()))
	return ctx, doc, &lines
}

func TestDirectives_PageControls(t *testing.T) {
	tree := buildUsersTree(t)
	ctx, doc, lines := startDocument(t, tree)

	require.NoError(t, tree.app.Update(ctx, parfait.Request{OnPage: "List", Labels: map[string]any{
		"User":     "alice",
		"Remember": true,
	}}))
	require.NoError(t, tree.app.Verify(ctx, parfait.Request{OnPage: "List", Labels: map[string]any{
		"User":     "alice",
		"Remember": true,
	}}))
	require.NoError(t, tree.app.Navigate(ctx, parfait.NavigateRequest{OnPage: "List", To: "Next"}))

	assert.Equal(t, []string{
		`Entering remember me: "true" (was "false")`,
		`Entering user name: "alice" (was "")`,
		`Verified remember me to be "true"`,
		`Verified user name to be "alice"`,
		"Navigating to next link",
	}, *lines)
	assert.Equal(t, []string{"a#next[href=/next]"}, doc.Clicks())
}

func TestDirectives_RegionNarrowing(t *testing.T) {
	tree := buildUsersTree(t)
	ctx, _, _ := startDocument(t, tree)

	page, err := tree.app.Page(ctx, "List")
	require.NoError(t, err)

	for arg, want := range map[any]string{"bob": "bob", 0: "alice", "carol": "carol"} {
		row, err := page.Region(ctx, "Row", arg)
		require.NoError(t, err)
		name, err := row.Control(ctx, "Name")
		require.NoError(t, err)
		got, err := name.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	row, err := page.Region(ctx, "Row", "bob")
	require.NoError(t, err)
	age, err := row.Control(ctx, "Age")
	require.NoError(t, err)
	require.NoError(t, age.Update(ctx, 43))
	ok, err := age.Confirm(ctx, "43")
	require.NoError(t, err)
	assert.True(t, ok)

	row, err = page.Region(ctx, "Row", "alice")
	require.NoError(t, err)
	age, err = row.Control(ctx, "Age")
	require.NoError(t, err)
	require.NoError(t, age.Verify(ctx, "31"))

	_, err = page.Region(ctx, "Row", "mallory")
	assert.ErrorIs(t, err, parfait.ErrNotFound)
	_, err = page.Region(ctx, "Row", 7)
	assert.ErrorIs(t, err, parfait.ErrNotFound)
}

func TestDirectives_PageMarkerOutsideRegion(t *testing.T) {
	tree := buildUsersTree(t)
	ctx, _, _ := startDocument(t, tree)

	page, err := tree.app.Page(ctx, "List")
	require.NoError(t, err)
	_, err = page.Region(ctx, "Row", 0)
	require.NoError(t, err)
	_, err = page.Region(ctx, "Row", 1)
	require.NoError(t, err, "the page marker sits outside the row")

	user, err := page.Control(ctx, "User")
	require.NoError(t, err)
	require.NoError(t, user.Update(ctx, "carol"))
	got, err := user.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "carol", got)
}

func TestDirectives_Checkbox(t *testing.T) {
	tree := buildUsersTree(t)
	ctx, _, _ := startDocument(t, tree)

	require.NoError(t, tree.remember.Set(ctx, "true"))
	got, err := tree.remember.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	assert.ErrorIs(t, tree.remember.Set(ctx, "maybe"), parfait.ErrInvalidType)
	assert.ErrorIs(t, tree.remember.Set(ctx, 1), parfait.ErrInvalidType)
}

func TestDirectives_MarkerGuardsPage(t *testing.T) {
	tree := buildUsersTree(t)
	ctx := parfait.Start(context.Background())
	doc, err := ParseHTMLString(`<html><body><p>elsewhere</p></body></html>`)
	require.NoError(t, err)
	require.NoError(t, tree.app.SetBrowser(ctx, doc.Root()))

	ok, err := tree.app.Confirm(ctx, parfait.Request{OnPage: "List"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = tree.page.Control(ctx, "User")
	assert.ErrorIs(t, err, parfait.ErrPresenceCheckFailed)

	assert.ErrorIs(t, tree.app.SetBrowser(ctx, "not a view"), parfait.ErrInvalidBrowser)
}
