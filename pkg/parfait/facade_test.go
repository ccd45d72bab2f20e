package parfait

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileApp(t *testing.T, opts ...ApplicationOption) *Application {
	t.Helper()
	app, _, _ := loginApp(t, opts...)
	profile, err := NewPage("Profile")
	require.NoError(t, err)
	require.NoError(t, app.AddPage(profile))
	fieldControl(t, "First", "first name", WithParent(profile))
	fieldControl(t, "Last", "last name", WithParent(profile))
	return app
}

func TestFacade_SetAndRetrieve(t *testing.T) {
	app := profileApp(t)
	f := newForm(nil)
	ctx, _ := startScope(t, f)

	require.NoError(t, app.Set(ctx, Request{OnPage: "Profile", Labels: map[string]any{
		"First": "Ada",
		"Last":  "Lovelace",
	}}))
	assert.Equal(t, "Ada", f.get("First"))
	assert.Equal(t, "Lovelace", f.get("Last"))

	got, err := app.Retrieve(ctx, Request{OnPage: "Profile", Labels: map[string]any{"Last": nil}})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", got)

	_, err = app.Retrieve(ctx, Request{OnPage: "Profile", Labels: map[string]any{"First": nil, "Last": nil}})
	assert.ErrorIs(t, err, ErrInvalidType)
	_, err = app.Retrieve(ctx, Request{OnPage: "Profile"})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestFacade_UpdateLogsInLabelOrder(t *testing.T) {
	app := profileApp(t)
	ctx, rec := startScope(t, newForm(map[string]any{"First": "Ada"}))

	require.NoError(t, app.Update(ctx, Request{OnPage: "Profile", Labels: map[string]any{
		"Last":  "Byron",
		"First": "Ada",
	}}))
	assert.Equal(t, []string{
		`First name is already set to "Ada"`,
		`Entering last name: "Byron" (was "<nil>")`,
	}, rec.lines())
}

func TestFacade_VerifyAndConfirm(t *testing.T) {
	app := profileApp(t)
	ctx, rec := startScope(t, newForm(map[string]any{"First": "Ada", "Last": "Lovelace"}))

	req := Request{OnPage: "Profile", Labels: map[string]any{"First": "Ada", "Last": "Lovelace"}}
	require.NoError(t, app.Verify(ctx, req))
	assert.Len(t, rec.lines(), 2)

	ok, err := app.Confirm(ctx, req)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = app.Confirm(ctx, Request{OnPage: "Profile", Labels: map[string]any{"First": "Ada", "Last": "Byron"}})
	require.NoError(t, err)
	assert.False(t, ok)

	err = app.Verify(ctx, Request{OnPage: "Profile", Labels: map[string]any{"Last": "Byron"}})
	assert.ErrorIs(t, err, ErrVerificationMismatch)
}

func TestFacade_PageTest(t *testing.T) {
	app := profileApp(t)
	ctx, rec := startScope(t, newForm(nil))
	profile, err := app.Page(ctx, "Profile")
	require.NoError(t, err)

	assert.ErrorIs(t, app.Verify(ctx, Request{OnPage: "Profile"}), ErrNotConfigured)

	onProfile := true
	profile.AddCheck(func(context.Context) (bool, error) { return onProfile, nil })

	require.NoError(t, app.Verify(ctx, Request{OnPage: "Profile"}))
	assert.Equal(t, []string{`Verified that browser is on page "Profile"`}, rec.lines())
	assert.Equal(t, "presence", rec.metadata[0]["category"])

	ok, err := app.Confirm(ctx, Request{OnPage: "Profile"})
	require.NoError(t, err)
	assert.True(t, ok)

	onProfile = false
	ok, err = app.Confirm(ctx, Request{OnPage: "Profile"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, app.Verify(ctx, Request{OnPage: "Profile"}), ErrPresenceCheckFailed)
}

func TestFacade_RequiresPageAndLabels(t *testing.T) {
	app := profileApp(t)
	ctx, _ := startScope(t, newForm(nil))

	assert.ErrorIs(t, app.Set(ctx, Request{Labels: map[string]any{"First": "x"}}), ErrMissingRequiredField)
	assert.ErrorIs(t, app.Update(ctx, Request{OnPage: "Profile"}), ErrMissingRequiredField)
	assert.ErrorIs(t, app.Verify(ctx, Request{}), ErrMissingRequiredField)
	_, err := app.Confirm(ctx, Request{})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.ErrorIs(t, app.Set(ctx, Request{OnPage: "Profile", Labels: map[string]any{"Middle": "x"}}), ErrNotFound)
}

func TestFacade_SkipsUnknownLabels(t *testing.T) {
	app := profileApp(t)
	f := newForm(nil)
	ctx, rec := startScope(t, f)

	require.NoError(t, app.Set(ctx, Request{OnPage: "Profile", Labels: map[string]any{
		"First":  "Ada",
		"Middle": "King",
	}}))
	assert.Equal(t, "Ada", f.get("First"))
	assert.Nil(t, f.get("Middle"))

	require.NoError(t, app.Update(ctx, Request{OnPage: "Profile", Labels: map[string]any{
		"Last":  "Lovelace",
		"Title": "Countess",
	}}))
	assert.Equal(t, []string{`Entering last name: "Lovelace" (was "<nil>")`}, rec.lines())

	got, err := app.Retrieve(ctx, Request{OnPage: "Profile", Labels: map[string]any{"Middle": nil}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
	_, err = app.Confirm(ctx, Request{OnPage: "Profile", Labels: map[string]any{"Middle": "x", "Title": "y"}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func navigableApp(t *testing.T, opts ...ApplicationOption) (*Application, *[]string) {
	t.Helper()
	app := profileApp(t, opts...)
	var clicked []string
	all, err := NewPage(DefaultNavigateFallback)
	require.NoError(t, err)
	require.NoError(t, app.AddPage(all))
	for _, p := range []*Page{all, app.Pages()[1]} {
		home, err := NewControl("Home", "home link", WithParent(p))
		require.NoError(t, err)
		home.AddGoto(func(context.Context) error {
			clicked = append(clicked, "Home")
			return nil
		})
	}
	return app, &clicked
}

func TestFacade_Navigate(t *testing.T) {
	app, clicked := navigableApp(t)
	ctx, rec := startScope(t, newForm(nil))

	require.NoError(t, app.Navigate(ctx, NavigateRequest{OnPage: "Profile", To: "Home"}))
	require.NoError(t, app.Navigate(ctx, NavigateRequest{To: "Home"}))
	assert.Equal(t, []string{"Home", "Home"}, *clicked)
	assert.Equal(t, []string{"Navigating to home link", "Navigating to home link"}, rec.lines())

	assert.ErrorIs(t, app.Navigate(ctx, NavigateRequest{OnPage: "Profile"}), ErrMissingRequiredField)
	assert.ErrorIs(t, app.Navigate(ctx, NavigateRequest{OnPage: "Login", To: "Home"}), ErrNotFound)
}

func TestFacade_NavigateFallbackDisabled(t *testing.T) {
	app, _ := navigableApp(t, WithNavigateFallback(""))
	ctx, _ := startScope(t, newForm(nil))

	assert.ErrorIs(t, app.Navigate(ctx, NavigateRequest{To: "Home"}), ErrMissingRequiredField)
}
