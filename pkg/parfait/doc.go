// Package parfait models a web application under test as a tree of
// artifacts: an Application owns Pages, a Page owns Regions and Controls,
// and a Region owns nested Regions and Controls.
//
// The tree is built once and shared by every test. Per-test state (the
// browser handle, the current narrowed view, and the log routine) lives in a
// Scope carried by the context:
//
//	ctx = parfait.Start(ctx, parfait.WithLogSink(sink))
//	if err := app.SetBrowser(ctx, page); err != nil {
//		return err
//	}
//	login, err := app.Page(ctx, "Login")
//	...
//	user, err := login.Control(ctx, "UserId")
//	...
//	err = user.Update(ctx, "alice")
//
// A control's page author supplies get, set, and goto primitives. Retrieve,
// update, verify, confirm, and navigate are derived from them unless
// overridden, and every directive first checks that the control is present.
//
// Regions narrow the view: entering a region runs its filter against the
// view its parent left, and everything below it sees only the result.
package parfait
