package parfait

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// form is an in-memory stand-in for a browser page.
type form struct {
	mu     sync.Mutex
	values map[string]any
	sets   map[string]int
}

func newForm(values map[string]any) *form {
	f := &form{values: make(map[string]any), sets: make(map[string]int)}
	for k, v := range values {
		f.values[k] = v
	}
	return f
}

func (f *form) get(key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}

func (f *form) set(key string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = v
	f.sets[key]++
}

func (f *form) setCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[key]
}

// fieldControl builds a control whose get and set read and write the form
// field named after the control.
func fieldControl(t *testing.T, name, logText string, opts ...Option) *Control {
	t.Helper()
	c, err := NewControl(name, logText, opts...)
	require.NoError(t, err)
	c.AddGet(func(ctx context.Context) (any, error) {
		f, err := ViewAs[*form](ctx)
		if err != nil {
			return nil, err
		}
		return f.get(name), nil
	})
	c.AddSet(func(ctx context.Context, v any) error {
		f, err := ViewAs[*form](ctx)
		if err != nil {
			return err
		}
		f.set(name, v)
		return nil
	})
	return c
}

type logRecorder struct {
	mu       sync.Mutex
	messages []string
	metadata []map[string]any
}

func (r *logRecorder) sink(message string, metadata map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	r.metadata = append(r.metadata, metadata)
}

func (r *logRecorder) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// startScope returns a context carrying a fresh scope bound to browser.
func startScope(t *testing.T, browser any) (context.Context, *logRecorder) {
	t.Helper()
	rec := &logRecorder{}
	ctx := Start(context.Background(), WithLogSink(rec.sink))
	if browser != nil {
		s, ok := ScopeFrom(ctx)
		require.True(t, ok)
		s.bind(browser)
	}
	return ctx, rec
}

func always(ok bool) CheckFunc {
	return func(context.Context) (bool, error) { return ok, nil }
}

// loginApp builds App with a Login page holding the UserId control.
func loginApp(t *testing.T, opts ...ApplicationOption) (*Application, *Page, *Control) {
	t.Helper()
	app, err := NewApplication("App", opts...)
	require.NoError(t, err)
	login, err := NewPage("Login", WithAliases("Sign In"))
	require.NoError(t, err)
	require.NoError(t, app.AddPage(login))
	user := fieldControl(t, "UserId", "user ID", WithParent(login), WithAliases("user"))
	return app, login, user
}
