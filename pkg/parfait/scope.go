package parfait

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// LogSink receives the messages derived directives emit.
type LogSink func(message string, metadata map[string]any)

// Scope is the mutable state of one execution unit: the root browser handle,
// the view the next lookup acts against, and the log sink. A Scope must not
// be shared between concurrently running tests; the artifact tree is.
type Scope struct {
	id      string
	browser any
	view    any
	sink    LogSink
}

// ScopeOption configures a new Scope.
type ScopeOption func(*Scope)

// WithLogSink installs the scope's log routine.
func WithLogSink(sink LogSink) ScopeOption {
	return func(s *Scope) { s.sink = sink }
}

// NewScope creates an empty scope with a fresh id.
func NewScope(opts ...ScopeOption) *Scope {
	s := &Scope{id: uuid.NewString()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID identifies the scope in log metadata.
func (s *Scope) ID() string { return s.id }

// Browser returns the root browser handle, or nil.
func (s *Scope) Browser() any { return s.browser }

// View returns the current narrowed view.
func (s *Scope) View() any { return s.view }

// Narrow replaces the current view. Region filters call it with a subset of
// the view they were handed.
func (s *Scope) Narrow(v any) { s.view = v }

// SetLogSink replaces the log routine.
func (s *Scope) SetLogSink(sink LogSink) { s.sink = sink }

// Log writes to the scope's sink. The scope id is added to metadata.
func (s *Scope) Log(message string, metadata map[string]any) error {
	if s.sink == nil {
		return ErrLogSinkUndefined
	}
	meta := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	meta["scope"] = s.id
	s.sink(message, meta)
	return nil
}

func (s *Scope) bind(browser any) {
	s.browser = browser
	s.view = browser
}

func (s *Scope) reset() {
	s.view = s.browser
}

type scopeKey struct{}

// WithScope returns a context carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the scope carried by ctx.
func ScopeFrom(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok && s != nil
}

// Start returns a context carrying a new scope. Each execution unit calls it
// once before navigating.
func Start(ctx context.Context, opts ...ScopeOption) context.Context {
	return WithScope(ctx, NewScope(opts...))
}

func mustScope(ctx context.Context) (*Scope, error) {
	s, ok := ScopeFrom(ctx)
	if !ok {
		return nil, ErrScopeUndefined
	}
	return s, nil
}

// View returns the current view of the scope in ctx, or nil.
func View(ctx context.Context) any {
	if s, ok := ScopeFrom(ctx); ok {
		return s.view
	}
	return nil
}

// ViewAs returns the current view asserted to T.
func ViewAs[T any](ctx context.Context) (T, error) {
	var zero T
	s, err := mustScope(ctx)
	if err != nil {
		return zero, err
	}
	v, ok := s.view.(T)
	if !ok {
		return zero, fmt.Errorf("%w: current view is %T, want %s", ErrInvalidType, s.view, reflect.TypeFor[T]())
	}
	return v, nil
}

// Narrow replaces the current view of the scope in ctx.
func Narrow(ctx context.Context, v any) error {
	s, err := mustScope(ctx)
	if err != nil {
		return err
	}
	s.Narrow(v)
	return nil
}

// SetLogRoutine replaces the log routine of the scope in ctx.
func SetLogRoutine(ctx context.Context, sink LogSink) error {
	s, err := mustScope(ctx)
	if err != nil {
		return err
	}
	s.SetLogSink(sink)
	return nil
}

// Log writes to the log routine of the scope in ctx.
func Log(ctx context.Context, message string, metadata map[string]any) error {
	s, ok := ScopeFrom(ctx)
	if !ok {
		return ErrLogSinkUndefined
	}
	return s.Log(message, metadata)
}
