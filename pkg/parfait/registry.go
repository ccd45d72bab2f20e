package parfait

import (
	"fmt"
	"sort"
)

type named interface {
	Name() string
	Aliases() []string
}

// registry maps names and aliases to artifacts of one kind. Keys collide
// silently: the last registration wins.
type registry[T named] struct {
	kind    string
	entries map[string]T
	order   []T
}

func newRegistry[T named](kind string) registry[T] {
	return registry[T]{kind: kind, entries: make(map[string]T)}
}

func (r *registry[T]) add(e T) {
	r.entries[e.Name()] = e
	for _, alias := range e.Aliases() {
		r.entries[alias] = e
	}
	for _, existing := range r.order {
		if any(existing) == any(e) {
			return
		}
	}
	r.order = append(r.order, e)
}

func (r *registry[T]) get(key string) (T, error) {
	e, ok := r.entries[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", ErrNotFound, r.kind, key)
	}
	return e, nil
}

// all returns the registered artifacts in insertion order, without the
// duplicates aliases introduce.
func (r *registry[T]) all() []T {
	out := make([]T, len(r.order))
	copy(out, r.order)
	return out
}

// keys returns every name and alias, sorted.
func (r *registry[T]) keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
