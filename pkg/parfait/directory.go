package parfait

import (
	"sort"
	"sync"
)

// Directory maps application names to applications for lookup after
// construction. It is owned by the test-run bootstrap and safe for
// concurrent use.
type Directory struct {
	mu   sync.RWMutex
	apps map[string]*Application
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{apps: make(map[string]*Application)}
}

// Register stores app under its name. A later registration with the same
// name replaces the earlier one.
func (d *Directory) Register(app *Application) {
	if app == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.apps[app.Name()] = app
}

// Find returns the application registered under name.
func (d *Directory) Find(name string) (*Application, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	app, ok := d.apps[name]
	return app, ok
}

// Names returns the registered application names, sorted.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.apps))
	for name := range d.apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
