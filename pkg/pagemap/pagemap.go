// Package pagemap builds a parfait artifact tree from a YAML page map, so
// pages whose controls are plain selectors need no Go code.
//
//	application: Users
//	pages:
//	  - name: List
//	    marker: h1#title
//	    controls:
//	      - {name: User, log_text: user name, kind: text, selector: "#user"}
//	    regions:
//	      - name: Row
//	        within: tr.row
//	        controls:
//	          - {name: Age, log_text: age, kind: text, selector: input.age}
package pagemap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"parfait/pkg/browser"
	"parfait/pkg/parfait"

	"gopkg.in/yaml.v3"
)

// Control kinds.
const (
	KindText     = "text"
	KindCheckbox = "checkbox"
	KindReadOnly = "readonly"
	KindClick    = "click"
)

// Map is the root of a page map.
type Map struct {
	Application string `yaml:"application"`
	// FallbackPage overrides the Navigate facade's fallback page when set.
	FallbackPage *string `yaml:"fallback_page,omitempty"`
	Pages        []Page  `yaml:"pages"`
}

// Page describes one page.
type Page struct {
	Name     string    `yaml:"name"`
	Aliases  []string  `yaml:"aliases,omitempty"`
	Marker   string    `yaml:"marker,omitempty"`
	Controls []Control `yaml:"controls,omitempty"`
	Regions  []Region  `yaml:"regions,omitempty"`
}

// Region describes a region. Within selects the candidate elements the
// region's filter argument picks from.
type Region struct {
	Name     string    `yaml:"name"`
	Aliases  []string  `yaml:"aliases,omitempty"`
	Within   string    `yaml:"within"`
	Marker   string    `yaml:"marker,omitempty"`
	Controls []Control `yaml:"controls,omitempty"`
	Regions  []Region  `yaml:"regions,omitempty"`
}

// Control describes a control bound to one selector.
type Control struct {
	Name     string   `yaml:"name"`
	LogText  string   `yaml:"log_text"`
	Aliases  []string `yaml:"aliases,omitempty"`
	Kind     string   `yaml:"kind"`
	Selector string   `yaml:"selector"`
	// Marker defaults to Selector.
	Marker string `yaml:"marker,omitempty"`
}

// Parse decodes a page map. Unknown keys are rejected.
func Parse(r io.Reader) (*Map, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Map
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty page map", parfait.ErrMissingRequiredField)
		}
		return nil, fmt.Errorf("failed to parse page map: %w", err)
	}
	return &m, nil
}

// Load reads and parses the page map at path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page map: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Validate checks names, kinds, and selectors without building anything.
func (m *Map) Validate() error {
	if m.Application == "" {
		return fmt.Errorf("%w: application", parfait.ErrMissingRequiredField)
	}
	for _, p := range m.Pages {
		if p.Name == "" {
			return fmt.Errorf("%w: page name", parfait.ErrMissingRequiredField)
		}
		if err := validateChildren("page "+p.Name, p.Controls, p.Regions); err != nil {
			return err
		}
	}
	return nil
}

func validateChildren(where string, controls []Control, regions []Region) error {
	for _, c := range controls {
		if c.Name == "" || c.LogText == "" || c.Selector == "" {
			return fmt.Errorf("%w: control %q in %s needs name, log_text, and selector", parfait.ErrMissingRequiredField, c.Name, where)
		}
		switch c.Kind {
		case KindText, KindCheckbox, KindReadOnly, KindClick:
		default:
			return fmt.Errorf("%w: control %q in %s has kind %q", parfait.ErrInvalidType, c.Name, where, c.Kind)
		}
	}
	for _, r := range regions {
		if r.Name == "" || r.Within == "" {
			return fmt.Errorf("%w: region %q in %s needs name and within", parfait.ErrMissingRequiredField, r.Name, where)
		}
		if err := validateChildren("region "+r.Name, r.Controls, r.Regions); err != nil {
			return err
		}
	}
	return nil
}

// Build validates m and constructs the application it describes. Every
// application is built with browser.IsView as its browser check.
func Build(m *Map, opts ...parfait.ApplicationOption) (*parfait.Application, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	all := []parfait.ApplicationOption{parfait.WithBrowserCheck(browser.IsView)}
	if m.FallbackPage != nil {
		all = append(all, parfait.WithNavigateFallback(*m.FallbackPage))
	}
	app, err := parfait.NewApplication(m.Application, append(all, opts...)...)
	if err != nil {
		return nil, err
	}
	for _, pm := range m.Pages {
		page, err := parfait.NewPage(pm.Name, parfait.WithAliases(pm.Aliases...))
		if err != nil {
			return nil, err
		}
		if pm.Marker != "" {
			page.AddCheck(browser.Marker(pm.Marker))
		}
		if err := buildChildren(page, pm.Controls, pm.Regions); err != nil {
			return nil, fmt.Errorf("page %q: %w", pm.Name, err)
		}
		if err := app.AddPage(page); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func buildChildren(parent parfait.ParentRef, controls []Control, regions []Region) error {
	for _, cm := range controls {
		c, err := parfait.NewControl(cm.Name, cm.LogText,
			parfait.WithAliases(cm.Aliases...), parfait.WithParent(parent))
		if err != nil {
			return err
		}
		switch cm.Kind {
		case KindText:
			browser.TextField(c, cm.Selector)
		case KindCheckbox:
			browser.Checkbox(c, cm.Selector)
		case KindReadOnly:
			browser.ReadOnly(c, cm.Selector)
		case KindClick:
			browser.Clickable(c, cm.Selector)
		}
		marker := cm.Marker
		if marker == "" {
			marker = cm.Selector
		}
		c.AddCheck(browser.Marker(marker))
	}
	for _, rm := range regions {
		r, err := parfait.NewRegion(rm.Name,
			parfait.WithAliases(rm.Aliases...), parfait.WithParent(parent))
		if err != nil {
			return err
		}
		r.AddFilter(browser.Within(rm.Within))
		if rm.Marker != "" {
			r.AddCheck(browser.Marker(rm.Marker))
		}
		if err := buildChildren(r, rm.Controls, rm.Regions); err != nil {
			return fmt.Errorf("region %q: %w", rm.Name, err)
		}
	}
	return nil
}
