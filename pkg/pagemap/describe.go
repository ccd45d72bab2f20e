package pagemap

import (
	"fmt"
	"io"
	"strings"
)

// Describe writes an indented outline of m.
func Describe(w io.Writer, m *Map) error {
	d := describer{w: w}
	d.line(0, "application %s", m.Application)
	if m.FallbackPage != nil {
		d.line(1, "fallback page %q", *m.FallbackPage)
	}
	for _, p := range m.Pages {
		d.line(1, "page %s%s%s", p.Name, aliases(p.Aliases), marker(p.Marker))
		d.children(2, p.Controls, p.Regions)
	}
	return d.err
}

type describer struct {
	w   io.Writer
	err error
}

func (d *describer) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s"+format+"\n", append([]any{strings.Repeat("  ", depth)}, args...)...)
}

func (d *describer) children(depth int, controls []Control, regions []Region) {
	for _, c := range controls {
		d.line(depth, "control %s%s [%s %s] %q", c.Name, aliases(c.Aliases), c.Kind, c.Selector, c.LogText)
	}
	for _, r := range regions {
		d.line(depth, "region %s%s within %s%s", r.Name, aliases(r.Aliases), r.Within, marker(r.Marker))
		d.children(depth+1, r.Controls, r.Regions)
	}
}

func aliases(a []string) string {
	if len(a) == 0 {
		return ""
	}
	return " (" + strings.Join(a, ", ") + ")"
}

func marker(sel string) string {
	if sel == "" {
		return ""
	}
	return " marker " + sel
}
