package browser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"parfait/pkg/parfait"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is an offline page parsed from HTML. Input, checkbox, and click
// interactions mutate the parsed tree, so a page map can be exercised
// without a browser. A Document is safe for concurrent use.
type Document struct {
	mu     sync.Mutex
	root   *html.Node
	clicks []string
}

// ParseHTML parses a complete HTML document.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseHTMLString parses s with ParseHTML.
func ParseHTMLString(s string) (*Document, error) {
	return ParseHTML(strings.NewReader(s))
}

// Root returns the View of the whole document.
func (d *Document) Root() View {
	return &staticView{doc: d, node: d.root}
}

// Clicks returns a description of every element clicked so far, oldest
// first.
func (d *Document) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// HTML renders the current state of the document.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if err := html.Render(&b, d.root); err != nil {
		return "", err
	}
	return b.String(), nil
}

type staticView struct {
	doc  *Document
	node *html.Node
}

func (v *staticView) isRoot() bool {
	return v.node.Type == html.DocumentNode
}

// find returns the elements below the view that match selector, in document
// order. The view itself never matches; as with querySelectorAll, the
// selector's combinators may reach ancestors above it.
func (v *staticView) find(selector string, limit int) ([]View, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, selector, err)
	}
	v.doc.mu.Lock()
	defer v.doc.mu.Unlock()

	nodes := goquery.NewDocumentFromNode(v.node).FindMatcher(sel).Nodes
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	out := make([]View, len(nodes))
	for i, n := range nodes {
		out[i] = &staticView{doc: v.doc, node: n}
	}
	return out, nil
}

func (v *staticView) Element(_ context.Context, selector string) (View, error) {
	found, err := v.find(selector, 1)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: element %q", parfait.ErrNotFound, selector)
	}
	return found[0], nil
}

func (v *staticView) Elements(_ context.Context, selector string) ([]View, error) {
	return v.find(selector, 0)
}

func (v *staticView) Has(_ context.Context, selector string) (bool, error) {
	found, err := v.find(selector, 1)
	return len(found) > 0, err
}

func (v *staticView) Text(context.Context) (string, error) {
	v.doc.mu.Lock()
	defer v.doc.mu.Unlock()
	var b strings.Builder
	collectText(v.node, &b)
	return strings.Join(strings.Fields(b.String()), " "), nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func (v *staticView) Value(ctx context.Context) (string, error) {
	if v.isRoot() {
		return "", ErrNotElement
	}
	switch v.node.Data {
	case "textarea":
		v.doc.mu.Lock()
		defer v.doc.mu.Unlock()
		var b strings.Builder
		for c := v.node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return b.String(), nil
	case "select":
		opt, err := v.Element(ctx, "option[selected]")
		if err != nil {
			opt, err = v.Element(ctx, "option")
		}
		if err != nil {
			return "", nil
		}
		o := opt.(*staticView)
		v.doc.mu.Lock()
		val, ok := lookupAttr(o.node, "value")
		v.doc.mu.Unlock()
		if ok {
			return val, nil
		}
		return o.Text(ctx)
	}
	v.doc.mu.Lock()
	defer v.doc.mu.Unlock()
	return attr(v.node, "value"), nil
}

func (v *staticView) Checked(context.Context) (bool, error) {
	if v.isRoot() {
		return false, ErrNotElement
	}
	v.doc.mu.Lock()
	defer v.doc.mu.Unlock()
	_, ok := lookupAttr(v.node, "checked")
	return ok, nil
}

func (v *staticView) Visible(context.Context) (bool, error) {
	v.doc.mu.Lock()
	defer v.doc.mu.Unlock()
	for n := v.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if _, hidden := lookupAttr(n, "hidden"); hidden {
			return false, nil
		}
		if n.Data == "input" && strings.EqualFold(attr(n, "type"), "hidden") {
			return false, nil
		}
		style := strings.ReplaceAll(strings.ToLower(attr(n, "style")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false, nil
		}
	}
	return true, nil
}

func (v *staticView) Input(_ context.Context, text string) error {
	if v.isRoot() {
		return ErrNotElement
	}
	v.doc.mu.Lock()
	defer v.doc.mu.Unlock()
	if v.node.Data == "textarea" {
		for c := v.node.FirstChild; c != nil; {
			next := c.NextSibling
			v.node.RemoveChild(c)
			c = next
		}
		v.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		return nil
	}
	setAttr(v.node, "value", text)
	return nil
}

func (v *staticView) SetChecked(_ context.Context, checked bool) error {
	if v.isRoot() {
		return ErrNotElement
	}
	v.doc.mu.Lock()
	defer v.doc.mu.Unlock()
	v.setCheckedLocked(checked)
	return nil
}

func (v *staticView) setCheckedLocked(checked bool) {
	if !checked {
		removeAttr(v.node, "checked")
		return
	}
	if strings.EqualFold(attr(v.node, "type"), "radio") {
		if name := attr(v.node, "name"); name != "" {
			clearRadioGroup(v.doc.root, name)
		}
	}
	setAttr(v.node, "checked", "")
}

func (v *staticView) Click(context.Context) error {
	if v.isRoot() {
		return ErrNotElement
	}
	v.doc.mu.Lock()
	defer v.doc.mu.Unlock()
	if v.node.Data == "input" {
		switch strings.ToLower(attr(v.node, "type")) {
		case "checkbox":
			_, on := lookupAttr(v.node, "checked")
			v.setCheckedLocked(!on)
		case "radio":
			v.setCheckedLocked(true)
		}
	}
	v.doc.clicks = append(v.doc.clicks, describe(v.node))
	return nil
}

// describe names an element for Document.Clicks: tag, then #id, then href.
func describe(n *html.Node) string {
	d := n.Data
	if id := attr(n, "id"); id != "" {
		d += "#" + id
	}
	if href := attr(n, "href"); href != "" {
		d += "[href=" + href + "]"
	}
	return d
}

func clearRadioGroup(n *html.Node, name string) {
	if n.Type == html.ElementNode && n.Data == "input" &&
		strings.EqualFold(attr(n, "type"), "radio") && attr(n, "name") == name {
		removeAttr(n, "checked")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clearRadioGroup(c, name)
	}
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}
