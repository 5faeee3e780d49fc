// Package memdom is an in-memory dom.Document built on golang.org/x/net/html.
//
// It follows browser semantics closely enough for the post view to run natively:
// element identity is stable (one wrapper per node), fragments move their
// children on append, selectors are real CSS selectors (cascadia) and events
// bubble from the target to the document. Dispatch is synchronous.
//
// A document may be used from several goroutines; operations do not
// interleave.
package memdom

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/shurcooL/htmlg"
	"github.com/vcrobe/postview/console"
	"github.com/vcrobe/postview/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Compile-time assertions.
var (
	_ dom.Document = (*Document)(nil)
	_ dom.Element  = (*Element)(nil)
	_ dom.Fragment = (*Fragment)(nil)
	_ dom.Node     = (*Text)(nil)
)

// Document is an in-memory HTML document. It is safe for concurrent use:
// every operation holds the document lock, and event handlers run after it is
// released.
type Document struct {
	mu         sync.Mutex
	root       *html.Node
	readyState string
	wrappers   map[*html.Node]dom.Node
	listeners  listenerSet
}

// New returns an empty, fully loaded document (<html><head></head><body></body></html>).
func New() *Document {
	doc, err := Parse(strings.NewReader(""))
	if err != nil {
		// Parsing an empty string cannot fail.
		panic(err)
	}
	return doc
}

// Parse builds a document from HTML source. The document starts in the
// "complete" ready state; use SetReadyState to simulate an earlier phase.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		root:       root,
		readyState: "complete",
		wrappers:   make(map[*html.Node]dom.Node),
	}, nil
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

func (d *Document) ReadyState() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readyState
}

// SetReadyState changes the value reported by ReadyState. It does not fire any event.
func (d *Document) SetReadyState(state string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readyState = state
}

func (d *Document) CreateElement(tag string) dom.Element {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.element(n)
}

func (d *Document) CreateDocumentFragment() dom.Fragment {
	n := &html.Node{Type: html.DocumentNode}
	f := &Fragment{doc: d, node: n}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wrappers[n] = f
	return f
}

func (d *Document) GetElementByID(id string) dom.Element {
	if id == "" {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	return d.element(found)
}

func (d *Document) QuerySelector(selector string) dom.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queryFirst(d.root, selector)
}

func (d *Document) QuerySelectorAll(selector string) []dom.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queryAll(d.root, selector)
}

func (d *Document) AddEventListener(typ string, fn func(dom.Event)) dom.Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listeners.add(typ, fn)
}

func (d *Document) RemoveEventListener(typ string, l dom.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners.remove(typ, l)
}

// ListenerCount returns the number of listeners registered on the document for typ.
func (d *Document) ListenerCount(typ string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listeners.count(typ)
}

// Dispatch fires an event of type typ on the document itself, e.g. DOMContentLoaded.
func (d *Document) Dispatch(typ string) {
	d.mu.Lock()
	handlers := d.listeners.snapshot(typ)
	d.mu.Unlock()
	fire(handlers, &Event{typ: typ})
}

// element returns the wrapper of n. d.mu must be held.
func (d *Document) element(n *html.Node) *Element {
	if w, ok := d.wrappers[n]; ok {
		return w.(*Element)
	}
	el := &Element{doc: d, node: n}
	d.wrappers[n] = el
	return el
}

// wrap returns the wrapper of any node. d.mu must be held.
func (d *Document) wrap(n *html.Node) dom.Node {
	if n == nil {
		return nil
	}
	switch n.Type {
	case html.ElementNode:
		return d.element(n)
	default:
		if w, ok := d.wrappers[n]; ok {
			return w
		}
		t := &Text{node: n}
		d.wrappers[n] = t
		return t
	}
}

func (d *Document) queryAll(scope *html.Node, selector string) []dom.Element {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		console.Error("memdom: invalid selector", selector, err)
		return nil
	}
	var out []dom.Element
	for _, n := range sel.MatchAll(scope) {
		// Scoped queries only look at descendants.
		if n == scope {
			continue
		}
		out = append(out, d.element(n))
	}
	return out
}

func (d *Document) queryFirst(scope *html.Node, selector string) dom.Element {
	all := d.queryAll(scope, selector)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// Element wraps an element node.
type Element struct {
	doc       *Document
	node      *html.Node
	props     map[string]any
	listeners listenerSet
}

// Node returns the underlying html node. Reading it races with other
// goroutines that use the document.
func (e *Element) Node() *html.Node {
	return e.node
}

// OuterHTML renders the element and its subtree.
func (e *Element) OuterHTML() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return ""
	}
	return buf.String()
}

func (e *Element) AppendChild(child dom.Node) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	appendChild(e.node, child)
}

func (e *Element) RemoveChild(child dom.Node) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeChild(e.node, child)
}

func (e *Element) LastChild() dom.Node {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.wrap(e.node.LastChild)
}

func (e *Element) ChildNodes() []dom.Node {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return childNodes(e.doc, e.node)
}

func (e *Element) TagName() string {
	return strings.ToUpper(e.node.Data)
}

func (e *Element) TextContent() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return textContent(e.node)
}

func (e *Element) SetTextContent(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
		e.node.RemoveChild(c)
	}
	if text != "" {
		htmlg.AppendChildren(e.node, htmlg.Text(text))
	}
}

func (e *Element) ClassName() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return attr(e.node, "class")
}

func (e *Element) SetClassName(class string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, "class", class)
}

func (e *Element) HasClass(class string) bool {
	return slices.Contains(strings.Fields(e.ClassName()), class)
}

func (e *Element) ToggleClass(class string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	classes := strings.Fields(attr(e.node, "class"))
	added := false
	if i := slices.Index(classes, class); i >= 0 {
		classes = slices.Delete(classes, i, i+1)
	} else {
		classes = append(classes, class)
		added = true
	}
	setAttr(e.node, "class", strings.Join(classes, " "))
	return added
}

func (e *Element) GetAttribute(name string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return attr(e.node, name)
}

func (e *Element) SetAttribute(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, name, value)
}

// Value follows HTMLOptionElement.value (falls back to the text) and
// HTMLSelectElement.value (the selected option, else the first one).
func (e *Element) Value() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return value(e.node)
}

// SetValue on a select marks the option with that value as selected.
func (e *Element) SetValue(v string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.DataAtom != atom.Select {
		setAttr(e.node, "value", v)
		return
	}
	for _, o := range options(e.node) {
		removeAttr(o, "selected")
		if value(o) == v {
			setAttr(o, "selected", "")
		}
	}
}

func (e *Element) QuerySelector(selector string) dom.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.queryFirst(e.node, selector)
}

func (e *Element) QuerySelectorAll(selector string) []dom.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.doc.queryAll(e.node, selector)
}

func (e *Element) AddEventListener(typ string, fn func(dom.Event)) dom.Listener {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.listeners.add(typ, fn)
}

func (e *Element) RemoveEventListener(typ string, l dom.Listener) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.listeners.remove(typ, l)
}

// ListenerCount returns the number of listeners registered on the element for typ.
func (e *Element) ListenerCount(typ string) int {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.listeners.count(typ)
}

func (e *Element) Property(name string) any {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.props[name]
}

func (e *Element) SetProperty(name string, value any) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.props == nil {
		e.props = make(map[string]any)
	}
	e.props[name] = value
}

// Dispatch fires an event of type typ at the element. The event bubbles
// through the element's ancestors and finally reaches the document when the
// element is attached to it. The propagation path and its handlers are fixed
// before the first handler runs.
func (e *Element) Dispatch(typ string) *Event {
	ev := &Event{typ: typ, target: e}
	d := e.doc

	d.mu.Lock()
	path := [][]*listener{e.listeners.snapshot(typ)}
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p == d.root {
			path = append(path, d.listeners.snapshot(typ))
			break
		}
		if p.Type == html.ElementNode {
			path = append(path, d.element(p).listeners.snapshot(typ))
		}
	}
	d.mu.Unlock()

	for _, handlers := range path {
		fire(handlers, ev)
	}
	return ev
}

// Click dispatches a click event, like HTMLElement.click().
func (e *Element) Click() *Event {
	return e.Dispatch(dom.EventClick)
}

// Fragment is a detached container node.
type Fragment struct {
	doc  *Document
	node *html.Node
}

func (f *Fragment) AppendChild(child dom.Node) {
	f.doc.mu.Lock()
	defer f.doc.mu.Unlock()
	appendChild(f.node, child)
}

func (f *Fragment) RemoveChild(child dom.Node) {
	f.doc.mu.Lock()
	defer f.doc.mu.Unlock()
	removeChild(f.node, child)
}

func (f *Fragment) LastChild() dom.Node {
	f.doc.mu.Lock()
	defer f.doc.mu.Unlock()
	return f.doc.wrap(f.node.LastChild)
}

func (f *Fragment) ChildNodes() []dom.Node {
	f.doc.mu.Lock()
	defer f.doc.mu.Unlock()
	return childNodes(f.doc, f.node)
}

// Text is a text or comment node. It cannot have children.
type Text struct {
	node *html.Node
}

func (t *Text) AppendChild(dom.Node)   {}
func (t *Text) RemoveChild(dom.Node)   {}
func (t *Text) LastChild() dom.Node    { return nil }
func (t *Text) ChildNodes() []dom.Node { return nil }

// Data returns the node's text.
func (t *Text) Data() string { return t.node.Data }

// Node returns the underlying html node.
func (t *Text) Node() *html.Node { return t.node }

// Event is a synchronously dispatched event.
type Event struct {
	typ    string
	target *Element
}

// NewEvent returns an event of type typ targeting el, for calling handlers directly.
func NewEvent(typ string, el dom.Element) *Event {
	target, _ := el.(*Element)
	return &Event{typ: typ, target: target}
}

func (ev *Event) Type() string {
	return ev.typ
}

func (ev *Event) Target() dom.Element {
	if ev.target == nil {
		return nil
	}
	return ev.target
}

func value(n *html.Node) string {
	switch n.DataAtom {
	case atom.Option:
		if hasAttr(n, "value") {
			return attr(n, "value")
		}
		return strings.TrimSpace(textContent(n))
	case atom.Select:
		opts := options(n)
		if len(opts) == 0 {
			return ""
		}
		for _, o := range opts {
			if hasAttr(o, "selected") {
				return value(o)
			}
		}
		return value(opts[0])
	default:
		return attr(n, "value")
	}
}

// options returns the <option> descendants of n in document order.
func options(n *html.Node) []*html.Node {
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if c != n && c.Type == html.ElementNode && c.DataAtom == atom.Option {
			out = append(out, c)
		}
		return true
	})
	return out
}

func nodeOf(n dom.Node) *html.Node {
	switch v := n.(type) {
	case *Element:
		return v.node
	case *Fragment:
		return v.node
	case *Text:
		return v.node
	}
	return nil
}

func appendChild(parent *html.Node, child dom.Node) {
	if f, ok := child.(*Fragment); ok {
		for c := f.node.FirstChild; c != nil; c = f.node.FirstChild {
			f.node.RemoveChild(c)
			parent.AppendChild(c)
		}
		return
	}
	n := nodeOf(child)
	if n == nil || n == parent {
		return
	}
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	parent.AppendChild(n)
}

func removeChild(parent *html.Node, child dom.Node) {
	n := nodeOf(child)
	if n == nil || n.Parent != parent {
		return
	}
	parent.RemoveChild(n)
}

func childNodes(d *Document, n *html.Node) []dom.Node {
	var out []dom.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, d.wrap(c))
	}
	return out
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// walk visits n and its descendants in document order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	return slices.ContainsFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
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
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}
