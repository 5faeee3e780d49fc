//go:build js && wasm

// Package jsdom implements the dom interfaces on top of the browser DOM
// through honnef.co/go/js/dom/v2.
//
// Nullable results (lastChild, querySelector, event.target) are read from the
// underlying js.Value so that "not found" maps to a nil interface.
package jsdom

import (
	"syscall/js"

	"github.com/vcrobe/postview/dom"
	hdom "honnef.co/go/js/dom/v2"
)

// Compile-time assertions.
var (
	_ dom.Document = (*Document)(nil)
	_ dom.Element  = (*Element)(nil)
	_ dom.Fragment = (*Fragment)(nil)
)

// Document is the window's document.
type Document struct {
	doc hdom.Document
}

// New returns the current window's document.
func New() *Document {
	return &Document{doc: hdom.GetWindow().Document()}
}

func (d *Document) CreateElement(tag string) dom.Element {
	return wrapElement(d.doc.CreateElement(tag).Underlying())
}

func (d *Document) CreateDocumentFragment() dom.Fragment {
	return &Fragment{v: d.doc.Underlying().Call("createDocumentFragment")}
}

func (d *Document) GetElementByID(id string) dom.Element {
	return wrapElement(d.doc.Underlying().Call("getElementById", id))
}

func (d *Document) QuerySelector(selector string) dom.Element {
	return wrapElement(d.doc.Underlying().Call("querySelector", selector))
}

func (d *Document) QuerySelectorAll(selector string) []dom.Element {
	return wrapElements(d.doc.QuerySelectorAll(selector))
}

func (d *Document) AddEventListener(typ string, fn func(dom.Event)) dom.Listener {
	f := d.doc.AddEventListener(typ, false, func(ev hdom.Event) {
		fn(&Event{ev: ev})
	})
	return &Listener{fn: f}
}

func (d *Document) RemoveEventListener(typ string, l dom.Listener) {
	if jl, ok := l.(*Listener); ok {
		d.doc.RemoveEventListener(typ, false, jl.fn)
	}
}

func (d *Document) ReadyState() string {
	return d.doc.Underlying().Get("readyState").String()
}

// Element wraps a browser element.
type Element struct {
	v  js.Value
	el hdom.Element
}

func wrapElement(v js.Value) dom.Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Element{v: v, el: hdom.WrapElement(v)}
}

func wrapElements(els []hdom.Element) []dom.Element {
	out := make([]dom.Element, 0, len(els))
	for _, el := range els {
		if e := wrapElement(el.Underlying()); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// wrapNode wraps element nodes as Element and text or comment nodes as
// plainNode.
func wrapNode(v js.Value) dom.Node {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	if v.Get("nodeType").Int() == 1 {
		return wrapElement(v)
	}
	return &plainNode{v: v}
}

func valueOf(n dom.Node) (js.Value, bool) {
	switch x := n.(type) {
	case *Element:
		return x.v, true
	case *Fragment:
		return x.v, true
	case *plainNode:
		return x.v, true
	}
	return js.Undefined(), false
}

// Underlying returns the wrapped js.Value.
func (e *Element) Underlying() js.Value {
	return e.v
}

func (e *Element) AppendChild(child dom.Node) {
	appendChild(e.v, child)
}

func (e *Element) RemoveChild(child dom.Node) {
	removeChild(e.v, child)
}

func (e *Element) LastChild() dom.Node {
	return wrapNode(e.v.Get("lastChild"))
}

func (e *Element) ChildNodes() []dom.Node {
	return childNodes(e.v)
}

func (e *Element) TagName() string {
	return e.el.TagName()
}

func (e *Element) TextContent() string {
	return e.el.TextContent()
}

func (e *Element) SetTextContent(text string) {
	e.el.SetTextContent(text)
}

func (e *Element) ClassName() string {
	return e.v.Get("className").String()
}

func (e *Element) SetClassName(class string) {
	e.v.Set("className", class)
}

func (e *Element) HasClass(class string) bool {
	return e.el.Class().Contains(class)
}

func (e *Element) ToggleClass(class string) bool {
	e.el.Class().Toggle(class)
	return e.el.Class().Contains(class)
}

func (e *Element) GetAttribute(name string) string {
	return e.el.GetAttribute(name)
}

func (e *Element) SetAttribute(name, value string) {
	e.el.SetAttribute(name, value)
}

func (e *Element) Value() string {
	v := e.v.Get("value")
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

func (e *Element) SetValue(value string) {
	e.v.Set("value", value)
}

func (e *Element) QuerySelector(selector string) dom.Element {
	return wrapElement(e.v.Call("querySelector", selector))
}

func (e *Element) QuerySelectorAll(selector string) []dom.Element {
	return wrapElements(e.el.QuerySelectorAll(selector))
}

func (e *Element) AddEventListener(typ string, fn func(dom.Event)) dom.Listener {
	f := e.el.AddEventListener(typ, false, func(ev hdom.Event) {
		fn(&Event{ev: ev})
	})
	return &Listener{fn: f}
}

func (e *Element) RemoveEventListener(typ string, l dom.Listener) {
	if jl, ok := l.(*Listener); ok {
		e.el.RemoveEventListener(typ, false, jl.fn)
	}
}

func (e *Element) Property(name string) any {
	v := e.v.Get(name)
	switch v.Type() {
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeString:
		return v.String()
	case js.TypeNumber:
		return v.Float()
	case js.TypeUndefined, js.TypeNull:
		return nil
	}
	return v
}

func (e *Element) SetProperty(name string, value any) {
	e.v.Set(name, value)
}

// Fragment wraps a DocumentFragment.
type Fragment struct {
	v js.Value
}

func (f *Fragment) AppendChild(child dom.Node) {
	appendChild(f.v, child)
}

func (f *Fragment) RemoveChild(child dom.Node) {
	removeChild(f.v, child)
}

func (f *Fragment) LastChild() dom.Node {
	return wrapNode(f.v.Get("lastChild"))
}

func (f *Fragment) ChildNodes() []dom.Node {
	return childNodes(f.v)
}

// plainNode is a text or comment node.
type plainNode struct {
	v js.Value
}

func (n *plainNode) AppendChild(dom.Node)   {}
func (n *plainNode) RemoveChild(dom.Node)   {}
func (n *plainNode) LastChild() dom.Node    { return nil }
func (n *plainNode) ChildNodes() []dom.Node { return nil }

func appendChild(parent js.Value, child dom.Node) {
	if v, ok := valueOf(child); ok {
		parent.Call("appendChild", v)
	}
}

func removeChild(parent js.Value, child dom.Node) {
	v, ok := valueOf(child)
	if !ok || !v.Get("parentNode").Equal(parent) {
		return
	}
	parent.Call("removeChild", v)
}

func childNodes(v js.Value) []dom.Node {
	list := v.Get("childNodes")
	n := list.Length()
	out := make([]dom.Node, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, wrapNode(list.Index(i)))
	}
	return out
}

// Event wraps a browser event.
type Event struct {
	ev hdom.Event
}

func (ev *Event) Type() string {
	return ev.ev.Type()
}

func (ev *Event) Target() dom.Element {
	return wrapElement(ev.ev.Underlying().Get("target"))
}

// Listener holds the js.Func registered with addEventListener.
type Listener struct {
	fn js.Func
}

func (l *Listener) Release() {
	l.fn.Release()
}
