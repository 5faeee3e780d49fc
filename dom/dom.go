// Package dom defines the slice of the browser DOM the post view works against.
//
// The interfaces carry no build tags so the same view code runs in the browser
// (package jsdom, js/wasm only) and natively against an in-memory document
// (package memdom) in tests and the headless renderer.
//
// Lookups that find nothing return a nil interface value, never a typed nil.
package dom

// Event names used by the view.
const (
	EventClick            = "click"
	EventChange           = "change"
	EventDOMContentLoaded = "DOMContentLoaded"
)

// Node is anything that can hold children: elements and fragments.
type Node interface {
	AppendChild(child Node)
	RemoveChild(child Node)
	// LastChild returns the last child node, or nil when there are no children.
	LastChild() Node
	ChildNodes() []Node
}

// Element is an HTML element attached to (or created by) a Document.
type Element interface {
	Node

	TagName() string
	TextContent() string
	SetTextContent(text string)

	ClassName() string
	SetClassName(class string)
	HasClass(class string) bool
	// ToggleClass adds class when absent and removes it when present.
	// It reports whether the class is present afterwards.
	ToggleClass(class string) bool

	GetAttribute(name string) string
	SetAttribute(name, value string)

	// Value is the form value of option and select elements.
	Value() string
	SetValue(value string)

	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element

	AddEventListener(typ string, fn func(Event)) Listener
	RemoveEventListener(typ string, l Listener)

	// Property and SetProperty read and write expando properties on the
	// underlying object (el.foo = v in JavaScript).
	Property(name string) any
	SetProperty(name string, value any)
}

// Fragment is a detached container. Appending a fragment to a node moves the
// fragment's children into that node and leaves the fragment empty.
type Fragment interface {
	Node
}

// Document is the page the view renders into.
type Document interface {
	CreateElement(tag string) Element
	CreateDocumentFragment() Fragment
	GetElementByID(id string) Element
	QuerySelector(selector string) Element
	QuerySelectorAll(selector string) []Element
	AddEventListener(typ string, fn func(Event)) Listener
	RemoveEventListener(typ string, l Listener)
	// ReadyState is "loading", "interactive" or "complete".
	ReadyState() string
}

// Event is a dispatched DOM event.
type Event interface {
	Type() string
	Target() Element
}

// Listener identifies a registered event handler so it can be removed.
type Listener interface {
	// Release frees host resources held by the handler. It is called once
	// the listener has been removed.
	Release()
}
