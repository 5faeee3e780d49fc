package view

import (
	"strconv"

	"github.com/vcrobe/postview/console"
	"github.com/vcrobe/postview/dom"
)

// binding is the click handler attached to one toggle button.
type binding struct {
	button   dom.Element
	listener dom.Listener
}

// Listeners attaches and detaches the toggle click handlers of the buttons in
// <main>. Handlers are keyed by post id so Detach removes exactly what Attach
// added, and a button never carries more than one handler.
type Listeners struct {
	view     *View
	bindings map[int]binding
}

// NewListeners returns a listener manager for v's buttons.
func NewListeners(v *View) *Listeners {
	return &Listeners{view: v, bindings: make(map[int]binding)}
}

// Attach binds a click handler to every button in <main> and returns the buttons.
func (l *Listeners) Attach() []dom.Element {
	buttons := l.view.doc.QuerySelectorAll(ButtonsSelector)
	seen := make(map[int]bool, len(buttons))
	for _, button := range buttons {
		postID, ok := postIDOf(button)
		if !ok {
			continue
		}
		// One handler per post id: a later button with the same id takes it over.
		if seen[postID] {
			console.Warn("view: duplicate", AttrPostID, postID, "only the last button keeps its handler")
		}
		seen[postID] = true
		l.unbind(postID)
		listener := button.AddEventListener(dom.EventClick, func(event dom.Event) {
			l.view.OnToggleClick(event, postID)
		})
		l.bindings[postID] = binding{button: button, listener: listener}
	}
	return buttons
}

// Detach removes the handler of every button in <main> and returns the buttons.
func (l *Listeners) Detach() []dom.Element {
	buttons := l.view.doc.QuerySelectorAll(ButtonsSelector)
	for _, button := range buttons {
		if postID, ok := postIDOf(button); ok {
			l.unbind(postID)
		}
	}
	// Buttons that left <main> by other means still hold their handler.
	for postID := range l.bindings {
		l.unbind(postID)
	}
	return buttons
}

// Bound returns the number of buttons currently carrying a handler.
func (l *Listeners) Bound() int {
	return len(l.bindings)
}

func (l *Listeners) unbind(postID int) {
	b, ok := l.bindings[postID]
	if !ok {
		return
	}
	b.button.RemoveEventListener(dom.EventClick, b.listener)
	b.listener.Release()
	delete(l.bindings, postID)
}

func postIDOf(button dom.Element) (int, bool) {
	raw := button.GetAttribute(AttrPostID)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		console.Warn("view: ignoring button with bad", AttrPostID, raw)
		return 0, false
	}
	return id, true
}
