package memdom

import (
	"slices"
	"sync/atomic"

	"github.com/vcrobe/postview/dom"
)

// listener is the memdom dom.Listener. Identity is the pointer.
type listener struct {
	typ      string
	fn       func(dom.Event)
	released atomic.Bool
}

func (l *listener) Release() {
	l.released.Store(true)
}

// listenerSet holds the handlers registered on one target, in registration
// order. The owning document's lock must be held.
type listenerSet struct {
	byType map[string][]*listener
}

func (s *listenerSet) add(typ string, fn func(dom.Event)) dom.Listener {
	if s.byType == nil {
		s.byType = make(map[string][]*listener)
	}
	l := &listener{typ: typ, fn: fn}
	s.byType[typ] = append(s.byType[typ], l)
	return l
}

func (s *listenerSet) remove(typ string, l dom.Listener) {
	target, ok := l.(*listener)
	if !ok || s.byType == nil {
		return
	}
	s.byType[typ] = slices.DeleteFunc(s.byType[typ], func(x *listener) bool {
		return x == target
	})
}

func (s *listenerSet) count(typ string) int {
	return len(s.byType[typ])
}

// snapshot returns the handlers for typ as they are now. Handlers added or
// removed later do not affect a dispatch already under way.
func (s *listenerSet) snapshot(typ string) []*listener {
	return slices.Clone(s.byType[typ])
}

// fire calls the handlers in order. It runs without the document lock so
// handlers can use the document.
func fire(handlers []*listener, ev dom.Event) {
	for _, l := range handlers {
		if l.released.Load() {
			continue
		}
		l.fn(ev)
	}
}
