// Package gesture turns raw pointer and drag input into schedule mutations.
package gesture

import "sync"

// PointerKind is a document-level pointer event type.
type PointerKind string

const (
	PointerMove PointerKind = "pointermove"
	PointerUp   PointerKind = "pointerup"
)

// PointerEvent is the part of a pointer event the engine reads.
type PointerEvent struct {
	ClientY float64
}

// Handler reacts to one pointer event.
type Handler func(PointerEvent)

// ListenerID identifies an installed handler.
type ListenerID uint64

type listener struct {
	id   ListenerID
	kind PointerKind
	fn   Handler
}

// Listeners is a document-level handler registry. Gestures install handlers
// when they start and remove them when they end; Len reports zero between
// gestures.
type Listeners struct {
	mu      sync.Mutex
	next    ListenerID
	entries []listener
}

// Add installs a handler and returns its id.
func (l *Listeners) Add(kind PointerKind, fn Handler) ListenerID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.entries = append(l.entries, listener{id: l.next, kind: kind, fn: fn})
	return l.next
}

// Remove uninstalls a handler. Unknown ids are ignored.
func (l *Listeners) Remove(id ListenerID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

// Dispatch calls every handler of the given kind in installation order.
// Handlers may add or remove listeners; changes take effect on the next dispatch.
func (l *Listeners) Dispatch(kind PointerKind, ev PointerEvent) int {
	l.mu.Lock()
	var fns []Handler
	for _, e := range l.entries {
		if e.kind == kind {
			fns = append(fns, e.fn)
		}
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
	return len(fns)
}

// Len returns the number of installed handlers.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
