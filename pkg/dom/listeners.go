package dom

import (
	"fmt"
	"sync"

	"golang.org/x/net/html"
)

// Event is a DOM-originated event travelling from Target up to the root.
type Event struct {
	Type          string
	Value         string
	Target        *html.Node
	CurrentTarget *html.Node

	stopped bool
}

// StopPropagation keeps the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles an event delivered to the node it was added on.
type Listener func(ev *Event) error

// ListenerHandle identifies a listener registration.
type ListenerHandle struct {
	node *html.Node
	id   uint64
}

type listenerEntry struct {
	id    uint64
	event string
	fn    Listener
}

// Listeners is a table of per-node event listeners. A View and its subviews
// share one table so an event dispatched through any of them reaches every
// listener on the path to the root.
type Listeners struct {
	mu     sync.Mutex
	next   uint64
	byNode map[*html.Node][]listenerEntry
}

// NewListeners returns an empty table.
func NewListeners() *Listeners {
	return &Listeners{byNode: make(map[*html.Node][]listenerEntry)}
}

// Add registers fn for events of the given type on n.
func (l *Listeners) Add(n *html.Node, event string, fn Listener) ListenerHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.byNode[n] = append(l.byNode[n], listenerEntry{id: l.next, event: event, fn: fn})
	return ListenerHandle{node: n, id: l.next}
}

// Remove drops a registration. Unknown handles are ignored.
func (l *Listeners) Remove(h ListenerHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.byNode[h.node]
	for i, entry := range entries {
		if entry.id == h.id {
			entries = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(l.byNode, h.node)
		return
	}
	l.byNode[h.node] = entries
}

// Len reports the number of live registrations.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, entries := range l.byNode {
		total += len(entries)
	}
	return total
}

// Dispatch delivers an event to target and then to each ancestor, stopping
// at the first listener error or when a listener stops propagation. It
// returns the number of listeners invoked.
func (l *Listeners) Dispatch(target *html.Node, event, value string) (int, error) {
	if target == nil {
		return 0, fmt.Errorf("dom: dispatch %q: target is nil", event)
	}
	ev := &Event{Type: event, Value: value, Target: target}
	invoked := 0
	for cur := target; cur != nil; cur = cur.Parent {
		ev.CurrentTarget = cur
		for _, entry := range l.matching(cur, event) {
			invoked++
			if err := entry.fn(ev); err != nil {
				return invoked, fmt.Errorf("dom: %s listener: %w", event, err)
			}
		}
		if ev.stopped {
			break
		}
	}
	return invoked, nil
}

func (l *Listeners) matching(n *html.Node, event string) []listenerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []listenerEntry
	for _, entry := range l.byNode[n] {
		if entry.event == event && entry.fn != nil {
			out = append(out, entry)
		}
	}
	return out
}
