// Package events provides the typed emitter Views use for their change and
// lifecycle notifications.
package events

import (
	"strings"
	"sync"
)

const changePrefix = "change "

// Event names a channel on an Emitter.
type Event string

// Destroyed fires once when a View is torn down.
const Destroyed Event = "destroyed"

// Change returns the event fired by an explicit write to prop.
func Change(prop string) Event {
	return Event(changePrefix + prop)
}

// Prop reports the property of a change event.
func (e Event) Prop() (string, bool) {
	if !strings.HasPrefix(string(e), changePrefix) {
		return "", false
	}
	return strings.TrimPrefix(string(e), changePrefix), true
}

// Listener receives the payload passed to Emit.
type Listener func(payload any)

// Handle identifies a registered listener.
type Handle struct {
	event Event
	id    uint64
}

// Event returns the event the handle listens to.
func (h Handle) Event() Event {
	return h.event
}

type entry struct {
	id uint64
	fn Listener
}

// Emitter fans events out to listeners in registration order.
type Emitter struct {
	mu        sync.Mutex
	next      uint64
	listeners map[Event][]entry
}

// NewEmitter returns an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[Event][]entry)}
}

// On registers fn for evt.
func (e *Emitter) On(evt Event, fn Listener) Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.listeners[evt] = append(e.listeners[evt], entry{id: e.next, fn: fn})
	return Handle{event: evt, id: e.next}
}

// Once registers fn for a single delivery of evt.
func (e *Emitter) Once(evt Event, fn Listener) Handle {
	var h Handle
	h = e.On(evt, func(payload any) {
		e.Off(h)
		fn(payload)
	})
	return h
}

// Off removes a listener. Unknown handles are ignored.
func (e *Emitter) Off(h Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := e.listeners[h.event]
	for i, candidate := range entries {
		if candidate.id == h.id {
			entries = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(e.listeners, h.event)
		return
	}
	e.listeners[h.event] = entries
}

// OffAll removes every listener.
func (e *Emitter) OffAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = make(map[Event][]entry)
}

// Emit calls the listeners of evt synchronously. Listeners added or removed
// during delivery take effect from the next Emit, so a removed listener may
// still receive the in-flight event.
func (e *Emitter) Emit(evt Event, payload any) {
	e.mu.Lock()
	entries := append([]entry(nil), e.listeners[evt]...)
	e.mu.Unlock()

	for _, candidate := range entries {
		if candidate.fn != nil {
			candidate.fn(payload)
		}
	}
}

// Count reports how many listeners evt has.
func (e *Emitter) Count(evt Event) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[evt])
}
