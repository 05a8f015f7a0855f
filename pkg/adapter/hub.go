package adapter

import (
	"reflect"
	"sync"
)

type observerEntry struct {
	token Token
	fn    Observer
}

// hub holds the observers of one underlying model map.
type hub struct {
	key uintptr

	mu        sync.Mutex
	observers map[string][]observerEntry
}

// hubs is keyed by map identity. Empty hubs are dropped; a map with no live
// observers has nothing worth sharing, and a non-empty hub keeps its map
// reachable through the adapters that registered the observers.
var hubs = struct {
	sync.Mutex
	next    Token
	byModel map[uintptr]*hub
}{byModel: make(map[uintptr]*hub)}

func hubFor(data map[string]any) *hub {
	key := reflect.ValueOf(data).Pointer()

	hubs.Lock()
	defer hubs.Unlock()

	h, ok := hubs.byModel[key]
	if !ok {
		h = &hub{key: key, observers: make(map[string][]observerEntry)}
		hubs.byModel[key] = h
	}
	return h
}

func nextToken() Token {
	hubs.Lock()
	defer hubs.Unlock()
	hubs.next++
	return hubs.next
}

func (h *hub) add(path string, fn Observer) Token {
	token := nextToken()
	h.mu.Lock()
	h.observers[path] = append(h.observers[path], observerEntry{token: token, fn: fn})
	h.mu.Unlock()
	return token
}

func (h *hub) remove(path string, token Token) {
	h.mu.Lock()
	entries := h.observers[path]
	for i, entry := range entries {
		if entry.token == token {
			entries = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(h.observers, path)
	} else {
		h.observers[path] = entries
	}
	empty := len(h.observers) == 0
	h.mu.Unlock()

	if empty {
		h.release()
	}
}

func (h *hub) release() {
	hubs.Lock()
	defer hubs.Unlock()

	h.mu.Lock()
	empty := len(h.observers) == 0
	h.mu.Unlock()
	if empty && hubs.byModel[h.key] == h {
		delete(hubs.byModel, h.key)
	}
}

// notify calls a snapshot of the observers so observers may subscribe or
// unsubscribe while being notified.
func (h *hub) notify(path string, value any) {
	h.mu.Lock()
	entries := append([]observerEntry(nil), h.observers[path]...)
	h.mu.Unlock()

	for _, entry := range entries {
		entry.fn(value)
	}
}
