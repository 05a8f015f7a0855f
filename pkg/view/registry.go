package view

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var namePattern = regexp.MustCompile(`^[a-z_:][a-z0-9_:.\-]*$`)

// Name is a validated binding name: the lower-cased attribute name that
// activates the binding.
type Name string

// ParseName trims, lower-cases and validates raw.
func ParseName(raw string) (Name, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if !namePattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return Name(normalized), nil
}

// Handler activates a named binding on one element. Setting b.Skip keeps the
// render walk out of the element's subtree. A returned error aborts Render.
type Handler func(b *Binding) error

type registration struct {
	name    Name
	handler Handler
}

// Registry is the ordered table of named bindings. Order decides which
// binding runs first on an element carrying several of them, and so which
// one can skip the rest. Views created through Subview share the parent's
// registry, so later registrations are visible to both.
type Registry struct {
	mu      sync.RWMutex
	entries []registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a binding. Registering an existing name replaces its
// handler and keeps its position.
func (r *Registry) Register(name string, handler Handler) error {
	key, err := ParseName(name)
	if err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("view: binding %q: handler is required", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].name == key {
			r.entries[i].handler = handler
			return nil
		}
	}
	r.entries = append(r.entries, registration{name: key, handler: handler})
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(name string, handler Handler) {
	if err := r.Register(name, handler); err != nil {
		panic(err)
	}
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	key, err := ParseName(name)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.entries {
		if entry.name == key {
			return entry.handler, true
		}
	}
	return nil, false
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names lists the registered names in evaluation order.
func (r *Registry) Names() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Name, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.name)
	}
	return out
}

// Len reports the number of registered bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reorder moves the named bindings to the front, in the given order. The
// remaining bindings keep their relative order after them. Unknown or
// repeated names are an error and leave the registry untouched.
func (r *Registry) Reorder(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := make(map[Name]int, len(r.entries))
	for i, entry := range r.entries {
		index[entry.name] = i
	}

	picked := make(map[Name]struct{}, len(names))
	front := make([]registration, 0, len(names))
	for _, raw := range names {
		key, err := ParseName(raw)
		if err != nil {
			return err
		}
		i, ok := index[key]
		if !ok {
			known := make([]string, 0, len(r.entries))
			for _, entry := range r.entries {
				known = append(known, string(entry.name))
			}
			return fmt.Errorf("view: reorder: binding %q not registered%s", key, didYouMean(string(key), known))
		}
		if _, dup := picked[key]; dup {
			return fmt.Errorf("view: reorder: binding %q listed twice", key)
		}
		picked[key] = struct{}{}
		front = append(front, r.entries[i])
	}

	ordered := front
	for _, entry := range r.entries {
		if _, ok := picked[entry.name]; !ok {
			ordered = append(ordered, entry)
		}
	}
	r.entries = ordered
	return nil
}

func (r *Registry) snapshot() []registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]registration(nil), r.entries...)
}
