package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// ErrUnsupportedModel is returned by NewMap for models it cannot wrap.
var ErrUnsupportedModel = errors.New("adapter: unsupported model")

// Map adapts a map[string]any model. Every Map wrapping the same underlying
// map shares one observer hub, so a write through any of them reaches the
// observers registered through all of them.
//
// Map is not safe for concurrent writes to the model itself; only the
// observer bookkeeping is synchronised.
type Map struct {
	data map[string]any

	mu     sync.Mutex
	tokens map[Token]string
}

var _ Adapter = (*Map)(nil)

// NewMap is the default Factory. A nil model becomes a fresh empty map.
func NewMap(model any) (Adapter, error) {
	switch typed := model.(type) {
	case nil:
		return Wrap(nil), nil
	case map[string]any:
		return Wrap(typed), nil
	case *Map:
		return Wrap(typed.data), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedModel, model)
	}
}

// Wrap returns a Map over data, allocating a new map when data is nil.
func Wrap(data map[string]any) *Map {
	if data == nil {
		data = make(map[string]any)
	}
	return &Map{
		data:   data,
		tokens: make(map[Token]string),
	}
}

// Data exposes the wrapped map.
func (m *Map) Data() map[string]any {
	return m.data
}

// Get resolves a dotted path. Intermediate values may be string-keyed maps,
// slices (integer segments), or structs (exported field names).
func (m *Map) Get(path string) (any, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, false
	}
	var current any = m.data
	for _, segment := range segments {
		next, ok := step(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Set writes value at path, creating missing intermediate maps, then notifies
// the observers of path synchronously.
func (m *Map) Set(path string, value any) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return errors.New("adapter: path is required")
	}

	current := m.data
	for i, segment := range segments[:len(segments)-1] {
		next, exists := current[segment]
		if !exists || next == nil {
			created := make(map[string]any)
			current[segment] = created
			current = created
			continue
		}
		nested, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("adapter: set %q: %q is %T, not a map", path, strings.Join(segments[:i+1], "."), next)
		}
		current = nested
	}
	current[segments[len(segments)-1]] = value

	hubFor(m.data).notify(path, value)
	return nil
}

// Subscribe registers fn for writes to path through any Map over the same model.
func (m *Map) Subscribe(path string, fn Observer) Token {
	if fn == nil {
		return 0
	}
	token := hubFor(m.data).add(path, fn)

	m.mu.Lock()
	m.tokens[token] = path
	m.mu.Unlock()
	return token
}

// Unsubscribe removes a subscription created through this adapter. Tokens
// owned by other adapters are ignored.
func (m *Map) Unsubscribe(path string, token Token) {
	m.mu.Lock()
	owned, ok := m.tokens[token]
	if ok && owned == path {
		delete(m.tokens, token)
	}
	m.mu.Unlock()
	if !ok || owned != path {
		return
	}
	hubFor(m.data).remove(path, token)
}

// UnsubscribeAll removes every subscription created through this adapter.
func (m *Map) UnsubscribeAll() {
	m.mu.Lock()
	owned := m.tokens
	m.tokens = make(map[Token]string)
	m.mu.Unlock()

	h := hubFor(m.data)
	for token, path := range owned {
		h.remove(path, token)
	}
}

func splitPath(path string) []string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, ".")
	for _, part := range parts {
		if part == "" {
			return nil
		}
	}
	return parts
}

func step(current any, segment string) (any, bool) {
	switch typed := current.(type) {
	case map[string]any:
		next, ok := typed[segment]
		return next, ok
	case map[string]string:
		next, ok := typed[segment]
		return next, ok
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(typed) {
			return nil, false
		}
		return typed[idx], true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		value := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !value.IsValid() {
			return nil, false
		}
		return value.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	case reflect.Struct:
		field, ok := rv.Type().FieldByName(segment)
		if !ok || !field.IsExported() {
			return nil, false
		}
		return rv.FieldByIndex(field.Index).Interface(), true
	default:
		return nil, false
	}
}
