package interpolate

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

// valueVar is the single context variable a filter chain runs against.
const valueVar = "value"

// Engine runs marker filter chains through pongo2. Compiled chains are
// cached per expression. Filters are registered process-wide, as pongo2 keeps
// a single filter table.
type Engine struct {
	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

// Option configures an Engine.
type Option func(*Engine) error

// WithFilter registers a custom filter when the engine is built.
func WithFilter(name string, fn func(input any, param any) (any, error)) Option {
	return func(e *Engine) error {
		return e.RegisterFilter(name, fn)
	}
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the shared engine used when callers pass none.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = &Engine{cache: make(map[string]*pongo2.Template)}
		registerDefaultFilters()
	})
	return defaultEngine
}

// NewEngine builds an engine and applies options in order.
func NewEngine(options ...Option) (*Engine, error) {
	engine := &Engine{cache: make(map[string]*pongo2.Template)}
	registerDefaultFilters()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(engine); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// Apply runs filters (a chain such as "upper|default:'n/a'") against value.
func (e *Engine) Apply(value any, filters string) (string, error) {
	filters = strings.TrimSpace(filters)
	if filters == "" {
		return Format(value), nil
	}
	tmpl, err := e.compile(valueVar + "|" + filters)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(pongo2.Context{valueVar: value})
	if err != nil {
		return "", fmt.Errorf("interpolate: apply %q: %w", filters, err)
	}
	return out, nil
}

// Eval renders an expression that does not start with a keypath, such as a
// quoted literal with filters.
func (e *Engine) Eval(expr string) (string, error) {
	tmpl, err := e.compile(expr)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(pongo2.Context{})
	if err != nil {
		return "", fmt.Errorf("interpolate: eval %q: %w", expr, err)
	}
	return out, nil
}

// RegisterFilter exposes a plain Go function as a pongo2 filter.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("interpolate: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("interpolate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// compile wraps expr so the output is marked safe; escaping happens once,
// when the element tree is serialised.
func (e *Engine) compile(expr string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[expr]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[expr]; ok {
		return tmpl, nil
	}
	tmpl, err := pongo2.FromString("{{ " + expr + "|safe }}")
	if err != nil {
		return nil, fmt.Errorf("interpolate: compile %q: %w", expr, err)
	}
	e.cache[expr] = tmpl
	return tmpl, nil
}

var defaultFilters sync.Once

func registerDefaultFilters() {
	defaultFilters.Do(func() {
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", filterTrim)
		}
		if !pongo2.FilterExists("lowerfirst") {
			_ = pongo2.RegisterFilter("lowerfirst", filterLowerFirst)
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	t := in.String()
	r, size := utf8.DecodeRuneInString(t)
	if r == utf8.RuneError {
		return pongo2.AsValue(t), nil
	}
	return pongo2.AsValue(strings.ToLower(string(r)) + t[size:]), nil
}
