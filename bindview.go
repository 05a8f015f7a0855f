// Package bindview binds rendered HTML trees to mutable models.
//
// Most callers only need this package: NewWithDefaults builds a view with the
// built-in directives registered, and Render goes from markup and model to a
// bound tree in one call. The building blocks live under pkg/.
package bindview

import (
	"fmt"

	"github.com/goliatone/go-bindview/pkg/directives"
	"github.com/goliatone/go-bindview/pkg/view"
)

// View aliases view.View so callers can stay on the root package.
type View = view.View

// Option aliases view.Option.
type Option = view.Option

// Delegate aliases view.Delegate.
type Delegate = view.Delegate

// Binding aliases view.Binding, the receiver of named binding handlers.
type Binding = view.Binding

// Handler aliases view.Handler.
type Handler = view.Handler

// Pair aliases view.Pair for SetAll.
type Pair = view.Pair

// Re-exported options.
var (
	WithAdapter  = view.WithAdapter
	WithDelegate = view.WithDelegate
	WithRegistry = view.WithRegistry
	WithLogger   = view.WithLogger
	WithEngine   = view.WithEngine
)

// New returns a view with no bindings registered.
func New(model any, options ...Option) (*View, error) {
	return view.New(model, options...)
}

// NewWithDefaults returns a view with the built-in directives registered.
func NewWithDefaults(model any, options ...Option) (*View, error) {
	v, err := view.New(model, options...)
	if err != nil {
		return nil, err
	}
	if err := v.Use(directives.Defaults); err != nil {
		return nil, fmt.Errorf("bindview: register directives: %w", err)
	}
	return v, nil
}

// Render parses markup, binds it to model with the built-in directives and
// returns the rendered view.
func Render(markup string, model any, options ...Option) (*View, error) {
	v, err := NewWithDefaults(model, options...)
	if err != nil {
		return nil, err
	}
	if _, err := v.RenderHTML(markup); err != nil {
		return nil, err
	}
	return v, nil
}

// RenderString is Render followed by serialising the bound tree.
func RenderString(markup string, model any, options ...Option) (string, error) {
	v, err := Render(markup, model, options...)
	if err != nil {
		return "", err
	}
	return v.HTML()
}
