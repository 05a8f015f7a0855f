package view

import "errors"

var (
	// ErrBound reports a binding registration after the view rendered.
	ErrBound = errors.New("view: bindings cannot be registered after render")
	// ErrRendered reports a second Render on the same view.
	ErrRendered = errors.New("view: already rendered")
	// ErrDestroyed reports use of a destroyed view.
	ErrDestroyed = errors.New("view: destroyed")
	// ErrNotRendered reports an operation that needs a rendered root.
	ErrNotRendered = errors.New("view: not rendered")
	// ErrInvalidName reports a binding name that is not a valid attribute name.
	ErrInvalidName = errors.New("view: invalid binding name")
)
