package view

import "golang.org/x/net/html"

// Binding is one activation of a named binding on one element during a
// render walk.
type Binding struct {
	// Skip keeps the walk out of the element's children and stops the
	// remaining named bindings on the element. Handlers that take over
	// their subtree (conditionals, iteration) set it.
	Skip bool

	view    *View
	element *html.Node
	name    Name
	value   string
	handler Handler
}

func newBinding(v *View, el *html.Node, name Name, value string, handler Handler) *Binding {
	return &Binding{
		view:    v,
		element: el,
		name:    name,
		value:   value,
		handler: handler,
	}
}

// View returns the view running the walk.
func (b *Binding) View() *View { return b.view }

// Element returns the element carrying the binding attribute.
func (b *Binding) Element() *html.Node { return b.element }

// Name returns the binding name.
func (b *Binding) Name() Name { return b.name }

// Value returns the attribute value, usually a keypath or condition.
func (b *Binding) Value() string { return b.value }

// Bind runs the handler.
func (b *Binding) Bind() error {
	return b.handler(b)
}
