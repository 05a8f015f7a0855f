package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/templ"
	"golang.org/x/net/html"

	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/interpolate"
)

// Render binds root to the model in one pre-order walk. Handler faults abort
// the walk and are returned; bindings installed before the fault stay in
// place.
func (v *View) Render(root *html.Node) error {
	if v.destroyed {
		return fmt.Errorf("%w: render", ErrDestroyed)
	}
	if v.root != nil {
		return ErrRendered
	}
	if root == nil {
		return errors.New("view: render: root is nil")
	}

	v.root = root
	if v.parent != nil {
		v.parent.children = append(v.parent.children, v)
	}

	if err := dom.Walk(root, v.visit); err != nil {
		return fmt.Errorf("view: render: %w", err)
	}
	v.log.Debug("view rendered",
		slog.String("root", root.Data),
		slog.Int("bindings", v.registry.Len()),
	)
	return nil
}

// RenderHTML parses markup, which must hold a single root element, and
// renders it.
func (v *View) RenderHTML(markup string) (*html.Node, error) {
	root, err := dom.ParseRoot(markup)
	if err != nil {
		return nil, fmt.Errorf("view: render html: %w", err)
	}
	if err := v.Render(root); err != nil {
		return nil, err
	}
	return root, nil
}

// RenderComponent renders a templ component and binds its output.
func (v *View) RenderComponent(ctx context.Context, component templ.Component) (*html.Node, error) {
	if component == nil {
		return nil, errors.New("view: render component: component is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("view: render component: %w", err)
	}
	return v.RenderHTML(buf.String())
}

// HTML serialises the rendered tree.
func (v *View) HTML() (string, error) {
	if v.root == nil {
		return "", ErrNotRendered
	}
	return dom.Render(v.root)
}

func (v *View) visit(n *html.Node) (bool, error) {
	switch n.Type {
	case html.ElementNode:
		return v.bindElement(n)
	case html.TextNode:
		// a binding earlier in the walk may have detached this node
		if !dom.InTree(v.root, n) || !interpolate.Has(n.Data) {
			return false, nil
		}
		if _, err := newTextBinding(v, n); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (v *View) bindElement(el *html.Node) (bool, error) {
	attrs := dom.Attrs(el)

	skip := false
	for _, entry := range v.registry.snapshot() {
		if skip {
			break
		}
		value, ok := attrs[string(entry.name)]
		if !ok {
			continue
		}
		b := newBinding(v, el, entry.name, value, entry.handler)
		if err := b.Bind(); err != nil {
			return false, fmt.Errorf("binding %q: %w", entry.name, err)
		}
		skip = b.Skip
	}
	if skip {
		return true, nil
	}

	for _, attr := range append([]html.Attribute(nil), el.Attr...) {
		if !interpolate.Has(attr.Val) {
			continue
		}
		if _, err := newAttrBinding(v, el, attr.Key); err != nil {
			return false, err
		}
	}
	return false, nil
}
