package view

import (
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/interpolate"
)

// AttrBinding keeps one attribute value in sync with the markers in its
// original text.
type AttrBinding struct {
	view     *View
	element  *html.Node
	key      string
	template *interpolate.Template
}

func newAttrBinding(v *View, el *html.Node, key string) (*AttrBinding, error) {
	raw, _ := dom.Attr(el, key)
	tpl, err := interpolate.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", key, err)
	}
	b := &AttrBinding{view: v, element: el, key: key, template: tpl}
	if err := b.Update(); err != nil {
		return nil, fmt.Errorf("attribute %q: %w", key, err)
	}
	for _, path := range tpl.Keypaths() {
		v.Sub(path, func(any) { b.refresh() })
	}
	return b, nil
}

// Update re-evaluates the template and writes the attribute.
func (b *AttrBinding) Update() error {
	out, err := b.template.Execute(b.view.Get, b.view.engine)
	if err != nil {
		return err
	}
	dom.SetAttr(b.element, b.key, out)
	return nil
}

func (b *AttrBinding) refresh() {
	if err := b.Update(); err != nil {
		b.view.log.Error("attribute binding update failed",
			slog.String("attr", b.key),
			slog.String("template", b.template.Raw()),
			slog.Any("error", err),
		)
	}
}

// TextBinding keeps a text node in sync with the markers in its original
// content.
type TextBinding struct {
	view     *View
	node     *html.Node
	template *interpolate.Template
}

func newTextBinding(v *View, n *html.Node) (*TextBinding, error) {
	tpl, err := interpolate.Parse(n.Data)
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	b := &TextBinding{view: v, node: n, template: tpl}
	if err := b.Update(); err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	for _, path := range tpl.Keypaths() {
		v.Sub(path, func(any) { b.refresh() })
	}
	return b, nil
}

// Update re-evaluates the template and replaces the node text.
func (b *TextBinding) Update() error {
	out, err := b.template.Execute(b.view.Get, b.view.engine)
	if err != nil {
		return err
	}
	b.node.Data = out
	return nil
}

func (b *TextBinding) refresh() {
	if err := b.Update(); err != nil {
		b.view.log.Error("text binding update failed",
			slog.String("template", b.template.Raw()),
			slog.Any("error", err),
		)
	}
}
