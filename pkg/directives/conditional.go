package directives

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/view"
)

// IfHandler renders the element only while its condition holds.
func IfHandler(b *view.Binding) error {
	return conditional(b, false)
}

// UnlessHandler renders the element only while its condition does not hold.
func UnlessHandler(b *view.Binding) error {
	return conditional(b, true)
}

// conditional swaps the element for a placeholder comment. While the
// condition matches, a copy is rendered next to the placeholder by a
// subview over the same model; when it stops matching the subview is
// destroyed, which removes the copy.
func conditional(b *view.Binding, negate bool) error {
	b.Skip = true

	el := b.Element()
	template := dom.Clone(el)
	dom.RemoveAttr(template, string(b.Name()))

	placeholder := dom.Comment(" " + string(b.Name()) + ": " + b.Value() + " ")
	if err := dom.Replace(el, placeholder); err != nil {
		return fmt.Errorf("%s: %w", b.Name(), err)
	}

	c := &branch{
		view:        b.View(),
		name:        string(b.Name()),
		template:    template,
		placeholder: placeholder,
	}
	return watchExpr(b, func(holds bool) error {
		return c.toggle(holds != negate)
	})
}

type branch struct {
	view        *view.View
	name        string
	template    *html.Node
	placeholder *html.Node
	current     *view.View
}

func (c *branch) toggle(on bool) error {
	if !on {
		if c.current != nil && c.current.Rendered() {
			if err := c.current.Destroy(); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
		}
		c.current = nil
		return nil
	}
	if c.current != nil && c.current.Rendered() {
		return nil
	}

	sub, err := c.view.Subview(c.view.Model())
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	node := dom.Clone(c.template)
	if err := sub.Render(node); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	if c.placeholder.Parent != nil {
		if err := dom.InsertAfter(c.placeholder, node); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	c.current = sub
	return nil
}

// ShowHandler removes the hidden attribute while the condition holds.
func ShowHandler(b *view.Binding) error {
	el := b.Element()
	return watchExpr(b, func(holds bool) error {
		dom.ToggleAttr(el, "hidden", !holds)
		return nil
	})
}

// HideHandler sets the hidden attribute while the condition holds.
func HideHandler(b *view.Binding) error {
	el := b.Element()
	return watchExpr(b, func(holds bool) error {
		dom.ToggleAttr(el, "hidden", holds)
		return nil
	})
}
