package directives

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/expr"
	"github.com/goliatone/go-bindview/pkg/interpolate"
	"github.com/goliatone/go-bindview/pkg/view"
)

// ValueHandler binds a form field value both ways: the property drives the
// value attribute (the text of a textarea), and input or change events
// write the event value back with Set.
func ValueHandler(b *view.Binding) error {
	v := b.View()
	el := b.Element()
	prop := b.Value()

	err := watchProp(b, func(value any) error {
		text := interpolate.Format(value)
		if el.Data == "textarea" {
			dom.SetText(el, text)
			return nil
		}
		dom.SetAttr(el, "value", text)
		return nil
	})
	if err != nil {
		return err
	}

	writeBack := func(ev *dom.Event) error {
		return v.Set(prop, ev.Value)
	}
	v.Listen(el, "input", writeBack)
	v.Listen(el, "change", writeBack)
	return nil
}

// CheckedHandler binds the checked attribute both ways. Change events carry
// "true" or "false".
func CheckedHandler(b *view.Binding) error {
	v := b.View()
	el := b.Element()
	prop := b.Value()

	err := watchProp(b, func(value any) error {
		dom.ToggleAttr(el, "checked", expr.Truthy(value))
		return nil
	})
	if err != nil {
		return err
	}

	v.Listen(el, "change", func(ev *dom.Event) error {
		checked, err := strconv.ParseBool(ev.Value)
		if err != nil {
			return fmt.Errorf("checked: %q: %w", ev.Value, err)
		}
		return v.Set(prop, checked)
	})
	return nil
}
