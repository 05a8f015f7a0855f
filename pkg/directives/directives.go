// Package directives provides the built-in named bindings: iteration,
// conditionals, content, form fields and DOM event handlers.
//
// Defaults registers all of them on a view in a fixed order. The order
// matters on elements carrying several directives: each and if run before
// the others and take over the element's subtree. html and text run last so
// the attribute directives on the same element still apply.
package directives

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-bindview/pkg/expr"
	"github.com/goliatone/go-bindview/pkg/view"
)

// Names of the built-in directives, in registration order.
const (
	Each     = "each"
	If       = "if"
	Unless   = "unless"
	HTML     = "html"
	Text     = "text"
	Show     = "show"
	Hide     = "hide"
	Value    = "bind-value"
	Checked  = "bind-checked"
	OnClick  = "on-click"
	OnInput  = "on-input"
	OnChange = "on-change"
	OnSubmit = "on-submit"
)

// All returns the built-in directives in registration order.
func All() []view.Directive {
	return []view.Directive{
		{Name: Each, Handler: EachHandler},
		{Name: If, Handler: IfHandler},
		{Name: Unless, Handler: UnlessHandler},
		{Name: Show, Handler: ShowHandler},
		{Name: Hide, Handler: HideHandler},
		{Name: Value, Handler: ValueHandler},
		{Name: Checked, Handler: CheckedHandler},
		{Name: OnClick, Handler: On("click")},
		{Name: OnInput, Handler: On("input")},
		{Name: OnChange, Handler: On("change")},
		{Name: OnSubmit, Handler: On("submit")},
		{Name: HTML, Handler: HTMLHandler},
		{Name: Text, Handler: TextHandler},
	}
}

// Defaults is a view.Plugin registering every built-in directive.
func Defaults(v *view.View) error {
	return v.BindAll(All()...)
}

// Register adds the built-in directives to a registry directly, for
// registries shared by several root views.
func Register(r *view.Registry) error {
	for _, d := range All() {
		if err := r.Register(d.Name, d.Handler); err != nil {
			return err
		}
	}
	return nil
}

// watchExpr compiles source, runs apply with its current value and
// re-runs it whenever an identifier in the expression changes.
func watchExpr(b *view.Binding, apply func(holds bool) error) error {
	v := b.View()
	condition, err := expr.Compile(b.Value())
	if err != nil {
		return fmt.Errorf("%s: %w", b.Name(), err)
	}
	if err := apply(condition.Eval(v.Get)); err != nil {
		return err
	}
	for _, ident := range condition.Identifiers() {
		v.Sub(ident, func(any) {
			if err := apply(condition.Eval(v.Get)); err != nil {
				logUpdateError(b, err)
			}
		})
	}
	return nil
}

// watchProp runs apply with the current value of the bound property and
// again on every change of it.
func watchProp(b *view.Binding, apply func(value any) error) error {
	v := b.View()
	prop := b.Value()
	if prop == "" {
		return fmt.Errorf("%s: property is required", b.Name())
	}
	if err := apply(v.Get(prop)); err != nil {
		return err
	}
	v.Sub(prop, func(any) {
		if err := apply(v.Get(prop)); err != nil {
			logUpdateError(b, err)
		}
	})
	return nil
}

func logUpdateError(b *view.Binding, err error) {
	b.View().Logger().Error("directive update failed",
		slog.String("directive", string(b.Name())),
		slog.String("value", b.Value()),
		slog.Any("error", err),
	)
}
