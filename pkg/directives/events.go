package directives

import (
	"fmt"

	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/view"
)

// EventFunc is a delegate entry usable as a DOM event handler.
type EventFunc func(ev *dom.Event) error

// On returns a handler that calls the delegate method named by the
// attribute value whenever event reaches the element. The method must exist
// when the element is bound.
func On(event string) view.Handler {
	return func(b *view.Binding) error {
		v := b.View()
		method := b.Value()

		fn, err := eventFunc(v.Delegate(), method)
		if err != nil {
			return fmt.Errorf("on-%s: %w", event, err)
		}
		v.Listen(b.Element(), event, dom.Listener(fn))
		return nil
	}
}

func eventFunc(delegate view.Delegate, method string) (EventFunc, error) {
	entry, ok := delegate[method]
	if !ok || entry == nil {
		known := make([]string, 0, len(delegate))
		for key := range delegate {
			known = append(known, key)
		}
		if hint := view.Suggest(method, known); hint != "" {
			return nil, fmt.Errorf("delegate has no method %q (did you mean %q?)", method, hint)
		}
		return nil, fmt.Errorf("delegate has no method %q", method)
	}
	switch fn := entry.(type) {
	case EventFunc:
		return fn, nil
	case func(*dom.Event) error:
		return fn, nil
	case dom.Listener:
		return EventFunc(fn), nil
	case func(*dom.Event):
		return func(ev *dom.Event) error {
			fn(ev)
			return nil
		}, nil
	case func() error:
		return func(*dom.Event) error { return fn() }, nil
	default:
		return nil, fmt.Errorf("delegate method %q has unsupported type %T", method, entry)
	}
}
