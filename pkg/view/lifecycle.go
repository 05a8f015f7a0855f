package view

import (
	"fmt"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/events"
)

// Destroy tears the view down: rendered subviews are destroyed first, the
// root is detached, every adapter observer and DOM listener this view
// installed is removed, and the destroyed event fires before the event
// listeners are dropped. A view that is not rendered returns ErrNotRendered.
func (v *View) Destroy() error {
	if v.root == nil {
		return ErrNotRendered
	}

	for _, child := range append([]*View(nil), v.children...) {
		if !child.Rendered() {
			continue
		}
		if err := child.Destroy(); err != nil {
			return fmt.Errorf("view: destroy subview %s: %w", child.id, err)
		}
	}
	v.children = nil

	dom.Detach(v.root)
	v.adapter.UnsubscribeAll()
	for _, h := range v.listenerHandles {
		v.listeners.Remove(h)
	}
	v.listenerHandles = nil

	v.emitter.Emit(events.Destroyed, v)
	v.emitter.OffAll()

	v.root = nil
	v.destroyed = true
	if v.parent != nil {
		v.parent.removeChild(v)
	}
	v.log.Debug("view destroyed")
	return nil
}

func (v *View) removeChild(child *View) {
	for i, c := range v.children {
		if c == child {
			v.children = append(v.children[:i:i], v.children[i+1:]...)
			return
		}
	}
}

// Children returns the rendered subviews created from this view.
func (v *View) Children() []*View {
	return append([]*View(nil), v.children...)
}

// Listen adds a DOM listener on el. It is removed when the view is destroyed.
func (v *View) Listen(el *html.Node, event string, fn dom.Listener) dom.ListenerHandle {
	h := v.listeners.Add(el, event, fn)
	v.listenerHandles = append(v.listenerHandles, h)
	return h
}

// Dispatch delivers a DOM event to target and bubbles it to the root. The
// listener table is shared with subviews, so listeners installed by any view
// on the path are reached.
func (v *View) Dispatch(target *html.Node, event, value string) error {
	if v.destroyed {
		return fmt.Errorf("%w: dispatch %q", ErrDestroyed, event)
	}
	n, err := v.listeners.Dispatch(target, event, value)
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}
	v.log.Debug("event dispatched", slog.String("event", event), slog.Int("listeners", n))
	return nil
}
