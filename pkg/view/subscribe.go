package view

import (
	"strings"

	"github.com/goliatone/go-bindview/pkg/adapter"
	"github.com/goliatone/go-bindview/pkg/events"
)

// Subscription is the handle returned by Sub.
type Subscription struct {
	prop   string
	change events.Handle
	token  adapter.Token
	parent *Subscription
}

// Prop returns the subscribed property.
func (s *Subscription) Prop() string {
	return s.prop
}

// Sub calls fn whenever prop changes:
//   - on Set(prop), with the written value;
//   - when the adapter reports a write to prop that did not come from this
//     view's own Set, with the adapter's value;
//   - for a dotted prop, whenever its first segment changes, with Get(prop).
//
// Parent forwarding covers one level: a write to "a" reaches a subscriber of
// "a.b.c", a write to "a.b" does not.
func (v *View) Sub(prop string, fn func(value any)) *Subscription {
	s := &Subscription{prop: prop}

	if head, _, nested := strings.Cut(prop, "."); nested && head != "" {
		s.parent = v.Sub(head, func(any) {
			fn(v.Get(prop))
		})
	}

	s.change = v.emitter.On(events.Change(prop), func(payload any) {
		fn(payload)
	})
	s.token = v.adapter.Subscribe(prop, func(value any) {
		if v.inFlight(prop) {
			return
		}
		fn(value)
	})
	return s
}

// Unsub removes the change listener and adapter observer installed for s.
// The parent-forwarding subscription of a dotted prop stays installed.
func (v *View) Unsub(s *Subscription) {
	if s == nil {
		return
	}
	v.emitter.Off(s.change)
	v.adapter.Unsubscribe(s.prop, s.token)
}
