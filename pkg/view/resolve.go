package view

import (
	"fmt"
	"log/slog"

	"github.com/goliatone/go-bindview/pkg/events"
)

// thisProp resolves to the model itself.
const thisProp = "this"

// Lookup resolves prop. The model wins whenever the adapter defines the
// path, even with a nil value; otherwise the delegate is consulted.
func (v *View) Lookup(prop string) (any, bool) {
	if prop == thisProp {
		return v.model, true
	}
	if value, ok := v.adapter.Get(prop); ok {
		return value, true
	}
	return v.delegate.resolve(prop)
}

// Get returns the value of prop, or nil when it is undefined.
func (v *View) Get(prop string) any {
	value, _ := v.Lookup(prop)
	return value
}

// Pair is one property assignment for SetAll.
type Pair struct {
	Prop  string
	Value any
}

// Set writes value through the adapter and then emits the change event for
// prop. While the write is in flight the adapter's own notification for
// prop is ignored by this view's subscriptions, so each subscriber runs once.
func (v *View) Set(prop string, value any) error {
	if v.destroyed {
		return fmt.Errorf("%w: set %q", ErrDestroyed, prop)
	}

	v.writing[prop]++
	defer func() {
		v.writing[prop]--
		if v.writing[prop] <= 0 {
			delete(v.writing, prop)
		}
	}()

	if err := v.adapter.Set(prop, value); err != nil {
		return fmt.Errorf("view: set %q: %w", prop, err)
	}
	v.log.Debug("property set", slog.String("prop", prop))
	v.emitter.Emit(events.Change(prop), value)
	return nil
}

// SetAll applies pairs in order, as consecutive Set calls.
func (v *View) SetAll(pairs ...Pair) error {
	for _, pair := range pairs {
		if err := v.Set(pair.Prop, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

func (v *View) inFlight(prop string) bool {
	return v.writing[prop] > 0
}
