package events

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChangeEventProp(t *testing.T) {
	evt := Change("user.name")
	if string(evt) != "change user.name" {
		t.Fatalf("unexpected event name %q", evt)
	}
	prop, ok := evt.Prop()
	if !ok || prop != "user.name" {
		t.Fatalf("Prop() = %q, %v", prop, ok)
	}
	if _, ok := Destroyed.Prop(); ok {
		t.Fatal("destroyed is not a change event")
	}
}

func TestEmitterOrderAndOff(t *testing.T) {
	em := NewEmitter()
	var got []string
	first := em.On("ping", func(p any) { got = append(got, "first:"+p.(string)) })
	em.On("ping", func(p any) { got = append(got, "second:"+p.(string)) })

	em.Emit("ping", "a")
	em.Off(first)
	em.Emit("ping", "b")
	em.Emit("other", "c")

	want := []string{"first:a", "second:a", "second:b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("deliveries mismatch (-want +got):\n%s", diff)
	}
	if em.Count("ping") != 1 {
		t.Fatalf("Count = %d, want 1", em.Count("ping"))
	}
}

func TestEmitterOnce(t *testing.T) {
	em := NewEmitter()
	calls := 0
	em.Once(Destroyed, func(any) { calls++ })
	em.Emit(Destroyed, nil)
	em.Emit(Destroyed, nil)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestEmitterOffAll(t *testing.T) {
	em := NewEmitter()
	calls := 0
	em.On(Change("a"), func(any) { calls++ })
	em.On(Destroyed, func(any) { calls++ })
	em.OffAll()
	em.Emit(Change("a"), 1)
	em.Emit(Destroyed, nil)
	if calls != 0 {
		t.Fatalf("calls = %d after OffAll", calls)
	}
}

func TestEmitterListenerAddedDuringEmit(t *testing.T) {
	em := NewEmitter()
	calls := 0
	em.On("tick", func(any) {
		em.On("tick", func(any) { calls++ })
	})
	em.Emit("tick", nil)
	if calls != 0 {
		t.Fatalf("listener added during emit fired in the same round")
	}
	em.Emit("tick", nil)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
