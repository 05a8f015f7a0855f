package adapter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type profile struct {
	Name string
	tags []string
}

func TestMapGet_Paths(t *testing.T) {
	m := Wrap(map[string]any{
		"name": "Ann",
		"nil":  nil,
		"user": map[string]any{
			"address": map[string]any{"city": "Lisbon"},
		},
		"items":   []any{"a", "b"},
		"profile": &profile{Name: "Bo"},
		"labels":  map[string]string{"x": "y"},
	})

	cases := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{path: "name", want: "Ann", wantOK: true},
		{path: "nil", want: nil, wantOK: true},
		{path: "user.address.city", want: "Lisbon", wantOK: true},
		{path: "items.1", want: "b", wantOK: true},
		{path: "items.7", wantOK: false},
		{path: "profile.Name", want: "Bo", wantOK: true},
		{path: "profile.tags", wantOK: false},
		{path: "labels.x", want: "y", wantOK: true},
		{path: "missing", wantOK: false},
		{path: "user..city", wantOK: false},
		{path: "", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := m.Get(tc.path)
			if ok != tc.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tc.path, ok, tc.wantOK)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Get(%q) mismatch (-want +got):\n%s", tc.path, diff)
			}
		})
	}
}

func TestMapSet_CreatesIntermediateMaps(t *testing.T) {
	m := Wrap(nil)
	if err := m.Set("a.b.c", 3); err != nil {
		t.Fatalf("set: %v", err)
	}
	want := map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 3}},
	}
	if diff := cmp.Diff(want, m.Data()); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestMapSet_RejectsNonMapIntermediate(t *testing.T) {
	m := Wrap(map[string]any{"a": "scalar"})
	if err := m.Set("a.b", 1); err == nil {
		t.Fatal("expected error writing through a scalar")
	}
	if err := m.Set("", 1); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNewMap_Models(t *testing.T) {
	if _, err := NewMap(nil); err != nil {
		t.Fatalf("nil model: %v", err)
	}
	if _, err := NewMap(map[string]any{}); err != nil {
		t.Fatalf("map model: %v", err)
	}
	_, err := NewMap(42)
	if !errors.Is(err, ErrUnsupportedModel) {
		t.Fatalf("expected ErrUnsupportedModel, got %v", err)
	}
}

func TestMapSubscribe_NotifiesExactPath(t *testing.T) {
	m := Wrap(nil)
	var got []any
	m.Subscribe("a", func(v any) { got = append(got, v) })

	_ = m.Set("a", 1)
	_ = m.Set("a.b", 2)
	_ = m.Set("b", 3)

	if diff := cmp.Diff([]any{1}, got); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestMapSubscribe_SharedAcrossAdapters(t *testing.T) {
	data := map[string]any{}
	first := Wrap(data)
	second := Wrap(data)

	var seen []string
	first.Subscribe("name", func(v any) { seen = append(seen, "first:"+v.(string)) })
	second.Subscribe("name", func(v any) { seen = append(seen, "second:"+v.(string)) })

	if err := second.Set("name", "Ann"); err != nil {
		t.Fatalf("set: %v", err)
	}

	want := []string{"first:Ann", "second:Ann"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestMapUnsubscribe(t *testing.T) {
	data := map[string]any{}
	first := Wrap(data)
	second := Wrap(data)

	calls := 0
	token := first.Subscribe("x", func(any) { calls++ })

	second.Unsubscribe("x", token)
	_ = first.Set("x", 1)
	if calls != 1 {
		t.Fatalf("foreign adapter removed subscription; calls = %d", calls)
	}

	first.Unsubscribe("x", token)
	_ = first.Set("x", 2)
	if calls != 1 {
		t.Fatalf("expected no call after unsubscribe; calls = %d", calls)
	}
}

func TestMapUnsubscribeAll_OnlyOwnTokens(t *testing.T) {
	data := map[string]any{}
	first := Wrap(data)
	second := Wrap(data)

	var firstCalls, secondCalls int
	first.Subscribe("x", func(any) { firstCalls++ })
	first.Subscribe("y", func(any) { firstCalls++ })
	second.Subscribe("x", func(any) { secondCalls++ })

	first.UnsubscribeAll()
	_ = second.Set("x", 1)
	_ = second.Set("y", 1)

	if firstCalls != 0 {
		t.Fatalf("first adapter still notified %d times", firstCalls)
	}
	if secondCalls != 1 {
		t.Fatalf("second adapter notified %d times, want 1", secondCalls)
	}
}

func TestMapSubscribe_UnsubscribeDuringNotify(t *testing.T) {
	m := Wrap(nil)
	var token Token
	calls := 0
	token = m.Subscribe("x", func(any) {
		calls++
		m.Unsubscribe("x", token)
	})
	m.Subscribe("x", func(any) { calls++ })

	_ = m.Set("x", 1)
	_ = m.Set("x", 2)

	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}
