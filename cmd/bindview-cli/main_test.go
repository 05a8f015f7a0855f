package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bindview"
)

func newSession(t *testing.T, script Script) (*session, *bytes.Buffer) {
	t.Helper()

	model, err := loadModel(filepath.Join("testdata", "model.yaml"))
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	markup, err := os.ReadFile(filepath.Join("testdata", "form.html"))
	if err != nil {
		t.Fatalf("read template: %v", err)
	}

	var out bytes.Buffer
	s := &session{out: &out}
	v, err := bindview.NewWithDefaults(model, bindview.WithDelegate(s.delegate(script.Handlers)))
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	s.view = v
	if _, err := v.RenderHTML(string(markup)); err != nil {
		t.Fatalf("render: %v", err)
	}
	return s, &out
}

func TestLoadScript(t *testing.T) {
	script, err := loadScript(filepath.Join("testdata", "script.yaml"))
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	want := Script{
		Handlers: map[string]Action{"save": {Set: "saved", Value: true}},
		Steps: []Step{
			{Dispatch: "input", Target: "name", Value: "Bo"},
			{Dispatch: "submit", Target: "profile"},
			{Print: true},
		},
	}
	if diff := cmp.Diff(want, script); diff != "" {
		t.Fatalf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadModel_EmptyPath(t *testing.T) {
	model, err := loadModel("")
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	if diff := cmp.Diff(map[string]any{}, model); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestRunScript(t *testing.T) {
	script, err := loadScript(filepath.Join("testdata", "script.yaml"))
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	s, out := newSession(t, script)

	if err := s.run(script.Steps); err != nil {
		t.Fatalf("run: %v", err)
	}

	printed := out.String()
	for _, want := range []string{`value="Bo"`, "<p>Hello Bo</p>", "<p>Saved</p>"} {
		if !strings.Contains(printed, want) {
			t.Fatalf("expected %q in output:\n%s", want, printed)
		}
	}
	if diff := cmp.Diff(true, s.view.Get("saved")); diff != "" {
		t.Fatalf("saved mismatch (-want +got):\n%s", diff)
	}
}

func TestRunScript_Errors(t *testing.T) {
	s, _ := newSession(t, Script{})

	cases := []struct {
		name string
		step Step
	}{
		{name: "empty step", step: Step{}},
		{name: "missing target", step: Step{Dispatch: "click"}},
		{name: "unknown target", step: Step{Dispatch: "click", Target: "nope"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.run([]Step{tc.step}); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

type fakePrompter struct {
	answers []string
}

func (f *fakePrompter) next() (string, error) {
	if len(f.answers) == 0 {
		return "", errAborted
	}
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

func (f *fakePrompter) Select(context.Context, string, []string) (string, error) {
	return f.next()
}

func (f *fakePrompter) Input(context.Context, string, string) (string, error) {
	return f.next()
}

func TestInteract(t *testing.T) {
	s, out := newSession(t, Script{})
	p := &fakePrompter{answers: []string{
		actionSet, "name", "Cy",
		actionSet, "", "ignored",
		actionPrint,
		actionQuit,
	}}

	if err := s.interact(context.Background(), p); err != nil {
		t.Fatalf("interact: %v", err)
	}

	printed := out.String()
	if !strings.Contains(printed, "error: ") {
		t.Fatalf("expected the failed step to be reported:\n%s", printed)
	}
	if !strings.Contains(printed, "<p>Hello Cy</p>") {
		t.Fatalf("expected the updated html:\n%s", printed)
	}
}

func TestInteract_AbortEndsSession(t *testing.T) {
	s, _ := newSession(t, Script{})
	p := &fakePrompter{answers: []string{actionSet, "name"}}

	if err := s.interact(context.Background(), p); err != nil {
		t.Fatalf("interact: %v", err)
	}
	if diff := cmp.Diff("Ann", s.view.Get("name")); diff != "" {
		t.Fatalf("name mismatch (-want +got):\n%s", diff)
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		raw  string
		want any
	}{
		{raw: "true", want: true},
		{raw: " 3 ", want: 3},
		{raw: "[a, b]", want: []any{"a", "b"}},
		{raw: "Ann Lee", want: "Ann Lee"},
		{raw: "", want: ""},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, parseValue(tc.raw)); diff != "" {
			t.Fatalf("parseValue(%q) mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}
