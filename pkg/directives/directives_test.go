package directives_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bindview/pkg/directives"
	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/view"
)

func setup(t *testing.T, model map[string]any, opts ...view.Option) *view.View {
	t.Helper()
	v, err := view.New(model, opts...)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	if err := v.Use(directives.Defaults); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	return v
}

func render(t *testing.T, v *view.View, markup string) {
	t.Helper()
	if _, err := v.RenderHTML(markup); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func assertHTML(t *testing.T, v *view.View, want string) {
	t.Helper()
	got, err := v.HTML()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("html mismatch (-want +got):\n%s", diff)
	}
}

func mustSet(t *testing.T, v *view.View, prop string, value any) {
	t.Helper()
	if err := v.Set(prop, value); err != nil {
		t.Fatalf("set %s: %v", prop, err)
	}
}

func TestDefaults_Order(t *testing.T) {
	v := setup(t, map[string]any{})
	want := []view.Name{
		"each", "if", "unless", "show", "hide",
		"bind-value", "bind-checked",
		"on-click", "on-input", "on-change", "on-submit",
		"html", "text",
	}
	if diff := cmp.Diff(want, v.Registry().Names()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_SharedRegistry(t *testing.T) {
	registry := view.NewRegistry()
	if err := directives.Register(registry); err != nil {
		t.Fatalf("register: %v", err)
	}
	v, err := view.New(map[string]any{"ok": true}, view.WithRegistry(registry))
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	render(t, v, `<p show="ok">x</p>`)
	assertHTML(t, v, `<p show="ok">x</p>`)
}

func TestParseEach(t *testing.T) {
	cases := []struct {
		value     string
		wantAlias string
		wantPath  string
		wantErr   bool
	}{
		{value: "todo in todos", wantAlias: "todo", wantPath: "todos"},
		{value: "  user.tags ", wantAlias: "item", wantPath: "user.tags"},
		{value: "todo of todos", wantErr: true},
		{value: "", wantErr: true},
	}
	for _, tc := range cases {
		alias, path, err := directives.ParseEach(tc.value)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseEach(%q): expected error", tc.value)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseEach(%q): %v", tc.value, err)
		}
		if alias != tc.wantAlias || path != tc.wantPath {
			t.Fatalf("ParseEach(%q) = %q, %q", tc.value, alias, path)
		}
	}
}

func TestEach_RendersAndRebuildsRows(t *testing.T) {
	v := setup(t, map[string]any{"items": []any{"a", "b"}})
	render(t, v, `<ul><li each="item in items">{{item}}-{{index}}</li></ul>`)

	assertHTML(t, v, `<ul><!-- each: item in items --><li>a-0</li><li>b-1</li></ul>`)
	if got := len(v.Children()); got != 2 {
		t.Fatalf("expected 2 row views, got %d", got)
	}

	mustSet(t, v, "items", []string{"c"})
	assertHTML(t, v, `<ul><!-- each: item in items --><li>c-0</li></ul>`)
	if got := len(v.Children()); got != 1 {
		t.Fatalf("expected 1 row view, got %d", got)
	}

	mustSet(t, v, "items", nil)
	assertHTML(t, v, `<ul><!-- each: item in items --></ul>`)
}

func TestEach_RowsUseParentDelegate(t *testing.T) {
	var clicked []string
	delegate := view.Delegate{
		"pick": func(ev *dom.Event) error {
			clicked = append(clicked, dom.TextContent(ev.CurrentTarget))
			return nil
		},
	}
	v := setup(t, map[string]any{"tags": []any{"go", "html"}}, view.WithDelegate(delegate))
	render(t, v, `<div><button each="tag in tags" on-click="pick">{{tag}}</button></div>`)

	second := v.Root().LastChild
	if err := v.Dispatch(second, "click", ""); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if diff := cmp.Diff([]string{"html"}, clicked); diff != "" {
		t.Fatalf("clicked mismatch (-want +got):\n%s", diff)
	}
}

func TestEach_RootElementFails(t *testing.T) {
	v := setup(t, map[string]any{"items": []any{"a"}})
	if _, err := v.RenderHTML(`<li each="item in items">{{item}}</li>`); err == nil {
		t.Fatalf("expected error for a detached each element")
	}
}

func TestIf_TogglesSubview(t *testing.T) {
	v := setup(t, map[string]any{"visible": true, "name": "Ann"})
	render(t, v, `<div><p if="visible">{{name}}</p></div>`)
	assertHTML(t, v, `<div><!-- if: visible --><p>Ann</p></div>`)

	mustSet(t, v, "name", "Bo")
	assertHTML(t, v, `<div><!-- if: visible --><p>Bo</p></div>`)

	mustSet(t, v, "visible", false)
	assertHTML(t, v, `<div><!-- if: visible --></div>`)
	if got := len(v.Children()); got != 0 {
		t.Fatalf("expected the branch view to be destroyed, got %d children", got)
	}

	mustSet(t, v, "name", "Cy")
	mustSet(t, v, "visible", true)
	assertHTML(t, v, `<div><!-- if: visible --><p>Cy</p></div>`)
}

func TestIf_Comparison(t *testing.T) {
	v := setup(t, map[string]any{"level": 2})
	render(t, v, `<nav><a if="level == 2">admin</a><a unless="level == 2">user</a></nav>`)
	assertHTML(t, v, `<nav><!-- if: level == 2 --><a>admin</a><!-- unless: level == 2 --></nav>`)

	mustSet(t, v, "level", 1)
	assertHTML(t, v, `<nav><!-- if: level == 2 --><!-- unless: level == 2 --><a>user</a></nav>`)
}

func TestIf_InvalidCondition(t *testing.T) {
	v := setup(t, map[string]any{})
	if _, err := v.RenderHTML(`<div><p if="a &&">x</p></div>`); err == nil {
		t.Fatalf("expected a condition parse error")
	}
}

func TestHTML_Sanitizes(t *testing.T) {
	v := setup(t, map[string]any{"body": `<b>bold</b><script>alert(1)</script>`})
	render(t, v, `<div html="body">{{ignored}}</div>`)
	assertHTML(t, v, `<div html="body"><b>bold</b></div>`)

	mustSet(t, v, "body", `<em>new</em>`)
	assertHTML(t, v, `<div html="body"><em>new</em></div>`)
}

func TestSanitize_Empty(t *testing.T) {
	if got := directives.Sanitize("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestText_EscapesAndSkipsMarkers(t *testing.T) {
	v := setup(t, map[string]any{"name": "<i>Ann</i>", "other": "x"})
	render(t, v, `<p text="name">{{other}}</p>`)
	assertHTML(t, v, `<p text="name">&lt;i&gt;Ann&lt;/i&gt;</p>`)

	mustSet(t, v, "name", "{{other}}")
	assertHTML(t, v, `<p text="name">{{other}}</p>`)
}

func TestShowHide(t *testing.T) {
	v := setup(t, map[string]any{"ready": false})
	render(t, v, `<div><p show="ready">a</p><p hide="ready">b</p></div>`)
	assertHTML(t, v, `<div><p show="ready" hidden="">a</p><p hide="ready">b</p></div>`)

	mustSet(t, v, "ready", true)
	assertHTML(t, v, `<div><p show="ready">a</p><p hide="ready" hidden="">b</p></div>`)
}

func TestBindValue_TwoWay(t *testing.T) {
	v := setup(t, map[string]any{"name": "Ann"})
	render(t, v, `<form><input id="name" bind-value="name"/></form>`)
	assertHTML(t, v, `<form><input id="name" bind-value="name" value="Ann"/></form>`)

	input := dom.ByID(v.Root(), "name")
	if err := v.Dispatch(input, "input", "Bo"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if diff := cmp.Diff("Bo", v.Get("name")); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
	assertHTML(t, v, `<form><input id="name" bind-value="name" value="Bo"/></form>`)
}

func TestBindValue_Textarea(t *testing.T) {
	v := setup(t, map[string]any{"bio": "hello"})
	render(t, v, `<form><textarea bind-value="bio"></textarea></form>`)
	assertHTML(t, v, `<form><textarea bind-value="bio">hello</textarea></form>`)
}

func TestBindChecked(t *testing.T) {
	v := setup(t, map[string]any{"done": false})
	render(t, v, `<label><input id="done" type="checkbox" bind-checked="done"/></label>`)
	assertHTML(t, v, `<label><input id="done" type="checkbox" bind-checked="done"/></label>`)

	box := dom.ByID(v.Root(), "done")
	if err := v.Dispatch(box, "change", "true"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if diff := cmp.Diff(true, v.Get("done")); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
	assertHTML(t, v, `<label><input id="done" type="checkbox" bind-checked="done" checked=""/></label>`)

	if err := v.Dispatch(box, "change", "maybe"); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestOn_CallsDelegateMethod(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	delegate := view.Delegate{
		"save": func(ev *dom.Event) error {
			calls++
			return nil
		},
		"fail": func() error { return boom },
	}
	v := setup(t, map[string]any{}, view.WithDelegate(delegate))
	render(t, v, `<form on-submit="save"><button id="go" on-click="fail">go</button></form>`)

	if err := v.Dispatch(v.Root(), "submit", ""); err != nil {
		t.Fatalf("dispatch submit: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}

	err := v.Dispatch(dom.ByID(v.Root(), "go"), "click", "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOn_MissingMethod(t *testing.T) {
	v := setup(t, map[string]any{})
	if _, err := v.RenderHTML(`<button on-click="nope">x</button>`); err == nil {
		t.Fatalf("expected an error for a missing delegate method")
	}
}

func TestOn_MissingMethodSuggestsClosest(t *testing.T) {
	delegate := view.Delegate{
		"save":  func() error { return nil },
		"reset": func() error { return nil },
	}
	v := setup(t, map[string]any{}, view.WithDelegate(delegate))

	_, err := v.RenderHTML(`<button on-click="sav">x</button>`)
	if err == nil {
		t.Fatalf("expected an error for a misspelled delegate method")
	}
	if !strings.Contains(err.Error(), `did you mean "save"?`) {
		t.Fatalf("expected a suggestion, got %v", err)
	}
}

func TestText_KeepsAttributeDirectivesOnSameElement(t *testing.T) {
	clicks := 0
	delegate := view.Delegate{
		"go": func(*dom.Event) error {
			clicks++
			return nil
		},
	}
	v := setup(t, map[string]any{"label": "Go", "visible": false}, view.WithDelegate(delegate))
	render(t, v, `<button id="b" text="label" on-click="go" show="visible">x</button>`)

	button := dom.ByID(v.Root(), "b")
	if got := dom.TextContent(button); got != "Go" {
		t.Fatalf("text = %q, want %q", got, "Go")
	}
	if !dom.HasAttr(button, "hidden") {
		t.Fatalf("expected hidden while visible is false")
	}
	if err := v.Dispatch(button, "click", ""); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if clicks != 1 {
		t.Fatalf("expected one click, got %d", clicks)
	}

	if err := v.Set("visible", true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if dom.HasAttr(button, "hidden") {
		t.Fatalf("expected hidden removed once visible")
	}
}
