package directives

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-bindview/pkg/dom"
	"github.com/goliatone/go-bindview/pkg/view"
)

// IndexKey is the row model key holding the item position.
const IndexKey = "index"

const defaultAlias = "item"

// ParseEach splits an each expression, "alias in path" or a bare path, into
// its alias and collection path.
func ParseEach(value string) (alias, path string, err error) {
	fields := strings.Fields(value)
	switch {
	case len(fields) == 1:
		return defaultAlias, fields[0], nil
	case len(fields) == 3 && fields[1] == "in":
		return fields[0], fields[2], nil
	default:
		return "", "", fmt.Errorf("each: expected \"alias in path\", got %q", value)
	}
}

// EachHandler repeats the element once per item of a collection. The
// element is replaced by a placeholder comment and each copy is rendered by
// its own subview with the model {alias: item, "index": i}. The rows are
// rebuilt whenever the collection property changes.
func EachHandler(b *view.Binding) error {
	b.Skip = true

	alias, path, err := ParseEach(b.Value())
	if err != nil {
		return err
	}

	el := b.Element()
	template := dom.Clone(el)
	dom.RemoveAttr(template, string(b.Name()))

	placeholder := dom.Comment(" each: " + b.Value() + " ")
	if err := dom.Replace(el, placeholder); err != nil {
		return fmt.Errorf("each: %w", err)
	}

	l := &list{
		view:        b.View(),
		template:    template,
		placeholder: placeholder,
		alias:       alias,
		path:        path,
	}
	return watchProp(b, l.render)
}

type list struct {
	view        *view.View
	template    *html.Node
	placeholder *html.Node
	alias       string
	path        string
	rows        []*view.View
}

func (l *list) render(value any) error {
	l.clear()

	items := collect(value)
	prev := l.placeholder
	for i, item := range items {
		row, err := l.view.Subview(map[string]any{l.alias: item, IndexKey: i})
		if err != nil {
			return fmt.Errorf("each: row %d: %w", i, err)
		}
		node := dom.Clone(l.template)
		if err := row.Render(node); err != nil {
			return fmt.Errorf("each: row %d: %w", i, err)
		}
		if prev.Parent != nil {
			if err := dom.InsertAfter(prev, node); err != nil {
				return fmt.Errorf("each: row %d: %w", i, err)
			}
		}
		l.rows = append(l.rows, row)
		prev = node
	}
	return nil
}

func (l *list) clear() {
	for _, row := range l.rows {
		if row.Rendered() {
			_ = row.Destroy()
		}
	}
	l.rows = nil
}

func collect(value any) []any {
	switch typed := value.(type) {
	case nil:
		return nil
	case []any:
		return typed
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	default:
		return []any{value}
	}
}
