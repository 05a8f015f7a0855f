// Package interpolate detects and evaluates {{ marker }} interpolations in
// attribute values and text content.
//
// A marker holds a keypath optionally followed by pongo2 filters:
//
//	{{ user.name }}
//	{{ user.name|upper }}
//	{{ price|floatformat:2 }}
//
// The keypath is resolved by the caller (a View resolves it through its
// model and delegate); only the filter chain is handed to pongo2.
package interpolate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

var keypathPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z0-9_$]+)*$`)

// Has reports whether raw contains at least one complete marker.
func Has(raw string) bool {
	idx := strings.Index(raw, openMarker)
	if idx < 0 {
		return false
	}
	return strings.Contains(raw[idx+len(openMarker):], closeMarker)
}

// IsKeypath reports whether s is a plain dotted property path.
func IsKeypath(s string) bool {
	return keypathPattern.MatchString(s)
}

// Segment is either literal text or a marker.
type Segment struct {
	Literal string
	Marker  bool
	// Expr is the trimmed marker body.
	Expr string
	// Path is the keypath at the head of Expr, empty when the head is a
	// literal.
	Path string
	// Filters is the filter chain after the first '|', without it.
	Filters string
}

// Template is a parsed interpolation string.
type Template struct {
	raw      string
	segments []Segment
}

// Parse splits raw into literal and marker segments.
func Parse(raw string) (*Template, error) {
	tpl := &Template{raw: raw}
	rest := raw
	for {
		start := strings.Index(rest, openMarker)
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+len(openMarker):], closeMarker)
		if end < 0 {
			return nil, fmt.Errorf("interpolate: unterminated marker in %q", raw)
		}
		end += start + len(openMarker)

		if start > 0 {
			tpl.segments = append(tpl.segments, Segment{Literal: rest[:start]})
		}
		body := strings.TrimSpace(rest[start+len(openMarker) : end])
		segment, err := parseMarker(body)
		if err != nil {
			return nil, fmt.Errorf("interpolate: %q: %w", raw, err)
		}
		tpl.segments = append(tpl.segments, segment)
		rest = rest[end+len(closeMarker):]
	}
	if rest != "" {
		tpl.segments = append(tpl.segments, Segment{Literal: rest})
	}
	return tpl, nil
}

// MustParse panics when raw cannot be parsed.
func MustParse(raw string) *Template {
	tpl, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return tpl
}

func parseMarker(body string) (Segment, error) {
	if body == "" {
		return Segment{}, errors.New("empty marker")
	}
	head, filters := splitFilters(body)
	segment := Segment{Marker: true, Expr: body, Filters: filters}
	if IsKeypath(head) {
		segment.Path = head
	}
	if segment.Path == "" && head == "" {
		return Segment{}, errors.New("marker has filters but no value")
	}
	return segment, nil
}

// splitFilters cuts body at the first '|' outside a quoted string.
func splitFilters(body string) (string, string) {
	var quote byte
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
				continue
			}
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '|':
			return strings.TrimSpace(body[:i]), strings.TrimSpace(body[i+1:])
		}
	}
	return strings.TrimSpace(body), ""
}

// Raw returns the source string.
func (t *Template) Raw() string {
	return t.raw
}

// Segments returns a copy of the parsed segments.
func (t *Template) Segments() []Segment {
	return append([]Segment(nil), t.segments...)
}

// Keypaths lists the distinct keypaths referenced by markers, in order.
func (t *Template) Keypaths() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, segment := range t.segments {
		if !segment.Marker || segment.Path == "" {
			continue
		}
		if _, ok := seen[segment.Path]; ok {
			continue
		}
		seen[segment.Path] = struct{}{}
		out = append(out, segment.Path)
	}
	return out
}

// Resolver returns the current value of a keypath.
type Resolver func(path string) any

// Execute renders the template. A nil engine uses the shared default engine.
func (t *Template) Execute(resolve Resolver, engine *Engine) (string, error) {
	if engine == nil {
		engine = Default()
	}
	var b strings.Builder
	for _, segment := range t.segments {
		if !segment.Marker {
			b.WriteString(segment.Literal)
			continue
		}
		out, err := t.executeMarker(segment, resolve, engine)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func (t *Template) executeMarker(segment Segment, resolve Resolver, engine *Engine) (string, error) {
	if segment.Path == "" {
		return engine.Eval(segment.Expr)
	}
	var value any
	if resolve != nil {
		value = resolve(segment.Path)
	}
	if segment.Filters == "" {
		return Format(value), nil
	}
	return engine.Apply(value, segment.Filters)
}

// Format renders a resolved value as text. nil renders as the empty string.
func Format(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []byte:
		return string(typed)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(value)
	}
}
