// Package expr evaluates the small boolean conditions used by conditional
// directives (if, unless, show, hide).
//
// Supported forms:
//   - truthiness: `done`
//   - negation: `!done`
//   - comparisons against literals: `count == 3`, `status != "archived"`, `owner == null`
//   - composition: `a && !b`, `(a || b) && c`
//
// Identifiers are dotted keypaths resolved through a Lookup.
package expr

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Lookup resolves a keypath; nil means undefined.
type Lookup func(path string) any

// Expr is a compiled condition.
type Expr struct {
	source      string
	root        node
	identifiers []string
}

// Compile parses a condition. An empty condition is always true.
func Compile(source string) (*Expr, error) {
	trimmed := strings.TrimSpace(source)
	out := &Expr{source: trimmed}
	if trimmed == "" {
		return out, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	stream := &tokenStream{tokens: tokens}
	root, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	out.root = root
	out.identifiers = stream.identifiers
	return out, nil
}

// MustCompile panics when source does not parse.
func MustCompile(source string) *Expr {
	e, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return e
}

// Eval evaluates a condition in one call.
func Eval(source string, lookup Lookup) (bool, error) {
	e, err := Compile(source)
	if err != nil {
		return false, err
	}
	return e.Eval(lookup), nil
}

// Source returns the trimmed condition text.
func (e *Expr) Source() string {
	return e.source
}

// Identifiers lists the distinct keypaths the condition reads, in order.
func (e *Expr) Identifiers() []string {
	return append([]string(nil), e.identifiers...)
}

// Eval evaluates the condition. Comparisons coerce the looked-up value to
// the literal's type, so `count == 3` holds for "3" as well as 3.
func (e *Expr) Eval(lookup Lookup) bool {
	if e == nil || e.root == nil {
		return true
	}
	if lookup == nil {
		lookup = func(string) any { return nil }
	}
	return e.root.eval(lookup)
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch == '!' && peek(1) == '=':
			tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
			i += 2
		case ch == '!':
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
		case ch == '=':
			if peek(1) != '=' {
				return nil, errors.New("expr: unexpected '='; use '=='")
			}
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			i += 2
		case ch == '&':
			if peek(1) != '&' {
				return nil, errors.New("expr: unexpected '&'; use '&&'")
			}
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if peek(1) != '|' {
				return nil, errors.New("expr: unexpected '|'; use '||'")
			}
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			value, next, err := readString(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = next
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\n\r()!=&|", rune(input[i])) {
				i++
			}
			tokens = append(tokens, classify(input[start:i]))
		}
	}
	return tokens, nil
}

func readString(input string, start int) (string, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[start+1 : i]
		if quote == '\'' {
			body = strings.ReplaceAll(body, `"`, `\"`)
			body = strings.ReplaceAll(body, `\'`, `'`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return "", 0, fmt.Errorf("expr: invalid string literal: %w", err)
		}
		return value, i + 1, nil
	}
	return "", 0, errors.New("expr: unterminated string literal")
}

func classify(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}
	case "null", "nil", "undefined":
		return token{kind: tokenNull, raw: "null"}
	}
	if ch := raw[0]; (ch >= '0' && ch <= '9') || ch == '-' || ch == '+' {
		return token{kind: tokenNumber, raw: raw}
	}
	return token{kind: tokenIdentifier, raw: raw}
}

type node interface {
	eval(lookup Lookup) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(lookup Lookup) bool { return n.left.eval(lookup) || n.right.eval(lookup) }

type andNode struct{ left, right node }

func (n andNode) eval(lookup Lookup) bool { return n.left.eval(lookup) && n.right.eval(lookup) }

type notNode struct{ inner node }

func (n notNode) eval(lookup Lookup) bool { return !n.inner.eval(lookup) }

type truthyNode struct{ identifier string }

func (n truthyNode) eval(lookup Lookup) bool { return Truthy(lookup(n.identifier)) }

type compareNode struct {
	identifier string
	negate     bool
	literal    token
}

func (n compareNode) eval(lookup Lookup) bool {
	value := lookup(n.identifier)
	var equal bool
	switch n.literal.kind {
	case tokenNull:
		equal = value == nil
	case tokenBool:
		equal = coerceBool(value) == (n.literal.raw == "true")
	case tokenNumber:
		want, _ := strconv.ParseFloat(n.literal.raw, 64)
		got, ok := coerceNumber(value)
		equal = ok && got == want
	default:
		equal = coerceString(value) == n.literal.raw
	}
	if n.negate {
		return !equal
	}
	return equal
}

type tokenStream struct {
	tokens      []token
	pos         int
	identifiers []string
}

func (s *tokenStream) addIdentifier(raw string) {
	for _, existing := range s.identifiers {
		if existing == raw {
			return
		}
	}
	s.identifiers = append(s.identifiers, raw)
}

func parseOr(s *tokenStream) (node, error) {
	left, err := parseAnd(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenOr) {
		right, err := parseAnd(s)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(s *tokenStream) (node, error) {
	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenAnd) {
		right, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(s *tokenStream) (node, error) {
	if s.match(tokenNot) {
		inner, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parsePrimary(s)
}

func parsePrimary(s *tokenStream) (node, error) {
	if s.match(tokenLParen) {
		inner, err := parseOr(s)
		if err != nil {
			return nil, err
		}
		if !s.match(tokenRParen) {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, nil
	}

	if s.pos >= len(s.tokens) {
		return nil, errors.New("expr: unexpected end of expression")
	}
	ident := s.tokens[s.pos]
	if ident.kind != tokenIdentifier {
		return nil, fmt.Errorf("expr: expected identifier, got %q", ident.raw)
	}
	s.pos++
	s.addIdentifier(ident.raw)

	for _, op := range []tokenKind{tokenEq, tokenNeq} {
		if !s.match(op) {
			continue
		}
		if s.pos >= len(s.tokens) {
			return nil, errors.New("expr: missing literal")
		}
		lit := s.tokens[s.pos]
		s.pos++
		switch lit.kind {
		case tokenString, tokenNumber, tokenBool, tokenNull:
		case tokenIdentifier:
			// bare words compare as strings
			lit.kind = tokenString
		default:
			return nil, fmt.Errorf("expr: expected literal, got %q", lit.raw)
		}
		if lit.kind == tokenNumber {
			if _, err := strconv.ParseFloat(lit.raw, 64); err != nil {
				return nil, fmt.Errorf("expr: invalid number literal %q", lit.raw)
			}
		}
		return compareNode{identifier: ident.raw, negate: op == tokenNeq, literal: lit}, nil
	}
	return truthyNode{identifier: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

// Truthy is the truthiness rule conditions use: nil, false, numeric zero,
// blank strings and empty collections are false.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}

func coerceBool(value any) bool {
	if s, ok := value.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return Truthy(value)
}

func coerceNumber(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
