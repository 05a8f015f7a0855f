// Package dom holds the element-tree primitives Views bind against. Trees are
// golang.org/x/net/html nodes; nothing here knows about models or bindings.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrNoRoot is returned when markup contains no element.
	ErrNoRoot = errors.New("dom: markup has no root element")
	// ErrMultipleRoots is returned when markup has more than one top-level element.
	ErrMultipleRoots = errors.New("dom: markup has more than one root element")
)

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// ParseFragment parses markup in a <body> context and returns the detached
// top-level nodes.
func ParseFragment(markup string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext())
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}

// ParseRoot parses markup that must contain exactly one top-level element.
// Surrounding whitespace and comments are dropped.
func ParseRoot(markup string) (*html.Node, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	var root *html.Node
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			if root != nil {
				return nil, ErrMultipleRoots
			}
			root = n
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return nil, ErrMultipleRoots
			}
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// Render serialises n and its subtree.
func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", errors.New("dom: node is nil")
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("dom: render: %w", err)
	}
	return buf.String(), nil
}

// InnerHTML serialises the children of n.
func InnerHTML(n *html.Node) (string, error) {
	if n == nil {
		return "", errors.New("dom: node is nil")
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("dom: render: %w", err)
		}
	}
	return buf.String(), nil
}

// SetInnerHTML replaces the children of n with parsed markup.
func SetInnerHTML(n *html.Node, markup string) error {
	if n == nil || n.Type != html.ElementNode {
		return errors.New("dom: inner html target must be an element")
	}
	context := &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("dom: parse inner html: %w", err)
	}
	RemoveChildren(n)
	for _, child := range nodes {
		n.AppendChild(child)
	}
	return nil
}

// TextContent concatenates the text nodes below n.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(TextContent(c))
	}
	return b.String()
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		n.Data = text
		return
	}
	RemoveChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Detach removes n from its parent. Detached nodes are left untouched.
func Detach(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// InsertAfter places n right after ref. ref must be attached.
func InsertAfter(ref, n *html.Node) error {
	if ref == nil || ref.Parent == nil {
		return errors.New("dom: insert reference is detached")
	}
	Detach(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
	return nil
}

// Replace puts n where old was and detaches old.
func Replace(old, n *html.Node) error {
	if old == nil || old.Parent == nil {
		return errors.New("dom: replaced node is detached")
	}
	Detach(n)
	old.Parent.InsertBefore(n, old)
	old.Parent.RemoveChild(old)
	return nil
}

// Clone deep-copies n. The copy is detached.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(Clone(c))
	}
	return out
}

// Comment builds a detached comment node, used as a placeholder by
// directives that take their element out of the tree.
func Comment(text string) *html.Node {
	return &html.Node{Type: html.CommentNode, Data: text}
}
