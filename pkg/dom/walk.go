package dom

import "golang.org/x/net/html"

// Visitor is called for every node in pre-order. Returning skip=true keeps
// Walk out of the node's children; a non-nil error stops the walk.
type Visitor func(n *html.Node) (skip bool, err error)

// Walk visits root and its descendants depth-first, pre-order.
//
// The children of a node are collected after the node itself was visited.
// Nodes a visitor inserts next to the node being visited are therefore not
// walked, and nodes a visitor detaches are still handed to the visitor, which
// should check InTree when that matters.
func Walk(root *html.Node, visit Visitor) error {
	if root == nil || visit == nil {
		return nil
	}
	skip, err := visit(root)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}
	children := make([]*html.Node, 0, 4)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	for _, child := range children {
		if err := Walk(child, visit); err != nil {
			return err
		}
	}
	return nil
}

// InTree reports whether n is root or one of its descendants. A nil or
// detached node is not in the tree.
func InTree(root, n *html.Node) bool {
	if root == nil || n == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}

// Find returns the first node in pre-order for which match holds.
func Find(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	_ = Walk(root, func(n *html.Node) (bool, error) {
		if found != nil {
			return true, nil
		}
		if match(n) {
			found = n
			return true, nil
		}
		return false, nil
	})
	return found
}

// ByID returns the element whose id attribute equals id.
func ByID(root *html.Node, id string) *html.Node {
	return Find(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		value, ok := Attr(n, "id")
		return ok && value == id
	})
}
