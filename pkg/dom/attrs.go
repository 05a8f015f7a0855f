package dom

import "golang.org/x/net/html"

// Attrs indexes the attributes of n by name. Later duplicates win.
func Attrs(n *html.Node) map[string]string {
	if n == nil || len(n.Attr) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(n.Attr))
	for _, attr := range n.Attr {
		out[attr.Key] = attr.Val
	}
	return out
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether n carries the named attribute.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets or adds the named attribute.
func SetAttr(n *html.Node, key, value string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr drops every attribute with the given name.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Key != key {
			kept = append(kept, attr)
		}
	}
	n.Attr = kept
}

// ToggleAttr adds a valueless attribute when on is true and removes it otherwise.
func ToggleAttr(n *html.Node, key string, on bool) {
	if on {
		SetAttr(n, key, "")
		return
	}
	RemoveAttr(n, key)
}
