// internal/rewrite/dom.go
//
// Small helpers over the x/net/html node tree.
//
// Context
// -------
// The slug engine operates on a parsed HTML document the way its browser
// counterpart operates on the live DOM.  These helpers cover the handful
// of DOM idioms the driver needs: attribute access, class tests, text
// content (optionally skipping subtrees), descendant queries, and ancestor
// matching.  All of them are read-only except setAttr.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package rewrite

import (
	"strings"

	"golang.org/x/net/html"
)

// attr returns the value of the named attribute, "" when absent.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// setAttr overwrites or appends the named attribute.
func setAttr(n *html.Node, name, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

// hasClass reports whether the element carries the given class token.
func hasClass(n *html.Node, class string) bool {
	for _, token := range strings.Fields(attr(n, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

// isAnchor reports whether n is an <a> element with an href attribute —
// the generic "has href" selector.
func isAnchor(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "a" && attr(n, "href") != ""
}

// textContent concatenates every text node under n, skipping subtrees for
// which skip returns true.  A nil skip keeps everything.
func textContent(n *html.Node, skip func(*html.Node) bool) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && skip != nil && skip(c) {
			return
		}
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return b.String()
}

// firstChildText returns the text content of n's first child only — the
// equivalent of DOM `firstChild.textContent`.  Headings put their title
// text first and bury decorations in later children.
func firstChildText(n *html.Node) string {
	if n.FirstChild == nil {
		return ""
	}
	return textContent(n.FirstChild, nil)
}

// findDescendant returns the first descendant (depth-first) matching the
// predicate, or nil.
func findDescendant(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findDescendant(c, match); found != nil {
			return found
		}
	}
	return nil
}

// forEachAnchor invokes fn for n itself (when it is an anchor) and for
// every anchor descendant, in document order.
func forEachAnchor(n *html.Node, fn func(*html.Node)) {
	if isAnchor(n) {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		forEachAnchor(c, fn)
	}
}

// closestMatch walks from n up through its ancestors and reports whether
// any element (n included) satisfies the predicate — DOM `closest`.
func closestMatch(n *html.Node, match func(*html.Node) bool) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && match(cur) {
			return true
		}
	}
	return false
}

// findHeading returns the first <h2> carrying the given class, or nil.
func findHeading(doc *html.Node, class string) *html.Node {
	if doc.Type == html.ElementNode && doc.Data == "h2" && hasClass(doc, class) {
		return doc
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if found := findHeading(c, class); found != nil {
			return found
		}
	}
	return nil
}
