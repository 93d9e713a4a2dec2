package views

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedElements never reach the page, content included.
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Base:     true,
	atom.Form:     true,
	atom.Template: true,
}

// sanitizeHTML parses an authored HTML fragment and removes active content:
// script-like elements, comments, event handler attributes, data-*
// attributes and script-capable URLs. Formatting markup is kept as written.
func sanitizeHTML(fragment string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if dropped(n) {
			continue
		}
		clean(n)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func clean(n *html.Node) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if !unsafeAttr(a) {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if dropped(c) {
			n.RemoveChild(c)
		} else {
			clean(c)
		}
		c = next
	}
}

func dropped(n *html.Node) bool {
	switch n.Type {
	case html.CommentNode:
		return true
	case html.ElementNode:
		return droppedElements[n.DataAtom]
	default:
		return false
	}
}

func unsafeAttr(a html.Attribute) bool {
	key := strings.ToLower(a.Key)
	// data-* attributes carry client-side expressions once the page
	// runtime scans the document.
	if strings.HasPrefix(key, "on") || strings.HasPrefix(key, "data-") {
		return true
	}
	switch key {
	case "href", "src", "action", "formaction", "srcset", "xlink:href":
		v := strings.Map(func(r rune) rune {
			if r <= ' ' {
				return -1
			}
			return r
		}, strings.ToLower(a.Val))
		for _, scheme := range unsafeSchemes {
			if strings.HasPrefix(v, scheme) {
				return true
			}
		}
	}
	return false
}

var unsafeSchemes = []string{"javascript:", "vbscript:", "data:"}
