// CLAUDE:SUMMARY Parse/query/replace/render wrapper over golang.org/x/net/html used by the bundler.
// Package htmldoc is a small document tree on top of golang.org/x/net/html.
//
// The lifecycle is parse, query (by id or simple selector), mutate
// (replace one element with another), render.
//
//	doc, err := htmldoc.ParseFile("ptd.html")
//	old := doc.ByID("js_imports")
//	err = doc.Replace(old, htmldoc.NewElement("script", htmldoc.A("src", "ptd.js")))
//	err = doc.Render(w)
package htmldoc

import (
	"bytes"
	"errors"
	"io"
	"os"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrDetached is returned by Replace when the target node has no parent.
var ErrDetached = errors.New("htmldoc: node is not attached to the document")

// Document is a parsed HTML document.
type Document struct {
	root *html.Node
}

// Parse reads and parses a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseFile reads path and parses it. Read errors are returned as the
// *fs.PathError from os.ReadFile so callers can tell them from parse errors.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

// ByID returns the first element whose id attribute equals id, or nil.
func (d *Document) ByID(id string) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, "id"); ok && v == id {
				found = n
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(d.root)
	return found
}

// Query returns all elements matching a simple CSS selector.
// See querySelectorAll for the supported subset.
func (d *Document) Query(selector string) []*html.Node {
	return querySelectorAll(d.root, selector)
}

// Replace puts repl where old is and detaches old.
func (d *Document) Replace(old, repl *html.Node) error {
	if old == nil || old.Parent == nil {
		return ErrDetached
	}
	if repl.Parent != nil {
		repl.Parent.RemoveChild(repl)
	}
	parent := old.Parent
	parent.InsertBefore(repl, old)
	parent.RemoveChild(old)
	return nil
}

// Render serializes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// A is shorthand for an html.Attribute with no namespace.
func A(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// NewElement builds a detached element node. Attribute order is kept on render.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     append([]html.Attribute(nil), attrs...),
	}
}

// Attr returns the value of key on n and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
