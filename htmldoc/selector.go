package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// querySelectorAll returns all nodes matching a simple CSS selector.
// Supported:
//   - tag: "script", "div"
//   - .class: ".imports"
//   - #id: "#js_imports"
//   - tag.class, tag#id
//   - tag[attr]: "script[src]"
//   - tag[attr=val]: "script[type=text/javascript]"
//   - parts separated by space (descendant combinator)
func querySelectorAll(root *html.Node, selector string) []*html.Node {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}

	matches := matchSimple(root, parts[0])

	for i := 1; i < len(parts); i++ {
		var next []*html.Node
		seen := make(map[*html.Node]bool)
		for _, parent := range matches {
			for c := parent.FirstChild; c != nil; c = c.NextSibling {
				for _, n := range matchSimple(c, parts[i]) {
					if !seen[n] {
						seen[n] = true
						next = append(next, n)
					}
				}
			}
		}
		matches = next
	}

	return matches
}

// matchSimple walks root (inclusive) and collects nodes matching one selector part.
func matchSimple(root *html.Node, sel string) []*html.Node {
	m := parseSimpleSelector(sel)
	var results []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if matchesSelector(n, m) {
			results = append(results, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return results
}

type simpleSelector struct {
	tag     string
	atom    atom.Atom
	id      string
	class   string
	attrKey string
	attrVal string
	hasVal  bool
}

func parseSimpleSelector(sel string) simpleSelector {
	var s simpleSelector

	if idx := strings.IndexByte(sel, '['); idx >= 0 {
		attrPart := strings.TrimRight(sel[idx+1:], "]")
		sel = sel[:idx]
		if eq := strings.IndexByte(attrPart, '='); eq >= 0 {
			s.attrKey = attrPart[:eq]
			s.attrVal = strings.Trim(attrPart[eq+1:], `"'`)
			s.hasVal = true
		} else {
			s.attrKey = attrPart
		}
	}

	if idx := strings.IndexByte(sel, '#'); idx >= 0 {
		s.id = sel[idx+1:]
		sel = sel[:idx]
	}

	if idx := strings.IndexByte(sel, '.'); idx >= 0 {
		s.class = sel[idx+1:]
		sel = sel[:idx]
	}

	s.tag = strings.ToLower(sel)
	s.atom = atom.Lookup([]byte(s.tag))
	return s
}

func matchesSelector(n *html.Node, s simpleSelector) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch {
	case s.atom != 0:
		if n.DataAtom != s.atom {
			return false
		}
	case s.tag != "" && n.Data != s.tag:
		return false
	}
	if s.id != "" {
		if v, _ := Attr(n, "id"); v != s.id {
			return false
		}
	}
	if s.class != "" {
		v, _ := Attr(n, "class")
		found := false
		for _, c := range strings.Fields(v) {
			if c == s.class {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if s.attrKey != "" {
		v, ok := Attr(n, s.attrKey)
		if !ok {
			return false
		}
		if s.hasVal && v != s.attrVal {
			return false
		}
	}
	return true
}
