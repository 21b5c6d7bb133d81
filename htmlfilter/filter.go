// Package htmlfilter selects the elements of a parsed html document with simplified css selectors.
//
// Supported selectors:
//   - Tag selector: div.
//   - Class selector: div.class0.class1, a trailing * matches the class as a substring, e.g. div.Variant*.
//   - Id selector: div#id.
package htmlfilter

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Node struct {
	*html.Node
}

// Parse parses the html document and returns its root.
func Parse(s string) (Node, error) {
	doc, err := html.Parse(strings.NewReader(s))
	return Node{doc}, err
}

// Find returns an iterator over the children of n the html search selector.
// The result will contain only the elements from the level of the first Node which matches the selection criteria.
//
// The search follows a combination of depth-first and breadth-first preorder: depth-first until firth occurrence is
// found, afterward, only its siblings are scanned.
func (n Node) Find(selector string) iter.Seq[Node] {
	match := readSelector(selector)
	var parentOfFirstFound *html.Node
	for nn := range n.Descendants() {
		if match(nn) {
			parentOfFirstFound = nn.Parent
			break
		}
	}
	return func(yield func(Node) bool) {
		if parentOfFirstFound == nil {
			return
		}
		for nn := range parentOfFirstFound.ChildNodes() {
			if match(nn) && !yield(Node{nn}) {
				return
			}
		}
	}
}

// FindAll returns an iterator over all descendants of n matching the selector, in document order.
func (n Node) FindAll(selector string) iter.Seq[Node] {
	match := readSelector(selector)
	return func(yield func(Node) bool) {
		for nn := range n.Descendants() {
			if match(nn) && !yield(Node{nn}) {
				return
			}
		}
	}
}

// First returns the first descendant of n matching the selector.
func (n Node) First(selector string) (Node, bool) {
	for nn := range n.FindAll(selector) {
		return nn, true
	}
	return Node{}, false
}

// Attr returns the value of the attribute key.
func (n Node) Attr(key string) (string, bool) {
	if n.Node == nil {
		return "", false
	}
	for _, att := range n.Node.Attr {
		if att.Key == key {
			return att.Val, true
		}
	}
	return "", false
}

// Text returns the text content of n with the whitespaces collapsed.
func (n Node) Text() string {
	if n.Node == nil {
		return ""
	}
	var o []string
	for nn := range n.Descendants() {
		if nn.Type == html.TextNode {
			o = append(o, strings.Fields(nn.Data)...)
		}
	}
	return strings.Join(o, " ")
}

type selectorFn func(s string) bool

func classSelector(v []string) selectorFn {
	return func(s string) bool {
		var cnt int
		classVal := strings.Fields(s)
		for _, vv := range v {
			greedy := strings.HasSuffix(vv, "*")
			switch greedy {
			case true:
				vv = strings.TrimSuffix(vv, "*")
				if strings.Contains(s, vv) {
					cnt++
				}

			case false:
				if slices.Contains(classVal, vv) {
					cnt++
				}
			}
		}
		return len(v) == cnt
	}
}

func idSelector(v string) selectorFn {
	return func(s string) bool {
		return v == s
	}
}

// readSelector returns the matcher of the selector. It panics on unknown tags.
func readSelector(s string) func(*html.Node) bool {
	var (
		elementAtom   atom.Atom
		attrKeyRef    string
		attrValFilter selectorFn
	)
	idSplit := strings.SplitN(s, "#", 2)
	classSplit := strings.Split(s, ".")
	switch {
	case len(idSplit) == 2:
		elementAtom = atom.Lookup([]byte(idSplit[0]))
		attrKeyRef = "id"
		attrValFilter = idSelector(idSplit[1])
	case len(classSplit) > 1:
		elementAtom = atom.Lookup([]byte(classSplit[0]))
		attrKeyRef = "class"
		attrValFilter = classSelector(classSplit[1:])
	default:
		elementAtom = atom.Lookup([]byte(s))
	}
	if elementAtom == 0 {
		panic("unsupported selector provided")
	}

	return func(nn *html.Node) bool {
		if nn.Type != html.ElementNode || nn.DataAtom != elementAtom {
			return false
		}
		if attrKeyRef == "" {
			return true
		}
		for _, att := range nn.Attr {
			if att.Key == attrKeyRef && attrValFilter(att.Val) {
				return true
			}
		}
		return false
	}
}
