// Package element describes UI structure as an immutable in-memory tree and
// renders it to HTML markup.
//
// Trees are built declaratively:
//
//	element.Div(nil,
//		element.H1(nil, element.Text("Hello")),
//		element.P(element.Attrs{"class": "lead"}, element.Text("world")),
//	)
//
// A Node never changes after construction. Constructors copy the maps and
// slices they are given, and accessors hand out copies.
package element

import (
	"fmt"
	"sort"
)

type kind uint8

const (
	fragmentNode kind = iota
	elementNode
	textNode
	rawNode
)

// Attrs is the attribute set of an element. Keys are emitted in sorted order.
type Attrs map[string]string

// Attr is a single rendered attribute.
type Attr struct {
	Key   string
	Value string
}

// Node is one node of an element tree. The zero Node is an empty fragment
// and renders to the empty string.
type Node struct {
	kind     kind
	tag      string
	attrs    []Attr
	children []Node
	text     string
}

// El builds an element node with the given tag, attributes and children.
func El(tag string, attrs Attrs, children ...Node) Node {
	return Node{
		kind:     elementNode,
		tag:      tag,
		attrs:    sortedAttrs(attrs),
		children: cloneNodes(children),
	}
}

// Text builds a text node. The content is escaped when rendered.
func Text(s string) Node {
	return Node{kind: textNode, text: s}
}

// Textf builds a text node from a format string.
func Textf(format string, args ...any) Node {
	return Text(fmt.Sprintf(format, args...))
}

// HTML builds a node from raw markup. The markup is sanitized with a
// user-generated-content policy and then emitted as is.
func HTML(markup string) Node {
	return Node{kind: rawNode, text: sanitize(markup)}
}

// Fragment groups children without a wrapping element.
func Fragment(children ...Node) Node {
	return Node{kind: fragmentNode, children: cloneNodes(children)}
}

// Tag helpers build the named element.
func Div(attrs Attrs, children ...Node) Node { return El("div", attrs, children...) }
func Span(attrs Attrs, children ...Node) Node { return El("span", attrs, children...) }
func P(attrs Attrs, children ...Node) Node { return El("p", attrs, children...) }
func H1(attrs Attrs, children ...Node) Node { return El("h1", attrs, children...) }
func Ul(attrs Attrs, children ...Node) Node { return El("ul", attrs, children...) }
func Li(attrs Attrs, children ...Node) Node { return El("li", attrs, children...) }
func Main(attrs Attrs, children ...Node) Node { return El("main", attrs, children...) }

// A builds a link.
func A(href string, children ...Node) Node {
	return El("a", Attrs{"href": href}, children...)
}

// IsElement reports whether n is an element node.
func (n Node) IsElement() bool { return n.kind == elementNode }

// IsEmpty reports whether n renders to nothing: a fragment without children
// or an empty text node.
func (n Node) IsEmpty() bool {
	switch n.kind {
	case fragmentNode:
		for _, c := range n.children {
			if !c.IsEmpty() {
				return false
			}
		}
		return true
	case textNode, rawNode:
		return n.text == ""
	}
	return false
}

// Tag returns the element tag name, or "" for non-element nodes.
func (n Node) Tag() string { return n.tag }

// Text returns the content of a text or raw node.
func (n Node) Text() string { return n.text }

// Attrs returns a copy of the element's attributes in render order.
func (n Node) Attrs() []Attr {
	if len(n.attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Children returns a copy of the node's children.
func (n Node) Children() []Node { return cloneNodes(n.children) }

func sortedAttrs(attrs Attrs) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(attrs))
	for k, v := range attrs {
		out = append(out, Attr{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func cloneNodes(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}
