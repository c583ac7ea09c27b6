// Package node provides a small display tree that render functions return
// and that is rendered to HTML on the server.
//
// Trees are built with [El] and the tag helpers:
//
//	node.Div(node.Class("counter"),
//	    node.P(node.Textf("%d", state.Count)),
//	    node.Form(node.Attr{Key: "method", Value: "post"},
//	        node.Button("+1"),
//	    ),
//	)
//
// Text is always escaped. Use [Raw] for trusted markup.
package node

import "fmt"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <p>, ...
	KindText                 // escaped text
	KindFragment             // children without a wrapper
	KindRaw                  // trusted HTML, written as-is
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Node is one entry of the display tree.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    map[string]any
	Children []*Node
	Text     string // for KindText and KindRaw
}

// Attr is a single element attribute.
//
// String values render as key="value", true renders the bare key, and
// false or nil omit the attribute entirely.
type Attr struct {
	Key   string
	Value any
}

// El creates an element node.
//
// Arguments may be nil, [Attr], []Attr, *Node, []*Node or string (a text
// child). Any other argument type panics, as it is a programming error.
func El(tag string, args ...any) *Node {
	n := &Node{Kind: KindElement, Tag: tag}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			n.setAttr(v)
		case []Attr:
			for _, a := range v {
				n.setAttr(a)
			}
		case *Node:
			if v != nil {
				n.Children = append(n.Children, v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					n.Children = append(n.Children, c)
				}
			}
		case string:
			n.Children = append(n.Children, Text(v))
		default:
			panic(fmt.Sprintf("node: unsupported argument type %T for <%s>", arg, tag))
		}
	}
	return n
}

func (n *Node) setAttr(a Attr) {
	if a.Key == "" {
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[a.Key] = a.Value
}

// Text creates an escaped text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Textf creates an escaped text node from a format string.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapping element.
func Fragment(children ...*Node) *Node {
	n := &Node{Kind: KindFragment}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Raw creates a node whose markup is written without escaping.
// The caller is responsible for the markup being safe.
func Raw(html string) *Node {
	return &Node{Kind: KindRaw, Text: html}
}
