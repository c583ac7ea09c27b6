package node

import "strings"

// voidElements cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether tag is an HTML void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

func Div(args ...any) *Node { return El("div", args...) }
func P(args ...any) *Node { return El("p", args...) }
func Span(args ...any) *Node { return El("span", args...) }
func H1(args ...any) *Node { return El("h1", args...) }
func H2(args ...any) *Node { return El("h2", args...) }
func Pre(args ...any) *Node { return El("pre", args...) }
func Ul(args ...any) *Node { return El("ul", args...) }
func Li(args ...any) *Node { return El("li", args...) }
func A(args ...any) *Node { return El("a", args...) }
func Form(args ...any) *Node { return El("form", args...) }
func Button(args ...any) *Node { return El("button", args...) }
func Input(args ...any) *Node { return El("input", args...) }
func Label(args ...any) *Node { return El("label", args...) }

func ID(id string) Attr { return Attr{Key: "id", Value: id} }
func Class(classes ...string) Attr { return Attr{Key: "class", Value: strings.Join(classes, " ")} }
func Style(style string) Attr { return Attr{Key: "style", Value: style} }
func Href(href string) Attr { return Attr{Key: "href", Value: href} }
func Name(name string) Attr { return Attr{Key: "name", Value: name} }
func Type(typ string) Attr { return Attr{Key: "type", Value: typ} }
func Value(value string) Attr { return Attr{Key: "value", Value: value} }
func Disabled(disabled bool) Attr { return Attr{Key: "disabled", Value: disabled} }
func Data(key, value string) Attr { return Attr{Key: "data-" + key, Value: value} }

// PostForm returns the attributes of a form that POSTs back to the page,
// which is how the default update handlers receive input.
func PostForm() []Attr {
	return []Attr{{Key: "method", Value: "post"}}
}
