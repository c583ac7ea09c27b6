package node

import (
	"errors"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// ErrEmptyTag is returned when an element node has no tag name.
var ErrEmptyTag = errors.New("node: element has empty tag")

// ErrInvalidAttr is returned when an attribute key is not a valid HTML
// attribute name.
var ErrInvalidAttr = errors.New("node: invalid attribute name")

// Render writes the HTML for n to w. A nil node renders nothing.
//
// Attributes are written in sorted key order so output is deterministic.
func Render(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindElement:
		return renderElement(w, n)
	case KindText:
		_, err := io.WriteString(w, html.EscapeString(n.Text))
		return err
	case KindFragment:
		for _, c := range n.Children {
			if err := Render(w, c); err != nil {
				return err
			}
		}
		return nil
	case KindRaw:
		_, err := io.WriteString(w, n.Text)
		return err
	default:
		return fmt.Errorf("node: unknown kind %d", n.Kind)
	}
}

// RenderString renders n and returns the HTML as a string.
func RenderString(n *Node) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderElement(w io.Writer, n *Node) error {
	if n.Tag == "" {
		return ErrEmptyTag
	}

	if _, err := fmt.Fprintf(w, "<%s", n.Tag); err != nil {
		return err
	}
	if err := renderAttrs(w, n.Attrs); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if IsVoidElement(n.Tag) {
		return nil
	}

	for _, c := range n.Children {
		if err := Render(w, c); err != nil {
			return fmt.Errorf("<%s>: %w", n.Tag, err)
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", n.Tag)
	return err
}

func renderAttrs(w io.Writer, attrs map[string]any) error {
	if len(attrs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !validAttrName(key) {
			return fmt.Errorf("%w: %q", ErrInvalidAttr, key)
		}

		var err error
		switch v := attrs[key].(type) {
		case nil:
			continue
		case bool:
			if !v {
				continue
			}
			_, err = fmt.Fprintf(w, " %s", key)
		case string:
			_, err = fmt.Fprintf(w, ` %s="%s"`, key, html.EscapeString(v))
		default:
			_, err = fmt.Fprintf(w, ` %s="%s"`, key, html.EscapeString(fmt.Sprint(v)))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// validAttrName reports whether key can be written as an attribute name
// without changing the structure of the surrounding tag.
func validAttrName(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r <= 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return false
		case r == '"', r == '\'', r == '>', r == '<', r == '/', r == '=', r == '&', r == '`':
			return false
		case r == 0xfffd:
			return false
		}
	}
	return true
}
