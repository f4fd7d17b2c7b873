package render

import (
	"html"
	"slices"
	"strings"

	"calevent/internal/style"
)

// Node is a renderer-neutral element tree. The HTML writer and the
// terminal renderer both consume it.
type Node struct {
	Tag   string
	Key   string
	Class string
	Style []style.Decl
	Attrs map[string]string
	// Text is emitted before Children.
	Text     string
	Children []*Node
}

func el(tag, class string, children ...*Node) *Node {
	return &Node{Tag: tag, Class: class, Children: children}
}

func text(tag, class, s string) *Node {
	return &Node{Tag: tag, Class: class, Text: s}
}

// HasClass reports whether class is one of n's class tokens.
func (n *Node) HasClass(class string) bool {
	if n == nil {
		return false
	}
	return slices.Contains(strings.Fields(n.Class), class)
}

// Find returns the first node, depth first, carrying class.
func (n *Node) Find(class string) *Node {
	if n == nil {
		return nil
	}
	if n.HasClass(class) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(class); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates all text in the subtree.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.walkText(&b)
	return b.String()
}

func (n *Node) walkText(b *strings.Builder) {
	b.WriteString(n.Text)
	for _, c := range n.Children {
		c.walkText(b)
	}
}

// StyleValue returns the value of a style property, or "".
func (n *Node) StyleValue(prop string) string {
	if n == nil {
		return ""
	}
	for _, d := range n.Style {
		if d.Property == prop {
			return d.Value
		}
	}
	return ""
}

// HTML returns n serialized as a string. Text and attribute values are
// escaped; style declarations are expected to come from the style package,
// which drops unsafe values.
func HTML(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	tag := n.Tag
	if !validTag(tag) {
		tag = "div"
	}

	b.WriteString("<" + tag)
	if n.Key != "" {
		writeAttr(b, "data-key", n.Key)
	}
	if n.Class != "" {
		writeAttr(b, "class", n.Class)
	}
	if len(n.Style) > 0 {
		writeAttr(b, "style", style.Attributes{Extra: n.Style}.CSS())
	}
	names := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		if !safeAttrName(k) {
			continue
		}
		writeAttr(b, k, n.Attrs[k])
	}
	b.WriteString(">")

	b.WriteString(html.EscapeString(n.Text))
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</" + tag + ">")
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}

func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// safeAttrName rejects event handler attributes and anything that is not
// a plain lower-case name.
func safeAttrName(name string) bool {
	if name == "" || strings.HasPrefix(name, "on") {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
