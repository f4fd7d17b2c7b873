package render

import (
	"strings"
	"testing"

	"calevent/internal/style"
)

func TestHTMLEscapes(t *testing.T) {
	n := &Node{
		Tag:   "div",
		Key:   "k",
		Class: "a b",
		Style: []style.Decl{{Property: "color", Value: "#fff"}},
		Attrs: map[string]string{
			"title":     `x"><script>`,
			"onclick":   "alert(1)",
			"Bad Name":  "1",
			"data-zeta": "z",
			"data-alfa": "a",
		},
		Text:     "<b>Lunch & Learn</b>",
		Children: []*Node{{Tag: "script>", Text: "child"}},
	}

	got := HTML(n)
	want := `<div data-key="k" class="a b" style="color: #fff;" data-alfa="a" data-zeta="z" title="x&#34;&gt;&lt;script&gt;">` +
		`&lt;b&gt;Lunch &amp; Learn&lt;/b&gt;<div>child</div></div>`
	if got != want {
		t.Errorf("HTML =\n%s\nwant\n%s", got, want)
	}
}

func TestFindAndText(t *testing.T) {
	tree := el("div", "root",
		el("div", "row",
			text("p", "title main", "Hello"),
			text("p", "sub", " world")))

	if tree.Find("main") == nil || tree.Find("missing") != nil {
		t.Errorf("Find by class token failed")
	}
	if got := tree.TextContent(); got != "Hello world" {
		t.Errorf("TextContent = %q", got)
	}
	var nilNode *Node
	if nilNode.Find("x") != nil || nilNode.TextContent() != "" || strings.Contains(HTML(nilNode), "<") {
		t.Errorf("nil node helpers should be no-ops")
	}
}
