package element

import (
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements never have children and render without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// RenderToString renders the tree rooted at root to HTML markup. The output
// depends only on the tree, so the same tree always yields the same string.
func RenderToString(root Node) (string, error) {
	var b strings.Builder
	if err := render(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

func render(b *strings.Builder, n Node) error {
	if n.kind == fragmentNode {
		for _, c := range n.children {
			if err := render(b, c); err != nil {
				return err
			}
		}
		return nil
	}

	hn, err := toHTML(n)
	if err != nil {
		return err
	}
	if hn == nil {
		return nil
	}
	if err := html.Render(b, hn); err != nil {
		return fmt.Errorf("element: render <%s>: %w", n.tag, err)
	}
	return nil
}

// toHTML converts n to an x/net/html node. Fragments are flattened into the
// parent. A nil node with a nil error means n produces no output.
func toHTML(n Node) (*html.Node, error) {
	switch n.kind {
	case textNode:
		if n.text == "" {
			return nil, nil
		}
		return &html.Node{Type: html.TextNode, Data: n.text}, nil
	case rawNode:
		if n.text == "" {
			return nil, nil
		}
		return &html.Node{Type: html.RawNode, Data: n.text}, nil
	case elementNode:
	default:
		return nil, fmt.Errorf("element: unexpected fragment")
	}

	tag := strings.ToLower(strings.TrimSpace(n.tag))
	if tag == "" {
		return nil, fmt.Errorf("element: empty tag name")
	}
	if !isValidTag(tag) {
		return nil, fmt.Errorf("element: invalid tag name %q", n.tag)
	}
	if voidElements[tag] && hasContent(n.children) {
		return nil, fmt.Errorf("element: void element <%s> cannot have children", tag)
	}

	hn := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, a := range n.attrs {
		if !isValidAttrKey(a.Key) {
			return nil, fmt.Errorf("element: invalid attribute %q on <%s>", a.Key, tag)
		}
		hn.Attr = append(hn.Attr, html.Attribute{Key: a.Key, Val: a.Value})
	}
	if err := appendChildren(hn, n.children); err != nil {
		return nil, err
	}
	if rawTextElements[tag] {
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if (c.Type == html.TextNode || c.Type == html.RawNode) && strings.Contains(c.Data, "</") {
				return nil, fmt.Errorf("element: text inside <%s> cannot contain \"</\"", tag)
			}
		}
	}
	return hn, nil
}

// isValidTag reports whether tag matches [a-z][a-z0-9-]*.
func isValidTag(tag string) bool {
	for i, r := range tag {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return tag != ""
}

// isValidAttrKey rejects keys that would end the attribute or the tag
// early when written out.
func isValidAttrKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r <= ' ' || r == 0x7f || strings.ContainsRune("\"'<>/=", r) {
			return false
		}
	}
	return true
}

func appendChildren(parent *html.Node, children []Node) error {
	for _, c := range children {
		if c.kind == fragmentNode {
			if err := appendChildren(parent, c.children); err != nil {
				return err
			}
			continue
		}
		hc, err := toHTML(c)
		if err != nil {
			return err
		}
		if hc != nil {
			parent.AppendChild(hc)
		}
	}
	return nil
}

func hasContent(children []Node) bool {
	for _, c := range children {
		if !c.IsEmpty() {
			return true
		}
	}
	return false
}

// rawTextElements have their text children written out unescaped.
var rawTextElements = map[string]bool{
	"iframe": true, "noembed": true, "noframes": true, "noscript": true,
	"plaintext": true, "script": true, "style": true, "xmp": true,
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func sanitize(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy.Sanitize(markup)
}
