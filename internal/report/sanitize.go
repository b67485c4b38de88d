package report

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The narrative service is told to answer with a small tag set (headers,
// paragraphs, lists, bold). Anything else it sends is either unwrapped or,
// for active content, dropped with its children. Attributes never survive:
// externally drafted HTML crosses a trust boundary before it becomes the
// active report.
var (
	allowedTags = map[string]bool{
		"h1": true, "h2": true, "h3": true, "h4": true,
		"p": true, "ul": true, "ol": true, "li": true,
		"b": true, "strong": true, "i": true, "em": true,
		"br": true, "hr": true, "div": true, "span": true,
	}
	droppedTags = map[string]bool{
		"script": true, "style": true, "iframe": true,
		"object": true, "embed": true, "link": true, "meta": true,
	}
	voidTags = map[string]bool{"br": true, "hr": true}
)

// Sanitize reduces externally supplied HTML to the allowed tag set. Malformed
// markup is tolerated; the parser repairs what it can.
func Sanitize(input string) (string, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(input), ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range nodes {
		writeSanitized(&b, n)
	}
	return b.String(), nil
}

func writeSanitized(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		if droppedTags[name] {
			return
		}
		if !allowedTags[name] {
			// Unknown but inert element: keep its children only.
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeSanitized(b, c)
			}
			return
		}
		b.WriteString("<" + name + ">")
		if voidTags[name] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeSanitized(b, c)
		}
		b.WriteString("</" + name + ">")
	default:
		// Comments, doctypes and the like are dropped.
	}
}
