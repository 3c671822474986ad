package adapter

import (
	"strings"

	"golang.org/x/net/html"
)

func init() {
	h := htmlAdapter{}
	register("html", h)
	register("htm", h)
}

type htmlAdapter struct{}

func (htmlAdapter) Convert(data []byte) ([]string, error) {
	return []string{FlattenHTML(string(data))}, nil
}

// FlattenHTML walks an HTML document and returns its visible text, with
// block-level elements separated by newlines, shared by the html and
// markdown adapters.
func FlattenHTML(src string) string {
	node, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return src
	}
	var b strings.Builder
	flattenNode(node, &b)
	return b.String()
}

var blockElements = map[string]struct{}{
	"p": {}, "div": {}, "br": {}, "li": {}, "tr": {}, "h1": {}, "h2": {},
	"h3": {}, "h4": {}, "h5": {}, "h6": {}, "table": {}, "ul": {}, "ol": {},
	"blockquote": {}, "pre": {},
}

func flattenNode(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flattenNode(c, b)
	}
	if n.Type == html.ElementNode {
		if _, ok := blockElements[n.Data]; ok {
			b.WriteString("\n")
		}
	}
}
